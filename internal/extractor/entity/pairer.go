package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"transcript-extractor/internal/models"
)

// ErrUnexpectedKind is returned when the pairer is handed anything other
// than a date or time entity.
var ErrUnexpectedKind = errors.New("INTERNAL_INVARIANT_VIOLATION")

type state int

const (
	stateNone state = iota
	stateSeenDate
	stateSeenTime
)

func (s state) String() string {
	switch s {
	case stateSeenDate:
		return "SeenDate"
	case stateSeenTime:
		return "SeenTime"
	}
	return "None"
}

// transition says whether the buffer is flushed before the entity's text is
// appended, and which state follows.
type transition struct {
	flush bool
	next  state
}

var transitions = map[state]map[models.EntityKind]transition{
	stateNone: {
		models.KindDate: {flush: false, next: stateSeenDate},
		models.KindTime: {flush: false, next: stateSeenTime},
	},
	stateSeenDate: {
		models.KindDate: {flush: true, next: stateSeenDate},
		models.KindTime: {flush: false, next: stateSeenTime},
	},
	stateSeenTime: {
		models.KindDate: {flush: true, next: stateSeenDate},
		models.KindTime: {flush: true, next: stateSeenTime},
	},
}

func step(s state, kind models.EntityKind) (transition, error) {
	t, ok := transitions[s][kind]
	if !ok {
		return transition{}, fmt.Errorf("%w: %s entity in state %s", ErrUnexpectedKind, kind, s)
	}
	return t, nil
}

type PairerOption func(*Pairer)

// WithClock supplies the date used for time-only phrases.
func WithClock(now func() time.Time) PairerOption {
	return func(p *Pairer) {
		p.resolver.now = now
	}
}

// WithLegacyMinValue makes unparseable phrases come back as 0001-01-01 00:00
// with a timestamp set, instead of unset.
func WithLegacyMinValue(enabled bool) PairerOption {
	return func(p *Pairer) {
		p.resolver.legacy = enabled
	}
}

// Pairer merges adjacent date and time entities into single dates.
type Pairer struct {
	resolver resolver
}

func NewPairer(opts ...PairerOption) *Pairer {
	p := &Pairer{resolver: resolver{now: time.Now}}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Pair walks the date and time entities in position order and returns one
// DateInfo per maximal date-then-time run. The input slice is not modified.
func (p *Pairer) Pair(entities []models.AnnotatedEntity) ([]models.DateInfo, error) {
	ordered := append([]models.AnnotatedEntity(nil), entities...)
	SortByPosition(ordered)

	var (
		out    []models.DateInfo
		buffer []string
		cur    = stateNone
	)

	for _, e := range ordered {
		t, err := step(cur, e.Kind)
		if err != nil {
			return nil, err
		}
		if t.flush {
			out = append(out, p.resolver.resolve(strings.Join(buffer, " ")))
			buffer = buffer[:0]
		}
		buffer = append(buffer, e.ResolvedText())
		cur = t.next
	}

	if len(buffer) > 0 {
		out = append(out, p.resolver.resolve(strings.Join(buffer, " ")))
	}
	return out, nil
}

// ResolveDateTimes resolves each datetime entity from its first resolved
// value. Entities without a resolution are skipped.
func (p *Pairer) ResolveDateTimes(entities []models.AnnotatedEntity) []models.DateInfo {
	var out []models.DateInfo
	for _, e := range entities {
		if e.Kind != models.KindDateTime || len(e.ResolvedValues) == 0 {
			continue
		}
		out = append(out, p.resolver.resolve(e.ResolvedValues[0].Value))
	}
	return out
}

// Split separates the entities the pairer handles from the rest.
func Split(entities []models.AnnotatedEntity) (paired, rest []models.AnnotatedEntity) {
	for _, e := range entities {
		switch e.Kind {
		case models.KindDate, models.KindTime:
			paired = append(paired, e)
		default:
			rest = append(rest, e)
		}
	}
	return paired, rest
}
