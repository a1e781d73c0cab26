// Package dateparse pulls a single date and time out of a raw transcript by
// trying progressively more aggressive rewrites of the text.
package dateparse

import (
	"regexp"
	"strings"
	"time"

	"transcript-extractor/internal/extractor/lexical"
	"transcript-extractor/internal/extractor/segment"
	"transcript-extractor/internal/models"
)

// Pass identifies which attempt produced the date.
type Pass int

const (
	PassNone Pass = iota
	PassRaw
	PassNormalized
	PassHomonym
)

func (p Pass) String() string {
	switch p {
	case PassRaw:
		return "raw"
	case PassNormalized:
		return "normalized"
	case PassHomonym:
		return "homonym"
	}
	return "none"
}

type layout struct {
	format  string
	hasYear bool
}

// Tried in order; the first layout that parses a candidate wins.
var layouts = []layout{
	{"January 2 2006 at 3:04 PM", true},
	{"January 2 2006 at 3 PM", true},
	{"January 2 2006 3:04 PM", true},
	{"January 2 2006 3 PM", true},
	{"January 2 at 3:04 PM", false},
	{"January 2 at 3 PM", false},
	{"January 2 3:04 PM", false},
	{"January 2 3 PM", false},
}

var (
	dayOrdinalRE = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)
	spacesRE     = regexp.MustCompile(`\s+`)
)

type Option func(*Parser)

// WithClock supplies the current time used for year-less phrases.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// WithLocale sets the month names candidates are searched by.
func WithLocale(locale segment.Locale) Option {
	return func(p *Parser) {
		p.finder = segment.NewFinder(locale)
	}
}

// Parser holds no mutable state after New returns.
type Parser struct {
	finder *segment.Finder
	now    func() time.Time
}

func New(opts ...Option) *Parser {
	p := &Parser{
		finder: segment.NewFinder(segment.English),
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse tries the raw text, then the normalized text, then the normalized
// text after homonym correction. A transcript without a recognizable date is
// not an error: the zero DateInfo and PassNone come back.
func (p *Parser) Parse(transcript string) (models.DateInfo, Pass) {
	if info, ok := p.parseCandidates(transcript); ok {
		return info, PassRaw
	}

	lower := strings.ToLower(transcript)
	if info, ok := p.parseCandidates(lexical.Normalize(lower)); ok {
		return info, PassNormalized
	}

	if info, ok := p.parseCandidates(lexical.Normalize(lexical.CorrectHomonyms(lower))); ok {
		return info, PassHomonym
	}

	return models.DateInfo{}, PassNone
}

// parseCandidates returns the first candidate (longest first) that matches
// any layout.
func (p *Parser) parseCandidates(text string) (models.DateInfo, bool) {
	for _, candidate := range p.finder.Find(text) {
		if t, ok := p.parseCandidate(candidate); ok {
			return models.NewDateInfo(t, candidate), true
		}
	}
	return models.DateInfo{}, false
}

func (p *Parser) parseCandidate(candidate string) (time.Time, bool) {
	cleaned := Canonicalize(candidate)
	for _, l := range layouts {
		t, err := time.Parse(l.format, cleaned)
		if err != nil {
			continue
		}
		if !l.hasYear {
			t, err = withYear(t, p.now().Year())
			if err != nil {
				continue
			}
		}
		return t, true
	}
	return time.Time{}, false
}

// withYear moves a year-less parse into year, rejecting Feb 29 outside leap years.
func withYear(t time.Time, year int) (time.Time, error) {
	moved := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	if moved.Month() != t.Month() {
		return time.Time{}, &time.ParseError{Value: t.String(), Message: ": day out of range"}
	}
	return moved, nil
}

// Canonicalize strips day ordinals and commas and collapses whitespace so a
// candidate can be matched against the layouts.
func Canonicalize(candidate string) string {
	s := dayOrdinalRE.ReplaceAllString(candidate, "$1")
	s = strings.ReplaceAll(s, ",", " ")
	s = spacesRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
