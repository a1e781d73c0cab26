package entity

import (
	"strings"
	"time"

	"transcript-extractor/internal/models"
)

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var timeOnlyLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3 PM",
}

// resolver parses resolution text produced by the annotation service.
type resolver struct {
	now    func() time.Time
	legacy bool
}

// parse accepts a full timestamp, a date, or a time of day. A time of day
// lands on the clock's current date.
func (r resolver) parse(text string) (time.Time, bool) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}

	upper := strings.ToUpper(text)
	for _, layout := range timeOnlyLayouts {
		t, err := time.Parse(layout, upper)
		if err != nil {
			continue
		}
		today := r.now()
		return time.Date(today.Year(), today.Month(), today.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
	}

	return time.Time{}, false
}

// resolve never drops text: a phrase that does not parse becomes an unset
// DateInfo, or the 0001-01-01 placeholder in legacy mode.
func (r resolver) resolve(text string) models.DateInfo {
	if t, ok := r.parse(text); ok {
		return models.NewDateInfo(t, text)
	}
	if r.legacy {
		return models.MinValueDateInfo(text)
	}
	return models.UnsetDateInfo(text)
}
