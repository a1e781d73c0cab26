// Package segment finds the substrings of a transcript that may hold a
// date-and-time phrase: anything from a month name up to the first following
// am/pm marker.
package segment

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// Locale supplies the month names candidates must start with.
type Locale struct {
	Tag    string
	Months [12]string
}

var English = Locale{
	Tag: "en-US",
	Months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

var locales = map[string]Locale{
	"en":    English,
	"en-US": English,
	"en-GB": English,
}

// LookupLocale resolves a locale tag; only English month names are bundled.
func LookupLocale(tag string) (Locale, error) {
	if tag == "" {
		return English, nil
	}
	if l, ok := locales[tag]; ok {
		return l, nil
	}
	return Locale{}, fmt.Errorf("unsupported locale %q", tag)
}

var meridiemRE = regexp.MustCompile(`(?i)\s*([ap])\.?\s?m\.?$`)

// Finder is safe for concurrent use once built.
type Finder struct {
	locale  Locale
	pattern *regexp2.Regexp
}

func NewFinder(locale Locale) *Finder {
	months := make([]string, 0, len(locale.Months))
	for _, m := range locale.Months {
		months = append(months, regexp2.Escape(strings.ToLower(m)))
	}

	// The capture sits inside a zero-width lookahead so that every start
	// position is tried, which yields overlapping candidates: an outer span
	// starting at an earlier month name and the inner span of a later one.
	// A marker must not follow a letter, so "team" or "adam" never ends a
	// candidate while "10am" still does.
	expr := `(?=(\b(?:` + strings.Join(months, "|") + `)\b.*?(?<![a-z])(?:[ap]\.m\.?|[ap]m\b)))`

	return &Finder{
		locale:  locale,
		pattern: regexp2.MustCompile(expr, regexp2.IgnoreCase),
	}
}

func (f *Finder) Locale() Locale {
	return f.locale
}

// Find returns every candidate, longest first, with the meridiem marker
// rewritten as " AM" or " PM". Text without a month name yields nothing.
func (f *Finder) Find(text string) []string {
	var candidates []string

	m, err := f.pattern.FindStringMatch(text)
	for err == nil && m != nil {
		for _, g := range m.Groups()[1:] {
			if len(g.Captures) == 0 {
				continue
			}
			candidates = append(candidates, g.String())
		}
		m, err = f.pattern.FindNextMatch(m)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	for i, c := range candidates {
		candidates[i] = CanonicalMeridiem(c)
	}
	return candidates
}

// CanonicalMeridiem rewrites a trailing "a.m.", "pm", "P.M" ... as " AM"/" PM".
func CanonicalMeridiem(s string) string {
	return meridiemRE.ReplaceAllStringFunc(s, func(match string) string {
		sub := meridiemRE.FindStringSubmatch(match)
		return " " + strings.ToUpper(sub[1]) + "M"
	})
}
