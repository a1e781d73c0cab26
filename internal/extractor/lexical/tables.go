package lexical

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// All tables are built during package initialization and never written
// afterwards, so they are safe to share between goroutines.

var unitWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var ordinalUnitWords = []string{
	"", "first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth",
	"tenth", "eleventh", "twelfth", "thirteenth", "fourteenth", "fifteenth", "sixteenth",
	"seventeenth", "eighteenth", "nineteenth",
}

// spoken teens that speech-to-text sometimes splits in two
var spacedTeens = map[string]int{
	"thir teen":  13,
	"four teen":  14,
	"fif teen":   15,
	"six teen":   16,
	"seven teen": 17,
	"eigh teen":  18,
	"eight teen": 18,
	"nine teen":  19,
}

var quarterHourWords = map[string]string{
	"fifteen":    "15",
	"thirty":     "30",
	"forty five": "45",
	"forty-five": "45",
}

var homonymWords = map[string]string{
	"won":   "one",
	"too":   "two",
	"to":    "two",
	"tree":  "three",
	"for":   "four",
	"fore":  "four",
	"fife":  "five",
	"sicks": "six",
	"ate":   "eight",
	"nein":  "nine",
	"fort":  "fourth",
	"forth": "fourth",
	"tent":  "tenth",
}

const (
	firstYear = 2016
	lastYear  = 2030
)

var (
	yearTable       = newWordTable(buildYearPhrases(), ", ")
	ordinalTable    = newWordTable(buildOrdinals(), "")
	numberTable     = newWordTable(buildNumbers(), "")
	hourMinuteTable = newWordTable(buildHourMinutes(), "")
	homonymTable    = newWordTable(homonymWords, "")
)

// cardinalWords spells 0..31 with every accepted variant for compounds.
func cardinalWords(n int) []string {
	switch {
	case n < 20:
		return []string{unitWords[n]}
	case n == 20:
		return []string{"twenty"}
	case n < 30:
		u := unitWords[n-20]
		return []string{"twenty " + u, "twenty-" + u}
	case n == 30:
		return []string{"thirty"}
	case n == 31:
		return []string{"thirty one", "thirty-one"}
	}
	return nil
}

func ordinalWords(n int) []string {
	switch {
	case n < 20:
		return []string{ordinalUnitWords[n]}
	case n == 20:
		return []string{"twentieth"}
	case n < 30:
		o := ordinalUnitWords[n-20]
		return []string{"twenty " + o, "twenty-" + o}
	case n == 30:
		return []string{"thirtieth"}
	case n == 31:
		return []string{"thirty first", "thirty-first"}
	}
	return nil
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

func buildYearPhrases() map[string]string {
	out := make(map[string]string)
	for year := firstYear; year <= lastYear; year++ {
		digits := strconv.Itoa(year)
		for _, tail := range cardinalWords(year - 2000) {
			out["two thousand "+tail] = digits
			out["two thousand and "+tail] = digits
		}
	}
	return out
}

func buildOrdinals() map[string]string {
	out := make(map[string]string)
	for n := 1; n <= 31; n++ {
		short := strconv.Itoa(n) + ordinalSuffix(n)
		for _, w := range ordinalWords(n) {
			out[w] = short
		}
	}
	return out
}

func buildNumbers() map[string]string {
	out := make(map[string]string)
	for n := 0; n <= 31; n++ {
		for _, w := range cardinalWords(n) {
			out[w] = strconv.Itoa(n)
		}
	}
	for w, n := range spacedTeens {
		out[w] = strconv.Itoa(n)
	}
	return out
}

func buildHourMinutes() map[string]string {
	out := make(map[string]string)
	for hour := 1; hour <= 12; hour++ {
		for minuteWord, minute := range quarterHourWords {
			out[unitWords[hour]+" "+minuteWord] = fmt.Sprintf("%d:%s", hour, minute)
		}
	}
	return out
}

// wordTable replaces whole-word phrases using a single alternation. Longer
// phrases come first in the alternation so "two thousand and seventeen" wins
// over anything it starts with.
type wordTable struct {
	re     *regexp.Regexp
	values map[string]string
	prefix string
}

func newWordTable(values map[string]string, prefix string) *wordTable {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}

	return &wordTable{
		re:     regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
		values: values,
		prefix: prefix,
	}
}

func (t *wordTable) replace(s string) string {
	return t.re.ReplaceAllStringFunc(s, func(match string) string {
		return t.prefix + t.values[match]
	})
}

func (t *wordTable) snapshot() map[string]string {
	out := make(map[string]string, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}
