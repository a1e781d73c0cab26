package lexical

import (
	"regexp"

	"github.com/antzucaro/matchr"
)

const hourSlotThreshold = 0.70

// words that sit before am/pm legitimately and must never be rewritten
var hourSlotStopWords = map[string]bool{
	"at": true, "on": true, "in": true, "by": true, "the": true, "and": true,
	"or": true, "of": true, "is": true, "it": true, "its": true, "be": true,
	"till": true, "until": true, "about": true, "around": true, "before": true,
	"after": true, "noon": true, "oclock": true,
}

var hourSlotRE = regexp.MustCompile(`\b([a-z]+)(\s+[ap]\.?m(?:\.|\b))`)

type hourWordCode struct {
	word      string
	primary   string
	secondary string
}

var hourWordCodes = buildHourWordCodes()

var numberWordSet = buildNumberWordSet()

func buildHourWordCodes() []hourWordCode {
	out := make([]hourWordCode, 0, 12)
	for hour := 1; hour <= 12; hour++ {
		p, s := matchr.DoubleMetaphone(unitWords[hour])
		out = append(out, hourWordCode{word: unitWords[hour], primary: p, secondary: s})
	}
	return out
}

func buildNumberWordSet() map[string]bool {
	out := make(map[string]bool)
	for _, w := range unitWords {
		out[w] = true
	}
	out["twenty"] = true
	out["thirty"] = true
	return out
}

// CorrectHomonyms maps phonetically confusable transcriptions back to the
// number word they most likely stand for ("won" -> "one", "ate" -> "eight").
// The token right before an am/pm marker is also compared phonetically
// against the hour words one..twelve. This is a last-resort pass: it happily
// turns "for" into "four" anywhere in the text.
func CorrectHomonyms(s string) string {
	s = homonymTable.replace(s)
	return repairHourSlot(s)
}

func repairHourSlot(s string) string {
	return hourSlotRE.ReplaceAllStringFunc(s, func(match string) string {
		parts := hourSlotRE.FindStringSubmatch(match)
		token, marker := parts[1], parts[2]
		if numberWordSet[token] || hourSlotStopWords[token] || len(token) < 2 {
			return match
		}
		if word, ok := closestHourWord(token); ok {
			return word + marker
		}
		return match
	})
}

// closestHourWord returns the hour word sharing a Double Metaphone code with
// token, ranked by Jaro-Winkler similarity.
func closestHourWord(token string) (string, bool) {
	p, s := matchr.DoubleMetaphone(token)
	if p == "" && s == "" {
		return "", false
	}

	best, bestScore := "", 0.0
	for _, hw := range hourWordCodes {
		if !codesOverlap(p, s, hw.primary, hw.secondary) {
			continue
		}
		score := matchr.JaroWinkler(token, hw.word, false)
		if score >= hourSlotThreshold && score > bestScore {
			best, bestScore = hw.word, score
		}
	}
	return best, best != ""
}

func codesOverlap(p1, s1, p2, s2 string) bool {
	for _, a := range []string{p1, s1} {
		if a == "" {
			continue
		}
		if a == p2 || a == s2 {
			return true
		}
	}
	return false
}
