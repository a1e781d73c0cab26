// Package lexical rewrites spoken number, date and time phrases into digit
// forms so that the date layouts in dateparse can recognize them.
//
// Every function here is a pure string transform over lowercase input. Keys
// are matched case-sensitively and only on whole-word boundaries. Running a
// transform over text that is already canonical leaves it untouched.
package lexical

// YearsToDigits replaces "two thousand (and) seventeen" style phrases for the
// years 2016-2030 with ", 2017".
func YearsToDigits(s string) string {
	return yearTable.replace(s)
}

// OrdinalsToShort replaces "thirteenth" with "13th" for 1st through 31st.
func OrdinalsToShort(s string) string {
	return ordinalTable.replace(s)
}

// NumbersToDigits replaces number words 0-31, including split teens such as
// "four teen", with digits.
func NumbersToDigits(s string) string {
	return numberTable.replace(s)
}

// HourMinutesToTime replaces "one forty five" with "1:45". Only quarter hours
// are recognized.
func HourMinutesToTime(s string) string {
	return hourMinuteTable.replace(s)
}

// Normalize runs the default pipeline. Hour+minute phrases go before plain
// numbers, otherwise "four thirty" would become "4 30"; ordinals go before
// numbers so "twenty third" becomes "23rd".
func Normalize(s string) string {
	s = YearsToDigits(s)
	s = HourMinutesToTime(s)
	s = OrdinalsToShort(s)
	return NumbersToDigits(s)
}

// YearPhrases returns a copy of the year table (phrase -> four digit year).
func YearPhrases() map[string]string {
	return yearTable.snapshot()
}

// HomonymWords returns a copy of the homonym table.
func HomonymWords() map[string]string {
	return homonymTable.snapshot()
}
