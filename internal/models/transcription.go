// internal/models/transcription.go
package models

import "time"

const UnknownPersonType = "Unknown"

// DateInfo is a single extracted date/time. FullDate, when set, always agrees
// with the individual components.
type DateInfo struct {
	Year     int        `json:"year"`
	Month    int        `json:"month"`
	Day      int        `json:"day"`
	Hour     int        `json:"hour"`
	Minute   int        `json:"minute"`
	FullDate *time.Time `json:"fullDate,omitempty"`
	Text     string     `json:"text,omitempty"`
}

// NewDateInfo builds a DateInfo whose components come from t.
func NewDateInfo(t time.Time, text string) DateInfo {
	full := t
	return DateInfo{
		Year:     t.Year(),
		Month:    int(t.Month()),
		Day:      t.Day(),
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		FullDate: &full,
		Text:     text,
	}
}

// MinValueDateInfo reproduces the legacy behaviour for unparseable text:
// 0001-01-01 00:00 presented as if it were a real date.
func MinValueDateInfo(text string) DateInfo {
	return NewDateInfo(time.Time{}, text)
}

// UnsetDateInfo records a date phrase that could not be resolved.
func UnsetDateInfo(text string) DateInfo {
	return DateInfo{Text: text}
}

// IsSet reports whether a timestamp was resolved.
func (d DateInfo) IsSet() bool {
	return d.FullDate != nil
}

type LocationInfo struct {
	Location string `json:"location,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zipcode  string `json:"zipcode,omitempty"`
}

type PersonInfo struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// ExtractionResult is everything pulled out of one transcript.
type ExtractionResult struct {
	Intent              string            `json:"intent,omitempty"`
	IntentScore         float64           `json:"intentScore,omitempty"`
	Transcript          string            `json:"transcript,omitempty"`
	EvaluatedTranscript string            `json:"evaluatedTranscript,omitempty"`
	Strategy            string            `json:"strategy"`
	DatePass            string            `json:"datePass,omitempty"`
	Date                DateInfo          `json:"date"`
	Dates               []DateInfo        `json:"dates,omitempty"`
	Location            LocationInfo      `json:"location"`
	Person              PersonInfo        `json:"person"`
	AdditionalData      map[string]string `json:"additionalData,omitempty"`
}
