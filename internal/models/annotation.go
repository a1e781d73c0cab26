// internal/models/annotation.go
package models

import "strings"

// AnnotationResponse is the JSON returned by the NLP annotation service.
type AnnotationResponse struct {
	Query             string                `json:"query"`
	TopScoringIntent  *IntentScore          `json:"topScoringIntent,omitempty"`
	Entities          []AnnotationEntity    `json:"entities"`
	CompositeEntities []AnnotationComposite `json:"compositeEntities,omitempty"`
}

type IntentScore struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
}

type AnnotationEntity struct {
	Entity     string      `json:"entity,omitempty"`
	Type       string      `json:"type"`
	Value      string      `json:"value,omitempty"`
	StartIndex int         `json:"startIndex"`
	EndIndex   int         `json:"endIndex"`
	Resolution *Resolution `json:"resolution,omitempty"`
	Score      float64     `json:"score,omitempty"`
}

// Text returns the recognized text; composite children only carry "value".
func (e AnnotationEntity) Text() string {
	if e.Entity != "" {
		return e.Entity
	}
	return e.Value
}

type Resolution struct {
	Values []ResolvedValue `json:"values,omitempty"`
}

type ResolvedValue struct {
	Timex string `json:"timex,omitempty"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

type AnnotationComposite struct {
	ParentType string             `json:"parentType"`
	Value      string             `json:"value"`
	Children   []AnnotationEntity `json:"children"`
}

// EntityKind is the closed set of entity roles the extractor understands.
type EntityKind int

const (
	KindOther EntityKind = iota
	KindDateTime
	KindDate
	KindTime
	KindPerson
	KindLocation
	KindCity
	KindState
	KindZipcode
)

var kindNames = map[EntityKind]string{
	KindOther:    "other",
	KindDateTime: "datetime",
	KindDate:     "date",
	KindTime:     "time",
	KindPerson:   "person",
	KindLocation: "location",
	KindCity:     "city",
	KindState:    "state",
	KindZipcode:  "zipcode",
}

func (k EntityKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// KnownKinds lists every kind except KindOther, in declaration order.
func KnownKinds() []EntityKind {
	return []EntityKind{KindDateTime, KindDate, KindTime, KindPerson, KindLocation, KindCity, KindState, KindZipcode}
}

// ParseEntityKind maps a role name ("date", "zipcode", ...) to its kind.
func ParseEntityKind(name string) (EntityKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name && k != KindOther {
			return k, true
		}
	}
	return KindOther, false
}

// AnnotatedEntity is a service entity after its label has been mapped to a kind.
type AnnotatedEntity struct {
	Kind           EntityKind      `json:"kind"`
	Label          string          `json:"label"`
	RawText        string          `json:"rawText"`
	StartIndex     int             `json:"startIndex"`
	EndIndex       int             `json:"endIndex"`
	ResolvedValues []ResolvedValue `json:"resolvedValues,omitempty"`
	Confidence     float64         `json:"confidence,omitempty"`
}

// ResolvedText is the first resolved value, falling back to the raw text.
func (e AnnotatedEntity) ResolvedText() string {
	if len(e.ResolvedValues) > 0 && e.ResolvedValues[0].Value != "" {
		return e.ResolvedValues[0].Value
	}
	return e.RawText
}

type CompositeEntity struct {
	ParentKind  EntityKind        `json:"parentKind"`
	ParentLabel string            `json:"parentLabel"`
	Value       string            `json:"value"`
	Children    []AnnotatedEntity `json:"children"`
}
