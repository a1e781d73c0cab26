// Package entity turns the typed entities returned by the NLP annotation
// service into dates, a location, a person and leftover key/value data.
package entity

import (
	"fmt"
	"strings"

	"transcript-extractor/internal/models"
)

// Service labels used when no remapping is configured.
const (
	LabelDateTime = "builtin.datetimeV2.datetime"
	LabelDate     = "builtin.datetimeV2.date"
	LabelTime     = "builtin.datetimeV2.time"
	LabelPerson   = "builtin.personName"
	LabelLocation = "Address"
	LabelCity     = "City"
	LabelState    = "State"
	LabelZipcode  = "Zipcode"
)

// Configuration maps annotation service labels to entity kinds and intents
// to person types. It is never modified after construction.
type Configuration struct {
	labels      map[models.EntityKind]string
	kinds       map[string]models.EntityKind
	personTypes map[string]string
}

// NewConfiguration builds a configuration. Kinds missing from labels keep
// their default label; two kinds may not share a label.
func NewConfiguration(labels map[models.EntityKind]string, personTypes map[string]string) (*Configuration, error) {
	merged := defaultLabels()
	for kind, label := range labels {
		if kind == models.KindOther {
			return nil, fmt.Errorf("kind %q cannot be given a label", kind)
		}
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		merged[kind] = label
	}

	c := &Configuration{
		labels:      merged,
		kinds:       make(map[string]models.EntityKind, len(merged)),
		personTypes: make(map[string]string, len(personTypes)),
	}

	for kind, label := range merged {
		key := strings.ToLower(label)
		if other, dup := c.kinds[key]; dup {
			return nil, fmt.Errorf("label %q is mapped to both %s and %s", label, other, kind)
		}
		c.kinds[key] = kind
	}

	for intent, personType := range personTypes {
		c.personTypes[strings.ToLower(strings.TrimSpace(intent))] = personType
	}

	return c, nil
}

// DefaultConfiguration uses the stock service labels and no person types.
func DefaultConfiguration() *Configuration {
	c, err := NewConfiguration(nil, nil)
	if err != nil {
		panic(err)
	}
	return c
}

func defaultLabels() map[models.EntityKind]string {
	return map[models.EntityKind]string{
		models.KindDateTime: LabelDateTime,
		models.KindDate:     LabelDate,
		models.KindTime:     LabelTime,
		models.KindPerson:   LabelPerson,
		models.KindLocation: LabelLocation,
		models.KindCity:     LabelCity,
		models.KindState:    LabelState,
		models.KindZipcode:  LabelZipcode,
	}
}

// KindOf maps a service label to its kind, case-insensitively.
// Unknown labels are KindOther.
func (c *Configuration) KindOf(label string) models.EntityKind {
	if kind, ok := c.kinds[strings.ToLower(strings.TrimSpace(label))]; ok {
		return kind
	}
	return models.KindOther
}

func (c *Configuration) Label(kind models.EntityKind) string {
	return c.labels[kind]
}

// PersonType looks up the caller role for an intent, defaulting to
// models.UnknownPersonType.
func (c *Configuration) PersonType(intent string) string {
	if t, ok := c.personTypes[strings.ToLower(strings.TrimSpace(intent))]; ok && t != "" {
		return t
	}
	return models.UnknownPersonType
}
