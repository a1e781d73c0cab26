package entity

import (
	"strconv"
	"strings"

	"transcript-extractor/internal/extractor/lexical"
	"transcript-extractor/internal/models"
)

// SelectLocation takes the first location entity. City, state and zipcode
// only come from a composite location, and only when a location was found.
func SelectLocation(entities []models.AnnotatedEntity, composites []models.CompositeEntity) models.LocationInfo {
	var info models.LocationInfo

	loc, ok := first(entities, models.KindLocation)
	if !ok {
		return info
	}
	info.Location = loc.RawText

	for _, ce := range composites {
		if ce.ParentKind != models.KindLocation {
			continue
		}
		if city, ok := first(ce.Children, models.KindCity); ok {
			info.City = city.RawText
		}
		if state, ok := first(ce.Children, models.KindState); ok {
			info.State = state.RawText
		}
		if zip, ok := first(ce.Children, models.KindZipcode); ok {
			info.Zipcode = normalizeZipcode(zip.RawText)
		}
		break
	}

	return info
}

// normalizeZipcode turns spoken digits into a compact code:
// "nine four one zero five" becomes "94105".
func normalizeZipcode(raw string) string {
	digits := lexical.NumbersToDigits(strings.ToLower(strings.TrimSpace(raw)))
	compact := strings.ReplaceAll(digits, " ", "")
	if compact == "" {
		return raw
	}
	for _, r := range compact {
		if r < '0' || r > '9' {
			return digits
		}
	}
	return compact
}

// SelectPerson takes the first person entity and types it by intent.
func (c *Configuration) SelectPerson(entities []models.AnnotatedEntity, intent string) models.PersonInfo {
	info := models.PersonInfo{Type: c.PersonType(intent)}
	if person, ok := first(entities, models.KindPerson); ok {
		info.Name = person.RawText
	}
	return info
}

// CollectAuxiliary keys every unrecognized entity by its service label.
// Repeats of a label get "-2", "-3", ... appended in encounter order.
func CollectAuxiliary(entities []models.AnnotatedEntity) map[string]string {
	out := make(map[string]string)
	seen := make(map[string]int)

	for _, e := range entities {
		if e.Kind != models.KindOther {
			continue
		}
		seen[e.Label]++
		key := e.Label
		if n := seen[e.Label]; n > 1 {
			key = e.Label + "-" + strconv.Itoa(n)
		}
		out[key] = e.RawText
	}

	return out
}

func first(entities []models.AnnotatedEntity, kind models.EntityKind) (models.AnnotatedEntity, bool) {
	for _, e := range entities {
		if e.Kind == kind {
			return e, true
		}
	}
	return models.AnnotatedEntity{}, false
}
