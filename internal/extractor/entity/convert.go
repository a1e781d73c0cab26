package entity

import (
	"sort"

	"transcript-extractor/internal/models"
)

// Convert maps the wire response onto kinds. Entities come back sorted by
// start position; composite children keep the service's order.
func (c *Configuration) Convert(resp *models.AnnotationResponse) ([]models.AnnotatedEntity, []models.CompositeEntity) {
	if resp == nil {
		return nil, nil
	}

	entities := make([]models.AnnotatedEntity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		entities = append(entities, c.annotate(e))
	}
	SortByPosition(entities)

	composites := make([]models.CompositeEntity, 0, len(resp.CompositeEntities))
	for _, ce := range resp.CompositeEntities {
		children := make([]models.AnnotatedEntity, 0, len(ce.Children))
		for _, child := range ce.Children {
			children = append(children, c.annotate(child))
		}
		composites = append(composites, models.CompositeEntity{
			ParentKind:  c.KindOf(ce.ParentType),
			ParentLabel: ce.ParentType,
			Value:       ce.Value,
			Children:    children,
		})
	}

	return entities, composites
}

func (c *Configuration) annotate(e models.AnnotationEntity) models.AnnotatedEntity {
	out := models.AnnotatedEntity{
		Kind:       c.KindOf(e.Type),
		Label:      e.Type,
		RawText:    e.Text(),
		StartIndex: e.StartIndex,
		EndIndex:   e.EndIndex,
		Confidence: e.Score,
	}
	if e.Resolution != nil && len(e.Resolution.Values) > 0 {
		out.ResolvedValues = append([]models.ResolvedValue(nil), e.Resolution.Values...)
	}
	return out
}

// SortByPosition orders entities by start index, keeping the original order
// for ties.
func SortByPosition(entities []models.AnnotatedEntity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].StartIndex < entities[j].StartIndex
	})
}
