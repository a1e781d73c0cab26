package extractor

import (
	"fmt"

	"transcript-extractor/internal/common/config"
	"transcript-extractor/internal/extractor/entity"
	"transcript-extractor/internal/extractor/segment"
	"transcript-extractor/internal/models"
)

// NewConfiguration turns the extraction config section into an entity
// configuration, resolving kind names to kinds.
func NewConfiguration(cfg config.ExtractionConfig) (*entity.Configuration, error) {
	labels := make(map[models.EntityKind]string, len(cfg.EntityLabels))
	for name, label := range cfg.EntityLabels {
		kind, ok := models.ParseEntityKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown entity kind %q", name)
		}
		labels[kind] = label
	}
	return entity.NewConfiguration(labels, cfg.PersonTypes)
}

// OptionsFromConfig returns the options the extraction config section
// implies. Callers add the annotator, logger and observability themselves.
func OptionsFromConfig(cfg config.ExtractionConfig) ([]Option, error) {
	entityCfg, err := NewConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	locale, err := segment.LookupLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithConfiguration(entityCfg),
		WithLocale(locale),
		WithLegacyMinValue(cfg.LegacyMinValueDates),
	}, nil
}
