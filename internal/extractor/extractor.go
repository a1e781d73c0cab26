// Package extractor pulls a date, a location and a person out of a call
// transcript, either from the text alone or from an NLP service's entities.
package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "transcript-extractor/internal/common/errors"
	"transcript-extractor/internal/common/logger"
	"transcript-extractor/internal/common/metrics"
	"transcript-extractor/internal/common/observability"
	"transcript-extractor/internal/extractor/dateparse"
	"transcript-extractor/internal/extractor/entity"
	"transcript-extractor/internal/extractor/segment"
	"transcript-extractor/internal/models"
)

type Strategy string

const (
	// StrategyLexical parses dates from the transcript text only.
	StrategyLexical Strategy = "lexical"
	// StrategyAssisted uses the annotation service's entities.
	StrategyAssisted Strategy = "assisted"
	// StrategyHybrid is assisted, falling back to lexical when no date was
	// resolved.
	StrategyHybrid Strategy = "hybrid"
)

// ParseStrategy accepts a strategy name in any case; empty means lexical.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyLexical:
		return StrategyLexical, nil
	case StrategyAssisted:
		return StrategyAssisted, nil
	case StrategyHybrid:
		return StrategyHybrid, nil
	}
	return "", apperrors.NewUnsupportedStrategyError(s)
}

// Annotator returns the annotation service's view of a transcript.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*models.AnnotationResponse, error)
}

type Option func(*Extractor)

func WithAnnotator(a Annotator) Option {
	return func(e *Extractor) {
		e.annotator = a
	}
}

func WithConfiguration(cfg *entity.Configuration) Option {
	return func(e *Extractor) {
		e.config = cfg
	}
}

func WithLogger(log logger.Logger) Option {
	return func(e *Extractor) {
		e.logger = log
	}
}

func WithObservability(obs *observability.Observability) Option {
	return func(e *Extractor) {
		e.obs = obs
	}
}

// WithClock fixes "now" for year-less and time-only phrases.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

func WithLocale(locale segment.Locale) Option {
	return func(e *Extractor) {
		e.locale = locale
	}
}

// WithLegacyMinValue makes unparseable assisted dates come back as
// 0001-01-01 00:00 instead of unset.
func WithLegacyMinValue(enabled bool) Option {
	return func(e *Extractor) {
		e.legacyMinValue = enabled
	}
}

// Extractor is immutable after New and safe for concurrent use.
type Extractor struct {
	annotator      Annotator
	config         *entity.Configuration
	logger         logger.Logger
	obs            *observability.Observability
	now            func() time.Time
	locale         segment.Locale
	legacyMinValue bool

	parser *dateparse.Parser
	pairer *entity.Pairer
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		config: entity.DefaultConfiguration(),
		logger: logger.NewNoOpLogger(),
		now:    time.Now,
		locale: segment.English,
	}
	for _, o := range opts {
		o(e)
	}

	e.parser = dateparse.New(dateparse.WithClock(e.now), dateparse.WithLocale(e.locale))
	e.pairer = entity.NewPairer(entity.WithClock(e.now), entity.WithLegacyMinValue(e.legacyMinValue))
	return e
}

// Extract runs one strategy over a transcript. Only annotation service
// failures and internal invariant violations are errors; a transcript with
// nothing recognizable yields an empty result.
func (e *Extractor) Extract(ctx context.Context, transcript string, strategy Strategy) (*models.ExtractionResult, error) {
	start := time.Now()
	ctx, span := e.obs.StartSpan(ctx, "extractor.Extract",
		attribute.String("strategy", string(strategy)),
		attribute.Int("transcript.length", len(transcript)),
	)
	defer span.End()

	result, err := e.extract(ctx, transcript, strategy)

	outcome := outcomeOf(result, err)
	elapsed := time.Since(start)
	metrics.ExtractionsTotal.WithLabelValues(string(strategy), outcome).Inc()
	metrics.ExtractionDuration.WithLabelValues(string(strategy)).Observe(elapsed.Seconds())
	e.obs.RecordExtraction(ctx, string(strategy), outcome, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.WithError(err).Warn("extraction failed", map[string]interface{}{
			"strategy": string(strategy),
		})
		return nil, err
	}

	span.SetAttributes(attribute.String("outcome", outcome), attribute.String("date.pass", result.DatePass))
	e.logger.Debug("extraction finished", map[string]interface{}{
		"strategy":  string(strategy),
		"outcome":   outcome,
		"datePass":  result.DatePass,
		"elapsedMs": elapsed.Milliseconds(),
		"traceId":   span.SpanContext().TraceID().String(),
	})
	return result, nil
}

func (e *Extractor) extract(ctx context.Context, transcript string, strategy Strategy) (*models.ExtractionResult, error) {
	switch strategy {
	case StrategyLexical:
		return e.ExtractLexical(transcript), nil

	case StrategyAssisted, StrategyHybrid:
		if e.annotator == nil {
			return nil, apperrors.NewUnsupportedStrategyError(fmt.Sprintf("%s (no annotation service configured)", strategy))
		}
		resp, err := e.annotator.Annotate(ctx, transcript)
		if err != nil {
			if _, ok := apperrors.As(err); ok {
				return nil, err
			}
			return nil, apperrors.NewDataExtractionFailedError(err)
		}

		result, err := e.ExtractAnnotated(transcript, resp)
		if err != nil {
			return nil, err
		}
		result.Strategy = string(strategy)

		if strategy == StrategyHybrid && !result.Date.IsSet() {
			e.applyLexicalDate(result, transcript)
		}
		return result, nil
	}

	return nil, apperrors.NewUnsupportedStrategyError(string(strategy))
}

// ExtractLexical finds a date in the transcript text without any service.
func (e *Extractor) ExtractLexical(transcript string) *models.ExtractionResult {
	result := &models.ExtractionResult{
		Transcript: transcript,
		Strategy:   string(StrategyLexical),
	}
	e.applyLexicalDate(result, transcript)
	return result
}

func (e *Extractor) applyLexicalDate(result *models.ExtractionResult, transcript string) {
	date, pass := e.parser.Parse(transcript)
	metrics.DatePassTotal.WithLabelValues(pass.String()).Inc()
	if pass == dateparse.PassNone {
		return
	}
	result.Date = date
	result.DatePass = pass.String()
}

// ExtractAnnotated builds a result from an annotation service response that
// has already been obtained.
func (e *Extractor) ExtractAnnotated(transcript string, resp *models.AnnotationResponse) (*models.ExtractionResult, error) {
	result := &models.ExtractionResult{
		Transcript: transcript,
		Strategy:   string(StrategyAssisted),
	}
	if resp == nil {
		return result, nil
	}

	result.EvaluatedTranscript = resp.Query
	var intent string
	if resp.TopScoringIntent != nil {
		intent = resp.TopScoringIntent.Intent
		result.Intent = intent
		result.IntentScore = resp.TopScoringIntent.Score
	}

	entities, composites := e.config.Convert(resp)
	paired, rest := entity.Split(entities)

	resolved := e.pairer.ResolveDateTimes(rest)
	pairs, err := e.pairer.Pair(paired)
	if err != nil {
		return nil, apperrors.NewInternalInvariantError(err)
	}

	result.Dates = append(resolved, pairs...)
	if len(result.Dates) > 0 {
		result.Date = result.Dates[0]
	}

	result.Location = entity.SelectLocation(entities, composites)
	result.Person = e.config.SelectPerson(entities, intent)
	if aux := entity.CollectAuxiliary(entities); len(aux) > 0 {
		result.AdditionalData = aux
	}

	return result, nil
}

func outcomeOf(result *models.ExtractionResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case result.Date.IsSet():
		return "date"
	default:
		return "no_date"
	}
}
