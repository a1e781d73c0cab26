package extracttranscriptdata

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"transcript-extractor/internal/common/config"
	"transcript-extractor/internal/common/errors"
	"transcript-extractor/internal/common/logger"
	"transcript-extractor/internal/extractor"
	"transcript-extractor/internal/models"
)

// ==========================
// Mocks
// ==========================

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, transcript string, strategy extractor.Strategy) (*models.ExtractionResult, error) {
	args := m.Called(ctx, transcript, strategy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExtractionResult), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, output *Output) error {
	return m.Called(ctx, output).Error(0)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   1,
		Timeout:         5 * time.Second,
		DefaultStrategy: "lexical",
	}
}

func createTestHandler(t *testing.T, ex Extractor, store ResultStore) *Handler {
	h := NewHandler(createTestConfig(), ex, store, logger.NewTestLogger(t))
	h.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return h
}

func datedResult(strategy string) *models.ExtractionResult {
	return &models.ExtractionResult{
		Strategy: strategy,
		DatePass: "raw",
		Date:     models.NewDateInfo(time.Date(2018, 1, 19, 15, 0, 0, 0, time.UTC), "January 19 2018 at 3 PM"),
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		wantStrategy extractor.Strategy
	}{
		{
			name:         "default strategy",
			input:        &Input{Transcript: "hearing on January 19th 2018 at 3 p.m.", CallID: "call-1"},
			wantStrategy: extractor.StrategyLexical,
		},
		{
			name:         "explicit strategy in any case",
			input:        &Input{Transcript: "hearing on January 19th 2018 at 3 p.m.", Strategy: "Hybrid"},
			wantStrategy: extractor.StrategyHybrid,
		},
		{
			name:         "empty transcript is still extracted",
			input:        &Input{Transcript: ""},
			wantStrategy: extractor.StrategyLexical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := new(MockExtractor)
			result := datedResult(string(tt.wantStrategy))
			ex.On("Extract", mock.Anything, tt.input.Transcript, tt.wantStrategy).Return(result, nil)

			output, err := createTestHandler(t, ex, nil).Execute(context.Background(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, "11111111-2222-3333-4444-555555555555", output.ExtractionID)
			assert.Equal(t, tt.input.CallID, output.CallID)
			assert.Equal(t, string(tt.wantStrategy), output.Strategy)
			assert.Same(t, result, output.Result)
			ex.AssertExpectations(t)
		})
	}
}

func TestHandler_Execute_GeneratesExtractionIDs(t *testing.T) {
	ex := new(MockExtractor)
	ex.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(&models.ExtractionResult{}, nil)

	h := NewHandler(createTestConfig(), ex, nil, logger.NewNoOpLogger())
	first, err := h.Execute(context.Background(), &Input{Transcript: "a"})
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), &Input{Transcript: "a"})
	require.NoError(t, err)

	assert.Len(t, first.ExtractionID, 36)
	assert.NotEqual(t, first.ExtractionID, second.ExtractionID)
}

func TestHandler_Execute_StoresOutput(t *testing.T) {
	ex := new(MockExtractor)
	ex.On("Extract", mock.Anything, "call me", extractor.StrategyLexical).Return(datedResult("lexical"), nil)

	store := new(MockStore)
	store.On("Save", mock.Anything, mock.MatchedBy(func(o *Output) bool {
		return o.CallID == "call-9" && o.Strategy == "lexical" && o.Result != nil
	})).Return(nil)

	_, err := createTestHandler(t, ex, store).Execute(context.Background(), &Input{Transcript: "call me", CallID: "call-9"})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		setup     func(ex *MockExtractor, store *MockStore)
		wantCode  errors.ErrorCode
		retryable bool
	}{
		{
			name:     "nil input",
			input:    nil,
			setup:    func(*MockExtractor, *MockStore) {},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "call id too long",
			input:    &Input{Transcript: "x", CallID: strings.Repeat("c", 129)},
			setup:    func(*MockExtractor, *MockStore) {},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "unknown strategy",
			input:    &Input{Transcript: "x", Strategy: "psychic"},
			setup:    func(*MockExtractor, *MockStore) {},
			wantCode: errors.ErrCodeUnsupportedStrategy,
		},
		{
			name:  "annotation timeout passes through",
			input: &Input{Transcript: "x", Strategy: "assisted"},
			setup: func(ex *MockExtractor, _ *MockStore) {
				ex.On("Extract", mock.Anything, "x", extractor.StrategyAssisted).
					Return(nil, errors.NewAnnotationTimeoutError(context.DeadlineExceeded))
			},
			wantCode:  errors.ErrCodeAnnotationTimeout,
			retryable: true,
		},
		{
			name:  "unclassified extractor error",
			input: &Input{Transcript: "x"},
			setup: func(ex *MockExtractor, _ *MockStore) {
				ex.On("Extract", mock.Anything, "x", extractor.StrategyLexical).Return(nil, stderrors.New("boom"))
			},
			wantCode: errors.ErrCodeInternal,
		},
		{
			name:  "store failure",
			input: &Input{Transcript: "x"},
			setup: func(ex *MockExtractor, store *MockStore) {
				ex.On("Extract", mock.Anything, "x", extractor.StrategyLexical).Return(&models.ExtractionResult{}, nil)
				store.On("Save", mock.Anything, mock.Anything).Return(ErrStoreFailed)
			},
			wantCode:  errors.ErrCodeResultStoreFailed,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, store := new(MockExtractor), new(MockStore)
			tt.setup(ex, store)

			output, err := createTestHandler(t, ex, store).Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, output)

			stdErr, ok := errors.As(err)
			require.True(t, ok, "expected a StandardError, got %v", err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_StoreErrorKeepsCause(t *testing.T) {
	ex, store := new(MockExtractor), new(MockStore)
	ex.On("Extract", mock.Anything, "x", extractor.StrategyLexical).Return(&models.ExtractionResult{}, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(ErrStoreFailed)

	_, err := createTestHandler(t, ex, store).Execute(context.Background(), &Input{Transcript: "x"})
	assert.ErrorIs(t, err, ErrStoreFailed)
}

// ==========================
// Job Variables
// ==========================

func TestHandler_HandleVariables(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{"minimal", `{"transcript":"hello"}`, false},
		{"extra process variables", `{"transcript":"hello","applicantId":42,"callId":"c-1"}`, false},
		{"missing transcript", `{"callId":"c-1"}`, true},
		{"transcript not a string", `{"transcript":7}`, true},
		{"not json", `{transcript`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := new(MockExtractor)
			ex.On("Extract", mock.Anything, "hello", extractor.StrategyLexical).Return(&models.ExtractionResult{}, nil).Maybe()

			output, err := createTestHandler(t, ex, nil).handleVariables(context.Background(), []byte(tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput), "got %v", err)
				ex.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, output.Result)
		})
	}
}

// ==========================
// With the real extractor
// ==========================

func TestHandler_Execute_LexicalEndToEnd(t *testing.T) {
	ex := extractor.New(
		extractor.WithClock(func() time.Time { return time.Date(2019, 2, 10, 12, 0, 0, 0, time.UTC) }),
		extractor.WithLogger(logger.NewTestLogger(t)),
	)

	output, err := createTestHandler(t, ex, nil).Execute(context.Background(), &Input{
		Transcript: "your next Master hearing date January 19th 2018 at 3 p.m. for Gymboree",
		CallID:     "call-42",
	})
	require.NoError(t, err)

	d := output.Result.Date
	require.True(t, d.IsSet())
	assert.Equal(t, [5]int{2018, 1, 19, 15, 0}, [5]int{d.Year, d.Month, d.Day, d.Hour, d.Minute})
	assert.Equal(t, "raw", output.Result.DatePass)
	assert.Equal(t, "lexical", output.Strategy)
}

// ==========================
// Config
// ==========================

func TestLoadConfig(t *testing.T) {
	cfg := &config.Config{
		Extraction: config.ExtractionConfig{Strategy: "hybrid"},
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 12, Timeout: 1500},
		},
	}

	c := LoadConfig(cfg)
	assert.False(t, c.Enabled)
	assert.Equal(t, 12, c.MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, c.Timeout)
	assert.Equal(t, "hybrid", c.DefaultStrategy)
	assert.NoError(t, c.Validate())

	defaults := LoadConfig(&config.Config{})
	assert.True(t, defaults.Enabled)
	assert.Equal(t, 5, defaults.MaxJobsActive)
	assert.Equal(t, 30*time.Second, defaults.Timeout)
	assert.Equal(t, "lexical", defaults.DefaultStrategy)
}

func TestConfig_Validate(t *testing.T) {
	c := DefaultConfig()
	c.MaxJobsActive = 0
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.Timeout = 0
	assert.Error(t, c.Validate())
}
