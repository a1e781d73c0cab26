// internal/workers/extraction/extract-transcript-data/handler.go
package extracttranscriptdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"transcript-extractor/internal/common/camunda"
	"transcript-extractor/internal/common/errors"
	"transcript-extractor/internal/common/logger"
	"transcript-extractor/internal/common/metrics"
	"transcript-extractor/internal/common/validation"
	"transcript-extractor/internal/extractor"
	"transcript-extractor/internal/models"
)

const (
	TaskType = "extract-transcript-data"
)

// Extractor is the part of extractor.Extractor the handler needs.
type Extractor interface {
	Extract(ctx context.Context, transcript string, strategy extractor.Strategy) (*models.ExtractionResult, error)
}

type Handler struct {
	config     *Config
	extractor  Extractor
	store      ResultStore
	errHandler *errors.ErrorHandler
	retry      *camunda.RetryConfig
	newID      func() string
	logger     logger.Logger
}

// NewHandler builds the handler. store may be nil, in which case outputs
// are only returned to the process.
func NewHandler(config *Config, ex Extractor, store ResultStore, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		extractor:  ex,
		store:      store,
		errHandler: errors.NewErrorHandler(log),
		retry:      camunda.DefaultRetryConfig,
		newID:      uuid.NewString,
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
		"retries":     job.Retries,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.handleVariables(ctx, []byte(job.Variables))
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		bpmnErr := h.errHandler.HandleJobError(context.Background(), client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) handleVariables(ctx context.Context, variables []byte) (*Output, error) {
	if result := inputSchema.ValidateJSON(variables); !result.Valid {
		return nil, errors.NewInvalidInputError(result.Error())
	}

	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}
	if result := inputSchema.ValidateInput(input); !result.Valid {
		return nil, errors.NewInvalidInputError(result.Error())
	}

	name := input.Strategy
	if name == "" {
		name = h.config.DefaultStrategy
	}
	strategy, err := extractor.ParseStrategy(name)
	if err != nil {
		return nil, err
	}

	result, err := h.extractor.Extract(ctx, input.Transcript, strategy)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewInternalError(err)
	}

	output := &Output{
		ExtractionID: h.newID(),
		CallID:       input.CallID,
		Strategy:     string(strategy),
		Result:       result,
	}

	if h.store != nil {
		if err := h.store.Save(ctx, output); err != nil {
			return nil, errors.NewResultStoreFailedError(err)
		}
	}

	h.logger.Info("transcript extracted", map[string]interface{}{
		"extractionId": output.ExtractionID,
		"callId":       input.CallID,
		"strategy":     output.Strategy,
		"dateFound":    result.Date.IsSet(),
		"datePass":     result.DatePass,
	})
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	_, err := camunda.Retry(context.Background(), h.retry, "complete job", func(ctx context.Context) (interface{}, error) {
		cmd, err := client.NewCompleteJobCommand().
			JobKey(job.Key).
			VariablesFromObject(output)
		if err != nil {
			return nil, err
		}
		return cmd.Send(ctx)
	})
	if err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "COMPLETE_FAILED").Inc()
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Additional process variables are allowed; only the ones read are checked.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["transcript"],
	"properties": {
		"transcript": {"type": "string", "maxLength": 100000},
		"callId": {"type": "string", "maxLength": 128},
		"strategy": {"type": "string", "maxLength": 32}
	}
}`)
