// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_extractions_total",
			Help: "Transcripts processed, by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	// DatePassTotal counts which lexical pass produced the date; "none"
	// means every pass failed.
	DatePassTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_date_pass_total",
			Help: "Lexical date parser results by pass",
		},
		[]string{"pass"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcript_extraction_duration_seconds",
			Help:    "Time spent extracting one transcript",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	AnnotationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annotation_requests_total",
			Help: "Calls to the NLP annotation service by result",
		},
		[]string{"result"},
	)

	AnnotationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "annotation_cache_hits_total",
			Help: "Annotation responses served from the cache",
		},
	)
)
