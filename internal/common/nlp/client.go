// Package nlp calls the external NLP annotation service that recognizes
// intents and typed entities in a transcript.
package nlp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"transcript-extractor/internal/common/config"
	apperrors "transcript-extractor/internal/common/errors"
	commonhttp "transcript-extractor/internal/common/http"
	"transcript-extractor/internal/common/logger"
	"transcript-extractor/internal/common/metrics"
	"transcript-extractor/internal/common/validation"
	"transcript-extractor/internal/models"
)

const (
	subscriptionHeader = "Ocp-Apim-Subscription-Key"
	cacheKeyPrefix     = "annotation:"
)

// Cache stores raw service responses. database.RedisClient satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type Option func(*Client)

// WithCache enables response caching for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

func WithHTTPClient(hc *commonhttp.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client is safe for concurrent use. It never retries; retry policy belongs
// to the caller.
type Client struct {
	http     *commonhttp.Client
	endpoint string
	appID    string
	key      string
	timeout  time.Duration
	cache    Cache
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewClient(cfg config.AnnotationConfig, opts ...Option) *Client {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	c := &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		appID:    cfg.AppID,
		key:      cfg.SubscriptionKey,
		timeout:  timeout,
		logger:   logger.NewNoOpLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = commonhttp.NewClient(timeout)
	}
	return c
}

// Annotate sends text to the service. Transport failures, non-2xx statuses
// and malformed payloads come back as DATA_EXTRACTION_FAILED; an exceeded
// deadline as ANNOTATION_TIMEOUT.
func (c *Client) Annotate(ctx context.Context, text string) (*models.AnnotationResponse, error) {
	key := CacheKey(text)
	if resp, ok := c.fromCache(ctx, key); ok {
		metrics.AnnotationCacheHits.Inc()
		return resp, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("q", text)
	query.Set("verbose", "true")
	target := fmt.Sprintf("%s/apps/%s?%s", c.endpoint, url.PathEscape(c.appID), query.Encode())

	status, body, err := c.http.Get(ctx, target, map[string]string{subscriptionHeader: c.key})
	if err != nil {
		if isTimeout(err) {
			metrics.AnnotationRequests.WithLabelValues("timeout").Inc()
			return nil, apperrors.NewAnnotationTimeoutError(err)
		}
		metrics.AnnotationRequests.WithLabelValues("error").Inc()
		return nil, apperrors.NewDataExtractionFailedError(err)
	}

	if status < 200 || status > 299 {
		metrics.AnnotationRequests.WithLabelValues("status").Inc()
		return nil, apperrors.NewDataExtractionFailedError(
			fmt.Errorf("annotation service returned %d: %s", status, truncate(string(body), 200)))
	}

	resp, err := Decode(body)
	if err != nil {
		metrics.AnnotationRequests.WithLabelValues("malformed").Inc()
		return nil, apperrors.NewDataExtractionFailedError(err)
	}

	metrics.AnnotationRequests.WithLabelValues("ok").Inc()
	c.toCache(ctx, key, body)
	return resp, nil
}

// Decode validates and decodes a saved or received service payload.
func Decode(body []byte) (*models.AnnotationResponse, error) {
	if result := responseSchema.ValidateJSON(body); !result.Valid {
		return nil, fmt.Errorf("annotation payload rejected: %s", result.Error())
	}

	var resp models.AnnotationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode annotation payload: %w", err)
	}
	return &resp, nil
}

// CacheKey is the cache key for a transcript.
func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *Client) fromCache(ctx context.Context, key string) (*models.AnnotationResponse, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	resp, err := Decode([]byte(raw))
	if err != nil {
		c.logger.Warn("discarding unreadable cached annotation", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}
	return resp, true
}

func (c *Client) toCache(ctx context.Context, key string, body []byte) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, string(body), c.cacheTTL); err != nil {
		c.logger.Warn("annotation cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var responseSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["query", "entities"],
	"properties": {
		"query": {"type": "string"},
		"topScoringIntent": {
			"type": "object",
			"required": ["intent"],
			"properties": {
				"intent": {"type": "string"},
				"score": {"type": "number"}
			}
		},
		"entities": {"type": "array", "items": {"$ref": "#/definitions/entity"}},
		"compositeEntities": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["parentType", "children"],
				"properties": {
					"parentType": {"type": "string"},
					"value": {"type": "string"},
					"children": {"type": "array", "items": {"$ref": "#/definitions/entity"}}
				}
			}
		}
	},
	"definitions": {
		"entity": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"entity": {"type": "string"},
				"type": {"type": "string"},
				"value": {"type": "string"},
				"startIndex": {"type": "integer"},
				"endIndex": {"type": "integer"},
				"score": {"type": "number"},
				"resolution": {"type": "object"}
			}
		}
	}
}`)
