package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: extractor-test
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "extractor-test", cfg.App.Name)
	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, "lexical", cfg.Extraction.Strategy)
	assert.Equal(t, 5000, cfg.Annotation.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.False(t, cfg.Database.Postgres.Enabled)
}

func TestLoadFromFile_ExtractionSection(t *testing.T) {
	t.Setenv("TEST_ANNOTATION_KEY", "secret-key")

	path := writeConfig(t, `
annotation:
  endpoint: https://nlp.example.com/luis/v2.0
  app_id: app-123
  subscription_key: ${TEST_ANNOTATION_KEY}
  cache_ttl: 600
database:
  redis:
    address: localhost:6379
extraction:
  strategy: Hybrid
  locale: en-US
  legacy_min_value_dates: true
  entity_labels:
    location: StreetAddress
  person_types:
    CallerIsAttorney: Attorney
workers:
  extract-transcript-data:
    enabled: true
    timeout: 15000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "hybrid", cfg.Extraction.Strategy)
	assert.True(t, cfg.Extraction.LegacyMinValueDates)
	assert.Equal(t, "StreetAddress", cfg.Extraction.EntityLabels["location"])
	assert.Equal(t, "Attorney", cfg.Extraction.PersonTypes["callerisattorney"])
	assert.Equal(t, "secret-key", cfg.Annotation.SubscriptionKey)
	assert.Equal(t, 600, cfg.Annotation.CacheTTL)

	worker := GetWorkerConfig(cfg, "extract-transcript-data")
	assert.True(t, worker.Enabled)
	assert.Equal(t, 15000, worker.Timeout)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 3, worker.MaxRetries)
	assert.Equal(t, 15*time.Second, GetDuration(worker.Timeout))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown strategy",
			body: "extraction:\n  strategy: guess\n",
		},
		{
			name: "assisted without endpoint",
			body: "extraction:\n  strategy: assisted\nannotation:\n  app_id: x\n",
		},
		{
			name: "unknown entity kind",
			body: "extraction:\n  entity_labels:\n    court: CourtName\n",
		},
		{
			name: "unsupported locale",
			body: "extraction:\n  locale: fr-FR\n",
		},
		{
			name: "postgres enabled without host",
			body: "database:\n  postgres:\n    enabled: true\n    database: x\n    user: y\n",
		},
		{
			name: "cache without redis",
			body: "annotation:\n  cache_ttl: 60\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadFromFile_ShippedConfig(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "transcript-extractor", cfg.App.Name)
	assert.Equal(t, "lexical", cfg.Extraction.Strategy)
	assert.Equal(t, "builtin.personName", cfg.Extraction.EntityLabels["person"])
	assert.Equal(t, "Respondent", cfg.Extraction.PersonTypes["schedulehearing"])

	worker := GetWorkerConfig(cfg, "extract-transcript-data")
	assert.True(t, worker.Enabled)
	assert.Equal(t, 30*time.Second, GetDuration(worker.Timeout))
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{}
	worker := GetWorkerConfig(cfg, "missing")
	assert.True(t, worker.Enabled)
	assert.Equal(t, 30000, worker.Timeout)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "calls", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=calls sslmode=disable", p.GetDSN())
}
