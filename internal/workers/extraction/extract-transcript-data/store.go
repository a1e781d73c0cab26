// internal/workers/extraction/extract-transcript-data/store.go
package extracttranscriptdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrStoreFailed = errors.New("RESULT_STORE_FAILED")

// Schema creates the results table when it does not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS transcript_extractions (
	id          UUID PRIMARY KEY,
	call_id     TEXT,
	strategy    TEXT NOT NULL,
	date_pass   TEXT,
	result      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

const insertExtraction = `
	INSERT INTO transcript_extractions (id, call_id, strategy, date_pass, result, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// ResultStore persists job outputs.
type ResultStore interface {
	Save(ctx context.Context, output *Output) error
}

// PostgresStore writes outputs to transcript_extractions.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("%w: create schema: %v", ErrStoreFailed, err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, output *Output) error {
	if output == nil || output.Result == nil {
		return fmt.Errorf("%w: nothing to store", ErrStoreFailed)
	}

	payload, err := json.Marshal(output.Result)
	if err != nil {
		return fmt.Errorf("%w: encode result: %v", ErrStoreFailed, err)
	}

	_, err = s.db.ExecContext(ctx, insertExtraction,
		output.ExtractionID,
		nullable(output.CallID),
		output.Strategy,
		nullable(output.Result.DatePass),
		payload,
		s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %v", ErrStoreFailed, output.ExtractionID, err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
