// internal/workers/extraction/extract-transcript-data/models.go
package extracttranscriptdata

import "transcript-extractor/internal/models"

type Input struct {
	Transcript string `json:"transcript"`
	CallID     string `json:"callId,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
}

type Output struct {
	ExtractionID string                   `json:"extractionId"`
	CallID       string                   `json:"callId,omitempty"`
	Strategy     string                   `json:"strategy"`
	Result       *models.ExtractionResult `json:"result"`
}
