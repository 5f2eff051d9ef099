package ingestfailures

import "time"

// Stage names the ingestion step that failed.
type Stage string

const (
	StageDecode  Stage = "decode"
	StageOwner   Stage = "owner"
	StageFetch   Stage = "fetch"
	StageAnalyze Stage = "analyze"
	StagePersist Stage = "persist"
)

// Failure represents a persisted ingestion failure entry
type Failure struct {
	ID          int64     `json:"id"`
	Bucket      string    `json:"bucket"`
	Key         string    `json:"key"`
	Stage       Stage     `json:"stage"`
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
