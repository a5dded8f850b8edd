package transfer

import "time"

// PublishSummary describes one scheduler tick.
type PublishSummary struct {
	Busy      bool         `json:"busy"`
	Due       int          `json:"due"`
	Processed int          `json:"processed"`
	Skipped   int          `json:"skipped"`
	Results   []PostResult `json:"results"`
}

type PostResult struct {
	PostID       int64             `json:"post_id"`
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Platforms    []PlatformOutcome `json:"platforms"`
}

type PlatformOutcome struct {
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	RemoteID string `json:"remote_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type CronResponse struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Summary   *PublishSummary `json:"summary,omitempty"`
}
