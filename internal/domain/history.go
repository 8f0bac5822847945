package domain

import "time"

// HistoryRecord captures one completed turn for the durable command log.
type HistoryRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Input      string    `json:"input"`
	Command    string    `json:"command"`
	Verdict    Verdict   `json:"verdict"`
	Executed   bool      `json:"executed"`
	ExitCode   int       `json:"exit_code"`
	DurationMS int64     `json:"duration_ms"`
}
