package model

import "time"

// RunStatus tracks the lifecycle of a harvest run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// TopicCount summarizes one topic's outcome within a run.
type TopicCount struct {
	Topic     string `json:"topic"`
	Profiles  int    `json:"profiles"`
	WithEmail int    `json:"with_email"`
}

// Run is one recorded harvest invocation.
type Run struct {
	ID        string       `json:"id"`
	Topics    []string     `json:"topics"`
	Status    RunStatus    `json:"status"`
	Counts    []TopicCount `json:"counts,omitempty"`
	Outputs   []string     `json:"outputs,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
