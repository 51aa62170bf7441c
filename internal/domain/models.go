package domain

import "time"

// Placeholder is shown before any query has completed
const Placeholder = "No data yet."

// Stage represents where the most recent submission is in its lifecycle
type Stage int

const (
	StageIdle Stage = iota
	StageLoading
	StageSuccess
	StageError
)

func (s Stage) String() string {
	switch s {
	case StageLoading:
		return "loading"
	case StageSuccess:
		return "success"
	case StageError:
		return "error"
	default:
		return "idle"
	}
}

// Response is a snapshot of the shared response holder
type Response struct {
	Text      string        // last response body, or the placeholder
	Stage     Stage         // lifecycle of the newest submission
	Err       string        // message of the last applied failure
	Seq       uint64        // sequence number of the applied completion (0 = none yet)
	Elapsed   time.Duration // round-trip time of the applied completion
	UpdatedAt time.Time
}

// Submission is a query handed off to the transport
type Submission struct {
	Seq   uint64
	Query string
}
