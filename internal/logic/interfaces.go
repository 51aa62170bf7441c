package logic

import (
	"time"

	"toydbclient/internal/domain"
)

// ResponseStore provides access to the most recent query response.
// Readers may call Snapshot from any goroutine; the UI loop is the only writer.
type ResponseStore interface {
	Snapshot() domain.Response
	Begin() uint64
	Apply(seq uint64, text string, elapsed time.Duration) bool
	Fail(seq uint64, err error) bool
}
