package logic

import (
	"sync"
	"time"

	"toydbclient/internal/domain"
)

// ResponseHolder is the single shared cell holding the last response.
//
// Every submission gets a sequence number from Begin. A completion is applied
// only when its sequence number is greater than every one applied before, so
// an older request that finishes late never overwrites a newer answer.
type ResponseHolder struct {
	mu      sync.RWMutex
	resp    domain.Response
	issued  uint64 // last sequence number handed out
	applied uint64 // highest sequence number applied
	now     func() time.Time
}

var _ ResponseStore = (*ResponseHolder)(nil)

// NewResponseHolder creates a holder showing placeholder until the first completion
func NewResponseHolder(placeholder string) *ResponseHolder {
	return &ResponseHolder{
		resp: domain.Response{Text: placeholder, Stage: domain.StageIdle},
		now:  time.Now,
	}
}

// Snapshot returns a copy of the current response
func (h *ResponseHolder) Snapshot() domain.Response {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.resp
}

// Begin issues the next sequence number and marks the holder as loading
func (h *ResponseHolder) Begin() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.issued++
	h.resp.Stage = domain.StageLoading
	return h.issued
}

// Pending reports how many issued submissions are newer than the applied one
func (h *ResponseHolder) Pending() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.issued - h.applied
}

// Apply replaces the response text with the body of submission seq.
// Returns false if a newer completion has already been applied.
func (h *ResponseHolder) Apply(seq uint64, text string, elapsed time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.acceptLocked(seq) {
		return false
	}
	h.resp.Text = text
	h.resp.Err = ""
	h.resp.Elapsed = elapsed
	h.resp.Stage = h.stageLocked(domain.StageSuccess)
	return true
}

// Fail records a failed submission. The previous text stays visible.
// Returns false if a newer completion has already been applied.
func (h *ResponseHolder) Fail(seq uint64, err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.acceptLocked(seq) {
		return false
	}
	h.resp.Err = "unknown error"
	if err != nil {
		h.resp.Err = err.Error()
	}
	h.resp.Elapsed = 0
	h.resp.Stage = h.stageLocked(domain.StageError)
	return true
}

func (h *ResponseHolder) acceptLocked(seq uint64) bool {
	if seq == 0 || seq <= h.applied || seq > h.issued {
		return false
	}
	h.applied = seq
	h.resp.Seq = seq
	h.resp.UpdatedAt = h.now()
	return true
}

// stageLocked keeps the loading stage while a newer submission is still in flight
func (h *ResponseHolder) stageLocked(done domain.Stage) domain.Stage {
	if h.issued > h.applied {
		return domain.StageLoading
	}
	return done
}
