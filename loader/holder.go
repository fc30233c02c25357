package loader

import (
	"sync"
	"sync/atomic"
	"time"
)

// Holder publishes the current snapshot. Readers call Load once per
// request and use that snapshot throughout.
type Holder struct {
	current atomic.Pointer[Snapshot]

	mu        sync.Mutex
	lastErr   error
	lastErrAt time.Time
}

// Load returns the published snapshot, or nil before the first success.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Publish replaces the current snapshot and clears the last error.
func (h *Holder) Publish(s *Snapshot) {
	h.current.Store(s)
	h.mu.Lock()
	h.lastErr = nil
	h.lastErrAt = time.Time{}
	h.mu.Unlock()
}

// Fail records a failed cycle. The published snapshot is kept.
func (h *Holder) Fail(err error, at time.Time) {
	h.mu.Lock()
	h.lastErr = err
	h.lastErrAt = at
	h.mu.Unlock()
}

// LastFailure returns the time and error of the most recent cycle, if it failed.
func (h *Holder) LastFailure() (time.Time, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErrAt, h.lastErr
}

// Summary describes the current state in one line.
func (h *Holder) Summary() string {
	if _, err := h.LastFailure(); err != nil {
		return err.Error()
	}
	return h.Load().Summary()
}
