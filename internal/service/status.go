package service

import (
	"sync"
	"time"
)

// StageStatus is the last observed run of one pipeline stage.
type StageStatus struct {
	LastRun time.Time      `json:"lastRun"`
	Elapsed string         `json:"elapsed"`
	Counts  map[string]int `json:"counts"`
	LastErr string         `json:"lastError,omitempty"`
}

// StatusTracker collects per-stage progress summaries for the status
// endpoint. Structured counts, never stack traces.
type StatusTracker struct {
	mu     sync.RWMutex
	stages map[string]StageStatus
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{stages: make(map[string]StageStatus)}
}

// Record stores the outcome of one stage run.
func (t *StatusTracker) Record(stage string, elapsed time.Duration, counts map[string]int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := StageStatus{
		LastRun: time.Now().UTC(),
		Elapsed: elapsed.Round(time.Millisecond).String(),
		Counts:  counts,
	}
	if err != nil {
		s.LastErr = err.Error()
	}
	t.stages[stage] = s
}

// Snapshot returns a copy of every stage's last status.
func (t *StatusTracker) Snapshot() map[string]StageStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]StageStatus, len(t.stages))
	for k, v := range t.stages {
		out[k] = v
	}
	return out
}
