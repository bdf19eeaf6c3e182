package domain

import "time"

// SyncStats holds statistics about one sync pass.
type SyncStats struct {
	Sources  int // enabled sources attempted
	Failed   int // sources whose fetch failed
	Fetched  int // candidate articles returned by adapters
	New      int // articles inserted this pass
	Skipped  int // candidates suppressed by dedup
	Duration time.Duration
}

// SyncStatus is a snapshot of the orchestrator's progress.
type SyncStatus struct {
	Running       bool
	Progress      float64 // 0-100
	CurrentSource string
}
