package domain

import "time"

// SweepReport summarises one eviction pass.
type SweepReport struct {
	At       time.Time
	Scanned  int
	Evicted  []string
	Failures int
	// Skipped is set when another pass was still running.
	Skipped bool
}
