package domain

import "time"

// HistoryEntry is one journaled package operation.
type HistoryEntry struct {
	ID        string
	Operation string
	Package   string
	Version   string
	Success   bool
	Error     string
	Timestamp time.Time
}

// DefaultHistoryLimit is the number of entries listed when no limit is given.
const DefaultHistoryLimit = 20
