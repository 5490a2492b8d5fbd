package recorder

import (
	"time"

	"StockPulse/internal/model"
)

// RunSnapshot holds everything recorded for one refresh cycle.
type RunSnapshot struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Summary   *model.Summary
	Profiles  []*model.Profile
}

// RunRecord is one row of run history as read back from storage.
type RunRecord struct {
	RunID                string
	Timestamp            time.Time
	TotalStocks          int
	Gainers              int
	Losers               int
	AverageChangePercent float64
	FailedCount          int
}

// Recorder persists run history for analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	RecentRuns(limit int) ([]RunRecord, error)
	Close() error
}
