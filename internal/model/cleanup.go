package model

import "time"

// CleanupRun is a singleton guard row. The cleanup endpoint and cron both
// advance LastRunAt with a status-gated conditional update, so concurrent
// triggers converge on a single run per hour.
type CleanupRun struct {
	ID        uint      `gorm:"primaryKey"`
	LastRunAt time.Time `gorm:"not null"`
}

func (CleanupRun) TableName() string {
	return "cleanup_runs"
}
