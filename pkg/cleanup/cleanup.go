package cleanup

import (
	"log"
	"time"

	"gorm.io/gorm"

	"stacklist_backend/internal/model"
)

const (
	// Pending submissions older than this are rejected.
	MaxPendingAge = 30 * 24 * time.Hour
	// Minimum gap between runs, enforced through the cleanup_runs row.
	MinInterval = time.Hour
)

// Run rejects stale pending submissions. The guard row is advanced with a
// conditional update, so concurrent triggers (HTTP endpoint, cron) agree on
// a single run per hour. Returns whether the run happened and how many rows
// were rejected.
func Run(db *gorm.DB) (ran bool, rejected int64, err error) {
	now := time.Now()

	var guard model.CleanupRun
	if err := db.First(&guard).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return false, 0, err
		}
		guard = model.CleanupRun{LastRunAt: time.Unix(0, 0)}
		if err := db.Create(&guard).Error; err != nil {
			return false, 0, err
		}
	}

	// The WHERE clause re-checks the timestamp; a concurrent run that got
	// there first leaves RowsAffected at zero.
	res := db.Model(&model.CleanupRun{}).
		Where("id = ? AND last_run_at <= ?", guard.ID, now.Add(-MinInterval)).
		Update("last_run_at", now)
	if res.Error != nil {
		return false, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return false, 0, nil
	}

	cutoff := now.Add(-MaxPendingAge)
	res = db.Model(&model.Submission{}).
		Where("status = ? AND created_at < ?", model.StatusPending, cutoff).
		Update("status", model.StatusRejected)
	if res.Error != nil {
		return true, 0, res.Error
	}

	if res.RowsAffected > 0 {
		log.Printf("Cleanup rejected %d stale pending submissions", res.RowsAffected)
	}
	return true, res.RowsAffected, nil
}
