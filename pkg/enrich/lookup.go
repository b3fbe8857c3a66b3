package enrich

import (
	"gorm.io/gorm"

	"stacklist_backend/internal/model"
)

// GormLookup answers duplicate checks from the software_submissions table.
type GormLookup struct {
	db *gorm.DB
}

func NewGormLookup(db *gorm.DB) *GormLookup {
	return &GormLookup{db: db}
}

func (l *GormLookup) FindByURL(url string) (title, status string, found bool, err error) {
	var submission model.Submission
	dbErr := l.db.Where("url = ?", url).First(&submission).Error
	if dbErr == gorm.ErrRecordNotFound {
		return "", "", false, nil
	}
	if dbErr != nil {
		return "", "", false, dbErr
	}
	return submission.Title, string(submission.Status), true, nil
}
