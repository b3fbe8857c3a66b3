package model

import "gorm.io/gorm"

// VoterID is either an authenticated user id or an anonymous device-local
// marker; uniqueness of (submission, voter) is all the schema guarantees.
type Vote struct {
	gorm.Model
	SubmissionID uint   `json:"submission_id" gorm:"uniqueIndex:idx_vote_submission_voter;not null"`
	VoterID      string `json:"voter_id" gorm:"uniqueIndex:idx_vote_submission_voter;not null"`
}

type Bookmark struct {
	gorm.Model
	SubmissionID uint   `json:"submission_id" gorm:"uniqueIndex:idx_bookmark_submission_voter;not null"`
	VoterID      string `json:"voter_id" gorm:"uniqueIndex:idx_bookmark_submission_voter;not null"`
}

type Comment struct {
	gorm.Model
	SubmissionID uint   `json:"submission_id" gorm:"index;not null"`
	Author       string `json:"author" gorm:"not null"`
	Body         string `json:"body" gorm:"type:text;not null"`
}

// Click records an outbound-link click from a listing page.
type Click struct {
	gorm.Model
	SubmissionID uint   `json:"submission_id" gorm:"index;not null"`
	Referer      string `json:"referer"`
}

func (Click) TableName() string {
	return "submission_clicks"
}
