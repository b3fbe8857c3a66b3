package model

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Review status
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Listing tier
type Tier string

const (
	TierFree     Tier = "free"
	TierFeatured Tier = "featured"
	TierPremium  Tier = "premium"
)

// Category set accepted from submitters and from the enrichment model.
type Category string

const (
	CategorySoftware     Category = "Software"
	CategoryAI           Category = "AI"
	CategoryDevTools     Category = "Developer Tools"
	CategoryProductivity Category = "Productivity"
	CategoryDesign       Category = "Design"
	CategoryMarketing    Category = "Marketing"
	CategoryFinance      Category = "Finance"
	CategoryEducation    Category = "Education"
)

var Categories = []Category{
	CategorySoftware,
	CategoryAI,
	CategoryDevTools,
	CategoryProductivity,
	CategoryDesign,
	CategoryMarketing,
	CategoryFinance,
	CategoryEducation,
}

func IsValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Submission struct {
	gorm.Model
	Title       string           `json:"title" gorm:"not null"`
	URL         string           `json:"url" gorm:"uniqueIndex;not null"`
	Slug        string           `json:"slug" gorm:"uniqueIndex;not null"`
	Description string           `json:"description" gorm:"type:text"`
	Category    Category         `json:"category" gorm:"not null;default:'Software'"`
	Tags        datatypes.JSON   `json:"tags"`
	LogoURL     string           `json:"logo_url"`
	ImageURL    string           `json:"image_url"`
	Email       string           `json:"email" gorm:"index;not null"`
	Status      SubmissionStatus `json:"status" gorm:"index;not null;default:'pending'"`
	Tier        Tier             `json:"tier" gorm:"index;not null;default:'free'"`
	VoteCount   int              `json:"vote_count" gorm:"default:0"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

func (Submission) TableName() string {
	return "software_submissions"
}

// BeforeCreate derives a unique slug from the title.
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.Slug == "" {
		base := slug.Make(s.Title)
		if base == "" {
			base = "listing"
		}

		candidate := base
		var count int64
		tx.Model(&Submission{}).Where("slug = ?", candidate).Count(&count)
		if count > 0 {
			candidate = fmt.Sprintf("%s-%d", base, s.CreatedAt.Unix())
		}

		s.Slug = candidate
	}
	return nil
}
