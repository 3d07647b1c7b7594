package model

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusScheduled BlogStatus = "scheduled"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusFailed    BlogStatus = "failed"
)

// ScheduledBlog is a post in the AI content pipeline. Keywords holds the
// target keyword list as a JSON array, primary keyword first.
type ScheduledBlog struct {
	gorm.Model
	Title           string         `json:"title" gorm:"not null"`
	Slug            string         `json:"slug" gorm:"uniqueIndex;not null"`
	Topic           string         `json:"topic"`
	Keywords        datatypes.JSON `json:"keywords"`
	Content         string         `json:"content" gorm:"type:text"`
	MetaDescription string         `json:"meta_description"`
	CoverImageURL   string         `json:"cover_image_url"`
	SEOScore        int            `json:"seo_score"`
	Status          BlogStatus     `json:"status" gorm:"not null;default:'draft';index"`
	PublishAt       *time.Time     `json:"publish_at" gorm:"index"`
	PublishedAt     *time.Time     `json:"published_at"`
	FailReason      string         `json:"fail_reason"`

	AuthorID uint `json:"author_id"`

	// Relations
	Author User `json:"-" gorm:"foreignKey:AuthorID"`
}

// InternalLink maps a keyword to a site URL. The publisher turns the first
// occurrence of each keyword in post content into an anchor.
type InternalLink struct {
	gorm.Model
	Keyword   string `json:"keyword" gorm:"uniqueIndex;not null"`
	TargetURL string `json:"target_url" gorm:"not null"`
}

func (b *ScheduledBlog) BeforeCreate(tx *gorm.DB) error {
	if b.Slug == "" {
		s := slug.Make(b.Title)

		var count int64
		tx.Model(&ScheduledBlog{}).Where("slug = ?", s).Count(&count)
		if count > 0 {
			s = s + "-" + time.Now().Format("20060102")
		}

		b.Slug = s
	}
	return nil
}

// ScheduleConflict reports whether another post already occupies the
// calendar day of publishAt. excludeID skips the post being rescheduled.
func ScheduleConflict(db *gorm.DB, publishAt time.Time, excludeID uint) (*ScheduledBlog, error) {
	dayStart := time.Date(publishAt.Year(), publishAt.Month(), publishAt.Day(), 0, 0, 0, 0, publishAt.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var existing ScheduledBlog
	query := db.Where("status IN ? AND publish_at >= ? AND publish_at < ?",
		[]BlogStatus{BlogStatusScheduled, BlogStatusPublished}, dayStart, dayEnd)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}
