package model

import (
	"time"

	"gorm.io/gorm"
)

// ListingView is a single recorded view of a property page.
type ListingView struct {
	gorm.Model
	PropertyID uint      `json:"property_id" gorm:"index"`
	IP         string    `json:"ip" gorm:"index"`
	SessionID  string    `json:"session_id" gorm:"index"`
	UserAgent  string    `json:"user_agent"`
	ViewedAt   time.Time `json:"viewed_at" gorm:"index"`
	IsUnique   bool      `json:"is_unique" gorm:"default:true"`

	// Relations
	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// ListingStats keeps aggregate counters per property.
type ListingStats struct {
	gorm.Model
	PropertyID  uint      `json:"property_id" gorm:"uniqueIndex"`
	TotalViews  int64     `json:"total_views"`
	UniqueViews int64     `json:"unique_views"`
	OfferCount  int64     `json:"offer_count"`
	LastUpdated time.Time `json:"last_updated"`

	// Relations
	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// BeforeCreate marks repeat views from the same IP within 24h as non-unique.
func (lv *ListingView) BeforeCreate(tx *gorm.DB) error {
	var count int64
	tx.Model(&ListingView{}).
		Where("property_id = ? AND ip = ? AND viewed_at > ?",
			lv.PropertyID,
			lv.IP,
			time.Now().Add(-24*time.Hour)).
		Count(&count)

	if count > 0 {
		lv.IsUnique = false
	}

	return nil
}

// AfterCreate bumps the aggregate counters.
func (lv *ListingView) AfterCreate(tx *gorm.DB) error {
	var stats ListingStats
	tx.FirstOrCreate(&stats, ListingStats{PropertyID: lv.PropertyID})

	updates := map[string]interface{}{
		"total_views":  gorm.Expr("total_views + ?", 1),
		"last_updated": time.Now(),
	}

	if lv.IsUnique {
		updates["unique_views"] = gorm.Expr("unique_views + ?", 1)
	}

	return tx.Model(&stats).Updates(updates).Error
}
