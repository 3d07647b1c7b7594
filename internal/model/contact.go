package model

import (
	"time"

	"gorm.io/gorm"
)

type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

// ContactSubmission comes from the general contact form. PropertyID is set
// when the form was opened from a listing page.
type ContactSubmission struct {
	gorm.Model
	Name       string        `json:"name" gorm:"not null"`
	Email      string        `json:"email" gorm:"not null"`
	Phone      string        `json:"phone"`
	Subject    string        `json:"subject"`
	Message    string        `json:"message" gorm:"type:text;not null"`
	Status     ContactStatus `json:"status" gorm:"not null;default:'new';index"`
	PropertyID *uint         `json:"property_id"`
	RepliedAt  *time.Time    `json:"replied_at"`

	// Relations
	Property *Property `json:"property" gorm:"foreignKey:PropertyID"`
}
