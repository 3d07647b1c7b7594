package model

import (
	"strings"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleAgent UserRole = "agent"
)

type User struct {
	gorm.Model
	Email    string   `json:"email" gorm:"uniqueIndex;not null"`
	Password string   `json:"-" gorm:"not null"`
	Username string   `json:"username" gorm:"uniqueIndex;not null"`
	Role     UserRole `json:"role" gorm:"not null;default:'agent'"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Title       string `json:"title"`
	PhoneNumber string `json:"phone_number"`
	LineID      string `json:"line_id"`
	Avatar      string `json:"avatar"`

	// Relations
	Properties []Property `json:"-" gorm:"foreignKey:AgentID"`
	Tasks      []Task     `json:"-" gorm:"foreignKey:AssignedToID"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"username":     u.Username,
		"full_name":    u.GetFullName(),
		"title":        u.Title,
		"role":         u.Role,
		"phone_number": u.PhoneNumber,
		"line_id":      u.LineID,
		"avatar":       u.Avatar,
	}
}
