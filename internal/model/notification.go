package model

import (
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationOfferReceived  NotificationType = "offer_received"
	NotificationOfferVerified  NotificationType = "offer_verified"
	NotificationDepositPaid    NotificationType = "deposit_paid"
	NotificationLeadReceived   NotificationType = "lead_received"
	NotificationContactMessage NotificationType = "contact_message"
	NotificationTaskAssigned   NotificationType = "task_assigned"
	NotificationBlogPublished  NotificationType = "blog_published"
)

// Notification feeds the staff dashboard bell.
type Notification struct {
	gorm.Model
	UserID uint             `json:"user_id" gorm:"index;not null"`
	Type   NotificationType `json:"type" gorm:"not null"`
	Title  string           `json:"title" gorm:"not null"`
	Body   string           `json:"body" gorm:"type:text"`
	Link   string           `json:"link"` // dashboard route the bell entry opens
	Read   bool             `json:"read" gorm:"default:false;index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// NotifyUser inserts a bell entry, swallowing nothing: callers decide
// whether a failed insert is fatal.
func NotifyUser(db *gorm.DB, userID uint, ntype NotificationType, title, body, link string) error {
	return db.Create(&Notification{
		UserID: userID,
		Type:   ntype,
		Title:  title,
		Body:   body,
		Link:   link,
	}).Error
}

// NotifyStaff fans a bell entry out to every staff user.
func NotifyStaff(db *gorm.DB, ntype NotificationType, title, body, link string) error {
	var ids []uint
	if err := db.Model(&User{}).Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		if err := NotifyUser(db, id, ntype, title, body, link); err != nil {
			return err
		}
	}
	return nil
}
