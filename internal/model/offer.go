package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferStatus string

const (
	OfferStatusPendingVerification OfferStatus = "pending_verification"
	OfferStatusActive              OfferStatus = "active"
	OfferStatusAccepted            OfferStatus = "accepted"
	OfferStatusRejected            OfferStatus = "rejected"
	OfferStatusWithdrawn           OfferStatus = "withdrawn"
	OfferStatusExpired             OfferStatus = "expired"
	OfferStatusDepositPaid         OfferStatus = "deposit_paid"
)

// MinOfferPercent is the lowest acceptable bid as a percentage of the
// asking price.
const MinOfferPercent = 90

// OfferValidityDays is how long an active offer stands before the expiry
// job lapses it.
const OfferValidityDays = 14

type Offer struct {
	gorm.Model
	PropertyID uint   `json:"property_id" gorm:"index;not null"`
	Reference  string `json:"reference" gorm:"uniqueIndex;not null"`

	BuyerName        string `json:"buyer_name" gorm:"not null"`
	BuyerEmail       string `json:"buyer_email" gorm:"not null;index"`
	BuyerPhone       string `json:"buyer_phone"`
	BuyerNationality string `json:"buyer_nationality"`

	Amount  float64     `json:"amount" gorm:"not null"` // THB
	Message string      `json:"message" gorm:"type:text"`
	Status  OfferStatus `json:"status" gorm:"not null;default:'pending_verification';index"`

	// Passport verification
	PassportKey  string     `json:"-"` // private object key, never exposed via the API
	UploadedAt   *time.Time `json:"passport_uploaded_at"`
	VerifiedAt   *time.Time `json:"verified_at"`
	VerifiedByID *uint      `json:"verified_by_id"`

	ActivatedAt *time.Time `json:"activated_at"`

	// Reservation deposit
	StripeSessionID string     `json:"-"`
	DepositAmount   float64    `json:"deposit_amount"`
	DepositPaidAt   *time.Time `json:"deposit_paid_at"`

	// Relations
	Property   Property `json:"property" gorm:"foreignKey:PropertyID"`
	VerifiedBy *User    `json:"-" gorm:"foreignKey:VerifiedByID"`
}

// MinimumOfferAmount returns the lowest bid accepted for an asking price.
func MinimumOfferAmount(askingPrice float64) float64 {
	return askingPrice * MinOfferPercent / 100
}

// BeforeCreate assigns a short uppercase reference code quoted back to the
// buyer in emails.
func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.Reference == "" {
		o.Reference = "OF-" + strings.ToUpper(uuid.New().String()[:8])
	}
	return nil
}

func (o *Offer) HasPassport() bool {
	return o.PassportKey != ""
}

// CanTransitionTo guards the offer lifecycle. Terminal states never move.
func (o *Offer) CanTransitionTo(next OfferStatus) bool {
	switch o.Status {
	case OfferStatusPendingVerification:
		return next == OfferStatusActive || next == OfferStatusRejected || next == OfferStatusWithdrawn
	case OfferStatusActive:
		return next == OfferStatusAccepted || next == OfferStatusRejected ||
			next == OfferStatusWithdrawn || next == OfferStatusExpired
	case OfferStatusAccepted:
		return next == OfferStatusDepositPaid || next == OfferStatusWithdrawn
	default:
		return false
	}
}
