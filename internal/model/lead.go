package model

import (
	"time"

	"gorm.io/gorm"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusClosed    LeadStatus = "closed"
)

type LeadInterest string

const (
	LeadInterestBuying    LeadInterest = "buying"
	LeadInterestSelling   LeadInterest = "selling"
	LeadInterestInvesting LeadInterest = "investing"
	LeadInterestRenting   LeadInterest = "renting"
)

// InvestorLead is a submission from the public investor enquiry form.
type InvestorLead struct {
	gorm.Model
	Name        string       `json:"name" gorm:"not null"`
	Email       string       `json:"email" gorm:"not null"`
	Phone       string       `json:"phone"`
	BudgetMin   float64      `json:"budget_min"` // THB
	BudgetMax   float64      `json:"budget_max"`
	Interest    LeadInterest `json:"interest" gorm:"not null;default:'investing'"`
	Message     string       `json:"message" gorm:"type:text"`
	Source      string       `json:"source" gorm:"size:50"`
	Status      LeadStatus   `json:"status" gorm:"not null;default:'new';index"`
	ReadStatus  bool         `json:"read_status" gorm:"default:false"`
	ContactedAt *time.Time   `json:"contacted_at"`
}

func ValidLeadStatus(s string) bool {
	switch LeadStatus(s) {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusClosed:
		return true
	}
	return false
}
