package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeeQuote is a saved transfer-fee calculation. Breakdown stores the full
// per-line result as produced by pkg/calculator.
type FeeQuote struct {
	gorm.Model
	PropertyID *uint `json:"property_id" gorm:"index"`

	AppraisedValue float64 `json:"appraised_value"` // THB
	SalePrice      float64 `json:"sale_price"`
	LoanAmount     float64 `json:"loan_amount"`
	YearsHeld      int     `json:"years_held"`

	BuyerTotal  float64        `json:"buyer_total"`
	SellerTotal float64        `json:"seller_total"`
	GrandTotal  float64        `json:"grand_total"`
	Breakdown   datatypes.JSON `json:"breakdown"`

	ContactEmail string `json:"contact_email"` // optional, for follow-up

	// Relations
	Property *Property `json:"-" gorm:"foreignKey:PropertyID"`
}
