package model

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Property Types
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "House"
	PropertyTypeCondo     PropertyType = "Condo"
	PropertyTypeVilla     PropertyType = "Villa"
	PropertyTypeTownhouse PropertyType = "Townhouse"
	PropertyTypeLand      PropertyType = "Land"
)

// Property Status
type PropertyStatus string

const (
	PropertyStatusForSale    PropertyStatus = "For Sale"
	PropertyStatusUnderOffer PropertyStatus = "Under Offer"
	PropertyStatusSold       PropertyStatus = "Sold"
	PropertyStatusWithdrawn  PropertyStatus = "Withdrawn"
)

// Ownership Types
type OwnershipType string

const (
	OwnershipFreehold  OwnershipType = "Freehold"
	OwnershipLeasehold OwnershipType = "Leasehold"
)

type Property struct {
	gorm.Model
	Title          string         `json:"title" gorm:"not null"`
	Slug           string         `json:"slug" gorm:"uniqueIndex:idx_agent_property_slug;not null"`
	Type           PropertyType   `json:"type" gorm:"not null"`
	Status         PropertyStatus `json:"status" gorm:"not null;default:'For Sale'"`
	Price          float64        `json:"price" gorm:"not null"` // THB
	AppraisedValue float64        `json:"appraised_value"`       // Land Department appraised value, THB
	Description    string         `json:"description" gorm:"type:text"`

	AgentID uint `json:"agent_id" gorm:"uniqueIndex:idx_agent_property_slug"`

	// Location fields
	Province    string `json:"province" gorm:"not null;index"`
	District    string `json:"district" gorm:"not null"`
	Subdistrict string `json:"subdistrict"`
	FullAddress string `json:"full_address" gorm:"type:text"`

	// Features fields
	Bedrooms     int           `json:"bedrooms"`
	Bathrooms    int           `json:"bathrooms"`
	AreaSqm      float64       `json:"area_sqm"`
	Floor        int           `json:"floor"`
	YearBuilt    int           `json:"year_built"`
	Ownership    OwnershipType `json:"ownership" gorm:"not null;default:'Freehold'"`
	SwimmingPool bool          `json:"swimming_pool"`
	Furnished    bool          `json:"furnished"`
	PetFriendly  bool          `json:"pet_friendly"`

	// Relations
	Agent  User            `json:"-" gorm:"foreignKey:AgentID"`
	Images []PropertyImage `json:"images" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Offers []Offer         `json:"-" gorm:"foreignKey:PropertyID"`
}

type PropertyImage struct {
	gorm.Model
	PropertyID uint   `json:"property_id"`
	URL        string `json:"url" gorm:"not null"`
	IsCover    bool   `json:"is_cover" gorm:"default:false"`
	Order      int    `json:"order" gorm:"default:0"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// BeforeCreate fills the slug from the title, keeping it unique per agent.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		s := slug.Make(p.Title)

		var count int64
		tx.Model(&Property{}).Where("agent_id = ? AND slug = ?", p.AgentID, s).Count(&count)
		if count > 0 {
			s = s + "-" + p.CreatedAt.Format("20060102")
		}

		p.Slug = s
	}
	return nil
}

func (p *Property) IsOpenForOffers() bool {
	return p.Status == PropertyStatusForSale
}
