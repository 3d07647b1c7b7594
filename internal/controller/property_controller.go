package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/rates"
	"siamestates_backend/pkg/utils/jwt"
	"siamestates_backend/pkg/utils/location"
)

const MaxPropertyImages = 16

type PropertyInput struct {
	Title          string               `json:"title" validate:"required"`
	Type           model.PropertyType   `json:"type" validate:"required"`
	Status         model.PropertyStatus `json:"status"`
	Price          float64              `json:"price" validate:"required"`
	AppraisedValue float64              `json:"appraised_value"`
	Description    string               `json:"description" validate:"required"`

	// Location fields
	Province    string `json:"province" validate:"required"`
	District    string `json:"district" validate:"required"`
	Subdistrict string `json:"subdistrict"`
	FullAddress string `json:"full_address"`

	// Features fields
	Bedrooms     int                 `json:"bedrooms"`
	Bathrooms    int                 `json:"bathrooms"`
	AreaSqm      float64             `json:"area_sqm"`
	Floor        int                 `json:"floor"`
	YearBuilt    int                 `json:"year_built"`
	Ownership    model.OwnershipType `json:"ownership"`
	SwimmingPool bool                `json:"swimming_pool"`
	Furnished    bool                `json:"furnished"`
	PetFriendly  bool                `json:"pet_friendly"`

	Images []string `json:"images"`
}

func (in *PropertyInput) validate() string {
	if in.Title == "" || in.Price <= 0 {
		return "Title and a positive price are required"
	}
	if !location.ValidProvince(in.Province) {
		return "Unknown province"
	}
	if len(in.Images) > MaxPropertyImages {
		return "Maximum 16 images allowed"
	}
	return ""
}

// CreateProperty creates a new listing for the authenticated agent.
func CreateProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(PropertyInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if msg := input.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	status := input.Status
	if status == "" {
		status = model.PropertyStatusForSale
	}
	ownership := input.Ownership
	if ownership == "" {
		ownership = model.OwnershipFreehold
	}

	property := model.Property{
		AgentID:        claims.UserID,
		Title:          input.Title,
		Description:    input.Description,
		Price:          input.Price,
		AppraisedValue: input.AppraisedValue,
		Type:           input.Type,
		Status:         status,
		Province:       input.Province,
		District:       input.District,
		Subdistrict:    input.Subdistrict,
		FullAddress:    input.FullAddress,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		AreaSqm:        input.AreaSqm,
		Floor:          input.Floor,
		YearBuilt:      input.YearBuilt,
		Ownership:      ownership,
		SwimmingPool:   input.SwimmingPool,
		Furnished:      input.Furnished,
		PetFriendly:    input.PetFriendly,
	}

	tx := database.GetDB().Begin()

	if err := tx.Create(&property).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create property",
		})
	}

	for i, imageURL := range input.Images {
		image := model.PropertyImage{
			PropertyID: property.ID,
			URL:        imageURL,
			Order:      i,
			IsCover:    i == 0,
		}
		if err := tx.Create(&image).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save images",
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete the property creation",
		})
	}

	database.GetDB().Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("property_images.order ASC")
	}).First(&property, property.ID)

	return c.Status(fiber.StatusCreated).JSON(property)
}

// UpdateProperty updates a listing. Ownership is enforced by middleware.
func UpdateProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(PropertyInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if msg := input.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	tx := database.GetDB().Begin()

	property.Title = input.Title
	property.Type = input.Type
	if input.Status != "" {
		property.Status = input.Status
	}
	property.Price = input.Price
	property.AppraisedValue = input.AppraisedValue
	property.Description = input.Description
	property.Province = input.Province
	property.District = input.District
	property.Subdistrict = input.Subdistrict
	property.FullAddress = input.FullAddress
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	property.AreaSqm = input.AreaSqm
	property.Floor = input.Floor
	property.YearBuilt = input.YearBuilt
	property.SwimmingPool = input.SwimmingPool
	property.Furnished = input.Furnished
	property.PetFriendly = input.PetFriendly

	if err := tx.Save(&property).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update property",
		})
	}

	if err := tx.Where("property_id = ?", property.ID).Delete(&model.PropertyImage{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update images",
		})
	}

	for i, imageURL := range input.Images {
		image := model.PropertyImage{
			PropertyID: property.ID,
			URL:        imageURL,
			Order:      i,
			IsCover:    i == 0,
		}
		if err := tx.Create(&image).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save new images",
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete the update",
		})
	}

	database.GetDB().Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("property_images.order ASC")
	}).First(&property, property.ID)

	return c.JSON(property)
}

// ListProperties is the public browse endpoint with filters + pagination.
func ListProperties(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.Property{}).
		Where("status IN ?", []model.PropertyStatus{model.PropertyStatusForSale, model.PropertyStatusUnderOffer})

	if province := c.Query("province"); province != "" {
		query = query.Where("province = ?", province)
	}
	if ptype := c.Query("type"); ptype != "" {
		query = query.Where("type = ?", ptype)
	}
	if minPrice := c.QueryFloat("min_price"); minPrice > 0 {
		query = query.Where("price >= ?", minPrice)
	}
	if maxPrice := c.QueryFloat("max_price"); maxPrice > 0 {
		query = query.Where("price <= ?", maxPrice)
	}
	if bedrooms := c.QueryInt("bedrooms"); bedrooms > 0 {
		query = query.Where("bedrooms >= ?", bedrooms)
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	query.Count(&total)

	var properties []model.Property
	if err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_images.order ASC")
		}).
		Order("created_at desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": properties,
		"total":      total,
		"page":       page,
		"per_page":   perPage,
	})
}

// GetPropertyBySlug returns the public listing detail. Pass ?currency=USD
// for a converted display price alongside the THB price. Withdrawn
// listings stay visible to authenticated staff for previews.
func GetPropertyBySlug(c *fiber.Ctx) error {
	propertySlug := c.Params("property_slug")

	var property model.Property
	if err := database.GetDB().Where("slug = ?", propertySlug).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_images.order ASC")
		}).
		Preload("Agent").
		First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch property",
		})
	}

	if property.Status == model.PropertyStatusWithdrawn {
		if _, staff := c.Locals("user").(*jwt.Claims); !staff {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
	}

	response := fiber.Map{
		"property": property,
		"agent":    property.Agent.GetPublicProfile(),
	}

	if currency := strings.ToUpper(c.Query("currency")); currency != "" && currency != "THB" {
		if converted, err := rates.GlobalCache.Convert(property.Price, currency); err == nil {
			response["display_price"] = fiber.Map{
				"currency": currency,
				"amount":   converted,
			}
		}
	}

	return c.JSON(response)
}

// ListMyProperties returns the agent's own listings, any status.
func ListMyProperties(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var properties []model.Property
	if err := database.GetDB().Where("agent_id = ?", claims.UserID).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_images.order ASC")
		}).
		Order("created_at desc").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(properties)
}

// DeleteProperty removes a listing. Ownership is enforced by middleware.
func DeleteProperty(c *fiber.Ctx) error {
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().First(&property, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	tx := database.GetDB().Begin()

	if err := tx.Delete(&property).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete deletion",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RecordPropertyView records a listing page view with 24h IP dedupe.
func RecordPropertyView(c *fiber.Ctx) error {
	propertyIDStr := c.Params("id")
	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	sessionID := c.Get("X-Session-ID")
	if sessionID == "" {
		sessionID = c.IP()
	}

	view := model.ListingView{
		PropertyID: uint(propertyID),
		IP:         c.IP(),
		SessionID:  sessionID,
		UserAgent:  c.Get("User-Agent"),
		ViewedAt:   nowFunc(),
	}

	if err := database.GetDB().Create(&view).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record view",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
