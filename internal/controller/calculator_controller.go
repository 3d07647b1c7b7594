package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/calculator"
	"siamestates_backend/pkg/database"
)

type TransferFeeInput struct {
	calculator.Input
	PropertyID   *uint  `json:"property_id"`
	SaveQuote    bool   `json:"save_quote"`
	ContactEmail string `json:"contact_email"`
}

// CalculateTransferFee is the public transfer-fee calculator. When a
// property is referenced, its listed price and appraised value fill any
// amounts the caller left at zero.
func CalculateTransferFee(c *fiber.Ctx) error {
	input := new(TransferFeeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.PropertyID != nil {
		var property model.Property
		if err := database.GetDB().First(&property, *input.PropertyID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		if input.SalePrice == 0 {
			input.SalePrice = property.Price
		}
		if input.AppraisedValue == 0 && property.AppraisedValue > 0 {
			input.AppraisedValue = property.AppraisedValue
		}
	}

	result, err := calculator.Calculate(input.Input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp := fiber.Map{
		"input":  input.Input,
		"result": result,
	}

	if input.SaveQuote {
		breakdown, err := json.Marshal(result.Lines)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode breakdown",
			})
		}

		quote := model.FeeQuote{
			PropertyID:     input.PropertyID,
			AppraisedValue: input.AppraisedValue,
			SalePrice:      input.SalePrice,
			LoanAmount:     input.LoanAmount,
			YearsHeld:      input.YearsHeld,
			BuyerTotal:     result.BuyerTotal,
			SellerTotal:    result.SellerTotal,
			GrandTotal:     result.GrandTotal,
			Breakdown:      datatypes.JSON(breakdown),
			ContactEmail:   input.ContactEmail,
		}
		if err := database.GetDB().Create(&quote).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save quote",
			})
		}
		resp["quote_id"] = quote.ID
	}

	return c.JSON(resp)
}

// GetFeeSplitDefaults exposes the default buyer/seller allocations so the
// frontend can prefill its sliders.
func GetFeeSplitDefaults(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"splits": calculator.DefaultSplits,
		"rates": fiber.Map{
			"transfer_fee":          calculator.TransferFeeRate,
			"specific_business_tax": calculator.SpecificBusinessTaxRate,
			"stamp_duty":            calculator.StampDutyRate,
			"company_withholding":   calculator.CompanyWithholdingRate,
			"mortgage_registration": calculator.MortgageFeeRate,
		},
	})
}

// ListFeeQuotes is the staff view of saved calculations.
func ListFeeQuotes(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.FeeQuote{})

	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("property_id = ?", propertyID)
	}

	var quotes []model.FeeQuote
	if err := query.Order("created_at desc").Limit(100).Find(&quotes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch quotes",
		})
	}

	return c.JSON(quotes)
}
