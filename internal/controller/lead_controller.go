package controller

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/email"
)

type InvestorLeadInput struct {
	Name      string             `json:"name" validate:"required"`
	Email     string             `json:"email" validate:"required,email"`
	Phone     string             `json:"phone"`
	BudgetMin float64            `json:"budget_min"`
	BudgetMax float64            `json:"budget_max"`
	Interest  model.LeadInterest `json:"interest"`
	Message   string             `json:"message"`
	Source    string             `json:"source"`
}

// CreateInvestorLead handles the public investor enquiry form.
func CreateInvestorLead(c *fiber.Ctx) error {
	input := new(InvestorLeadInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Name == "" || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and email are required",
		})
	}

	interest := input.Interest
	if interest == "" {
		interest = model.LeadInterestInvesting
	}

	lead := model.InvestorLead{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		BudgetMin: input.BudgetMin,
		BudgetMax: input.BudgetMax,
		Interest:  interest,
		Message:   input.Message,
		Source:    input.Source,
		Status:    model.LeadStatusNew,
	}

	if err := database.GetDB().Create(&lead).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lead",
		})
	}

	model.NotifyStaff(database.GetDB(), model.NotificationLeadReceived,
		"New investor lead", lead.Name, "/dashboard/leads")

	if email.GlobalEmailService != nil {
		budget := ""
		if lead.BudgetMax > 0 {
			budget = fmt.Sprintf("฿%.0f - ฿%.0f", lead.BudgetMin, lead.BudgetMax)
		}
		err := email.GlobalEmailService.SendInvestorLeadEmail(os.Getenv("STAFF_INBOX"), email.InvestorLeadData{
			Name:     lead.Name,
			Email:    lead.Email,
			Phone:    lead.Phone,
			Interest: string(lead.Interest),
			Budget:   budget,
			Message:  lead.Message,
		})
		if err != nil {
			log.Printf("Could not send lead notification email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Thank you for your enquiry. Our investment team will contact you soon.",
	})
}

// GetLeads is the staff lead table with filters.
func GetLeads(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.InvestorLead{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if readStatus := c.Query("read"); readStatus != "" {
		query = query.Where("read_status = ?", readStatus == "true")
	}
	if interest := c.Query("interest"); interest != "" {
		query = query.Where("interest = ?", interest)
	}

	var leads []model.InvestorLead
	if err := query.Order("created_at desc").Find(&leads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch leads",
		})
	}

	return c.JSON(leads)
}

func UpdateLeadStatus(c *fiber.Ctx) error {
	leadID := c.Params("id")

	var lead model.InvestorLead
	if err := database.GetDB().First(&lead, leadID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	input := struct {
		Status string `json:"status"`
	}{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !model.ValidLeadStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
			"valid_statuses": []string{
				string(model.LeadStatusNew),
				string(model.LeadStatusContacted),
				string(model.LeadStatusQualified),
				string(model.LeadStatusClosed),
			},
		})
	}

	updates := map[string]interface{}{"status": input.Status}
	if model.LeadStatus(input.Status) == model.LeadStatusContacted && lead.ContactedAt == nil {
		updates["contacted_at"] = nowFunc()
	}

	if err := database.GetDB().Model(&lead).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update lead status",
		})
	}

	database.GetDB().First(&lead, leadID)

	return c.JSON(fiber.Map{
		"message": "Lead status updated successfully",
		"lead":    lead,
	})
}

func MarkLeadAsRead(c *fiber.Ctx) error {
	leadID := c.Params("id")

	var lead model.InvestorLead
	if err := database.GetDB().First(&lead, leadID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	if err := database.GetDB().Model(&lead).Update("read_status", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not mark lead as read",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
