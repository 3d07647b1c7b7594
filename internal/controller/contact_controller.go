package controller

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/email"
)

type ContactInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message" validate:"required"`
	PropertyID *uint  `json:"property_id"`
}

// CreateContactSubmission handles the public contact form.
func CreateContactSubmission(c *fiber.Ctx) error {
	input := new(ContactInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Name == "" || input.Email == "" || input.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, email and message are required",
		})
	}

	submission := model.ContactSubmission{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Subject:    input.Subject,
		Message:    input.Message,
		Status:     model.ContactStatusNew,
		PropertyID: input.PropertyID,
	}

	propertyTitle := ""
	if input.PropertyID != nil {
		var property model.Property
		if err := database.GetDB().First(&property, *input.PropertyID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		propertyTitle = property.Title
	}

	if err := database.GetDB().Create(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save your message",
		})
	}

	model.NotifyStaff(database.GetDB(), model.NotificationContactMessage,
		"New contact message", submission.Name+": "+submission.Subject, "/dashboard/contacts")

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendContactReceivedEmail(os.Getenv("STAFF_INBOX"), email.ContactReceivedData{
			Name:          submission.Name,
			Email:         submission.Email,
			Subject:       submission.Subject,
			Message:       submission.Message,
			PropertyTitle: propertyTitle,
		})
		if err != nil {
			log.Printf("Could not send contact notification email: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your message has been sent. We will get back to you soon.",
	})
}

// GetContactSubmissions is the staff inbox with filters.
func GetContactSubmissions(c *fiber.Ctx) error {
	query := database.GetDB().Preload("Property")

	if status := c.Query("status"); status != "" {
		query = query.Where("contact_submissions.status = ?", status)
	}

	var submissions []model.ContactSubmission
	if err := query.Order("contact_submissions.created_at desc").Find(&submissions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch submissions",
		})
	}

	return c.JSON(submissions)
}

func MarkContactAsRead(c *fiber.Ctx) error {
	id := c.Params("id")

	var submission model.ContactSubmission
	if err := database.GetDB().First(&submission, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	if submission.Status == model.ContactStatusNew {
		if err := database.GetDB().Model(&submission).Update("status", model.ContactStatusRead).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update submission",
			})
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

func MarkContactAsReplied(c *fiber.Ctx) error {
	id := c.Params("id")

	var submission model.ContactSubmission
	if err := database.GetDB().First(&submission, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	updates := map[string]interface{}{
		"status":     model.ContactStatusReplied,
		"replied_at": nowFunc(),
	}
	if err := database.GetDB().Model(&submission).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update submission",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
