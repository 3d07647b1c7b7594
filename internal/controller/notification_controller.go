package controller

import (
	"github.com/gofiber/fiber/v2"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/utils/jwt"
)

// GetNotifications returns the bell feed, newest first.
func GetNotifications(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := database.GetDB().Where("user_id = ?", claims.UserID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []model.Notification
	if err := query.Order("created_at desc").Limit(limit).Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch notifications",
		})
	}

	return c.JSON(notifications)
}

// GetUnreadCount backs the bell badge.
func GetUnreadCount(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var count int64
	database.GetDB().Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", claims.UserID, false).
		Count(&count)

	return c.JSON(fiber.Map{
		"unread": count,
	})
}

func MarkNotificationRead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id := c.Params("id")

	var notification model.Notification
	if err := database.GetDB().Where("id = ? AND user_id = ?", id, claims.UserID).
		First(&notification).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	if err := database.GetDB().Model(&notification).Update("read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update notification",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func MarkAllNotificationsRead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	err := database.GetDB().Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", claims.UserID, false).
		Update("read", true).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update notifications",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
