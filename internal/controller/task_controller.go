package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/utils/jwt"
)

type TaskInput struct {
	Title        string             `json:"title" validate:"required"`
	Notes        string             `json:"notes"`
	Priority     model.TaskPriority `json:"priority"`
	DueDate      *time.Time         `json:"due_date"`
	AssignedToID *uint              `json:"assigned_to_id"`
	PropertyID   *uint              `json:"property_id"`
}

func CreateTask(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(TaskInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	priority := input.Priority
	if priority == "" {
		priority = model.TaskPriorityNormal
	}

	task := model.Task{
		Title:        input.Title,
		Notes:        input.Notes,
		Status:       model.TaskStatusOpen,
		Priority:     priority,
		DueDate:      input.DueDate,
		AssignedToID: input.AssignedToID,
		CreatedByID:  claims.UserID,
		PropertyID:   input.PropertyID,
	}

	if err := database.GetDB().Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create task",
		})
	}

	if input.AssignedToID != nil && *input.AssignedToID != claims.UserID {
		model.NotifyUser(database.GetDB(), *input.AssignedToID, model.NotificationTaskAssigned,
			"Task assigned to you", task.Title, "/dashboard/tasks")
	}

	database.GetDB().Preload("AssignedTo").First(&task, task.ID)
	return c.Status(fiber.StatusCreated).JSON(task)
}

// ListTasks returns the staff task table. Filters: status, assigned_to,
// overdue=true.
func ListTasks(c *fiber.Ctx) error {
	query := database.GetDB().Preload("AssignedTo")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		query = query.Where("assigned_to_id = ?", assignedTo)
	}
	if c.Query("overdue") == "true" {
		query = query.Where("status <> ? AND due_date IS NOT NULL AND due_date < ?",
			model.TaskStatusDone, nowFunc())
	}

	var tasks []model.Task
	if err := query.Order("created_at desc").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch tasks",
		})
	}

	return c.JSON(tasks)
}

func UpdateTask(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(TaskInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var task model.Task
	if err := database.GetDB().First(&task, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	previousAssignee := task.AssignedToID

	task.Title = input.Title
	task.Notes = input.Notes
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	task.DueDate = input.DueDate
	task.AssignedToID = input.AssignedToID
	task.PropertyID = input.PropertyID

	if err := database.GetDB().Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update task",
		})
	}

	if input.AssignedToID != nil &&
		(previousAssignee == nil || *previousAssignee != *input.AssignedToID) {
		model.NotifyUser(database.GetDB(), *input.AssignedToID, model.NotificationTaskAssigned,
			"Task assigned to you", task.Title, "/dashboard/tasks")
	}

	database.GetDB().Preload("AssignedTo").First(&task, task.ID)
	return c.JSON(task)
}

type TaskStatusInput struct {
	Status string `json:"status"`
}

func UpdateTaskStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	input := new(TaskStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	switch model.TaskStatus(input.Status) {
	case model.TaskStatusOpen, model.TaskStatusInProgress, model.TaskStatusDone:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
			"valid_statuses": []string{
				string(model.TaskStatusOpen),
				string(model.TaskStatusInProgress),
				string(model.TaskStatusDone),
			},
		})
	}

	var task model.Task
	if err := database.GetDB().First(&task, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	updates := map[string]interface{}{"status": input.Status}
	if model.TaskStatus(input.Status) == model.TaskStatusDone {
		updates["done_at"] = nowFunc()
	} else {
		updates["done_at"] = nil
	}

	if err := database.GetDB().Model(&task).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update task status",
		})
	}

	database.GetDB().Preload("AssignedTo").First(&task, id)
	return c.JSON(fiber.Map{
		"message": "Task status updated successfully",
		"task":    task,
	})
}

func DeleteTask(c *fiber.Ctx) error {
	id := c.Params("id")

	var task model.Task
	if err := database.GetDB().First(&task, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	if err := database.GetDB().Delete(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete task",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
