package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/utils/image"
	"siamestates_backend/pkg/utils/storage"
	"siamestates_backend/pkg/utils/validation"
)

// UploadPropertyImages accepts a multipart form with one or more "images"
// files, re-encodes them and attaches them to the listing. Ownership has
// already been checked by the middleware.
func UploadPropertyImages(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	var property model.Property
	if err := database.GetDB().Preload("Images").First(&property, propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}

	files := form.File["images"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No images provided",
		})
	}

	if len(property.Images)+len(files) > MaxPropertyImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "A listing can have at most 16 images",
			"current":    len(property.Images),
			"max_images": MaxPropertyImages,
		})
	}

	nextOrder := 0
	hasCover := false
	for _, img := range property.Images {
		if img.Order >= nextOrder {
			nextOrder = img.Order + 1
		}
		if img.IsCover {
			hasCover = true
		}
	}

	var created []model.PropertyImage
	for _, file := range files {
		if err := validation.ValidateImage(file); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
				"file":  file.Filename,
			})
		}

		buf, contentType, err := image.ProcessImage(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Could not process image",
				"file":  file.Filename,
			})
		}

		result, err := storage.UploadListingImage(property.Slug, file.Filename, contentType, buf)
		if err != nil {
			log.Printf("Could not upload listing image: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not upload image",
			})
		}

		propertyImage := model.PropertyImage{
			PropertyID: property.ID,
			URL:        result.URL,
			IsCover:    !hasCover,
			Order:      nextOrder,
		}
		hasCover = true
		nextOrder++

		if err := database.GetDB().Create(&propertyImage).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save image record",
			})
		}
		created = append(created, propertyImage)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Images uploaded successfully",
		"images":  created,
	})
}

// DeletePropertyImage removes an image record and its stored object.
func DeletePropertyImage(c *fiber.Ctx) error {
	imageID := c.Params("image_id")

	var propertyImage model.PropertyImage
	if err := database.GetDB().First(&propertyImage, imageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}

	if err := database.GetDB().Delete(&propertyImage).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete image",
		})
	}

	if err := storage.DeleteObject(propertyImage.URL); err != nil {
		log.Printf("Could not delete stored object %s: %v", propertyImage.URL, err)
	}

	// Promote the next image when the cover was removed.
	if propertyImage.IsCover {
		var next model.PropertyImage
		err := database.GetDB().
			Where("property_id = ?", propertyImage.PropertyID).
			Order("\"order\" asc").
			First(&next).Error
		if err == nil {
			database.GetDB().Model(&next).Update("is_cover", true)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetCoverImage marks one image as the listing cover.
func SetCoverImage(c *fiber.Ctx) error {
	imageID := c.Params("image_id")

	var propertyImage model.PropertyImage
	if err := database.GetDB().First(&propertyImage, imageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}

	tx := database.GetDB().Begin()

	if err := tx.Model(&model.PropertyImage{}).
		Where("property_id = ?", propertyImage.PropertyID).
		Update("is_cover", false).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update images",
		})
	}

	if err := tx.Model(&propertyImage).Update("is_cover", true).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update images",
		})
	}

	tx.Commit()
	return c.SendStatus(fiber.StatusOK)
}
