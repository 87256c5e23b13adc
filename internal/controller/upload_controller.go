package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"urbankey_backend/internal/gate"
	"urbankey_backend/internal/middleware"
	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
	"urbankey_backend/pkg/utils/storage"
)

const maxImageSize = 5 * 1024 * 1024

// Media is nil when object storage is not configured (dev, tests); the
// upload endpoint then reports 503 instead of panicking.
var Media *storage.Client

// UploadPropertyImage stores one photo for an owned listing and appends it
// to the image list.
func UploadPropertyImage(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)
	propertyID := c.Params("id")

	if Media == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Media storage not configured",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}
	if err := gate.Authorize(database.GetDB(), actorID, gate.ActionUpdate, &property); err != nil {
		return gateError(c, err)
	}

	var imageCount int64
	database.GetDB().Model(&model.PropertyImage{}).
		Where("property_id = ?", property.ID).
		Count(&imageCount)
	if imageCount >= MaxPropertyImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Maximum image limit reached (16)",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File must be an image",
		})
	}
	if file.Size > maxImageSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File size too large. Maximum size is 5MB",
		})
	}

	url, err := Media.UploadPropertyImage(c.Context(), property.ID, file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload image",
		})
	}

	image := model.PropertyImage{
		PropertyID: property.ID,
		URL:        url,
		Position:   int(imageCount),
		IsPrimary:  imageCount == 0,
	}
	if err := database.GetDB().Create(&image).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save image record",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Image uploaded successfully",
		"image":   image,
	})
}
