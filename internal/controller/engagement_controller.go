package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"urbankey_backend/internal/middleware"
	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
	"urbankey_backend/pkg/validation"
)

type WishlistInput struct {
	PropertyID string `json:"property_id" validate:"required"`
}

type VisitInput struct {
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Note          string    `json:"note"`
}

func AddToWishlist(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)

	input := new(WishlistInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validation.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, "id = ?", input.PropertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	// One entry per tenant/property pair.
	var existing int64
	database.GetDB().Model(&model.Wishlist{}).
		Where("tenant_id = ? AND property_id = ?", actorID, input.PropertyID).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Property already in wishlist",
		})
	}

	entry := model.Wishlist{
		TenantID:   actorID,
		PropertyID: input.PropertyID,
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add to wishlist",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func RemoveFromWishlist(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)
	propertyID := c.Params("propertyId")

	result := database.GetDB().
		Where("tenant_id = ? AND property_id = ?", actorID, propertyID).
		Delete(&model.Wishlist{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove from wishlist",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wishlist entry not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ScheduleVisit books a viewing appointment on an active listing.
func ScheduleVisit(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)
	propertyID := c.Params("id")

	var property model.Property
	if err := database.GetDB().First(&property, "id = ? AND is_active = ?", propertyID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	input := new(VisitInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validation.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	visit := model.VisitSchedule{
		TenantID:      actorID,
		PropertyID:    property.ID,
		ScheduledDate: input.ScheduledDate,
		Status:        model.VisitStatusPending,
		Note:          input.Note,
	}
	if err := database.GetDB().Create(&visit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not schedule visit",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(visit)
}
