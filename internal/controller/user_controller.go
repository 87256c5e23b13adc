package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"urbankey_backend/internal/middleware"
	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
)

// ProfileUpdateInput is the self-service subset: role and id are immutable
// through this path, everything else belongs to the identity provider.
type ProfileUpdateInput struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

func GetMe(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)

	var user model.User
	if err := database.GetDB().
		Preload("Properties", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Wishlist.Property").
		Preload("Visits").
		Preload("Leads").
		First(&user, "id = ?", actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	return c.JSON(user)
}

func UpdateMe(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)

	input := new(ProfileUpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, "id = ?", actorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updates := map[string]interface{}{
		"full_name":  input.FullName,
		"phone":      input.Phone,
		"avatar_url": input.AvatarURL,
	}
	if err := database.GetDB().Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update profile",
		})
	}

	return c.JSON(user)
}

func DeleteMe(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)

	if err := deleteUserCascade(database.GetDB(), actorID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete user",
		})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// requireSelfOrAdmin resolves the target user id from the path and permits
// the actor when it is the target or an admin.
func requireSelfOrAdmin(c *fiber.Ctx) (string, error) {
	actorID := middleware.ActorID(c)
	targetID := c.Params("userId")
	if targetID == "" {
		return "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID format",
		})
	}
	if targetID == actorID {
		return targetID, nil
	}

	var actor model.User
	if err := database.GetDB().First(&actor, "id = ?", actorID).Error; err != nil ||
		actor.Role != model.RoleAdmin {
		return "", c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}
	return targetID, nil
}

// requireSelf is stricter: wishlist, visits and leads are private even from
// admins.
func requireSelf(c *fiber.Ctx) (string, error) {
	actorID := middleware.ActorID(c)
	targetID := c.Params("userId")
	if targetID == "" {
		return "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID format",
		})
	}
	if targetID != actorID {
		return "", c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}
	return targetID, nil
}

func GetUserByID(c *fiber.Ctx) error {
	targetID, err := requireSelfOrAdmin(c)
	if err != nil {
		return err
	}

	var user model.User
	if err := database.GetDB().
		Preload("Properties").
		Preload("Wishlist.Property").
		Preload("Visits").
		Preload("Leads").
		First(&user, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	return c.JSON(user)
}

func GetUserProperties(c *fiber.Ctx) error {
	targetID, err := requireSelfOrAdmin(c)
	if err != nil {
		return err
	}

	var properties []model.Property
	if err := database.GetDB().
		Where("landlord_id = ?", targetID).
		Preload("Images", orderedImages).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(properties)
}

func GetUserWishlist(c *fiber.Ctx) error {
	targetID, err := requireSelf(c)
	if err != nil {
		return err
	}

	var wishlist []model.Wishlist
	if err := database.GetDB().
		Where("tenant_id = ?", targetID).
		Preload("Property.Images", orderedImages).
		Preload("Property.Landlord").
		Order("created_at DESC").
		Find(&wishlist).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch wishlist",
		})
	}

	return c.JSON(wishlist)
}

func GetUserVisits(c *fiber.Ctx) error {
	targetID, err := requireSelf(c)
	if err != nil {
		return err
	}

	var visits []model.VisitSchedule
	if err := database.GetDB().
		Where("tenant_id = ?", targetID).
		Preload("Property.Images", orderedImages).
		Order("scheduled_date DESC").
		Find(&visits).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch visits",
		})
	}

	return c.JSON(visits)
}

func GetUserLeads(c *fiber.Ctx) error {
	targetID, err := requireSelf(c)
	if err != nil {
		return err
	}

	var leads []model.Lead
	if err := database.GetDB().
		Where("tenant_id = ?", targetID).
		Preload("Property.Images", orderedImages).
		Order("created_at DESC").
		Find(&leads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch leads",
		})
	}

	return c.JSON(leads)
}
