package controller

import (
	"github.com/gofiber/fiber/v2"

	"urbankey_backend/internal/middleware"
	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
	"urbankey_backend/pkg/validation"
)

type LeadInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message"`
}

// CreateLead records an inquiry on a listing. Works signed-out; when the
// caller is signed in the lead is linked to them.
func CreateLead(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	var property model.Property
	if err := database.GetDB().First(&property, "id = ? AND is_active = ?", propertyID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	input := new(LeadInput)
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

	lead := model.Lead{
		PropertyID: property.ID,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Message:    input.Message,
		Status:     model.LeadStatusNew,
	}
	if actorID := middleware.ActorID(c); actorID != "" {
		lead.TenantID = &actorID
	}

	if err := database.GetDB().Create(&lead).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lead",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your inquiry has been sent. The landlord will contact you soon.",
	})
}

// GetMyLeads is the landlord inbox: every lead on the actor's listings.
func GetMyLeads(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)

	var leads []model.Lead
	query := database.GetDB().
		Joins("JOIN properties ON leads.property_id = properties.id").
		Where("properties.landlord_id = ?", actorID).
		Preload("Property")

	if status := c.Query("status"); status != "" {
		query = query.Where("leads.status = ?", status)
	}
	if readStatus := c.Query("read"); readStatus != "" {
		query = query.Where("leads.read_status = ?", readStatus == "true")
	}
	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("leads.property_id = ?", propertyID)
	}

	if err := query.Order("leads.created_at DESC").Find(&leads).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch leads",
		})
	}

	return c.JSON(leads)
}

func MarkLeadAsRead(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)
	leadID := c.Params("id")

	var lead model.Lead
	if err := database.GetDB().Preload("Property").First(&lead, "leads.id = ?", leadID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	if lead.Property == nil || lead.Property.LandlordID != actorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this lead",
		})
	}

	if err := database.GetDB().Model(&lead).Update("read_status", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not mark lead as read",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
