package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"urbankey_backend/internal/gate"
	"urbankey_backend/internal/middleware"
	"urbankey_backend/internal/model"
	"urbankey_backend/internal/search"
	"urbankey_backend/pkg/database"
	"urbankey_backend/pkg/validation"
)

const MaxPropertyImages = 16

type PropertyInput struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	BHK         model.BHK        `json:"bhk" validate:"required,oneof=1BHK 2BHK 3BHK 4BHK+"`
	Furnishing  model.Furnishing `json:"furnishing" validate:"required,oneof=unfurnished semi-furnished fully-furnished"`
	TenantType  model.TenantType `json:"tenant_type" validate:"required,oneof=family bachelors both"`
	Rent        int              `json:"rent" validate:"required,gt=0"`

	IsBroker     bool `json:"is_broker"`
	BrokerageFee *int `json:"brokerage_fee" validate:"omitempty,gte=0"`

	AddressLine1 string   `json:"address_line1"`
	AddressLine2 string   `json:"address_line2"`
	City         string   `json:"city" validate:"required"`
	State        string   `json:"state"`
	Pincode      string   `json:"pincode"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`

	NearestMetroStation *string  `json:"nearest_metro_station"`
	DistanceToMetroKm   *float64 `json:"distance_to_metro_km" validate:"omitempty,gte=0"`

	HasWater247    bool `json:"has_water_247"`
	HasPowerBackup bool `json:"has_power_backup"`
	HasIglPipeline bool `json:"has_igl_pipeline"`

	Images []string `json:"images"`
}

// PropertyPatch carries only the fields present in the request body;
// absent fields stay untouched. Owner, id and creation time are never
// modifiable through this path.
type PropertyPatch struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	BHK         *model.BHK        `json:"bhk" validate:"omitempty,oneof=1BHK 2BHK 3BHK 4BHK+"`
	Furnishing  *model.Furnishing `json:"furnishing" validate:"omitempty,oneof=unfurnished semi-furnished fully-furnished"`
	TenantType  *model.TenantType `json:"tenant_type" validate:"omitempty,oneof=family bachelors both"`
	Rent        *int              `json:"rent" validate:"omitempty,gt=0"`

	IsBroker     *bool `json:"is_broker"`
	BrokerageFee *int  `json:"brokerage_fee" validate:"omitempty,gte=0"`

	AddressLine1 *string  `json:"address_line1"`
	AddressLine2 *string  `json:"address_line2"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	Pincode      *string  `json:"pincode"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`

	NearestMetroStation *string  `json:"nearest_metro_station"`
	DistanceToMetroKm   *float64 `json:"distance_to_metro_km" validate:"omitempty,gte=0"`

	HasWater247    *bool `json:"has_water_247"`
	HasPowerBackup *bool `json:"has_power_backup"`
	HasIglPipeline *bool `json:"has_igl_pipeline"`

	Images *[]string `json:"images"`
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("property_images.position ASC")
}

func parseFilters(c *fiber.Ctx) search.Filters {
	f := search.Filters{
		City:            c.Query("city"),
		HasWater247:     c.QueryBool("hasWater247", false),
		HasPowerBackup:  c.QueryBool("hasPowerBackup", false),
		HasIglPipeline:  c.QueryBool("hasIglPipeline", false),
		DirectOwnerOnly: c.QueryBool("isDirectOwner", false),
		NearMetro:       c.QueryBool("nearbyMetro", false),
	}

	if v, err := strconv.Atoi(c.Query("minRent")); err == nil {
		f.MinRent = &v
	}
	if v, err := strconv.Atoi(c.Query("maxRent")); err == nil {
		f.MaxRent = &v
	}
	for _, raw := range strings.Split(c.Query("bhk"), ",") {
		if b := model.BHK(strings.TrimSpace(raw)); b.Valid() {
			f.BHK = append(f.BHK, b)
		}
	}
	for _, raw := range strings.Split(c.Query("furnishing"), ",") {
		if fu := model.Furnishing(strings.TrimSpace(raw)); fu.Valid() {
			f.Furnishing = append(f.Furnishing, fu)
		}
	}
	if t := model.TenantType(c.Query("tenantType")); t.Valid() {
		f.TenantType = &t
	}

	return f
}

func paginated(c *fiber.Ctx, query *gorm.DB) error {
	page := search.Pagination{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", search.DefaultLimit),
	}.Normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not count properties",
		})
	}

	var properties []model.Property
	if err := query.
		Preload("Images", orderedImages).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&properties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(fiber.Map{
		"data":       properties,
		"total":      total,
		"page":       page.Page,
		"limit":      page.Limit,
		"totalPages": page.TotalPages(total),
	})
}

// ListProperties is the public filtered search. Only active listings are
// visible here, regardless of the supplied filters.
func ListProperties(c *fiber.Ctx) error {
	query := parseFilters(c).Apply(
		database.GetDB().Model(&model.Property{}).Where("is_active = ?", true),
	)
	return paginated(c, query)
}

// SearchProperties is the free-text variant: one OR across title,
// description, address and city, with an optional exact-ish city filter.
func SearchProperties(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.Property{}).Where("is_active = ?", true)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address_line1) LIKE ? OR LOWER(city) LIKE ?",
			like, like, like, like,
		)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}

	return paginated(c, query)
}

// GetProperty returns the full detail including landlord contact fields and
// records a view event. The view write is fire-and-forget.
func GetProperty(c *fiber.Ctx) error {
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().
		Preload("Images", orderedImages).
		Preload("Landlord").
		First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch property",
		})
	}

	go recordPropertyView(property.ID, middleware.ActorID(c), c.IP(), c.Get("User-Agent"))

	return c.JSON(property)
}

// CreateProperty persists a new listing with its image rows in one
// transaction, then promotes a tenant owner to landlord.
func CreateProperty(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)

	input := new(PropertyInput)
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
	if len(input.Images) > MaxPropertyImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Maximum 16 images allowed",
		})
	}

	// The webhook should have synced this user already; a missing row is a
	// desynchronization state, not a crash.
	var owner model.User
	if err := database.GetDB().First(&owner, "id = ?", actorID).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "User not found in database",
		})
	}

	property := model.Property{
		Title:               input.Title,
		Description:         input.Description,
		BHK:                 input.BHK,
		Furnishing:          input.Furnishing,
		TenantType:          input.TenantType,
		Rent:                input.Rent,
		IsBroker:            input.IsBroker,
		AddressLine1:        input.AddressLine1,
		AddressLine2:        input.AddressLine2,
		City:                input.City,
		State:               input.State,
		Pincode:             input.Pincode,
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		NearestMetroStation: input.NearestMetroStation,
		DistanceToMetroKm:   input.DistanceToMetroKm,
		HasWater247:         input.HasWater247,
		HasPowerBackup:      input.HasPowerBackup,
		HasIglPipeline:      input.HasIglPipeline,
		IsActive:            true,
		LandlordID:          actorID,
	}
	// Brokerage fee only exists on broker listings.
	if input.IsBroker {
		property.BrokerageFee = input.BrokerageFee
	}

	tx := database.GetDB().Begin()

	if err := tx.Create(&property).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create property",
		})
	}

	for i, imageURL := range input.Images {
		image := model.PropertyImage{
			PropertyID: property.ID,
			URL:        imageURL,
			Position:   i,
			IsPrimary:  i == 0,
		}
		if err := tx.Create(&image).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save images",
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete the property creation",
		})
	}

	// One-directional promotion, best-effort: a failure here is logged but
	// never turns a successful create into an error.
	if owner.Role == model.RoleTenant {
		if err := database.GetDB().Model(&owner).Update("role", model.RoleLandlord).Error; err != nil {
			log.Printf("Could not promote user %s to landlord: %v", owner.ID, err)
		}
	}

	database.GetDB().Preload("Images", orderedImages).First(&property, "id = ?", property.ID)

	return c.Status(fiber.StatusCreated).JSON(property)
}

// UpdateProperty applies a partial patch after the gate permits it.
func UpdateProperty(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().First(&property, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if err := gate.Authorize(database.GetDB(), actorID, gate.ActionUpdate, &property); err != nil {
		return gateError(c, err)
	}

	patch := new(PropertyPatch)
	if err := c.BodyParser(patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validation.Struct(patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if patch.Images != nil && len(*patch.Images) > MaxPropertyImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Maximum 16 images allowed",
		})
	}

	updates := map[string]interface{}{}
	setIfPresent := func(column string, v interface{}) {
		updates[column] = v
	}
	if patch.Title != nil {
		setIfPresent("title", *patch.Title)
	}
	if patch.Description != nil {
		setIfPresent("description", *patch.Description)
	}
	if patch.BHK != nil {
		setIfPresent("bhk", *patch.BHK)
	}
	if patch.Furnishing != nil {
		setIfPresent("furnishing", *patch.Furnishing)
	}
	if patch.TenantType != nil {
		setIfPresent("tenant_type", *patch.TenantType)
	}
	if patch.Rent != nil {
		setIfPresent("rent", *patch.Rent)
	}
	if patch.AddressLine1 != nil {
		setIfPresent("address_line1", *patch.AddressLine1)
	}
	if patch.AddressLine2 != nil {
		setIfPresent("address_line2", *patch.AddressLine2)
	}
	if patch.City != nil {
		setIfPresent("city", *patch.City)
	}
	if patch.State != nil {
		setIfPresent("state", *patch.State)
	}
	if patch.Pincode != nil {
		setIfPresent("pincode", *patch.Pincode)
	}
	if patch.Latitude != nil {
		setIfPresent("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		setIfPresent("longitude", *patch.Longitude)
	}
	if patch.NearestMetroStation != nil {
		setIfPresent("nearest_metro_station", *patch.NearestMetroStation)
	}
	if patch.DistanceToMetroKm != nil {
		setIfPresent("distance_to_metro_km", *patch.DistanceToMetroKm)
	}
	if patch.HasWater247 != nil {
		setIfPresent("has_water_247", *patch.HasWater247)
	}
	if patch.HasPowerBackup != nil {
		setIfPresent("has_power_backup", *patch.HasPowerBackup)
	}
	if patch.HasIglPipeline != nil {
		setIfPresent("has_igl_pipeline", *patch.HasIglPipeline)
	}

	// Keep the broker invariant: no fee on non-broker listings.
	isBroker := property.IsBroker
	if patch.IsBroker != nil {
		isBroker = *patch.IsBroker
		setIfPresent("is_broker", isBroker)
	}
	if !isBroker {
		setIfPresent("brokerage_fee", nil)
	} else if patch.BrokerageFee != nil {
		setIfPresent("brokerage_fee", *patch.BrokerageFee)
	}

	tx := database.GetDB().Begin()

	if len(updates) > 0 {
		if err := tx.Model(&property).Updates(updates).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update property",
			})
		}
	}

	if patch.Images != nil {
		if err := tx.Where("property_id = ?", property.ID).Delete(&model.PropertyImage{}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update images",
			})
		}
		for i, imageURL := range *patch.Images {
			image := model.PropertyImage{
				PropertyID: property.ID,
				URL:        imageURL,
				Position:   i,
				IsPrimary:  i == 0,
			}
			if err := tx.Create(&image).Error; err != nil {
				tx.Rollback()
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not save new images",
				})
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete the update",
		})
	}

	database.GetDB().Preload("Images", orderedImages).First(&property, "id = ?", property.ID)

	return c.JSON(property)
}

// DeleteProperty removes a listing and everything hanging off it in one
// transaction.
func DeleteProperty(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().First(&property, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if err := gate.Authorize(database.GetDB(), actorID, gate.ActionDelete, &property); err != nil {
		return gateError(c, err)
	}

	tx := database.GetDB().Begin()
	if err := deletePropertyCascade(tx, property.ID); err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property",
		})
	}
	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete deletion",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleProperty flips the active flag. Strictly owner-only; admins do not
// get an override here.
func ToggleProperty(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)
	id := c.Params("id")

	var property model.Property
	if err := database.GetDB().First(&property, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if err := gate.Authorize(database.GetDB(), actorID, gate.ActionToggleActive, &property); err != nil {
		return gateError(c, err)
	}

	newState := !property.IsActive
	if err := database.GetDB().Model(&property).Update("is_active", newState).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not toggle property",
		})
	}

	return c.JSON(fiber.Map{"is_active": newState})
}

// deletePropertyCascade removes the listing and its dependent rows. Callers
// own the transaction.
func deletePropertyCascade(tx *gorm.DB, propertyID string) error {
	dependents := []interface{}{
		&model.PropertyImage{},
		&model.Wishlist{},
		&model.VisitSchedule{},
		&model.Lead{},
		&model.PropertyView{},
		&model.PropertyStats{},
	}
	for _, dep := range dependents {
		if err := tx.Where("property_id = ?", propertyID).Delete(dep).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&model.Property{}, "id = ?", propertyID).Error
}

func recordPropertyView(propertyID, actorID, ip, userAgent string) {
	view := model.PropertyView{
		PropertyID: propertyID,
		IP:         ip,
		UserAgent:  userAgent,
		ViewedAt:   time.Now(),
	}
	if actorID != "" {
		view.UserID = &actorID
	}
	if err := database.GetDB().Create(&view).Error; err != nil {
		log.Printf("Could not record view for property %s: %v", propertyID, err)
	}
}

func gateError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gate.ErrUnauthenticated) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "Forbidden",
	})
}
