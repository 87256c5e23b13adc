package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
)

// identityEvent is the provider's webhook payload. Email and phone arrive
// as lists; the entries referenced by the primary_* ids win.
type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		EmailAddresses []struct {
			ID           string `json:"id"`
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		PrimaryEmailAddressID string `json:"primary_email_address_id"`
		PhoneNumbers          []struct {
			ID          string `json:"id"`
			PhoneNumber string `json:"phone_number"`
		} `json:"phone_numbers"`
		PrimaryPhoneNumberID string `json:"primary_phone_number_id"`
		FirstName            string `json:"first_name"`
		LastName             string `json:"last_name"`
		ImageURL             string `json:"image_url"`
	} `json:"data"`
}

// HandleIdentityWebhook ingests user lifecycle events from the identity
// provider. The signature is verified over the raw body before any write;
// a bad signature is rejected with 400 and no side effects.
func HandleIdentityWebhook(c *fiber.Ctx) error {
	wh, err := svix.NewWebhook(os.Getenv("CLERK_WEBHOOK_SECRET"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Webhook secret not configured",
		})
	}

	payload := c.Body()
	headers := http.Header{}
	headers.Set("svix-id", c.Get("svix-id"))
	headers.Set("svix-timestamp", c.Get("svix-timestamp"))
	headers.Set("svix-signature", c.Get("svix-signature"))

	if err := wh.Verify(payload, headers); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid signature",
		})
	}

	event := new(identityEvent)
	if err := json.Unmarshal(payload, event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payload",
		})
	}

	// Audit every verified delivery, best-effort.
	audit := model.IdentityEvent{
		EventID:   c.Get("svix-id"),
		Type:      event.Type,
		SubjectID: event.Data.ID,
		Payload:   datatypes.JSON(payload),
	}
	if err := database.GetDB().Create(&audit).Error; err != nil {
		log.Printf("Could not record identity event %s: %v", audit.EventID, err)
	}

	switch event.Type {
	case "user.created", "user.updated":
		if err := upsertUser(database.GetDB(), event); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not sync user",
			})
		}

	case "user.deleted":
		if err := deleteUserCascade(database.GetDB(), event.Data.ID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not delete user",
			})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

func upsertUser(db *gorm.DB, event *identityEvent) error {
	data := event.Data

	email := ""
	for _, e := range data.EmailAddresses {
		if e.ID == data.PrimaryEmailAddressID {
			email = e.EmailAddress
			break
		}
	}
	phone := ""
	for _, p := range data.PhoneNumbers {
		if p.ID == data.PrimaryPhoneNumberID {
			phone = p.PhoneNumber
			break
		}
	}
	fullName := strings.TrimSpace(data.FirstName + " " + data.LastName)

	var user model.User
	err := db.First(&user, "id = ?", data.ID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// First sync: everyone starts as a tenant.
		return db.Create(&model.User{
			ID:        data.ID,
			Email:     email,
			Phone:     phone,
			FullName:  fullName,
			AvatarURL: data.ImageURL,
			Role:      model.RoleTenant,
		}).Error
	}

	// Updates never touch the role; promotion is owned by listing creation.
	return db.Model(&user).Updates(map[string]interface{}{
		"email":      email,
		"phone":      phone,
		"full_name":  fullName,
		"avatar_url": data.ImageURL,
	}).Error
}

// deleteUserCascade removes a user and every row referencing them. Calling
// it for an already-deleted user is a no-op, not a failure.
func deleteUserCascade(db *gorm.DB, userID string) error {
	var user model.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var properties []model.Property
		if err := tx.Where("landlord_id = ?", userID).Find(&properties).Error; err != nil {
			return err
		}
		for _, p := range properties {
			if err := deletePropertyCascade(tx, p.ID); err != nil {
				return err
			}
		}

		for _, dep := range []interface{}{
			&model.Wishlist{},
			&model.VisitSchedule{},
			&model.Lead{},
		} {
			if err := tx.Where("tenant_id = ?", userID).Delete(dep).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.User{}, "id = ?", userID).Error
	})
}
