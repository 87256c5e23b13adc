package controller

import (
	"github.com/gofiber/fiber/v2"

	"urbankey_backend/internal/middleware"
	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
)

type DashboardStats struct {
	TotalListings  int64 `json:"total_listings"`
	ActiveListings int64 `json:"active_listings"`
	TotalViews     int64 `json:"total_views"`
	UniqueViews    int64 `json:"unique_views"`
	TotalLeads     int64 `json:"total_leads"`
	UnreadLeads    int64 `json:"unread_leads"`
}

// GetDashboardStats aggregates listing, view and lead counts for the
// actor's properties.
func GetDashboardStats(c *fiber.Ctx) error {
	actorID := middleware.ActorID(c)
	db := database.GetDB()

	var stats DashboardStats

	db.Model(&model.Property{}).
		Where("landlord_id = ?", actorID).
		Count(&stats.TotalListings)
	db.Model(&model.Property{}).
		Where("landlord_id = ? AND is_active = ?", actorID, true).
		Count(&stats.ActiveListings)

	type viewTotals struct {
		Total  int64
		Unique int64
	}
	var views viewTotals
	if err := db.Model(&model.PropertyStats{}).
		Select("COALESCE(SUM(total_views), 0) as total, COALESCE(SUM(unique_views), 0) as \"unique\"").
		Joins("JOIN properties ON properties.id = property_stats.property_id").
		Where("properties.landlord_id = ?", actorID).
		Scan(&views).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch view stats",
		})
	}
	stats.TotalViews = views.Total
	stats.UniqueViews = views.Unique

	db.Model(&model.Lead{}).
		Joins("JOIN properties ON properties.id = leads.property_id").
		Where("properties.landlord_id = ?", actorID).
		Count(&stats.TotalLeads)
	db.Model(&model.Lead{}).
		Joins("JOIN properties ON properties.id = leads.property_id").
		Where("properties.landlord_id = ? AND leads.read_status = ?", actorID, false).
		Count(&stats.UnreadLeads)

	return c.JSON(stats)
}
