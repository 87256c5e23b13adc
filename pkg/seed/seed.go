package seed

import (
	"log"

	"gorm.io/gorm"

	"urbankey_backend/internal/model"
)

// Dev fixtures: one admin, one landlord, and a couple of listings so the
// frontend has something to render against a fresh database.
func SeedDevData(db *gorm.DB) {
	admin := model.User{
		ID:       "user_seed_admin",
		Email:    "admin@urbankey.dev",
		FullName: "UrbanKey Admin",
		Role:     model.RoleAdmin,
	}
	landlord := model.User{
		ID:       "user_seed_landlord",
		Email:    "landlord@urbankey.dev",
		Phone:    "+919800000000",
		FullName: "Seed Landlord",
		Role:     model.RoleLandlord,
	}

	for _, u := range []model.User{admin, landlord} {
		if err := db.FirstOrCreate(&u, model.User{ID: u.ID}).Error; err != nil {
			log.Printf("Error seeding user %s: %v", u.ID, err)
		}
	}

	fee := 15000
	metro := "Rajiv Chowk"
	dist := 1.2
	properties := []model.Property{
		{
			ID:           "prop_seed_saket",
			Title:        "2BHK near Saket metro",
			Description:  "Sunny second-floor flat with balcony.",
			BHK:          model.BHK2,
			Furnishing:   model.FurnishingSemi,
			TenantType:   model.TenantTypeFamily,
			Rent:         25000,
			AddressLine1: "J-14 Saket",
			City:         "New Delhi",
			State:        "Delhi",
			Pincode:      "110017",
			HasWater247:  true,
			IsActive:     true,
			LandlordID:   landlord.ID,
		},
		{
			ID:                  "prop_seed_cp",
			Title:               "3BHK broker listing, Connaught Place",
			Description:         "Fully furnished, power backup, piped gas.",
			BHK:                 model.BHK3,
			Furnishing:          model.FurnishingFully,
			TenantType:          model.TenantTypeBoth,
			Rent:                60000,
			IsBroker:            true,
			BrokerageFee:        &fee,
			AddressLine1:        "Block A, Connaught Place",
			City:                "New Delhi",
			State:               "Delhi",
			Pincode:             "110001",
			NearestMetroStation: &metro,
			DistanceToMetroKm:   &dist,
			HasPowerBackup:      true,
			HasIglPipeline:      true,
			IsActive:            true,
			LandlordID:          landlord.ID,
		},
	}

	for _, p := range properties {
		if err := db.FirstOrCreate(&p, model.Property{ID: p.ID}).Error; err != nil {
			log.Printf("Error seeding property %s: %v", p.ID, err)
		}
	}

	log.Println("Dev data seeded successfully!")
}
