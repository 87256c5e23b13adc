package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BHK configuration categories
type BHK string

const (
	BHK1     BHK = "1BHK"
	BHK2     BHK = "2BHK"
	BHK3     BHK = "3BHK"
	BHK4Plus BHK = "4BHK+"
)

// Furnishing categories
type Furnishing string

const (
	FurnishingNone  Furnishing = "unfurnished"
	FurnishingSemi  Furnishing = "semi-furnished"
	FurnishingFully Furnishing = "fully-furnished"
)

// Preferred tenant categories
type TenantType string

const (
	TenantTypeFamily    TenantType = "family"
	TenantTypeBachelors TenantType = "bachelors"
	TenantTypeBoth      TenantType = "both"
)

type Property struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	BHK         BHK        `json:"bhk" gorm:"not null;index"`
	Furnishing  Furnishing `json:"furnishing" gorm:"not null"`
	TenantType  TenantType `json:"tenant_type" gorm:"not null"`

	// Rent is the monthly rent in the currency's smallest unit.
	Rent         int  `json:"rent" gorm:"not null"`
	IsBroker     bool `json:"is_broker" gorm:"default:false"`
	BrokerageFee *int `json:"brokerage_fee,omitempty"`

	// Address fields
	AddressLine1 string   `json:"address_line1"`
	AddressLine2 string   `json:"address_line2"`
	City         string   `json:"city" gorm:"not null;index"`
	State        string   `json:"state"`
	Pincode      string   `json:"pincode"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	// Metro info
	NearestMetroStation *string  `json:"nearest_metro_station,omitempty"`
	DistanceToMetroKm   *float64 `json:"distance_to_metro_km,omitempty"`

	// Amenity flags, each an independent filter predicate
	HasWater247    bool `json:"has_water_247" gorm:"column:has_water_247;default:false"`
	HasPowerBackup bool `json:"has_power_backup" gorm:"default:false"`
	HasIglPipeline bool `json:"has_igl_pipeline" gorm:"default:false"`

	// Inactive listings are hidden from public search, not deleted.
	IsActive bool `json:"is_active" gorm:"default:true;index"`

	LandlordID string `json:"landlord_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Landlord *User           `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
	Images   []PropertyImage `json:"images" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

type PropertyImage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID string    `json:"property_id" gorm:"size:36;index"`
	URL        string    `json:"url" gorm:"not null"`
	Position   int       `json:"position" gorm:"default:0"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns an opaque id when none was provided.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (b BHK) Valid() bool {
	switch b {
	case BHK1, BHK2, BHK3, BHK4Plus:
		return true
	}
	return false
}

func (f Furnishing) Valid() bool {
	switch f {
	case FurnishingNone, FurnishingSemi, FurnishingFully:
		return true
	}
	return false
}

func (t TenantType) Valid() bool {
	switch t {
	case TenantTypeFamily, TenantTypeBachelors, TenantTypeBoth:
		return true
	}
	return false
}
