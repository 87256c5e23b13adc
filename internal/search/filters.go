// Package search builds the public listing query from request filters.
// Every field is independently optional: an absent field applies no
// restriction, and boolean filters only ever narrow, never exclude.
package search

import (
	"strings"

	"gorm.io/gorm"

	"urbankey_backend/internal/model"
)

type Filters struct {
	City            string
	MinRent         *int
	MaxRent         *int
	BHK             []model.BHK
	Furnishing      []model.Furnishing
	TenantType      *model.TenantType
	HasWater247     bool
	HasPowerBackup  bool
	HasIglPipeline  bool
	DirectOwnerOnly bool
	NearMetro       bool
}

// Apply adds one WHERE predicate per present filter field. LOWER/LIKE is
// used for the city match so it behaves the same on every dialect.
func (f Filters) Apply(db *gorm.DB) *gorm.DB {
	if f.City != "" {
		db = db.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(f.City)+"%")
	}
	if f.MinRent != nil {
		db = db.Where("rent >= ?", *f.MinRent)
	}
	if f.MaxRent != nil {
		db = db.Where("rent <= ?", *f.MaxRent)
	}
	if len(f.BHK) > 0 {
		db = db.Where("bhk IN ?", f.BHK)
	}
	if len(f.Furnishing) > 0 {
		db = db.Where("furnishing IN ?", f.Furnishing)
	}
	if f.TenantType != nil {
		db = db.Where("tenant_type = ?", *f.TenantType)
	}
	if f.HasWater247 {
		db = db.Where("has_water_247 = ?", true)
	}
	if f.HasPowerBackup {
		db = db.Where("has_power_backup = ?", true)
	}
	if f.HasIglPipeline {
		db = db.Where("has_igl_pipeline = ?", true)
	}
	if f.DirectOwnerOnly {
		db = db.Where("is_broker = ?", false)
	}
	if f.NearMetro {
		db = db.Where("distance_to_metro_km IS NOT NULL")
	}
	return db
}

// Pagination is 1-indexed. Out-of-range values fall back to the defaults.
type Pagination struct {
	Page  int
	Limit int
}

const DefaultLimit = 10

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) TotalPages(total int64) int64 {
	return (total + int64(p.Limit) - 1) / int64(p.Limit)
}
