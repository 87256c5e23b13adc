package model

import (
	"time"

	"gorm.io/gorm"
)

// PropertyView is a single detail-page view. Recording is fire-and-forget:
// a failed insert is logged by the caller and never fails the read.
type PropertyView struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID string    `json:"property_id" gorm:"size:36;index"`
	UserID     *string   `json:"user_id,omitempty" gorm:"size:64;index"`
	IP         string    `json:"ip" gorm:"index"`
	UserAgent  string    `json:"user_agent"`
	ViewedAt   time.Time `json:"viewed_at" gorm:"index"`
	IsUnique   bool      `json:"is_unique" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
}

// PropertyStats holds rolled-up view counters per property. The periodic
// counters are reset by the cron jobs in pkg/cron.
type PropertyStats struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PropertyID   string    `json:"property_id" gorm:"size:36;uniqueIndex"`
	TotalViews   int64     `json:"total_views"`
	UniqueViews  int64     `json:"unique_views"`
	DailyViews   int64     `json:"daily_views"`
	WeeklyViews  int64     `json:"weekly_views"`
	MonthlyViews int64     `json:"monthly_views"`
	LastUpdated  time.Time `json:"last_updated"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate marks repeat views from the same IP within 24h as non-unique.
func (pv *PropertyView) BeforeCreate(tx *gorm.DB) error {
	var count int64
	tx.Model(&PropertyView{}).
		Where("property_id = ? AND ip = ? AND viewed_at > ?",
			pv.PropertyID, pv.IP, time.Now().Add(-24*time.Hour)).
		Count(&count)
	if count > 0 {
		pv.IsUnique = false
	}
	return nil
}

// AfterCreate folds the view into the per-property counters.
func (pv *PropertyView) AfterCreate(tx *gorm.DB) error {
	var stats PropertyStats
	if err := tx.FirstOrCreate(&stats, PropertyStats{PropertyID: pv.PropertyID}).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"total_views":   gorm.Expr("total_views + ?", 1),
		"daily_views":   gorm.Expr("daily_views + ?", 1),
		"weekly_views":  gorm.Expr("weekly_views + ?", 1),
		"monthly_views": gorm.Expr("monthly_views + ?", 1),
		"last_updated":  time.Now(),
	}
	if pv.IsUnique {
		updates["unique_views"] = gorm.Expr("unique_views + ?", 1)
	}

	return tx.Model(&stats).Updates(updates).Error
}
