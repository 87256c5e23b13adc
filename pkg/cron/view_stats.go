package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
)

// InitViewStatsCron resets the rolling view counters: daily at midnight,
// weekly on Monday, monthly on the 1st.
func InitViewStatsCron() {
	c := cron.New()

	_, err := c.AddFunc("0 0 * * *", func() {
		resetCounter("daily_views")
	})
	if err == nil {
		_, err = c.AddFunc("0 0 * * 1", func() {
			resetCounter("weekly_views")
		})
	}
	if err == nil {
		_, err = c.AddFunc("0 0 1 * *", func() {
			resetCounter("monthly_views")
		})
	}

	if err != nil {
		log.Printf("Could not initialize view stats cron: %v", err)
		return
	}

	c.Start()
}

func resetCounter(column string) {
	if err := database.GetDB().Model(&model.PropertyStats{}).
		Where("1 = 1").
		Update(column, 0).Error; err != nil {
		log.Printf("Error resetting %s: %v", column, err)
	}
}
