package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"siamestates_backend/pkg/rates"
)

// InitRatesRefreshCron refreshes the THB exchange-rate cache hourly.
func InitRatesRefreshCron() {
	c := cron.New()

	_, err := c.AddFunc("0 * * * *", func() {
		if err := rates.GlobalCache.Refresh(); err != nil {
			log.Printf("Error refreshing exchange rates: %v", err)
		}
	})

	if err != nil {
		log.Printf("Could not initialize rates refresh cron: %v", err)
		return
	}

	c.Start()
}
