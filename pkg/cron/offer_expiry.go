package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
)

// InitOfferExpiryCron lapses stale active offers once a day.
func InitOfferExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		expireStaleOffers()
	})

	if err != nil {
		log.Printf("Could not initialize offer expiry cron: %v", err)
		return
	}

	c.Start()
}

func expireStaleOffers() {
	log.Println("Checking for expired offers...")

	cutoff := time.Now().AddDate(0, 0, -model.OfferValidityDays)

	var stale []model.Offer
	err := database.DB.Where("status = ? AND activated_at < ?", model.OfferStatusActive, cutoff).
		Preload("Property").
		Find(&stale).Error

	if err != nil {
		log.Printf("Error fetching stale offers: %v", err)
		return
	}

	log.Printf("Found %d offers past the %d-day validity window", len(stale), model.OfferValidityDays)

	for _, offer := range stale {
		if err := database.DB.Model(&offer).Update("status", model.OfferStatusExpired).Error; err != nil {
			log.Printf("Error expiring offer %s: %v", offer.Reference, err)
			continue
		}

		model.NotifyUser(database.DB, offer.Property.AgentID, model.NotificationOfferReceived,
			"Offer expired", "Offer "+offer.Reference+" on "+offer.Property.Title+" has lapsed",
			"/dashboard/offers")

		log.Printf("Expired offer %s on property %d", offer.Reference, offer.PropertyID)
	}
}
