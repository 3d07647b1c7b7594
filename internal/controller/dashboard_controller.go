package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/database"
)

// DashboardStats is the staff dashboard summary.
type DashboardStats struct {
	TotalListings   int64 `json:"total_listings"`
	ForSaleListings int64 `json:"for_sale_listings"`
	UnderOffer      int64 `json:"under_offer_listings"`
	SoldListings    int64 `json:"sold_listings"`
	TotalViews      int64 `json:"total_views"`

	PendingOffers  int64 `json:"pending_offers"`
	ActiveOffers   int64 `json:"active_offers"`
	AcceptedOffers int64 `json:"accepted_offers"`

	OpenTasks      int64 `json:"open_tasks"`
	OverdueTasks   int64 `json:"overdue_tasks"`
	UnreadLeads    int64 `json:"unread_leads"`
	UnreadContacts int64 `json:"unread_contacts"`

	TopProperties []TopProperty `json:"top_properties"`
	DailyStats    []DailyStat   `json:"daily_stats"`
}

type TopProperty struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Views      int64   `json:"views"`
	Price      float64 `json:"price"`
	Province   string  `json:"province"`
	Type       string  `json:"type"`
	CoverImage string  `json:"cover_image"`
}

type DailyStat struct {
	Date      string `json:"date"`
	Views     int64  `json:"views"`
	NewOffers int64  `json:"new_offers"`
}

// GetDashboardStats aggregates counts for the staff dashboard.
func GetDashboardStats(c *fiber.Ctx) error {
	db := database.GetDB()

	var stats DashboardStats

	db.Model(&model.Property{}).Count(&stats.TotalListings)
	db.Model(&model.Property{}).Where("status = ?", model.PropertyStatusForSale).Count(&stats.ForSaleListings)
	db.Model(&model.Property{}).Where("status = ?", model.PropertyStatusUnderOffer).Count(&stats.UnderOffer)
	db.Model(&model.Property{}).Where("status = ?", model.PropertyStatusSold).Count(&stats.SoldListings)

	db.Model(&model.ListingView{}).Count(&stats.TotalViews)

	db.Model(&model.Offer{}).Where("status = ?", model.OfferStatusPendingVerification).Count(&stats.PendingOffers)
	db.Model(&model.Offer{}).Where("status = ?", model.OfferStatusActive).Count(&stats.ActiveOffers)
	db.Model(&model.Offer{}).Where("status IN ?",
		[]model.OfferStatus{model.OfferStatusAccepted, model.OfferStatusDepositPaid}).Count(&stats.AcceptedOffers)

	db.Model(&model.Task{}).Where("status <> ?", model.TaskStatusDone).Count(&stats.OpenTasks)
	db.Model(&model.Task{}).Where("status <> ? AND due_date IS NOT NULL AND due_date < ?",
		model.TaskStatusDone, time.Now()).Count(&stats.OverdueTasks)

	db.Model(&model.InvestorLead{}).Where("read_status = ?", false).Count(&stats.UnreadLeads)
	db.Model(&model.ContactSubmission{}).Where("status = ?", model.ContactStatusNew).Count(&stats.UnreadContacts)

	// Top 5 viewed listings
	var topProps []TopProperty
	db.Table("properties").
		Select("properties.id, properties.title, properties.price, properties.province, properties.type, COUNT(listing_views.id) as views").
		Joins("LEFT JOIN listing_views ON properties.id = listing_views.property_id").
		Where("properties.deleted_at IS NULL").
		Group("properties.id").
		Order("views DESC").
		Limit(5).
		Scan(&topProps)

	for i := range topProps {
		var coverImage model.PropertyImage
		db.Where("property_id = ? AND is_cover = ?", topProps[i].ID, true).
			First(&coverImage)
		topProps[i].CoverImage = coverImage.URL
	}
	stats.TopProperties = topProps

	// Last 7 days
	var dailyStats []DailyStat
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		var stat DailyStat
		stat.Date = date.Format("2006-01-02")

		db.Model(&model.ListingView{}).
			Where("DATE(viewed_at) = ?", stat.Date).
			Count(&stat.Views)

		db.Model(&model.Offer{}).
			Where("DATE(created_at) = ?", stat.Date).
			Count(&stat.NewOffers)

		dailyStats = append(dailyStats, stat)
	}
	stats.DailyStats = dailyStats

	return c.JSON(stats)
}
