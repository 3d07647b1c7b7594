package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"siamestates_backend/internal/controller"
	"siamestates_backend/internal/middleware"
	"siamestates_backend/internal/model"
	"siamestates_backend/pkg/ai"
	"siamestates_backend/pkg/config"
	"siamestates_backend/pkg/cron"
	"siamestates_backend/pkg/database"
	"siamestates_backend/pkg/email"
	"siamestates_backend/pkg/rates"
	"siamestates_backend/pkg/seed"
	"siamestates_backend/pkg/utils/location"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public listing routes. The slug detail route is registered last so it
	// does not shadow the static staff paths under /properties.
	api.Get("/properties", controller.ListProperties)
	api.Post("/properties/:id/view", controller.RecordPropertyView)

	// Public offer routes (buyers are not staff and have no accounts)
	offers := api.Group("/offers")
	offers.Post("/", controller.CreateOffer)
	offers.Post("/:reference/passport", controller.UploadOfferPassport)
	offers.Get("/:reference/status", controller.GetOfferByReference)
	offers.Post("/:reference/withdraw", controller.WithdrawOffer)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Public forms
	api.Post("/contact", controller.CreateContactSubmission)
	api.Post("/investor-lead", controller.CreateInvestorLead)

	// Public blog
	blog := api.Group("/blog")
	blog.Get("/", controller.ListPublishedPosts)
	blog.Get("/:slug", controller.GetPublishedPostBySlug)

	// Calculator
	calc := api.Group("/calculator")
	calc.Post("/transfer-fee", controller.CalculateTransferFee)
	calc.Get("/defaults", controller.GetFeeSplitDefaults)

	// Location and rates
	api.Get("/locations/provinces", controller.GetProvinces)
	api.Get("/locations/provinces/:province/districts", controller.GetProvinceDistricts)
	api.Get("/rates", controller.GetExchangeRates)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Staff listing management
	properties := protected.Group("/properties")
	properties.Get("/my", controller.ListMyProperties)
	properties.Post("/", controller.CreateProperty)
	properties.Put("/:id", middleware.CheckPropertyOwnership(), controller.UpdateProperty)
	properties.Delete("/:id", middleware.CheckPropertyOwnership(), controller.DeleteProperty)
	properties.Post("/:id/images", middleware.CheckPropertyOwnership(), controller.UploadPropertyImages)
	properties.Delete("/images/:image_id", middleware.CheckImageOwnership(), controller.DeletePropertyImage)
	properties.Put("/images/:image_id/cover", middleware.CheckImageOwnership(), controller.SetCoverImage)

	// Staff offer management
	staffOffers := protected.Group("/offers")
	staffOffers.Get("/", controller.ListOffers)
	staffOffers.Put("/:id/verify", controller.VerifyOfferPassport)
	staffOffers.Put("/:id/status", controller.UpdateOfferStatus)
	staffOffers.Post("/:id/deposit-checkout", controller.CreateDepositCheckout)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", controller.GetDashboardStats)

	// Tasks
	tasks := protected.Group("/tasks")
	tasks.Post("/", controller.CreateTask)
	tasks.Get("/", controller.ListTasks)
	tasks.Put("/:id", controller.UpdateTask)
	tasks.Put("/:id/status", controller.UpdateTaskStatus)
	tasks.Delete("/:id", controller.DeleteTask)

	// Leads
	leads := protected.Group("/leads")
	leads.Get("/", controller.GetLeads)
	leads.Put("/:id/status", controller.UpdateLeadStatus)
	leads.Put("/:id/read", controller.MarkLeadAsRead)

	// Contact inbox
	contacts := protected.Group("/contacts")
	contacts.Get("/", controller.GetContactSubmissions)
	contacts.Put("/:id/read", controller.MarkContactAsRead)
	contacts.Put("/:id/replied", controller.MarkContactAsReplied)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", controller.GetNotifications)
	notifications.Get("/unread-count", controller.GetUnreadCount)
	notifications.Put("/read-all", controller.MarkAllNotificationsRead)
	notifications.Put("/:id/read", controller.MarkNotificationRead)

	// Content pipeline
	smartBlog := protected.Group("/smart-blog")
	smartBlog.Post("/generate", controller.GenerateBlog)
	smartBlog.Get("/", controller.ListBlogPosts)
	smartBlog.Get("/calendar", controller.GetBlogCalendar)
	smartBlog.Post("/schedule", controller.ScheduleBlog)
	smartBlog.Put("/:id/unschedule", controller.UnscheduleBlog)
	smartBlog.Put("/:id", controller.UpdateBlogPost)
	smartBlog.Delete("/:id", controller.DeleteBlogPost)

	links := protected.Group("/internal-links", middleware.RequireAdmin())
	links.Post("/", controller.CreateInternalLink)
	links.Get("/", controller.ListInternalLinks)
	links.Delete("/:id", controller.DeleteInternalLink)

	// Saved fee quotes
	protected.Get("/calculator/quotes", controller.ListFeeQuotes)

	// Public listing detail, kept last (see above). Staff tokens are
	// honored when present so agents can preview withdrawn listings.
	api.Get("/properties/:property_slug", middleware.OptionalAuth(), controller.GetPropertyBySlug)
}

func main() {
	cfg := config.Load()

	if err := email.InitEmailService(cfg.Email.ResendAPIKey); err != nil {
		log.Printf("Email service disabled: %v", err)
	}

	if err := ai.InitClient(cfg.AI.APIKey); err != nil {
		log.Printf("Content generation disabled: %v", err)
	}

	if err := location.Init(); err != nil {
		log.Fatal("Could not initialize location data:", err)
	}

	if err := rates.GlobalCache.Refresh(); err != nil {
		log.Printf("Could not load exchange rates: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Property{},
		&model.PropertyImage{},
		&model.ListingView{},
		&model.ListingStats{},
		&model.Offer{},
		&model.Task{},
		&model.InvestorLead{},
		&model.ContactSubmission{},
		&model.Notification{},
		&model.ScheduledBlog{},
		&model.InternalLink{},
		&model.FeeQuote{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedAdminUser(database.GetDB(), cfg.Admin.Email, cfg.Admin.Password)
	seed.SeedInternalLinks(database.GetDB())

	cron.InitBlogPublisherCron()
	cron.InitOfferExpiryCron()
	cron.InitRatesRefreshCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
