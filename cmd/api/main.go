package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"stacklist_backend/internal/controller"
	"stacklist_backend/internal/middleware"
	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/config"
	"stacklist_backend/pkg/cron"
	"stacklist_backend/pkg/database"
	"stacklist_backend/pkg/email"
	"stacklist_backend/pkg/enrich"
	"stacklist_backend/pkg/seed"
	"stacklist_backend/pkg/storage"
	"stacklist_backend/pkg/tiersync"
)

func setupRoutes(app *fiber.App, cfg *config.Config) {
	api := app.Group("/api")

	// Enrichment pipeline
	api.Post("/metadata/fetch", controller.FetchMetadata)

	// Public listings
	submissions := api.Group("/submissions")
	submissions.Get("/", controller.ListSubmissions)
	submissions.Get("/:slug", controller.GetSubmissionBySlug)
	submissions.Post("/", controller.CreateSubmission)

	// Engagement
	submissions.Post("/:id/vote", controller.AddVote)
	submissions.Delete("/:id/vote", controller.RemoveVote)
	submissions.Post("/:id/comments", controller.AddComment)
	submissions.Get("/:id/comments", controller.ListComments)
	submissions.Post("/:id/bookmark", controller.AddBookmark)
	submissions.Delete("/:id/bookmark", controller.RemoveBookmark)
	submissions.Post("/:id/click", controller.RecordClick)

	// Owner management via capability token
	submissions.Put("/:id", middleware.ManagementToken(), controller.UpdateSubmission)
	manage := api.Group("/manage", middleware.ManagementToken())
	manage.Get("/submissions", controller.ListManagedSubmissions)

	// Admin moderation
	admin := api.Group("/admin", middleware.AdminRequired(cfg))
	admin.Get("/submissions/pending", controller.ListPendingSubmissions)
	admin.Patch("/submissions/:id/status", controller.UpdateSubmissionStatus)
	admin.Delete("/submissions/:id", controller.DeleteSubmission)
	admin.Delete("/comments/:comment_id", controller.DeleteComment)
	admin.Get("/newsletter/subscribers", controller.ListSubscribers)

	// Newsletter
	newsletter := api.Group("/newsletter")
	newsletter.Get("/", controller.GetSubscription)
	newsletter.Post("/", controller.Subscribe)
	newsletter.Delete("/", controller.Unsubscribe)

	// Emailed links
	links := api.Group("/links")
	links.Post("/admin", controller.SendAdminLink)
	links.Post("/manage", controller.SendManagementLink)

	// Billing
	api.Post("/billing/checkout", controller.CreateCheckoutSession)
	api.Post("/webhooks/stripe", controller.HandleStripeWebhook)

	// Maintenance
	api.Post("/cleanup", controller.TriggerCleanup)
}

func main() {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if cfg.Email.ResendAPIKey != "" {
		if err := email.InitEmailService(cfg.Email.ResendAPIKey, cfg.Email.From); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, email delivery disabled")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.Submission{},
		&model.Vote{},
		&model.Bookmark{},
		&model.Comment{},
		&model.Click{},
		&model.NewsletterSubscription{},
		&model.UserToken{},
		&model.StripeSubscription{},
		&model.StripeOrder{},
		&model.CleanupRun{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedDemoListings(database.GetDB())

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal("Could not initialize storage client:", err)
	}

	orchestrator := enrich.NewOrchestrator(
		enrich.NewGormLookup(database.GetDB()),
		enrich.NewExtractor(),
		enrich.NewAIClient(cfg.AI),
		enrich.NewRelocator(store),
	)
	syncer := tiersync.NewSyncer(database.GetDB(), cfg.Stripe.SecretKey)

	controller.Init(cfg, orchestrator, syncer, store)

	cron.InitCleanupCron()
	cron.InitDigestCron(cfg.Site.BaseURL)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app, cfg)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
