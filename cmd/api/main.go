package main

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"urbankey_backend/internal/controller"
	"urbankey_backend/internal/middleware"
	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/config"
	"urbankey_backend/pkg/cron"
	"urbankey_backend/pkg/database"
	"urbankey_backend/pkg/seed"
	"urbankey_backend/pkg/utils/storage"
	"urbankey_backend/pkg/utils/token"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Identity-provider webhook (raw body, provider-signed)
	auth := api.Group("/auth")
	auth.Post("/webhook", controller.HandleIdentityWebhook)

	// Public listing routes
	properties := api.Group("/properties")
	properties.Get("/", controller.ListProperties)
	properties.Get("/search", controller.SearchProperties)
	properties.Get("/:id", middleware.OptionalAuth(), controller.GetProperty)
	properties.Post("/:id/leads", middleware.OptionalAuth(), controller.CreateLead)

	// Protected listing routes
	properties.Post("/", middleware.AuthMiddleware(), controller.CreateProperty)
	properties.Put("/:id", middleware.AuthMiddleware(), controller.UpdateProperty)
	properties.Delete("/:id", middleware.AuthMiddleware(), controller.DeleteProperty)
	properties.Patch("/:id/toggle", middleware.AuthMiddleware(), controller.ToggleProperty)
	properties.Post("/:id/images", middleware.AuthMiddleware(), controller.UploadPropertyImage)
	properties.Post("/:id/visits", middleware.AuthMiddleware(), controller.ScheduleVisit)

	// User routes
	users := api.Group("/users", middleware.AuthMiddleware())
	users.Get("/me", controller.GetMe)
	users.Put("/me", controller.UpdateMe)
	users.Delete("/me", controller.DeleteMe)
	users.Get("/:userId", controller.GetUserByID)
	users.Get("/:userId/properties", controller.GetUserProperties)
	users.Get("/:userId/wishlist", controller.GetUserWishlist)
	users.Get("/:userId/visits", controller.GetUserVisits)
	users.Get("/:userId/leads", controller.GetUserLeads)

	// Wishlist
	wishlist := api.Group("/wishlist", middleware.AuthMiddleware())
	wishlist.Post("/", controller.AddToWishlist)
	wishlist.Delete("/:propertyId", controller.RemoveFromWishlist)

	// Landlord lead inbox
	leads := api.Group("/leads", middleware.AuthMiddleware())
	leads.Get("/", controller.GetMyLeads)
	leads.Put("/:id/read", controller.MarkLeadAsRead)

	// Dashboard
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", controller.GetDashboardStats)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
}

func newErrorHandler(env string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		// Detail messages stay server-side outside development.
		message := err.Error()
		if code >= fiber.StatusInternalServerError && env != "development" {
			message = "Something went wrong"
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func main() {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}
	if cfg.Identity.PEMPublicKey == "" {
		log.Fatal("CLERK_PEM_PUBLIC_KEY is not set in .env")
	}
	if err := token.Init(cfg.Identity.PEMPublicKey); err != nil {
		log.Fatal("Could not parse identity public key:", err)
	}

	database.InitPostgres(cfg.Database.URL)
	err := database.Migrate(
		&model.User{},
		&model.Property{},
		&model.PropertyImage{},
		&model.Wishlist{},
		&model.VisitSchedule{},
		&model.Lead{},
		&model.PropertyView{},
		&model.PropertyStats{},
		&model.IdentityEvent{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	if cfg.Server.Env == "development" {
		seed.SeedDevData(database.GetDB())
	}

	if cfg.Storage.AccessKey != "" {
		media, err := storage.New(cfg.Storage)
		if err != nil {
			log.Printf("Media storage unavailable: %v", err)
		} else {
			controller.Media = media
		}
	}

	cron.InitViewStatsCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: newErrorHandler(cfg.Server.Env),
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
