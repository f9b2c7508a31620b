package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	controller "lpfactory/controllers"
	"lpfactory/middleware"
	"lpfactory/tenant"
	"lpfactory/utils"
	"lpfactory/worker"
)

// Dependencies carries the shared services the route handlers need.
type Dependencies struct {
	DB           *gorm.DB
	Registry     *tenant.Registry
	Store        *utils.ContentStore
	Mailer       *utils.Mailer
	DeployWorker *worker.DeployWorker
}

func SetupAuthRoutes(app *fiber.App) {
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/login", controller.Login)

	// Protected auth endpoints (require a valid session)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Post("/settings", controller.UpdateSettings)
	protectedAuth.Get("/me", controller.GetCurrentClient)

	// Payment routes
	payment := app.Group("/payment")
	payment.Get("/plans", controller.ListPlans)
	payment.Post("/create-intent", middleware.Protected(), controller.CreateUpgradeIntent)
	payment.Post("/webhook", controller.HandlePaymentWebhook)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupPublicRoutes(app *fiber.App, deps *Dependencies) {
	pageController := controller.NewPageController(deps.Registry, log.New(os.Stdout, "PAGE: ", log.LstdFlags))
	eventController := controller.NewEventController(deps.Registry, deps.Mailer,
		log.New(os.Stdout, "EVENT: ", log.LstdFlags))

	// Page runtime endpoints consumed by rendered landing pages. These
	// carry no session; the rate limiter is their only gate.
	public := app.Group("/api/v1", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	public.Get("/tracking-config/:client", pageController.GetTrackingConfig)
	public.Post("/track/:client", middleware.TrackRateLimiter(), eventController.TrackConversion)
	public.Post("/forms/:client", middleware.TrackRateLimiter(), eventController.SubmitForm)
}

func SetupDashboardRoutes(app *fiber.App, deps *Dependencies) {
	lpController := controller.NewLPController(deps.Registry, deps.Store,
		log.New(os.Stdout, "LP: ", log.LstdFlags))
	conversionsController := controller.NewConversionsController(deps.Registry, deps.Store,
		log.New(os.Stdout, "CONVERSIONS: ", log.LstdFlags))
	trackingController := controller.NewTrackingController(deps.Registry, deps.Store,
		log.New(os.Stdout, "TRACKING: ", log.LstdFlags))
	domainController := controller.NewDomainController(deps.Registry, deps.Store,
		log.New(os.Stdout, "DOMAIN: ", log.LstdFlags))
	deployController := controller.NewDeployController(deps.DeployWorker,
		log.New(os.Stdout, "DEPLOY: ", log.LstdFlags))

	// Dashboard API: session required, and the session's client key must
	// match the :client in the path.
	dashboard := app.Group("/api/v1/dashboard/:client",
		middleware.Protected(), middleware.RequireTenant(),
		logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))

	// LP management
	dashboard.Get("/lps", lpController.ListLPs)
	dashboard.Put("/lps/:lpId", lpController.UpdateLP)
	dashboard.Post("/homepage", lpController.SetHomepage)

	// Conversion detection and editing
	dashboard.Get("/detect-conversions", conversionsController.DetectConversions)
	dashboard.Post("/lp/:lpId/conversions", conversionsController.SaveConversions)

	// Tracking configuration
	dashboard.Get("/tracking", trackingController.GetTracking)
	dashboard.Post("/tracking", trackingController.SaveTracking)

	// Custom domain
	dashboard.Get("/domain", domainController.GetDomain)
	dashboard.Post("/domain", domainController.SetDomain)

	// Deploys
	dashboard.Post("/deploy", deployController.SaveAndDeploy)
	dashboard.Get("/deploy/:jobId", deployController.GetDeployStatus)

	// Stats
	dashboard.Get("/stats", controller.GetDashboardStats)
	dashboard.Get("/forms", controller.ListFormSubmissions)

	// WebSocket route for deploy progress. The session check runs on the
	// upgrade request, so only the job's owner can watch it.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/deploy/:jobId", middleware.Protected(), websocket.New(deployController.HandleDeployProgressWS))

	log.Println("Dashboard routes initialized successfully")
}

func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Initialize Stripe
	controller.InitStripe()

	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupPublicRoutes(app, deps)
	SetupDashboardRoutes(app, deps)

	// 404 handler for unmatched API paths; everything else falls through
	// to the public LP resolver.
	app.Use("/api", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})

	// Catch-all: resolve host + path to a tenant LP. Must stay last.
	pageController := controller.NewPageController(deps.Registry, log.New(os.Stdout, "PAGE: ", log.LstdFlags))
	app.Get("/*", pageController.ServeLP)
}
