package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"lpfactory/tenant"
	"lpfactory/utils"
)

// PageController serves the public side of the platform: resolving an
// inbound host/path to a tenant's LP document and exposing the tracking
// config the injected page script consumes.
type PageController struct {
	Registry *tenant.Registry
	Logger   *log.Logger
}

func NewPageController(registry *tenant.Registry, logger *log.Logger) *PageController {
	return &PageController{Registry: registry, Logger: logger}
}

// ServeLP is the catch-all public handler. The rendering layer consumes
// the returned JSON; a NotFound at any stage becomes a 404 payload and a
// document that exists but will not parse becomes a 422, so operators
// can tell the two apart.
func (pc *PageController) ServeLP(c *fiber.Ctx) error {
	host := c.Hostname()
	segments := utils.SplitPathSegments(c.Path())

	match, err := pc.Registry.Resolve(host, segments)
	if err != nil {
		pc.Logger.Printf("no tenant for host=%s path=%s", host, c.Path())
		return notFound(c, "No landing page configured for this address")
	}

	cfg, err := pc.Registry.LoadConfig(match.TenantKey)
	if err != nil {
		return notFound(c, "No landing page configured for this address")
	}

	lpKey, entry, err := tenant.SelectLP(cfg, match.Remaining)
	if err != nil {
		pc.Logger.Printf("tenant %s: no LP for path %v", match.TenantKey, match.Remaining)
		return notFound(c, "Landing page not found")
	}

	doc, err := pc.Registry.LoadLPDocument(match.TenantKey, entry)
	if err != nil {
		if errors.Is(err, tenant.ErrMalformedContent) {
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity,
				"Landing page content is malformed", err)
		}
		return notFound(c, "Landing page not found")
	}

	return c.JSON(fiber.Map{
		"client":        match.TenantKey,
		"lp":            lpKey,
		"title":         entry.Title,
		"path_fallback": match.PathFallback,
		"sections":      doc.Sections,
	})
}

// GetTrackingConfig serves a tenant's tracking.json to the page runtime.
func (pc *PageController) GetTrackingConfig(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	cfg, err := pc.Registry.LoadTrackingConfig(clientKey)
	if err != nil {
		if errors.Is(err, tenant.ErrMalformedContent) {
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity,
				"Tracking configuration is malformed", err)
		}
		return notFound(c, "Tracking configuration not found")
	}

	return c.JSON(cfg)
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":   "Not Found",
		"message": message,
	})
}
