package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lpfactory/models"
	"lpfactory/tenant"
	"lpfactory/utils"
)

// DomainController manages a tenant's custom domain binding.
type DomainController struct {
	Registry *tenant.Registry
	Store    *utils.ContentStore
	Logger   *log.Logger
}

func NewDomainController(registry *tenant.Registry, store *utils.ContentStore, logger *log.Logger) *DomainController {
	return &DomainController{Registry: registry, Store: store, Logger: logger}
}

// GetDomain returns the tenant's current domain binding and active flag.
func (dc *DomainController) GetDomain(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	cfg, err := dc.Registry.LoadConfig(clientKey)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client configuration not found", nil)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"domain": cfg.Domain,
		"active": cfg.Active,
	}))
}

// SetDomain binds a custom domain to the tenant, or clears it when the
// payload has an empty domain. A whois probe warns about domains that
// look unregistered but does not block the save; registries time out
// too often for a hard dependency.
func (dc *DomainController) SetDomain(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	var input struct {
		Domain string `json:"domain" validate:"omitempty,fqdn"`
		Active *bool  `json:"active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	input.Domain = strings.ToLower(strings.TrimSpace(input.Domain))
	input.Domain = strings.TrimPrefix(input.Domain, "www.")
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	warning := ""
	if input.Domain != "" {
		registered, err := utils.VerifyDomainRegistered(input.Domain)
		switch {
		case err != nil:
			dc.Logger.Printf("client %s: whois probe for %s failed: %v", clientKey, input.Domain, err)
			warning = "Could not verify domain registration; saved anyway"
		case !registered:
			warning = "Domain does not appear to be registered yet"
		}
	}

	ctx := c.Context()
	storePath := path.Join(clientKey, "domain.json")

	file, err := dc.Store.GetFile(ctx, storePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client configuration not found", nil)
	}

	var cfg models.TenantConfig
	if err := json.Unmarshal(file.Content, &cfg); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity,
			"Client configuration is malformed", err)
	}

	cfg.Domain = input.Domain
	if input.Active != nil {
		cfg.Active = *input.Active
	}

	raw, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to encode configuration", err)
	}

	message := fmt.Sprintf("Dashboard update: %s - domain -> %s", clientKey, input.Domain)
	if _, err := dc.Store.PutFile(ctx, storePath, raw, message, file.SHA); err != nil {
		dc.Logger.Printf("client %s: domain save failed: %v", clientKey, err)
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Failed to save domain", err)
	}

	dc.Registry.Invalidate(ctx, clientKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Domain updated",
		"domain":  cfg.Domain,
		"warning": warning,
	})
}
