package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"

	"github.com/gofiber/fiber/v2"

	"lpfactory/models"
	"lpfactory/tenant"
	"lpfactory/utils"
)

// LPController handles dashboard edits to a tenant's LP metadata. Reads
// go through the registry; writes go through the content store (the
// commit triggers a redeploy in production) and invalidate the config
// cache before responding.
type LPController struct {
	Registry *tenant.Registry
	Store    *utils.ContentStore
	Logger   *log.Logger
}

func NewLPController(registry *tenant.Registry, store *utils.ContentStore, logger *log.Logger) *LPController {
	return &LPController{Registry: registry, Store: store, Logger: logger}
}

// ListLPs returns the tenant's LP entries plus the homepage key.
func (lc *LPController) ListLPs(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	cfg, err := lc.Registry.LoadConfig(clientKey)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client configuration not found", nil)
	}

	type lpItem struct {
		Key string `json:"key"`
		models.LPEntry
	}
	items := make([]lpItem, 0, len(cfg.LPs))
	for _, key := range cfg.LPKeys() {
		items = append(items, lpItem{Key: key, LPEntry: cfg.LPs[key]})
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"homepage": cfg.Homepage,
		"domain":   cfg.Domain,
		"active":   cfg.Active,
		"lps":      items,
	}))
}

// UpdateLP edits one LP entry's title, active flag or slug. Duplicate
// slugs are rejected at this edit boundary; the public selector's
// first-match rule only ever applies to data written before this check
// existed.
func (lc *LPController) UpdateLP(c *fiber.Ctx) error {
	clientKey := c.Params("client")
	lpID := c.Params("lpId")

	var input struct {
		Title  *string `json:"title" validate:"omitempty,min=1,max=120"`
		Active *bool   `json:"active"`
		Slug   *string `json:"slug" validate:"omitempty,max=120"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.Title == nil && input.Active == nil && input.Slug == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Nothing to update", nil)
	}

	commit, err := lc.updateConfig(c, clientKey,
		fmt.Sprintf("Dashboard update: %s - LP %s", clientKey, lpID),
		func(cfg *models.TenantConfig) error {
			entry, ok := cfg.LPs[lpID]
			if !ok {
				return tenant.ErrNotFound
			}
			if input.Title != nil {
				entry.Title = *input.Title
			}
			if input.Active != nil {
				entry.Active = input.Active
			}
			if input.Slug != nil {
				for key, other := range cfg.LPs {
					if key != lpID && other.Slug == *input.Slug && *input.Slug != "" {
						return validationError{fmt.Errorf("slug %q is already used by LP %q", *input.Slug, key)}
					}
				}
				entry.Slug = *input.Slug
			}
			cfg.LPs[lpID] = entry
			return nil
		})
	if err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound,
				fmt.Sprintf("LP %q not found", lpID), nil)
		}
		return lc.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "LP settings saved",
		"commit":  commit,
	})
}

// SetHomepage switches the tenant's default LP. The new homepage must
// name an existing LP key, otherwise resolution would treat the whole
// tenant as non-existent.
func (lc *LPController) SetHomepage(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	var input struct {
		Homepage string `json:"homepage" validate:"required,min=1,max=64"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	commit, err := lc.updateConfig(c, clientKey,
		fmt.Sprintf("Dashboard update: %s - homepage -> %s", clientKey, input.Homepage),
		func(cfg *models.TenantConfig) error {
			if _, ok := cfg.LPs[input.Homepage]; !ok {
				return validationError{fmt.Errorf("homepage %q does not name an existing LP", input.Homepage)}
			}
			cfg.Homepage = input.Homepage
			return nil
		})
	if err != nil {
		return lc.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Homepage updated",
		"commit":  commit,
	})
}

// updateConfig runs a read-modify-write cycle on the tenant's
// domain.json and invalidates the cached config before returning.
func (lc *LPController) updateConfig(c *fiber.Ctx, clientKey, message string, mutate func(*models.TenantConfig) error) (string, error) {
	ctx := c.Context()
	storePath := path.Join(clientKey, "domain.json")

	file, err := lc.Store.GetFile(ctx, storePath)
	if err != nil {
		return "", fmt.Errorf("loading domain.json: %w", tenant.ErrNotFound)
	}

	var cfg models.TenantConfig
	if err := json.Unmarshal(file.Content, &cfg); err != nil {
		return "", fmt.Errorf("domain.json is malformed: %w", err)
	}

	if err := mutate(&cfg); err != nil {
		return "", err
	}

	raw, err := json.MarshalIndent(&cfg, "", "  ")
	if err != nil {
		return "", err
	}

	commit, err := lc.Store.PutFile(ctx, storePath, raw, message, file.SHA)
	if err != nil {
		return "", err
	}

	lc.Registry.Invalidate(ctx, clientKey)
	return commit, nil
}

// validationError marks a user-fixable edit problem, surfaced as a 400
// instead of a gateway failure. The user's unsaved edits stay client-side.
type validationError struct{ error }

func (lc *LPController) writeError(c *fiber.Ctx, err error) error {
	var vErr validationError
	if errors.As(err, &vErr) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, vErr.Error(), nil)
	}
	lc.Logger.Printf("config write failed: %v", err)
	if errors.Is(err, tenant.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client configuration not found", nil)
	}
	return utils.ErrorResponse(c, fiber.StatusBadGateway, "Failed to save configuration", err)
}
