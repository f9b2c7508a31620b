package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/gofiber/fiber/v2"

	"lpfactory/models"
	"lpfactory/tenant"
	"lpfactory/tracking"
	"lpfactory/utils"
)

// TrackingController manages a tenant's tracking.json from the
// dashboard: tracking method, GTM snippets and direct pixel IDs.
type TrackingController struct {
	Registry *tenant.Registry
	Store    *utils.ContentStore
	Logger   *log.Logger
}

func NewTrackingController(registry *tenant.Registry, store *utils.ContentStore, logger *log.Logger) *TrackingController {
	return &TrackingController{Registry: registry, Store: store, Logger: logger}
}

// GetTracking returns the tenant's current tracking configuration. A
// tenant that never configured tracking gets an empty default instead
// of a 404, so the dashboard form renders blank rather than erroring.
// A tracking.json that exists but does not parse is an error, not an
// absence: surfacing it keeps the saved configuration from being
// mistaken for blank.
func (tc *TrackingController) GetTracking(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	cfg, err := tc.Registry.LoadTrackingConfig(clientKey)
	if err != nil {
		if errors.Is(err, tenant.ErrMalformedContent) {
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity,
				"Tracking configuration is malformed", err)
		}
		cfg = &models.TrackingConfig{
			Client: clientKey,
			Method: models.TrackingMethodDirect,
		}
	}

	return c.JSON(utils.SuccessResponse(cfg))
}

type trackingInput struct {
	Method     string             `json:"method" validate:"required,oneof=gtm direct both"`
	GTMSnippet *models.GTMSnippet `json:"gtm_snippet"`
	DirectIDs  *models.DirectIDs  `json:"direct_ids"`
}

// SaveTracking validates and persists the tracking method, snippets and
// IDs. Snippets are checked before anything is written; an ID or snippet
// that fails its format check rejects the whole save.
func (tc *TrackingController) SaveTracking(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	var input trackingInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.Method == models.TrackingMethodGTM || input.Method == models.TrackingMethodBoth {
		if input.GTMSnippet == nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				"gtm_snippet is required for the selected method", nil)
		}
		if err := tracking.ValidateSnippet(input.GTMSnippet.Head); err != nil {
			tc.Logger.Printf("client %s: head snippet rejected (%v): %s",
				clientKey, err, tracking.SafeExcerpt(input.GTMSnippet.Head))
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				fmt.Sprintf("head snippet: %s", err.Error()), nil)
		}
		if input.GTMSnippet.Body != "" {
			if err := tracking.ValidateSnippet(input.GTMSnippet.Body); err != nil {
				tc.Logger.Printf("client %s: body snippet rejected (%v): %s",
					clientKey, err, tracking.SafeExcerpt(input.GTMSnippet.Body))
				return utils.ErrorResponse(c, fiber.StatusBadRequest,
					fmt.Sprintf("body snippet: %s", err.Error()), nil)
			}
		}
	}

	if input.Method == models.TrackingMethodDirect || input.Method == models.TrackingMethodBoth {
		if input.DirectIDs == nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				"direct_ids is required for the selected method", nil)
		}
		if msg := validateDirectIDs(input.DirectIDs); msg != "" {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, nil)
		}
	}

	ctx := c.Context()
	storePath := path.Join(clientKey, "tracking.json")

	cfg := &models.TrackingConfig{}
	sha := ""
	if file, err := tc.Store.GetFile(ctx, storePath); err == nil {
		sha = file.SHA
		if err := json.Unmarshal(file.Content, cfg); err != nil {
			// Never write over a file we could not read back; the saved
			// conversion set would be lost with it.
			tc.Logger.Printf("client %s: tracking.json is malformed, refusing to overwrite: %v", clientKey, err)
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity,
				"Existing tracking configuration is malformed; fix or remove tracking.json before saving", err)
		}
	}

	cfg.Client = clientKey
	cfg.Method = input.Method
	cfg.GTMSnippet = input.GTMSnippet
	cfg.DirectIDs = input.DirectIDs
	cfg.Configured = true
	cfg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to encode configuration", err)
	}

	message := fmt.Sprintf("Dashboard update: %s - tracking method %s", clientKey, input.Method)
	if _, err := tc.Store.PutFile(ctx, storePath, raw, message, sha); err != nil {
		tc.Logger.Printf("client %s: tracking save failed: %v", clientKey, err)
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Failed to save tracking configuration", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Tracking configuration saved",
	})
}

func validateDirectIDs(ids *models.DirectIDs) string {
	hasGoogleAds := ids.GoogleAds != nil && ids.GoogleAds.Remarketing != ""
	if hasGoogleAds && !tracking.ValidateGoogleAdsID(ids.GoogleAds.Remarketing) {
		return "google_ads.remarketing must look like AW-XXXXXXXXX"
	}
	if ids.GoogleAds != nil {
		for conversionID, sendTo := range ids.GoogleAds.Conversions {
			if !tracking.ValidateGoogleAdsConversion(sendTo) {
				return "google_ads.conversions." + conversionID + " must look like AW-XXXXXXXXX/label"
			}
		}
	}
	if ids.MetaPixel != "" && !tracking.ValidateMetaPixelID(ids.MetaPixel) {
		return "meta_pixel must be a 15-16 digit ID"
	}
	if ids.GoogleAnalytics != "" && !tracking.ValidateGA4ID(ids.GoogleAnalytics) {
		return "google_analytics must look like G-XXXXXXXXXX"
	}
	if !hasGoogleAds && ids.MetaPixel == "" && ids.GoogleAnalytics == "" {
		return "direct_ids must contain at least one platform ID"
	}
	return ""
}
