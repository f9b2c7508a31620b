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

// ConversionsController runs conversion detection for the dashboard and
// persists the edited conversion set into the tenant's tracking.json.
type ConversionsController struct {
	Registry *tenant.Registry
	Store    *utils.ContentStore
	Logger   *log.Logger
}

func NewConversionsController(registry *tenant.Registry, store *utils.ContentStore, logger *log.Logger) *ConversionsController {
	return &ConversionsController{Registry: registry, Store: store, Logger: logger}
}

// DetectConversions scans one LP document and returns the detected set
// plus the top suggestions for the dashboard to pre-highlight.
func (cc *ConversionsController) DetectConversions(c *fiber.Ctx) error {
	clientKey := c.Params("client")
	lpKey := c.Query("lp")

	cfg, err := cc.Registry.LoadConfig(clientKey)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Client configuration not found", nil)
	}

	if lpKey == "" {
		lpKey = cfg.Homepage
	}
	entry, ok := cfg.LPs[lpKey]
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound,
			fmt.Sprintf("LP %q not found", lpKey), nil)
	}

	doc, err := cc.Registry.LoadLPDocument(clientKey, &entry)
	if err != nil {
		if errors.Is(err, tenant.ErrMalformedContent) {
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity,
				"LP content is malformed", err)
		}
		return utils.ErrorResponse(c, fiber.StatusNotFound, "LP content not found", nil)
	}

	detected := tracking.Detect(doc)
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"lp":          lpKey,
		"conversions": detected,
		"suggested":   tracking.Suggested(detected),
	}))
}

// EditableConversion is the dashboard's save payload per conversion.
type EditableConversion struct {
	ID            string                `json:"id" validate:"required"`
	Type          models.ConversionType `json:"type" validate:"required,oneof=whatsapp phone email form social external internal"`
	Destination   string                `json:"destination" validate:"required"`
	Label         string                `json:"label"`
	ElementsCount int                   `json:"elements_count"`
	Locations     []string              `json:"locations"`
	Enabled       bool                  `json:"enabled"`
	GoogleAdsID   string                `json:"google_ads_id"`

	CustomLabel       string `json:"custom_label,omitempty"`
	CustomDestination string `json:"custom_destination,omitempty"`
	CustomMessage     string `json:"custom_message,omitempty"`
	CustomSubject     string `json:"custom_subject,omitempty"`
}

// SaveConversions validates the edited set and writes it into
// tracking.json. Format failures surface to the editor; nothing is
// silently coerced or dropped.
func (cc *ConversionsController) SaveConversions(c *fiber.Ctx) error {
	clientKey := c.Params("client")
	lpID := c.Params("lpId")

	var payload struct {
		Conversions []EditableConversion `json:"conversions"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if payload.Conversions == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "conversions must be an array", nil)
	}

	for i, conv := range payload.Conversions {
		if err := utils.ValidateStruct(conv); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				fmt.Sprintf("conversion %d: %s", i, err.Error()), nil)
		}
		if conv.Enabled && conv.GoogleAdsID != "" && !tracking.ValidateGoogleAdsConversion(conv.GoogleAdsID) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				fmt.Sprintf("conversion %q: google_ads_id must look like AW-XXXXXXXXX/label", conv.ID), nil)
		}
	}

	ctx := c.Context()
	storePath := path.Join(clientKey, "tracking.json")

	cfg := &models.TrackingConfig{Method: models.TrackingMethodDirect}
	sha := ""
	if file, err := cc.Store.GetFile(ctx, storePath); err == nil {
		sha = file.SHA
		if err := json.Unmarshal(file.Content, cfg); err != nil {
			// Overwriting here would silently drop the tenant's saved
			// method, snippets and IDs along with the broken file.
			cc.Logger.Printf("client %s: tracking.json is malformed, refusing to overwrite: %v", clientKey, err)
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity,
				"Existing tracking configuration is malformed; fix or remove tracking.json before saving", err)
		}
	}

	saved := make(map[string]*models.DetectedConversion, len(payload.Conversions))
	for _, conv := range payload.Conversions {
		saved[conv.ID] = &models.DetectedConversion{
			ID:                conv.ID,
			Type:              conv.Type,
			Destination:       conv.Destination,
			Label:             conv.Label,
			ElementsCount:     conv.ElementsCount,
			Locations:         conv.Locations,
			TrackingEnabled:   conv.Enabled,
			GoogleAdsID:       conv.GoogleAdsID,
			CustomLabel:       conv.CustomLabel,
			CustomDestination: conv.CustomDestination,
			CustomMessage:     conv.CustomMessage,
			CustomSubject:     conv.CustomSubject,
		}
	}

	cfg.Client = clientKey
	cfg.DetectedConversions = saved
	cfg.Configured = true
	cfg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to encode configuration", err)
	}

	message := fmt.Sprintf("Dashboard update: %s - LP %s conversions", clientKey, lpID)
	if _, err := cc.Store.PutFile(ctx, storePath, raw, message, sha); err != nil {
		cc.Logger.Printf("client %s: conversions save failed: %v", clientKey, err)
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Failed to save conversions", err)
	}

	enabled, customized := 0, 0
	for _, conv := range saved {
		if conv.TrackingEnabled {
			enabled++
		}
		if conv.HasCustomizations() {
			customized++
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Conversion settings saved",
		"data": fiber.Map{
			"conversions_count": len(saved),
			"enabled_count":     enabled,
			"customized_count":  customized,
		},
	})
}
