package controller

import (
	"log"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lpfactory/config"
	"lpfactory/models"
	"lpfactory/tenant"
	"lpfactory/utils"
)

// EventController receives public beacons from rendered landing pages:
// conversion click events and contact-form submissions.
type EventController struct {
	Registry *tenant.Registry
	Mailer   *utils.Mailer
	Logger   *log.Logger
}

func NewEventController(registry *tenant.Registry, mailer *utils.Mailer, logger *log.Logger) *EventController {
	return &EventController{Registry: registry, Mailer: mailer, Logger: logger}
}

// TrackConversion records one conversion beacon. Pages may send their
// own event_id so a retried beacon is deduplicated by the unique index;
// otherwise the server assigns one.
func (ec *EventController) TrackConversion(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	if _, err := ec.Registry.LoadConfig(clientKey); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Unknown client", nil)
	}

	var input struct {
		EventID        string `json:"event_id" validate:"omitempty,max=64"`
		LPKey          string `json:"lp" validate:"omitempty,max=64"`
		ConversionID   string `json:"conversion_id" validate:"required,max=80"`
		ConversionType string `json:"conversion_type" validate:"required,oneof=whatsapp phone email form social external internal"`
		Destination    string `json:"destination" validate:"omitempty,max=500"`
		SourceSection  string `json:"source_section" validate:"omitempty,max=80"`
		Referrer       string `json:"referrer" validate:"omitempty,max=500"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	if input.EventID == "" {
		input.EventID = uuid.New().String()
	}

	event := models.ConversionEvent{
		EventID:        input.EventID,
		ClientKey:      clientKey,
		LPKey:          input.LPKey,
		ConversionID:   input.ConversionID,
		ConversionType: input.ConversionType,
		Destination:    input.Destination,
		SourceSection:  input.SourceSection,
		Referrer:       input.Referrer,
		UserAgent:      c.Get("User-Agent"),
		IPAddress:      c.IP(),
	}
	if err := config.DB.Create(&event).Error; err != nil {
		// Duplicate event_id means a retried beacon; treat as accepted.
		ec.Logger.Printf("client %s: event %s not stored: %v", clientKey, input.EventID, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success":  true,
		"event_id": input.EventID,
	})
}

// SubmitForm stores a contact-form post and relays it to the client's
// notify address when SMTP and the address are configured. Storage and
// relay are decoupled: a relay failure never loses the lead.
func (ec *EventController) SubmitForm(c *fiber.Ctx) error {
	clientKey := c.Params("client")

	if _, err := ec.Registry.LoadConfig(clientKey); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Unknown client", nil)
	}

	var input struct {
		LPKey   string `json:"lp" validate:"omitempty,max=64"`
		Name    string `json:"name" validate:"required,min=2,max=120"`
		Email   string `json:"email" validate:"required,max=254"`
		Phone   string `json:"phone" validate:"omitempty,max=30"`
		Message string `json:"message" validate:"required,min=2,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	if err := checkmail.ValidateFormat(input.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email address", nil)
	}

	submission := models.FormSubmission{
		ClientKey: clientKey,
		LPKey:     input.LPKey,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Message:   input.Message,
	}
	if err := config.DB.Create(&submission).Error; err != nil {
		ec.Logger.Printf("client %s: form submission not stored: %v", clientKey, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store submission", err)
	}

	ec.relay(&submission)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message received",
	})
}

func (ec *EventController) relay(sub *models.FormSubmission) {
	if ec.Mailer == nil || !ec.Mailer.Enabled() {
		return
	}

	var client models.Client
	if err := config.DB.Where("client_key = ?", sub.ClientKey).First(&client).Error; err != nil {
		return
	}
	if client.NotifyEmail == "" {
		return
	}

	if err := ec.Mailer.SendFormSubmission(client.NotifyEmail, sub); err != nil {
		ec.Logger.Printf("client %s: form relay failed: %v", sub.ClientKey, err)
		config.DB.Model(sub).Update("relay_error", err.Error())
		return
	}

	now := time.Now()
	config.DB.Model(sub).Update("relayed_at", now)
}
