package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"lpfactory/config"
	"lpfactory/models"
	"lpfactory/utils"
	"lpfactory/worker"
)

// DeployController queues dashboard saves as deploy jobs and streams
// job progress over websocket.
type DeployController struct {
	Worker *worker.DeployWorker
	Logger *log.Logger
}

func NewDeployController(w *worker.DeployWorker, logger *log.Logger) *DeployController {
	return &DeployController{Worker: w, Logger: logger}
}

type deployFileInput struct {
	Path    string          `json:"path" validate:"required"`
	Content json.RawMessage `json:"content" validate:"required"`
}

// SaveAndDeploy validates a batch of JSON documents and queues them as
// one deploy job. Paths are forced under the tenant's own folder; a
// tenant can never commit into another tenant's directory.
func (dc *DeployController) SaveAndDeploy(c *fiber.Ctx) error {
	clientKey := c.Params("client")
	client := c.Locals("client").(*models.Client)

	var input struct {
		Files   []deployFileInput `json:"files" validate:"required,min=1,max=20"`
		Message string            `json:"message" validate:"omitempty,max=200"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	files := make([]worker.DeployFile, 0, len(input.Files))
	for _, f := range input.Files {
		clean := path.Clean(f.Path)
		if strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				fmt.Sprintf("invalid file path %q", f.Path), nil)
		}
		if !strings.HasPrefix(clean, clientKey+"/") {
			clean = path.Join(clientKey, clean)
		}
		if !json.Valid(f.Content) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				fmt.Sprintf("file %q is not valid JSON", f.Path), nil)
		}
		files = append(files, worker.DeployFile{Path: clean, Content: f.Content})
	}

	message := input.Message
	if message == "" {
		message = fmt.Sprintf("Dashboard deploy: %s", clientKey)
	}

	job := worker.DeployJob{
		JobID:     uuid.New().String(),
		ClientID:  client.ID,
		ClientKey: clientKey,
		Files:     files,
		Message:   message,
	}
	if err := dc.Worker.Enqueue(job); err != nil {
		dc.Logger.Printf("client %s: deploy enqueue failed: %v", clientKey, err)
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Deploy queue unavailable", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Deploy queued",
		"job_id":  job.JobID,
	})
}

// GetDeployStatus returns the persisted record for one deploy job.
func (dc *DeployController) GetDeployStatus(c *fiber.Ctx) error {
	clientKey := c.Params("client")
	jobID := c.Params("jobId")

	var record models.DeployRecord
	if err := config.DB.Where("job_id = ? AND client_key = ?", jobID, clientKey).
		First(&record).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Deploy job not found", nil)
	}

	return c.JSON(utils.SuccessResponse(record))
}

// HandleDeployProgressWS streams progress updates for one job until the
// job finishes or the client disconnects.
func (dc *DeployController) HandleDeployProgressWS(conn *websocket.Conn) {
	jobID := conn.Params("jobId")
	defer conn.Close()

	client, ok := conn.Locals("client").(*models.Client)
	if !ok {
		conn.WriteJSON(fiber.Map{"error": "Unauthorized"})
		return
	}

	var record models.DeployRecord
	if err := config.DB.Where("job_id = ? AND client_key = ?", jobID, client.ClientKey).
		First(&record).Error; err != nil {
		conn.WriteJSON(fiber.Map{"error": "Deploy job not found"})
		return
	}

	// Job already settled; report the stored outcome and close.
	if record.Status == models.DeployStatusCompleted || record.Status == models.DeployStatusFailed {
		conn.WriteJSON(worker.Progress{
			JobID:  jobID,
			Status: record.Status,
			Step:   record.FileCount,
			Total:  record.FileCount,
			Commit: record.CommitSHA,
			Error:  record.Error,
		})
		return
	}

	updates, cancel := dc.Worker.Subscribe(jobID)
	defer cancel()

	for update := range updates {
		if err := conn.WriteJSON(update); err != nil {
			return
		}
		if update.Status == models.DeployStatusCompleted || update.Status == models.DeployStatusFailed {
			return
		}
	}
}
