package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"lpfactory/config"
	"lpfactory/models"
	"lpfactory/tenant"
	"lpfactory/utils"
)

// DeployFile is one file in a deploy job, path relative to the content
// repository root (e.g. "acme/lp.json").
type DeployFile struct {
	Path    string `json:"path"`
	Content []byte `json:"content"`
}

// DeployJob is a queued request to commit a set of tenant files.
type DeployJob struct {
	JobID     string
	ClientID  uint
	ClientKey string
	Files     []DeployFile
	Message   string
}

// Progress is one step update streamed to dashboard websocket watchers.
type Progress struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Step   int    `json:"step"`
	Total  int    `json:"total"`
	Detail string `json:"detail,omitempty"`
	Commit string `json:"commit,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DeployWorker drains a queue of deploy jobs, committing each file
// through the content store and recording the outcome. Jobs for the
// same tenant are serialized by the single drain loop, so two dashboard
// saves can never interleave their commits.
type DeployWorker struct {
	DB       *gorm.DB
	Store    *utils.ContentStore
	Registry *tenant.Registry
	Logger   *log.Logger

	jobs chan DeployJob

	mu   sync.Mutex
	subs map[string][]chan Progress
}

func NewDeployWorker(db *gorm.DB, store *utils.ContentStore, registry *tenant.Registry, logger *log.Logger) *DeployWorker {
	return &DeployWorker{
		DB:       db,
		Store:    store,
		Registry: registry,
		Logger:   logger,
		jobs:     make(chan DeployJob, 64),
		subs:     make(map[string][]chan Progress),
	}
}

// Enqueue accepts a job for processing. A full queue is reported to the
// caller instead of blocking the request handler.
func (dw *DeployWorker) Enqueue(job DeployJob) error {
	record := models.DeployRecord{
		JobID:     job.JobID,
		ClientID:  job.ClientID,
		ClientKey: job.ClientKey,
		Status:    models.DeployStatusQueued,
		FileCount: len(job.Files),
		Message:   job.Message,
	}
	if err := dw.DB.Create(&record).Error; err != nil {
		return fmt.Errorf("recording deploy job: %w", err)
	}

	select {
	case dw.jobs <- job:
		return nil
	default:
		dw.DB.Model(&models.DeployRecord{}).Where("job_id = ?", job.JobID).
			Update("status", models.DeployStatusFailed)
		return fmt.Errorf("deploy queue is full")
	}
}

// Subscribe registers a progress watcher for one job. The returned
// cancel function must be called when the watcher disconnects.
func (dw *DeployWorker) Subscribe(jobID string) (<-chan Progress, func()) {
	ch := make(chan Progress, 16)

	dw.mu.Lock()
	dw.subs[jobID] = append(dw.subs[jobID], ch)
	dw.mu.Unlock()

	cancel := func() {
		dw.mu.Lock()
		defer dw.mu.Unlock()
		watchers := dw.subs[jobID]
		for i, w := range watchers {
			if w == ch {
				dw.subs[jobID] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
		if len(dw.subs[jobID]) == 0 {
			delete(dw.subs, jobID)
		}
	}
	return ch, cancel
}

func (dw *DeployWorker) publish(p Progress) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	for _, ch := range dw.subs[p.JobID] {
		select {
		case ch <- p:
		default:
			// Slow watcher; drop rather than stall the deploy.
		}
	}
}

func (dw *DeployWorker) Start(ctx context.Context) {
	dw.Logger.Println("Deploy worker started")

	for {
		select {
		case <-ctx.Done():
			dw.Logger.Println("Deploy worker shutting down...")
			return
		case job := <-dw.jobs:
			dw.process(ctx, job)
		}
	}
}

func (dw *DeployWorker) process(ctx context.Context, job DeployJob) {
	dw.Logger.Printf("Processing deploy %s for client %s (%d files)", job.JobID, job.ClientKey, len(job.Files))

	dw.DB.Model(&models.DeployRecord{}).Where("job_id = ?", job.JobID).
		Update("status", models.DeployStatusRunning)
	dw.publish(Progress{JobID: job.JobID, Status: models.DeployStatusRunning, Total: len(job.Files)})

	store := dw.storeFor(job)

	var lastCommit string
	for i, file := range job.Files {
		sha := ""
		if existing, err := store.GetFile(ctx, file.Path); err == nil {
			sha = existing.SHA
		}

		commit, err := store.PutFile(ctx, file.Path, file.Content, job.Message, sha)
		if err != nil {
			dw.fail(job, fmt.Sprintf("committing %s: %v", file.Path, err))
			return
		}
		lastCommit = commit

		dw.publish(Progress{
			JobID:  job.JobID,
			Status: models.DeployStatusRunning,
			Step:   i + 1,
			Total:  len(job.Files),
			Detail: file.Path,
		})
	}

	dw.Registry.Invalidate(ctx, job.ClientKey)

	now := time.Now()
	dw.DB.Model(&models.DeployRecord{}).Where("job_id = ?", job.JobID).
		Updates(map[string]interface{}{
			"status":      models.DeployStatusCompleted,
			"commit_sha":  lastCommit,
			"finished_at": now,
		})
	dw.publish(Progress{
		JobID:  job.JobID,
		Status: models.DeployStatusCompleted,
		Step:   len(job.Files),
		Total:  len(job.Files),
		Commit: lastCommit,
	})
	dw.Logger.Printf("Deploy %s completed (commit %s)", job.JobID, lastCommit)
}

// storeFor prefers the client's own repository token when one is
// stored, so agency tenants can deploy into their own repos. An
// unusable token falls back to the platform store rather than failing
// the job.
func (dw *DeployWorker) storeFor(job DeployJob) *utils.ContentStore {
	var client models.Client
	if err := dw.DB.First(&client, job.ClientID).Error; err != nil || client.RepoToken == "" {
		return dw.Store
	}

	token, err := utils.Decrypt(client.RepoToken)
	if err != nil || token == "" {
		dw.Logger.Printf("client %s: stored repo token unusable, using platform store: %v", job.ClientKey, err)
		return dw.Store
	}

	cfg := config.AppConfig.GitRepo
	cfg.Token = token
	return utils.NewContentStore(cfg, config.AppConfig.ContentDir)
}

func (dw *DeployWorker) fail(job DeployJob, errMsg string) {
	dw.Logger.Printf("Deploy %s failed: %s", job.JobID, errMsg)

	now := time.Now()
	dw.DB.Model(&models.DeployRecord{}).Where("job_id = ?", job.JobID).
		Updates(map[string]interface{}{
			"status":      models.DeployStatusFailed,
			"error":       errMsg,
			"finished_at": now,
		})
	dw.publish(Progress{
		JobID:  job.JobID,
		Status: models.DeployStatusFailed,
		Total:  len(job.Files),
		Error:  errMsg,
	})
}
