package routes

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"lpfactory/config"
	"lpfactory/tenant"
	"lpfactory/utils"
	"lpfactory/worker"
)

func newTestRouter(t *testing.T) *fiber.App {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	deps := &Dependencies{
		Registry:     tenant.NewRegistry(t.TempDir(), "pages.example.com", nil, logger),
		Store:        utils.NewContentStore(config.GitRepoConfig{}, t.TempDir()),
		Mailer:       utils.NewMailer(),
		DeployWorker: worker.NewDeployWorker(nil, nil, nil, logger),
	}
	app := fiber.New()
	SetupRoutes(app, deps)
	return app
}

func TestDeployProgressSocketRequiresSession(t *testing.T) {
	app := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ws/deploy/5f0d1a2b-0000-0000-0000-000000000000", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for an upgrade without a session", resp.StatusCode)
	}
}

func TestDeployProgressSocketRejectsPlainRequests(t *testing.T) {
	app := newTestRouter(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/deploy/abc", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("status = %d, want 426 for a non-upgrade request", resp.StatusCode)
	}
}
