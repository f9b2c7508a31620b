package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"lpfactory/config"
	"lpfactory/models"
	"lpfactory/tenant"
	"lpfactory/utils"
)

// newTrackingTestApp wires the tracking and conversions controllers
// against a local content directory, the way development environments
// run without a repo token.
func newTrackingTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "acme"), 0o755); err != nil {
		t.Fatal(err)
	}

	logger := log.New(io.Discard, "", 0)
	registry := tenant.NewRegistry(root, "pages.example.com", nil, logger)
	store := utils.NewContentStore(config.GitRepoConfig{}, root)

	app := fiber.New()
	tc := NewTrackingController(registry, store, logger)
	cc := NewConversionsController(registry, store, logger)
	app.Get("/dashboard/:client/tracking", tc.GetTracking)
	app.Post("/dashboard/:client/tracking", tc.SaveTracking)
	app.Post("/dashboard/:client/lp/:lpId/conversions", cc.SaveConversions)

	return app, root
}

func writeTrackingFile(t *testing.T, root, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "acme", "tracking.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readTrackingFile(t *testing.T, root string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(root, "acme", "tracking.json"))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func TestGetTrackingMissingConfigReturnsDefault(t *testing.T) {
	app, _ := newTrackingTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/dashboard/acme/tracking", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Data models.TrackingConfig `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Client != "acme" || body.Data.Method != models.TrackingMethodDirect {
		t.Fatalf("default config = %+v, want blank acme/direct", body.Data)
	}
}

func TestGetTrackingMalformedConfigIsAnError(t *testing.T) {
	app, root := newTrackingTestApp(t)
	writeTrackingFile(t, root, `{"method": `)

	resp := doJSON(t, app, http.MethodGet, "/dashboard/acme/tracking", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for unparseable tracking.json", resp.StatusCode)
	}

	// A parseable file recovers without any manual intervention beyond
	// fixing the content.
	writeTrackingFile(t, root, `{"client": "acme", "method": "gtm", "configured": true}`)
	resp = doJSON(t, app, http.MethodGet, "/dashboard/acme/tracking", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status after repair = %d, want 200", resp.StatusCode)
	}
}

func TestSaveTrackingRefusesToOverwriteMalformedConfig(t *testing.T) {
	app, root := newTrackingTestApp(t)
	broken := `{"method": "direct", "detected_conversions": {`
	writeTrackingFile(t, root, broken)

	payload := `{"method":"direct","direct_ids":{"google_ads":{"remarketing":"AW-123456789"}}}`
	resp := doJSON(t, app, http.MethodPost, "/dashboard/acme/tracking", payload)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 instead of overwriting", resp.StatusCode)
	}
	if got := string(readTrackingFile(t, root)); got != broken {
		t.Fatalf("tracking.json was rewritten to %q, want the original left untouched", got)
	}
}

func TestSaveConversionsRefusesToOverwriteMalformedConfig(t *testing.T) {
	app, root := newTrackingTestApp(t)
	broken := `{"method": "direct", "detected_conversions": {`
	writeTrackingFile(t, root, broken)

	payload := `{"conversions":[{"id":"whatsapp_5511999999999","type":"whatsapp","destination":"+5511999999999","enabled":true}]}`
	resp := doJSON(t, app, http.MethodPost, "/dashboard/acme/lp/main/conversions", payload)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 instead of overwriting", resp.StatusCode)
	}
	if got := string(readTrackingFile(t, root)); got != broken {
		t.Fatalf("tracking.json was rewritten to %q, want the original left untouched", got)
	}
}

func TestSaveConversionsPreservesExistingMethodAndSnippet(t *testing.T) {
	app, root := newTrackingTestApp(t)
	writeTrackingFile(t, root, `{
		"client": "acme",
		"method": "gtm",
		"gtm_snippet": {"head": "<!-- Google Tag Manager --><script>gtm</script><!-- End Google Tag Manager -->"},
		"configured": true
	}`)

	payload := `{"conversions":[{"id":"form_contact","type":"form","destination":"contact","enabled":true}]}`
	resp := doJSON(t, app, http.MethodPost, "/dashboard/acme/lp/main/conversions", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var cfg models.TrackingConfig
	if err := json.Unmarshal(readTrackingFile(t, root), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Method != models.TrackingMethodGTM {
		t.Errorf("Method = %q, want the existing gtm method kept", cfg.Method)
	}
	if cfg.GTMSnippet == nil || cfg.GTMSnippet.Head == "" {
		t.Error("gtm_snippet was dropped by the conversions save")
	}
	if _, ok := cfg.DetectedConversions["form_contact"]; !ok {
		t.Errorf("DetectedConversions = %v, want form_contact saved", cfg.DetectedConversions)
	}
}
