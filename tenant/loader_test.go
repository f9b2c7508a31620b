package tenant

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lpfactory/models"
)

const heroLP = `{
	"sections": [
		{"type": "hero", "title": "Welcome", "primaryButton": {"label": "Chat", "href": "https://wa.me/5511999999999"}}
	]
}`

func TestLoadLPDocumentFromRootFolder(t *testing.T) {
	root := t.TempDir()
	writeTenant(t, root, "acme", validConfig)
	writeLP(t, root, "acme", ".", heroLP)

	r := newTestRegistry(t, root)
	doc, err := r.LoadLPDocument("acme", &models.LPEntry{Title: "Acme", Folder: "."})
	if err != nil {
		t.Fatalf("LoadLPDocument() error = %v", err)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Type != "hero" {
		t.Fatalf("doc = %+v, want one hero section", doc)
	}
}

func TestLoadLPDocumentFromSubfolder(t *testing.T) {
	root := t.TempDir()
	writeTenant(t, root, "acme", validConfig)
	writeLP(t, root, "acme", "promo", heroLP)

	r := newTestRegistry(t, root)
	doc, err := r.LoadLPDocument("acme", &models.LPEntry{Title: "Promo", Folder: "promo"})
	if err != nil {
		t.Fatalf("LoadLPDocument() error = %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("doc = %+v, want one section", doc)
	}
}

func TestLoadLPDocumentMissingIsNotFound(t *testing.T) {
	root := t.TempDir()
	writeTenant(t, root, "acme", validConfig)

	r := newTestRegistry(t, root)
	_, err := r.LoadLPDocument("acme", &models.LPEntry{Folder: "promo"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestLoadLPDocumentMalformedIsDistinctError(t *testing.T) {
	root := t.TempDir()
	writeTenant(t, root, "acme", validConfig)
	writeLP(t, root, "acme", ".", `{"sections": [`)

	r := newTestRegistry(t, root)
	_, err := r.LoadLPDocument("acme", &models.LPEntry{Folder: "."})
	if !errors.Is(err, ErrMalformedContent) {
		t.Fatalf("error = %v, want ErrMalformedContent", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("malformed content must not be reported as not found")
	}
}

func TestLoadLPDocumentRejectsFolderEscape(t *testing.T) {
	root := t.TempDir()
	writeTenant(t, root, "acme", validConfig)
	writeTenant(t, root, "victim", validConfig)
	writeLP(t, root, "victim", ".", heroLP)

	r := newTestRegistry(t, root)
	for _, folder := range []string{"..", "../victim", "promo/../../victim"} {
		_, err := r.LoadLPDocument("acme", &models.LPEntry{Folder: folder})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("folder %q: error = %v, want ErrNotFound", folder, err)
		}
	}
}

func TestLoadTrackingConfig(t *testing.T) {
	root := t.TempDir()
	writeTenant(t, root, "acme", validConfig)
	writeFile := func(body string) {
		if err := os.WriteFile(filepath.Join(root, "acme", "tracking.json"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r := newTestRegistry(t, root)

	if _, err := r.LoadTrackingConfig("acme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing tracking.json: error = %v, want ErrNotFound", err)
	}

	writeFile(`{"client": "acme", "method": "direct", "configured": true}`)
	cfg, err := r.LoadTrackingConfig("acme")
	if err != nil {
		t.Fatalf("LoadTrackingConfig() error = %v", err)
	}
	if cfg.Method != "direct" || !cfg.Configured {
		t.Fatalf("cfg = %+v, want direct/configured", cfg)
	}

	writeFile(`{"method": `)
	if _, err := r.LoadTrackingConfig("acme"); !errors.Is(err, ErrMalformedContent) {
		t.Fatalf("malformed tracking.json: error = %v, want ErrMalformedContent", err)
	}
}
