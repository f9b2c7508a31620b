package tenant

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"lpfactory/models"
)

// LPDocumentPath resolves the storage path for an LP's lp.json. The
// folder sentinel "." maps to the tenant root. Folder values that would
// escape the tenant directory are rejected as not found.
func (r *Registry) LPDocumentPath(tenantKey string, entry *models.LPEntry) (string, error) {
	if !validKey(tenantKey) {
		return "", ErrNotFound
	}

	tenantDir := filepath.Join(r.contentDir, tenantKey)
	dir := tenantDir
	if entry.Folder != "" && entry.Folder != models.FolderRoot {
		dir = filepath.Join(tenantDir, entry.Folder)
	}

	resolved := filepath.Clean(dir)
	if resolved != tenantDir && !strings.HasPrefix(resolved, tenantDir+string(filepath.Separator)) {
		return "", ErrNotFound
	}

	return filepath.Join(resolved, "lp.json"), nil
}

// LoadLPDocument loads and parses an LP's content document. A missing
// file is ErrNotFound; a file that exists but fails to parse is
// ErrMalformedContent, so callers can tell "never existed" from "broken".
func (r *Registry) LoadLPDocument(tenantKey string, entry *models.LPEntry) (*models.LPDocument, error) {
	path, err := r.LPDocumentPath(tenantKey, entry)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc models.LPDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		r.logger.Printf("tenant %s: malformed %s: %v", tenantKey, path, err)
		return nil, ErrMalformedContent
	}

	return &doc, nil
}

// LoadTrackingConfig loads a tenant's tracking.json with the same error
// taxonomy as LoadLPDocument.
func (r *Registry) LoadTrackingConfig(tenantKey string) (*models.TrackingConfig, error) {
	if !validKey(tenantKey) {
		return nil, ErrNotFound
	}

	raw, err := os.ReadFile(filepath.Join(r.contentDir, tenantKey, "tracking.json"))
	if err != nil {
		return nil, ErrNotFound
	}

	var cfg models.TrackingConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		r.logger.Printf("tenant %s: malformed tracking.json: %v", tenantKey, err)
		return nil, ErrMalformedContent
	}

	return &cfg, nil
}

// TrackingConfigPath is the store-relative location of tracking.json,
// used by dashboard save paths.
func (r *Registry) TrackingConfigPath(tenantKey string) string {
	return filepath.Join(r.contentDir, tenantKey, "tracking.json")
}

// ConfigPath is the store-relative location of domain.json.
func (r *Registry) ConfigPath(tenantKey string) string {
	return filepath.Join(r.contentDir, tenantKey, "domain.json")
}
