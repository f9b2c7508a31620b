package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"lpfactory/models"
)

const cacheTTL = 5 * time.Minute

// Registry enumerates tenant folders under the content directory and
// loads their domain.json configs. Reads go through an optional Redis
// cache; dashboard writes must call Invalidate before responding so the
// next read never serves a stale homepage/lps mapping.
type Registry struct {
	contentDir   string
	sharedSuffix string
	cache        *redis.Client
	logger       *log.Logger
}

func NewRegistry(contentDir, sharedSuffix string, cache *redis.Client, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(os.Stdout, "TENANT: ", log.LstdFlags)
	}
	return &Registry{
		contentDir:   contentDir,
		sharedSuffix: sharedSuffix,
		cache:        cache,
		logger:       logger,
	}
}

// ListTenants returns the keys of every tenant whose config loads and
// passes HasValidConfig, in lexicographic order. A tenant with a missing
// or broken config is logged and skipped; it never aborts enumeration of
// the others.
func (r *Registry) ListTenants() []string {
	var valid []string
	for _, key := range r.tenantKeys() {
		cfg, err := r.LoadConfig(key)
		if err != nil {
			r.logger.Printf("skipping tenant %s: %v", key, err)
			continue
		}
		if !cfg.HasValidConfig() {
			r.logger.Printf("skipping tenant %s: config missing lps or homepage", key)
			continue
		}
		valid = append(valid, key)
	}
	return valid
}

// LoadConfig loads one tenant's domain.json. A missing or malformed
// config yields ErrNotFound rather than a parse error, so one broken
// tenant cannot take down resolution for others.
func (r *Registry) LoadConfig(key string) (*models.TenantConfig, error) {
	if !validKey(key) {
		return nil, ErrNotFound
	}

	if r.cache != nil {
		if raw, err := r.cache.Get(context.Background(), cacheKey(key)).Bytes(); err == nil {
			var cfg models.TenantConfig
			if err := json.Unmarshal(raw, &cfg); err == nil {
				return &cfg, nil
			}
		}
	}

	raw, err := os.ReadFile(filepath.Join(r.contentDir, key, "domain.json"))
	if err != nil {
		return nil, ErrNotFound
	}

	var cfg models.TenantConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		r.logger.Printf("tenant %s: malformed domain.json: %v", key, err)
		return nil, ErrNotFound
	}

	if r.cache != nil {
		if err := r.cache.Set(context.Background(), cacheKey(key), raw, cacheTTL).Err(); err != nil {
			r.logger.Printf("tenant %s: cache set failed: %v", key, err)
		}
	}

	return &cfg, nil
}

// Invalidate drops the cached config for one tenant. Every dashboard
// write path calls this before returning.
func (r *Registry) Invalidate(ctx context.Context, key string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, cacheKey(key)).Err(); err != nil {
		r.logger.Printf("tenant %s: cache invalidation failed: %v", key, err)
	}
}

// tenantKeys lists every tenant folder in lexicographic order, valid or
// not. Resolution fallback needs candidates that ListTenants would hide.
func (r *Registry) tenantKeys() []string {
	entries, err := os.ReadDir(r.contentDir)
	if err != nil {
		r.logger.Printf("cannot scan content dir %s: %v", r.contentDir, err)
		return nil
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			keys = append(keys, e.Name())
		}
	}
	sort.Strings(keys)
	return keys
}

func cacheKey(key string) string {
	return fmt.Sprintf("tenant:cfg:%s", key)
}

// validKey rejects tenant keys that could escape the content directory.
func validKey(key string) bool {
	return key != "" && key != "." && key != ".." &&
		!strings.ContainsAny(key, "/\\")
}
