package tenant

import (
	"errors"
	"testing"
)

func setupResolverFixtures(t *testing.T) *Registry {
	t.Helper()
	root := t.TempDir()

	writeTenant(t, root, "acme", `{
		"domain": "acme.com",
		"active": true,
		"homepage": "main",
		"lps": {"main": {"title": "Acme", "folder": "."}}
	}`)
	writeTenant(t, root, "dormant", `{
		"domain": "dormant.com",
		"active": false,
		"homepage": "main",
		"lps": {"main": {"title": "Dormant", "folder": "."}}
	}`)
	writeTenant(t, root, "pathonly", `{
		"active": true,
		"homepage": "main",
		"lps": {"main": {"title": "PathOnly", "folder": "."}}
	}`)

	return newTestRegistry(t, root)
}

func TestResolveCustomDomain(t *testing.T) {
	r := setupResolverFixtures(t)

	tests := []struct {
		name     string
		host     string
		segments []string
		wantKey  string
		fallback bool
		wantErr  bool
	}{
		{name: "exact domain", host: "acme.com", wantKey: "acme"},
		{name: "www prefix", host: "www.acme.com", wantKey: "acme"},
		{name: "domain keeps path segments", host: "acme.com", segments: []string{"spring-sale"}, wantKey: "acme"},
		{name: "inactive tenant domain", host: "dormant.com", wantErr: true},
		{name: "unknown domain", host: "nobody.com", wantErr: true},
		{name: "case sensitive as received", host: "ACME.com", wantErr: true},
		{name: "subdomain is not the domain", host: "shop.acme.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := r.Resolve(tt.host, tt.segments)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("Resolve(%q) error = %v, want ErrNotFound", tt.host, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.host, err)
			}
			if match.TenantKey != tt.wantKey {
				t.Errorf("TenantKey = %q, want %q", match.TenantKey, tt.wantKey)
			}
			if match.PathFallback != tt.fallback {
				t.Errorf("PathFallback = %v, want %v", match.PathFallback, tt.fallback)
			}
			if len(match.Remaining) != len(tt.segments) {
				t.Errorf("Remaining = %v, want %v", match.Remaining, tt.segments)
			}
		})
	}
}

func TestResolvePathFallback(t *testing.T) {
	r := setupResolverFixtures(t)

	match, err := r.Resolve("pages.example.com", []string{"pathonly", "spring-sale"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if match.TenantKey != "pathonly" {
		t.Errorf("TenantKey = %q, want pathonly", match.TenantKey)
	}
	if !match.PathFallback {
		t.Error("PathFallback = false, want true")
	}
	// The tenant segment must be consumed.
	if len(match.Remaining) != 1 || match.Remaining[0] != "spring-sale" {
		t.Errorf("Remaining = %v, want [spring-sale]", match.Remaining)
	}
}

func TestResolvePathFallbackOnlyOnSharedHost(t *testing.T) {
	r := setupResolverFixtures(t)

	// The path would match a tenant key, but the host is neither a
	// custom domain nor the shared host.
	if _, err := r.Resolve("elsewhere.com", []string{"pathonly"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve on foreign host error = %v, want ErrNotFound", err)
	}
}

func TestResolvePathFallbackUnknownTenant(t *testing.T) {
	r := setupResolverFixtures(t)

	if _, err := r.Resolve("pages.example.com", []string{"ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(ghost) error = %v, want ErrNotFound", err)
	}
}

func TestResolveDomainWinsOverPathFallback(t *testing.T) {
	root := t.TempDir()
	// A tenant whose custom domain IS the shared host suffix: the domain
	// rule must win before the path is consulted.
	writeTenant(t, root, "owner", `{
		"domain": "pages.example.com",
		"active": true,
		"homepage": "main",
		"lps": {"main": {"title": "Owner", "folder": "."}}
	}`)
	writeTenant(t, root, "other", `{
		"active": true,
		"homepage": "main",
		"lps": {"main": {"title": "Other", "folder": "."}}
	}`)
	r := newTestRegistry(t, root)

	match, err := r.Resolve("pages.example.com", []string{"other"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if match.TenantKey != "owner" || match.PathFallback {
		t.Fatalf("match = %+v, want owner via domain rule", match)
	}
	if len(match.Remaining) != 1 || match.Remaining[0] != "other" {
		t.Fatalf("Remaining = %v, want [other] left for LP selection", match.Remaining)
	}
}
