package tenant

import (
	"errors"
	"testing"

	"lpfactory/models"
)

func boolPtr(b bool) *bool { return &b }

func selectorConfig() *models.TenantConfig {
	return &models.TenantConfig{
		Active:   true,
		Homepage: "main",
		LPs: map[string]models.LPEntry{
			"main":   {Title: "Main", Folder: "."},
			"promo":  {Title: "Promo", Folder: "promo", Slug: "spring-sale"},
			"hidden": {Title: "Hidden", Folder: "hidden", Slug: "secret", Active: boolPtr(false)},
		},
	}
}

func TestSelectLPHomepage(t *testing.T) {
	cfg := selectorConfig()

	tests := []struct {
		name     string
		segments []string
	}{
		{name: "no segments", segments: nil},
		{name: "empty segment", segments: []string{""}},
		{name: "homepage literal", segments: []string{"homepage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, entry, err := SelectLP(cfg, tt.segments)
			if err != nil {
				t.Fatalf("SelectLP(%v) error = %v", tt.segments, err)
			}
			if key != "main" || entry.Title != "Main" {
				t.Errorf("SelectLP(%v) = %q/%q, want main/Main", tt.segments, key, entry.Title)
			}
		})
	}
}

func TestSelectLPBySlug(t *testing.T) {
	cfg := selectorConfig()

	key, entry, err := SelectLP(cfg, []string{"spring-sale"})
	if err != nil {
		t.Fatalf("SelectLP(spring-sale) error = %v", err)
	}
	if key != "promo" || entry.Folder != "promo" {
		t.Errorf("SelectLP(spring-sale) = %q/%+v, want promo", key, entry)
	}
}

func TestSelectLPExactMatchOnly(t *testing.T) {
	cfg := selectorConfig()

	for _, segments := range [][]string{
		{"spring"},
		{"spring-sale-2026"},
		{"spring-sale", "extra"},
		{"SPRING-SALE"},
	} {
		if _, _, err := SelectLP(cfg, segments); !errors.Is(err, ErrNotFound) {
			t.Errorf("SelectLP(%v) error = %v, want ErrNotFound", segments, err)
		}
	}
}

func TestSelectLPInactiveEntryStillSelectable(t *testing.T) {
	// The selector does not filter on the entry's active flag; that
	// decision belongs to the rendering caller.
	cfg := selectorConfig()

	key, entry, err := SelectLP(cfg, []string{"secret"})
	if err != nil {
		t.Fatalf("SelectLP(secret) error = %v", err)
	}
	if key != "hidden" || entry.IsActive() {
		t.Errorf("SelectLP(secret) = %q active=%v, want hidden/inactive entry returned", key, entry.IsActive())
	}
}

func TestSelectLPDuplicateSlugTieBreak(t *testing.T) {
	cfg := &models.TenantConfig{
		Homepage: "alpha",
		LPs: map[string]models.LPEntry{
			"zeta":  {Title: "Z", Folder: "z", Slug: "offer"},
			"alpha": {Title: "A", Folder: "a", Slug: "offer"},
		},
	}

	// Key order is lexicographic, so "alpha" wins every run.
	for i := 0; i < 10; i++ {
		key, _, err := SelectLP(cfg, []string{"offer"})
		if err != nil {
			t.Fatalf("SelectLP(offer) error = %v", err)
		}
		if key != "alpha" {
			t.Fatalf("SelectLP(offer) = %q, want alpha (first in key order)", key)
		}
	}
}

func TestSelectLPMissingHomepageEntry(t *testing.T) {
	cfg := &models.TenantConfig{
		Homepage: "ghost",
		LPs: map[string]models.LPEntry{
			"main": {Title: "Main", Folder: "."},
		},
	}

	if _, _, err := SelectLP(cfg, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SelectLP with dangling homepage error = %v, want ErrNotFound", err)
	}
}
