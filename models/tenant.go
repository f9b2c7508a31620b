package models

import "sort"

// FolderRoot is the sentinel folder value meaning the LP lives at the
// tenant's root directory rather than in a subfolder.
const FolderRoot = "."

// HomepageLiteral is a reserved slug that always selects the homepage LP.
const HomepageLiteral = "homepage"

// TenantConfig mirrors a tenant's domain.json document.
type TenantConfig struct {
	Domain   string             `json:"domain,omitempty"`
	Active   bool               `json:"active"`
	Homepage string             `json:"homepage"`
	LPs      map[string]LPEntry `json:"lps"`
}

// LPEntry describes one landing page inside a tenant's config.
type LPEntry struct {
	Title  string `json:"title"`
	Folder string `json:"folder"`
	Slug   string `json:"slug,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// IsActive treats a missing active flag as true.
func (e LPEntry) IsActive() bool {
	return e.Active == nil || *e.Active
}

// HasValidConfig reports whether the config is usable for selection:
// a non-empty lps mapping and a non-empty homepage key. Tenants failing
// this check are excluded from discovery listings.
func (c *TenantConfig) HasValidConfig() bool {
	return c != nil && len(c.LPs) > 0 && c.Homepage != ""
}

// LPKeys returns the LP keys in lexicographic order. JSON objects carry
// no reliable ordering, so sorted keys are the enumeration order used
// for slug matching and duplicate-slug tie-breaks.
func (c *TenantConfig) LPKeys() []string {
	keys := make([]string, 0, len(c.LPs))
	for k := range c.LPs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
