package tenant

import (
	"strings"

	"lpfactory/models"
)

// SelectLP picks the LP entry a remaining path selects. An empty path,
// an empty slug and the reserved "homepage" literal all return the
// homepage entry. Anything else must match an entry's slug exactly;
// prefix matches never qualify. With duplicate slugs the first entry in
// key order wins — a documented tie-break, not an accident.
//
// An entry's own active flag does not exclude it here; activity
// filtering is the caller's decision before rendering.
func SelectLP(cfg *models.TenantConfig, segments []string) (string, *models.LPEntry, error) {
	slugPath := strings.Join(segments, "/")

	if len(segments) == 0 || slugPath == "" || slugPath == models.HomepageLiteral {
		entry, ok := cfg.LPs[cfg.Homepage]
		if !ok {
			// A config whose homepage names a missing LP is treated as
			// non-existent, not as a server fault.
			return "", nil, ErrNotFound
		}
		return cfg.Homepage, &entry, nil
	}

	for _, key := range cfg.LPKeys() {
		entry := cfg.LPs[key]
		if entry.Slug == slugPath {
			return key, &entry, nil
		}
	}

	return "", nil, ErrNotFound
}
