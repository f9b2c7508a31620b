package tenant

import "strings"

// Match is the outcome of resolving an inbound host and path to a tenant.
type Match struct {
	TenantKey    string
	PathFallback bool
	// Remaining holds the path segments left for LP selection. On a
	// path-fallback match the tenant segment has been consumed.
	Remaining []string
}

// Resolve determines which tenant owns a request. Custom domains win
// over the path fallback: an active tenant whose domain equals the host
// (with or without a www. prefix) matches first, in ListTenants order.
// On the shared platform host the first path segment is tried as a
// tenant key instead. Comparison is exact and case-sensitive as
// received. Returns ErrNotFound when nothing matches.
func (r *Registry) Resolve(host string, segments []string) (*Match, error) {
	for _, key := range r.ListTenants() {
		cfg, err := r.LoadConfig(key)
		if err != nil {
			continue
		}
		if !cfg.Active || cfg.Domain == "" {
			continue
		}
		if host == cfg.Domain || host == "www."+cfg.Domain {
			return &Match{TenantKey: key, Remaining: segments}, nil
		}
	}

	if r.onSharedHost(host) && len(segments) > 0 {
		candidate := segments[0]
		if _, err := r.LoadConfig(candidate); err == nil {
			return &Match{
				TenantKey:    candidate,
				PathFallback: true,
				Remaining:    segments[1:],
			}, nil
		}
	}

	return nil, ErrNotFound
}

func (r *Registry) onSharedHost(host string) bool {
	if r.sharedSuffix == "" {
		return false
	}
	return host == r.sharedSuffix || strings.HasSuffix(host, "."+r.sharedSuffix)
}
