package models

import "sort"

// Tracking methods persisted in tracking.json.
const (
	TrackingMethodGTM    = "gtm"
	TrackingMethodDirect = "direct"
	TrackingMethodBoth   = "both"
)

// GTMSnippet is the raw head/body snippet pair pasted by the client.
// Both strings are validated before any injection.
type GTMSnippet struct {
	Head string `json:"head"`
	Body string `json:"body"`
}

// GoogleAdsIDs holds the remarketing tag plus the legacy tag-to-conversion
// mapping kept for pages configured before per-conversion tracking.
type GoogleAdsIDs struct {
	Remarketing string            `json:"remarketing,omitempty"`
	Conversions map[string]string `json:"conversions,omitempty"`
}

// DirectIDs are the ad-network/pixel/analytics identifiers used by the
// direct injection path.
type DirectIDs struct {
	GoogleAds       *GoogleAdsIDs `json:"google_ads,omitempty"`
	MetaPixel       string        `json:"meta_pixel,omitempty"`
	GoogleAnalytics string        `json:"google_analytics,omitempty"`
}

// TrackingConfig mirrors a tenant's tracking.json document.
type TrackingConfig struct {
	Client              string                         `json:"client"`
	Method              string                         `json:"method"`
	GTMSnippet          *GTMSnippet                    `json:"gtm_snippet,omitempty"`
	DetectedConversions map[string]*DetectedConversion `json:"detected_conversions,omitempty"`
	DirectIDs           *DirectIDs                     `json:"direct_ids,omitempty"`
	Configured          bool                           `json:"configured"`
	LastUpdated         string                         `json:"last_updated,omitempty"`
}

// ConversionList returns the saved conversions ordered by id, the
// injector's documented matching order for "first enabled conversion".
func (t *TrackingConfig) ConversionList() []*DetectedConversion {
	if t == nil || len(t.DetectedConversions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(t.DetectedConversions))
	for id := range t.DetectedConversions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*DetectedConversion, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.DetectedConversions[id])
	}
	return out
}
