package models

// ConversionType classifies a detected actionable destination.
type ConversionType string

const (
	ConversionWhatsApp ConversionType = "whatsapp"
	ConversionPhone    ConversionType = "phone"
	ConversionEmail    ConversionType = "email"
	ConversionForm     ConversionType = "form"
	ConversionSocial   ConversionType = "social"
	ConversionExternal ConversionType = "external"
	ConversionInternal ConversionType = "internal"
)

// DetectedConversion is one deduplicated actionable destination found in
// an LP document. The detector recomputes these on every pass; identity
// across passes exists only through the deterministic ID. The custom_*
// fields are user edits attached by the dashboard and are preferred over
// the detected defaults when present.
type DetectedConversion struct {
	ID              string         `json:"id"`
	Type            ConversionType `json:"type"`
	Destination     string         `json:"destination"`
	Label           string         `json:"label"`
	ElementsCount   int            `json:"elements_count"`
	TrackingEnabled bool           `json:"tracking_enabled"`
	GoogleAdsID     string         `json:"google_ads_id"`
	Locations       []string       `json:"locations"`

	CustomLabel       string `json:"custom_label,omitempty"`
	CustomDestination string `json:"custom_destination,omitempty"`
	CustomMessage     string `json:"custom_message,omitempty"`
	CustomSubject     string `json:"custom_subject,omitempty"`
}

// EffectiveLabel prefers the user's custom label over the detected one.
func (c *DetectedConversion) EffectiveLabel() string {
	if c.CustomLabel != "" {
		return c.CustomLabel
	}
	return c.Label
}

// EffectiveDestination prefers the user's custom destination.
func (c *DetectedConversion) EffectiveDestination() string {
	if c.CustomDestination != "" {
		return c.CustomDestination
	}
	return c.Destination
}

// HasCustomizations reports whether any user edit is attached.
func (c *DetectedConversion) HasCustomizations() bool {
	return c.CustomLabel != "" || c.CustomDestination != "" ||
		c.CustomMessage != "" || c.CustomSubject != ""
}
