package models

// LPDocument is the declarative content of a landing page: an ordered
// sequence of sections rendered top to bottom.
type LPDocument struct {
	Sections []Section `json:"sections"`
}

// Section is one block of an LP document. Sections are permissive by
// design: every field here is optional and the conversion detector
// probes them by shape, independent of the Type discriminator, so an
// unknown section type is still scanned for actionable links.
type Section struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`

	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`

	PrimaryButton   *Button       `json:"primaryButton,omitempty"`
	SecondaryButton *Button       `json:"secondaryButton,omitempty"`
	Button          *Button       `json:"button,omitempty"`
	Items           []SectionItem `json:"items,omitempty"`
	Plans           []PricingPlan `json:"plans,omitempty"`

	// Contact sections.
	FormAction string `json:"formAction,omitempty"`

	// Header sections.
	Phone *PhoneLink `json:"phone,omitempty"`

	// Footer sections.
	Instagram *SocialLink `json:"instagram,omitempty"`
	LegalLink *Button     `json:"legalLink,omitempty"`

	// Legacy shorthand kept for pages authored against the old schema:
	// a phone number plus message template synthesized into a wa.me link.
	WhatsAppButton *WhatsAppShortcut `json:"botao_whatsapp,omitempty"`
}

// Identifier names the section in detector output. Pages authored
// without explicit ids fall back to the type discriminator.
func (s Section) Identifier() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Type
}

// Button is any clickable element with a destination.
type Button struct {
	Label string `json:"label,omitempty"`
	Href  string `json:"href,omitempty"`
}

// SectionItem is a repeated entry inside benefits/services/faq sections.
type SectionItem struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Button      *Button `json:"button,omitempty"`
}

// PricingPlan is one plan card inside a pricing section.
type PricingPlan struct {
	Name   string  `json:"name,omitempty"`
	Price  string  `json:"price,omitempty"`
	Button *Button `json:"button,omitempty"`
}

// PhoneLink is the header phone element.
type PhoneLink struct {
	Display string `json:"display,omitempty"`
	Link    string `json:"link,omitempty"`
}

// SocialLink is a footer social-network element.
type SocialLink struct {
	Handle string `json:"handle,omitempty"`
	URL    string `json:"url,omitempty"`
}

// WhatsAppShortcut carries the legacy schema's field names on the wire.
type WhatsAppShortcut struct {
	Number  string `json:"numero"`
	Message string `json:"mensagem"`
}
