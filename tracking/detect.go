package tracking

import (
	"net/url"

	"lpfactory/models"
)

// Detect runs a single batch pass over an LP document and returns the
// deduplicated conversions in insertion order. Re-invocation on the same
// document recomputes from scratch and yields an identical result:
// identical ids, counts and location lists.
func Detect(doc *models.LPDocument) []*models.DetectedConversion {
	acc := &accumulator{byID: make(map[string]*models.DetectedConversion)}

	for _, section := range doc.Sections {
		scanSection(section, acc)
	}

	out := make([]*models.DetectedConversion, 0, len(acc.order))
	for _, id := range acc.order {
		out = append(out, acc.byID[id])
	}
	return out
}

type accumulator struct {
	order []string
	byID  map[string]*models.DetectedConversion
}

// scanSection probes the fixed set of actionable fields. Field order is
// significant: counts and location ordering are observable outputs.
func scanSection(s models.Section, acc *accumulator) {
	sectionID := s.Identifier()

	if s.PrimaryButton != nil {
		acc.add(s.PrimaryButton.Href, sectionID, "")
	}
	if s.SecondaryButton != nil {
		acc.add(s.SecondaryButton.Href, sectionID, "")
	}
	if s.Button != nil {
		acc.add(s.Button.Href, sectionID, "")
	}

	for _, item := range s.Items {
		if item.Button != nil {
			acc.add(item.Button.Href, sectionID, "")
		}
	}
	for _, plan := range s.Plans {
		if plan.Button != nil {
			acc.add(plan.Button.Href, sectionID, "")
		}
	}

	if s.Type == "contact" && s.FormAction != "" {
		acc.add(s.FormAction, sectionID, models.ConversionForm)
	}
	if s.Type == "header" && s.Phone != nil {
		acc.add(s.Phone.Link, sectionID, "")
	}
	if s.Type == "footer" {
		if s.Instagram != nil {
			acc.add(s.Instagram.URL, sectionID, models.ConversionSocial)
		}
		if s.LegalLink != nil {
			acc.add(s.LegalLink.Href, sectionID, "")
		}
	}

	// Legacy schema: synthesize the WhatsApp shorthand into a wa.me link.
	if s.WhatsAppButton != nil && s.WhatsAppButton.Number != "" {
		href := "https://wa.me/" + s.WhatsAppButton.Number +
			"?text=" + url.QueryEscape(s.WhatsAppButton.Message)
		acc.add(href, sectionID, models.ConversionWhatsApp)
	}
}

// add folds one candidate href into the accumulator. forceType overrides
// classification for fields whose meaning is already known (formAction,
// footer socials, the WhatsApp shorthand).
func (acc *accumulator) add(href, sectionID string, forceType models.ConversionType) {
	if href == "" || href == "#" || len(href) >= 11 && href[:11] == "javascript:" {
		return
	}

	t := forceType
	if t == "" {
		t = DetectLinkType(href)
	}
	destination := NormalizeDestination(href, t)
	id := ConversionID(destination, t)

	if existing, ok := acc.byID[id]; ok {
		existing.ElementsCount++
		if !containsString(existing.Locations, sectionID) {
			existing.Locations = append(existing.Locations, sectionID)
		}
		return
	}

	acc.order = append(acc.order, id)
	acc.byID[id] = &models.DetectedConversion{
		ID:            id,
		Type:          t,
		Destination:   destination,
		Label:         DefaultLabel(destination, t),
		ElementsCount: 1,
		Locations:     []string{sectionID},
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
