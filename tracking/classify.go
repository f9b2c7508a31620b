package tracking

import (
	"fmt"
	"regexp"
	"strings"

	"lpfactory/models"
)

var (
	waPathRe       = regexp.MustCompile(`wa\.me/(\d+)`)
	waPhoneParamRe = regexp.MustCompile(`[?&]phone=(\d+)`)
	nonDigitRe     = regexp.MustCompile(`\D`)
	emailSymbolRe  = regexp.MustCompile(`[@.]`)
	urlHostRe      = regexp.MustCompile(`//([^/]+)`)
	nonAlnumRe     = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	instagramUser  = regexp.MustCompile(`instagram\.com/([^/?]+)`)
)

// DetectLinkType classifies an href using ordered pattern rules.
// Messaging patterns win over scheme checks, which win over host checks.
func DetectLinkType(href string) models.ConversionType {
	switch {
	case strings.Contains(href, "wa.me/") || strings.Contains(href, "api.whatsapp.com/"):
		return models.ConversionWhatsApp
	case strings.HasPrefix(href, "tel:"):
		return models.ConversionPhone
	case strings.HasPrefix(href, "mailto:"):
		return models.ConversionEmail
	case strings.HasPrefix(href, "#") || strings.Contains(href, "form") || strings.Contains(href, "contact"):
		return models.ConversionForm
	case strings.Contains(href, "instagram.com") ||
		strings.Contains(href, "facebook.com") ||
		strings.Contains(href, "twitter.com"):
		return models.ConversionSocial
	case strings.HasPrefix(href, "http"):
		return models.ConversionExternal
	default:
		return models.ConversionInternal
	}
}

// NormalizeDestination reduces an href to its canonical destination so
// different spellings of the same target group together: wa.me paths and
// api.whatsapp.com phone params both become a bare +number, tel:/mailto:
// prefixes are stripped, social links lose their query string.
func NormalizeDestination(href string, t models.ConversionType) string {
	switch t {
	case models.ConversionWhatsApp:
		if m := waPathRe.FindStringSubmatch(href); m != nil {
			return "+" + m[1]
		}
		if m := waPhoneParamRe.FindStringSubmatch(href); m != nil {
			return "+" + m[1]
		}
		return href
	case models.ConversionPhone:
		return strings.TrimPrefix(href, "tel:")
	case models.ConversionEmail:
		return strings.TrimPrefix(href, "mailto:")
	case models.ConversionSocial:
		return strings.SplitN(href, "?", 2)[0]
	default:
		return href
	}
}

// ConversionID derives the deterministic conversion key from type plus
// normalized destination. The same destination always yields the same
// id, including external links, so repeated detection passes agree.
func ConversionID(destination string, t models.ConversionType) string {
	switch t {
	case models.ConversionWhatsApp:
		return "whatsapp_" + nonDigitRe.ReplaceAllString(destination, "")
	case models.ConversionPhone:
		return "phone_" + nonDigitRe.ReplaceAllString(destination, "")
	case models.ConversionEmail:
		return "email_" + emailSymbolRe.ReplaceAllString(destination, "_")
	case models.ConversionForm:
		return "form_contact"
	case models.ConversionSocial:
		domain := "social"
		if m := urlHostRe.FindStringSubmatch(destination); m != nil {
			domain = strings.TrimPrefix(m[1], "www.")
		}
		return "social_" + nonAlnumRe.ReplaceAllString(domain, "_")
	default:
		slug := strings.TrimPrefix(strings.TrimPrefix(destination, "https://"), "http://")
		slug = strings.Trim(nonAlnumRe.ReplaceAllString(slug, "_"), "_")
		if len(slug) > 60 {
			slug = slug[:60]
		}
		return string(t) + "_" + slug
	}
}

// DefaultLabel builds the human-readable default description shown in
// the dashboard before the client customizes anything.
func DefaultLabel(destination string, t models.ConversionType) string {
	switch t {
	case models.ConversionWhatsApp:
		return "WhatsApp " + destination
	case models.ConversionPhone:
		return "Phone " + destination
	case models.ConversionEmail:
		return "Email " + destination
	case models.ConversionForm:
		return "Contact Form"
	case models.ConversionSocial:
		if strings.Contains(destination, "instagram.com") {
			if m := instagramUser.FindStringSubmatch(destination); m != nil {
				return "Instagram @" + m[1]
			}
			return "Instagram"
		}
		if strings.Contains(destination, "facebook.com") {
			return "Facebook"
		}
		return "Social Media"
	default:
		return fmt.Sprintf("External Link (%s)", destination)
	}
}
