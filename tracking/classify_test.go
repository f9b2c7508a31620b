package tracking

import (
	"strings"
	"testing"

	"lpfactory/models"
)

func TestDetectLinkType(t *testing.T) {
	tests := []struct {
		href string
		want models.ConversionType
	}{
		{"https://wa.me/5511999999999", models.ConversionWhatsApp},
		{"https://api.whatsapp.com/send?phone=5511999999999", models.ConversionWhatsApp},
		{"tel:+5511988887777", models.ConversionPhone},
		{"mailto:sales@acme.com", models.ConversionEmail},
		{"#contact", models.ConversionForm},
		{"#form-section", models.ConversionForm},
		{"/contact-us", models.ConversionForm},
		{"https://instagram.com/acme", models.ConversionSocial},
		{"https://www.facebook.com/acme", models.ConversionSocial},
		{"https://twitter.com/acme", models.ConversionSocial},
		{"https://partner.example.com/offer", models.ConversionExternal},
		{"/about", models.ConversionInternal},
		{"section-two", models.ConversionInternal},
	}

	for _, tt := range tests {
		if got := DetectLinkType(tt.href); got != tt.want {
			t.Errorf("DetectLinkType(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestNormalizeDestinationGroupsWhatsAppSpellings(t *testing.T) {
	// Both spellings of the same number must normalize identically so
	// they collapse into one conversion.
	hrefs := []string{
		"https://wa.me/5511999999999",
		"https://wa.me/5511999999999?text=Hello",
		"https://api.whatsapp.com/send?phone=5511999999999",
		"https://api.whatsapp.com/send?phone=5511999999999&text=Hi",
	}

	for _, href := range hrefs {
		got := NormalizeDestination(href, models.ConversionWhatsApp)
		if got != "+5511999999999" {
			t.Errorf("NormalizeDestination(%q) = %q, want +5511999999999", href, got)
		}
	}
}

func TestNormalizeDestination(t *testing.T) {
	tests := []struct {
		href string
		typ  models.ConversionType
		want string
	}{
		{"tel:+5511988887777", models.ConversionPhone, "+5511988887777"},
		{"mailto:sales@acme.com", models.ConversionEmail, "sales@acme.com"},
		{"https://instagram.com/acme?utm_source=lp", models.ConversionSocial, "https://instagram.com/acme"},
		{"https://partner.example.com/offer", models.ConversionExternal, "https://partner.example.com/offer"},
		{"#contact", models.ConversionForm, "#contact"},
	}

	for _, tt := range tests {
		if got := NormalizeDestination(tt.href, tt.typ); got != tt.want {
			t.Errorf("NormalizeDestination(%q, %s) = %q, want %q", tt.href, tt.typ, got, tt.want)
		}
	}
}

func TestConversionIDDeterministic(t *testing.T) {
	tests := []struct {
		destination string
		typ         models.ConversionType
		want        string
	}{
		{"+5511999999999", models.ConversionWhatsApp, "whatsapp_5511999999999"},
		{"+5511988887777", models.ConversionPhone, "phone_5511988887777"},
		{"sales@acme.com", models.ConversionEmail, "email_sales_acme_com"},
		{"#contact", models.ConversionForm, "form_contact"},
		{"https://instagram.com/acme", models.ConversionSocial, "social_instagram_com"},
		{"https://www.facebook.com/acme", models.ConversionSocial, "social_facebook_com"},
	}

	for _, tt := range tests {
		if got := ConversionID(tt.destination, tt.typ); got != tt.want {
			t.Errorf("ConversionID(%q, %s) = %q, want %q", tt.destination, tt.typ, got, tt.want)
		}
	}
}

func TestConversionIDExternalIsStable(t *testing.T) {
	dest := "https://partner.example.com/offer?ref=lp"

	first := ConversionID(dest, models.ConversionExternal)
	for i := 0; i < 5; i++ {
		if got := ConversionID(dest, models.ConversionExternal); got != first {
			t.Fatalf("external id changed across calls: %q vs %q", first, got)
		}
	}
	if first != "external_partner_example_com_offer_ref_lp" {
		t.Errorf("external id = %q", first)
	}
}

func TestConversionIDExternalTruncated(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("segment/", 30)
	id := ConversionID(long, models.ConversionExternal)
	if len(id) > len("external_")+60 {
		t.Errorf("external id too long: %d chars", len(id))
	}
}

func TestDefaultLabel(t *testing.T) {
	tests := []struct {
		destination string
		typ         models.ConversionType
		want        string
	}{
		{"+5511999999999", models.ConversionWhatsApp, "WhatsApp +5511999999999"},
		{"+5511988887777", models.ConversionPhone, "Phone +5511988887777"},
		{"sales@acme.com", models.ConversionEmail, "Email sales@acme.com"},
		{"#contact", models.ConversionForm, "Contact Form"},
		{"https://instagram.com/acme", models.ConversionSocial, "Instagram @acme"},
		{"https://www.facebook.com/acme", models.ConversionSocial, "Facebook"},
		{"https://twitter.com/acme", models.ConversionSocial, "Social Media"},
		{"https://partner.example.com", models.ConversionExternal, "External Link (https://partner.example.com)"},
	}

	for _, tt := range tests {
		if got := DefaultLabel(tt.destination, tt.typ); got != tt.want {
			t.Errorf("DefaultLabel(%q, %s) = %q, want %q", tt.destination, tt.typ, got, tt.want)
		}
	}
}
