package tracking

import "testing"

func TestValidateGoogleAdsID(t *testing.T) {
	valid := []string{"AW-123456789", "AW-12345678901"}
	invalid := []string{"", "AW-12345678", "AW-123456789012", "aw-123456789", "AW-12345678a", "123456789"}

	for _, id := range valid {
		if !ValidateGoogleAdsID(id) {
			t.Errorf("ValidateGoogleAdsID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidateGoogleAdsID(id) {
			t.Errorf("ValidateGoogleAdsID(%q) = true, want false", id)
		}
	}
}

func TestValidateGoogleAdsConversion(t *testing.T) {
	valid := []string{"AW-123456789/AbCdEfG_h-1", "AW-12345678901/x"}
	invalid := []string{"AW-123456789", "AW-123456789/", "AW-123456789/label/extra", "AW-12345678/label"}

	for _, id := range valid {
		if !ValidateGoogleAdsConversion(id) {
			t.Errorf("ValidateGoogleAdsConversion(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidateGoogleAdsConversion(id) {
			t.Errorf("ValidateGoogleAdsConversion(%q) = true, want false", id)
		}
	}
}

func TestValidateMetaPixelID(t *testing.T) {
	valid := []string{"123456789012345", "1234567890123456"}
	invalid := []string{"", "12345678901234", "12345678901234567", "12345678901234a"}

	for _, id := range valid {
		if !ValidateMetaPixelID(id) {
			t.Errorf("ValidateMetaPixelID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidateMetaPixelID(id) {
			t.Errorf("ValidateMetaPixelID(%q) = true, want false", id)
		}
	}
}

func TestValidateGA4ID(t *testing.T) {
	valid := []string{"G-ABC123DEF4", "G-1234567890"}
	invalid := []string{"", "G-abc123def4", "G-ABC123DEF", "G-ABC123DEF45", "UA-12345-1"}

	for _, id := range valid {
		if !ValidateGA4ID(id) {
			t.Errorf("ValidateGA4ID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidateGA4ID(id) {
			t.Errorf("ValidateGA4ID(%q) = true, want false", id)
		}
	}
}

func TestValidateGTMID(t *testing.T) {
	valid := []string{"GTM-ABC1234", "GTM-1234567"}
	invalid := []string{"", "GTM-ABC123", "GTM-ABC12345", "gtm-abc1234"}

	for _, id := range valid {
		if !ValidateGTMID(id) {
			t.Errorf("ValidateGTMID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidateGTMID(id) {
			t.Errorf("ValidateGTMID(%q) = true, want false", id)
		}
	}
}
