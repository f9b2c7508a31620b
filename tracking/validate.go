package tracking

import "regexp"

var (
	googleAdsIDRe         = regexp.MustCompile(`^AW-\d{9,11}$`)
	googleAdsConversionRe = regexp.MustCompile(`^AW-\d{9,11}/[A-Za-z0-9_-]+$`)
	metaPixelIDRe         = regexp.MustCompile(`^\d{15,16}$`)
	ga4IDRe               = regexp.MustCompile(`^G-[A-Z0-9]{10}$`)
	gtmIDRe               = regexp.MustCompile(`^GTM-[A-Z0-9]{7}$`)
)

// ValidateGoogleAdsID checks a remarketing tag id (AW-XXXXXXXXX).
func ValidateGoogleAdsID(id string) bool {
	return googleAdsIDRe.MatchString(id)
}

// ValidateGoogleAdsConversion checks a conversion send_to id
// (AW-XXXXXXXXX/label).
func ValidateGoogleAdsConversion(id string) bool {
	return googleAdsConversionRe.MatchString(id)
}

// ValidateMetaPixelID checks a Meta pixel id (15-16 digits).
func ValidateMetaPixelID(id string) bool {
	return metaPixelIDRe.MatchString(id)
}

// ValidateGA4ID checks a Google Analytics 4 measurement id.
func ValidateGA4ID(id string) bool {
	return ga4IDRe.MatchString(id)
}

// ValidateGTMID checks a Google Tag Manager container id.
func ValidateGTMID(id string) bool {
	return gtmIDRe.MatchString(id)
}
