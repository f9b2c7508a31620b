package tracking

import (
	"sort"

	"lpfactory/models"
)

// Priority assigns a fixed weight per conversion type: messaging links
// are the strongest conversion signal on a landing page, social links
// the weakest.
func Priority(t models.ConversionType) int {
	switch t {
	case models.ConversionWhatsApp:
		return 10
	case models.ConversionForm:
		return 9
	case models.ConversionPhone:
		return 8
	case models.ConversionEmail:
		return 7
	case models.ConversionExternal:
		return 5
	case models.ConversionSocial:
		return 3
	default:
		return 1
	}
}

// Suggested returns the top 3 candidates for the dashboard to
// pre-highlight, ordered by (priority desc, occurrence count desc). The
// sort is stable so equal keys keep detection order.
func Suggested(conversions []*models.DetectedConversion) []*models.DetectedConversion {
	ranked := make([]*models.DetectedConversion, len(conversions))
	copy(ranked, conversions)

	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := Priority(ranked[i].Type), Priority(ranked[j].Type)
		if pi != pj {
			return pi > pj
		}
		return ranked[i].ElementsCount > ranked[j].ElementsCount
	})

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}
