package tracking

import (
	"testing"

	"lpfactory/models"
)

func conv(id string, t models.ConversionType, count int) *models.DetectedConversion {
	return &models.DetectedConversion{ID: id, Type: t, ElementsCount: count}
}

func TestSuggestedOrdersByPriorityThenCount(t *testing.T) {
	conversions := []*models.DetectedConversion{
		conv("social_instagram_com", models.ConversionSocial, 5),
		conv("external_partner", models.ConversionExternal, 2),
		conv("phone_123", models.ConversionPhone, 1),
		conv("whatsapp_456", models.ConversionWhatsApp, 1),
		conv("form_contact", models.ConversionForm, 3),
	}

	got := Suggested(conversions)

	want := []string{"whatsapp_456", "form_contact", "phone_123"}
	if len(got) != 3 {
		t.Fatalf("Suggested() returned %d items, want 3", len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Suggested()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestSuggestedCountBreaksTies(t *testing.T) {
	conversions := []*models.DetectedConversion{
		conv("whatsapp_low", models.ConversionWhatsApp, 1),
		conv("whatsapp_high", models.ConversionWhatsApp, 4),
	}

	got := Suggested(conversions)
	if got[0].ID != "whatsapp_high" || got[1].ID != "whatsapp_low" {
		t.Fatalf("Suggested() = [%s %s], want count to break the tie", got[0].ID, got[1].ID)
	}
}

func TestSuggestedStableForEqualKeys(t *testing.T) {
	conversions := []*models.DetectedConversion{
		conv("whatsapp_first", models.ConversionWhatsApp, 2),
		conv("whatsapp_second", models.ConversionWhatsApp, 2),
		conv("whatsapp_third", models.ConversionWhatsApp, 2),
	}

	got := Suggested(conversions)
	for i, id := range []string{"whatsapp_first", "whatsapp_second", "whatsapp_third"} {
		if got[i].ID != id {
			t.Fatalf("Suggested()[%d] = %s, want detection order preserved", i, got[i].ID)
		}
	}
}

func TestSuggestedDoesNotMutateInput(t *testing.T) {
	conversions := []*models.DetectedConversion{
		conv("social_a", models.ConversionSocial, 1),
		conv("whatsapp_b", models.ConversionWhatsApp, 1),
	}

	Suggested(conversions)

	if conversions[0].ID != "social_a" || conversions[1].ID != "whatsapp_b" {
		t.Fatal("Suggested() reordered the caller's slice")
	}
}

func TestSuggestedFewerThanThree(t *testing.T) {
	conversions := []*models.DetectedConversion{
		conv("phone_only", models.ConversionPhone, 1),
	}

	if got := Suggested(conversions); len(got) != 1 || got[0].ID != "phone_only" {
		t.Fatalf("Suggested() = %+v, want the single input back", got)
	}
}
