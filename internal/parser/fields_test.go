package parser

import (
	"reflect"
	"testing"

	"github.com/dgallion1/catalogsync/internal/catalog"
)

func TestExtractPackQuantity(t *testing.T) {
	tests := []struct {
		text string
		want *int
	}{
		{"CARTON OF 24 PACKS", intPtr(24)},
		{"2 pack", intPtr(2)},
		{"Sold in 6  PACKING units", intPtr(6)},
		{"12 PACK then 48 PACKS", intPtr(12)},
		{"PACK OF 4", nil},
		{"24PACKS", nil},
		{"", nil},
		{"99999999999999999999999 PACK", nil},
		{"CARTON OF 24\u00a0PACKS", intPtr(24)},
		{"6\u202fpack", intPtr(6)},
	}
	for _, tt := range tests {
		got := ExtractPackQuantity(tt.text)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ExtractPackQuantity(%q) = %d, want nil", tt.text, *got)
		case tt.want != nil && got == nil:
			t.Errorf("ExtractPackQuantity(%q) = nil, want %d", tt.text, *tt.want)
		case tt.want != nil && *got != *tt.want:
			t.Errorf("ExtractPackQuantity(%q) = %d, want %d", tt.text, *got, *tt.want)
		}
	}
}

func TestExtractDimensions(t *testing.T) {
	got := ExtractDimensions("60.5 cm x 45 cm x 30 cm")
	want := map[string]catalog.Measurement{
		"width":  {Value: 60.5, Unit: "cm"},
		"depth":  {Value: 45, Unit: "cm"},
		"height": {Value: 30, Unit: "cm"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDimensions = %v, want %v", got, want)
	}
}

func TestExtractDimensions_NoBreakSpace(t *testing.T) {
	got := ExtractDimensions("60.5\u00a0cm x 45\u00a0cm x 30\u00a0cm")
	want := map[string]catalog.Measurement{
		"width":  {Value: 60.5, Unit: "cm"},
		"depth":  {Value: 45, Unit: "cm"},
		"height": {Value: 30, Unit: "cm"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDimensions = %v, want %v", got, want)
	}
}

func TestExtractDimensions_Partial(t *testing.T) {
	got := ExtractDimensions("W 120CM, D 80 Cm")
	if len(got) != 2 {
		t.Fatalf("expected 2 dimensions, got %v", got)
	}
	if got["width"].Value != 120 || got["depth"].Value != 80 {
		t.Errorf("unexpected values: %v", got)
	}
	if _, ok := got["height"]; ok {
		t.Error("height should be absent")
	}
}

func TestExtractDimensions_ExtraValuesIgnored(t *testing.T) {
	got := ExtractDimensions("1 cm 2 cm 3 cm 4 cm")
	if len(got) != 3 || got["height"].Value != 3 {
		t.Errorf("expected first three values, got %v", got)
	}
}

func TestExtractDimensions_None(t *testing.T) {
	got := ExtractDimensions("no measurements")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil map, got %#v", got)
	}
}

func TestExtractFeatureLines(t *testing.T) {
	lines := []string{
		"TABLES",
		"AB-1234",
		"Oak Table",
		"SOLID OAK TOP",
		"solid oak top",
		"Scratch resistant finish",
		"A B C",
		"THIS LINE IS FAR TOO LONG TO BE A FEATURE BULLET",
		"PRICE: $120",
		"2 PACKS (FLAT)",
	}
	got := ExtractFeatureLines(lines, "AB-1234", "Oak Table", "", "TABLES")
	want := []string{"SOLID OAK TOP", "SCRATCH RESISTANT FINISH", "2 PACKS (FLAT)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFeatureLines = %q, want %q", got, want)
	}
}

func TestExtractFeatureLines_ExcludedCaseInsensitive(t *testing.T) {
	got := ExtractFeatureLines([]string{"Walnut Veneer"}, "WALNUT veneer")
	if len(got) != 0 {
		t.Errorf("expected excluded line to be dropped, got %q", got)
	}
}

func TestExtractFeatureLines_Empty(t *testing.T) {
	got := ExtractFeatureLines(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func intPtr(n int) *int { return &n }
