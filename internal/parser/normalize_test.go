package parser

import (
	"reflect"
	"testing"
)

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Oak   Dining\tTable  ", "Oak Dining Table"},
		{"", ""},
		{" \t \n", ""},
		{"single", "single"},
		{"a  b", "a b"},
	}
	for _, tt := range tests {
		if got := NormalizeLine(tt.in); got != tt.want {
			t.Errorf("NormalizeLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLine_Idempotent(t *testing.T) {
	for _, in := range []string{"  a  b ", "x\t\ty", "", "already clean"} {
		once := NormalizeLine(in)
		if twice := NormalizeLine(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSplitLines(t *testing.T) {
	text := "TABLES\r\n\r\n  AB-1234  \n\n Oak   Table \rSolid wood\n   \n"
	want := []string{"TABLES", "AB-1234", "Oak Table", "Solid wood"}
	if got := SplitLines(text); !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %q, want %q", got, want)
	}
	if got := SplitLines(""); len(got) != 0 {
		t.Errorf("expected no lines for empty text, got %q", got)
	}
}

func TestLooksLikeProductCode(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"AB-1234", true},
		{"ab-1234", true},
		{"SKU 9981", true},
		{"Model: AB-1234", true},
		{"12345", true},
		{"Dining Chair", false},
		{"NO DIGITS HERE", false},
		{"", false},
		{"-1234", false},
		{" 1234", false},
		{"ABCDEFGHIJKLMNOPQRSTUVWXY1", false},
		{"ABCDEFGHIJKLMNOPQRSTUVW1", true},
		{"!!!", false},
	}
	for _, tt := range tests {
		if got := LooksLikeProductCode(tt.line); got != tt.want {
			t.Errorf("LooksLikeProductCode(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
