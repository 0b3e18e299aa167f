package search

import "testing"

func TestFoldBasic(t *testing.T) {
	opts := Options{}
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"  The   Matrix  ", "the matrix"},
		{"", ""},
		{"   ", ""},
		{"Breaking\tBad\n", "breaking bad"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in, opts); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldArabicDiacritics(t *testing.T) {
	opts := Options{FoldArabic: true}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"harakat stripped", "فِيلْمٌ", "فيلم"},
		{"tatweel stripped", "فـيـلـم", "فيلم"},
		{"alef hamza above", "أفلام", "افلام"},
		{"alef hamza below", "إثارة", "اثاره"},
		{"alef madda", "آسيوي", "اسيوي"},
		{"teh marbuta", "مغامرة", "مغامره"},
		{"alef maqsura", "مصطفى", "مصطفي"},
		{"waw hamza", "مؤثر", "موثر"},
		{"yeh hamza", "سائق", "سايق"},
		{"plain text untouched", "دراما", "دراما"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.in, opts); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFoldArabicDisabled(t *testing.T) {
	in := "أفلامٌ"
	if got := Fold(in, Options{}); got != in {
		t.Errorf("with folding off the text should be unchanged, got %q", got)
	}
}

// Folding the same word written two ways must land on the same bytes;
// that is the property substring search depends on.
func TestFoldEquivalence(t *testing.T) {
	opts := Options{FoldArabic: true}
	pairs := [][2]string{
		{"أحمد", "احمد"},
		{"مدرسة", "مدرسه"},
		{"هدى", "هدي"},
	}
	for _, p := range pairs {
		if Fold(p[0], opts) != Fold(p[1], opts) {
			t.Errorf("Fold(%q) != Fold(%q)", p[0], p[1])
		}
	}
}

func TestTerms(t *testing.T) {
	opts := Options{FoldArabic: true}
	if got := Terms("Titanic", "تيتانيك", opts); got != "titanic تيتانيك" {
		t.Errorf("Terms = %q", got)
	}
	if got := Terms("", "تيتانيك", opts); got != "تيتانيك" {
		t.Errorf("Terms with empty english = %q", got)
	}
	if got := Terms("Titanic", "", opts); got != "titanic" {
		t.Errorf("Terms with empty arabic = %q", got)
	}
	if got := Terms("", "", opts); got != "" {
		t.Errorf("Terms with both empty = %q", got)
	}
}
