package dedup

import (
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Acme", "acme"},
		{"Acme Company", "acme"},
		{"  Acme,  Inc. ", "acme"},
		{"Tehran Institute of Tech", "tehran of tech"},
		{"ACME Corp.", "acme"},
		{"شرکت آریا", "آریا"},
		{"گروه صنعتی البرز", "صنعتی البرز"},
		{"", ""},
		{"  ", ""},
		{"a-b.c", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"Acme Company", "Tehran University", "  mixed CASE, punct!  ",
		"شرکت آریا", "a.b.c", "",
	}
	for _, in := range inputs {
		once := NormalizeName(in)
		twice := NormalizeName(once)
		if once != twice {
			t.Errorf("NormalizeName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "Acme", "Acme", 100},
		{"case and filler equal", "Acme Company", "acme", 100},
		{"substring", "Tehran University", "University", 80},
		{"half word overlap", "alpha beta", "beta gamma", 35},
		{"no overlap", "alpha", "beta", 0},
		{"empty contained in anything", "", "acme", 80},
		{"both empty", "", "", 100},
		{"filler-only both sides", "Company", "شرکت", 100},
		{"full overlap different order", "beta alpha", "alpha beta", 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Similarity(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Acme", "Acme Co"},
		{"Tehran University", "University of Tehran"},
		{"alpha beta", "beta gamma delta"},
		{"", "anything"},
		{"علی", "علی رضایی"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %d but reversed = %d", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilaritySelfIsPerfect(t *testing.T) {
	// Includes filler-only names: "Company" normalizes to "" but still has to
	// score 100 against itself.
	for _, x := range []string{"Acme", "Ali Rezaei", "some long multi word name", "Company", "شرکت"} {
		if got := Similarity(x, x); got != 100 {
			t.Errorf("Similarity(%q, %q) = %d, want 100", x, x, got)
		}
	}
}

func TestSimilarityRange(t *testing.T) {
	inputs := []string{"", "a", "acme co", "Tehran University", "x y z w", "شرکت آریا"}
	for _, a := range inputs {
		for _, b := range inputs {
			got := Similarity(a, b)
			if got < 0 || got > 100 {
				t.Errorf("Similarity(%q, %q) = %d, out of [0,100]", a, b, got)
			}
		}
	}
}
