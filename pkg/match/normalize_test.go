package match

import "testing"

func TestNormalize(t *testing.T) {
	n := NewNormalizer(DefaultFolds())

	tests := []struct {
		input, want string
	}{
		{"Kitab", "kitab"},
		{"KITAB", "kitab"},
		{"  Foo   BAR ", "foo bar"},
		{"Kitab__al-Tawhid", "kitab al tawhid"},
		{"Élodie", "elodie"},
		{"Majmu al-Fatawa", "majmu al fatawa"},
		{"كِتَاب", "كتاب"},   // harakat stripped
		{"أحمد", "احمد"},     // hamza carrier decomposed, mark removed
		{"آل", "ال"},         // madda likewise
		{"مشكاة", "مشكاه"},   // ta marbuta -> ha
		{"مصطفى", "مصطفي"},   // alef maksura -> ya
		{"الإيمان", "الايمان"},
		{"ـــ", ""}, // tatweel only
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultFolds())

	inputs := []string{
		"Majmu al-Fatawa",
		"إحياء عُلوم الدين",
		"Kitab__al-Tawhid",
		"  MIXED  Case  نَصّ ",
		"مشكاة المصابيح",
		"",
	}
	for _, s := range inputs {
		once := n.Normalize(s)
		if twice := n.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestNormalizeCaseAndDiacriticInvariance(t *testing.T) {
	n := NewNormalizer(DefaultFolds())

	groups := [][]string{
		{"Book", "BOOK", "book"},
		{"الفَتَاوَى", "الفتاوى", "الفتاوي"},
		{"Ihya Ulum al-Din", "ihya ulum al din", "IHYA ULUM AL-DIN"},
	}
	for _, group := range groups {
		want := n.Normalize(group[0])
		for _, s := range group[1:] {
			if got := n.Normalize(s); got != want {
				t.Errorf("Normalize(%q) = %q, want %q (same as %q)", s, got, want, group[0])
			}
		}
	}
}

func TestNormalizeCustomFolds(t *testing.T) {
	// A non-Arabic fold table: the engine is not tied to one alphabet.
	n := NewNormalizer(map[rune]rune{'ß': 's'})

	if got := n.Normalize("Straße"); got != "strase" {
		t.Errorf("Normalize(Straße) = %q, want strase", got)
	}
	// And no folding at all.
	plain := NewNormalizer(nil)
	if got := plain.Normalize("مشكاة"); got != "مشكاة" {
		t.Errorf("Normalize without folds altered letters: %q", got)
	}
}
