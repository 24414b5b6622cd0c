package match

import "testing"

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(NewNormalizer(DefaultFolds()), 0, 0)
}

func TestResolveExactTier(t *testing.T) {
	r := testResolver(t)
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "Ibn Taymiyyah", Title: "Majmu al-Fatawa"},
		{Scholar: "Al-Ghazali", Title: "Ihya Ulum al-Din"},
	})

	p, ok := r.Resolve("IBN TAYMIYYAH majmu al-fatawa", ix)
	if !ok {
		t.Fatal("expected exact-tier match")
	}
	if p.Scholar != "Ibn Taymiyyah" {
		t.Errorf("got %+v", p)
	}
}

func TestResolveExactBeatsApproximate(t *testing.T) {
	r := testResolver(t)
	// "al kitabb" is edit distance 1 from the query, but the query equals
	// the other key exactly, so tier 1 must win without scoring anything.
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "Al", Title: "Kitab"},
		{Scholar: "Al", Title: "Kitabb"},
	})

	p, ok := r.Resolve("al kitab", ix)
	if !ok {
		t.Fatal("expected match")
	}
	if p.Title != "Kitab" {
		t.Errorf("exact tier should win, got %+v", p)
	}
}

func TestResolveSubstringTier(t *testing.T) {
	r := testResolver(t)
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "Ibn Taymiyyah", Title: "Majmu al-Fatawa"},
		{Scholar: "Al-Ghazali", Title: "Ihya Ulum al-Din"},
	})

	p, ok := r.Resolve("majmu al fatawa", ix)
	if !ok {
		t.Fatal("expected substring-tier match")
	}
	if p.Scholar != "Ibn Taymiyyah" || p.Title != "Majmu al-Fatawa" {
		t.Errorf("got %+v", p)
	}
}

func TestResolveApproximateTier(t *testing.T) {
	r := testResolver(t)
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "Ibn Taymiyyah", Title: "Majmu al-Fatawa"},
		{Scholar: "Al-Ghazali", Title: "Ihya Ulum al-Din"},
	})

	// Misspelled title-only query: no exact or substring hit, resolved by
	// similarity against the title.
	p, ok := r.Resolve("ihyaa ulum aldeen", ix)
	if !ok {
		t.Fatal("expected approximate-tier match")
	}
	if p.Scholar != "Al-Ghazali" {
		t.Errorf("got %+v", p)
	}
}

func TestResolveThresholdBoundary(t *testing.T) {
	r := testResolver(t)
	// Key "ibn kathir" (10 runes). Similarity = 1 - distance/10.
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "Ibn", Title: "Kathir"},
	})

	// 4 substitutions: similarity exactly 0.60 -> matched (inclusive).
	if _, ok := r.Resolve("ibw kotxar", ix); !ok {
		t.Error("similarity exactly at threshold should match")
	}
	// 5 substitutions: similarity 0.50 -> below the match threshold.
	if _, ok := r.Resolve("ubw kotxar", ix); ok {
		t.Error("similarity below threshold should not match")
	}
	// ...but still at the suggestion threshold.
	if got := r.Suggest("ubw kotxar", ix, 5); len(got) != 1 {
		t.Errorf("expected 1 suggestion at 0.50, got %d", len(got))
	}
	// 6 substitutions: similarity 0.40 -> not even suggested.
	if got := r.Suggest("ubw kotxaq", ix, 5); len(got) != 0 {
		t.Errorf("expected no suggestions at 0.40, got %d", len(got))
	}
}

func TestResolveEmptyInputs(t *testing.T) {
	r := testResolver(t)
	empty := BuildIndex(NewNormalizer(DefaultFolds()), nil)
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "Bukhari", Title: "Sahih"},
	})

	if _, ok := r.Resolve("sahih", empty); ok {
		t.Error("empty catalog must not match")
	}
	if got := r.Suggest("sahih", empty, 5); len(got) != 0 {
		t.Error("empty catalog must not suggest")
	}
	if _, ok := r.Resolve("", ix); ok {
		t.Error("empty query must not match")
	}
	if _, ok := r.Resolve("?!، ـ", ix); ok {
		t.Error("query normalizing to empty must not match")
	}
	if got := r.Suggest("?!", ix, 5); len(got) != 0 {
		t.Error("empty normalized query must not suggest")
	}
	if got := r.Suggest("sahih", ix, 0); len(got) != 0 {
		t.Error("limit 0 must return nothing")
	}
}

func TestResolveDuplicateTitleDeterministic(t *testing.T) {
	r := testResolver(t)
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "B", Title: "Same Title"},
		{Scholar: "A", Title: "Same Title"},
	})

	// Both keys contain the query; the first key in sorted order wins,
	// regardless of catalog order.
	p, ok := r.Resolve("same title", ix)
	if !ok {
		t.Fatal("expected match")
	}
	if p.Scholar != "A" {
		t.Errorf("expected sorted-order winner A, got %+v", p)
	}
}

func TestSuggestRanking(t *testing.T) {
	r := testResolver(t)
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "Ibn Taymiyyah", Title: "Majmu al-Fatawa"},
		{Scholar: "Al-Ghazali", Title: "Ihya Ulum al-Din"},
	})

	got := r.Suggest("ihya ulum", ix, 5)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 suggestion, got %d: %v", len(got), got)
	}
	if got[0].Scholar != "Al-Ghazali" {
		t.Errorf("top suggestion = %+v", got[0])
	}
}

func TestSuggestLimit(t *testing.T) {
	r := testResolver(t)
	ix := BuildIndex(NewNormalizer(DefaultFolds()), []Pair{
		{Scholar: "Muslim", Title: "Sahih"},
		{Scholar: "Bukhari", Title: "Sahih"},
	})

	got := r.Suggest("sahih", ix, 1)
	if len(got) != 1 {
		t.Fatalf("expected limit to cap suggestions, got %d", len(got))
	}
	// Equal scores rank in sorted key order: "bukhari sahih" first.
	if got[0].Scholar != "Bukhari" {
		t.Errorf("expected Bukhari first on tie, got %+v", got[0])
	}
}
