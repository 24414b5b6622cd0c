package bot

import "testing"

func TestCallbackTokenRoundTrip(t *testing.T) {
	tbl := newCallbackTable(8)
	p := callbackPayload{Kind: kindBook, Scholar: "ابن تيمية", Title: "مجموع الفتاوى"}

	tok := tbl.put(p)
	if len(tok) != 8 {
		t.Fatalf("token %q, want 8 hex chars", tok)
	}

	got, ok := tbl.get(tok)
	if !ok || got != p {
		t.Errorf("get = %+v, %v", got, ok)
	}
}

func TestCallbackTokenStable(t *testing.T) {
	tbl := newCallbackTable(8)
	p := callbackPayload{Kind: kindScholar, Scholar: "البخاري"}

	if tbl.put(p) != tbl.put(p) {
		t.Error("same payload must yield the same token")
	}
}

func TestCallbackTableBounded(t *testing.T) {
	tbl := newCallbackTable(2)

	first := tbl.put(callbackPayload{Kind: kindScholar, Scholar: "a"})
	tbl.put(callbackPayload{Kind: kindScholar, Scholar: "b"})
	tbl.put(callbackPayload{Kind: kindScholar, Scholar: "c"})

	if _, ok := tbl.get(first); ok {
		t.Error("oldest token should have been evicted")
	}
	if len(tbl.entries) != 2 {
		t.Errorf("table holds %d entries, cap is 2", len(tbl.entries))
	}
}

func TestCallbackUnknownToken(t *testing.T) {
	tbl := newCallbackTable(8)
	if _, ok := tbl.get("ffffffff"); ok {
		t.Error("unknown token must miss")
	}
}
