package bot

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Callback payload kinds.
const (
	kindScholar = "scholar"
	kindBook    = "book"
)

// callbackPayload is what a keyboard button stands for.
type callbackPayload struct {
	Kind    string
	Scholar string
	Title   string
}

// callbackTable maps short tokens to payloads. Telegram callback data is
// capped at 64 bytes, far too small for Arabic scholar/title pairs, so the
// buttons carry an 8-hex-digit content hash instead and the table resolves
// it back. The table is bounded: the oldest token is evicted once the cap
// is reached. Token collisions are accepted (last write wins) — the token
// derives from the payload content, so a collision between distinct
// payloads is a hash collision we tolerate, not corruption.
type callbackTable struct {
	mu      sync.Mutex
	cap     int
	entries map[string]callbackPayload
	order   []string
}

func newCallbackTable(capacity int) *callbackTable {
	if capacity <= 0 {
		capacity = 1024
	}
	return &callbackTable{
		cap:     capacity,
		entries: make(map[string]callbackPayload, capacity),
	}
}

// token derives the short hash for a payload. Stable across restarts.
func token(p callbackPayload) string {
	sum := sha256.Sum256([]byte(p.Kind + "\x00" + p.Scholar + "\x00" + p.Title))
	return hex.EncodeToString(sum[:4])
}

// put registers the payload and returns its token.
func (t *callbackTable) put(p callbackPayload) string {
	tok := token(p)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.entries[tok]; !exists {
		if len(t.order) >= t.cap {
			oldest := t.order[0]
			t.order = t.order[1:]
			delete(t.entries, oldest)
		}
		t.order = append(t.order, tok)
	}
	t.entries[tok] = p
	return tok
}

// get resolves a token back to its payload.
func (t *callbackTable) get(tok string) (callbackPayload, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.entries[tok]
	return p, ok
}
