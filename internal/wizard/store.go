// internal/wizard/store.go
//
// In-memory wizard session store.
//
// Context
//   In-progress answers live server-side, keyed by an opaque cookie, so a
//   member can step back and forth without the browser holding state.  The
//   backing store is the shared LRU: a bounded cache is the right shape
//   because abandoned wizards must age out on their own.  Eviction
//   of an active session is harmless — the visitor restarts at step 0.
//
//------------------------------------------------------------------------------

package wizard

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/ibcgulf/circle/internal/cache"
)

const sessionCookie = "circle_wizard"

// Store hands out State instances keyed by session cookie + wizard ID.
type Store struct {
	lru *cache.LRU
}

// NewStore builds a store holding at most capacity in-progress wizards.
func NewStore(capacity int) *Store {
	return &Store{lru: cache.New(capacity)}
}

// Session returns the State for this request's session and wizard,
// creating both the cookie and the State on first sight.
func (st *Store) Session(w http.ResponseWriter, r *http.Request, wizardID string) *State {
	sid := sessionID(w, r)
	key := sid + "::" + wizardID

	if v, ok := st.lru.Get(key); ok {
		return v.(*State)
	}
	s := NewState()
	st.lru.Add(key, s)
	return s
}

// Drop discards the session's State for wizardID, typically after a
// successful submission.
func (st *Store) Drop(r *http.Request, wizardID string) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return
	}
	st.lru.Remove(c.Value + "::" + wizardID)
}

// sessionID reads the wizard session cookie, minting one when absent.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 18)
	_, _ = rand.Read(buf)
	sid := base64.RawURLEncoding.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}
