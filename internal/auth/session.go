// internal/auth/session.go
//
// Signed session cookie.
//
// Context
//   Sign-in persists a stateless, HMAC-signed cookie named “circle_session”
//   that stores the member’s numeric ID and email.  The same token shape is
//   used by the wizard CSRF helper:
//
//      base64url( userID | unixMicro | email | HMAC_SHA256(secret, payload) )
//
//   •  userID – 8 bytes, big-endian.
//   •  unixMicro – issue time, 8 bytes, big-endian.  Bounds cookie age.
//   •  email – variable-length UTF-8, used to greet the member and pre-fill
//      the application form.
//   •  HMAC – calculated over the payload with a process-wide secret.
//
//   Verification is constant-time and checks the issue timestamp against
//   MaxAge.  No server-side session table is required, keeping sign-in
//   multi-instance safe.
//
// Workflow
//   •  Login(w, r, id)  → sets the cookie after credential verification.
//   •  Logout(w)        → clears the cookie.
//   •  Current(r)       → returns the verified Identity, if any.
//
//------------------------------------------------------------------------------

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"net/http"
	"os"
	"sync"
	"time"
)

const (
	cookieName   = "circle_session"
	headerBytes  = 8 + 8                // userID + ts
	maxAge       = 14 * 24 * time.Hour // cookie valid window
	secretEnvKey = "CIRCLE_SESSION_KEY" // 32-byte base64 key suggested
)

var (
	secretOnce sync.Once
	secretKey  []byte
)

// Login sets a signed session cookie for the given identity.
//
// Callers typically invoke this after credential verification succeeds.
func Login(w http.ResponseWriter, r *http.Request, id Identity) error {
	tok, err := encodeToken(id, time.Now())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(maxAge),
	})
	return nil
}

// Logout clears the session cookie.
func Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Current returns the identity stored in the session cookie, if any.
//
// ok == false when the cookie is missing, tampered with, or expired.
func Current(r *http.Request) (Identity, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return Identity{}, false
	}
	return decodeToken(c.Value, time.Now())
}

// Middleware verifies the session cookie once per request and, when
// valid, attaches the Identity to the context.  Anonymous requests pass
// through unchanged.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := Current(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

/*──────────────────────────── token codec ──────────────────────────────────*/

func encodeToken(id Identity, now time.Time) (string, error) {
	sec := fetchSecret()

	payload := make([]byte, headerBytes, headerBytes+len(id.Email))
	binary.BigEndian.PutUint64(payload[0:8], uint64(id.UserID))
	binary.BigEndian.PutUint64(payload[8:16], uint64(now.UnixMicro()))
	payload = append(payload, id.Email...)

	mac := hmac.New(sha256.New, sec)
	mac.Write(payload)
	sig := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(append(payload, sig...)), nil
}

func decodeToken(tok string, now time.Time) (Identity, bool) {
	sec := fetchSecret()

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) < headerBytes+sha256.Size {
		return Identity{}, false
	}

	payload := raw[:len(raw)-sha256.Size]
	sig := raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, sec)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return Identity{}, false
	}

	// Timestamp window check.
	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(payload[8:16])))
	if now.Sub(issued) > maxAge || issued.Sub(now) > time.Minute {
		// Future timestamp (clock skew) or older than maxAge.
		return Identity{}, false
	}

	return Identity{
		UserID: int64(binary.BigEndian.Uint64(payload[0:8])),
		Email:  string(payload[headerBytes:]),
	}, true
}

// fetchSecret returns the process-wide session secret, loading (or
// generating) it exactly once.  In production set CIRCLE_SESSION_KEY to a
// 32-byte base64 string.  When unset, we generate a random key at startup
// and log to stderr.
func fetchSecret() []byte {
	secretOnce.Do(func() {
		if env := os.Getenv(secretEnvKey); env != "" {
			if b, err := base64.RawURLEncoding.DecodeString(env); err == nil && len(b) >= 32 {
				secretKey = b
				return
			}
		}
		// Fallback random key (ephemeral – resets on restart).
		secretKey = make([]byte, 32)
		_, _ = rand.Read(secretKey)
		// Logging via stderr is acceptable at init since logger may not be ready.
		os.Stderr.WriteString("[circle] WARNING: CIRCLE_SESSION_KEY not set – using random key\n")
	})
	return secretKey
}
