// internal/wizard/csrf_test.go

package wizard

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !VerifyToken(tok) {
		t.Fatal("fresh token must verify")
	}
}

func TestTokenTampered(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	b := []byte(tok)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	if VerifyToken(string(b)) {
		t.Fatal("tampered token must fail")
	}
}

func TestTokenGarbage(t *testing.T) {
	for _, tok := range []string{"", "x", "not-base64!!", strings.Repeat("A", 80)} {
		if VerifyToken(tok) {
			t.Fatalf("garbage token %q must fail", tok)
		}
	}
}
