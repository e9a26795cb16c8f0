package api

import (
	"strings"
	"testing"
	"time"

	"github.com/pokearena/arena-server/internal/constants"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Setenv(constants.EnvSessionSecret, "test-secret")

	token, err := newSessionToken("player@example.com", "Player One", time.Hour)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}
	claims, err := verifySessionToken(token)
	if err != nil {
		t.Fatalf("verifySessionToken: %v", err)
	}
	if claims.Email != "player@example.com" || claims.Name != "Player One" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSessionToken_RejectsTampering(t *testing.T) {
	t.Setenv(constants.EnvSessionSecret, "test-secret")

	token, err := newSessionToken("player@example.com", "Player One", time.Hour)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}

	if _, err := verifySessionToken("not.a.token"); err == nil {
		t.Fatalf("expected malformed token rejected")
	}

	// Swap the payload segment: the signature no longer matches.
	parts := strings.Split(token, ".")
	forged, err := newSessionToken("mallory@example.com", "Mallory", time.Hour)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}
	forgedParts := strings.Split(forged, ".")
	if _, err := verifySessionToken(parts[0] + "." + forgedParts[1] + "." + parts[2]); err == nil {
		t.Fatalf("expected forged payload rejected")
	}

	// A different secret invalidates the signature too.
	t.Setenv(constants.EnvSessionSecret, "rotated-secret")
	if _, err := verifySessionToken(token); err == nil {
		t.Fatalf("expected token signed with the old secret rejected")
	}
}

func TestSessionToken_RejectsExpired(t *testing.T) {
	t.Setenv(constants.EnvSessionSecret, "test-secret")

	token, err := newSessionToken("player@example.com", "Player One", -time.Minute)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}
	if _, err := verifySessionToken(token); err == nil {
		t.Fatalf("expected expired token rejected")
	}
}
