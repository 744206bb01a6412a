package jwt

import (
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	Setup("test-secret", false)

	cookie, err := CreateToken(true, 42)
	if err != nil {
		t.Fatal(err)
	}
	if cookie.Name != "JWT" || cookie.Value == "" {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}

	token, err := VerifyToken(cookie.Value)
	if err != nil {
		t.Fatal(err)
	}
	if token.ProfileID != 42 {
		t.Errorf("got profile ID %d, want 42", token.ProfileID)
	}
	if !token.Remember {
		t.Error("remember flag lost in round trip")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	Setup("test-secret", false)

	if _, err := VerifyToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token, got nil")
	}
}
