package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCryptoSignature(t *testing.T) {
	payload := []byte(`{"event":{"type":"charge:confirmed"}}`)
	secret := "whsec_crypto_test"

	sig := signPayload(payload, secret)
	if !verifyCryptoSignature(payload, sig, secret) {
		t.Fatal("valid signature rejected")
	}

	// Providers differ on hex casing; uppercase must still verify.
	if !verifyCryptoSignature(payload, strings.ToUpper(sig), secret) {
		t.Fatal("uppercase hex signature rejected")
	}

	if verifyCryptoSignature(payload, sig, "wrong-secret") {
		t.Fatal("signature accepted with the wrong secret")
	}

	tampered := []byte(`{"event":{"type":"charge:failed"}}`)
	if verifyCryptoSignature(tampered, sig, secret) {
		t.Fatal("signature accepted for a tampered payload")
	}

	if verifyCryptoSignature(payload, "", secret) {
		t.Fatal("empty signature accepted")
	}
}

func TestParseLocalAmountCents(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"1200.00", 120000},
		{"1200.5", 120050},
		{"0.01", 1},
		{"0", 0},
		{"12999.99", 1299999},
		{"not-a-number", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := parseLocalAmountCents(c.amount); got != c.want {
			t.Errorf("parseLocalAmountCents(%q) = %d, want %d", c.amount, got, c.want)
		}
	}
}
