package token_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"reelgate/internal/token"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	grant := token.Grant{Action: token.ActionFile, VariantID: 1234, UserID: 987654321}

	encoded := token.Encode(grant)
	if strings.ContainsAny(encoded, "+/=") {
		t.Fatalf("token is not URL-safe: %q", encoded)
	}

	decoded, err := token.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != grant {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, grant)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	grant := token.Grant{Action: token.ActionFile, VariantID: 7, UserID: 42}
	if token.Encode(grant) != token.Encode(grant) {
		t.Fatal("same grant must encode identically")
	}
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"too few fields", base64.RawURLEncoding.EncodeToString([]byte("file:123"))},
		{"too many fields", base64.RawURLEncoding.EncodeToString([]byte("file:1:2:3"))},
		{"unknown action", base64.RawURLEncoding.EncodeToString([]byte("grant:1:2"))},
		{"non-numeric variant", base64.RawURLEncoding.EncodeToString([]byte("file:abc:2"))},
		{"zero variant", base64.RawURLEncoding.EncodeToString([]byte("file:0:2"))},
		{"negative variant", base64.RawURLEncoding.EncodeToString([]byte("file:-5:2"))},
		{"non-numeric user", base64.RawURLEncoding.EncodeToString([]byte("file:1:xyz"))},
		{"zero user", base64.RawURLEncoding.EncodeToString([]byte("file:1:0"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := token.Decode(tc.raw)
			if err == nil {
				t.Fatalf("expected decode error for %q", tc.raw)
			}
			var decodeErr *token.DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected *DecodeError, got %T: %v", err, err)
			}
		})
	}
}

func TestDecodeBindsIdentity(t *testing.T) {
	encoded := token.Encode(token.Grant{Action: token.ActionFile, VariantID: 55, UserID: 1001})

	decoded, err := token.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.UserID == 2002 {
		t.Fatal("decoded grant must carry the original user id")
	}
	if decoded.UserID != 1001 || decoded.VariantID != 55 {
		t.Fatalf("unexpected grant: %+v", decoded)
	}
}
