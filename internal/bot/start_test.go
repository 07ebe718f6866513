package bot_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reelgate/internal/token"
	"reelgate/internal/transport"
)

func (f *fixture) seedVariant(t *testing.T) int64 {
	t.Helper()
	f.ingestPost(t, "Inception (2010) 1080p English", "file-1080", 77)
	variants, err := f.store.VariantsByTitle(context.Background(), f.firstTitleID(t))
	if err != nil || len(variants) != 1 {
		t.Fatalf("variant not seeded: %v", err)
	}
	return variants[0].ID
}

func TestStartWithoutPayloadGreets(t *testing.T) {
	f := newFixture(t)
	f.userSays(plainUserID, "/start")

	if !strings.Contains(f.client.LastSent().Text, "Send me a movie name") {
		t.Fatalf("unexpected greeting: %q", f.client.LastSent().Text)
	}
}

func TestStartDeliversFileToGrantOwner(t *testing.T) {
	f := newFixture(t)
	variantID := f.seedVariant(t)

	grant := token.Encode(token.Grant{Action: token.ActionFile, VariantID: variantID, UserID: plainUserID})
	f.userSays(plainUserID, "/start "+grant)

	if len(f.client.Copied) != 1 {
		t.Fatalf("expected one delivery copy, got %d", len(f.client.Copied))
	}
	copied := f.client.Copied[0]
	if copied.From != (transport.MessageRef{ChatID: sourceChanID, MessageID: 77}) {
		t.Fatalf("copied from wrong source: %+v", copied.From)
	}
	if copied.To.ChatID != plainUserID {
		t.Fatalf("delivered to wrong chat: %+v", copied.To)
	}
	if !strings.Contains(f.client.LastSent().Text, "will be removed") {
		t.Fatalf("expected expiry notice, got %q", f.client.LastSent().Text)
	}
}

func TestStartRejectsForwardedGrant(t *testing.T) {
	f := newFixture(t)
	variantID := f.seedVariant(t)

	grant := token.Encode(token.Grant{Action: token.ActionFile, VariantID: variantID, UserID: plainUserID})
	otherUser := int64(9001)
	f.userSays(otherUser, "/start "+grant)

	if len(f.client.Copied) != 0 {
		t.Fatalf("forwarded grant must not deliver: %+v", f.client.Copied)
	}
	if !strings.Contains(f.client.LastSent().Text, "belongs to someone else") {
		t.Fatalf("unexpected reply: %q", f.client.LastSent().Text)
	}
}

func TestStartRejectsMalformedToken(t *testing.T) {
	f := newFixture(t)
	f.userSays(plainUserID, "/start not-a-real-token")

	if len(f.client.Copied) != 0 {
		t.Fatalf("malformed token must not deliver: %+v", f.client.Copied)
	}
	if !strings.Contains(f.client.LastSent().Text, "not valid") {
		t.Fatalf("unexpected reply: %q", f.client.LastSent().Text)
	}
}

func TestStartReportsRemovedSourceMessage(t *testing.T) {
	f := newFixture(t)
	variantID := f.seedVariant(t)
	f.client.FailCopy = errors.New("message to copy not found")

	grant := token.Encode(token.Grant{Action: token.ActionFile, VariantID: variantID, UserID: plainUserID})
	f.userSays(plainUserID, "/start "+grant)

	reply := f.client.LastSent().Text
	if !strings.Contains(reply, "may have been removed") {
		t.Fatalf("copy failure should report removed content, got %q", reply)
	}
}

func TestStartRejectsRemovedVariant(t *testing.T) {
	f := newFixture(t)

	grant := token.Encode(token.Grant{Action: token.ActionFile, VariantID: 4242, UserID: plainUserID})
	f.userSays(plainUserID, "/start "+grant)

	if len(f.client.Copied) != 0 {
		t.Fatalf("missing variant must not deliver: %+v", f.client.Copied)
	}
	if !strings.Contains(f.client.LastSent().Text, "no longer in the catalog") {
		t.Fatalf("unexpected reply: %q", f.client.LastSent().Text)
	}
}
