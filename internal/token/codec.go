// Package token encodes delivery grants as compact URL-safe strings.
//
// A grant binds a catalog variant to the user it was issued for. The daemon
// re-checks that binding when the grant comes back through the entry link, so
// a forwarded link is useless to anyone but the original requester.
package token

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Action identifies what a grant authorizes.
type Action string

// ActionFile authorizes delivery of a single catalog variant.
const ActionFile Action = "file"

const fieldSeparator = ":"

// Grant is the decoded form of an access token.
type Grant struct {
	Action    Action
	VariantID int64
	UserID    int64
}

// DecodeError reports a token that could not be decoded. The reason is safe
// to log; the raw token is not included.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode token: " + e.Reason
}

// Encode serializes a grant into a URL-safe token with no padding.
func Encode(grant Grant) string {
	payload := strings.Join([]string{
		string(grant.Action),
		strconv.FormatInt(grant.VariantID, 10),
		strconv.FormatInt(grant.UserID, 10),
	}, fieldSeparator)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// Decode parses a token produced by Encode. Any structural problem is
// reported as a *DecodeError.
func Decode(raw string) (Grant, error) {
	if raw == "" {
		return Grant{}, &DecodeError{Reason: "empty token"}
	}

	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Grant{}, &DecodeError{Reason: fmt.Sprintf("invalid encoding: %v", err)}
	}

	fields := strings.Split(string(payload), fieldSeparator)
	if len(fields) != 3 {
		return Grant{}, &DecodeError{Reason: fmt.Sprintf("expected 3 fields, got %d", len(fields))}
	}
	if Action(fields[0]) != ActionFile {
		return Grant{}, &DecodeError{Reason: fmt.Sprintf("unknown action %q", fields[0])}
	}

	variantID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || variantID <= 0 {
		return Grant{}, &DecodeError{Reason: "invalid variant id"}
	}
	userID, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || userID == 0 {
		return Grant{}, &DecodeError{Reason: "invalid user id"}
	}

	return Grant{Action: ActionFile, VariantID: variantID, UserID: userID}, nil
}
