package id

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string. ULIDs sort by creation time, so audit events
// keyed by them list in insertion order.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewPrefixed returns a lowercase ULID behind prefix, e.g. "face_01j...".
func NewPrefixed(prefix string) string {
	return prefix + "_" + strings.ToLower(New())
}
