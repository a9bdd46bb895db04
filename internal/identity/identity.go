// Package identity derives stable, content-addressed identifiers for
// recurring obligations.
//
// An obligation's identity is a pure function of (scope, normalized title).
// Two obligations with the same normalized title in the same scope always
// collide to the same ID, which is what makes re-materialization idempotent:
// running the same derivation twice upserts instead of duplicating.
//
// The hash is 32-bit FNV-1a, not a cryptographic function. Collisions across
// distinct titles are accepted as a low-probability risk rather than defended
// against - the ID space is per-scope and scopes hold tens of obligations,
// not millions.
package identity

import (
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Prefix namespaces generated IDs so they are distinguishable from
// server-assigned task IDs. Version suffix is carried in the key namespace,
// not the prefix, to keep IDs short.
const Prefix = "rg_"

// separator joins scope and title before hashing. It is chosen so that
// ("a", "b::c") and ("a::b", "c") cannot produce the same pre-image.
const separator = "::"

// Normalize canonicalizes free text for identity computation.
//
// The text is NFC-normalized, lower-cased, and every run of characters
// outside [a-z0-9] is collapsed to a single space; leading and trailing
// spaces are trimmed. "VAT filing", "vat  FILING!" and "vat-filing"
// all normalize to "vat filing".
func Normalize(s string) string {
	s = strings.ToLower(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}

// TaskID computes the content-addressed identifier for an obligation.
//
// Deterministic and stable across process restarts: no random seed, no
// time component. The same (scope, title) pair - up to normalization -
// always yields the same ID.
func TaskID(scope, title string) string {
	base := Normalize(scope + separator + title)
	h := fnv.New32a()
	h.Write([]byte(base))
	return fmt.Sprintf("%s%x", Prefix, h.Sum32())
}
