// Package identity centralizes username normalization and placeholder
// email generation. Every place a username is compared, stored as a key,
// or matched against the tombstone list goes through Normalize; the
// original casing is kept only for display.
package identity

import (
	"fmt"
	"strings"
	"unicode"
)

// PlaceholderDomain is the domain used for synthesized account emails.
const PlaceholderDomain = "noemail.local"

// Normalize converts a username into its canonical lookup key:
// whitespace-trimmed and lowercased. An all-whitespace input normalizes
// to the empty string, which callers treat as "no username".
func Normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Equal reports whether two usernames refer to the same identity.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// PlaceholderLocal derives the local part of a placeholder email from a
// username: lowercased with whitespace removed and non-alphanumeric
// characters stripped. Falls back to "user" when nothing survives.
func PlaceholderLocal(username string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(username) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	local := b.String()
	if local == "" {
		local = "user"
	}
	return local
}

// PlaceholderEmail builds the placeholder email for a synthesized
// account. n is the collision counter: 0 yields local@noemail.local,
// n>0 yields local+n@noemail.local.
func PlaceholderEmail(local string, n int) string {
	if n <= 0 {
		return fmt.Sprintf("%s@%s", local, PlaceholderDomain)
	}
	return fmt.Sprintf("%s+%d@%s", local, n, PlaceholderDomain)
}
