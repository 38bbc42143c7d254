// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var punctuation = strings.NewReplacer(
	"–", "-", // en dash
	"—", " - ", // em dash
	"‐", "-", // hyphen
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"…", "...",
)

// NormalizeText replaces smart punctuation with ASCII, applies compatibility
// decomposition (NFKD) and drops every rune cp1252 cannot encode. The
// result always passes the PDF writer's encoding check.
func NormalizeText(s string) string {
	s = punctuation.Replace(s)
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}
