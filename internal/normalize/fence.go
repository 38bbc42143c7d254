// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
)

// openingFence matches a leading code fence with an optional format hint.
var openingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*")

// StripFences trims text and removes a leading code fence (```` ``` ```` or
// ```` ```json ````) and a trailing one. Either fence may be absent.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	t = openingFence.ReplaceAllString(t, "")
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}
