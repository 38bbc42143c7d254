// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"

	"github.com/pdiddy/research-writer/pkg/types"
)

// A text value runs to the first unescaped quote followed by a comma or a
// closing brace and may span lines. A value that itself contains such a
// sequence is cut short.
var (
	textPatterns = fieldPatterns(types.TextFields, `"((?:\\[\s\S]|[^\\])*?)"\s*[,}]`)
	listPatterns = fieldPatterns(types.ListFields, `\[([\s\S]*?)\]`)
	quotedItem   = regexp.MustCompile(`"((?:\\[\s\S]|[^"\\])*)"`)
)

func fieldPatterns(fields []string, value string) map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(fields))
	for _, f := range fields {
		m[f] = regexp.MustCompile(`"` + regexp.QuoteMeta(f) + `"\s*:\s*` + value)
	}
	return m
}

// Extract recovers each schema field independently from malformed reply
// text. Fields with no match are empty.
func Extract(raw string) types.ResearchPaper {
	text := make(map[string]string, len(types.TextFields))
	for _, f := range types.TextFields {
		if m := textPatterns[f].FindStringSubmatch(raw); m != nil {
			text[f] = strings.TrimSpace(unescape(m[1]))
		}
	}

	lists := make(map[string][]string, len(types.ListFields))
	for _, f := range types.ListFields {
		m := listPatterns[f].FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		items := []string{}
		for _, q := range quotedItem.FindAllStringSubmatch(m[1], -1) {
			items = append(items, strings.TrimSpace(unescape(q[1])))
		}
		lists[f] = items
	}

	return types.NewResearchPaper(text, lists)
}

// unescape decodes JSON string escapes in s. Text that is not a valid JSON
// string body, such as a value with raw line breaks, is returned unchanged.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var out string
	if err := json.UnmarshalFromString(`"`+s+`"`, &out); err != nil {
		return s
	}
	return out
}
