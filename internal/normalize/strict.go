// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
	"github.com/spf13/cast"

	"github.com/pdiddy/research-writer/pkg/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SchemaError reports a decoded object that does not match the paper schema.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// decodeStrict decodes text as a JSON object and checks it against the
// schema: every key present, text fields scalar, list fields arrays of
// scalars. Keys outside the schema are ignored.
func decodeStrict(text string) (types.ResearchPaper, error) {
	var obj map[string]any
	if err := json.UnmarshalFromString(text, &obj); err != nil {
		return types.ResearchPaper{}, fmt.Errorf("decoding reply: %w", err)
	}
	if obj == nil {
		return types.ResearchPaper{}, fmt.Errorf("decoding reply: not a JSON object")
	}
	return fromObject(obj)
}

// decodeRepaired repairs text and decodes the result strictly. Leading prose
// before the first brace is dropped before repair.
func decodeRepaired(text string) (types.ResearchPaper, error) {
	if i := strings.IndexByte(text, '{'); i > 0 {
		text = text[i:]
	}
	repaired, err := repair(text)
	if err != nil {
		return types.ResearchPaper{}, fmt.Errorf("repairing reply: %w", err)
	}
	return decodeStrict(repaired)
}

// repair runs jsonrepair and turns a panic inside it into an error. The
// library indexes past the end of input that stops on a backslash.
func repair(text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("jsonrepair panicked: %v", r)
		}
	}()
	return jsonrepair.JSONRepair(text)
}

func fromObject(obj map[string]any) (types.ResearchPaper, error) {
	text := make(map[string]string, len(types.TextFields))
	for _, f := range types.TextFields {
		v, ok := obj[f]
		if !ok {
			return types.ResearchPaper{}, &SchemaError{Field: f, Reason: "missing"}
		}
		s, err := scalarText(v)
		if err != nil {
			return types.ResearchPaper{}, &SchemaError{Field: f, Reason: err.Error()}
		}
		text[f] = s
	}

	lists := make(map[string][]string, len(types.ListFields))
	for _, f := range types.ListFields {
		v, ok := obj[f]
		if !ok {
			return types.ResearchPaper{}, &SchemaError{Field: f, Reason: "missing"}
		}
		arr, ok := v.([]any)
		if !ok {
			return types.ResearchPaper{}, &SchemaError{Field: f, Reason: fmt.Sprintf("expected array, got %T", v)}
		}
		items := make([]string, 0, len(arr))
		for i, e := range arr {
			s, err := scalarText(e)
			if err != nil {
				return types.ResearchPaper{}, &SchemaError{Field: fmt.Sprintf("%s[%d]", f, i), Reason: err.Error()}
			}
			items = append(items, s)
		}
		lists[f] = items
	}

	return types.NewResearchPaper(text, lists), nil
}

// scalarText coerces a decoded JSON scalar to text. Null, objects and
// arrays are rejected.
func scalarText(v any) (string, error) {
	switch v.(type) {
	case nil:
		return "", fmt.Errorf("null value")
	case map[string]any, []any:
		return "", fmt.Errorf("expected text, got %T", v)
	}
	return cast.ToStringE(v)
}
