// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns the raw text reply of a generative service into a
// fully populated ResearchPaper.
//
// Parsing runs in tiers, each a fallback of the previous one:
//
//  1. strict: the fence-stripped reply decodes as a JSON object carrying
//     every schema key with the right value types;
//  2. repaired: the same check after syntactic repair of the reply;
//  3. recovered: field-by-field pattern extraction from the raw text.
//
// A document always comes from exactly one tier, and Parse never fails.
package normalize

import (
	"github.com/pdiddy/research-writer/pkg/types"
)

// Result is the outcome of Parse. It is one of StrictlyParsed, Repaired or
// Recovered.
type Result interface {
	// Paper returns the parsed document.
	Paper() types.ResearchPaper
	// Mode names the tier that produced the document.
	Mode() types.ParseMode

	isResult()
}

// StrictlyParsed holds a document decoded from a schema-valid reply.
type StrictlyParsed struct {
	Document types.ResearchPaper
}

// Repaired holds a document decoded after syntactic repair of the reply.
// StrictErr records why the unrepaired reply was rejected.
type Repaired struct {
	Document  types.ResearchPaper
	StrictErr error
}

// Recovered holds a document assembled by pattern extraction. Cause records
// why the decoding tiers were rejected.
type Recovered struct {
	Document types.ResearchPaper
	Cause    error
}

func (r StrictlyParsed) Paper() types.ResearchPaper { return r.Document }
func (r Repaired) Paper() types.ResearchPaper       { return r.Document }
func (r Recovered) Paper() types.ResearchPaper      { return r.Document }

func (StrictlyParsed) Mode() types.ParseMode { return types.ParseStrict }
func (Repaired) Mode() types.ParseMode       { return types.ParseRepaired }
func (Recovered) Mode() types.ParseMode      { return types.ParseRecovered }

func (StrictlyParsed) isResult() {}
func (Repaired) isResult()       {}
func (Recovered) isResult()      {}

// Parse normalizes a raw reply.
func Parse(raw string) Result {
	text := StripFences(raw)

	paper, strictErr := decodeStrict(text)
	if strictErr == nil {
		return StrictlyParsed{Document: paper}
	}

	paper, err := decodeRepaired(text)
	if err == nil {
		return Repaired{Document: paper, StrictErr: strictErr}
	}

	return Recovered{Document: Extract(text), Cause: err}
}

// Normalize returns only the document produced by Parse.
func Normalize(raw string) types.ResearchPaper {
	return Parse(raw).Paper()
}
