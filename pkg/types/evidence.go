// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Evidence source names used as EvidenceBundle keys.
const (
	SourceWebSearch        = "web_search"
	SourceWikipediaSearch  = "wikipedia_search"
	SourceWikipediaSummary = "wikipedia_summary"

	// SourceToolError holds a summary of every lookup that failed.
	SourceToolError = "tool_error"

	// SourceSnapshot holds the status message of the evidence snapshot save.
	SourceSnapshot = "tool_snapshot_saved"
)

// EvidenceBundle maps an evidence source name to the raw text it returned.
// A bundle is built fresh for each query and discarded once the prompt is built.
type EvidenceBundle map[string]string

// Failed reports whether any lookup failed during collection.
func (b EvidenceBundle) Failed() bool {
	_, ok := b[SourceToolError]
	return ok
}
