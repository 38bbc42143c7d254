// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Field names of the research paper JSON schema, in document order.
const (
	FieldTopic               = "topic"
	FieldAbstract            = "abstract"
	FieldIntroduction        = "introduction"
	FieldLiteratureReview    = "literature_review"
	FieldMethodology         = "methodology"
	FieldAnalysisAndFindings = "analysis_and_findings"
	FieldDiscussion          = "discussion"
	FieldFutureResearch      = "future_research"
	FieldConclusion          = "conclusion"
	FieldSources             = "sources"
	FieldToolsUsed           = "tools_used"
)

// TextFields lists the nine text fields of ResearchPaper in document order.
var TextFields = []string{
	FieldTopic,
	FieldAbstract,
	FieldIntroduction,
	FieldLiteratureReview,
	FieldMethodology,
	FieldAnalysisAndFindings,
	FieldDiscussion,
	FieldFutureResearch,
	FieldConclusion,
}

// ListFields lists the two sequence fields of ResearchPaper.
var ListFields = []string{FieldSources, FieldToolsUsed}

// ResearchPaper is the structured document produced from one model reply.
// Every field is always present; text fields may be empty when the reply
// could only be partially recovered.
type ResearchPaper struct {
	// Topic is the paper title. Rendered upper-cased.
	Topic string `json:"topic" yaml:"topic"`

	Abstract            string `json:"abstract" yaml:"abstract"`
	Introduction        string `json:"introduction" yaml:"introduction"`
	LiteratureReview    string `json:"literature_review" yaml:"literature_review"`
	Methodology         string `json:"methodology" yaml:"methodology"`
	AnalysisAndFindings string `json:"analysis_and_findings" yaml:"analysis_and_findings"`
	Discussion          string `json:"discussion" yaml:"discussion"`
	FutureResearch      string `json:"future_research" yaml:"future_research"`
	Conclusion          string `json:"conclusion" yaml:"conclusion"`

	// Sources lists citation-like free text in the order the model gave them.
	Sources []string `json:"sources" yaml:"sources"`

	// ToolsUsed names the evidence sources the model says it consulted.
	ToolsUsed []string `json:"tools_used" yaml:"tools_used"`
}

// NewResearchPaper builds a paper from per-field values. Missing text fields
// become empty strings and missing lists become empty (non-nil) slices.
func NewResearchPaper(text map[string]string, lists map[string][]string) ResearchPaper {
	list := func(name string) []string {
		if v := lists[name]; v != nil {
			return v
		}
		return []string{}
	}
	return ResearchPaper{
		Topic:               text[FieldTopic],
		Abstract:            text[FieldAbstract],
		Introduction:        text[FieldIntroduction],
		LiteratureReview:    text[FieldLiteratureReview],
		Methodology:         text[FieldMethodology],
		AnalysisAndFindings: text[FieldAnalysisAndFindings],
		Discussion:          text[FieldDiscussion],
		FutureResearch:      text[FieldFutureResearch],
		Conclusion:          text[FieldConclusion],
		Sources:             list(FieldSources),
		ToolsUsed:           list(FieldToolsUsed),
	}
}
