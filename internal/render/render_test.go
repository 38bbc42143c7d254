// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-writer/pkg/types"
)

func samplePaper() types.ResearchPaper {
	return types.ResearchPaper{
		Topic:               "Quantum Computing",
		Abstract:            "Abstract body.",
		Introduction:        "Intro body.",
		LiteratureReview:    "Review body.",
		Methodology:         "Method body.",
		AnalysisAndFindings: "Findings body.",
		Discussion:          "Discussion body.",
		FutureResearch:      "Future body.",
		Conclusion:          "Conclusion body.",
		Sources:             []string{"Source A", "Source B"},
		ToolsUsed:           []string{"web_search", "wikipedia_summary"},
	}
}

var bodyHeadings = []string{
	HeadingAbstract,
	HeadingIntroduction,
	HeadingLiteratureReview,
	HeadingMethodology,
	HeadingAnalysisAndFindings,
	HeadingDiscussion,
	HeadingFutureResearch,
	HeadingConclusion,
	HeadingReferences,
	HeadingTools,
}

func TestText_HeadingsOnceInOrder(t *testing.T) {
	text := Text(samplePaper())
	paragraphs := strings.Split(text, SectionSeparator)

	pos := -1
	for _, h := range bodyHeadings {
		count := 0
		idx := -1
		for i, p := range paragraphs {
			if p == h {
				count++
				idx = i
			}
		}
		assert.Equal(t, 1, count, "heading %q", h)
		assert.Greater(t, idx, pos, "heading %q out of order", h)
		pos = idx
	}
}

func TestText_TitleFirst(t *testing.T) {
	text := Text(samplePaper())
	assert.True(t, strings.HasPrefix(text, "QUANTUM COMPUTING\n\nABSTRACT\n\nAbstract body."))

	sections := Sections(samplePaper())
	assert.Equal(t, Section{Heading: "QUANTUM COMPUTING"}, sections[0])
}

func TestSections_References(t *testing.T) {
	sections := Sections(samplePaper())
	require.Len(t, sections, 11)

	refs := sections[9]
	assert.Equal(t, HeadingReferences, refs.Heading)
	assert.Equal(t, "[1] Source A\n[2] Source B", refs.Body)

	tools := sections[10]
	assert.Equal(t, HeadingTools, tools.Heading)
	assert.Equal(t, "• web_search\n• wikipedia_summary", tools.Body)
}

func TestText_EmptyPaper(t *testing.T) {
	text := Text(types.NewResearchPaper(nil, nil))

	want := strings.Join(append([]string{""}, bodyHeadings...), SectionSeparator)
	assert.Equal(t, want, text)
}

func TestText_Exact(t *testing.T) {
	p := types.ResearchPaper{
		Topic:      "entropy",
		Conclusion: "Done.",
		Sources:    []string{"Clausius"},
		ToolsUsed:  []string{},
	}
	want := "ENTROPY\n\nABSTRACT\n\nINTRODUCTION\n\nLITERATURE REVIEW\n\nMETHODOLOGY\n\n" +
		"ANALYSIS AND FINDINGS\n\nDISCUSSION\n\nFUTURE RESEARCH\n\nCONCLUSION\n\nDone.\n\n" +
		"REFERENCES\n\n[1] Clausius\n\nRESEARCH METHODOLOGY & TOOLS"
	assert.Equal(t, want, Text(p))
}
