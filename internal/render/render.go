// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render lays a ResearchPaper out as labelled sections of plain text.
package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/research-writer/pkg/types"
)

// Section headings after the title, in document order.
const (
	HeadingAbstract            = "ABSTRACT"
	HeadingIntroduction        = "INTRODUCTION"
	HeadingLiteratureReview    = "LITERATURE REVIEW"
	HeadingMethodology         = "METHODOLOGY"
	HeadingAnalysisAndFindings = "ANALYSIS AND FINDINGS"
	HeadingDiscussion          = "DISCUSSION"
	HeadingFutureResearch      = "FUTURE RESEARCH"
	HeadingConclusion          = "CONCLUSION"
	HeadingReferences          = "REFERENCES"
	HeadingTools               = "RESEARCH METHODOLOGY & TOOLS"
)

// SectionSeparator separates headings and bodies in the rendered text.
// Paragraph-based writers treat it as a break.
const SectionSeparator = "\n\n"

// Section is one labelled block of the rendered document.
type Section struct {
	Heading string
	Body    string
}

// Sections returns the title section (the upper-cased topic, no body),
// the eight body sections, the numbered references and the tool list.
func Sections(p types.ResearchPaper) []Section {
	return []Section{
		{Heading: strings.ToUpper(p.Topic)},
		{Heading: HeadingAbstract, Body: p.Abstract},
		{Heading: HeadingIntroduction, Body: p.Introduction},
		{Heading: HeadingLiteratureReview, Body: p.LiteratureReview},
		{Heading: HeadingMethodology, Body: p.Methodology},
		{Heading: HeadingAnalysisAndFindings, Body: p.AnalysisAndFindings},
		{Heading: HeadingDiscussion, Body: p.Discussion},
		{Heading: HeadingFutureResearch, Body: p.FutureResearch},
		{Heading: HeadingConclusion, Body: p.Conclusion},
		{Heading: HeadingReferences, Body: references(p.Sources)},
		{Heading: HeadingTools, Body: bullets(p.ToolsUsed)},
	}
}

// Text joins every heading and non-empty body with SectionSeparator.
func Text(p types.ResearchPaper) string {
	parts := make([]string, 0, 22)
	for _, s := range Sections(p) {
		parts = append(parts, s.Heading)
		if s.Body != "" {
			parts = append(parts, s.Body)
		}
	}
	return strings.Join(parts, SectionSeparator)
}

func references(sources []string) string {
	lines := make([]string, len(sources))
	for i, s := range sources {
		lines[i] = fmt.Sprintf("[%d] %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = "• " + s
	}
	return strings.Join(lines, "\n")
}
