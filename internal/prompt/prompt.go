// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt assembles the single prompt string sent to the generative
// service from the instruction block, the user query and the evidence bundle.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	jsoniter "github.com/json-iterator/go"

	"github.com/pdiddy/research-writer/pkg/types"
)

// Instructions is the default instruction block. It names every key of the
// research paper schema so the reply can be decoded field for field.
const Instructions = `You are an expert academic researcher tasked with generating a comprehensive research paper.
Create a detailed academic paper following standard research paper structure and academic writing conventions.
Format your response in this JSON structure exactly (keys must match):
{
    "topic": "",
    "abstract": "",
    "introduction": "",
    "literature_review": "",
    "methodology": "",
    "analysis_and_findings": "",
    "discussion": "",
    "future_research": "",
    "conclusion": "",
    "sources": [],
    "tools_used": []
}

Please produce long, academic-quality content for each section.`

var promptTmpl = template.Must(template.New("research").Parse(`{{.Instructions}}

User query: {{.Query}}

Tool outputs (JSON):
{{.Evidence}}

Using the above tool outputs where relevant, produce the full research paper as a single JSON object following the schema exactly.`))

// Build renders the prompt. The bundle is embedded as indented JSON with
// keys in sorted order; a nil bundle is rendered as an empty object.
func Build(instructions, query string, bundle types.EvidenceBundle) (string, error) {
	evidence, err := serializeBundle(bundle)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = promptTmpl.Execute(&buf, struct {
		Instructions string
		Query        string
		Evidence     string
	}{
		Instructions: strings.TrimSpace(instructions),
		Query:        query,
		Evidence:     evidence,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func serializeBundle(bundle types.EvidenceBundle) (string, error) {
	if len(bundle) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return "", fmt.Errorf("serializing evidence: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
