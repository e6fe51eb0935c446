package providers

import (
	"fmt"
	"strings"

	"github.com/mcm-analyzer/backend/extractor"
)

var headingOrder = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

var semanticTagOrder = []string{"article", "section", "header", "footer", "nav", "aside", "main"}

// promptSampleLimit bounds the content sample embedded in the prompt.
const promptSampleLimit = 1500

// BuildPrompt renders the shared analysis prompt with a
// provider-specific focus framing. Unknown focus strings get a generic
// framing so the prompt is always well-formed.
func BuildPrompt(focus string, content *extractor.ExtractedContent) string {
	if focus == "" {
		focus = "general SEO quality"
	}

	var headings []string
	for _, level := range headingOrder {
		headings = append(headings, fmt.Sprintf("%s: %d", level, len(content.Headings[level])))
	}

	var tags []string
	for _, tag := range semanticTagOrder {
		tags = append(tags, fmt.Sprintf("%s: %d", tag, content.SemanticTags[tag]))
	}

	sample := content.MainContent
	if runes := []rune(sample); len(runes) > promptSampleLimit {
		sample = string(runes[:promptSampleLimit])
	}

	var b strings.Builder
	b.WriteString("You are an SEO expert analyzing website content for LLM optimization.\n\n")
	fmt.Fprintf(&b, "Analyze this content focusing on: %s\n\n", focus)
	b.WriteString("Website Data:\n")
	fmt.Fprintf(&b, "- Title: %s\n", content.Title)
	fmt.Fprintf(&b, "- Meta Description: %s\n", content.MetaDescription)
	fmt.Fprintf(&b, "- Word Count: %d\n", content.WordCount)
	fmt.Fprintf(&b, "- Headings: %s\n", strings.Join(headings, ", "))
	fmt.Fprintf(&b, "- Has Author: %t\n", content.HasAuthor)
	fmt.Fprintf(&b, "- Has Dates: %t\n", content.HasDates)
	fmt.Fprintf(&b, "- Schemas: %d detected\n", len(content.Schemas))
	fmt.Fprintf(&b, "- Semantic Tags: %s\n", strings.Join(tags, ", "))
	if content.Language != "" {
		fmt.Fprintf(&b, "- Language: %s\n", content.Language)
	}
	fmt.Fprintf(&b, "\nContent Sample: %s\n\n", sample)
	b.WriteString("Provide a score from 0-100 and a brief insight (1-2 sentences maximum) about what could be improved.\n\n")
	b.WriteString("Respond ONLY in JSON format:\n")
	b.WriteString("{\n  \"score\": 75,\n  \"insight\": \"Brief actionable insight here\"\n}")

	return b.String()
}
