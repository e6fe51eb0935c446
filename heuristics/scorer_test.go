package heuristics

import (
	"strings"
	"testing"

	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/providers"
)

func minimalContent() *extractor.ExtractedContent {
	return &extractor.ExtractedContent{
		URL:          "https://example.com",
		SemanticTags: map[string]int{},
		Headings:     map[string][]string{},
	}
}

func richContent() *extractor.ExtractedContent {
	return &extractor.ExtractedContent{
		URL:             "https://example.com",
		Title:           "Complete Guide to Widgets",
		MetaDescription: strings.Repeat("A thorough walkthrough of widget assembly and maintenance. ", 3),
		Schemas: []map[string]any{
			{"@type": "Organization", "name": "Widgets Inc"},
			{"@type": "Article", "author": "J. Smith", "datePublished": "2024-01-01"},
			{"@type": "FAQPage"},
		},
		SemanticTags: map[string]int{"article": 2, "section": 3, "main": 1, "nav": 1},
		Headings: map[string][]string{
			"h1": {"Complete Guide to Widgets"},
			"h2": {"Getting Started", "Assembly", "Maintenance", "Troubleshooting"},
			"h3": {"Tools", "Parts", "Safety", "Storage", "Cleaning", "Repairs", "Upgrades"},
		},
		WordCount:   2500,
		HasAuthor:   true,
		HasDates:    true,
		MainContent: "Learn how to assemble widgets with this guide and tutorial. For example, understand each step.",
		Language:    "English",
	}
}

func TestScoreTotalOverAllProviders(t *testing.T) {
	names := append(providers.Names(), "Some Future Model")

	for _, contents := range []*extractor.ExtractedContent{minimalContent(), richContent()} {
		for _, name := range names {
			result := Score(name, contents)
			if result.Name != name {
				t.Errorf("Score(%q) returned name %q", name, result.Name)
			}
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("Score(%q) out of range: %d", name, result.Score)
			}
			if result.Insight == "" {
				t.Errorf("Score(%q) produced an empty insight", name)
			}
			if !result.IsFallback {
				t.Errorf("Score(%q) must be marked as fallback", name)
			}
		}
	}
}

func TestScoreUnknownProviderGetsDefaultMeta(t *testing.T) {
	result := Score("Some Future Model", richContent())
	if result.Logo == "" || result.Color == "" || result.Category == "" {
		t.Errorf("Unknown provider should get default display meta, got %+v", result)
	}
}

func TestStructureProfileRewardsMarkup(t *testing.T) {
	rich := Score(providers.NameClaude, richContent())
	poor := Score(providers.NameClaude, minimalContent())

	if rich.Score <= 50 {
		t.Errorf("Well-structured page should score above 50, got %d", rich.Score)
	}
	if poor.Score >= rich.Score {
		t.Errorf("Bare page (%d) should score below structured page (%d)", poor.Score, rich.Score)
	}
	if !strings.Contains(rich.Insight, "Good heading hierarchy") {
		t.Errorf("Expected hierarchy praise for single H1, got %q", rich.Insight)
	}
}

func TestContentDepthBuckets(t *testing.T) {
	short := minimalContent()
	short.WordCount = 400

	long := minimalContent()
	long.WordCount = 2500

	if contentDepth(long) <= contentDepth(short) {
		t.Errorf("Longer content should score deeper: %d vs %d",
			contentDepth(long), contentDepth(short))
	}
}

func TestToneRewardsEducationalPhrasing(t *testing.T) {
	educational := minimalContent()
	educational.MainContent = "This guide and tutorial helps you learn and understand the topic with an example."

	promotional := minimalContent()
	promotional.MainContent = "The best amazing incredible revolutionary world-class product."

	if tone(educational) <= tone(promotional) {
		t.Errorf("Educational tone (%d) should beat promotional tone (%d)",
			tone(educational), tone(promotional))
	}
	if tone(promotional) >= 50 {
		t.Errorf("Promotional tone should drop below the 50 baseline, got %d", tone(promotional))
	}
}

func TestAuthorityProfile(t *testing.T) {
	content := minimalContent()
	content.HasAuthor = true
	content.HasDates = true
	content.MetaDescription = "A description."
	content.Schemas = []map[string]any{{"@type": "Article", "author": "J. Smith"}}

	if got := authority(content); got != 100 {
		t.Errorf("Expected full authority score 100, got %d", got)
	}
	if got := authority(minimalContent()); got != 0 {
		t.Errorf("Expected zero authority for a bare page, got %d", got)
	}
}

func TestPerplexityDiscountsAuthority(t *testing.T) {
	content := richContent()
	gemini := Score(providers.NameGemini, content)
	perplexity := Score(providers.NamePerplexity, content)

	if perplexity.Score >= gemini.Score {
		t.Errorf("Citation score (%d) should be discounted below authority score (%d)",
			perplexity.Score, gemini.Score)
	}
}

func TestGrokIsNeutralWithoutSocialSignals(t *testing.T) {
	if got := Score(providers.NameGrok, minimalContent()); got.Score != 50 {
		t.Errorf("Expected neutral 50 for social analysis, got %d", got.Score)
	}
}
