// Package heuristics computes deterministic fallback scores from
// cheaply observable page properties, so a report is never empty even
// when no model call can be made.
package heuristics

import (
	"fmt"
	"strings"

	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/models"
	"github.com/mcm-analyzer/backend/providers"
)

var promotionalWords = []string{"best", "amazing", "incredible", "revolutionary", "game-changing", "world-class"}

var educationalWords = []string{"example", "how to", "guide", "tutorial", "learn", "understand", "explain"}

// contentDepth scores word count, heading volume and metadata richness.
func contentDepth(content *extractor.ExtractedContent) int {
	score := 0

	switch {
	case content.WordCount > 2000:
		score += 30
	case content.WordCount > 1000:
		score += 20
	case content.WordCount > 500:
		score += 10
	}

	switch total := content.TotalHeadings(); {
	case total > 10:
		score += 20
	case total > 5:
		score += 15
	case total > 2:
		score += 10
	}

	if len(content.Schemas) > 0 {
		score += 25
	}
	if len(content.MetaDescription) > 100 {
		score += 15
	}
	if content.HasAuthor {
		score += 10
	}

	return models.ClampScore(score)
}

// tone rewards educational phrasing and discounts promotional fluff.
func tone(content *extractor.ExtractedContent) int {
	text := strings.ToLower(content.MainContent)

	score := 50
	for _, word := range educationalWords {
		if strings.Contains(text, word) {
			score += 10
		}
	}
	for _, word := range promotionalWords {
		if strings.Contains(text, word) {
			score -= 5
		}
	}

	return models.ClampScore(score)
}

// structure scores semantic markup and heading hierarchy.
func structure(content *extractor.ExtractedContent) int {
	score := 0

	switch total := content.TotalSemanticTags(); {
	case total > 5:
		score += 30
	case total > 2:
		score += 20
	case total > 0:
		score += 10
	}

	if len(content.Headings["h1"]) == 1 {
		score += 15
	}
	if len(content.Headings["h2"]) > 0 {
		score += 15
	}
	if len(content.Headings["h3"]) > 0 {
		score += 10
	}

	switch {
	case len(content.Schemas) > 2:
		score += 30
	case len(content.Schemas) > 0:
		score += 20
	}

	return models.ClampScore(score)
}

// authority scores attribution, dates and schema markup.
func authority(content *extractor.ExtractedContent) int {
	score := 0

	if content.HasAuthor {
		score += 30
	}
	if content.HasDates {
		score += 25
	}
	if content.SchemaOfType("Article") != nil {
		score += 20
	}
	if content.HasSchemaField("author") {
		score += 15
	}
	if len(content.MetaDescription) > 0 {
		score += 10
	}

	return models.ClampScore(score)
}

// Score produces a fallback ModelScore for the named provider. It is
// total: every provider name, including unknown ones, yields a result,
// and the score is always within 0-100.
func Score(providerName string, content *extractor.ExtractedContent) models.ModelScore {
	var score int
	var insight string

	switch providerName {
	case providers.NameGPT4o:
		score = (contentDepth(content) + tone(content)) / 2
		if content.WordCount < 1000 {
			insight = fmt.Sprintf("Content is %d words. Consider expanding to 2000+ words for better depth.", content.WordCount)
		} else {
			insight = fmt.Sprintf("Content is %d words. Good content depth detected.", content.WordCount)
		}

	case providers.NameClaude:
		score = structure(content)
		hierarchy := "Consider using single H1 tag."
		if len(content.Headings["h1"]) == 1 {
			hierarchy = "Good heading hierarchy."
		}
		insight = fmt.Sprintf("%d schemas detected. %s", len(content.Schemas), hierarchy)

	case providers.NameGemini:
		score = authority(content)
		author := "Missing author attribution"
		if content.HasAuthor {
			author = "Author detected"
		}
		dates := "Add publication dates."
		if content.HasDates {
			dates = "Dates present."
		}
		insight = fmt.Sprintf("%s. %s", author, dates)

	case providers.NamePerplexity:
		// Perplexity weighs citability, which only loosely tracks
		// on-page authority signals.
		score = authority(content) * 7 / 10
		schemaNote := "No structured data detected"
		if len(content.Schemas) > 0 {
			schemaNote = "Schema markup helps citability"
		}
		insight = schemaNote + ". Build authoritative backlinks for better citation."

	case providers.NameMistral:
		score = (structure(content) + contentDepth(content)) / 2
		quality := "needs improvement"
		if score > 70 {
			quality = "is strong"
		}
		meta := "Add Open Graph tags."
		if content.OpenGraph.Title != "" {
			meta = "Good metadata detected."
		}
		insight = fmt.Sprintf("Content structure %s. %s", quality, meta)
		if content.Language != "" {
			insight += fmt.Sprintf(" Primary language: %s.", content.Language)
		}

	case providers.NameGroq:
		score = structure(content)
		semantic := "could be improved"
		if content.SemanticTags["article"] > 0 || content.SemanticTags["main"] > 0 {
			semantic = "detected and validated"
		}
		insight = fmt.Sprintf("Semantic HTML %s. Fast parsing confirmed.", semantic)

	case providers.NameGrok:
		score = 50
		insight = "Social signals analysis unavailable. Increase X/Twitter presence for better visibility."

	case providers.NameDeepSeek:
		score = contentDepth(content)
		if content.WordCount < 2000 {
			insight = fmt.Sprintf("Technical depth at %d words. Add code examples and specifications to reach 2000+ words.", content.WordCount)
		} else {
			insight = fmt.Sprintf("Technical depth at %d words. Good technical depth detected.", content.WordCount)
		}

	case providers.NameFireworks:
		score = (contentDepth(content) + structure(content)) / 2
		quality := "Limited"
		if score > 70 {
			quality = "Good"
		}
		insight = fmt.Sprintf("%s developer-focused content detected. Consider adding API documentation examples.", quality)

	default:
		score = (contentDepth(content) + structure(content)) / 2
		insight = fmt.Sprintf("Heuristic assessment: %d words, %d schemas, %d headings found.",
			content.WordCount, len(content.Schemas), content.TotalHeadings())
	}

	meta := providers.DisplayMeta(providerName)
	return models.ModelScore{
		Name:       providerName,
		Logo:       meta.Logo,
		Score:      models.ClampScore(score),
		Color:      meta.Color,
		BgGradient: meta.BgGradient,
		Insight:    insight,
		Category:   meta.Category,
		IsFallback: true,
	}
}
