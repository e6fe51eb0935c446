package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/providers"
)

// Recommendation is one actionable step toward better LLM visibility.
type Recommendation struct {
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Title          string `json:"title"`
	Problem        string `json:"problem"`
	Solution       string `json:"solution"`
	Implementation string `json:"implementation"`
	Impact         string `json:"impact"`
	SchemaExample  string `json:"schemaExample,omitempty"`
	LLMBenefit     string `json:"llmBenefit"`
}

// GenerateRecommendations asks one model for 5-7 Model Context
// Marketing recommendations derived from the analysis results.
func GenerateRecommendations(ctx context.Context, completer Completer, content *extractor.ExtractedContent, insights []ModelInsight) ([]Recommendation, error) {
	prompt := buildRecommendationPrompt(content, insights)

	raw, err := completer.CompleteWith(ctx, prompt, 0.3, 2500)
	if err != nil {
		return nil, fmt.Errorf("recommendation generation failed: %w", err)
	}

	var parsed struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(providers.StripFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse recommendations: %w", err)
	}
	return parsed.Recommendations, nil
}

func buildRecommendationPrompt(content *extractor.ExtractedContent, insights []ModelInsight) string {
	info := content.BusinessInfo

	var feedback []string
	for _, m := range sortByScore(insights) {
		feedback = append(feedback, fmt.Sprintf("%s (%d/100): %s", m.Name, m.Score, m.Insight))
	}

	var schemaTypes []string
	for _, s := range content.Schemas {
		if t, ok := s["@type"].(string); ok {
			schemaTypes = append(schemaTypes, t)
		}
	}

	var presentTags []string
	for _, tag := range []string{"article", "section", "header", "footer", "nav", "aside", "main"} {
		if content.SemanticTags[tag] > 0 {
			presentTags = append(presentTags, tag)
		}
	}
	semantics := strings.Join(presentTags, ", ")
	if semantics == "" {
		semantics = "None"
	}

	var b strings.Builder
	b.WriteString("You are an expert in Model Context Marketing (MCM) - optimizing content for LLM recommendations.\n\n")
	b.WriteString("ANALYZED SITE:\n")
	fmt.Fprintf(&b, "- Name: %s\n", info.SiteName)
	fmt.Fprintf(&b, "- Category: %s\n", info.Category)
	fmt.Fprintf(&b, "- Products: %s\n", strings.Join(info.Products, ", "))
	fmt.Fprintf(&b, "- Average MCM Score: %d/100\n", averageScore(insights))
	b.WriteString("\nCURRENT STATE:\n")
	fmt.Fprintf(&b, "- Word Count: %d\n", content.WordCount)
	fmt.Fprintf(&b, "- Schemas Detected: %d (%s)\n", len(content.Schemas), strings.Join(schemaTypes, ", "))
	fmt.Fprintf(&b, "- Has Author: %s\n", yesNo(content.HasAuthor))
	fmt.Fprintf(&b, "- Has Dates: %s\n", yesNo(content.HasDates))
	fmt.Fprintf(&b, "- Semantic HTML: %s\n", semantics)
	b.WriteString("\nAI MODEL FEEDBACK:\n")
	b.WriteString(strings.Join(feedback, "\n"))
	b.WriteString(`

Generate 5-7 specific MCM recommendations to help this site get recommended by LLMs (ChatGPT, Claude, Perplexity, etc.).

FOCUS ON:
1. Schema markup gaps (JSON-LD)
2. Content structure issues (semantic HTML, headings)
3. Authority signals (author, credentials, dates)
4. Factual/research-based content needs
5. LLM crawler optimization (robots.txt, sitemap)
6. Entity definition and relationships
7. Citation-worthy content creation

AVOID:
- Generic SEO advice
- Traditional marketing tactics
- Vague recommendations
- Anything about paid ads or social media

Return ONLY valid JSON (no markdown):
{
  "recommendations": [
    {
      "category": "Schema Markup|Content Structure|Authority Signals|Factual Content|Technical Optimization",
      "priority": "Critical|High|Medium|Low",
      "title": "Brief, actionable title (40 chars max)",
      "problem": "What's missing or wrong (1 sentence)",
      "solution": "What to do about it (1 sentence)",
      "implementation": "Specific steps to implement (60 words max)",
      "impact": "Why this helps LLM recommendations (30 words max)",
      "schemaExample": "JSON-LD code snippet if applicable, or empty string",
      "llmBenefit": "Which LLMs benefit most: ChatGPT, Claude, Perplexity, or All"
    }
  ]
}`)
	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
