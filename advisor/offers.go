package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/providers"
)

// GeneratedOffer is one unconventional lead-magnet idea tailored to
// the analyzed business.
type GeneratedOffer struct {
	Title               string   `json:"title"`
	Type                string   `json:"type"`
	Description         string   `json:"description"`
	ValueProposition    string   `json:"valueProposition"`
	DeliveryFormat      string   `json:"deliveryFormat"`
	TargetAudience      string   `json:"targetAudience"`
	ConversionHook      string   `json:"conversionHook"`
	ImplementationSteps []string `json:"implementationSteps"`
	EstimatedValue      string   `json:"estimatedValue"`
	UniquenessScore     int      `json:"uniquenessScore"`
}

// GenerateOffers asks one model for three unique marketing offers
// grounded in the business profile and the weakest analysis insights.
// This is a creative task, so it runs at high temperature.
func GenerateOffers(ctx context.Context, completer Completer, content *extractor.ExtractedContent, insights []ModelInsight) ([]GeneratedOffer, error) {
	prompt := buildOfferPrompt(content, insights)

	raw, err := completer.CompleteWith(ctx, prompt, 0.9, 2000)
	if err != nil {
		return nil, fmt.Errorf("offer generation failed: %w", err)
	}

	var parsed struct {
		Offers []GeneratedOffer `json:"offers"`
	}
	if err := json.Unmarshal([]byte(providers.StripFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse offers: %w", err)
	}
	return parsed.Offers, nil
}

func buildOfferPrompt(content *extractor.ExtractedContent, insights []ModelInsight) string {
	info := content.BusinessInfo

	var gaps []string
	for i, m := range sortByScore(insights) {
		if i >= 3 {
			break
		}
		gaps = append(gaps, fmt.Sprintf("%s: %s", m.Name, m.Insight))
	}

	var b strings.Builder
	b.WriteString("You are a creative marketing strategist. Based on this company's analysis, generate 3 WILDLY UNIQUE marketing offers that would be irresistible lead magnets.\n\n")
	b.WriteString("COMPANY CONTEXT:\n")
	fmt.Fprintf(&b, "- Name: %s\n", info.SiteName)
	fmt.Fprintf(&b, "- Category: %s\n", info.Category)
	fmt.Fprintf(&b, "- Type: %s\n", info.CompanyType)
	fmt.Fprintf(&b, "- Description: %s\n", info.Description)
	fmt.Fprintf(&b, "- Products: %s\n", strings.Join(info.Products, ", "))
	fmt.Fprintf(&b, "- Key Features: %s\n", strings.Join(info.Features, ", "))
	fmt.Fprintf(&b, "- Target Markets: %s\n", strings.Join(info.Markets, ", "))
	fmt.Fprintf(&b, "- Differentiation: %s\n", strings.Join(info.Differentiation, ", "))
	b.WriteString("\nBIGGEST GAPS (from AI analysis):\n")
	b.WriteString(strings.Join(gaps, "\n"))
	b.WriteString(`

RULES:
1. NO generic ebooks, whitepapers, or templates
2. Each offer must be UNCONVENTIONAL and specific to their business
3. Must provide immediate, tangible value
4. Should address their biggest content/marketing gaps
5. Must be deliverable without massive effort
6. High perceived value ($500-2000+ equivalent)

UNCONVENTIONAL OFFER TYPES TO CONSIDER:
- Interactive tools/calculators
- Micro-certifications (1-hour)
- Done-with-you sessions
- Exclusive slack/community access
- Live diagnostic workshops
- Custom implementation blueprints
- Video teardowns/audits
- Office hours access
- Challenge programs (5-7 days)
- Curated resource libraries
- Private podcast series
- Implementation checklists with video walkthroughs
- Competitive intelligence reports
- Industry benchmark comparisons

Return ONLY valid JSON (no markdown):
{
  "offers": [
    {
      "title": "Specific, compelling title",
      "type": "Interactive Calculator/Live Workshop/etc",
      "description": "2-3 sentence description of what it is",
      "valueProposition": "One sentence: why this is irresistible",
      "deliveryFormat": "How it's delivered (platform, timeline, format)",
      "targetAudience": "Specific role/persona this appeals to",
      "conversionHook": "One sentence: the hook that makes them want it NOW",
      "implementationSteps": ["Step 1", "Step 2", "Step 3"],
      "estimatedValue": "Perceived market value (e.g., '$1,500 value')",
      "uniquenessScore": 95
    }
  ]
}`)
	return b.String()
}
