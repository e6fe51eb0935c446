package advisor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Accuracy grades how well a model's prior knowledge matches reality.
const (
	AccuracyAccurate     = "accurate"
	AccuracyPartial      = "partial"
	AccuracyNone         = "none"
	AccuracyHallucinated = "hallucinated"
)

// ActualInfo is the ground truth a recall response is graded against.
type ActualInfo struct {
	Description string   `json:"description"`
	Products    []string `json:"products"`
	Category    string   `json:"category"`
}

// RecallResult captures what one model already knows about a brand.
type RecallResult struct {
	Model          string   `json:"model"`
	Response       string   `json:"response"`
	HasInfo        bool     `json:"hasInfo"`
	Hallucinations []string `json:"hallucinations"`
	Missing        []string `json:"missing"`
	Accuracy       string   `json:"accuracy"`
}

// noInfoPhrases mark a model admitting it has no training data about
// the company.
var noInfoPhrases = []string{
	"i don't have",
	"i don't know",
	"i cannot provide",
	"i'm not able",
	"no information",
	"not familiar",
	"cannot find",
	"don't have specific",
	"unable to provide",
}

// specificClaimPatterns capture concrete assertions that are likely
// hallucinated when a model "knows" an obscure company.
var specificClaimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)founded in \d{4}`),
	regexp.MustCompile(`(?i)\$[\d,]+ (million|billion) in revenue`),
	regexp.MustCompile(`(?i)\d+ employees`),
	regexp.MustCompile(`(?i)headquartered in`),
	regexp.MustCompile(`(?i)acquired by`),
	regexp.MustCompile(`(?i)raised \$`),
}

// SimulateRecall asks each model what it already knows about the
// company and grades the answers. Models are queried concurrently;
// one model's failure only drops its own result.
func SimulateRecall(ctx context.Context, completers []Completer, companyName string, actual ActualInfo) []RecallResult {
	query := fmt.Sprintf("What can you tell me about %s? Please answer based only on your training data. Be concise (2-3 sentences). If you don't know, say so.", companyName)

	results := make([]RecallResult, len(completers))
	ok := make([]bool, len(completers))

	var wg sync.WaitGroup
	for i, completer := range completers {
		wg.Add(1)
		go func(i int, completer Completer) {
			defer wg.Done()

			answer, err := completer.CompleteWith(ctx, query, 0.3, 200)
			if err != nil {
				return
			}
			results[i] = gradeRecall(completer.Name(), answer, actual)
			ok[i] = true
		}(i, completer)
	}
	wg.Wait()

	var settled []RecallResult
	for i, result := range results {
		if ok[i] {
			settled = append(settled, result)
		}
	}
	return settled
}

func gradeRecall(model, response string, actual ActualInfo) RecallResult {
	lower := strings.ToLower(response)

	for _, phrase := range noInfoPhrases {
		if strings.Contains(lower, phrase) {
			return RecallResult{
				Model:    model,
				Response: response,
				HasInfo:  false,
				Missing:  actual.Products,
				Accuracy: AccuracyNone,
			}
		}
	}

	mentionsCategory := strings.Contains(lower, strings.ToLower(actual.Category))

	var mentioned, missing []string
	for _, product := range actual.Products {
		// Match on a prefix so minor naming variations still count.
		probe := strings.ToLower(product)
		if cut := len(probe) - 5; cut > 5 {
			probe = probe[:cut]
		}
		if strings.Contains(lower, probe) {
			mentioned = append(mentioned, product)
		} else {
			missing = append(missing, product)
		}
	}

	accuracy := AccuracyNone
	if mentionsCategory || len(mentioned) > 0 {
		if len(mentioned)*2 >= len(actual.Products) {
			accuracy = AccuracyAccurate
		} else {
			accuracy = AccuracyPartial
		}
	}

	var hallucinations []string
	for _, pattern := range specificClaimPatterns {
		if match := pattern.FindString(response); match != "" {
			hallucinations = append(hallucinations, match)
		}
	}

	if len(missing) > 3 {
		missing = missing[:3]
	}

	return RecallResult{
		Model:          model,
		Response:       response,
		HasInfo:        true,
		Hallucinations: hallucinations,
		Missing:        missing,
		Accuracy:       accuracy,
	}
}
