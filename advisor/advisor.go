// Package advisor wraps the single-call text-generation collaborators
// built on top of the analysis results: creative offer generation, MCM
// recommendations, and brand-recall simulation.
package advisor

import (
	"context"
	"sort"
)

// Completer is the minimal completion capability the advisor needs; it
// is satisfied by *providers.Provider.
type Completer interface {
	Name() string
	CompleteWith(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// ModelInsight is one model's contribution to an advisory prompt.
type ModelInsight struct {
	Name    string `json:"name"`
	Insight string `json:"insight"`
	Score   int    `json:"score"`
}

// sortByScore orders insights worst-first so prompts lead with the
// biggest gaps.
func sortByScore(insights []ModelInsight) []ModelInsight {
	sorted := make([]ModelInsight, len(insights))
	copy(sorted, insights)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})
	return sorted
}

func averageScore(insights []ModelInsight) int {
	if len(insights) == 0 {
		return 0
	}
	total := 0
	for _, m := range insights {
		total += m.Score
	}
	return total / len(insights)
}
