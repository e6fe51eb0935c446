package models

// ModelScore is the result of one model's assessment of a page. It is
// produced either by a live provider call or by the heuristic fallback
// scorer, serialized into a single stream event, and never persisted.
type ModelScore struct {
	Name       string `json:"name"`
	Logo       string `json:"logo"`
	Score      int    `json:"score"`
	Color      string `json:"color"`
	BgGradient string `json:"bgGradient"`
	Insight    string `json:"insight"`
	Category   string `json:"category"`
	IsFallback bool   `json:"isFallback"`
}

// ModelError is emitted in place of a ModelScore when a provider call
// fails. A provider produces exactly one of the two per run.
type ModelError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ClampScore forces a score into the 0-100 range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
