package analysis

import (
	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/models"
)

// Report is the consumer-side fold of an analysis stream: results
// keyed by provider name (last write wins), errors accumulated
// separately, complete marking the end of the stream.
type Report struct {
	BusinessInfo *extractor.BusinessInfo
	Results      map[string]models.ModelScore
	Errors       []models.ModelError
	Complete     bool
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{Results: make(map[string]models.ModelScore)}
}

// Apply folds one event into the report.
func (r *Report) Apply(ev Event) {
	switch ev.Type {
	case EventBusinessInfo:
		r.BusinessInfo = ev.Data
	case EventModelResult:
		if ev.Result != nil {
			r.Results[ev.Result.Name] = *ev.Result
		}
	case EventModelError:
		r.Errors = append(r.Errors, models.ModelError{Name: ev.Model, Error: ev.Error})
	case EventComplete:
		r.Complete = true
	}
}

// Consume drains an event channel into a finished report.
func Consume(events <-chan Event) *Report {
	report := NewReport()
	for ev := range events {
		report.Apply(ev)
	}
	return report
}

// Succeeded returns the number of models that produced a score.
func (r *Report) Succeeded() int { return len(r.Results) }

// Failed returns the number of models that errored.
func (r *Report) Failed() int { return len(r.Errors) }

// AverageScore averages the successful scores only; zero when no model
// succeeded.
func (r *Report) AverageScore() int {
	if len(r.Results) == 0 {
		return 0
	}
	total := 0
	for _, score := range r.Results {
		total += score.Score
	}
	return total / len(r.Results)
}
