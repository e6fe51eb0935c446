package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/models"
)

func TestReportFold(t *testing.T) {
	report := NewReport()

	report.Apply(statusEvent("Analysis started"))
	report.Apply(businessInfoEvent(extractor.BusinessInfo{SiteName: "Example"}))
	report.Apply(modelResultEvent(models.ModelScore{Name: "A", Score: 80}))
	report.Apply(modelResultEvent(models.ModelScore{Name: "B", Score: 60}))
	report.Apply(modelErrorEvent("C", "rate limited"))
	report.Apply(completeEvent())

	if report.BusinessInfo == nil || report.BusinessInfo.SiteName != "Example" {
		t.Error("Business info was not captured")
	}
	if report.Succeeded() != 2 {
		t.Errorf("Expected 2 successes, got %d", report.Succeeded())
	}
	if report.Failed() != 1 {
		t.Errorf("Expected 1 failure, got %d", report.Failed())
	}
	if !report.Complete {
		t.Error("Complete flag not set")
	}
	if report.AverageScore() != 70 {
		t.Errorf("Expected average 70, got %d", report.AverageScore())
	}
}

func TestReportLastWriteWins(t *testing.T) {
	report := NewReport()
	report.Apply(modelResultEvent(models.ModelScore{Name: "A", Score: 40}))
	report.Apply(modelResultEvent(models.ModelScore{Name: "A", Score: 90}))

	if report.Succeeded() != 1 {
		t.Errorf("Expected 1 result for a repeated name, got %d", report.Succeeded())
	}
	if report.Results["A"].Score != 90 {
		t.Errorf("Expected the later score to win, got %d", report.Results["A"].Score)
	}
}

func TestReportAverageIgnoresErrors(t *testing.T) {
	report := NewReport()
	report.Apply(modelErrorEvent("A", "down"))
	if report.AverageScore() != 0 {
		t.Errorf("Expected 0 average with no successes, got %d", report.AverageScore())
	}
}

func TestConsume(t *testing.T) {
	callers := []ModelCaller{
		&fakeCaller{name: "A", score: 75},
		&fakeCaller{name: "B", err: errors.New("unavailable")},
	}

	report := Consume(New(callers, time.Second).Run(context.Background(), testContent()))

	if !report.Complete {
		t.Error("Consumed report should be complete")
	}
	if report.Succeeded() != 1 || report.Failed() != 1 {
		t.Errorf("Unexpected outcome counts: %d successes, %d failures",
			report.Succeeded(), report.Failed())
	}
	if report.Errors[0].Name != "B" {
		t.Errorf("Expected error attributed to B, got %q", report.Errors[0].Name)
	}
}
