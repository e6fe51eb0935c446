// Package analysis runs the multi-model fan-out and defines the
// incremental event stream it produces.
package analysis

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/models"
)

// DefaultCallTimeout bounds one provider call so a hanging vendor can
// never stall the complete event.
const DefaultCallTimeout = 25 * time.Second

// ModelCaller is the adapter contract the orchestrator fans out over.
type ModelCaller interface {
	Name() string
	Call(ctx context.Context, content *extractor.ExtractedContent) (models.ModelScore, error)
}

// Orchestrator runs every registered model concurrently against one
// extracted page and streams each settlement as it happens.
type Orchestrator struct {
	callers     []ModelCaller
	callTimeout time.Duration
}

// New creates an Orchestrator. A zero callTimeout selects
// DefaultCallTimeout.
func New(callers []ModelCaller, callTimeout time.Duration) *Orchestrator {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Orchestrator{callers: callers, callTimeout: callTimeout}
}

// Run streams the analysis of already-extracted content. The returned
// channel yields, in order: one status event, one business_info event,
// one model_result or model_error per caller (in settlement order),
// and a final complete event, after which the channel is closed.
//
// One caller's failure never cancels or delays its siblings; the join
// waits for all to settle.
func (o *Orchestrator) Run(ctx context.Context, content *extractor.ExtractedContent) <-chan Event {
	// Buffered so a slow consumer cannot block a settling provider.
	events := make(chan Event, len(o.callers)+3)

	go func() {
		defer close(events)

		events <- statusEvent("Analysis started")
		events <- businessInfoEvent(content.BusinessInfo)

		var wg sync.WaitGroup
		for _, caller := range o.callers {
			wg.Add(1)
			go func(caller ModelCaller) {
				defer wg.Done()

				callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
				defer cancel()

				score, err := caller.Call(callCtx, content)
				if err != nil {
					log.Printf("%s error: %v", caller.Name(), err)
					events <- modelErrorEvent(caller.Name(), errorMessage(err))
					return
				}
				events <- modelResultEvent(score)
			}(caller)
		}
		wg.Wait()

		events <- completeEvent()
	}()

	return events
}

// errorMessage extracts a human-readable message, unwrapping the
// provider wrapper so the event carries the cause, not the prefix.
func errorMessage(err error) string {
	var unwrapped interface{ Unwrap() error }
	if errors.As(err, &unwrapped) {
		if inner := unwrapped.Unwrap(); inner != nil {
			return inner.Error()
		}
	}
	return err.Error()
}
