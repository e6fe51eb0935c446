package analysis

import (
	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/models"
)

// EventType discriminates the stream event payloads.
type EventType string

const (
	EventStatus       EventType = "status"
	EventBusinessInfo EventType = "business_info"
	EventModelResult  EventType = "model_result"
	EventModelError   EventType = "model_error"
	EventComplete     EventType = "complete"
)

// Event is one frame of the analysis stream. Exactly the fields
// relevant to its type are populated.
type Event struct {
	Type    EventType               `json:"type"`
	Message string                  `json:"message,omitempty"`
	Data    *extractor.BusinessInfo `json:"data,omitempty"`
	Model   string                  `json:"model,omitempty"`
	Result  *models.ModelScore      `json:"result,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

func statusEvent(message string) Event {
	return Event{Type: EventStatus, Message: message}
}

func businessInfoEvent(info extractor.BusinessInfo) Event {
	return Event{Type: EventBusinessInfo, Data: &info}
}

func modelResultEvent(score models.ModelScore) Event {
	return Event{Type: EventModelResult, Model: score.Name, Result: &score}
}

func modelErrorEvent(model, message string) Event {
	return Event{Type: EventModelError, Model: model, Error: message}
}

func completeEvent() Event {
	return Event{Type: EventComplete}
}
