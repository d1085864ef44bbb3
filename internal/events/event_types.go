package events

import (
	"time"

	"github.com/sfinpay/backoffice/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInquiryCreated       EventType = "inquiry_created"
	EventInquiryStatusChanged EventType = "inquiry_status_changed"
)

// Source identifies which surface triggered an event.
type Source string

const (
	SourceIntake    Source = "intake"
	SourceDashboard Source = "dashboard"
	SourceChat      Source = "chat"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	InquiryID string      `json:"inquiry_id"`
	Source    Source      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InquiryCreatedPayload payload.
type InquiryCreatedPayload struct {
	Inquiry domain.Inquiry `json:"inquiry"`
}

// InquiryStatusChangedPayload payload.
type InquiryStatusChangedPayload struct {
	Status    domain.InquiryStatus `json:"status"`
	CRMPageID *string              `json:"crm_page_id,omitempty"`
}
