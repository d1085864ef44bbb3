package domain

import (
	"strings"
	"time"
)

// DefaultInquiryType is stored when the visitor leaves the category blank.
const DefaultInquiryType = "기타 문의"

// InquiryStatus enumerates lifecycle states for inquiries.
type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "NEW"
	InquiryStatusInProgress InquiryStatus = "IN_PROGRESS"
	InquiryStatusDone       InquiryStatus = "DONE"
)

// InquiryStatuses lists every valid status in lifecycle order.
var InquiryStatuses = []InquiryStatus{InquiryStatusNew, InquiryStatusInProgress, InquiryStatusDone}

type statusLabels struct {
	dashboard string
	chat      string
}

// The dashboard and the chat buttons grew different wording for the same states.
var labels = map[InquiryStatus]statusLabels{
	InquiryStatusNew:        {dashboard: "신규", chat: "신규"},
	InquiryStatusInProgress: {dashboard: "진행중", chat: "진행 중"},
	InquiryStatusDone:       {dashboard: "완료", chat: "처리 완료"},
}

// Valid reports whether s is one of the defined statuses.
func (s InquiryStatus) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label returns the dashboard wording, also used for the CRM and CSV export.
func (s InquiryStatus) Label() string {
	return labels[s].dashboard
}

// ChatLabel returns the wording used in chat replies.
func (s InquiryStatus) ChatLabel() string {
	return labels[s].chat
}

// ParseInquiryStatus accepts the canonical code, the dashboard label or the chat label.
func ParseInquiryStatus(raw string) (InquiryStatus, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	if s := InquiryStatus(strings.ToUpper(value)); s.Valid() {
		return s, true
	}
	for status, l := range labels {
		if value == l.dashboard || value == l.chat {
			return status, true
		}
	}
	return "", false
}

// Inquiry is a customer contact request submitted through the public site.
type Inquiry struct {
	ID        string
	Company   string
	Email     string
	Type      string
	Message   string
	Status    InquiryStatus
	CRMPageID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
