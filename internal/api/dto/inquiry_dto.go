package dto

import (
	"time"

	"github.com/sfinpay/backoffice/internal/domain"
)

// CreateInquiryRequest is the public contact form body.
type CreateInquiryRequest struct {
	Company string `json:"company"`
	Email   string `json:"email"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// InquiryResponse is the list representation of an inquiry. Status carries
// the dashboard label; StatusCode the canonical value.
type InquiryResponse struct {
	ID         string    `json:"id"`
	Company    string    `json:"company"`
	Email      string    `json:"email"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	StatusCode string    `json:"statusCode"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AdminInquiryRecord is the dashboard row.
type AdminInquiryRecord struct {
	ID         string `json:"id"`
	Company    string `json:"company"`
	Email      string `json:"email"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	StatusCode string `json:"statusCode"`
	Date       string `json:"date"`
}

// InquiryListResponse is one page of the public list.
type InquiryListResponse struct {
	OK          bool              `json:"ok"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Limit       int               `json:"limit"`
	Data        []InquiryResponse `json:"data"`
}

// NewInquiryResponse maps a domain inquiry.
func NewInquiryResponse(inquiry domain.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:         inquiry.ID,
		Company:    inquiry.Company,
		Email:      inquiry.Email,
		Type:       inquiry.Type,
		Message:    inquiry.Message,
		Status:     inquiry.Status.Label(),
		StatusCode: string(inquiry.Status),
		CreatedAt:  inquiry.CreatedAt,
	}
}

// NewAdminInquiryRecord maps a domain inquiry to a dashboard row.
func NewAdminInquiryRecord(inquiry domain.Inquiry) AdminInquiryRecord {
	return AdminInquiryRecord{
		ID:         inquiry.ID,
		Company:    inquiry.Company,
		Email:      inquiry.Email,
		Type:       inquiry.Type,
		Message:    inquiry.Message,
		Status:     inquiry.Status.Label(),
		StatusCode: string(inquiry.Status),
		Date:       inquiry.CreatedAt.UTC().Format(time.RFC3339),
	}
}
