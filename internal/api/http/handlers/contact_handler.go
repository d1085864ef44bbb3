package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sfinpay/backoffice/internal/api/dto"
	"github.com/sfinpay/backoffice/internal/service"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// ContactHandler exposes the public inquiry endpoints.
type ContactHandler struct {
	inquiries *service.InquiryService
}

// NewContactHandler constructs handler.
func NewContactHandler(inquiries *service.InquiryService) *ContactHandler {
	return &ContactHandler{inquiries: inquiries}
}

// Create handles POST /api/contact.
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateInquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	inquiry, err := h.inquiries.Create(c.UserContext(), service.CreateInquiryInput{
		Company: req.Company,
		Email:   req.Email,
		Type:    req.Type,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"message": service.MsgInquiryCreated,
		"id":      inquiry.ID,
	})
}

// List handles GET /api/contact/list.
func (h *ContactHandler) List(c *fiber.Ctx) error {
	page, err := h.inquiries.List(c.UserContext(), service.ListInquiriesInput{
		Page:    c.QueryInt("page", service.DefaultPage),
		Limit:   c.QueryInt("limit", service.DefaultLimit),
		Status:  c.Query("status"),
		Keyword: c.Query("keyword"),
	})
	if err != nil {
		return err
	}

	data := make([]dto.InquiryResponse, 0, len(page.Items))
	for _, inquiry := range page.Items {
		data = append(data, dto.NewInquiryResponse(inquiry))
	}
	return c.JSON(dto.InquiryListResponse{
		OK:          true,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.Page,
		Limit:       page.Limit,
		Data:        data,
	})
}
