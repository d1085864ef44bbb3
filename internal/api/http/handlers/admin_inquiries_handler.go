package handlers

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/sfinpay/backoffice/internal/api/dto"
	"github.com/sfinpay/backoffice/internal/events"
	"github.com/sfinpay/backoffice/internal/service"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// AdminInquiriesHandler serves the dashboard API.
type AdminInquiriesHandler struct {
	inquiries *service.InquiryService
}

// NewAdminInquiriesHandler constructs handler.
func NewAdminInquiriesHandler(inquiries *service.InquiryService) *AdminInquiriesHandler {
	return &AdminInquiriesHandler{inquiries: inquiries}
}

// List handles GET /api/admin/inquiries.
func (h *AdminInquiriesHandler) List(c *fiber.Ctx) error {
	items, err := h.inquiries.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	records := make([]dto.AdminInquiryRecord, 0, len(items))
	for _, inquiry := range items {
		records = append(records, dto.NewAdminInquiryRecord(inquiry))
	}
	return c.JSON(fiber.Map{"ok": true, "records": records})
}

// UpdateStatus handles POST /api/admin/update-status.
func (h *AdminInquiriesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.inquiries.UpdateStatus(c.UserContext(), req.InquiryID(), req.Status, events.SourceDashboard)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"message": service.StatusChangedMessage(updated.Status),
		"updated": dto.NewAdminInquiryRecord(*updated),
	})
}

// Export handles GET /api/admin/inquiries/export.
func (h *AdminInquiriesHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	err := h.inquiries.Export(c.UserContext(), service.ExportFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	}, &buf)
	if err != nil {
		return err
	}

	name := h.inquiries.ExportFilename()
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="inquiries.csv"; filename*=UTF-8''%s`, url.PathEscape(name)))
	return c.Send(buf.Bytes())
}
