package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/sfinpay/backoffice/internal/domain"
	"github.com/sfinpay/backoffice/internal/events"
	"github.com/sfinpay/backoffice/internal/observability"
	"github.com/sfinpay/backoffice/internal/repository"
	apperrors "github.com/sfinpay/backoffice/pkg/util"
)

// Paging defaults for the public list.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// StatusAll is the dashboard's "no filter" choice.
const StatusAll = "전체"

const (
	MsgInquiryMissingFields = "모든 필드를 입력해야 합니다."
	MsgInquiryCreated       = "문의가 성공적으로 등록되었습니다."
	MsgStatusMissingFields  = "필수 필드(id, status)가 누락되었습니다."
	MsgInvalidStatus        = "유효하지 않은 상태 값입니다."
	MsgInquiryNotFound      = "해당 문의를 찾을 수 없습니다."
)

var exportHeader = []string{"회사명", "이메일", "문의유형", "내용", "상태", "수신일시"}

// InquiryService coordinates intake, listing and the status workflow.
type InquiryService struct {
	inquiries  repository.InquiryRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// InquiryDependencies bundles collaborators for the inquiry service.
type InquiryDependencies struct {
	InquiryRepo repository.InquiryRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Now         func() time.Time
}

// CreateInquiryInput describes a public contact form submission.
type CreateInquiryInput struct {
	Company string
	Email   string
	Type    string
	Message string
}

// ListInquiriesInput carries raw list parameters. Status accepts any known
// vocabulary, StatusAll or empty.
type ListInquiriesInput struct {
	Page    int
	Limit   int
	Status  string
	Keyword string
}

// InquiryPage is one page of a filtered listing.
type InquiryPage struct {
	Items      []domain.Inquiry
	Total      int
	TotalPages int
	Page       int
	Limit      int
}

// ExportFilter narrows a CSV export.
type ExportFilter struct {
	Status string
	Query  string
}

// NewInquiryService constructs the service.
func NewInquiryService(deps InquiryDependencies) *InquiryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &InquiryService{
		inquiries:  deps.InquiryRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
	}
}

// Create persists a new inquiry with status NEW and triggers the fan-out.
// Fan-out failures never fail the call.
func (s *InquiryService) Create(ctx context.Context, input CreateInquiryInput) (*domain.Inquiry, error) {
	inquiry := &domain.Inquiry{
		ID:        uuid.NewString(),
		Company:   strings.TrimSpace(input.Company),
		Email:     strings.TrimSpace(input.Email),
		Type:      strings.TrimSpace(input.Type),
		Message:   strings.TrimSpace(input.Message),
		Status:    domain.InquiryStatusNew,
		CreatedAt: s.now(),
	}

	var missing []string
	if inquiry.Company == "" {
		missing = append(missing, "company")
	}
	if inquiry.Email == "" {
		missing = append(missing, "email")
	}
	if inquiry.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingField(MsgInquiryMissingFields, missing...)
	}
	if inquiry.Type == "" {
		inquiry.Type = domain.DefaultInquiryType
	}

	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, apperrors.NewDependencyError("database", err)
	}
	s.metrics.RecordInquiryCreated()
	s.logger.Info("inquiry created", zap.String("inquiry_id", inquiry.ID))

	s.publish(ctx, events.Event{
		Type:      events.EventInquiryCreated,
		InquiryID: inquiry.ID,
		Source:    events.SourceIntake,
		Payload:   events.InquiryCreatedPayload{Inquiry: *inquiry},
	})
	return inquiry, nil
}

// List returns one page of inquiries, newest first.
func (s *InquiryService) List(ctx context.Context, input ListInquiriesInput) (*InquiryPage, error) {
	page := input.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// Keeps the offset from overflowing; pages this far out are empty anyway.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	status, err := parseStatusFilter(input.Status)
	if err != nil {
		return nil, err
	}

	items, total, err := s.inquiries.List(ctx, repository.InquiryFilter{
		Status:  status,
		Keyword: strings.TrimSpace(input.Keyword),
		Limit:   limit,
		Offset:  (page - 1) * limit,
	})
	if err != nil {
		return nil, apperrors.NewDependencyError("database", err)
	}
	return &InquiryPage{
		Items:      items,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Page:       page,
		Limit:      limit,
	}, nil
}

// ListAll returns every inquiry, newest first.
func (s *InquiryService) ListAll(ctx context.Context) ([]domain.Inquiry, error) {
	items, _, err := s.inquiries.List(ctx, repository.InquiryFilter{})
	if err != nil {
		return nil, apperrors.NewDependencyError("database", err)
	}
	return items, nil
}

// UpdateStatus moves an inquiry to the status named by rawStatus. Input is
// validated before anything is written.
func (s *InquiryService) UpdateStatus(ctx context.Context, id, rawStatus string, source events.Source) (*domain.Inquiry, error) {
	id = strings.TrimSpace(id)
	rawStatus = strings.TrimSpace(rawStatus)

	var missing []string
	if id == "" {
		missing = append(missing, "id")
	}
	if rawStatus == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingField(MsgStatusMissingFields, missing...)
	}

	status, ok := domain.ParseInquiryStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewInvalidStatus(MsgInvalidStatus, rawStatus)
	}

	updated, err := s.inquiries.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(MsgInquiryNotFound, map[string]any{"id": id})
		}
		return nil, apperrors.NewDependencyError("database", err)
	}

	s.metrics.RecordStatusChange(string(source), string(status))
	s.logger.Info("inquiry status changed",
		zap.String("inquiry_id", id),
		zap.String("status", string(status)),
		zap.String("source", string(source)))

	s.publish(ctx, events.Event{
		Type:      events.EventInquiryStatusChanged,
		InquiryID: id,
		Source:    source,
		Payload: events.InquiryStatusChangedPayload{
			Status:    status,
			CRMPageID: updated.CRMPageID,
		},
	})
	return updated, nil
}

// StatusChangedMessage is the dashboard confirmation text.
func StatusChangedMessage(status domain.InquiryStatus) string {
	return fmt.Sprintf("문의 상태가 '%s'로 변경되었습니다.", status.Label())
}

// ChatStatusMessage is the reply posted back to the chat user.
func ChatStatusMessage(status domain.InquiryStatus) string {
	return fmt.Sprintf("✅ 문의 상태가 *%s* 로 변경되었습니다.", status.ChatLabel())
}

// Export writes the filtered inquiries as a spreadsheet-friendly CSV.
func (s *InquiryService) Export(ctx context.Context, filter ExportFilter, w io.Writer) error {
	status, err := parseStatusFilter(filter.Status)
	if err != nil {
		return err
	}
	items, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	// Excel needs the BOM to detect UTF-8.
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, inquiry := range items {
		if status != nil && inquiry.Status != *status {
			continue
		}
		if query != "" && !matchesQuery(query, inquiry) {
			continue
		}
		record := []string{
			inquiry.Company,
			inquiry.Email,
			inquiry.Type,
			foldNewlines(inquiry.Message),
			inquiry.Status.Label(),
			domain.FormatKorean(inquiry.CreatedAt),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names the download after the current Seoul date.
func (s *InquiryService) ExportFilename() string {
	return fmt.Sprintf("SFINPAY_문의목록_%s.csv", s.now().In(domain.Seoul).Format("2006-01-02"))
}

func (s *InquiryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}

func parseStatusFilter(raw string) (*domain.InquiryStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == StatusAll {
		return nil, nil
	}
	status, ok := domain.ParseInquiryStatus(raw)
	if !ok {
		return nil, apperrors.NewInvalidStatus(MsgInvalidStatus, raw)
	}
	return &status, nil
}

func matchesQuery(lowerQuery string, inquiry domain.Inquiry) bool {
	for _, field := range []string{inquiry.Company, inquiry.Email, inquiry.Message} {
		if strings.Contains(strings.ToLower(field), lowerQuery) {
			return true
		}
	}
	return false
}

var newlineFolder = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func foldNewlines(value string) string {
	return newlineFolder.Replace(value)
}
