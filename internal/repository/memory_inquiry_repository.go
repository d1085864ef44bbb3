package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sfinpay/backoffice/internal/domain"
)

// MemoryInquiryRepository keeps inquiries in process memory. It backs local
// runs without POSTGRES_DSN and the service tests.
type MemoryInquiryRepository struct {
	mu        sync.RWMutex
	inquiries map[string]domain.Inquiry
	now       func() time.Time
}

// NewMemoryInquiryRepository constructs an empty store.
func NewMemoryInquiryRepository() *MemoryInquiryRepository {
	return &MemoryInquiryRepository{inquiries: make(map[string]domain.Inquiry), now: time.Now}
}

func (r *MemoryInquiryRepository) Create(_ context.Context, inquiry *domain.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = now
	}
	inquiry.UpdatedAt = now
	r.inquiries[inquiry.ID] = *inquiry
	return nil
}

func (r *MemoryInquiryRepository) GetByID(_ context.Context, id string) (*domain.Inquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inquiry, ok := r.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &inquiry, nil
}

func (r *MemoryInquiryRepository) UpdateStatus(_ context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inquiry, ok := r.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	inquiry.Status = status
	inquiry.UpdatedAt = r.now()
	r.inquiries[id] = inquiry
	return &inquiry, nil
}

func (r *MemoryInquiryRepository) SetCRMPageID(_ context.Context, id, pageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inquiry, ok := r.inquiries[id]
	if !ok {
		return pgx.ErrNoRows
	}
	inquiry.CRMPageID = &pageID
	r.inquiries[id] = inquiry
	return nil
}

func (r *MemoryInquiryRepository) List(_ context.Context, filter InquiryFilter) ([]domain.Inquiry, int, error) {
	r.mu.RLock()
	matches := make([]domain.Inquiry, 0, len(r.inquiries))
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	for _, inquiry := range r.inquiries {
		if filter.Status != nil && inquiry.Status != *filter.Status {
			continue
		}
		if keyword != "" && !containsFold(keyword, inquiry.Company, inquiry.Email, inquiry.Message) {
			continue
		}
		matches = append(matches, inquiry)
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	if filter.Limit <= 0 {
		return matches, total, nil
	}
	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

func containsFold(lowerNeedle string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), lowerNeedle) {
			return true
		}
	}
	return false
}
