package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sfinpay/backoffice/internal/domain"
)

// InquiryFilter captures list parameters. A zero Limit returns every match.
type InquiryFilter struct {
	Status  *domain.InquiryStatus
	Keyword string
	Limit   int
	Offset  int
}

// InquiryRepository encapsulates inquiry persistence.
// Lookups of unknown ids return pgx.ErrNoRows.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	List(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, int, error)
	UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error)
	SetCRMPageID(ctx context.Context, id, pageID string) error
}

type inquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository instantiates repository.
func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

const inquiryColumns = `id, company, email, type, message, status, crm_page_id, created_at, updated_at`

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        INSERT INTO inquiries (id, company, email, type, message, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		inquiry.ID,
		inquiry.Company,
		inquiry.Email,
		inquiry.Type,
		inquiry.Message,
		inquiry.Status,
	).Scan(&inquiry.CreatedAt, &inquiry.UpdatedAt)
}

func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pgx.ErrNoRows
	}
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id=$1`
	return scanInquiry(r.pool.QueryRow(ctx, query, id))
}

func (r *inquiryRepository) UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pgx.ErrNoRows
	}
	query := `UPDATE inquiries SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + inquiryColumns
	return scanInquiry(r.pool.QueryRow(ctx, query, status, id))
}

func (r *inquiryRepository) SetCRMPageID(ctx context.Context, id, pageID string) error {
	const query = `UPDATE inquiries SET crm_page_id=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, pageID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inquiryRepository) List(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		args = append(args, "%"+escapeLike(keyword)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(company ILIKE %s OR email ILIKE %s OR message ILIKE %s)",
			placeholder, placeholder, placeholder))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE %s ORDER BY created_at DESC`, inquiryColumns, where)
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Inquiry
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *inquiry)
	}
	return result, total, rows.Err()
}

func scanInquiry(row pgx.Row) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	if err := row.Scan(
		&inquiry.ID,
		&inquiry.Company,
		&inquiry.Email,
		&inquiry.Type,
		&inquiry.Message,
		&inquiry.Status,
		&inquiry.CRMPageID,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
