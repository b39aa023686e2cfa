package repositories

import (
	"context"
	"fmt"
	"time"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	// CreateIfAbsent inserts the invoice unless one already exists for its
	// (society, member, fiscal year) tuple. The unique constraint closes
	// the check-then-create race; a conflict reports created=false.
	CreateIfAbsent(ctx context.Context, invoice *models.Invoice) (bool, error)
	GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	List(ctx context.Context, societyID uuid.UUID, filters *models.InvoiceFilters) ([]*models.Invoice, error)
	// ListDueBefore returns invoices past due in one of the given statuses.
	ListDueBefore(ctx context.Context, societyID uuid.UUID, cutoff time.Time, statuses []string) ([]*models.Invoice, error)
	// ListEmailTargets resolves the invoices an email filter addresses,
	// joined to their members. Members without an email are excluded.
	ListEmailTargets(ctx context.Context, societyID uuid.UUID, filter models.EmailTargetFilter, now time.Time) ([]*models.Invoice, error)
	CountUnpaid(ctx context.Context, societyID uuid.UUID) (int, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, society_id, member_id, fiscal_year, amount, due_date, status,
		payment_method, notes, sent_at, paid_at, created_at, updated_at`

func scanInvoice(row interface{ Scan(dest ...any) error }) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(&inv.ID, &inv.SocietyID, &inv.MemberID, &inv.FiscalYear, &inv.Amount,
		&inv.DueDate, &inv.Status, &inv.PaymentMethod, &inv.Notes, &inv.SentAt, &inv.PaidAt,
		&inv.CreatedAt, &inv.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepo) CreateIfAbsent(ctx context.Context, invoice *models.Invoice) (bool, error) {
	query := `
		INSERT INTO invoices (id, society_id, member_id, fiscal_year, amount, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (society_id, member_id, fiscal_year) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, invoice.ID, invoice.SocietyID, invoice.MemberID,
		invoice.FiscalYear, invoice.Amount, invoice.DueDate, invoice.Status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE society_id = $1 AND id = $2`
	return scanInvoice(r.db.QueryRow(ctx, query, societyID, id))
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET amount = $1, due_date = $2, status = $3, payment_method = $4, notes = $5,
			sent_at = $6, paid_at = $7, updated_at = NOW()
		WHERE society_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, invoice.Amount, invoice.DueDate, invoice.Status,
		invoice.PaymentMethod, invoice.Notes, invoice.SentAt, invoice.PaidAt,
		invoice.SocietyID, invoice.ID)
	return err
}

func (r *invoiceRepo) List(ctx context.Context, societyID uuid.UUID, filters *models.InvoiceFilters) ([]*models.Invoice, error) {
	query := `
		SELECT i.id, i.society_id, i.member_id, i.fiscal_year, i.amount, i.due_date, i.status,
			i.payment_method, i.notes, i.sent_at, i.paid_at, i.created_at, i.updated_at,
			m.member_no, m.name, m.email
		FROM invoices i
		JOIN members m ON m.id = i.member_id
		WHERE i.society_id = $1`
	args := []any{societyID}

	if filters != nil && filters.FiscalYear > 0 {
		args = append(args, filters.FiscalYear)
		query += fmt.Sprintf(" AND i.fiscal_year = $%d", len(args))
	}
	if filters != nil && filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	if filters != nil && filters.MemberID != uuid.Nil {
		args = append(args, filters.MemberID)
		query += fmt.Sprintf(" AND i.member_id = $%d", len(args))
	}
	query += " ORDER BY i.fiscal_year DESC, i.due_date ASC, m.member_no ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv := &models.Invoice{Member: &models.Member{}}
		if err := rows.Scan(&inv.ID, &inv.SocietyID, &inv.MemberID, &inv.FiscalYear, &inv.Amount,
			&inv.DueDate, &inv.Status, &inv.PaymentMethod, &inv.Notes, &inv.SentAt, &inv.PaidAt,
			&inv.CreatedAt, &inv.UpdatedAt,
			&inv.Member.MemberNo, &inv.Member.Name, &inv.Member.Email); err != nil {
			return nil, err
		}
		inv.Member.ID = inv.MemberID
		inv.Member.SocietyID = inv.SocietyID
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) ListDueBefore(ctx context.Context, societyID uuid.UUID, cutoff time.Time, statuses []string) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE society_id = $1 AND due_date < $2 AND status = ANY($3)
		ORDER BY due_date ASC`
	rows, err := r.db.Query(ctx, query, societyID, cutoff, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) ListEmailTargets(ctx context.Context, societyID uuid.UUID, filter models.EmailTargetFilter, now time.Time) ([]*models.Invoice, error) {
	query := `
		SELECT i.id, i.society_id, i.member_id, i.fiscal_year, i.amount, i.due_date, i.status,
			i.payment_method, i.notes, i.sent_at, i.paid_at, i.created_at, i.updated_at,
			m.member_no, m.name, m.email
		FROM invoices i
		JOIN members m ON m.id = i.member_id
		WHERE i.society_id = $1 AND m.email <> ''`
	args := []any{societyID}

	if filter.FiscalYear > 0 {
		args = append(args, filter.FiscalYear)
		query += fmt.Sprintf(" AND i.fiscal_year = $%d", len(args))
	}
	if filter.OverdueOnly {
		args = append(args, models.InvoiceStatusOverdue, now)
		query += fmt.Sprintf(" AND (i.status = $%d OR i.due_date < $%d)", len(args)-1, len(args))
	}
	if filter.InvoiceStatus != "" {
		args = append(args, filter.InvoiceStatus)
		query += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	query += " ORDER BY m.member_no ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv := &models.Invoice{Member: &models.Member{}}
		if err := rows.Scan(&inv.ID, &inv.SocietyID, &inv.MemberID, &inv.FiscalYear, &inv.Amount,
			&inv.DueDate, &inv.Status, &inv.PaymentMethod, &inv.Notes, &inv.SentAt, &inv.PaidAt,
			&inv.CreatedAt, &inv.UpdatedAt,
			&inv.Member.MemberNo, &inv.Member.Name, &inv.Member.Email); err != nil {
			return nil, err
		}
		inv.Member.ID = inv.MemberID
		inv.Member.SocietyID = inv.SocietyID
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) CountUnpaid(ctx context.Context, societyID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE society_id = $1 AND status = ANY($2)`,
		societyID, []string{models.InvoiceStatusApproved, models.InvoiceStatusSent, models.InvoiceStatusOverdue},
	).Scan(&count)
	return count, err
}
