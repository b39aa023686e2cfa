package repositories

import (
	"context"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type ReceiptRepository interface {
	// Upsert inserts the receipt or, if the invoice already has one,
	// replaces its number and file path.
	Upsert(ctx context.Context, receipt *models.Receipt) error
	GetByInvoice(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Receipt, error)
	// CountByPrefix counts a society's receipts whose number starts with
	// prefix; used to derive the next sequential number for a year.
	CountByPrefix(ctx context.Context, societyID uuid.UUID, prefix string) (int, error)
}

type receiptRepo struct {
	db Database
}

func NewReceiptRepo(db Database) ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Upsert(ctx context.Context, receipt *models.Receipt) error {
	query := `
		INSERT INTO receipts (id, society_id, invoice_id, receipt_no, file_path, issued_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (invoice_id) DO UPDATE
		SET receipt_no = EXCLUDED.receipt_no, file_path = EXCLUDED.file_path, issued_at = EXCLUDED.issued_at
	`
	_, err := r.db.Exec(ctx, query, receipt.ID, receipt.SocietyID, receipt.InvoiceID,
		receipt.ReceiptNo, receipt.FilePath, receipt.IssuedAt)
	return err
}

func (r *receiptRepo) GetByInvoice(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	query := `
		SELECT id, society_id, invoice_id, receipt_no, file_path, issued_at, created_at
		FROM receipts
		WHERE society_id = $1 AND invoice_id = $2
	`
	err := r.db.QueryRow(ctx, query, societyID, invoiceID).Scan(&receipt.ID, &receipt.SocietyID,
		&receipt.InvoiceID, &receipt.ReceiptNo, &receipt.FilePath, &receipt.IssuedAt, &receipt.CreatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (r *receiptRepo) CountByPrefix(ctx context.Context, societyID uuid.UUID, prefix string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM receipts WHERE society_id = $1 AND receipt_no LIKE $2`,
		societyID, prefix+"%",
	).Scan(&count)
	return count, err
}
