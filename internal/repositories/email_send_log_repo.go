package repositories

import (
	"context"
	"time"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type EmailSendLogRepository interface {
	// CreateIfAbsent inserts the recipient row unless one already exists
	// for its (approval, invoice) pair, making enqueue idempotent.
	CreateIfAbsent(ctx context.Context, log *models.EmailSendLog) (bool, error)
	ListByApproval(ctx context.Context, societyID, approvalID uuid.UUID) ([]*models.EmailSendLog, error)
	MarkSent(ctx context.Context, id uuid.UUID, providerMessageID *string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}

type emailSendLogRepo struct {
	db Database
}

func NewEmailSendLogRepo(db Database) EmailSendLogRepository {
	return &emailSendLogRepo{db: db}
}

func (r *emailSendLogRepo) CreateIfAbsent(ctx context.Context, log *models.EmailSendLog) (bool, error) {
	query := `
		INSERT INTO email_send_logs (id, society_id, email_approval_id, template_key, to_address, subject, body, status, member_id, invoice_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (email_approval_id, invoice_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, log.ID, log.SocietyID, log.EmailApprovalID, log.TemplateKey,
		log.To, log.Subject, log.Body, log.Status, log.MemberID, log.InvoiceID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *emailSendLogRepo) ListByApproval(ctx context.Context, societyID, approvalID uuid.UUID) ([]*models.EmailSendLog, error) {
	query := `
		SELECT id, society_id, email_approval_id, template_key, to_address, subject, body, status,
			member_id, invoice_id, provider_message_id, error_message, sent_at, created_at
		FROM email_send_logs
		WHERE society_id = $1 AND email_approval_id = $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, societyID, approvalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.EmailSendLog
	for rows.Next() {
		l := &models.EmailSendLog{}
		if err := rows.Scan(&l.ID, &l.SocietyID, &l.EmailApprovalID, &l.TemplateKey, &l.To,
			&l.Subject, &l.Body, &l.Status, &l.MemberID, &l.InvoiceID, &l.ProviderMessageID,
			&l.ErrorMessage, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *emailSendLogRepo) MarkSent(ctx context.Context, id uuid.UUID, providerMessageID *string, sentAt time.Time) error {
	query := `
		UPDATE email_send_logs
		SET status = $1, provider_message_id = $2, sent_at = $3, error_message = NULL
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, models.EmailSendStatusSent, providerMessageID, sentAt, id)
	return err
}

func (r *emailSendLogRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE email_send_logs
		SET status = $1, error_message = $2
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, models.EmailSendStatusFailed, errorMessage, id)
	return err
}
