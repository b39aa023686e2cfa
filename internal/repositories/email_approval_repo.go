package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type EmailApprovalRepository interface {
	Create(ctx context.Context, approval *models.EmailApproval) error
	GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.EmailApproval, error)
	List(ctx context.Context, societyID uuid.UUID) ([]*models.EmailApproval, error)
	MarkApproved(ctx context.Context, societyID, id, approvedBy uuid.UUID, approvedAt time.Time) error
	MarkSent(ctx context.Context, societyID, id uuid.UUID, sentAt time.Time) error
}

type emailApprovalRepo struct {
	db Database
}

func NewEmailApprovalRepo(db Database) EmailApprovalRepository {
	return &emailApprovalRepo{db: db}
}

func (r *emailApprovalRepo) Create(ctx context.Context, approval *models.EmailApproval) error {
	filterBytes, err := json.Marshal(approval.Filter)
	if err != nil {
		return fmt.Errorf("failed to marshal filter: %w", err)
	}
	query := `
		INSERT INTO email_approvals (id, society_id, title, template_key, filter_json, status, created_by_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, approval.ID, approval.SocietyID, approval.Title,
		approval.TemplateKey, filterBytes, approval.Status, approval.CreatedByUserID)
	return err
}

func (r *emailApprovalRepo) GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.EmailApproval, error) {
	a := &models.EmailApproval{}
	var filterBytes []byte
	query := `
		SELECT id, society_id, title, template_key, filter_json, status, created_by_user_id,
			approved_by_user_id, approved_at, sent_at, created_at, updated_at
		FROM email_approvals
		WHERE society_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, societyID, id).Scan(&a.ID, &a.SocietyID, &a.Title,
		&a.TemplateKey, &filterBytes, &a.Status, &a.CreatedByUserID,
		&a.ApprovedByUserID, &a.ApprovedAt, &a.SentAt, &a.CreatedAt, &a.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(filterBytes) > 0 {
		if err := json.Unmarshal(filterBytes, &a.Filter); err != nil {
			return nil, fmt.Errorf("failed to unmarshal filter: %w", err)
		}
	}
	return a, nil
}

func (r *emailApprovalRepo) List(ctx context.Context, societyID uuid.UUID) ([]*models.EmailApproval, error) {
	query := `
		SELECT a.id, a.society_id, a.title, a.template_key, a.filter_json, a.status, a.created_by_user_id,
			a.approved_by_user_id, a.approved_at, a.sent_at, a.created_at, a.updated_at,
			COUNT(l.id) AS recipient_count
		FROM email_approvals a
		LEFT JOIN email_send_logs l ON l.email_approval_id = a.id
		WHERE a.society_id = $1
		GROUP BY a.id
		ORDER BY a.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, societyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []*models.EmailApproval
	for rows.Next() {
		a := &models.EmailApproval{}
		var filterBytes []byte
		if err := rows.Scan(&a.ID, &a.SocietyID, &a.Title, &a.TemplateKey, &filterBytes,
			&a.Status, &a.CreatedByUserID, &a.ApprovedByUserID, &a.ApprovedAt, &a.SentAt,
			&a.CreatedAt, &a.UpdatedAt, &a.RecipientCount); err != nil {
			return nil, err
		}
		if len(filterBytes) > 0 {
			if err := json.Unmarshal(filterBytes, &a.Filter); err != nil {
				return nil, fmt.Errorf("failed to unmarshal filter: %w", err)
			}
		}
		approvals = append(approvals, a)
	}
	return approvals, rows.Err()
}

func (r *emailApprovalRepo) MarkApproved(ctx context.Context, societyID, id, approvedBy uuid.UUID, approvedAt time.Time) error {
	query := `
		UPDATE email_approvals
		SET status = $1, approved_by_user_id = $2, approved_at = $3, updated_at = NOW()
		WHERE society_id = $4 AND id = $5
	`
	_, err := r.db.Exec(ctx, query, models.EmailApprovalStatusApproved, approvedBy, approvedAt, societyID, id)
	return err
}

func (r *emailApprovalRepo) MarkSent(ctx context.Context, societyID, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE email_approvals
		SET status = $1, sent_at = $2, updated_at = NOW()
		WHERE society_id = $3 AND id = $4
	`
	_, err := r.db.Exec(ctx, query, models.EmailApprovalStatusSent, sentAt, societyID, id)
	return err
}
