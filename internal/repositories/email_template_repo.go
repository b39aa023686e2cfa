package repositories

import (
	"context"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type EmailTemplateRepository interface {
	// Upsert inserts the template or replaces the mutable fields of the
	// existing (society, key) row.
	Upsert(ctx context.Context, template *models.EmailTemplate) error
	GetByKey(ctx context.Context, societyID uuid.UUID, key string) (*models.EmailTemplate, error)
	List(ctx context.Context, societyID uuid.UUID) ([]*models.EmailTemplate, error)
}

type emailTemplateRepo struct {
	db Database
}

func NewEmailTemplateRepo(db Database) EmailTemplateRepository {
	return &emailTemplateRepo{db: db}
}

func (r *emailTemplateRepo) Upsert(ctx context.Context, template *models.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (id, society_id, key, name, subject, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (society_id, key) DO UPDATE
		SET name = EXCLUDED.name, subject = EXCLUDED.subject, body = EXCLUDED.body, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, template.ID, template.SocietyID, template.Key,
		template.Name, template.Subject, template.Body)
	return err
}

func (r *emailTemplateRepo) GetByKey(ctx context.Context, societyID uuid.UUID, key string) (*models.EmailTemplate, error) {
	t := &models.EmailTemplate{}
	query := `
		SELECT id, society_id, key, name, subject, body, created_at, updated_at
		FROM email_templates
		WHERE society_id = $1 AND key = $2
	`
	err := r.db.QueryRow(ctx, query, societyID, key).Scan(&t.ID, &t.SocietyID, &t.Key,
		&t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *emailTemplateRepo) List(ctx context.Context, societyID uuid.UUID) ([]*models.EmailTemplate, error) {
	query := `
		SELECT id, society_id, key, name, subject, body, created_at, updated_at
		FROM email_templates
		WHERE society_id = $1
		ORDER BY key ASC
	`
	rows, err := r.db.Query(ctx, query, societyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*models.EmailTemplate
	for rows.Next() {
		t := &models.EmailTemplate{}
		if err := rows.Scan(&t.ID, &t.SocietyID, &t.Key, &t.Name, &t.Subject, &t.Body,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
