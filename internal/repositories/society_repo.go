package repositories

import (
	"context"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type SocietyRepository interface {
	Create(ctx context.Context, society *models.Society) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Society, error)
	Update(ctx context.Context, society *models.Society) error
	UpdateMailSettings(ctx context.Context, society *models.Society) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Society, error)
	ListActive(ctx context.Context) ([]*models.Society, error)
}

type societyRepo struct {
	db Database
}

func NewSocietyRepo(db Database) SocietyRepository {
	return &societyRepo{db: db}
}

const societyColumns = `id, name, short_name, contact_email, billing_email, status,
		mail_provider, mail_from, smtp_host, smtp_port, smtp_secure, smtp_user, smtp_pass, gmail_sender,
		created_at, updated_at`

func scanSociety(row interface{ Scan(dest ...any) error }) (*models.Society, error) {
	s := &models.Society{}
	err := row.Scan(&s.ID, &s.Name, &s.ShortName, &s.ContactEmail, &s.BillingEmail, &s.Status,
		&s.MailProvider, &s.MailFrom, &s.SMTPHost, &s.SMTPPort, &s.SMTPSecure, &s.SMTPUser, &s.SMTPPass, &s.GmailSender,
		&s.CreatedAt, &s.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *societyRepo) Create(ctx context.Context, society *models.Society) error {
	query := `
		INSERT INTO societies (id, name, short_name, contact_email, billing_email, status, mail_provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, society.ID, society.Name, society.ShortName,
		society.ContactEmail, society.BillingEmail, society.Status, society.MailProvider)
	return err
}

func (r *societyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	query := `SELECT ` + societyColumns + ` FROM societies WHERE id = $1`
	return scanSociety(r.db.QueryRow(ctx, query, id))
}

func (r *societyRepo) Update(ctx context.Context, society *models.Society) error {
	query := `
		UPDATE societies
		SET name = $1, short_name = $2, contact_email = $3, billing_email = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, society.Name, society.ShortName, society.ContactEmail,
		society.BillingEmail, society.Status, society.ID)
	return err
}

func (r *societyRepo) UpdateMailSettings(ctx context.Context, society *models.Society) error {
	query := `
		UPDATE societies
		SET mail_provider = $1, mail_from = $2, smtp_host = $3, smtp_port = $4, smtp_secure = $5,
			smtp_user = $6, smtp_pass = $7, gmail_sender = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query, society.MailProvider, society.MailFrom, society.SMTPHost,
		society.SMTPPort, society.SMTPSecure, society.SMTPUser, society.SMTPPass, society.GmailSender, society.ID)
	return err
}

func (r *societyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM societies WHERE id = $1`, id)
	return err
}

func (r *societyRepo) List(ctx context.Context, limit, offset int) ([]*models.Society, error) {
	query := `SELECT ` + societyColumns + ` FROM societies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var societies []*models.Society
	for rows.Next() {
		s, err := scanSociety(rows)
		if err != nil {
			return nil, err
		}
		societies = append(societies, s)
	}
	return societies, rows.Err()
}

func (r *societyRepo) ListActive(ctx context.Context) ([]*models.Society, error) {
	query := `SELECT ` + societyColumns + ` FROM societies WHERE status = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, models.SocietyStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var societies []*models.Society
	for rows.Next() {
		s, err := scanSociety(rows)
		if err != nil {
			return nil, err
		}
		societies = append(societies, s)
	}
	return societies, rows.Err()
}
