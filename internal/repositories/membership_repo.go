package repositories

import (
	"context"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type MembershipRepository interface {
	// Upsert inserts the membership or, if one already exists for the
	// (user, society) pair, replaces its role.
	Upsert(ctx context.Context, membership *models.SocietyMember) error
	GetByUserAndSociety(ctx context.Context, userID, societyID uuid.UUID) (*models.SocietyMember, error)
	ListBySociety(ctx context.Context, societyID uuid.UUID) ([]*models.SocietyMember, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SocietyMember, error)
	Delete(ctx context.Context, userID, societyID uuid.UUID) error
}

type membershipRepo struct {
	db Database
}

func NewMembershipRepo(db Database) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Upsert(ctx context.Context, membership *models.SocietyMember) error {
	query := `
		INSERT INTO society_members (id, user_id, society_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, society_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, membership.ID, membership.UserID, membership.SocietyID, membership.Role)
	return err
}

func (r *membershipRepo) GetByUserAndSociety(ctx context.Context, userID, societyID uuid.UUID) (*models.SocietyMember, error) {
	m := &models.SocietyMember{}
	query := `
		SELECT id, user_id, society_id, role, created_at, updated_at
		FROM society_members
		WHERE user_id = $1 AND society_id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, societyID).Scan(&m.ID, &m.UserID, &m.SocietyID,
		&m.Role, &m.CreatedAt, &m.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepo) ListBySociety(ctx context.Context, societyID uuid.UUID) ([]*models.SocietyMember, error) {
	query := `
		SELECT sm.id, sm.user_id, sm.society_id, sm.role, sm.created_at, sm.updated_at,
			u.id, u.email, u.name, u.status, u.created_at, u.updated_at
		FROM society_members sm
		JOIN users u ON u.id = sm.user_id
		WHERE sm.society_id = $1
		ORDER BY sm.role DESC, sm.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, societyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*models.SocietyMember
	for rows.Next() {
		m := &models.SocietyMember{User: &models.User{}}
		if err := rows.Scan(&m.ID, &m.UserID, &m.SocietyID, &m.Role, &m.CreatedAt, &m.UpdatedAt,
			&m.User.ID, &m.User.Email, &m.User.Name, &m.User.Status, &m.User.CreatedAt, &m.User.UpdatedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *membershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SocietyMember, error) {
	query := `
		SELECT id, user_id, society_id, role, created_at, updated_at
		FROM society_members
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*models.SocietyMember
	for rows.Next() {
		m := &models.SocietyMember{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.SocietyID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *membershipRepo) Delete(ctx context.Context, userID, societyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM society_members WHERE user_id = $1 AND society_id = $2`, userID, societyID)
	return err
}
