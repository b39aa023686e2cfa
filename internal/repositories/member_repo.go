package repositories

import (
	"context"
	"fmt"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.Member, error)
	List(ctx context.Context, societyID uuid.UUID, filters *models.MemberFilters) ([]*models.Member, error)
	ListActive(ctx context.Context, societyID uuid.UUID) ([]*models.Member, error)
	CountActive(ctx context.Context, societyID uuid.UUID) (int, error)
}

type memberRepo struct {
	db Database
}

func NewMemberRepo(db Database) MemberRepository {
	return &memberRepo{db: db}
}

const memberColumns = `id, society_id, member_no, name, kana, affiliation, address, email, phone,
		member_type, position, status, joined_at, left_at, created_at, updated_at`

func scanMember(row interface{ Scan(dest ...any) error }) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(&m.ID, &m.SocietyID, &m.MemberNo, &m.Name, &m.Kana, &m.Affiliation,
		&m.Address, &m.Email, &m.Phone, &m.MemberType, &m.Position, &m.Status,
		&m.JoinedAt, &m.LeftAt, &m.CreatedAt, &m.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *memberRepo) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (id, society_id, member_no, name, kana, affiliation, address, email, phone,
			member_type, position, status, joined_at, left_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, member.ID, member.SocietyID, member.MemberNo, member.Name,
		member.Kana, member.Affiliation, member.Address, member.Email, member.Phone,
		member.MemberType, member.Position, member.Status, member.JoinedAt, member.LeftAt)
	return err
}

func (r *memberRepo) Update(ctx context.Context, member *models.Member) error {
	query := `
		UPDATE members
		SET member_no = $1, name = $2, kana = $3, affiliation = $4, address = $5, email = $6,
			phone = $7, member_type = $8, position = $9, status = $10, joined_at = $11, left_at = $12,
			updated_at = NOW()
		WHERE society_id = $13 AND id = $14
	`
	_, err := r.db.Exec(ctx, query, member.MemberNo, member.Name, member.Kana, member.Affiliation,
		member.Address, member.Email, member.Phone, member.MemberType, member.Position,
		member.Status, member.JoinedAt, member.LeftAt, member.SocietyID, member.ID)
	return err
}

func (r *memberRepo) GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE society_id = $1 AND id = $2`
	return scanMember(r.db.QueryRow(ctx, query, societyID, id))
}

func (r *memberRepo) List(ctx context.Context, societyID uuid.UUID, filters *models.MemberFilters) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE society_id = $1`
	args := []any{societyID}

	if filters != nil && filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters != nil && filters.Query != "" {
		args = append(args, "%"+filters.Query+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (member_no ILIKE $%d OR name ILIKE $%d OR affiliation ILIKE $%d OR email ILIKE $%d)", n, n, n, n)
	}
	query += " ORDER BY status ASC, member_no ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *memberRepo) ListActive(ctx context.Context, societyID uuid.UUID) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE society_id = $1 AND status = $2 ORDER BY member_no ASC`
	rows, err := r.db.Query(ctx, query, societyID, models.MemberStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *memberRepo) CountActive(ctx context.Context, societyID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE society_id = $1 AND status = $2`,
		societyID, models.MemberStatusActive).Scan(&count)
	return count, err
}
