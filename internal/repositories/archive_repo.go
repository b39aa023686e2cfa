package repositories

import (
	"context"
	"fmt"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type ArchiveRepository interface {
	Create(ctx context.Context, archive *models.Archive) error
	List(ctx context.Context, societyID uuid.UUID, filters *models.ArchiveFilters) ([]*models.Archive, error)
}

type archiveRepo struct {
	db Database
}

func NewArchiveRepo(db Database) ArchiveRepository {
	return &archiveRepo{db: db}
}

func (r *archiveRepo) Create(ctx context.Context, archive *models.Archive) error {
	query := `
		INSERT INTO archives (id, society_id, category, title, issue_no, published_at, file_url, tags, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, archive.ID, archive.SocietyID, archive.Category, archive.Title,
		archive.IssueNo, archive.PublishedAt, archive.FileURL, archive.Tags, archive.Note)
	return err
}

func (r *archiveRepo) List(ctx context.Context, societyID uuid.UUID, filters *models.ArchiveFilters) ([]*models.Archive, error) {
	query := `
		SELECT id, society_id, category, title, issue_no, published_at, file_url, tags, note, created_at
		FROM archives
		WHERE society_id = $1`
	args := []any{societyID}

	if filters != nil && filters.Category != "" {
		args = append(args, filters.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filters != nil && filters.IssueNo != "" {
		args = append(args, "%"+filters.IssueNo+"%")
		query += fmt.Sprintf(" AND issue_no ILIKE $%d", len(args))
	}
	if filters != nil && filters.Query != "" {
		args = append(args, "%"+filters.Query+"%", filters.Query)
		query += fmt.Sprintf(" AND (title ILIKE $%d OR $%d = ANY(tags))", len(args)-1, len(args))
	}
	query += " ORDER BY published_at DESC NULLS LAST, created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var archives []*models.Archive
	for rows.Next() {
		a := &models.Archive{}
		if err := rows.Scan(&a.ID, &a.SocietyID, &a.Category, &a.Title, &a.IssueNo, &a.PublishedAt,
			&a.FileURL, &a.Tags, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		archives = append(archives, a)
	}
	return archives, rows.Err()
}
