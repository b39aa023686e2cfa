package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// ArchiveService stores society publications and documents for later
// lookup by category, issue number or tag.
type ArchiveService interface {
	Create(ctx context.Context, societyID uuid.UUID, req *ArchiveRequest) (*models.Archive, error)
	List(ctx context.Context, societyID uuid.UUID, filters *models.ArchiveFilters) ([]*models.Archive, error)
}

type archiveService struct {
	archiveRepo repositories.ArchiveRepository
	access      AccessService
	audit       AuditService
}

func NewArchiveService(archiveRepo repositories.ArchiveRepository, access AccessService, audit AuditService) ArchiveService {
	return &archiveService{archiveRepo: archiveRepo, access: access, audit: audit}
}

type ArchiveRequest struct {
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	IssueNo     *string  `json:"issue_no"`
	PublishedAt *string  `json:"published_at"` // YYYY-MM-DD
	FileURL     string   `json:"file_url"`
	Tags        []string `json:"tags"`
	Note        *string  `json:"note"`
}

func (s *archiveService) Create(ctx context.Context, societyID uuid.UUID, req *ArchiveRequest) (*models.Archive, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	switch req.Category {
	case models.ArchiveCategoryJournal, models.ArchiveCategoryNotice, models.ArchiveCategoryOther:
	default:
		return nil, common.Validationf("unknown archive category %q", req.Category)
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.FileURL, "file_url"); err != nil {
		return nil, err
	}

	archive := &models.Archive{
		ID:        uuid.New(),
		SocietyID: societyID,
		Category:  req.Category,
		Title:     req.Title,
		IssueNo:   req.IssueNo,
		FileURL:   req.FileURL,
		Tags:      req.Tags,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}
	if req.PublishedAt != nil && *req.PublishedAt != "" {
		publishedAt, err := common.ValidateDate(*req.PublishedAt, "published_at")
		if err != nil {
			return nil, err
		}
		archive.PublishedAt = &publishedAt
	}

	if err := s.archiveRepo.Create(ctx, archive); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceArchive,
		ResourceID:   archive.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"category": archive.Category, "title": archive.Title},
	})
	return archive, nil
}

func (s *archiveService) List(ctx context.Context, societyID uuid.UUID, filters *models.ArchiveFilters) ([]*models.Archive, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.archiveRepo.List(ctx, societyID, filters)
}
