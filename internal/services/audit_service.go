package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// AuditService records every mutation as an immutable log row and serves
// the read side. Audit writes are best-effort: a failed write is logged
// and never fails the operation that triggered it.
type AuditService interface {
	Record(ctx context.Context, entry AuditEntry)
	Recent(ctx context.Context, societyID uuid.UUID, limit int) ([]*models.AuditLog, error)
	ForResource(ctx context.Context, societyID uuid.UUID, resourceType, resourceID string, limit int) ([]*models.AuditLog, error)
}

// AuditEntry is one change to record. SocietyID is nil for operator-level
// actions, ActorUserID is nil for system-driven ones.
type AuditEntry struct {
	SocietyID    *uuid.UUID
	ActorUserID  *uuid.UUID
	ResourceType string
	ResourceID   string
	Action       string
	Before       models.JSONB
	After        models.JSONB
	Meta         models.JSONB
}

type auditService struct {
	auditRepo repositories.AuditLogsRepository
	access    AccessService
}

// NewAuditService builds the audit service. access may be nil, in which
// case reads are unguarded; callers wiring HTTP routes should pass one.
func NewAuditService(auditRepo repositories.AuditLogsRepository, access AccessService) AuditService {
	return &auditService{auditRepo: auditRepo, access: access}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	row := &models.AuditLog{
		ID:           uuid.New(),
		SocietyID:    entry.SocietyID,
		ActorUserID:  entry.ActorUserID,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Action:       entry.Action,
		BeforeJSON:   entry.Before,
		AfterJSON:    entry.After,
		MetaJSON:     entry.Meta,
		CreatedAt:    time.Now(),
	}
	if err := s.auditRepo.Create(ctx, row); err != nil {
		log.Printf("WARN: audit write failed for %s %s %s: %v", entry.Action, entry.ResourceType, entry.ResourceID, err)
	}
}

func (s *auditService) Recent(ctx context.Context, societyID uuid.UUID, limit int) ([]*models.AuditLog, error) {
	if s.access != nil {
		if _, err := s.access.RequireAccess(ctx, societyID, models.RoleAdmin); err != nil {
			return nil, err
		}
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.auditRepo.Recent(ctx, societyID, limit)
}

func (s *auditService) ForResource(ctx context.Context, societyID uuid.UUID, resourceType, resourceID string, limit int) ([]*models.AuditLog, error) {
	if s.access != nil {
		if _, err := s.access.RequireAccess(ctx, societyID, models.RoleAdmin); err != nil {
			return nil, err
		}
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.auditRepo.ForResource(ctx, societyID, resourceType, resourceID, limit)
}
