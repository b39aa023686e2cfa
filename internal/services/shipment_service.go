package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// ShipmentService builds journal and notice shipment batches from the
// ACTIVE roster and tracks the per-recipient delivery status.
type ShipmentService interface {
	CreateBatch(ctx context.Context, societyID uuid.UUID, req *CreateBatchRequest) (*models.ShipmentBatch, error)
	GetBatch(ctx context.Context, societyID, batchID uuid.UUID) (*models.ShipmentBatch, error)
	ListBatches(ctx context.Context, societyID uuid.UUID) ([]*models.ShipmentBatch, error)
	ListRecipients(ctx context.Context, societyID, batchID uuid.UUID) ([]*models.ShipmentRecipient, error)
	UpdateRecipientStatus(ctx context.Context, societyID, batchID, recipientID uuid.UUID, status string) (*models.ShipmentRecipient, error)
}

type shipmentService struct {
	shipmentRepo repositories.ShipmentRepository
	memberRepo   repositories.MemberRepository
	access       AccessService
	audit        AuditService
}

func NewShipmentService(shipmentRepo repositories.ShipmentRepository, memberRepo repositories.MemberRepository, access AccessService, audit AuditService) ShipmentService {
	return &shipmentService{shipmentRepo: shipmentRepo, memberRepo: memberRepo, access: access, audit: audit}
}

type CreateBatchRequest struct {
	Type  string  `json:"type"`
	Title *string `json:"title"`
}

// CreateBatch snapshots every ACTIVE member's address into a QUEUED
// recipient row. Later roster edits never rewrite an existing batch.
func (s *shipmentService) CreateBatch(ctx context.Context, societyID uuid.UUID, req *CreateBatchRequest) (*models.ShipmentBatch, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	switch req.Type {
	case models.ShipmentTypeJournal, models.ShipmentTypeNotice, models.ShipmentTypeOther:
	default:
		return nil, common.Validationf("unknown shipment type %q", req.Type)
	}

	members, err := s.memberRepo.ListActive(ctx, societyID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	batch := &models.ShipmentBatch{
		ID:          uuid.New(),
		SocietyID:   societyID,
		Type:        req.Type,
		Title:       req.Title,
		CreatedByID: membership.UserID,
		CreatedAt:   now,
	}
	if err := s.shipmentRepo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	recipients := make([]*models.ShipmentRecipient, 0, len(members))
	for _, member := range members {
		recipients = append(recipients, &models.ShipmentRecipient{
			ID:              uuid.New(),
			BatchID:         batch.ID,
			MemberID:        member.ID,
			AddressSnapshot: member.Address,
			Status:          models.ShipmentStatusQueued,
			CreatedAt:       now,
		})
	}
	if err := s.shipmentRepo.CreateRecipients(ctx, recipients); err != nil {
		return nil, err
	}
	batch.RecipientCount = len(recipients)

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceShipmentBatch,
		ResourceID:   batch.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"type": batch.Type, "recipients": len(recipients)},
	})
	return batch, nil
}

func (s *shipmentService) GetBatch(ctx context.Context, societyID, batchID uuid.UUID) (*models.ShipmentBatch, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	batch, err := s.shipmentRepo.GetBatch(ctx, societyID, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, common.NotFound("shipment batch")
	}
	return batch, nil
}

func (s *shipmentService) ListBatches(ctx context.Context, societyID uuid.UUID) ([]*models.ShipmentBatch, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.shipmentRepo.ListBatches(ctx, societyID)
}

func (s *shipmentService) ListRecipients(ctx context.Context, societyID, batchID uuid.UUID) ([]*models.ShipmentRecipient, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	batch, err := s.shipmentRepo.GetBatch(ctx, societyID, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, common.NotFound("shipment batch")
	}
	return s.shipmentRepo.ListRecipients(ctx, batchID)
}

func (s *shipmentService) UpdateRecipientStatus(ctx context.Context, societyID, batchID, recipientID uuid.UUID, status string) (*models.ShipmentRecipient, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	switch status {
	case models.ShipmentStatusQueued, models.ShipmentStatusShipped, models.ShipmentStatusReturned:
	default:
		return nil, common.Validationf("unknown shipment status %q", status)
	}

	recipient, err := s.shipmentRepo.GetRecipient(ctx, societyID, batchID, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, common.NotFound("shipment recipient")
	}

	before := recipient.Status
	if err := s.shipmentRepo.UpdateRecipientStatus(ctx, recipientID, status); err != nil {
		return nil, err
	}
	recipient.Status = status

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceShipmentRecipient,
		ResourceID:   recipientID.String(),
		Action:       "UPDATE_STATUS",
		Before:       models.JSONB{"status": before},
		After:        models.JSONB{"status": status},
	})
	return recipient, nil
}
