package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
	"gakkaihub/internal/storage"
)

// InvoiceService runs the dues lifecycle: annual bulk generation, manual
// status edits with timestamp derivation, the overdue sweep and receipt
// issuance for paid invoices.
type InvoiceService interface {
	GenerateAnnual(ctx context.Context, societyID uuid.UUID, req *GenerateInvoicesRequest) (*models.GenerateResult, error)
	Update(ctx context.Context, societyID, invoiceID uuid.UUID, req *UpdateInvoiceRequest) (*models.Invoice, error)
	Get(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, societyID uuid.UUID, filters *models.InvoiceFilters) ([]*models.Invoice, error)

	// MarkOverdue is the actor-triggered sweep for one society.
	MarkOverdue(ctx context.Context, societyID uuid.UUID) (int, error)
	// SweepOverdue is the unguarded system sweep used by the scheduler.
	SweepOverdue(ctx context.Context, societyID uuid.UUID, now time.Time) (int, error)

	IssueReceipt(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Receipt, error)
	GetReceipt(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Receipt, error)
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	receiptRepo repositories.ReceiptRepository
	memberRepo  repositories.MemberRepository
	societyRepo repositories.SocietyRepository
	fileStore   storage.FileStore
	bucket      string
	access      AccessService
	audit       AuditService
}

func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	receiptRepo repositories.ReceiptRepository,
	memberRepo repositories.MemberRepository,
	societyRepo repositories.SocietyRepository,
	fileStore storage.FileStore,
	bucket string,
	access AccessService,
	audit AuditService,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		memberRepo:  memberRepo,
		societyRepo: societyRepo,
		fileStore:   fileStore,
		bucket:      bucket,
		access:      access,
		audit:       audit,
	}
}

type GenerateInvoicesRequest struct {
	FiscalYear int    `json:"fiscal_year"`
	Amount     int64  `json:"amount"`
	DueDate    string `json:"due_date"` // YYYY-MM-DD
}

type UpdateInvoiceRequest struct {
	Status        *string `json:"status"`
	Amount        *int64  `json:"amount"`
	DueDate       *string `json:"due_date"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

// GenerateAnnual creates one DRAFT invoice per ACTIVE member for the given
// fiscal year. Members already holding an invoice for that year are counted
// as skipped, so rerunning is harmless.
func (s *invoiceService) GenerateAnnual(ctx context.Context, societyID uuid.UUID, req *GenerateInvoicesRequest) (*models.GenerateResult, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateFiscalYear(req.FiscalYear); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, common.Validation("amount must be positive")
	}
	dueDate, err := common.ValidateDate(req.DueDate, "due_date")
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListActive(ctx, societyID)
	if err != nil {
		return nil, err
	}

	result := &models.GenerateResult{}
	now := time.Now()
	for _, member := range members {
		invoice := &models.Invoice{
			ID:         uuid.New(),
			SocietyID:  societyID,
			MemberID:   member.ID,
			FiscalYear: req.FiscalYear,
			Amount:     req.Amount,
			DueDate:    dueDate,
			Status:     models.InvoiceStatusDraft,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		created, err := s.invoiceRepo.CreateIfAbsent(ctx, invoice)
		if err != nil {
			return nil, err
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created++
		s.audit.Record(ctx, AuditEntry{
			SocietyID:    &societyID,
			ActorUserID:  &membership.UserID,
			ResourceType: models.ResourceInvoice,
			ResourceID:   invoice.ID.String(),
			Action:       "CREATE",
			After: models.JSONB{
				"member_id":   member.ID.String(),
				"fiscal_year": req.FiscalYear,
				"amount":      req.Amount,
				"status":      invoice.Status,
			},
		})
	}
	return result, nil
}

// Update applies a manual edit. Status changes derive timestamps: a move to
// SENT stamps sent_at when it is still empty, a move to PAID stamps paid_at,
// and a move to CANCELLED clears paid_at.
func (s *invoiceService) Update(ctx context.Context, societyID, invoiceID uuid.UUID, req *UpdateInvoiceRequest) (*models.Invoice, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, societyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, common.NotFound("invoice")
	}

	before := models.JSONB{"status": invoice.Status, "amount": invoice.Amount}
	now := time.Now()

	if req.Status != nil {
		if !models.ValidInvoiceStatus(*req.Status) {
			return nil, common.Validationf("unknown invoice status %q", *req.Status)
		}
		invoice.Status = *req.Status
		switch *req.Status {
		case models.InvoiceStatusSent:
			if invoice.SentAt == nil {
				invoice.SentAt = &now
			}
		case models.InvoiceStatusPaid:
			invoice.PaidAt = &now
		case models.InvoiceStatusCancelled:
			invoice.PaidAt = nil
		}
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, common.Validation("amount must be positive")
		}
		invoice.Amount = *req.Amount
	}
	if req.DueDate != nil {
		dueDate, err := common.ValidateDate(*req.DueDate, "due_date")
		if err != nil {
			return nil, err
		}
		invoice.DueDate = dueDate
	}
	if req.PaymentMethod != nil {
		invoice.PaymentMethod = req.PaymentMethod
	}
	if req.Notes != nil {
		invoice.Notes = req.Notes
	}
	invoice.UpdatedAt = now

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceInvoice,
		ResourceID:   invoice.ID.String(),
		Action:       "UPDATE",
		Before:       before,
		After:        models.JSONB{"status": invoice.Status, "amount": invoice.Amount},
	})
	return invoice, nil
}

func (s *invoiceService) Get(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Invoice, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, societyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, common.NotFound("invoice")
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, societyID uuid.UUID, filters *models.InvoiceFilters) ([]*models.Invoice, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.invoiceRepo.List(ctx, societyID, filters)
}

func (s *invoiceService) MarkOverdue(ctx context.Context, societyID uuid.UUID) (int, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return 0, err
	}
	return s.sweepOverdue(ctx, societyID, time.Now(), &membership.UserID)
}

func (s *invoiceService) SweepOverdue(ctx context.Context, societyID uuid.UUID, now time.Time) (int, error) {
	return s.sweepOverdue(ctx, societyID, now, nil)
}

// sweepOverdue flips APPROVED and SENT invoices past their due date to
// OVERDUE. Each flip gets its own audit row; a nil actor marks the sweep
// as system-driven.
func (s *invoiceService) sweepOverdue(ctx context.Context, societyID uuid.UUID, now time.Time, actorID *uuid.UUID) (int, error) {
	due, err := s.invoiceRepo.ListDueBefore(ctx, societyID, now, []string{
		models.InvoiceStatusApproved,
		models.InvoiceStatusSent,
	})
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, invoice := range due {
		before := invoice.Status
		invoice.Status = models.InvoiceStatusOverdue
		invoice.UpdatedAt = now
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return marked, err
		}
		marked++
		s.audit.Record(ctx, AuditEntry{
			SocietyID:    &societyID,
			ActorUserID:  actorID,
			ResourceType: models.ResourceInvoice,
			ResourceID:   invoice.ID.String(),
			Action:       "MARK_OVERDUE",
			Before:       models.JSONB{"status": before},
			After:        models.JSONB{"status": models.InvoiceStatusOverdue},
		})
	}
	return marked, nil
}

// IssueReceipt issues (or reissues) the receipt for a PAID invoice. Receipt
// numbers are sequential within the society and the payment year.
func (s *invoiceService) IssueReceipt(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Receipt, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, societyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, common.NotFound("invoice")
	}
	if invoice.Status != models.InvoiceStatusPaid {
		return nil, common.InvalidState("receipts can only be issued for paid invoices")
	}

	existing, err := s.receiptRepo.GetByInvoice(ctx, societyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	member, err := s.memberRepo.GetByID(ctx, societyID, invoice.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, common.NotFound("member")
	}
	society, err := s.societyRepo.GetByID(ctx, societyID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, common.NotFound("society")
	}

	paidAt := time.Now()
	if invoice.PaidAt != nil {
		paidAt = *invoice.PaidAt
	}
	prefix := fmt.Sprintf("%s-%d-", societyID.String(), paidAt.Year())
	count, err := s.receiptRepo.CountByPrefix(ctx, societyID, prefix)
	if err != nil {
		return nil, err
	}
	receiptNo := fmt.Sprintf("%s%04d", prefix, count+1)

	now := time.Now()
	receipt := &models.Receipt{
		ID:        uuid.New(),
		SocietyID: societyID,
		InvoiceID: invoiceID,
		ReceiptNo: receiptNo,
		IssuedAt:  now,
		CreatedAt: now,
	}

	pdf, err := buildReceiptPDF(receipt, invoice, member, society)
	if err != nil {
		return nil, err
	}
	objectName := fmt.Sprintf("%s/receipts/%s.pdf", societyID.String(), receipt.ID.String())
	if err := s.fileStore.Upload(ctx, s.bucket, objectName, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return nil, err
	}
	receipt.FilePath = objectName

	if err := s.receiptRepo.Upsert(ctx, receipt); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceReceipt,
		ResourceID:   receipt.ID.String(),
		Action:       "ISSUE",
		After: models.JSONB{
			"invoice_id": invoiceID.String(),
			"receipt_no": receiptNo,
		},
	})
	return receipt, nil
}

func (s *invoiceService) GetReceipt(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Receipt, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	receipt, err := s.receiptRepo.GetByInvoice(ctx, societyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, common.NotFound("receipt")
	}
	return receipt, nil
}
