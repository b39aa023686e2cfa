package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/common"
	"gakkaihub/internal/mailer"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// EmailService runs the two-phase bulk mail pipeline: templates are
// rendered per invoice, recipients are enqueued idempotently under a DRAFT
// approval, and delivery only happens after an explicit approval step.
type EmailService interface {
	UpsertTemplate(ctx context.Context, societyID uuid.UUID, req *TemplateRequest) (*models.EmailTemplate, error)
	GetTemplate(ctx context.Context, societyID uuid.UUID, key string) (*models.EmailTemplate, error)
	ListTemplates(ctx context.Context, societyID uuid.UUID) ([]*models.EmailTemplate, error)

	Preview(ctx context.Context, societyID uuid.UUID, templateKey string, filter models.EmailTargetFilter) ([]*models.EmailPreview, error)

	CreateApproval(ctx context.Context, societyID uuid.UUID, req *CreateApprovalRequest) (*models.EmailApproval, error)
	GetApproval(ctx context.Context, societyID, approvalID uuid.UUID) (*models.EmailApproval, error)
	ListApprovals(ctx context.Context, societyID uuid.UUID) ([]*models.EmailApproval, error)
	ListSendLogs(ctx context.Context, societyID, approvalID uuid.UUID) ([]*models.EmailSendLog, error)

	EnqueueRecipients(ctx context.Context, societyID, approvalID uuid.UUID) (int, error)
	Approve(ctx context.Context, societyID, approvalID uuid.UUID) (*models.EmailApproval, error)
	Send(ctx context.Context, societyID, approvalID uuid.UUID) (*models.SendResult, error)
}

type emailService struct {
	templateRepo repositories.EmailTemplateRepository
	approvalRepo repositories.EmailApprovalRepository
	sendLogRepo  repositories.EmailSendLogRepository
	invoiceRepo  repositories.InvoiceRepository
	societyRepo  repositories.SocietyRepository
	access       AccessService
	audit        AuditService

	// newProvider is swappable for tests; production wiring uses
	// mailer.NewProvider.
	newProvider func(models.MailSettings) mailer.Provider
}

func NewEmailService(
	templateRepo repositories.EmailTemplateRepository,
	approvalRepo repositories.EmailApprovalRepository,
	sendLogRepo repositories.EmailSendLogRepository,
	invoiceRepo repositories.InvoiceRepository,
	societyRepo repositories.SocietyRepository,
	access AccessService,
	audit AuditService,
) EmailService {
	return &emailService{
		templateRepo: templateRepo,
		approvalRepo: approvalRepo,
		sendLogRepo:  sendLogRepo,
		invoiceRepo:  invoiceRepo,
		societyRepo:  societyRepo,
		access:       access,
		audit:        audit,
		newProvider:  mailer.NewProvider,
	}
}

type TemplateRequest struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type CreateApprovalRequest struct {
	Title       string                   `json:"title"`
	TemplateKey string                   `json:"template_key"`
	Filter      models.EmailTargetFilter `json:"filter"`
}

func (s *emailService) UpsertTemplate(ctx context.Context, societyID uuid.UUID, req *TemplateRequest) (*models.EmailTemplate, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Key, "key"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Subject, "subject"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Body, "body"); err != nil {
		return nil, err
	}

	now := time.Now()
	template := &models.EmailTemplate{
		ID:        uuid.New(),
		SocietyID: societyID,
		Key:       req.Key,
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.templateRepo.Upsert(ctx, template); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceEmailTemplate,
		ResourceID:   req.Key,
		Action:       "UPSERT",
		After:        models.JSONB{"key": req.Key, "subject": req.Subject},
	})
	return template, nil
}

func (s *emailService) GetTemplate(ctx context.Context, societyID uuid.UUID, key string) (*models.EmailTemplate, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	template, err := s.templateRepo.GetByKey(ctx, societyID, key)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, common.NotFound("email template")
	}
	return template, nil
}

func (s *emailService) ListTemplates(ctx context.Context, societyID uuid.UUID) ([]*models.EmailTemplate, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.templateRepo.List(ctx, societyID)
}

// templateVars builds the substitution map for one invoice row.
func templateVars(invoice *models.Invoice, society *models.Society) map[string]interface{} {
	vars := map[string]interface{}{
		"fiscalYear":    invoice.FiscalYear,
		"invoiceAmount": invoice.Amount,
		"dueDate":       invoice.DueDate.Format("2006-01-02"),
		"invoiceStatus": invoice.Status,
	}
	if invoice.Member != nil {
		vars["memberName"] = invoice.Member.Name
		vars["memberNo"] = invoice.Member.MemberNo
	}
	if society != nil {
		vars["societyName"] = society.Name
	}
	return vars
}

// Preview renders the template against every invoice the filter matches
// without persisting anything.
func (s *emailService) Preview(ctx context.Context, societyID uuid.UUID, templateKey string, filter models.EmailTargetFilter) ([]*models.EmailPreview, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff); err != nil {
		return nil, err
	}
	template, err := s.templateRepo.GetByKey(ctx, societyID, templateKey)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, common.NotFound("email template")
	}
	society, err := s.societyRepo.GetByID(ctx, societyID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, common.NotFound("society")
	}

	targets, err := s.invoiceRepo.ListEmailTargets(ctx, societyID, filter, time.Now())
	if err != nil {
		return nil, err
	}

	previews := make([]*models.EmailPreview, 0, len(targets))
	for _, invoice := range targets {
		vars := templateVars(invoice, society)
		previews = append(previews, &models.EmailPreview{
			InvoiceID: invoice.ID,
			MemberID:  invoice.MemberID,
			To:        invoice.Member.Email,
			Subject:   common.RenderTemplate(template.Subject, vars),
			Body:      common.RenderTemplate(template.Body, vars),
		})
	}
	return previews, nil
}

func (s *emailService) CreateApproval(ctx context.Context, societyID uuid.UUID, req *CreateApprovalRequest) (*models.EmailApproval, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Title, "title"); err != nil {
		return nil, err
	}
	template, err := s.templateRepo.GetByKey(ctx, societyID, req.TemplateKey)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, common.NotFound("email template")
	}

	now := time.Now()
	approval := &models.EmailApproval{
		ID:              uuid.New(),
		SocietyID:       societyID,
		Title:           req.Title,
		TemplateKey:     req.TemplateKey,
		Filter:          req.Filter,
		Status:          models.EmailApprovalStatusDraft,
		CreatedByUserID: membership.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.approvalRepo.Create(ctx, approval); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceEmailApproval,
		ResourceID:   approval.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"title": req.Title, "template_key": req.TemplateKey, "status": approval.Status},
	})
	return approval, nil
}

func (s *emailService) GetApproval(ctx context.Context, societyID, approvalID uuid.UUID) (*models.EmailApproval, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	approval, err := s.approvalRepo.GetByID(ctx, societyID, approvalID)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, common.NotFound("email approval")
	}
	return approval, nil
}

func (s *emailService) ListApprovals(ctx context.Context, societyID uuid.UUID) ([]*models.EmailApproval, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.approvalRepo.List(ctx, societyID)
}

func (s *emailService) ListSendLogs(ctx context.Context, societyID, approvalID uuid.UUID) ([]*models.EmailSendLog, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.sendLogRepo.ListByApproval(ctx, societyID, approvalID)
}

// EnqueueRecipients re-resolves the approval's filter against current
// invoice state and creates one QUEUED row per matched invoice, with the
// rendered subject and body snapshotted. Rows that already exist are left
// alone, so repeated calls only add newly matched invoices. Returns the
// number of rows created by this call.
func (s *emailService) EnqueueRecipients(ctx context.Context, societyID, approvalID uuid.UUID) (int, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return 0, err
	}

	approval, err := s.approvalRepo.GetByID(ctx, societyID, approvalID)
	if err != nil {
		return 0, err
	}
	if approval == nil {
		return 0, common.NotFound("email approval")
	}
	if approval.Status == models.EmailApprovalStatusSent {
		return 0, common.InvalidState("recipients cannot be added to a sent approval")
	}

	template, err := s.templateRepo.GetByKey(ctx, societyID, approval.TemplateKey)
	if err != nil {
		return 0, err
	}
	if template == nil {
		return 0, common.NotFound("email template")
	}
	society, err := s.societyRepo.GetByID(ctx, societyID)
	if err != nil {
		return 0, err
	}
	if society == nil {
		return 0, common.NotFound("society")
	}

	targets, err := s.invoiceRepo.ListEmailTargets(ctx, societyID, approval.Filter, time.Now())
	if err != nil {
		return 0, err
	}

	created := 0
	now := time.Now()
	for _, invoice := range targets {
		vars := templateVars(invoice, society)
		invoiceID := invoice.ID
		memberID := invoice.MemberID
		row := &models.EmailSendLog{
			ID:              uuid.New(),
			SocietyID:       societyID,
			EmailApprovalID: approvalID,
			TemplateKey:     approval.TemplateKey,
			To:              invoice.Member.Email,
			Subject:         common.RenderTemplate(template.Subject, vars),
			Body:            common.RenderTemplate(template.Body, vars),
			Status:          models.EmailSendStatusQueued,
			MemberID:        &memberID,
			InvoiceID:       &invoiceID,
			CreatedAt:       now,
		}
		inserted, err := s.sendLogRepo.CreateIfAbsent(ctx, row)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceEmailApproval,
		ResourceID:   approvalID.String(),
		Action:       "ENQUEUE",
		Meta:         models.JSONB{"matched": len(targets), "created": created},
	})
	return created, nil
}

// Approve moves a DRAFT approval to APPROVED. Requires ADMIN.
func (s *emailService) Approve(ctx context.Context, societyID, approvalID uuid.UUID) (*models.EmailApproval, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	approval, err := s.approvalRepo.GetByID(ctx, societyID, approvalID)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, common.NotFound("email approval")
	}
	if approval.Status != models.EmailApprovalStatusDraft {
		return nil, common.InvalidState("only draft approvals can be approved")
	}

	now := time.Now()
	if err := s.approvalRepo.MarkApproved(ctx, societyID, approvalID, membership.UserID, now); err != nil {
		return nil, err
	}
	approval.Status = models.EmailApprovalStatusApproved
	approval.ApprovedByUserID = &membership.UserID
	approval.ApprovedAt = &now
	approval.UpdatedAt = now

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceEmailApproval,
		ResourceID:   approvalID.String(),
		Action:       "APPROVE",
		Before:       models.JSONB{"status": models.EmailApprovalStatusDraft},
		After:        models.JSONB{"status": models.EmailApprovalStatusApproved},
	})
	return approval, nil
}

// Send dispatches every pending row of an APPROVED approval through the
// owning society's mail provider. Rows already SENT are skipped, failures
// are recorded per row and never abort the loop, and a successful dues
// mail flips its linked APPROVED invoice to SENT. The approval itself is
// finalized to SENT once the loop completes, whatever the per-row
// outcomes were.
func (s *emailService) Send(ctx context.Context, societyID, approvalID uuid.UUID) (*models.SendResult, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	approval, err := s.approvalRepo.GetByID(ctx, societyID, approvalID)
	if err != nil {
		return nil, err
	}
	if approval == nil {
		return nil, common.NotFound("email approval")
	}
	if approval.Status != models.EmailApprovalStatusApproved {
		return nil, common.InvalidState("only approved batches can be sent")
	}

	society, err := s.societyRepo.GetByID(ctx, societyID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, common.NotFound("society")
	}
	provider := s.newProvider(society.MailSettings())

	rows, err := s.sendLogRepo.ListByApproval(ctx, societyID, approvalID)
	if err != nil {
		return nil, err
	}

	result := &models.SendResult{}
	for _, row := range rows {
		if row.Status == models.EmailSendStatusSent {
			result.Skipped++
			continue
		}

		outcome := provider.Send(ctx, mailer.SendInput{
			To:      row.To,
			Subject: row.Subject,
			Text:    row.Body,
		})
		if !outcome.OK {
			result.Failed++
			if err := s.sendLogRepo.MarkFailed(ctx, row.ID, outcome.ErrorMessage); err != nil {
				return result, err
			}
			continue
		}

		result.Sent++
		var messageID *string
		if outcome.ProviderMessageID != "" {
			messageID = &outcome.ProviderMessageID
		}
		sentAt := time.Now()
		if err := s.sendLogRepo.MarkSent(ctx, row.ID, messageID, sentAt); err != nil {
			return result, err
		}

		if row.InvoiceID != nil {
			if err := s.flipInvoiceToSent(ctx, societyID, *row.InvoiceID, sentAt); err != nil {
				return result, err
			}
		}
	}

	sentAt := time.Now()
	if err := s.approvalRepo.MarkSent(ctx, societyID, approvalID, sentAt); err != nil {
		return result, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceEmailApproval,
		ResourceID:   approvalID.String(),
		Action:       "SEND",
		Before:       models.JSONB{"status": models.EmailApprovalStatusApproved},
		After:        models.JSONB{"status": models.EmailApprovalStatusSent},
		Meta:         models.JSONB{"sent": result.Sent, "failed": result.Failed, "skipped": result.Skipped},
	})
	return result, nil
}

// flipInvoiceToSent moves an APPROVED invoice to SENT after its dues mail
// went out. Invoices in any other status are left untouched.
func (s *emailService) flipInvoiceToSent(ctx context.Context, societyID, invoiceID uuid.UUID, sentAt time.Time) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, societyID, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil || invoice.Status != models.InvoiceStatusApproved {
		return nil
	}
	invoice.Status = models.InvoiceStatusSent
	if invoice.SentAt == nil {
		invoice.SentAt = &sentAt
	}
	invoice.UpdatedAt = sentAt
	return s.invoiceRepo.Update(ctx, invoice)
}
