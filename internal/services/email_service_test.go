package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gakkaihub/internal/common"
	"gakkaihub/internal/mailer"
	"gakkaihub/internal/models"
)

// fakeProvider records every send and answers from a scripted queue.
type fakeProvider struct {
	sent    []mailer.SendInput
	results []mailer.SendResult
}

func (p *fakeProvider) Send(_ context.Context, input mailer.SendInput) mailer.SendResult {
	p.sent = append(p.sent, input)
	if len(p.results) == 0 {
		return mailer.SendResult{OK: true, ProviderMessageID: "fake-1"}
	}
	result := p.results[0]
	p.results = p.results[1:]
	return result
}

type MockEmailTemplateRepository struct {
	mock.Mock
}

func (m *MockEmailTemplateRepository) Upsert(ctx context.Context, template *models.EmailTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockEmailTemplateRepository) GetByKey(ctx context.Context, societyID uuid.UUID, key string) (*models.EmailTemplate, error) {
	args := m.Called(ctx, societyID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailTemplate), args.Error(1)
}

func (m *MockEmailTemplateRepository) List(ctx context.Context, societyID uuid.UUID) ([]*models.EmailTemplate, error) {
	args := m.Called(ctx, societyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmailTemplate), args.Error(1)
}

type MockEmailApprovalRepository struct {
	mock.Mock
}

func (m *MockEmailApprovalRepository) Create(ctx context.Context, approval *models.EmailApproval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *MockEmailApprovalRepository) GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.EmailApproval, error) {
	args := m.Called(ctx, societyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailApproval), args.Error(1)
}

func (m *MockEmailApprovalRepository) List(ctx context.Context, societyID uuid.UUID) ([]*models.EmailApproval, error) {
	args := m.Called(ctx, societyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmailApproval), args.Error(1)
}

func (m *MockEmailApprovalRepository) MarkApproved(ctx context.Context, societyID, id, approvedBy uuid.UUID, approvedAt time.Time) error {
	args := m.Called(ctx, societyID, id, approvedBy, approvedAt)
	return args.Error(0)
}

func (m *MockEmailApprovalRepository) MarkSent(ctx context.Context, societyID, id uuid.UUID, sentAt time.Time) error {
	args := m.Called(ctx, societyID, id, sentAt)
	return args.Error(0)
}

type MockEmailSendLogRepository struct {
	mock.Mock
}

func (m *MockEmailSendLogRepository) CreateIfAbsent(ctx context.Context, log *models.EmailSendLog) (bool, error) {
	args := m.Called(ctx, log)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmailSendLogRepository) ListByApproval(ctx context.Context, societyID, approvalID uuid.UUID) ([]*models.EmailSendLog, error) {
	args := m.Called(ctx, societyID, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmailSendLog), args.Error(1)
}

func (m *MockEmailSendLogRepository) MarkSent(ctx context.Context, id uuid.UUID, providerMessageID *string, sentAt time.Time) error {
	args := m.Called(ctx, id, providerMessageID, sentAt)
	return args.Error(0)
}

func (m *MockEmailSendLogRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)
	return args.Error(0)
}

type EmailServiceTestSuite struct {
	suite.Suite
	templateRepo *MockEmailTemplateRepository
	approvalRepo *MockEmailApprovalRepository
	sendLogRepo  *MockEmailSendLogRepository
	invoiceRepo  *MockInvoiceRepository
	societyRepo  *MockSocietyRepository
	provider     *fakeProvider
	audit        *recordingAudit
	service      EmailService

	societyID uuid.UUID
	actorID   uuid.UUID
}

func (suite *EmailServiceTestSuite) SetupTest() {
	suite.templateRepo = &MockEmailTemplateRepository{}
	suite.approvalRepo = &MockEmailApprovalRepository{}
	suite.sendLogRepo = &MockEmailSendLogRepository{}
	suite.invoiceRepo = &MockInvoiceRepository{}
	suite.societyRepo = &MockSocietyRepository{}
	suite.provider = &fakeProvider{}
	suite.audit = &recordingAudit{}
	suite.societyID = uuid.New()
	suite.actorID = uuid.New()

	access := &stubAccess{membership: &models.SocietyMember{
		UserID:    suite.actorID,
		SocietyID: suite.societyID,
		Role:      models.RoleOwner,
	}}
	svc := NewEmailService(
		suite.templateRepo, suite.approvalRepo, suite.sendLogRepo,
		suite.invoiceRepo, suite.societyRepo, access, suite.audit,
	).(*emailService)
	svc.newProvider = func(models.MailSettings) mailer.Provider { return suite.provider }
	suite.service = svc

	suite.templateRepo.Test(suite.T())
	suite.approvalRepo.Test(suite.T())
	suite.sendLogRepo.Test(suite.T())
	suite.invoiceRepo.Test(suite.T())
	suite.societyRepo.Test(suite.T())
}

func (suite *EmailServiceTestSuite) TearDownTest() {
	suite.templateRepo.AssertExpectations(suite.T())
	suite.approvalRepo.AssertExpectations(suite.T())
	suite.sendLogRepo.AssertExpectations(suite.T())
	suite.invoiceRepo.AssertExpectations(suite.T())
	suite.societyRepo.AssertExpectations(suite.T())
}

func TestEmailServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmailServiceTestSuite))
}

func (suite *EmailServiceTestSuite) draftApproval() *models.EmailApproval {
	return &models.EmailApproval{
		ID:          uuid.New(),
		SocietyID:   suite.societyID,
		Title:       "FY2026 dues reminder",
		TemplateKey: "dues-reminder",
		Filter:      models.EmailTargetFilter{FiscalYear: 2026},
		Status:      models.EmailApprovalStatusDraft,
	}
}

func (suite *EmailServiceTestSuite) TestSend_DraftRejected() {
	ctx := context.Background()
	approval := suite.draftApproval()
	suite.approvalRepo.On("GetByID", ctx, suite.societyID, approval.ID).Return(approval, nil)

	_, err := suite.service.Send(ctx, suite.societyID, approval.ID)
	suite.Equal(common.KindInvalidState, common.KindOf(err))
	suite.Empty(suite.provider.sent)
}

func (suite *EmailServiceTestSuite) TestApprove_DraftOnly() {
	ctx := context.Background()
	approval := suite.draftApproval()
	approval.Status = models.EmailApprovalStatusSent
	suite.approvalRepo.On("GetByID", ctx, suite.societyID, approval.ID).Return(approval, nil)

	_, err := suite.service.Approve(ctx, suite.societyID, approval.ID)
	suite.Equal(common.KindInvalidState, common.KindOf(err))
}

func (suite *EmailServiceTestSuite) TestApprove_StampsApprover() {
	ctx := context.Background()
	approval := suite.draftApproval()
	suite.approvalRepo.On("GetByID", ctx, suite.societyID, approval.ID).Return(approval, nil)
	suite.approvalRepo.On("MarkApproved", ctx, suite.societyID, approval.ID, suite.actorID, mock.AnythingOfType("time.Time")).Return(nil)

	approved, err := suite.service.Approve(ctx, suite.societyID, approval.ID)
	suite.NoError(err)
	suite.Equal(models.EmailApprovalStatusApproved, approved.Status)
	suite.Equal(suite.actorID, *approved.ApprovedByUserID)
	suite.NotNil(approved.ApprovedAt)
}

func (suite *EmailServiceTestSuite) TestEnqueueRecipients_OnlyNewRowsCount() {
	ctx := context.Background()
	approval := suite.draftApproval()
	template := &models.EmailTemplate{
		Key:     "dues-reminder",
		Subject: "{{fiscalYear}}年度会費のご請求",
		Body:    "{{memberName}} 様 会費{{invoiceAmount}}円をお支払いください。",
	}
	society := &models.Society{ID: suite.societyID, Name: "Example Society"}
	targets := []*models.Invoice{
		{
			ID: uuid.New(), SocietyID: suite.societyID, MemberID: uuid.New(),
			FiscalYear: 2026, Amount: 12000, DueDate: time.Now(),
			Member: &models.Member{Name: "Tanaka", MemberNo: "M001", Email: "tanaka@example.org"},
		},
		{
			ID: uuid.New(), SocietyID: suite.societyID, MemberID: uuid.New(),
			FiscalYear: 2026, Amount: 12000, DueDate: time.Now(),
			Member: &models.Member{Name: "Suzuki", MemberNo: "M002", Email: "suzuki@example.org"},
		},
	}

	suite.approvalRepo.On("GetByID", ctx, suite.societyID, approval.ID).Return(approval, nil)
	suite.templateRepo.On("GetByKey", ctx, suite.societyID, "dues-reminder").Return(template, nil)
	suite.societyRepo.On("GetByID", ctx, suite.societyID).Return(society, nil)
	suite.invoiceRepo.On("ListEmailTargets", ctx, suite.societyID, approval.Filter, mock.AnythingOfType("time.Time")).Return(targets, nil)
	// First row already exists, second is new.
	suite.sendLogRepo.On("CreateIfAbsent", ctx, mock.MatchedBy(func(row *models.EmailSendLog) bool {
		return row.To == "tanaka@example.org"
	})).Return(false, nil).Once()
	suite.sendLogRepo.On("CreateIfAbsent", ctx, mock.MatchedBy(func(row *models.EmailSendLog) bool {
		return row.To == "suzuki@example.org" &&
			row.Subject == "2026年度会費のご請求" &&
			row.Status == models.EmailSendStatusQueued
	})).Return(true, nil).Once()

	created, err := suite.service.EnqueueRecipients(ctx, suite.societyID, approval.ID)
	suite.NoError(err)
	suite.Equal(1, created)
}

func (suite *EmailServiceTestSuite) TestSend_MixedOutcomes() {
	ctx := context.Background()
	approval := suite.draftApproval()
	approval.Status = models.EmailApprovalStatusApproved
	society := &models.Society{ID: suite.societyID, MailProvider: models.MailProviderConsole}

	invoiceA := uuid.New()
	invoiceB := uuid.New()
	sentRowInvoice := uuid.New()
	rows := []*models.EmailSendLog{
		{ID: uuid.New(), Status: models.EmailSendStatusSent, InvoiceID: &sentRowInvoice, To: "already@example.org"},
		{ID: uuid.New(), Status: models.EmailSendStatusQueued, InvoiceID: &invoiceA, To: "ok@example.org"},
		{ID: uuid.New(), Status: models.EmailSendStatusFailed, InvoiceID: &invoiceB, To: "bad@example.org"},
	}
	suite.provider.results = []mailer.SendResult{
		{OK: true, ProviderMessageID: "msg-1"},
		{OK: false, ErrorMessage: "mailbox unavailable"},
	}

	suite.approvalRepo.On("GetByID", ctx, suite.societyID, approval.ID).Return(approval, nil)
	suite.societyRepo.On("GetByID", ctx, suite.societyID).Return(society, nil)
	suite.sendLogRepo.On("ListByApproval", ctx, suite.societyID, approval.ID).Return(rows, nil)
	suite.sendLogRepo.On("MarkSent", ctx, rows[1].ID, mock.Anything, mock.AnythingOfType("time.Time")).Return(nil)
	suite.sendLogRepo.On("MarkFailed", ctx, rows[2].ID, "mailbox unavailable").Return(nil)

	// Successful dues mail flips its APPROVED invoice to SENT.
	linked := &models.Invoice{ID: invoiceA, SocietyID: suite.societyID, Status: models.InvoiceStatusApproved}
	suite.invoiceRepo.On("GetByID", ctx, suite.societyID, invoiceA).Return(linked, nil)
	suite.invoiceRepo.On("Update", ctx, mock.MatchedBy(func(inv *models.Invoice) bool {
		return inv.ID == invoiceA && inv.Status == models.InvoiceStatusSent && inv.SentAt != nil
	})).Return(nil)

	suite.approvalRepo.On("MarkSent", ctx, suite.societyID, approval.ID, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := suite.service.Send(ctx, suite.societyID, approval.ID)
	suite.NoError(err)
	suite.Equal(1, result.Sent)
	suite.Equal(1, result.Failed)
	suite.Equal(1, result.Skipped)
	// The SENT row was never handed to the provider.
	suite.Len(suite.provider.sent, 2)
}

func (suite *EmailServiceTestSuite) TestSend_AllFailuresStillFinalize() {
	ctx := context.Background()
	approval := suite.draftApproval()
	approval.Status = models.EmailApprovalStatusApproved
	society := &models.Society{ID: suite.societyID, MailProvider: models.MailProviderGmailAPI}

	invoiceA := uuid.New()
	invoiceB := uuid.New()
	rows := []*models.EmailSendLog{
		{ID: uuid.New(), Status: models.EmailSendStatusQueued, InvoiceID: &invoiceA, To: "a@example.org"},
		{ID: uuid.New(), Status: models.EmailSendStatusQueued, InvoiceID: &invoiceB, To: "b@example.org"},
	}
	suite.provider.results = []mailer.SendResult{
		{OK: false, ErrorMessage: "provider down"},
		{OK: false, ErrorMessage: "provider down"},
	}

	suite.approvalRepo.On("GetByID", ctx, suite.societyID, approval.ID).Return(approval, nil)
	suite.societyRepo.On("GetByID", ctx, suite.societyID).Return(society, nil)
	suite.sendLogRepo.On("ListByApproval", ctx, suite.societyID, approval.ID).Return(rows, nil)
	suite.sendLogRepo.On("MarkFailed", ctx, rows[0].ID, "provider down").Return(nil)
	suite.sendLogRepo.On("MarkFailed", ctx, rows[1].ID, "provider down").Return(nil)
	suite.approvalRepo.On("MarkSent", ctx, suite.societyID, approval.ID, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := suite.service.Send(ctx, suite.societyID, approval.ID)
	suite.NoError(err)
	suite.Equal(0, result.Sent)
	suite.Equal(2, result.Failed)
	// No invoice was touched.
	suite.invoiceRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}

func (suite *EmailServiceTestSuite) TestEnqueue_SentApprovalRejected() {
	ctx := context.Background()
	approval := suite.draftApproval()
	approval.Status = models.EmailApprovalStatusSent
	suite.approvalRepo.On("GetByID", ctx, suite.societyID, approval.ID).Return(approval, nil)

	_, err := suite.service.EnqueueRecipients(ctx, suite.societyID, approval.ID)
	suite.Equal(common.KindInvalidState, common.KindOf(err))
}

func (suite *EmailServiceTestSuite) TestCreateApproval_UnknownTemplate() {
	ctx := context.Background()
	suite.templateRepo.On("GetByKey", ctx, suite.societyID, "missing").Return(nil, nil)

	_, err := suite.service.CreateApproval(ctx, suite.societyID, &CreateApprovalRequest{
		Title:       "batch",
		TemplateKey: "missing",
	})
	suite.Equal(common.KindNotFound, common.KindOf(err))
}
