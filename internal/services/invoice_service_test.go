package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
)

// stubAccess bypasses the membership lookup and grants a fixed membership,
// so service tests can focus on their own logic.
type stubAccess struct {
	membership *models.SocietyMember
	err        error
}

func (s *stubAccess) RequireAccess(_ context.Context, _ uuid.UUID, _ string) (*models.SocietyMember, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.membership, nil
}

func (s *stubAccess) RequireActor(_ context.Context) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.membership.UserID, nil
}

// recordingAudit captures audit entries in memory.
type recordingAudit struct {
	entries []AuditEntry
}

func (a *recordingAudit) Record(_ context.Context, entry AuditEntry) {
	a.entries = append(a.entries, entry)
}

func (a *recordingAudit) Recent(context.Context, uuid.UUID, int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (a *recordingAudit) ForResource(context.Context, uuid.UUID, string, string, int) ([]*models.AuditLog, error) {
	return nil, nil
}

// fakeFileStore keeps uploads in memory.
type fakeFileStore struct {
	uploads map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{uploads: map[string][]byte{}}
}

func (f *fakeFileStore) Upload(_ context.Context, _, objectName string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.uploads[objectName] = data
	return nil
}

func (f *fakeFileStore) GetPresignedURL(_, objectName string, _ time.Duration) (string, error) {
	return "https://files.local/" + objectName, nil
}

func (f *fakeFileStore) Delete(_ context.Context, _, objectName string) error {
	delete(f.uploads, objectName)
	return nil
}

func (f *fakeFileStore) EnsureBucketExists(context.Context, string) error { return nil }

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateIfAbsent(ctx context.Context, invoice *models.Invoice) (bool, error) {
	args := m.Called(ctx, invoice)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, societyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) List(ctx context.Context, societyID uuid.UUID, filters *models.InvoiceFilters) ([]*models.Invoice, error) {
	args := m.Called(ctx, societyID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListDueBefore(ctx context.Context, societyID uuid.UUID, cutoff time.Time, statuses []string) ([]*models.Invoice, error) {
	args := m.Called(ctx, societyID, cutoff, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListEmailTargets(ctx context.Context, societyID uuid.UUID, filter models.EmailTargetFilter, now time.Time) ([]*models.Invoice, error) {
	args := m.Called(ctx, societyID, filter, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountUnpaid(ctx context.Context, societyID uuid.UUID) (int, error) {
	args := m.Called(ctx, societyID)
	return args.Int(0), args.Error(1)
}

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Upsert(ctx context.Context, receipt *models.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) GetByInvoice(ctx context.Context, societyID, invoiceID uuid.UUID) (*models.Receipt, error) {
	args := m.Called(ctx, societyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) CountByPrefix(ctx context.Context, societyID uuid.UUID, prefix string) (int, error) {
	args := m.Called(ctx, societyID, prefix)
	return args.Int(0), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, societyID, id uuid.UUID) (*models.Member, error) {
	args := m.Called(ctx, societyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context, societyID uuid.UUID, filters *models.MemberFilters) ([]*models.Member, error) {
	args := m.Called(ctx, societyID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) ListActive(ctx context.Context, societyID uuid.UUID) ([]*models.Member, error) {
	args := m.Called(ctx, societyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) CountActive(ctx context.Context, societyID uuid.UUID) (int, error) {
	args := m.Called(ctx, societyID)
	return args.Int(0), args.Error(1)
}

type MockSocietyRepository struct {
	mock.Mock
}

func (m *MockSocietyRepository) Create(ctx context.Context, society *models.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) Update(ctx context.Context, society *models.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) UpdateMailSettings(ctx context.Context, society *models.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSocietyRepository) List(ctx context.Context, limit, offset int) ([]*models.Society, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) ListActive(ctx context.Context) ([]*models.Society, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Society), args.Error(1)
}

type InvoiceServiceTestSuite struct {
	suite.Suite
	invoiceRepo *MockInvoiceRepository
	receiptRepo *MockReceiptRepository
	memberRepo  *MockMemberRepository
	societyRepo *MockSocietyRepository
	fileStore   *fakeFileStore
	audit       *recordingAudit
	service     InvoiceService

	societyID uuid.UUID
	actorID   uuid.UUID
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.invoiceRepo = &MockInvoiceRepository{}
	suite.receiptRepo = &MockReceiptRepository{}
	suite.memberRepo = &MockMemberRepository{}
	suite.societyRepo = &MockSocietyRepository{}
	suite.fileStore = newFakeFileStore()
	suite.audit = &recordingAudit{}
	suite.societyID = uuid.New()
	suite.actorID = uuid.New()

	access := &stubAccess{membership: &models.SocietyMember{
		UserID:    suite.actorID,
		SocietyID: suite.societyID,
		Role:      models.RoleAdmin,
	}}
	suite.service = NewInvoiceService(
		suite.invoiceRepo, suite.receiptRepo, suite.memberRepo, suite.societyRepo,
		suite.fileStore, "gakkaihub", access, suite.audit,
	)

	suite.invoiceRepo.Test(suite.T())
	suite.receiptRepo.Test(suite.T())
	suite.memberRepo.Test(suite.T())
	suite.societyRepo.Test(suite.T())
}

func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.invoiceRepo.AssertExpectations(suite.T())
	suite.receiptRepo.AssertExpectations(suite.T())
	suite.memberRepo.AssertExpectations(suite.T())
	suite.societyRepo.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (suite *InvoiceServiceTestSuite) activeMembers(n int) []*models.Member {
	members := make([]*models.Member, 0, n)
	for i := 0; i < n; i++ {
		members = append(members, &models.Member{
			ID:        uuid.New(),
			SocietyID: suite.societyID,
			MemberNo:  fmt.Sprintf("M%03d", i+1),
			Name:      fmt.Sprintf("Member %d", i+1),
			Status:    models.MemberStatusActive,
		})
	}
	return members
}

func (suite *InvoiceServiceTestSuite) TestGenerateAnnual_SkipsExisting() {
	ctx := context.Background()
	members := suite.activeMembers(10)
	existing := members[3].ID

	suite.memberRepo.On("ListActive", ctx, suite.societyID).Return(members, nil)
	suite.invoiceRepo.On("CreateIfAbsent", ctx, mock.MatchedBy(func(inv *models.Invoice) bool {
		return inv.MemberID == existing
	})).Return(false, nil).Once()
	suite.invoiceRepo.On("CreateIfAbsent", ctx, mock.AnythingOfType("*models.Invoice")).
		Return(true, nil).Times(9).Run(func(args mock.Arguments) {
		inv := args.Get(1).(*models.Invoice)
		suite.Equal(models.InvoiceStatusDraft, inv.Status)
		suite.Equal(2026, inv.FiscalYear)
		suite.Equal(int64(12000), inv.Amount)
	})

	result, err := suite.service.GenerateAnnual(ctx, suite.societyID, &GenerateInvoicesRequest{
		FiscalYear: 2026,
		Amount:     12000,
		DueDate:    "2026-06-30",
	})
	suite.NoError(err)
	suite.Equal(9, result.Created)
	suite.Equal(1, result.Skipped)
	suite.Len(suite.audit.entries, 9)
}

func (suite *InvoiceServiceTestSuite) TestGenerateAnnual_RerunAllSkipped() {
	ctx := context.Background()
	members := suite.activeMembers(5)

	suite.memberRepo.On("ListActive", ctx, suite.societyID).Return(members, nil)
	suite.invoiceRepo.On("CreateIfAbsent", ctx, mock.AnythingOfType("*models.Invoice")).Return(false, nil).Times(5)

	result, err := suite.service.GenerateAnnual(ctx, suite.societyID, &GenerateInvoicesRequest{
		FiscalYear: 2026,
		Amount:     12000,
		DueDate:    "2026-06-30",
	})
	suite.NoError(err)
	suite.Equal(0, result.Created)
	suite.Equal(5, result.Skipped)
	suite.Empty(suite.audit.entries)
}

func (suite *InvoiceServiceTestSuite) TestUpdate_PaidStampsPaidAt() {
	ctx := context.Background()
	invoiceID := uuid.New()
	invoice := &models.Invoice{
		ID:        invoiceID,
		SocietyID: suite.societyID,
		Status:    models.InvoiceStatusSent,
		Amount:    10000,
	}
	suite.invoiceRepo.On("GetByID", ctx, suite.societyID, invoiceID).Return(invoice, nil)
	suite.invoiceRepo.On("Update", ctx, mock.AnythingOfType("*models.Invoice")).Return(nil)

	paid := models.InvoiceStatusPaid
	updated, err := suite.service.Update(ctx, suite.societyID, invoiceID, &UpdateInvoiceRequest{Status: &paid})
	suite.NoError(err)
	suite.Equal(models.InvoiceStatusPaid, updated.Status)
	suite.NotNil(updated.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestUpdate_CancelledClearsPaidAt() {
	ctx := context.Background()
	invoiceID := uuid.New()
	paidAt := time.Now().Add(-24 * time.Hour)
	invoice := &models.Invoice{
		ID:        invoiceID,
		SocietyID: suite.societyID,
		Status:    models.InvoiceStatusPaid,
		PaidAt:    &paidAt,
	}
	suite.invoiceRepo.On("GetByID", ctx, suite.societyID, invoiceID).Return(invoice, nil)
	suite.invoiceRepo.On("Update", ctx, mock.AnythingOfType("*models.Invoice")).Return(nil)

	cancelled := models.InvoiceStatusCancelled
	updated, err := suite.service.Update(ctx, suite.societyID, invoiceID, &UpdateInvoiceRequest{Status: &cancelled})
	suite.NoError(err)
	suite.Equal(models.InvoiceStatusCancelled, updated.Status)
	suite.Nil(updated.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestUpdate_SentKeepsExistingSentAt() {
	ctx := context.Background()
	invoiceID := uuid.New()
	sentAt := time.Now().Add(-48 * time.Hour)
	invoice := &models.Invoice{
		ID:        invoiceID,
		SocietyID: suite.societyID,
		Status:    models.InvoiceStatusApproved,
		SentAt:    &sentAt,
	}
	suite.invoiceRepo.On("GetByID", ctx, suite.societyID, invoiceID).Return(invoice, nil)
	suite.invoiceRepo.On("Update", ctx, mock.AnythingOfType("*models.Invoice")).Return(nil)

	sent := models.InvoiceStatusSent
	updated, err := suite.service.Update(ctx, suite.societyID, invoiceID, &UpdateInvoiceRequest{Status: &sent})
	suite.NoError(err)
	suite.Equal(sentAt.Unix(), updated.SentAt.Unix())
}

func (suite *InvoiceServiceTestSuite) TestUpdate_UnknownStatusRejected() {
	ctx := context.Background()
	invoiceID := uuid.New()
	invoice := &models.Invoice{ID: invoiceID, SocietyID: suite.societyID, Status: models.InvoiceStatusDraft}
	suite.invoiceRepo.On("GetByID", ctx, suite.societyID, invoiceID).Return(invoice, nil)

	bogus := "SHREDDED"
	_, err := suite.service.Update(ctx, suite.societyID, invoiceID, &UpdateInvoiceRequest{Status: &bogus})
	suite.Equal(common.KindValidation, common.KindOf(err))
}

func (suite *InvoiceServiceTestSuite) TestSweepOverdue() {
	ctx := context.Background()
	now := time.Now()
	due := []*models.Invoice{
		{ID: uuid.New(), SocietyID: suite.societyID, Status: models.InvoiceStatusApproved},
		{ID: uuid.New(), SocietyID: suite.societyID, Status: models.InvoiceStatusSent},
	}
	suite.invoiceRepo.On("ListDueBefore", ctx, suite.societyID, now,
		[]string{models.InvoiceStatusApproved, models.InvoiceStatusSent}).Return(due, nil)
	suite.invoiceRepo.On("Update", ctx, mock.MatchedBy(func(inv *models.Invoice) bool {
		return inv.Status == models.InvoiceStatusOverdue
	})).Return(nil).Times(2)

	marked, err := suite.service.SweepOverdue(ctx, suite.societyID, now)
	suite.NoError(err)
	suite.Equal(2, marked)
	// System sweep audits with no actor.
	suite.Len(suite.audit.entries, 2)
	for _, entry := range suite.audit.entries {
		suite.Nil(entry.ActorUserID)
		suite.Equal("MARK_OVERDUE", entry.Action)
	}
}

func (suite *InvoiceServiceTestSuite) TestSweepOverdue_NothingDue() {
	ctx := context.Background()
	now := time.Now()
	suite.invoiceRepo.On("ListDueBefore", ctx, suite.societyID, now, mock.Anything).Return([]*models.Invoice{}, nil)

	marked, err := suite.service.SweepOverdue(ctx, suite.societyID, now)
	suite.NoError(err)
	suite.Equal(0, marked)
}

func (suite *InvoiceServiceTestSuite) TestIssueReceipt_RejectsUnpaid() {
	ctx := context.Background()
	invoiceID := uuid.New()
	invoice := &models.Invoice{ID: invoiceID, SocietyID: suite.societyID, Status: models.InvoiceStatusSent}
	suite.invoiceRepo.On("GetByID", ctx, suite.societyID, invoiceID).Return(invoice, nil)

	_, err := suite.service.IssueReceipt(ctx, suite.societyID, invoiceID)
	suite.Equal(common.KindInvalidState, common.KindOf(err))
	suite.Empty(suite.fileStore.uploads)
}

func (suite *InvoiceServiceTestSuite) TestIssueReceipt_SequentialNumber() {
	ctx := context.Background()
	invoiceID := uuid.New()
	memberID := uuid.New()
	paidAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	invoice := &models.Invoice{
		ID:        invoiceID,
		SocietyID: suite.societyID,
		MemberID:  memberID,
		Status:    models.InvoiceStatusPaid,
		Amount:    12000,
		PaidAt:    &paidAt,
	}
	member := &models.Member{ID: memberID, SocietyID: suite.societyID, MemberNo: "M001", Name: "Tanaka"}
	society := &models.Society{ID: suite.societyID, Name: "Example Society"}

	prefix := fmt.Sprintf("%s-2026-", suite.societyID.String())
	suite.invoiceRepo.On("GetByID", ctx, suite.societyID, invoiceID).Return(invoice, nil)
	suite.receiptRepo.On("GetByInvoice", ctx, suite.societyID, invoiceID).Return(nil, nil)
	suite.memberRepo.On("GetByID", ctx, suite.societyID, memberID).Return(member, nil)
	suite.societyRepo.On("GetByID", ctx, suite.societyID).Return(society, nil)
	suite.receiptRepo.On("CountByPrefix", ctx, suite.societyID, prefix).Return(2, nil)
	suite.receiptRepo.On("Upsert", ctx, mock.AnythingOfType("*models.Receipt")).Return(nil)

	receipt, err := suite.service.IssueReceipt(ctx, suite.societyID, invoiceID)
	suite.NoError(err)
	suite.Equal(prefix+"0003", receipt.ReceiptNo)
	suite.Len(suite.fileStore.uploads, 1)
	suite.NotEmpty(receipt.FilePath)
}

func (suite *InvoiceServiceTestSuite) TestIssueReceipt_ExistingReturned() {
	ctx := context.Background()
	invoiceID := uuid.New()
	invoice := &models.Invoice{ID: invoiceID, SocietyID: suite.societyID, Status: models.InvoiceStatusPaid}
	existing := &models.Receipt{ID: uuid.New(), InvoiceID: invoiceID, ReceiptNo: "existing"}
	suite.invoiceRepo.On("GetByID", ctx, suite.societyID, invoiceID).Return(invoice, nil)
	suite.receiptRepo.On("GetByInvoice", ctx, suite.societyID, invoiceID).Return(existing, nil)

	receipt, err := suite.service.IssueReceipt(ctx, suite.societyID, invoiceID)
	suite.NoError(err)
	suite.Equal("existing", receipt.ReceiptNo)
	suite.Empty(suite.fileStore.uploads)
}
