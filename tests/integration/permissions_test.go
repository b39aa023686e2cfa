package integration

import (
	"context"
	"testing"
	"time"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
	"gakkaihub/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// Role permission suite: exercises the real access service against real
// services with mocked repositories, checking that each role boundary holds
// end to end.
type PermissionsTestSuite struct {
	suite.Suite
	membershipRepo *MockMembershipRepository
	memberRepo     *MockMemberRepository
	planRepo       *MockPlanRepository
	approvalRepo   *MockEmailApprovalRepository

	access      services.AccessService
	memberSvc   services.MemberService
	emailSvc    services.EmailService
	settingsSvc services.SettingsService

	societyID uuid.UUID
	actorID   uuid.UUID
}

func (suite *PermissionsTestSuite) SetupTest() {
	suite.membershipRepo = &MockMembershipRepository{}
	suite.memberRepo = &MockMemberRepository{}
	suite.planRepo = &MockPlanRepository{}
	suite.approvalRepo = &MockEmailApprovalRepository{}

	suite.access = services.NewAccessService(suite.membershipRepo)
	audit := nopAudit{}
	suite.memberSvc = services.NewMemberService(suite.memberRepo, nil, suite.access, audit)
	suite.emailSvc = services.NewEmailService(nil, suite.approvalRepo, nil, nil, nil, suite.access, audit)
	suite.settingsSvc = services.NewSettingsService(suite.planRepo, nil, suite.membershipRepo, nil, suite.access, audit)

	suite.societyID = uuid.New()
	suite.actorID = uuid.New()
}

func TestPermissionsTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionsTestSuite))
}

func (suite *PermissionsTestSuite) actorCtx() context.Context {
	return common.WithActorID(context.Background(), suite.actorID)
}

func (suite *PermissionsTestSuite) grantRole(role string) {
	suite.membershipRepo.On("GetByUserAndSociety", mock.Anything, suite.actorID, suite.societyID).
		Return(&models.SocietyMember{
			ID:        uuid.New(),
			UserID:    suite.actorID,
			SocietyID: suite.societyID,
			Role:      role,
		}, nil)
}

func memberRequest() *services.MemberRequest {
	return &services.MemberRequest{
		MemberNo:   "M-0001",
		Name:       "田中太郎",
		MemberType: "REGULAR",
		Status:     models.MemberStatusActive,
		JoinedAt:   "2020-04-01",
	}
}

func (suite *PermissionsTestSuite) TestMemberCreate_ReadOnlyDenied() {
	suite.grantRole(models.RoleReadOnly)

	_, err := suite.memberSvc.Create(suite.actorCtx(), suite.societyID, memberRequest())
	assert.Equal(suite.T(), common.KindAccessDenied, common.KindOf(err))
	suite.memberRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *PermissionsTestSuite) TestMemberCreate_StaffAllowed() {
	suite.grantRole(models.RoleStaff)
	suite.memberRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Member")).Return(nil)

	member, err := suite.memberSvc.Create(suite.actorCtx(), suite.societyID, memberRequest())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "M-0001", member.MemberNo)
}

func (suite *PermissionsTestSuite) TestApprove_StaffDenied() {
	suite.grantRole(models.RoleStaff)

	_, err := suite.emailSvc.Approve(suite.actorCtx(), suite.societyID, uuid.New())
	assert.Equal(suite.T(), common.KindAccessDenied, common.KindOf(err))
	suite.approvalRepo.AssertNotCalled(suite.T(), "MarkApproved",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PermissionsTestSuite) TestApprove_AdminAllowed() {
	suite.grantRole(models.RoleAdmin)
	approvalID := uuid.New()
	suite.approvalRepo.On("GetByID", mock.Anything, suite.societyID, approvalID).
		Return(&models.EmailApproval{
			ID:        approvalID,
			SocietyID: suite.societyID,
			Status:    models.EmailApprovalStatusDraft,
		}, nil)
	suite.approvalRepo.On("MarkApproved", mock.Anything, suite.societyID, approvalID,
		suite.actorID, mock.AnythingOfType("time.Time")).Return(nil)

	approval, err := suite.emailSvc.Approve(suite.actorCtx(), suite.societyID, approvalID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.EmailApprovalStatusApproved, approval.Status)
	assert.Equal(suite.T(), suite.actorID, *approval.ApprovedByUserID)
}

func (suite *PermissionsTestSuite) TestPlanUpsert_StaffDenied() {
	suite.grantRole(models.RoleStaff)

	_, err := suite.settingsSvc.UpsertPlan(suite.actorCtx(), suite.societyID, &services.PlanRequest{
		PlanName:  "standard",
		StartDate: "2026-04-01",
	})
	assert.Equal(suite.T(), common.KindAccessDenied, common.KindOf(err))
	suite.planRepo.AssertNotCalled(suite.T(), "Upsert", mock.Anything, mock.Anything)
}

func (suite *PermissionsTestSuite) TestPlanUpsert_AdminAllowed() {
	suite.grantRole(models.RoleAdmin)
	suite.planRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.SocietyPlan")).Return(nil)

	plan, err := suite.settingsSvc.UpsertPlan(suite.actorCtx(), suite.societyID, &services.PlanRequest{
		PlanName:  "standard",
		StartDate: "2026-04-01",
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "standard", plan.PlanName)
}

func (suite *PermissionsTestSuite) TestNoMembership_Denied() {
	suite.membershipRepo.On("GetByUserAndSociety", mock.Anything, suite.actorID, suite.societyID).
		Return(nil, nil)

	_, err := suite.memberSvc.List(suite.actorCtx(), suite.societyID, nil)
	assert.Equal(suite.T(), common.KindAccessDenied, common.KindOf(err))
}

func (suite *PermissionsTestSuite) TestNoActor_Unauthenticated() {
	_, err := suite.memberSvc.List(context.Background(), suite.societyID, nil)
	assert.Equal(suite.T(), common.KindUnauthenticated, common.KindOf(err))
	suite.membershipRepo.AssertNotCalled(suite.T(), "GetByUserAndSociety",
		mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PermissionsTestSuite) TestRoleHierarchy() {
	cases := []struct {
		role    string
		minRole string
		allowed bool
	}{
		{models.RoleReadOnly, models.RoleReadOnly, true},
		{models.RoleReadOnly, models.RoleStaff, false},
		{models.RoleStaff, models.RoleStaff, true},
		{models.RoleStaff, models.RoleAdmin, false},
		{models.RoleAdmin, models.RoleAdmin, true},
		{models.RoleAdmin, models.RoleOwner, false},
		{models.RoleOwner, models.RoleOwner, true},
		{models.RoleOwner, models.RoleReadOnly, true},
	}

	for _, tc := range cases {
		membershipRepo := &MockMembershipRepository{}
		access := services.NewAccessService(membershipRepo)
		membershipRepo.On("GetByUserAndSociety", mock.Anything, suite.actorID, suite.societyID).
			Return(&models.SocietyMember{
				UserID:    suite.actorID,
				SocietyID: suite.societyID,
				Role:      tc.role,
			}, nil)

		_, err := access.RequireAccess(suite.actorCtx(), suite.societyID, tc.minRole)
		if tc.allowed {
			assert.NoError(suite.T(), err, "%s should satisfy %s", tc.role, tc.minRole)
		} else {
			assert.Equal(suite.T(), common.KindAccessDenied, common.KindOf(err),
				"%s should not satisfy %s", tc.role, tc.minRole)
		}
	}
}

// nopAudit drops audit entries; permission outcomes are what is under test.
type nopAudit struct{}

func (nopAudit) Record(ctx context.Context, entry services.AuditEntry) {}
func (nopAudit) Recent(ctx context.Context, societyID uuid.UUID, limit int) ([]*models.AuditLog, error) {
	return nil, nil
}
func (nopAudit) ForResource(ctx context.Context, societyID uuid.UUID, resourceType, resourceID string, limit int) ([]*models.AuditLog, error) {
	return nil, nil
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Upsert(ctx context.Context, membership *models.SocietyMember) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) GetByUserAndSociety(ctx context.Context, userID, societyID uuid.UUID) (*models.SocietyMember, error) {
	args := m.Called(ctx, userID, societyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocietyMember), args.Error(1)
}

func (m *MockMembershipRepository) ListBySociety(ctx context.Context, societyID uuid.UUID) ([]*models.SocietyMember, error) {
	args := m.Called(ctx, societyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocietyMember), args.Error(1)
}

func (m *MockMembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SocietyMember, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocietyMember), args.Error(1)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, userID, societyID uuid.UUID) error {
	args := m.Called(ctx, userID, societyID)
	return args.Error(0)
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

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Upsert(ctx context.Context, plan *models.SocietyPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetBySociety(ctx context.Context, societyID uuid.UUID) (*models.SocietyPlan, error) {
	args := m.Called(ctx, societyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocietyPlan), args.Error(1)
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

var _ repositories.MembershipRepository = (*MockMembershipRepository)(nil)
var _ repositories.MemberRepository = (*MockMemberRepository)(nil)
var _ repositories.PlanRepository = (*MockPlanRepository)(nil)
var _ repositories.EmailApprovalRepository = (*MockEmailApprovalRepository)(nil)
