package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
)

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

type AccessServiceTestSuite struct {
	suite.Suite
	mockRepo *MockMembershipRepository
	service  AccessService

	actorID   uuid.UUID
	societyID uuid.UUID
}

func (suite *AccessServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockMembershipRepository{}
	suite.service = NewAccessService(suite.mockRepo)
	suite.actorID = uuid.New()
	suite.societyID = uuid.New()

	suite.mockRepo.Test(suite.T())
}

func (suite *AccessServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccessServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceTestSuite))
}

func (suite *AccessServiceTestSuite) actorCtx() context.Context {
	return common.WithActorID(context.Background(), suite.actorID)
}

func (suite *AccessServiceTestSuite) TestRequireAccess_NoActor() {
	_, err := suite.service.RequireAccess(context.Background(), suite.societyID, models.RoleReadOnly)
	suite.Error(err)
	suite.Equal(common.KindUnauthenticated, common.KindOf(err))
}

func (suite *AccessServiceTestSuite) TestRequireAccess_NoMembership() {
	suite.mockRepo.On("GetByUserAndSociety", mock.Anything, suite.actorID, suite.societyID).Return(nil, nil)

	_, err := suite.service.RequireAccess(suite.actorCtx(), suite.societyID, models.RoleReadOnly)
	suite.Error(err)
	suite.Equal(common.KindAccessDenied, common.KindOf(err))
}

func (suite *AccessServiceTestSuite) TestRequireAccess_InsufficientRank() {
	membership := &models.SocietyMember{
		UserID:    suite.actorID,
		SocietyID: suite.societyID,
		Role:      models.RoleStaff,
	}
	suite.mockRepo.On("GetByUserAndSociety", mock.Anything, suite.actorID, suite.societyID).Return(membership, nil)

	_, err := suite.service.RequireAccess(suite.actorCtx(), suite.societyID, models.RoleAdmin)
	suite.Error(err)
	suite.Equal(common.KindAccessDenied, common.KindOf(err))
}

func (suite *AccessServiceTestSuite) TestRequireAccess_HigherRankPasses() {
	membership := &models.SocietyMember{
		UserID:    suite.actorID,
		SocietyID: suite.societyID,
		Role:      models.RoleOwner,
	}
	suite.mockRepo.On("GetByUserAndSociety", mock.Anything, suite.actorID, suite.societyID).Return(membership, nil)

	got, err := suite.service.RequireAccess(suite.actorCtx(), suite.societyID, models.RoleAdmin)
	suite.NoError(err)
	suite.Equal(models.RoleOwner, got.Role)
}

func (suite *AccessServiceTestSuite) TestRequireActor() {
	_, err := suite.service.RequireActor(context.Background())
	suite.Equal(common.KindUnauthenticated, common.KindOf(err))

	actorID, err := suite.service.RequireActor(suite.actorCtx())
	suite.NoError(err)
	suite.Equal(suite.actorID, actorID)
}
