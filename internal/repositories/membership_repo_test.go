package repositories

import (
	"context"
	"testing"
	"time"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MembershipRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      MembershipRepository
	userID    uuid.UUID
	societyID uuid.UUID
	context   context.Context
}

func (suite *MembershipRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewMembershipRepo(mock)
	suite.userID = uuid.New()
	suite.societyID = uuid.New()
	suite.context = context.Background()
}

func (suite *MembershipRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestMembershipRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipRepoTestSuite))
}

func (suite *MembershipRepoTestSuite) TestUpsert() {
	membership := &models.SocietyMember{
		ID:        uuid.New(),
		UserID:    suite.userID,
		SocietyID: suite.societyID,
		Role:      models.RoleStaff,
	}

	suite.mock.ExpectExec(`INSERT INTO society_members`).
		WithArgs(membership.ID, membership.UserID, membership.SocietyID, membership.Role).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Upsert(suite.context, membership)
	assert.NoError(suite.T(), err)
}

func (suite *MembershipRepoTestSuite) TestUpsert_ExistingPairReplacesRole() {
	membership := &models.SocietyMember{
		ID:        uuid.New(),
		UserID:    suite.userID,
		SocietyID: suite.societyID,
		Role:      models.RoleAdmin,
	}

	// Conflict path takes the DO UPDATE branch; still one row affected.
	suite.mock.ExpectExec(`INSERT INTO society_members`).
		WithArgs(membership.ID, membership.UserID, membership.SocietyID, membership.Role).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Upsert(suite.context, membership)
	assert.NoError(suite.T(), err)
}

func (suite *MembershipRepoTestSuite) TestGetByUserAndSociety() {
	now := time.Now()
	membershipID := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "user_id", "society_id", "role", "created_at", "updated_at"}).
		AddRow(membershipID, suite.userID, suite.societyID, models.RoleOwner, now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM society_members\s+WHERE user_id = \$1 AND society_id = \$2`).
		WithArgs(suite.userID, suite.societyID).
		WillReturnRows(rows)

	m, err := suite.repo.GetByUserAndSociety(suite.context, suite.userID, suite.societyID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), membershipID, m.ID)
	assert.Equal(suite.T(), models.RoleOwner, m.Role)
}

func (suite *MembershipRepoTestSuite) TestGetByUserAndSociety_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM society_members\s+WHERE user_id = \$1 AND society_id = \$2`).
		WithArgs(suite.userID, suite.societyID).
		WillReturnError(pgx.ErrNoRows)

	// Missing membership is (nil, nil); the access service maps it to
	// AccessDenied.
	m, err := suite.repo.GetByUserAndSociety(suite.context, suite.userID, suite.societyID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), m)
}

func (suite *MembershipRepoTestSuite) TestListByUser() {
	now := time.Now()
	otherSocietyID := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "user_id", "society_id", "role", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.userID, suite.societyID, models.RoleStaff, now, now).
		AddRow(uuid.New(), suite.userID, otherSocietyID, models.RoleReadOnly, now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM society_members\s+WHERE user_id = \$1`).
		WithArgs(suite.userID).
		WillReturnRows(rows)

	memberships, err := suite.repo.ListByUser(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), memberships, 2)
	assert.Equal(suite.T(), suite.societyID, memberships[0].SocietyID)
	assert.Equal(suite.T(), otherSocietyID, memberships[1].SocietyID)
}

func (suite *MembershipRepoTestSuite) TestDelete() {
	suite.mock.ExpectExec(`DELETE FROM society_members WHERE user_id = \$1 AND society_id = \$2`).
		WithArgs(suite.userID, suite.societyID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.userID, suite.societyID)
	assert.NoError(suite.T(), err)
}
