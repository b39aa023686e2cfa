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

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      InvoiceRepository
	societyID uuid.UUID
	memberID  uuid.UUID
	context   context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.societyID = uuid.New()
	suite.memberID = uuid.New()
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) newInvoice() *models.Invoice {
	return &models.Invoice{
		ID:         uuid.New(),
		SocietyID:  suite.societyID,
		MemberID:   suite.memberID,
		FiscalYear: 2026,
		Amount:     10000,
		DueDate:    time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		Status:     models.InvoiceStatusDraft,
	}
}

func (suite *InvoiceRepoTestSuite) TestCreateIfAbsent_Inserted() {
	inv := suite.newInvoice()

	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(inv.ID, inv.SocietyID, inv.MemberID, inv.FiscalYear, inv.Amount, inv.DueDate, inv.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := suite.repo.CreateIfAbsent(suite.context, inv)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), created)
}

func (suite *InvoiceRepoTestSuite) TestCreateIfAbsent_Conflict() {
	inv := suite.newInvoice()

	// ON CONFLICT DO NOTHING reports zero rows affected, not an error.
	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(inv.ID, inv.SocietyID, inv.MemberID, inv.FiscalYear, inv.Amount, inv.DueDate, inv.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := suite.repo.CreateIfAbsent(suite.context, inv)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), created)
}

func (suite *InvoiceRepoTestSuite) TestGetByID() {
	invoiceID := uuid.New()
	now := time.Now()
	dueDate := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "society_id", "member_id", "fiscal_year", "amount", "due_date", "status",
		"payment_method", "notes", "sent_at", "paid_at", "created_at", "updated_at",
	}).AddRow(invoiceID, suite.societyID, suite.memberID, 2026, int64(10000), dueDate,
		models.InvoiceStatusApproved, (*string)(nil), (*string)(nil), (*time.Time)(nil), (*time.Time)(nil), now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM invoices WHERE society_id = \$1 AND id = \$2`).
		WithArgs(suite.societyID, invoiceID).
		WillReturnRows(rows)

	inv, err := suite.repo.GetByID(suite.context, suite.societyID, invoiceID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), invoiceID, inv.ID)
	assert.Equal(suite.T(), 2026, inv.FiscalYear)
	assert.Equal(suite.T(), int64(10000), inv.Amount)
	assert.Equal(suite.T(), models.InvoiceStatusApproved, inv.Status)
	assert.Nil(suite.T(), inv.PaidAt)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	invoiceID := uuid.New()

	suite.mock.ExpectQuery(`SELECT (.+) FROM invoices WHERE society_id = \$1 AND id = \$2`).
		WithArgs(suite.societyID, invoiceID).
		WillReturnError(pgx.ErrNoRows)

	// Absence is (nil, nil); services turn it into a NotFound.
	inv, err := suite.repo.GetByID(suite.context, suite.societyID, invoiceID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), inv)
}

func (suite *InvoiceRepoTestSuite) TestUpdate() {
	inv := suite.newInvoice()
	inv.Status = models.InvoiceStatusPaid
	paidAt := time.Now()
	inv.PaidAt = &paidAt

	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(inv.Amount, inv.DueDate, inv.Status, inv.PaymentMethod, inv.Notes,
			inv.SentAt, inv.PaidAt, inv.SocietyID, inv.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, inv)
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestListDueBefore() {
	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	statuses := []string{models.InvoiceStatusApproved, models.InvoiceStatusSent}
	now := time.Now()
	dueDate := cutoff.AddDate(0, -1, 0)

	rows := pgxmock.NewRows([]string{
		"id", "society_id", "member_id", "fiscal_year", "amount", "due_date", "status",
		"payment_method", "notes", "sent_at", "paid_at", "created_at", "updated_at",
	}).
		AddRow(uuid.New(), suite.societyID, suite.memberID, 2026, int64(10000), dueDate,
			models.InvoiceStatusApproved, (*string)(nil), (*string)(nil), (*time.Time)(nil), (*time.Time)(nil), now, now).
		AddRow(uuid.New(), suite.societyID, uuid.New(), 2026, int64(10000), dueDate,
			models.InvoiceStatusSent, (*string)(nil), (*string)(nil), &now, (*time.Time)(nil), now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM invoices\s+WHERE society_id = \$1 AND due_date < \$2 AND status = ANY\(\$3\)`).
		WithArgs(suite.societyID, cutoff, statuses).
		WillReturnRows(rows)

	invoices, err := suite.repo.ListDueBefore(suite.context, suite.societyID, cutoff, statuses)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoices, 2)
	assert.Equal(suite.T(), models.InvoiceStatusApproved, invoices[0].Status)
	assert.Equal(suite.T(), models.InvoiceStatusSent, invoices[1].Status)
}

func (suite *InvoiceRepoTestSuite) TestCountUnpaid() {
	unpaid := []string{models.InvoiceStatusApproved, models.InvoiceStatusSent, models.InvoiceStatusOverdue}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices WHERE society_id = \$1 AND status = ANY\(\$2\)`).
		WithArgs(suite.societyID, unpaid).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := suite.repo.CountUnpaid(suite.context, suite.societyID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, count)
}
