package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for integration tests.
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection against the test database.
// Tests using it should skip in short mode.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=gakkaihub_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestSociety inserts a society and returns its id.
func SetupTestSociety(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	societyID := uuid.New()
	query := `
		INSERT INTO societies (id, name, short_name, contact_email, billing_email, status, mail_provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, societyID,
		"テスト学会", "test-society", "office@test-society.example.org", "billing@test-society.example.org",
		models.SocietyStatusActive, models.MailProviderConsole)
	if err != nil {
		t.Fatalf("Failed to create test society: %v", err)
	}

	return societyID
}

// SetupTestUser inserts an active platform user and returns its id.
func SetupTestUser(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	query := `
		INSERT INTO users (id, email, name, password_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, userID,
		fmt.Sprintf("user-%s@example.org", userID.String()[:8]), "Test User", "x", models.UserStatusActive)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// SetupTestMembership grants the user a role in the society.
func SetupTestMembership(t *testing.T, db *TestDB, userID, societyID uuid.UUID, role string) {
	t.Helper()

	query := `
		INSERT INTO society_members (id, user_id, society_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, society_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
	`
	if _, err := db.Pool.Exec(context.Background(), query, uuid.New(), userID, societyID, role); err != nil {
		t.Fatalf("Failed to create test membership: %v", err)
	}
}

// SetupTestMember inserts an active society member and returns it.
func SetupTestMember(t *testing.T, db *TestDB, societyID uuid.UUID, memberNo string) *models.Member {
	t.Helper()

	member := &models.Member{
		ID:          uuid.New(),
		SocietyID:   societyID,
		MemberNo:    memberNo,
		Name:        "田中太郎",
		Affiliation: "名古屋大学",
		Address:     "名古屋市千種区不老町",
		Email:       fmt.Sprintf("member-%s@example.org", memberNo),
		MemberType:  "REGULAR",
		Status:      models.MemberStatusActive,
		JoinedAt:    time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	query := `
		INSERT INTO members (id, society_id, member_no, name, kana, affiliation, address, email, phone,
			member_type, position, status, joined_at, left_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, member.ID, member.SocietyID, member.MemberNo,
		member.Name, member.Kana, member.Affiliation, member.Address, member.Email, member.Phone,
		member.MemberType, member.Position, member.Status, member.JoinedAt, member.LeftAt)
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return member
}
