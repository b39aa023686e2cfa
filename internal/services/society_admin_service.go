package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// SocietyAdminService covers the operator console: managing societies,
// their staff assignments and platform user accounts. These operations
// are unscoped; they only require an authenticated actor.
type SocietyAdminService interface {
	CreateSociety(ctx context.Context, req *CreateSocietyRequest) (*models.Society, error)
	UpdateSociety(ctx context.Context, req *UpdateSocietyRequest) (*models.Society, error)
	DeleteSociety(ctx context.Context, id uuid.UUID) error
	GetSociety(ctx context.Context, id uuid.UUID) (*models.Society, error)
	ListSocieties(ctx context.Context, limit, offset int) ([]*models.Society, error)

	AssignStaff(ctx context.Context, societyID, userID uuid.UUID, role string) (*models.SocietyMember, error)
	RemoveStaff(ctx context.Context, societyID, userID uuid.UUID) error
	ListStaff(ctx context.Context, societyID uuid.UUID) ([]*models.SocietyMember, error)

	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

type societyAdminService struct {
	societyRepo    repositories.SocietyRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	access         AccessService
	audit          AuditService
}

func NewSocietyAdminService(
	societyRepo repositories.SocietyRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	access AccessService,
	audit AuditService,
) SocietyAdminService {
	return &societyAdminService{
		societyRepo:    societyRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		access:         access,
		audit:          audit,
	}
}

type CreateSocietyRequest struct {
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	ContactEmail string `json:"contact_email"`
	BillingEmail string `json:"billing_email"`
}

type UpdateSocietyRequest struct {
	ID           uuid.UUID `json:"-"`
	Name         string    `json:"name"`
	ShortName    string    `json:"short_name"`
	ContactEmail string    `json:"contact_email"`
	BillingEmail string    `json:"billing_email"`
	Status       string    `json:"status"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *societyAdminService) CreateSociety(ctx context.Context, req *CreateSocietyRequest) (*models.Society, error) {
	actorID, err := s.access.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}

	now := time.Now()
	society := &models.Society{
		ID:           uuid.New(),
		Name:         req.Name,
		ShortName:    req.ShortName,
		ContactEmail: req.ContactEmail,
		BillingEmail: req.BillingEmail,
		Status:       models.SocietyStatusActive,
		MailProvider: models.MailProviderConsole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.societyRepo.Create(ctx, society); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &society.ID,
		ActorUserID:  &actorID,
		ResourceType: models.ResourceSociety,
		ResourceID:   society.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"name": society.Name, "status": society.Status},
	})
	return society, nil
}

func (s *societyAdminService) UpdateSociety(ctx context.Context, req *UpdateSocietyRequest) (*models.Society, error) {
	actorID, err := s.access.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	society, err := s.societyRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, common.NotFound("society")
	}

	before := models.JSONB{"name": society.Name, "status": society.Status}
	if req.Name != "" {
		society.Name = req.Name
	}
	if req.ShortName != "" {
		society.ShortName = req.ShortName
	}
	if req.ContactEmail != "" {
		society.ContactEmail = req.ContactEmail
	}
	if req.BillingEmail != "" {
		society.BillingEmail = req.BillingEmail
	}
	if req.Status != "" {
		if req.Status != models.SocietyStatusActive && req.Status != models.SocietyStatusInactive {
			return nil, common.Validation("status must be ACTIVE or INACTIVE")
		}
		society.Status = req.Status
	}
	society.UpdatedAt = time.Now()

	if err := s.societyRepo.Update(ctx, society); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &society.ID,
		ActorUserID:  &actorID,
		ResourceType: models.ResourceSociety,
		ResourceID:   society.ID.String(),
		Action:       "UPDATE",
		Before:       before,
		After:        models.JSONB{"name": society.Name, "status": society.Status},
	})
	return society, nil
}

func (s *societyAdminService) DeleteSociety(ctx context.Context, id uuid.UUID) error {
	actorID, err := s.access.RequireActor(ctx)
	if err != nil {
		return err
	}

	society, err := s.societyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if society == nil {
		return common.NotFound("society")
	}

	if err := s.societyRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorUserID:  &actorID,
		ResourceType: models.ResourceSociety,
		ResourceID:   id.String(),
		Action:       "DELETE",
		Before:       models.JSONB{"name": society.Name},
	})
	return nil
}

func (s *societyAdminService) GetSociety(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	if _, err := s.access.RequireActor(ctx); err != nil {
		return nil, err
	}
	society, err := s.societyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, common.NotFound("society")
	}
	return society, nil
}

func (s *societyAdminService) ListSocieties(ctx context.Context, limit, offset int) ([]*models.Society, error) {
	if _, err := s.access.RequireActor(ctx); err != nil {
		return nil, err
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.societyRepo.List(ctx, limit, offset)
}

func (s *societyAdminService) AssignStaff(ctx context.Context, societyID, userID uuid.UUID, role string) (*models.SocietyMember, error) {
	actorID, err := s.access.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, common.Validationf("unknown role %q", role)
	}

	society, err := s.societyRepo.GetByID(ctx, societyID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, common.NotFound("society")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NotFound("user")
	}

	now := time.Now()
	membership := &models.SocietyMember{
		ID:        uuid.New(),
		UserID:    userID,
		SocietyID: societyID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.membershipRepo.Upsert(ctx, membership); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &actorID,
		ResourceType: models.ResourceSocietyMember,
		ResourceID:   userID.String(),
		Action:       "ASSIGN",
		After:        models.JSONB{"user_id": userID.String(), "role": role},
	})
	return membership, nil
}

func (s *societyAdminService) RemoveStaff(ctx context.Context, societyID, userID uuid.UUID) error {
	actorID, err := s.access.RequireActor(ctx)
	if err != nil {
		return err
	}

	membership, err := s.membershipRepo.GetByUserAndSociety(ctx, userID, societyID)
	if err != nil {
		return err
	}
	if membership == nil {
		return common.NotFound("staff assignment")
	}

	if err := s.membershipRepo.Delete(ctx, userID, societyID); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &actorID,
		ResourceType: models.ResourceSocietyMember,
		ResourceID:   userID.String(),
		Action:       "REMOVE",
		Before:       models.JSONB{"user_id": userID.String(), "role": membership.Role},
	})
	return nil
}

func (s *societyAdminService) ListStaff(ctx context.Context, societyID uuid.UUID) ([]*models.SocietyMember, error) {
	if _, err := s.access.RequireActor(ctx); err != nil {
		return nil, err
	}
	return s.membershipRepo.ListBySociety(ctx, societyID)
}

func (s *societyAdminService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	actorID, err := s.access.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateEmail(req.Email, "email"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if len(req.Password) < 8 {
		return nil, common.Validation("password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.Validation("a user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Status:       models.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorUserID:  &actorID,
		ResourceType: models.ResourceUser,
		ResourceID:   user.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"email": user.Email, "name": user.Name},
	})
	return user, nil
}

func (s *societyAdminService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if _, err := s.access.RequireActor(ctx); err != nil {
		return nil, err
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.userRepo.List(ctx, limit, offset)
}
