package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// SettingsService covers society-side administration: the service plan,
// outbound mail settings and staff managed from inside the society.
type SettingsService interface {
	UpsertPlan(ctx context.Context, societyID uuid.UUID, req *PlanRequest) (*models.SocietyPlan, error)
	GetPlan(ctx context.Context, societyID uuid.UUID) (*models.SocietyPlan, error)

	UpdateMailSettings(ctx context.Context, societyID uuid.UUID, req *MailSettingsRequest) (*models.Society, error)

	AssignStaff(ctx context.Context, societyID, userID uuid.UUID, role string) (*models.SocietyMember, error)
	ListStaff(ctx context.Context, societyID uuid.UUID) ([]*models.SocietyMember, error)
}

type settingsService struct {
	planRepo       repositories.PlanRepository
	societyRepo    repositories.SocietyRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	access         AccessService
	audit          AuditService
}

func NewSettingsService(
	planRepo repositories.PlanRepository,
	societyRepo repositories.SocietyRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	access AccessService,
	audit AuditService,
) SettingsService {
	return &settingsService{
		planRepo:       planRepo,
		societyRepo:    societyRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		access:         access,
		audit:          audit,
	}
}

type PlanRequest struct {
	PlanName          string  `json:"plan_name"`
	ElectionSupport   bool    `json:"election_support"`
	ShipmentSupport   bool    `json:"shipment_support"`
	CommitteeSupport  bool    `json:"committee_support"`
	AccountingSupport bool    `json:"accounting_support"`
	MonthlyFee        int64   `json:"monthly_fee"`
	StartDate         string  `json:"start_date"` // YYYY-MM-DD
	EndDate           *string `json:"end_date"`
}

type MailSettingsRequest struct {
	Provider    string  `json:"provider"`
	MailFrom    *string `json:"mail_from"`
	SMTPHost    *string `json:"smtp_host"`
	SMTPPort    *int    `json:"smtp_port"`
	SMTPSecure  bool    `json:"smtp_secure"`
	SMTPUser    *string `json:"smtp_user"`
	SMTPPass    *string `json:"smtp_pass"`
	GmailSender *string `json:"gmail_sender"`
}

func (s *settingsService) UpsertPlan(ctx context.Context, societyID uuid.UUID, req *PlanRequest) (*models.SocietyPlan, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.PlanName, "plan_name"); err != nil {
		return nil, err
	}
	startDate, err := common.ValidateDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	plan := &models.SocietyPlan{
		ID:                uuid.New(),
		SocietyID:         societyID,
		PlanName:          req.PlanName,
		ElectionSupport:   req.ElectionSupport,
		ShipmentSupport:   req.ShipmentSupport,
		CommitteeSupport:  req.CommitteeSupport,
		AccountingSupport: req.AccountingSupport,
		MonthlyFee:        req.MonthlyFee,
		StartDate:         startDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.EndDate != nil && *req.EndDate != "" {
		endDate, err := common.ValidateDate(*req.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
		plan.EndDate = &endDate
	}

	if err := s.planRepo.Upsert(ctx, plan); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourcePlan,
		ResourceID:   societyID.String(),
		Action:       "UPSERT",
		After:        models.JSONB{"plan_name": plan.PlanName, "monthly_fee": plan.MonthlyFee},
	})
	return plan, nil
}

func (s *settingsService) GetPlan(ctx context.Context, societyID uuid.UUID) (*models.SocietyPlan, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetBySociety(ctx, societyID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, common.NotFound("society plan")
	}
	return plan, nil
}

func (s *settingsService) UpdateMailSettings(ctx context.Context, societyID uuid.UUID, req *MailSettingsRequest) (*models.Society, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	switch req.Provider {
	case models.MailProviderConsole, models.MailProviderSMTP, models.MailProviderGmailAPI:
	default:
		return nil, common.Validationf("unknown mail provider %q", req.Provider)
	}

	society, err := s.societyRepo.GetByID(ctx, societyID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, common.NotFound("society")
	}

	before := society.MailProvider
	society.MailProvider = req.Provider
	society.MailFrom = req.MailFrom
	society.SMTPHost = req.SMTPHost
	society.SMTPPort = req.SMTPPort
	society.SMTPSecure = req.SMTPSecure
	society.SMTPUser = req.SMTPUser
	if req.SMTPPass != nil {
		society.SMTPPass = req.SMTPPass
	}
	society.GmailSender = req.GmailSender
	society.UpdatedAt = time.Now()

	if err := s.societyRepo.UpdateMailSettings(ctx, society); err != nil {
		return nil, err
	}

	// Credentials never go into the audit trail.
	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceSociety,
		ResourceID:   societyID.String(),
		Action:       "UPDATE_MAIL_SETTINGS",
		Before:       models.JSONB{"provider": before},
		After:        models.JSONB{"provider": req.Provider},
	})
	return society, nil
}

func (s *settingsService) AssignStaff(ctx context.Context, societyID, userID uuid.UUID, role string) (*models.SocietyMember, error) {
	actor, err := s.access.RequireAccess(ctx, societyID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, common.Validationf("unknown role %q", role)
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
		ActorUserID:  &actor.UserID,
		ResourceType: models.ResourceSocietyMember,
		ResourceID:   userID.String(),
		Action:       "ASSIGN",
		After:        models.JSONB{"user_id": userID.String(), "role": role},
	})
	return membership, nil
}

func (s *settingsService) ListStaff(ctx context.Context, societyID uuid.UUID) ([]*models.SocietyMember, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.membershipRepo.ListBySociety(ctx, societyID)
}
