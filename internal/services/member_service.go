package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

// MemberService manages a society's roster. Members are the society's own
// constituents and are unrelated to platform user accounts.
type MemberService interface {
	Create(ctx context.Context, societyID uuid.UUID, req *MemberRequest) (*models.Member, error)
	Update(ctx context.Context, societyID, memberID uuid.UUID, req *MemberRequest) (*models.Member, error)
	Get(ctx context.Context, societyID, memberID uuid.UUID) (*models.Member, error)
	List(ctx context.Context, societyID uuid.UUID, filters *models.MemberFilters) ([]*models.Member, error)
	ExportCSV(ctx context.Context, societyID uuid.UUID, filters *models.MemberFilters) (string, error)
}

type memberService struct {
	memberRepo  repositories.MemberRepository
	invoiceRepo repositories.InvoiceRepository
	access      AccessService
	audit       AuditService
}

func NewMemberService(memberRepo repositories.MemberRepository, invoiceRepo repositories.InvoiceRepository, access AccessService, audit AuditService) MemberService {
	return &memberService{memberRepo: memberRepo, invoiceRepo: invoiceRepo, access: access, audit: audit}
}

type MemberRequest struct {
	MemberNo    string  `json:"member_no"`
	Name        string  `json:"name"`
	Kana        *string `json:"kana"`
	Affiliation string  `json:"affiliation"`
	Address     string  `json:"address"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	MemberType  string  `json:"member_type"`
	Position    *string `json:"position"`
	Status      string  `json:"status"`
	JoinedAt    string  `json:"joined_at"` // YYYY-MM-DD
	LeftAt      *string `json:"left_at"`
}

func (r *MemberRequest) validate() error {
	if err := common.ValidateRequiredString(r.MemberNo, "member_no"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(r.Name, "name"); err != nil {
		return err
	}
	if r.Email != "" {
		if err := common.ValidateEmail(r.Email, "email"); err != nil {
			return err
		}
	}
	if r.Status != "" && r.Status != models.MemberStatusActive && r.Status != models.MemberStatusInactive {
		return common.Validation("status must be ACTIVE or INACTIVE")
	}
	return nil
}

func (s *memberService) Create(ctx context.Context, societyID uuid.UUID, req *MemberRequest) (*models.Member, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	joinedAt := time.Now()
	if req.JoinedAt != "" {
		joinedAt, err = common.ValidateDate(req.JoinedAt, "joined_at")
		if err != nil {
			return nil, err
		}
	}
	status := req.Status
	if status == "" {
		status = models.MemberStatusActive
	}

	now := time.Now()
	member := &models.Member{
		ID:          uuid.New(),
		SocietyID:   societyID,
		MemberNo:    req.MemberNo,
		Name:        req.Name,
		Kana:        req.Kana,
		Affiliation: req.Affiliation,
		Address:     req.Address,
		Email:       req.Email,
		Phone:       req.Phone,
		MemberType:  req.MemberType,
		Position:    req.Position,
		Status:      status,
		JoinedAt:    joinedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.LeftAt != nil && *req.LeftAt != "" {
		leftAt, err := common.ValidateDate(*req.LeftAt, "left_at")
		if err != nil {
			return nil, err
		}
		member.LeftAt = &leftAt
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceMember,
		ResourceID:   member.ID.String(),
		Action:       "CREATE",
		After:        models.JSONB{"member_no": member.MemberNo, "name": member.Name, "status": member.Status},
	})
	return member, nil
}

func (s *memberService) Update(ctx context.Context, societyID, memberID uuid.UUID, req *MemberRequest) (*models.Member, error) {
	membership, err := s.access.RequireAccess(ctx, societyID, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, societyID, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, common.NotFound("member")
	}

	before := models.JSONB{"member_no": member.MemberNo, "name": member.Name, "status": member.Status}
	member.MemberNo = req.MemberNo
	member.Name = req.Name
	member.Kana = req.Kana
	member.Affiliation = req.Affiliation
	member.Address = req.Address
	member.Email = req.Email
	member.Phone = req.Phone
	member.MemberType = req.MemberType
	member.Position = req.Position
	if req.Status != "" {
		member.Status = req.Status
	}
	if req.JoinedAt != "" {
		joinedAt, err := common.ValidateDate(req.JoinedAt, "joined_at")
		if err != nil {
			return nil, err
		}
		member.JoinedAt = joinedAt
	}
	if req.LeftAt != nil {
		if *req.LeftAt == "" {
			member.LeftAt = nil
		} else {
			leftAt, err := common.ValidateDate(*req.LeftAt, "left_at")
			if err != nil {
				return nil, err
			}
			member.LeftAt = &leftAt
		}
	}
	member.UpdatedAt = time.Now()

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		SocietyID:    &societyID,
		ActorUserID:  &membership.UserID,
		ResourceType: models.ResourceMember,
		ResourceID:   member.ID.String(),
		Action:       "UPDATE",
		Before:       before,
		After:        models.JSONB{"member_no": member.MemberNo, "name": member.Name, "status": member.Status},
	})
	return member, nil
}

func (s *memberService) Get(ctx context.Context, societyID, memberID uuid.UUID) (*models.Member, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	member, err := s.memberRepo.GetByID(ctx, societyID, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, common.NotFound("member")
	}
	invoices, err := s.invoiceRepo.List(ctx, societyID, &models.InvoiceFilters{MemberID: memberID})
	if err != nil {
		return nil, err
	}
	member.Invoices = invoices
	return member, nil
}

func (s *memberService) List(ctx context.Context, societyID uuid.UUID, filters *models.MemberFilters) ([]*models.Member, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.memberRepo.List(ctx, societyID, filters)
}

func (s *memberService) ExportCSV(ctx context.Context, societyID uuid.UUID, filters *models.MemberFilters) (string, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return "", err
	}
	members, err := s.memberRepo.List(ctx, societyID, filters)
	if err != nil {
		return "", err
	}

	headers := []string{"member_no", "name", "kana", "affiliation", "address", "email", "phone", "member_type", "position", "status", "joined_at", "left_at"}
	rows := make([]map[string]string, 0, len(members))
	for _, m := range members {
		leftAt := ""
		if m.LeftAt != nil {
			leftAt = m.LeftAt.Format("2006-01-02")
		}
		rows = append(rows, map[string]string{
			"member_no":   m.MemberNo,
			"name":        m.Name,
			"kana":        common.SafeString(m.Kana),
			"affiliation": m.Affiliation,
			"address":     m.Address,
			"email":       m.Email,
			"phone":       common.SafeString(m.Phone),
			"member_type": m.MemberType,
			"position":    common.SafeString(m.Position),
			"status":      m.Status,
			"joined_at":   m.JoinedAt.Format("2006-01-02"),
			"left_at":     leftAt,
		})
	}
	return common.ToCSV(headers, rows), nil
}
