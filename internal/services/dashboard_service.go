package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gakkaihub/internal/caching"
	"gakkaihub/internal/models"
	"gakkaihub/internal/repositories"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardService aggregates the per-society headline counts, cached in
// redis with a short TTL since the numbers only feed a summary screen.
type DashboardService interface {
	Summary(ctx context.Context, societyID uuid.UUID) (*models.DashboardSummary, error)
}

type dashboardService struct {
	memberRepo   repositories.MemberRepository
	invoiceRepo  repositories.InvoiceRepository
	meetingRepo  repositories.MeetingRepository
	shipmentRepo repositories.ShipmentRepository
	cache        caching.CacheService
	access       AccessService
}

func NewDashboardService(
	memberRepo repositories.MemberRepository,
	invoiceRepo repositories.InvoiceRepository,
	meetingRepo repositories.MeetingRepository,
	shipmentRepo repositories.ShipmentRepository,
	cache caching.CacheService,
	access AccessService,
) DashboardService {
	return &dashboardService{
		memberRepo:   memberRepo,
		invoiceRepo:  invoiceRepo,
		meetingRepo:  meetingRepo,
		shipmentRepo: shipmentRepo,
		cache:        cache,
		access:       access,
	}
}

func (s *dashboardService) Summary(ctx context.Context, societyID uuid.UUID) (*models.DashboardSummary, error) {
	if _, err := s.access.RequireAccess(ctx, societyID, models.RoleReadOnly); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.GetDashboardSummary(ctx, societyID); err == nil && cached != nil {
			return cached, nil
		}
	}

	activeMembers, err := s.memberRepo.CountActive(ctx, societyID)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.invoiceRepo.CountUnpaid(ctx, societyID)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.meetingRepo.CountUpcoming(ctx, societyID, time.Now())
	if err != nil {
		return nil, err
	}
	batches, err := s.shipmentRepo.CountBatches(ctx, societyID)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		ActiveMembers:    activeMembers,
		UnpaidInvoices:   unpaid,
		UpcomingMeetings: upcoming,
		ShipmentBatches:  batches,
	}
	if s.cache != nil {
		_ = s.cache.SetDashboardSummary(ctx, societyID, summary, dashboardCacheTTL)
	}
	return summary, nil
}
