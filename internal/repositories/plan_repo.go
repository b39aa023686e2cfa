package repositories

import (
	"context"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type PlanRepository interface {
	// Upsert inserts the plan or replaces the existing one; a society has
	// at most one plan row.
	Upsert(ctx context.Context, plan *models.SocietyPlan) error
	GetBySociety(ctx context.Context, societyID uuid.UUID) (*models.SocietyPlan, error)
}

type planRepo struct {
	db Database
}

func NewPlanRepo(db Database) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) Upsert(ctx context.Context, plan *models.SocietyPlan) error {
	query := `
		INSERT INTO society_plans (id, society_id, plan_name, election_support, shipment_support,
			committee_support, accounting_support, monthly_fee, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (society_id) DO UPDATE
		SET plan_name = EXCLUDED.plan_name, election_support = EXCLUDED.election_support,
			shipment_support = EXCLUDED.shipment_support, committee_support = EXCLUDED.committee_support,
			accounting_support = EXCLUDED.accounting_support, monthly_fee = EXCLUDED.monthly_fee,
			start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, plan.ID, plan.SocietyID, plan.PlanName, plan.ElectionSupport,
		plan.ShipmentSupport, plan.CommitteeSupport, plan.AccountingSupport, plan.MonthlyFee,
		plan.StartDate, plan.EndDate)
	return err
}

func (r *planRepo) GetBySociety(ctx context.Context, societyID uuid.UUID) (*models.SocietyPlan, error) {
	p := &models.SocietyPlan{}
	query := `
		SELECT id, society_id, plan_name, election_support, shipment_support, committee_support,
			accounting_support, monthly_fee, start_date, end_date, created_at, updated_at
		FROM society_plans
		WHERE society_id = $1
	`
	err := r.db.QueryRow(ctx, query, societyID).Scan(&p.ID, &p.SocietyID, &p.PlanName,
		&p.ElectionSupport, &p.ShipmentSupport, &p.CommitteeSupport, &p.AccountingSupport,
		&p.MonthlyFee, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
