package repositories

import (
	"context"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type ShipmentRepository interface {
	CreateBatch(ctx context.Context, batch *models.ShipmentBatch) error
	CreateRecipients(ctx context.Context, recipients []*models.ShipmentRecipient) error
	GetBatch(ctx context.Context, societyID, id uuid.UUID) (*models.ShipmentBatch, error)
	ListBatches(ctx context.Context, societyID uuid.UUID) ([]*models.ShipmentBatch, error)
	CountBatches(ctx context.Context, societyID uuid.UUID) (int, error)
	GetRecipient(ctx context.Context, societyID, batchID, recipientID uuid.UUID) (*models.ShipmentRecipient, error)
	ListRecipients(ctx context.Context, batchID uuid.UUID) ([]*models.ShipmentRecipient, error)
	UpdateRecipientStatus(ctx context.Context, recipientID uuid.UUID, status string) error
}

type shipmentRepo struct {
	db Database
}

func NewShipmentRepo(db Database) ShipmentRepository {
	return &shipmentRepo{db: db}
}

func (r *shipmentRepo) CreateBatch(ctx context.Context, batch *models.ShipmentBatch) error {
	query := `
		INSERT INTO shipment_batches (id, society_id, type, title, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, batch.ID, batch.SocietyID, batch.Type, batch.Title, batch.CreatedByID)
	return err
}

func (r *shipmentRepo) CreateRecipients(ctx context.Context, recipients []*models.ShipmentRecipient) error {
	query := `
		INSERT INTO shipment_recipients (id, batch_id, member_id, address_snapshot, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	for _, rec := range recipients {
		if _, err := r.db.Exec(ctx, query, rec.ID, rec.BatchID, rec.MemberID, rec.AddressSnapshot, rec.Status); err != nil {
			return err
		}
	}
	return nil
}

func (r *shipmentRepo) GetBatch(ctx context.Context, societyID, id uuid.UUID) (*models.ShipmentBatch, error) {
	b := &models.ShipmentBatch{}
	query := `
		SELECT id, society_id, type, title, created_by_id, created_at
		FROM shipment_batches
		WHERE society_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, societyID, id).Scan(&b.ID, &b.SocietyID, &b.Type, &b.Title,
		&b.CreatedByID, &b.CreatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *shipmentRepo) ListBatches(ctx context.Context, societyID uuid.UUID) ([]*models.ShipmentBatch, error) {
	query := `
		SELECT b.id, b.society_id, b.type, b.title, b.created_by_id, b.created_at,
			COUNT(rcp.id) AS recipient_count
		FROM shipment_batches b
		LEFT JOIN shipment_recipients rcp ON rcp.batch_id = b.id
		WHERE b.society_id = $1
		GROUP BY b.id
		ORDER BY b.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, societyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.ShipmentBatch
	for rows.Next() {
		b := &models.ShipmentBatch{}
		if err := rows.Scan(&b.ID, &b.SocietyID, &b.Type, &b.Title, &b.CreatedByID, &b.CreatedAt,
			&b.RecipientCount); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (r *shipmentRepo) CountBatches(ctx context.Context, societyID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM shipment_batches WHERE society_id = $1`, societyID).Scan(&count)
	return count, err
}

func (r *shipmentRepo) GetRecipient(ctx context.Context, societyID, batchID, recipientID uuid.UUID) (*models.ShipmentRecipient, error) {
	rec := &models.ShipmentRecipient{}
	query := `
		SELECT rcp.id, rcp.batch_id, rcp.member_id, rcp.address_snapshot, rcp.status, rcp.created_at
		FROM shipment_recipients rcp
		JOIN shipment_batches b ON b.id = rcp.batch_id
		WHERE b.society_id = $1 AND rcp.batch_id = $2 AND rcp.id = $3
	`
	err := r.db.QueryRow(ctx, query, societyID, batchID, recipientID).Scan(&rec.ID, &rec.BatchID,
		&rec.MemberID, &rec.AddressSnapshot, &rec.Status, &rec.CreatedAt)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *shipmentRepo) ListRecipients(ctx context.Context, batchID uuid.UUID) ([]*models.ShipmentRecipient, error) {
	query := `
		SELECT rcp.id, rcp.batch_id, rcp.member_id, rcp.address_snapshot, rcp.status, rcp.created_at,
			m.member_no, m.name
		FROM shipment_recipients rcp
		JOIN members m ON m.id = rcp.member_id
		WHERE rcp.batch_id = $1
		ORDER BY m.member_no ASC
	`
	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []*models.ShipmentRecipient
	for rows.Next() {
		rec := &models.ShipmentRecipient{Member: &models.Member{}}
		if err := rows.Scan(&rec.ID, &rec.BatchID, &rec.MemberID, &rec.AddressSnapshot, &rec.Status,
			&rec.CreatedAt, &rec.Member.MemberNo, &rec.Member.Name); err != nil {
			return nil, err
		}
		rec.Member.ID = rec.MemberID
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

func (r *shipmentRepo) UpdateRecipientStatus(ctx context.Context, recipientID uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE shipment_recipients SET status = $1 WHERE id = $2`, status, recipientID)
	return err
}
