package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"gakkaihub/internal/models"

	"github.com/google/uuid"
)

type AuditLogsRepository interface {
	// Create appends one audit record. Records are never updated or
	// deleted through this repository.
	Create(ctx context.Context, log *models.AuditLog) error
	Recent(ctx context.Context, societyID uuid.UUID, limit int) ([]*models.AuditLog, error)
	ForResource(ctx context.Context, societyID uuid.UUID, resourceType, resourceID string, limit int) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db Database
}

func NewAuditLogsRepo(db Database) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func marshalJSONB(v models.JSONB) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalJSONB(data []byte) (models.JSONB, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v models.JSONB
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *auditLogsRepo) Create(ctx context.Context, log *models.AuditLog) error {
	beforeBytes, err := marshalJSONB(log.BeforeJSON)
	if err != nil {
		return fmt.Errorf("failed to marshal before_json: %w", err)
	}
	afterBytes, err := marshalJSONB(log.AfterJSON)
	if err != nil {
		return fmt.Errorf("failed to marshal after_json: %w", err)
	}
	metaBytes, err := marshalJSONB(log.MetaJSON)
	if err != nil {
		return fmt.Errorf("failed to marshal meta_json: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, society_id, actor_user_id, resource_type, resource_id, action, before_json, after_json, meta_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err = r.db.Exec(ctx, query, log.ID, log.SocietyID, log.ActorUserID, log.ResourceType,
		log.ResourceID, log.Action, beforeBytes, afterBytes, metaBytes)
	return err
}

func (r *auditLogsRepo) Recent(ctx context.Context, societyID uuid.UUID, limit int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, society_id, actor_user_id, resource_type, resource_id, action, before_json, after_json, meta_json, created_at
		FROM audit_logs
		WHERE society_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, societyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditLogs(rows)
}

func (r *auditLogsRepo) ForResource(ctx context.Context, societyID uuid.UUID, resourceType, resourceID string, limit int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, society_id, actor_user_id, resource_type, resource_id, action, before_json, after_json, meta_json, created_at
		FROM audit_logs
		WHERE society_id = $1 AND resource_type = $2 AND resource_id = $3
		ORDER BY created_at DESC
		LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, societyID, resourceType, resourceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditLogs(rows)
}

func scanAuditLogs(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.AuditLog, error) {
	var logs []*models.AuditLog
	for rows.Next() {
		l := &models.AuditLog{}
		var beforeBytes, afterBytes, metaBytes []byte
		if err := rows.Scan(&l.ID, &l.SocietyID, &l.ActorUserID, &l.ResourceType, &l.ResourceID,
			&l.Action, &beforeBytes, &afterBytes, &metaBytes, &l.CreatedAt); err != nil {
			return nil, err
		}
		var err error
		if l.BeforeJSON, err = unmarshalJSONB(beforeBytes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal before_json: %w", err)
		}
		if l.AfterJSON, err = unmarshalJSONB(afterBytes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal after_json: %w", err)
		}
		if l.MetaJSON, err = unmarshalJSONB(metaBytes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meta_json: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
