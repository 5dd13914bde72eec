package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/database"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
)

// ApprovalFlowRepository stores approval flow definitions. Steps live in a
// JSONB array so their order is the array order.
type ApprovalFlowRepository struct {
	db *database.DB
}

// NewApprovalFlowRepository creates a new ApprovalFlowRepository.
func NewApprovalFlowRepository(db *database.DB) *ApprovalFlowRepository {
	return &ApprovalFlowRepository{db: db}
}

// GetByID retrieves a flow within a tenant
func (r *ApprovalFlowRepository) GetByID(ctx context.Context, id, tenantID int64) (*model.Flow, error) {
	query := `
		SELECT id, tenant_id, name, label, steps,
		       created_at, created_by, updated_at, updated_by
		FROM approval_flows
		WHERE id = $1 AND tenant_id = $2
	`

	f := &model.Flow{}
	var stepsJSON []byte
	err := r.db.QueryRow(ctx, query, id, tenantID).Scan(
		&f.ID,
		&f.TenantID,
		&f.Name,
		&f.Label,
		&stepsJSON,
		&f.CreatedAt,
		&f.CreatedBy,
		&f.UpdatedAt,
		&f.UpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NotFound("approval_flow", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get approval flow")
	}

	if len(stepsJSON) > 0 {
		if err := json.Unmarshal(stepsJSON, &f.Details.Steps); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to unmarshal approval steps")
		}
	}
	return f, nil
}

// Save replaces the name, label and steps of an existing flow, or inserts
// it when the id is zero.
func (r *ApprovalFlowRepository) Save(ctx context.Context, f *model.Flow) error {
	steps := f.Details.Steps
	if steps == nil {
		steps = []model.ApprovalStep{}
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal approval steps")
	}

	if f.ID == 0 {
		query := `
			INSERT INTO approval_flows
			    (tenant_id, name, label, steps, created_by, updated_by)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING id, created_at, created_by, updated_at
		`
		err = r.db.QueryRow(ctx, query, f.TenantID, f.Name, f.Label, stepsJSON, f.UpdatedBy).
			Scan(&f.ID, &f.CreatedAt, &f.CreatedBy, &f.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create approval flow")
		}
		return nil
	}

	query := `
		UPDATE approval_flows
		SET name       = $3,
		    label      = $4,
		    steps      = $5,
		    updated_by = $6,
		    updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, created_by, updated_at
	`
	err = r.db.QueryRow(ctx, query, f.ID, f.TenantID, f.Name, f.Label, stepsJSON, f.UpdatedBy).
		Scan(&f.CreatedAt, &f.CreatedBy, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound("approval_flow", f.ID)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to update approval flow")
	}
	return nil
}
