package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/database"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
)

// CategoryRepository handles category data operations
type CategoryRepository struct {
	db *database.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `
	id, name, description,
	client_id, tenant_id, company_id, branch_id,
	created_at, created_by, updated_at, updated_by,
	is_deleted, deleted_by
`

// Create inserts a category and fills in its id and timestamps
func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories
		    (name, description, client_id, tenant_id, company_id, branch_id,
		     created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.Name,
		c.Description,
		c.ClientID,
		c.TenantID,
		c.CompanyID,
		c.BranchID,
		c.CreatedBy,
		c.UpdatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeConflict, "category name already exists")
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create category")
	}
	return nil
}

// Update overwrites the editable fields of a live category
func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET name        = $3,
		    description = $4,
		    client_id   = $5,
		    company_id  = $6,
		    branch_id   = $7,
		    updated_by  = $8,
		    updated_at  = $9
		WHERE id = $1
		  AND tenant_id = $2
		  AND is_deleted = FALSE
		RETURNING created_at, created_by, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		c.ID,
		c.TenantID,
		c.Name,
		c.Description,
		c.ClientID,
		c.CompanyID,
		c.BranchID,
		c.UpdatedBy,
		c.UpdatedAt,
	).Scan(&c.CreatedAt, &c.CreatedBy, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound("category", c.ID)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeConflict, "category name already exists")
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to update category")
	}
	return nil
}

// GetByID retrieves a live category within a tenant
func (r *CategoryRepository) GetByID(ctx context.Context, id, tenantID int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1 AND tenant_id = $2 AND is_deleted = FALSE
	`

	c, err := scanCategory(r.db.QueryRow(ctx, query, id, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NotFound("category", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get category")
	}
	return c, nil
}

// List returns the live categories of a tenant ordered by name
func (r *CategoryRepository) List(ctx context.Context, tenantID int64) ([]*model.Category, error) {
	query := `SELECT ` + categoryColumns + `
		FROM categories
		WHERE tenant_id = $1 AND is_deleted = FALSE
		ORDER BY name ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list categories")
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list categories")
	}
	return categories, nil
}

// SoftDelete flags a category as deleted
func (r *CategoryRepository) SoftDelete(ctx context.Context, id, tenantID, deletedBy int64) error {
	query := `
		UPDATE categories
		SET is_deleted = TRUE,
		    deleted_by = $3,
		    updated_by = $3,
		    updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND is_deleted = FALSE
		RETURNING id
	`

	var returnedID int64
	err := r.db.QueryRow(ctx, query, id, tenantID, deletedBy).Scan(&returnedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.NotFound("category", id)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete category")
	}
	return nil
}

// ── scan helper ───────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	c := &model.Category{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.ClientID,
		&c.TenantID,
		&c.CompanyID,
		&c.BranchID,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.UpdatedAt,
		&c.UpdatedBy,
		&c.IsDeleted,
		&c.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
