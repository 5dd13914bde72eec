package repository

import (
	"context"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/database"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
)

// UserRepository reads the user directory
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListActive returns the active users of a tenant, joined with their role
// and department names, in id order.
func (r *UserRepository) ListActive(ctx context.Context, tenantID int64) ([]model.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.user_name,
		       COALESCE(ro.name, ''), COALESCE(d.name, ''),
		       COALESCE(u.photo_url, ''), u.tenant_id,
		       u.is_active, u.is_vendor,
		       u.created_at, u.updated_at
		FROM users u
		LEFT JOIN roles ro ON ro.id = u.role_id
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE u.tenant_id = $1 AND u.is_active = TRUE
		ORDER BY u.id ASC
	`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list users")
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.Name,
			&u.UserName,
			&u.RoleName,
			&u.DepartmentName,
			&u.Photo,
			&u.TenantID,
			&u.IsActive,
			&u.IsVendor,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan user")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to list users")
	}
	return users, nil
}
