package model

import "time"

// Category is a tenant-scoped catalog category. Deletion is a soft flag set
// by the service; the console never removes rows.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ClientID    int64     `json:"clientId"`
	TenantID    int64     `json:"tenantId"`
	CompanyID   int64     `json:"companyId"`
	BranchID    int64     `json:"branchId"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   int64     `json:"createdBy"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UpdatedBy   int64     `json:"updatedBy"`
	IsDeleted   bool      `json:"isdeleted"`
	DeletedBy   int64     `json:"deletedBy"`
}

// NewCategory returns the blank record the create form starts from
func NewCategory(now time.Time) Category {
	return Category{CreatedAt: now, UpdatedAt: now}
}

// IsNew reports whether the record has not been persisted yet
func (c *Category) IsNew() bool {
	return c.ID == 0
}
