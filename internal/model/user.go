package model

import "time"

// User is a directory entry. Email is the lookup key for approver resolution.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	UserName       string    `json:"userName,omitempty"`
	RoleName       string    `json:"roleName"`
	DepartmentName string    `json:"departmentName"`
	Photo          string    `json:"photo,omitempty"`
	TenantID       int64     `json:"tenantId"`
	IsActive       bool      `json:"isActive"`
	IsVendor       bool      `json:"isVendor"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
