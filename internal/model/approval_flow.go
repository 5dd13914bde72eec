package model

import "time"

// ApprovalStep is one stage of an approval flow. Steps are ordered; the
// first step is approver 1.
type ApprovalStep struct {
	DefaultApproverEmail string `json:"defaultApproverEmail"`
	Role                 string `json:"role,omitempty"`
	Required             bool   `json:"required,omitempty"`
}

// FlowDetails is the ordered step list of a flow
type FlowDetails struct {
	Steps []ApprovalStep `json:"steps"`
}

// Flow is a stored approval flow definition
type Flow struct {
	ID        int64       `json:"id"`
	TenantID  int64       `json:"tenantId"`
	Name      string      `json:"name"`
	Label     string      `json:"label"`
	Details   FlowDetails `json:"flowDetails"`
	CreatedAt time.Time   `json:"createdAt"`
	CreatedBy int64       `json:"createdBy"`
	UpdatedAt time.Time   `json:"updatedAt"`
	UpdatedBy int64       `json:"updatedBy"`
}
