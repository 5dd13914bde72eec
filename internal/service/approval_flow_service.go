package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/pesio-ai/be-plt-settings/internal/approvalflow"
	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
	"github.com/pesio-ai/be-plt-settings/internal/platform/requestctx"
)

// FlowStore persists approval flow definitions
type FlowStore interface {
	GetByID(ctx context.Context, id, tenantID int64) (*model.Flow, error)
	Save(ctx context.Context, f *model.Flow) error
}

// UserStore reads the user directory
type UserStore interface {
	ListActive(ctx context.Context, tenantID int64) ([]model.User, error)
}

// FlowView is a flow rendered as approver cards
type FlowView struct {
	FlowID int64               `json:"flowId"`
	Label  string              `json:"label"`
	Cards  []approvalflow.Card `json:"cards"`
}

// ApprovalFlowService reads, saves and renders approval flows
type ApprovalFlowService struct {
	flows FlowStore
	users UserStore
	log   *logger.Logger
}

// NewApprovalFlowService creates a new ApprovalFlowService.
func NewApprovalFlowService(flows FlowStore, users UserStore, log *logger.Logger) *ApprovalFlowService {
	return &ApprovalFlowService{flows: flows, users: users, log: log}
}

// GetFlow returns a flow definition
func (s *ApprovalFlowService) GetFlow(ctx context.Context, id, tenantID int64) (*model.Flow, error) {
	return s.flows.GetByID(ctx, id, tenantID)
}

// ViewFlow renders a flow against the tenant's directory. Steps whose
// approver is not an active user of the tenant are left out.
func (s *ApprovalFlowService) ViewFlow(ctx context.Context, id, tenantID int64) (*FlowView, error) {
	flow, err := s.flows.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	cards := slices.Collect(approvalflow.Cards(approvalflow.NewDirectory(users), &flow.Details))
	if cards == nil {
		cards = []approvalflow.Card{}
	}

	if skipped := len(flow.Details.Steps) - len(cards); skipped > 0 {
		s.log.Debug().
			Int64("flow_id", id).
			Int("skipped_steps", skipped).
			Msg("Approval steps without a resolvable approver")
	}

	return &FlowView{FlowID: flow.ID, Label: flow.Label, Cards: cards}, nil
}

// SaveFlow validates and stores a flow definition
func (s *ApprovalFlowService) SaveFlow(ctx context.Context, f *model.Flow) (*model.Flow, error) {
	if f.Name == "" {
		return nil, errors.InvalidInput("name", "Flow name is required")
	}
	for i, step := range f.Details.Steps {
		if step.DefaultApproverEmail == "" {
			return nil, errors.InvalidInput(
				fmt.Sprintf("steps[%d].defaultApproverEmail", i),
				fmt.Sprintf("Approver %d email is required", i+1),
			)
		}
	}
	if actorID, ok := requestctx.ActorIDFromContext(ctx); ok {
		f.UpdatedBy = actorID
	}

	if err := s.flows.Save(ctx, f); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("flow_id", f.ID).
		Int64("tenant_id", f.TenantID).
		Int("steps", len(f.Details.Steps)).
		Msg("Approval flow saved")
	return f, nil
}

// ListUsers returns the directory approvers are resolved against
func (s *ApprovalFlowService) ListUsers(ctx context.Context, tenantID int64) ([]model.User, error) {
	return s.users.ListActive(ctx, tenantID)
}
