package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
	"github.com/pesio-ai/be-plt-settings/internal/platform/requestctx"
)

type memoryFlowStore struct {
	flows map[int64]*model.Flow
	saved []*model.Flow
}

func (m *memoryFlowStore) GetByID(_ context.Context, id, tenantID int64) (*model.Flow, error) {
	f, ok := m.flows[id]
	if !ok || f.TenantID != tenantID {
		return nil, errors.NotFound("approval_flow", id)
	}
	return f, nil
}

func (m *memoryFlowStore) Save(_ context.Context, f *model.Flow) error {
	if f.ID == 0 {
		f.ID = int64(len(m.flows) + 1)
	}
	m.flows[f.ID] = f
	m.saved = append(m.saved, f)
	return nil
}

type staticUserStore struct {
	users []model.User
	err   error
}

func (s staticUserStore) ListActive(context.Context, int64) ([]model.User, error) {
	return s.users, s.err
}

func TestApprovalFlowServiceViewFlow(t *testing.T) {
	flows := &memoryFlowStore{flows: map[int64]*model.Flow{
		1: {ID: 1, TenantID: 2, Label: "Purchase approvals", Details: model.FlowDetails{Steps: []model.ApprovalStep{
			{DefaultApproverEmail: "a@corp.io"},
			{DefaultApproverEmail: "gone@corp.io"},
			{DefaultApproverEmail: "b@corp.io"},
		}}},
		2: {ID: 2, TenantID: 2, Label: "Empty"},
	}}
	users := staticUserStore{users: []model.User{
		{Email: "a@corp.io", Name: "A", RoleName: "Lead"},
		{Email: "b@corp.io", Name: "B", Photo: "/b.png"},
	}}
	svc := NewApprovalFlowService(flows, users, logger.Nop())

	view, err := svc.ViewFlow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Purchase approvals", view.Label)
	require.Len(t, view.Cards, 2)
	assert.Equal(t, 1, view.Cards[0].Position)
	assert.Equal(t, 3, view.Cards[1].Position)
	assert.Equal(t, "/b.png", view.Cards[1].Photo)

	empty, err := svc.ViewFlow(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.NotNil(t, empty.Cards)
	assert.Empty(t, empty.Cards)

	_, err = svc.ViewFlow(context.Background(), 1, 3)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestApprovalFlowServiceSaveFlow(t *testing.T) {
	type testCase struct {
		name  string
		flow  model.Flow
		field string
	}

	tests := []testCase{{
		name:  "missing name",
		flow:  model.Flow{TenantID: 1},
		field: "name",
	}, {
		name: "step without approver",
		flow: model.Flow{TenantID: 1, Name: "PO", Details: model.FlowDetails{Steps: []model.ApprovalStep{
			{DefaultApproverEmail: "a@corp.io"},
			{},
		}}},
		field: "steps[1].defaultApproverEmail",
	}, {
		name: "valid",
		flow: model.Flow{TenantID: 1, Name: "PO", Details: model.FlowDetails{Steps: []model.ApprovalStep{
			{DefaultApproverEmail: "a@corp.io"},
		}}},
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			flows := &memoryFlowStore{flows: map[int64]*model.Flow{}}
			svc := NewApprovalFlowService(flows, staticUserStore{}, logger.Nop())
			ctx := requestctx.WithActorID(context.Background(), 8)

			saved, err := svc.SaveFlow(ctx, &tc.flow)
			if tc.field != "" {
				assert.Equal(t, tc.field, errors.FieldOf(err))
				assert.Empty(t, flows.saved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), saved.ID)
			assert.Equal(t, int64(8), saved.UpdatedBy)
		})
	}
}
