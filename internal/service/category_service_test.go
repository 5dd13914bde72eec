package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
	"github.com/pesio-ai/be-plt-settings/internal/platform/requestctx"
)

type memoryCategoryStore struct {
	nextID  int64
	records map[int64]*model.Category
	err     error
}

func newMemoryCategoryStore() *memoryCategoryStore {
	return &memoryCategoryStore{nextID: 1, records: map[int64]*model.Category{}}
}

func (m *memoryCategoryStore) Create(_ context.Context, c *model.Category) error {
	if m.err != nil {
		return m.err
	}
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	cp := *c
	m.records[c.ID] = &cp
	return nil
}

func (m *memoryCategoryStore) Update(_ context.Context, c *model.Category) error {
	if m.err != nil {
		return m.err
	}
	existing, ok := m.records[c.ID]
	if !ok || existing.IsDeleted || existing.TenantID != c.TenantID {
		return errors.NotFound("category", c.ID)
	}
	cp := *c
	cp.CreatedAt, cp.CreatedBy = existing.CreatedAt, existing.CreatedBy
	m.records[c.ID] = &cp
	return nil
}

func (m *memoryCategoryStore) GetByID(_ context.Context, id, tenantID int64) (*model.Category, error) {
	c, ok := m.records[id]
	if !ok || c.IsDeleted || c.TenantID != tenantID {
		return nil, errors.NotFound("category", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memoryCategoryStore) List(_ context.Context, tenantID int64) ([]*model.Category, error) {
	out := []*model.Category{}
	for _, c := range m.records {
		if c.TenantID == tenantID && !c.IsDeleted {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryCategoryStore) SoftDelete(_ context.Context, id, tenantID, deletedBy int64) error {
	c, ok := m.records[id]
	if !ok || c.IsDeleted || c.TenantID != tenantID {
		return errors.NotFound("category", id)
	}
	c.IsDeleted = true
	c.DeletedBy = deletedBy
	return nil
}

type publishedEvent struct {
	eventType string
	id        int64
	actorID   int64
}

type recordingPublisher struct {
	events []publishedEvent
}

func (r *recordingPublisher) PublishCategoryEvent(_ context.Context, eventType string, c *model.Category, actorID int64) {
	r.events = append(r.events, publishedEvent{eventType: eventType, id: c.ID, actorID: actorID})
}

func TestCategoryServiceCreateOrUpdate(t *testing.T) {
	store := newMemoryCategoryStore()
	pub := &recordingPublisher{}
	svc := NewCategoryService(store, pub, logger.Nop())
	ctx := requestctx.WithActorID(context.Background(), 11)

	created, err := svc.CreateOrUpdate(ctx, &model.Category{Name: "Travel", Description: "Trips", TenantID: 2, UpdatedBy: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(11), created.UpdatedBy, "actor from context wins over client value")
	assert.Equal(t, int64(11), created.CreatedBy)
	assert.False(t, created.UpdatedAt.IsZero())

	created.Description = "Business trips"
	updated, err := svc.CreateOrUpdate(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Business trips", updated.Description)

	assert.Equal(t, []publishedEvent{
		{eventType: EventCategoryCreated, id: 1, actorID: 11},
		{eventType: EventCategoryUpdated, id: 1, actorID: 11},
	}, pub.events)
}

func TestCategoryServiceValidation(t *testing.T) {
	type testCase struct {
		name     string
		category model.Category
		field    string
	}

	tests := []testCase{{
		name:     "missing name",
		category: model.Category{Description: "x"},
		field:    "name",
	}, {
		name:     "special characters",
		category: model.Category{Name: "Sales!!", Description: "x"},
		field:    "name",
	}, {
		name:     "missing description",
		category: model.Category{Name: "Sales"},
		field:    "description",
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemoryCategoryStore()
			svc := NewCategoryService(store, nil, logger.Nop())

			_, err := svc.CreateOrUpdate(context.Background(), &tc.category)
			assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
			assert.Equal(t, tc.field, errors.FieldOf(err))
			assert.Empty(t, store.records)
		})
	}
}

func TestCategoryServiceUpdateMissing(t *testing.T) {
	svc := NewCategoryService(newMemoryCategoryStore(), nil, logger.Nop())
	_, err := svc.CreateOrUpdate(context.Background(), &model.Category{ID: 99, Name: "Ops", Description: "x"})
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestCategoryServiceSaveDeleted(t *testing.T) {
	svc := NewCategoryService(newMemoryCategoryStore(), nil, logger.Nop())
	_, err := svc.CreateOrUpdate(context.Background(), &model.Category{ID: 3, Name: "Ops", Description: "x", IsDeleted: true})
	assert.Equal(t, errors.ErrCodeConflict, errors.CodeOf(err))
}

func TestCategoryServiceSoftDelete(t *testing.T) {
	store := newMemoryCategoryStore()
	pub := &recordingPublisher{}
	svc := NewCategoryService(store, pub, logger.Nop())

	c, err := svc.CreateOrUpdate(context.Background(), &model.Category{Name: "Ops", Description: "x", TenantID: 4})
	require.NoError(t, err)

	err = svc.SoftDelete(context.Background(), c.ID, 4)
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))

	ctx := requestctx.WithActorID(context.Background(), 5)
	require.NoError(t, svc.SoftDelete(ctx, c.ID, 4))
	assert.True(t, store.records[c.ID].IsDeleted)
	assert.Equal(t, int64(5), store.records[c.ID].DeletedBy)

	list, err := svc.List(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(ctx, c.ID, 4)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
	assert.Equal(t, EventCategoryDeleted, pub.events[len(pub.events)-1].eventType)
}
