package service

import (
	"context"
	"time"

	"github.com/pesio-ai/be-plt-settings/internal/categoryform"
	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
	"github.com/pesio-ai/be-plt-settings/internal/platform/requestctx"
)

// Category event types published after a successful write
const (
	EventCategoryCreated = "category_created"
	EventCategoryUpdated = "category_updated"
	EventCategoryDeleted = "category_deleted"
)

// CategoryStore persists categories
type CategoryStore interface {
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	GetByID(ctx context.Context, id, tenantID int64) (*model.Category, error)
	List(ctx context.Context, tenantID int64) ([]*model.Category, error)
	SoftDelete(ctx context.Context, id, tenantID, deletedBy int64) error
}

// EventPublisher announces category changes. Publishing is best effort and
// never fails the write.
type EventPublisher interface {
	PublishCategoryEvent(ctx context.Context, eventType string, c *model.Category, actorID int64)
}

// CategoryService handles category business logic
type CategoryService struct {
	store     CategoryStore
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewCategoryService creates a new category service. publisher may be nil.
func NewCategoryService(store CategoryStore, publisher EventPublisher, log *logger.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// CreateOrUpdate validates a category snapshot and stores it. Records with a
// zero id are inserted, others updated. The acting user from the request
// context, when present, overrides the client supplied updatedBy.
func (s *CategoryService) CreateOrUpdate(ctx context.Context, c *model.Category) (*model.Category, error) {
	if verr := categoryform.Validate(c); verr != nil {
		return nil, verr
	}
	if c.IsDeleted {
		return nil, errors.New(errors.ErrCodeConflict, "cannot save a deleted category")
	}

	if actorID, ok := requestctx.ActorIDFromContext(ctx); ok {
		c.UpdatedBy = actorID
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = s.now()
	}

	eventType := EventCategoryUpdated
	if c.IsNew() {
		if c.CreatedBy == 0 {
			c.CreatedBy = c.UpdatedBy
		}
		if err := s.store.Create(ctx, c); err != nil {
			return nil, err
		}
		eventType = EventCategoryCreated
	} else {
		if err := s.store.Update(ctx, c); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Int64("category_id", c.ID).
		Int64("tenant_id", c.TenantID).
		Int64("actor_id", c.UpdatedBy).
		Str("event", eventType).
		Msg("Category saved")

	s.publish(ctx, eventType, c, c.UpdatedBy)
	return c, nil
}

// Get returns a live category
func (s *CategoryService) Get(ctx context.Context, id, tenantID int64) (*model.Category, error) {
	return s.store.GetByID(ctx, id, tenantID)
}

// List returns the live categories of a tenant
func (s *CategoryService) List(ctx context.Context, tenantID int64) ([]*model.Category, error) {
	return s.store.List(ctx, tenantID)
}

// SoftDelete flags a category as deleted. It needs an authenticated actor.
func (s *CategoryService) SoftDelete(ctx context.Context, id, tenantID int64) error {
	actorID, ok := requestctx.ActorIDFromContext(ctx)
	if !ok {
		return errors.New(errors.ErrCodeUnauthorized, "unauthorized: actor required to delete a category")
	}

	if err := s.store.SoftDelete(ctx, id, tenantID, actorID); err != nil {
		return err
	}

	s.log.Info().
		Int64("category_id", id).
		Int64("tenant_id", tenantID).
		Int64("actor_id", actorID).
		Msg("Category deleted")

	s.publish(ctx, EventCategoryDeleted, &model.Category{ID: id, TenantID: tenantID, IsDeleted: true, DeletedBy: actorID}, actorID)
	return nil
}

func (s *CategoryService) publish(ctx context.Context, eventType string, c *model.Category, actorID int64) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishCategoryEvent(ctx, eventType, c, actorID)
}
