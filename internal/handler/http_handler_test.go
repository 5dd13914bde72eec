package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-plt-settings/internal/approvalflow"
	"github.com/pesio-ai/be-plt-settings/internal/categoryform"
	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
	"github.com/pesio-ai/be-plt-settings/internal/platform/middleware"
	"github.com/pesio-ai/be-plt-settings/internal/platform/requestctx"
	"github.com/pesio-ai/be-plt-settings/internal/service"
)

type fakeCategories struct {
	saved     []model.Category
	actor     int64
	deleteErr error
}

func (f *fakeCategories) CreateOrUpdate(ctx context.Context, c *model.Category) (*model.Category, error) {
	if verr := categoryform.Validate(c); verr != nil {
		return nil, verr
	}
	f.actor, _ = requestctx.ActorIDFromContext(ctx)
	if c.ID == 0 {
		c.ID = 100
	}
	f.saved = append(f.saved, *c)
	return c, nil
}

func (f *fakeCategories) Get(_ context.Context, id, tenantID int64) (*model.Category, error) {
	if id != 1 {
		return nil, errors.NotFound("category", id)
	}
	return &model.Category{ID: 1, TenantID: tenantID, Name: "Ops"}, nil
}

func (f *fakeCategories) List(_ context.Context, tenantID int64) ([]*model.Category, error) {
	return []*model.Category{{ID: 1, TenantID: tenantID, Name: "Ops"}}, nil
}

func (f *fakeCategories) SoftDelete(context.Context, int64, int64) error {
	return f.deleteErr
}

type fakeFlows struct{}

func (fakeFlows) GetFlow(_ context.Context, id, tenantID int64) (*model.Flow, error) {
	return &model.Flow{ID: id, TenantID: tenantID, Name: "PO"}, nil
}

func (fakeFlows) ViewFlow(_ context.Context, id, _ int64) (*service.FlowView, error) {
	return &service.FlowView{FlowID: id, Label: "PO", Cards: []approvalflow.Card{{Position: 2, Name: "Bo"}}}, nil
}

func (fakeFlows) SaveFlow(_ context.Context, f *model.Flow) (*model.Flow, error) {
	if f.Name == "" {
		return nil, errors.InvalidInput("name", "Flow name is required")
	}
	return f, nil
}

func (fakeFlows) ListUsers(context.Context, int64) ([]model.User, error) {
	return []model.User{{Email: "bo@corp.io", Name: "Bo"}}, nil
}

func newRouter(categories *fakeCategories) http.Handler {
	r := mux.NewRouter()
	NewHTTPHandler(categories, fakeFlows{}, logger.Nop()).Register(r)
	return middleware.Actor(r)
}

func serve(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSaveCategory(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		status     int
		errMessage string
		field      string
	}

	tests := []testCase{{
		name:   "create",
		body:   `{"name":"Sales 2024","description":"desc","tenantId":2}`,
		status: http.StatusCreated,
	}, {
		name:   "update",
		body:   `{"id":5,"name":"Sales","description":"desc","tenantId":2}`,
		status: http.StatusOK,
	}, {
		name:       "validation failure",
		body:       `{"name":"Sales!!","description":"x"}`,
		status:     http.StatusBadRequest,
		errMessage: "Category name must not contain special characters",
		field:      "name",
	}, {
		name:       "bad body",
		body:       `{`,
		status:     http.StatusBadRequest,
		errMessage: "Invalid request body",
		field:      "body",
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			categories := &fakeCategories{}
			rec := serve(newRouter(categories), http.MethodPost, "/api/v1/categories", tc.body,
				map[string]string{middleware.HeaderActorID: "12"})

			assert.Equal(t, tc.status, rec.Code)
			body := decode(t, rec)
			if tc.errMessage != "" {
				assert.Equal(t, tc.errMessage, body["error"])
				assert.Equal(t, "VALIDATION", body["code"])
				assert.Equal(t, tc.field, body["field"])
				assert.Empty(t, categories.saved)
				return
			}
			assert.Len(t, categories.saved, 1)
			assert.Equal(t, int64(12), categories.actor)
		})
	}
}

func TestCategoryReads(t *testing.T) {
	h := newRouter(&fakeCategories{})

	rec := serve(h, http.MethodGet, "/api/v1/categories?tenant_id=2", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["total"])

	rec = serve(h, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "tenant_id", decode(t, rec)["field"])

	rec = serve(h, http.MethodGet, "/api/v1/categories/1?tenant_id=2", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ops", decode(t, rec)["name"])

	rec = serve(h, http.MethodGet, "/api/v1/categories/7?tenant_id=2", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["code"])
}

func TestDeleteCategory(t *testing.T) {
	rec := serve(newRouter(&fakeCategories{}), http.MethodDelete, "/api/v1/categories/1?tenant_id=2", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	denied := &fakeCategories{deleteErr: errors.New(errors.ErrCodeUnauthorized, "unauthorized: actor required to delete a category")}
	rec = serve(newRouter(denied), http.MethodDelete, "/api/v1/categories/1?tenant_id=2", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidActorHeader(t *testing.T) {
	rec := serve(newRouter(&fakeCategories{}), http.MethodGet, "/api/v1/categories?tenant_id=2", "",
		map[string]string{middleware.HeaderActorID: "abc"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFlowRoutes(t *testing.T) {
	h := newRouter(&fakeCategories{})

	rec := serve(h, http.MethodGet, "/api/v1/approval-flows/3/cards?tenant_id=2", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var view service.FlowView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(3), view.FlowID)
	assert.Equal(t, "Approver 2", view.Cards[0].Title())

	rec = serve(h, http.MethodGet, "/api/v1/approval-flows/3?tenant_id=2", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodPut, "/api/v1/approval-flows/3", `{"label":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodPut, "/api/v1/approval-flows/3", `{"name":"PO","tenantId":2}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decode(t, rec)["id"])

	rec = serve(h, http.MethodGet, "/api/v1/users?tenant_id=2", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, http.MethodPost, "/api/v1/approval-flows/3", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	type testCase struct {
		name   string
		method string
		target string
	}

	tests := []testCase{
		{name: "post on flow", method: http.MethodPost, target: "/api/v1/approval-flows/3"},
		{name: "delete on flow", method: http.MethodDelete, target: "/api/v1/approval-flows/3"},
		{name: "put on category", method: http.MethodPut, target: "/api/v1/categories/1"},
		{name: "delete on collection", method: http.MethodDelete, target: "/api/v1/categories"},
		{name: "post on cards", method: http.MethodPost, target: "/api/v1/approval-flows/3/cards"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(newRouter(&fakeCategories{}), tc.method, tc.target, "", nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, rec)["code"])
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := serve(newRouter(&fakeCategories{}), http.MethodGet, "/api/v1/vendors", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.ErrCodeNotFound), decode(t, rec)["code"])
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestReady(t *testing.T) {
	type testCase struct {
		name   string
		pinger Pinger
		status int
		want   string
	}

	tests := []testCase{
		{name: "no pinger", status: http.StatusOK, want: "ready"},
		{name: "database up", pinger: fakePinger{}, status: http.StatusOK, want: "ready"},
		{name: "database down", pinger: fakePinger{err: errors.New(errors.ErrCodeInternal, "connection refused")}, status: http.StatusServiceUnavailable, want: "unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := mux.NewRouter()
			h := NewHTTPHandler(&fakeCategories{}, fakeFlows{}, logger.Nop())
			if tc.pinger != nil {
				h.WithReadiness(tc.pinger)
			}
			h.Register(r)

			rec := serve(r, http.MethodGet, "/ready", "", nil)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.want, decode(t, rec)["status"])
		})
	}
}
