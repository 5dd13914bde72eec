package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/logger"
	"github.com/pesio-ai/be-plt-settings/internal/service"
)

// CategoryService is the category use case surface the handler needs
type CategoryService interface {
	CreateOrUpdate(ctx context.Context, c *model.Category) (*model.Category, error)
	Get(ctx context.Context, id, tenantID int64) (*model.Category, error)
	List(ctx context.Context, tenantID int64) ([]*model.Category, error)
	SoftDelete(ctx context.Context, id, tenantID int64) error
}

// ApprovalFlowService is the approval flow use case surface the handler needs
type ApprovalFlowService interface {
	GetFlow(ctx context.Context, id, tenantID int64) (*model.Flow, error)
	ViewFlow(ctx context.Context, id, tenantID int64) (*service.FlowView, error)
	SaveFlow(ctx context.Context, f *model.Flow) (*model.Flow, error)
	ListUsers(ctx context.Context, tenantID int64) ([]model.User, error)
}

// Pinger checks a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// codeMethodNotAllowed is the error code of 405 responses
const codeMethodNotAllowed = "METHOD_NOT_ALLOWED"

// HTTPHandler handles HTTP requests
type HTTPHandler struct {
	categories CategoryService
	flows      ApprovalFlowService
	pinger     Pinger
	log        *logger.Logger
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(categories CategoryService, flows ApprovalFlowService, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		categories: categories,
		flows:      flows,
		log:        log,
	}
}

// WithReadiness makes /ready ping p
func (h *HTTPHandler) WithReadiness(p Pinger) *HTTPHandler {
	h.pinger = p
	return h
}

// Register mounts the routes on r. Routes sit on r itself rather than on a
// PathPrefix subrouter so a known path with the wrong method answers 405.
func (h *HTTPHandler) Register(r *mux.Router) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, errors.New(errors.ErrCodeNotFound, "Route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error": "Method not allowed",
			"code":  codeMethodNotAllowed,
		})
	})

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/categories", h.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/categories", h.SaveCategory).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/categories/{id:[0-9]+}", h.GetCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/categories/{id:[0-9]+}", h.DeleteCategory).Methods(http.MethodDelete)

	r.HandleFunc("/api/v1/users", h.ListUsers).Methods(http.MethodGet)

	r.HandleFunc("/api/v1/approval-flows/{id:[0-9]+}", h.GetFlow).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/approval-flows/{id:[0-9]+}", h.SaveFlow).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/approval-flows/{id:[0-9]+}/cards", h.ViewFlow).Methods(http.MethodGet)
}

// Health reports liveness
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready reports whether the backing store answers. Without a pinger the
// service is always ready.
func (h *HTTPHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.log.Warn().Err(err).Msg("Readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// SaveCategory handles create-or-update category requests
func (h *HTTPHandler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	var req model.Category
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.InvalidInput("body", "Invalid request body"))
		return
	}

	isNew := req.IsNew()
	saved, err := h.categories.CreateOrUpdate(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

// GetCategory handles get category requests
func (h *HTTPHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, tenantID, ok := h.idAndTenant(w, r)
	if !ok {
		return
	}

	c, err := h.categories.Get(r.Context(), id, tenantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListCategories handles list category requests
func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.List(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"total":      len(categories),
	})
}

// DeleteCategory handles soft delete requests
func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, tenantID, ok := h.idAndTenant(w, r)
	if !ok {
		return
	}

	if err := h.categories.SoftDelete(r.Context(), id, tenantID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers handles directory requests
func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	users, err := h.flows.ListUsers(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// GetFlow handles approval flow definition requests
func (h *HTTPHandler) GetFlow(w http.ResponseWriter, r *http.Request) {
	id, tenantID, ok := h.idAndTenant(w, r)
	if !ok {
		return
	}

	flow, err := h.flows.GetFlow(r.Context(), id, tenantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// ViewFlow handles rendered approver card requests
func (h *HTTPHandler) ViewFlow(w http.ResponseWriter, r *http.Request) {
	id, tenantID, ok := h.idAndTenant(w, r)
	if !ok {
		return
	}

	view, err := h.flows.ViewFlow(r.Context(), id, tenantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SaveFlow handles approval flow updates
func (h *HTTPHandler) SaveFlow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeError(w, r, errors.InvalidInput("id", "Invalid flow id"))
		return
	}

	var req model.Flow
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.InvalidInput("body", "Invalid request body"))
		return
	}
	req.ID = id

	saved, err := h.flows.SaveFlow(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *HTTPHandler) tenant(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("tenant_id")
	if raw == "" {
		h.writeError(w, r, errors.InvalidInput("tenant_id", "Tenant ID is required"))
		return 0, false
	}
	tenantID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, r, errors.InvalidInput("tenant_id", "Invalid tenant ID"))
		return 0, false
	}
	return tenantID, true
}

func (h *HTTPHandler) idAndTenant(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeError(w, r, errors.InvalidInput("id", "Invalid id"))
		return 0, 0, false
	}
	tenantID, ok := h.tenant(w, r)
	return id, tenantID, ok
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}

	body := map[string]string{
		"error": err.Error(),
		"code":  string(errors.CodeOf(err)),
	}
	if field := errors.FieldOf(err); field != "" {
		body["field"] = field
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
