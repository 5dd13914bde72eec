package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pesio-ai/be-plt-settings/internal/model"
	"github.com/pesio-ai/be-plt-settings/internal/platform/errors"
	"github.com/pesio-ai/be-plt-settings/internal/platform/middleware"
)

// SettingsClient is a REST client for the settings service. It is the
// console side of the category persistence boundary.
type SettingsClient struct {
	baseURL string
	http    *http.Client
	actorID int64
}

// NewSettingsClient creates a new settings service client. actorID is sent
// with every request so the service can attribute writes.
func NewSettingsClient(baseURL string, timeout time.Duration, actorID int64) *SettingsClient {
	return &SettingsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		actorID: actorID,
	}
}

// errorResponse is the error body returned by the service
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// CreateOrUpdateCategory submits a full category snapshot. Every failure,
// transport or server side, comes back as *errors.PersistenceError.
func (c *SettingsClient) CreateOrUpdateCategory(ctx context.Context, cat *model.Category) (*model.Category, error) {
	var saved model.Category
	if err := c.do(ctx, http.MethodPost, "/api/v1/categories", cat, &saved); err != nil {
		return nil, errors.Persistence(err.Error(), err)
	}
	return &saved, nil
}

// GetCategory retrieves a category by id
func (c *SettingsClient) GetCategory(ctx context.Context, id, tenantID int64) (*model.Category, error) {
	path := fmt.Sprintf("/api/v1/categories/%d?tenant_id=%d", id, tenantID)

	var cat model.Category
	if err := c.do(ctx, http.MethodGet, path, nil, &cat); err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

// ListCategories lists the live categories of a tenant
func (c *SettingsClient) ListCategories(ctx context.Context, tenantID int64) ([]*model.Category, error) {
	path := "/api/v1/categories?" + url.Values{"tenant_id": {strconv.FormatInt(tenantID, 10)}}.Encode()

	var resp struct {
		Categories []*model.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return resp.Categories, nil
}

// ListUsers returns the tenant's user directory
func (c *SettingsClient) ListUsers(ctx context.Context, tenantID int64) ([]model.User, error) {
	path := fmt.Sprintf("/api/v1/users?tenant_id=%d", tenantID)

	var resp struct {
		Users []model.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return resp.Users, nil
}

// GetFlow retrieves an approval flow definition
func (c *SettingsClient) GetFlow(ctx context.Context, id, tenantID int64) (*model.Flow, error) {
	path := fmt.Sprintf("/api/v1/approval-flows/%d?tenant_id=%d", id, tenantID)

	var flow model.Flow
	if err := c.do(ctx, http.MethodGet, path, nil, &flow); err != nil {
		return nil, fmt.Errorf("failed to get approval flow: %w", err)
	}
	return &flow, nil
}

func (c *SettingsClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.actorID > 0 {
		req.Header.Set(middleware.HeaderActorID, strconv.FormatInt(c.actorID, 10))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into a coded error carrying the
// server's message, or the status text when the body has none.
func decodeError(resp *http.Response) error {
	var body errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	code := errors.Code(body.Code)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return &errors.Error{Code: code, Message: body.Error, Field: body.Field}
}
