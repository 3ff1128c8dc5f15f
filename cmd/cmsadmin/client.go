package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/content-modeling-api/internal/bulk"
	"github.com/content-modeling-api/internal/models"
)

// errConfirmationRequired is returned when the server answers 428
var errConfirmationRequired = errors.New("confirmation required")

// Client talks to the Content Modeling API over HTTP
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// BulkResult mirrors the bulk endpoint response
type BulkResult struct {
	Action    string   `json:"action"`
	Requested int      `json:"requested"`
	Processed []string `json:"processed"`
	FailedID  string   `json:"failed_id,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPreconditionRequired {
		return errConfirmationRequired
	}
	// 207 carries a partial bulk result
	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListTypes returns every content type
func (c *Client) ListTypes(ctx context.Context) ([]models.ContentType, error) {
	var resp struct {
		ContentTypes []models.ContentType `json:"content_types"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/content-types", nil, &resp); err != nil {
		return nil, err
	}
	return resp.ContentTypes, nil
}

// CreateType creates a content type without fields
func (c *Client) CreateType(ctx context.Context, req *models.CreateContentTypeRequest) (*models.ContentType, error) {
	var ct models.ContentType
	if err := c.do(ctx, http.MethodPost, "/v1/content-types", req, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

// DeleteType deletes a content type and everything under it
func (c *Client) DeleteType(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/content-types/"+url.PathEscape(id), nil, nil)
}

// ListEntries returns one page of entries of a content type
func (c *Client) ListEntries(ctx context.Context, typeID string, page, pageSize int, status string) (*models.EntryPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprint(pageSize))
	}
	if status != "" {
		q.Set("status", status)
	}

	path := "/v1/content-types/" + url.PathEscape(typeID) + "/entries"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out models.EntryPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkActions returns the server's configured bulk actions
func (c *Client) BulkActions(ctx context.Context) ([]bulk.Action, error) {
	var resp struct {
		Actions []bulk.Action `json:"actions"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/bulk-actions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Actions, nil
}

// Bulk runs an action over entry ids
func (c *Client) Bulk(ctx context.Context, typeID, action string, ids []string, confirmed bool) (*BulkResult, error) {
	body := map[string]interface{}{"action": action, "ids": ids, "confirmed": confirmed}
	var out BulkResult
	if err := c.do(ctx, http.MethodPost, "/v1/content-types/"+url.PathEscape(typeID)+"/entries/bulk", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishDue asks the server to publish due scheduled entries now
func (c *Client) PublishDue(ctx context.Context) (int, error) {
	var out struct {
		Published int `json:"published"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/scheduler/run", nil, &out); err != nil {
		return 0, err
	}
	return out.Published, nil
}
