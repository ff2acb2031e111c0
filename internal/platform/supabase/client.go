// Package supabase implements the entity store interfaces over the Supabase
// Postgres-over-REST (PostgREST) API.
package supabase

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

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Client is a thin PostgREST client. Typed stores in this package build on
// it; nothing else should talk to the REST API directly.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Supabase REST client. The key is sent both as apikey
// and bearer token, which is how PostgREST expects service credentials.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// pgrstError is the JSON error body PostgREST returns on failure.
type pgrstError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// mapError turns a PostgREST error body into a domain error.
//
// PGRST116 means zero (or more than one) rows matched a single-object
// request. 22P02 is Postgres "invalid text representation", which is what
// an insert with a value outside a closed enum produces.
func mapError(status int, body []byte) error {
	var perr pgrstError
	_ = json.Unmarshal(body, &perr)

	switch {
	case perr.Code == "PGRST116" || status == http.StatusNotFound:
		return domain.ErrNotFound
	case strings.Contains(perr.Code, "22P02") || strings.Contains(perr.Message, "22P02"):
		return domain.NewError(domain.ErrUnsupportedMethod, perr.Message, "UNSUPPORTED_METHOD")
	}
	msg := perr.Message
	if msg == "" {
		msg = string(body)
	}
	return domain.NewError(domain.ErrStorage, fmt.Sprintf("postgrest status %d: %s", status, msg), "STORAGE_ERROR")
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, headers map[string]string, body any, out any) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewError(domain.ErrStorage, fmt.Sprintf("request to %s failed: %v", table, err), "STORAGE_UNREACHABLE")
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", table, err)
		}
	}
	return nil
}

// Insert creates a record and decodes the representation into out (a
// pointer to a single struct).
func (c *Client) Insert(ctx context.Context, table string, record, out any) error {
	headers := map[string]string{
		"Prefer": "return=representation",
		"Accept": "application/vnd.pgrst.object+json",
	}
	return c.do(ctx, http.MethodPost, table, nil, headers, record, out)
}

// SelectOne fetches exactly one record matching the filters. Filter values
// carry their PostgREST operator, e.g. "eq.<id>".
func (c *Client) SelectOne(ctx context.Context, table string, filters map[string]string, out any) error {
	query := url.Values{"select": {"*"}}
	for k, v := range filters {
		query.Set(k, v)
	}
	headers := map[string]string{"Accept": "application/vnd.pgrst.object+json"}
	return c.do(ctx, http.MethodGet, table, query, headers, nil, out)
}

// Select fetches every record matching the filters into out (a pointer to a
// slice). order and limit are optional.
func (c *Client) Select(ctx context.Context, table string, filters map[string]string, order string, limit int, out any) error {
	query := url.Values{"select": {"*"}}
	for k, v := range filters {
		query.Set(k, v)
	}
	if order != "" {
		query.Set("order", order)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, table, query, nil, nil, out)
}

// UpdateByID patches the record with the given id and decodes the updated
// representation into out.
func (c *Client) UpdateByID(ctx context.Context, table, id string, fields map[string]any, out any) error {
	query := url.Values{"id": {"eq." + id}}
	headers := map[string]string{
		"Prefer": "return=representation",
		"Accept": "application/vnd.pgrst.object+json",
	}
	return c.do(ctx, http.MethodPatch, table, query, headers, fields, out)
}

// DeleteByID removes the record with the given id.
func (c *Client) DeleteByID(ctx context.Context, table, id string) error {
	query := url.Values{"id": {"eq." + id}}
	return c.do(ctx, http.MethodDelete, table, query, nil, nil, nil)
}

// inList renders an in.(...) filter value for PostgREST.
func inList(ids []string) string {
	return "in.(" + strings.Join(ids, ",") + ")"
}
