// Package paypal implements the domain.PayPalGateway interface against the
// PayPal Orders v2 REST API.
package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Client talks to the PayPal REST API. The OAuth access token is cached in
// process and refreshed a minute before it expires.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a PayPal client for the given environment.
func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns the cached token, fetching a new one when the cached
// value is within a minute of expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}

	if c.clientID == "" || c.clientSecret == "" {
		return "", domain.NewError(domain.ErrProvider, "PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET must be configured", "PAYPAL_CONFIG")
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.NewError(domain.ErrProvider, fmt.Sprintf("paypal auth request failed: %v", err), "PAYPAL_AUTH")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", domain.NewError(domain.ErrProvider, fmt.Sprintf("paypal auth error %d: %s", resp.StatusCode, string(body)), "PAYPAL_AUTH")
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.token = tok.AccessToken
	expiresIn := time.Duration(tok.ExpiresIn) * time.Second
	if expiresIn == 0 {
		expiresIn = 10 * time.Minute
	}
	c.tokenExpiry = time.Now().Add(expiresIn)
	return c.token, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewError(domain.ErrProvider, fmt.Sprintf("paypal request failed: %v", err), "PAYPAL_UNREACHABLE")
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewError(domain.ErrProvider, fmt.Sprintf("paypal error %d: %s", resp.StatusCode, string(respBody)), "PAYPAL_ERROR")
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode paypal response: %w", err)
		}
	}
	return nil
}

type orderLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type orderResponse struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Links         []orderLink `json:"links"`
	PurchaseUnits []struct {
		ReferenceID string `json:"reference_id"`
		Payments    struct {
			Captures []struct {
				ID     string      `json:"id"`
				Status string      `json:"status"`
				Links  []orderLink `json:"links"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (o *orderResponse) raw() map[string]any {
	payload, err := json.Marshal(o)
	if err != nil {
		return nil
	}
	var m map[string]any
	_ = json.Unmarshal(payload, &m)
	return m
}

func (o *orderResponse) externalReference() string {
	if len(o.PurchaseUnits) > 0 {
		return o.PurchaseUnits[0].ReferenceID
	}
	return ""
}

func findLink(links []orderLink, rel string) string {
	for _, l := range links {
		if l.Rel == rel {
			return l.Href
		}
	}
	return ""
}

// CreateOrder creates a CAPTURE-intent order. The description is truncated
// to the 127 characters PayPal accepts.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.ProviderOrder, error) {
	description := req.Description
	if len(description) > 127 {
		description = description[:127]
	}
	cancelURL := req.ReturnURLs.Failure
	if cancelURL == "" {
		cancelURL = req.ReturnURLs.Pending
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"reference_id": req.ExternalReference,
				"description":  description,
				"amount": map[string]string{
					"currency_code": req.Currency,
					"value":         fmt.Sprintf("%.2f", req.Amount),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": req.ReturnURLs.Success,
			"cancel_url": cancelURL,
		},
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", body, &resp); err != nil {
		return nil, err
	}

	return &domain.ProviderOrder{
		ID:                resp.ID,
		Status:            resp.Status,
		ExternalReference: resp.externalReference(),
		ApproveURL:        findLink(resp.Links, "approve"),
		Raw:               resp.raw(),
	}, nil
}

// GetOrder fetches an order by its id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.ProviderOrder, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil, &resp); err != nil {
		return nil, err
	}
	return &domain.ProviderOrder{
		ID:                resp.ID,
		Status:            resp.Status,
		ExternalReference: resp.externalReference(),
		ApproveURL:        findLink(resp.Links, "approve"),
		Raw:               resp.raw(),
	}, nil
}

// CaptureOrder captures an approved order. The status falls back to the
// first capture's status, then to COMPLETED, matching what the capture
// endpoint actually returns across API versions.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*domain.CaptureResult, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", map[string]any{}, &resp); err != nil {
		return nil, err
	}

	status := resp.Status
	if status == "" && len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		status = resp.PurchaseUnits[0].Payments.Captures[0].Status
	}
	if status == "" {
		status = "COMPLETED"
	}

	var receiptURL *string
	if href := findLink(resp.Links, "self"); href != "" {
		receiptURL = &href
	}

	return &domain.CaptureResult{
		Status:     status,
		ReceiptURL: receiptURL,
		Raw:        resp.raw(),
	}, nil
}
