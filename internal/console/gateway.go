// Package console implements the client side of the CRM: the typed
// gateway to the REST API, the paginated list and detail controllers,
// pure aggregation over lead collections, the shared create/update
// form contract, and the refresh-after-mutation rules they all follow.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/minicrm/minicrm/internal/auth"
	"github.com/minicrm/minicrm/internal/crm"
)

// Gateway is the typed boundary to the backend REST API. Controllers
// depend on it, never on HTTP directly.
type Gateway interface {
	ListCustomers(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error)
	GetCustomer(ctx context.Context, id string) (*crm.Customer, error)
	CreateCustomer(ctx context.Context, req crm.CreateCustomerRequest) (*crm.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req crm.UpdateCustomerRequest) (*crm.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListCustomerLeads(ctx context.Context, customerID string) ([]crm.Lead, error)
	CreateLead(ctx context.Context, customerID string, req crm.CreateLeadRequest) (*crm.Lead, error)
	UpdateLead(ctx context.Context, id string, req crm.UpdateLeadRequest) (*crm.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	ListLeads(ctx context.Context) ([]crm.Lead, error)

	DashboardStats(ctx context.Context) (*crm.DashboardStats, error)
}

// GatewayError carries the status and problem detail of a failed call.
type GatewayError struct {
	Status int
	Title  string
	detail string
}

func (e *GatewayError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("gateway: %d %s", e.Status, e.detail)
	}
	return fmt.Sprintf("gateway: status %d", e.Status)
}

// Detail returns the server's error detail, falling back to a generic
// message when the server gave none.
func (e *GatewayError) Detail() string {
	if e.detail != "" {
		return e.detail
	}
	return "request failed"
}

// ErrorDetail extracts a human readable message from any gateway
// failure, using fallback when the error carries no detail.
func ErrorDetail(err error, fallback string) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr.detail != "" {
		return gwErr.detail
	}
	return fallback
}

// Client implements Gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient constructs a client for the given base URL (without the
// /api prefix).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken installs the bearer token used on subsequent calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and installs the issued token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.Token, error) {
	var token auth.Token
	err := c.do(ctx, http.MethodPost, "/api/auth/login", auth.LoginRequest{Email: email, Password: password}, &token)
	if err != nil {
		return nil, err
	}
	c.token = token.AccessToken
	return &token, nil
}

// Logout revokes the installed token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) ListCustomers(ctx context.Context, skip, limit int, search string) ([]crm.Customer, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))
	if search != "" {
		query.Set("search", search)
	}
	var customers []crm.Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers?"+query.Encode(), nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*crm.Customer, error) {
	var customer crm.Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers/"+url.PathEscape(id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreateCustomer(ctx context.Context, req crm.CreateCustomerRequest) (*crm.Customer, error) {
	var customer crm.Customer
	if err := c.do(ctx, http.MethodPost, "/api/customers", req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, req crm.UpdateCustomerRequest) (*crm.Customer, error) {
	var customer crm.Customer
	if err := c.do(ctx, http.MethodPut, "/api/customers/"+url.PathEscape(id), req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/customers/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListCustomerLeads(ctx context.Context, customerID string) ([]crm.Lead, error) {
	var leads []crm.Lead
	if err := c.do(ctx, http.MethodGet, "/api/customers/"+url.PathEscape(customerID)+"/leads", nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *Client) CreateLead(ctx context.Context, customerID string, req crm.CreateLeadRequest) (*crm.Lead, error) {
	var lead crm.Lead
	if err := c.do(ctx, http.MethodPost, "/api/customers/"+url.PathEscape(customerID)+"/leads", req, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) UpdateLead(ctx context.Context, id string, req crm.UpdateLeadRequest) (*crm.Lead, error) {
	var lead crm.Lead
	if err := c.do(ctx, http.MethodPut, "/api/leads/"+url.PathEscape(id), req, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/leads/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListLeads(ctx context.Context) ([]crm.Lead, error) {
	var leads []crm.Lead
	if err := c.do(ctx, http.MethodGet, "/api/leads", nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*crm.DashboardStats, error) {
	var stats crm.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SeedData asks the server to create its sample data set.
func (c *Client) SeedData(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/seed-data", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	gwErr := &GatewayError{Status: resp.StatusCode}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&problem); err == nil {
		gwErr.Title = problem.Title
		gwErr.detail = problem.Detail
	}
	return gwErr
}
