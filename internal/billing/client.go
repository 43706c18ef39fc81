// Package billing is the HTTP client for the remote billing API.
// Every durable read and write in this service goes through it; the POS
// front end itself keeps no state beyond the per-session cart.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The billing API speaks bare JSON numbers for prices and quantities.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a sellable item as reported by the billing API.
// Stock is the upper bound on the quantity a single bill may sell.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
}

// ProductCreate is the payload for registering a new product.
type ProductCreate struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
}

// ProductRef identifies a product inside a bill item.
type ProductRef struct {
	ID int64 `json:"id"`
}

// BillItem is one line of a submitted bill. Price is the unit price
// snapshotted when the line entered the cart.
type BillItem struct {
	Product  ProductRef      `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// BillCreate is the checkout submission. The server decrements stock.
type BillCreate struct {
	Items       []BillItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Bill is a recorded sale as returned by the billing API.
type Bill struct {
	ID          int64           `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Stats are the dashboard aggregates.
type Stats struct {
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalOrders int64           `json:"totalOrders"`
}

// Credentials is the login payload for the billing API.
type Credentials struct {
	ShopName string `json:"shopName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the billing API's answer to a login attempt.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    User   `json:"user"`
	Shop    Shop   `json:"shop"`
}

type User struct {
	Username string `json:"username"`
}

type Shop struct {
	Name string `json:"name"`
}

// Error is a non-success HTTP response from the billing API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("billing API returned status %d", e.Status)
	}
	return fmt.Sprintf("billing API returned status %d: %s", e.Status, e.Message)
}

// Client talks to the billing API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a billing API client. baseURL is the API root,
// e.g. "https://billing.example.com/api".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListProducts fetches the full product list.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateProduct registers a new product. The server assigns the ID.
func (c *Client) CreateProduct(ctx context.Context, product ProductCreate) (*Product, error) {
	var created Product
	if err := c.do(ctx, http.MethodPost, "/products", product, &created); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &created, nil
}

// DeleteProduct removes a product by ID.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// SubmitBill records a completed sale.
func (c *Client) SubmitBill(ctx context.Context, bill BillCreate) (*Bill, error) {
	var created Bill
	if err := c.do(ctx, http.MethodPost, "/bills", bill, &created); err != nil {
		return nil, fmt.Errorf("failed to submit bill: %w", err)
	}
	return &created, nil
}

// DashboardStats fetches the sales aggregates for the dashboard screen.
func (c *Client) DashboardStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}
	return &stats, nil
}

// Login authenticates a user against the billing API. A failed login is
// reported through LoginResult.Success, not an error: the API responds
// 200 with success=false for bad credentials.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &result); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &result, nil
}

// do executes one request against the billing API. A non-2xx response is
// returned as *Error; transport failures are wrapped as-is.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("billing API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// readErrorMessage pulls a human-readable message out of an error response,
// accepting either {"error": "..."} or {"message": "..."}.
func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
