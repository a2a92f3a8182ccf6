package catalog

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
	"strings"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
)

const (
	DefaultBaseURL       = "https://fakestoreapi.com"
	defaultTimeout       = 10 * time.Second
	defaultErrorMessage  = "Something went wrong"
	responseBodyMaxBytes = 4 << 20
)

// APIError is the normalized form of every failed catalog request.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Data    any    `json:"data"`

	cause error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Client reads products from a Fake Store compatible catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the catalog base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return nonNilProducts(products), nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var product *domain.Product
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), &product); err != nil {
		return nil, err
	}
	// The Fake Store API answers unknown ids with 200 and an empty body.
	if product == nil {
		return nil, &APIError{
			Message: "product not found",
			Status:  http.StatusNotFound,
			Data:    map[string]any{"id": id},
		}
	}
	return product, nil
}

func (c *Client) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/products/category/"+url.PathEscape(category), &products); err != nil {
		return nil, err
	}
	return nonNilProducts(products), nil
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// get issues a GET against path and decodes the JSON body into dest. An empty
// body leaves dest untouched.
func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyMaxBytes))
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, body)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &APIError{
			Message: "invalid catalog response",
			Status:  http.StatusBadGateway,
			Data:    map[string]any{},
			cause:   err,
		}
	}
	return nil
}

func transportError(err error) *APIError {
	return &APIError{
		Message: defaultErrorMessage,
		Status:  http.StatusInternalServerError,
		Data:    map[string]any{},
		cause:   err,
	}
}

// responseError keeps the body as data and uses its "message" field when present.
func responseError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Message: defaultErrorMessage,
		Status:  status,
		Data:    map[string]any{},
		cause:   fmt.Errorf("unexpected status %d", status),
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return apiErr
	}

	var data any
	if err := json.Unmarshal(trimmed, &data); err != nil {
		apiErr.Data = string(trimmed)
		return apiErr
	}
	apiErr.Data = data

	if obj, ok := data.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}

func nonNilProducts(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
