// Package catalog talks to the external product API that owns the product
// catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"oohunt/internal/domain"
	"oohunt/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// APIKeyHeader carries the configured catalog API key
const APIKeyHeader = "X-API-Key"

// maxBodySize bounds upstream responses
const maxBodySize = 4 << 20

var errNotFound = errors.New("catalog: product not found")

// Product is a product as returned by the upstream API
type Product struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug,omitempty"`
	Title        string   `json:"title"`
	Price        *float64 `json:"price,omitempty"`
	Image        string   `json:"image,omitempty"`
	PrimaryImage string   `json:"primaryImage,omitempty"`
	Images       []string `json:"images,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Status       string   `json:"status,omitempty"`
}

// ToDomain converts the upstream product for the local mirror
func (p *Product) ToDomain(now time.Time) (*domain.Product, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, fmt.Errorf("catalog product id %q is not a uuid: %w", p.ID, err)
	}
	status := domain.ProductStatus(p.Status)
	if status == "" {
		status = domain.ProductStatusPublished
	}
	return &domain.Product{
		ID:           id,
		Slug:         p.Slug,
		Title:        p.Title,
		Price:        p.Price,
		Image:        p.Image,
		PrimaryImage: p.PrimaryImage,
		Images:       p.Images,
		Rating:       p.Rating,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SearchParams filters a product listing
type SearchParams struct {
	Query    string
	Category string
	Page     int
	PageSize int
}

// SearchResult is one page of products
type SearchResult struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// Client defines the catalog operations used by the API
type Client interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	Get(ctx context.Context, id string) (*Product, error)
}

// Config configures the HTTP client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type httpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     *zap.Logger
}

// NewClient creates a catalog client guarded by a circuit breaker.
// The breaker opens after 5 consecutive failures and probes again after 30s.
func NewClient(cfg Config, logger *zap.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// an unknown product is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &httpClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
		logger:     logger,
	}
}

func (c *httpClient) get(ctx context.Context, operation, endpoint string) ([]byte, error) {
	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(APIKeyHeader, c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, errNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog response: %w", err)
		}
		return data, nil
	})
	if errors.Is(err, errNotFound) {
		metrics.RecordCatalogRequest(operation, nil)
	} else {
		metrics.RecordCatalogRequest(operation, err)
	}
	if err != nil {
		switch {
		case errors.Is(err, errNotFound):
			return nil, domain.NewNotFoundError("product not found")
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			c.logger.Warn("catalog request rejected by circuit breaker", zap.String("endpoint", endpoint))
			return nil, domain.NewInternalError("product catalog unavailable", err)
		default:
			return nil, domain.NewInternalError("product catalog unavailable", err)
		}
	}
	return body, nil
}

// Search lists products matching params
func (c *httpClient) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	query := url.Values{}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(params.PageSize))
	}

	endpoint := "/api/products"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.get(ctx, "search", endpoint)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data SearchResult `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domain.NewInternalError("invalid catalog response", err)
	}
	if envelope.Data.Items == nil {
		envelope.Data.Items = []Product{}
	}
	return &envelope.Data, nil
}

// Get fetches a single product
func (c *httpClient) Get(ctx context.Context, id string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("product id is required")
	}

	body, err := c.get(ctx, "get", "/api/products/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	product := &Product{}
	if err := json.Unmarshal(body, product); err != nil {
		return nil, domain.NewInternalError("invalid catalog response", err)
	}
	return product, nil
}
