package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// TooManyRequestsError represents rate limiting signal from the listing service.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client resolves service listings.
type Client interface {
	Listing(ctx context.Context, serviceID string) (*model.Listing, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors JSON payload of the listing service.
type response struct {
	ID                 string          `json:"id"`
	ProviderID         string          `json:"providerId"`
	RatePerHour        decimal.Decimal `json:"ratePerHour"`
	Currency           string          `json:"currency"`
	CancellationPolicy string          `json:"cancellationPolicy"`
}

// NewHTTPClient creates HTTP listing client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("listing url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Listing fetches the current terms of a service.
func (c *HTTPClient) Listing(ctx context.Context, serviceID string) (*model.Listing, error) {
	endpoint := *c.baseURL
	base := path.Join(endpoint.Path, "/api/services")
	endpoint.Path = base + "/" + serviceID
	endpoint.RawPath = (&url.URL{Path: base}).EscapedPath() + "/" + url.PathEscape(serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		if strings.TrimSpace(data.ProviderID) == "" {
			return nil, fmt.Errorf("%w: listing %s has no provider", domainErrors.ErrInvalidOrderData, serviceID)
		}
		id := data.ID
		if id == "" {
			id = serviceID
		}
		return &model.Listing{
			ID:                 id,
			ProviderID:         data.ProviderID,
			RatePerHour:        data.RatePerHour,
			Currency:           strings.ToUpper(strings.TrimSpace(data.Currency)),
			CancellationPolicy: model.CancellationPolicy(strings.ToLower(strings.TrimSpace(data.CancellationPolicy))),
		}, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("listing %s: %w", serviceID, domainErrors.ErrNotFound)
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("listing request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("listing error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
