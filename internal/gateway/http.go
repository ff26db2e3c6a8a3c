package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"invest-console.io/console/internal/domain"
	apperrors "invest-console.io/console/internal/pkg/errors"
	"invest-console.io/console/internal/pkg/metrics"
)

// HTTPClient implements Client against the real backend REST API.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
}

// NewHTTPClient creates a gateway client with a bounded per-request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// PortfolioOwners implements Client.
func (c *HTTPClient) PortfolioOwners(ctx context.Context) ([]domain.PortfolioOwner, error) {
	var owners []domain.PortfolioOwner
	if err := c.do(ctx, "portfolio_owners", http.MethodGet, "/portfolio-owners", nil, &owners); err != nil {
		return nil, err
	}
	return owners, nil
}

// SubMarketers implements Client.
func (c *HTTPClient) SubMarketers(ctx context.Context, portfolioOwnerID string) ([]domain.SubMarketer, error) {
	var subMarketers []domain.SubMarketer
	path := fmt.Sprintf("/portfolio-owners/%s/sub-marketers", portfolioOwnerID)
	if err := c.do(ctx, "sub_marketers", http.MethodGet, path, nil, &subMarketers); err != nil {
		return nil, err
	}
	return subMarketers, nil
}

// OwnerInvestments implements Client.
func (c *HTTPClient) OwnerInvestments(ctx context.Context, portfolioOwnerID string) ([]domain.InvestmentRecord, error) {
	var records []domain.InvestmentRecord
	path := fmt.Sprintf("/portfolio-owners/%s/investments", portfolioOwnerID)
	if err := c.do(ctx, "owner_investments", http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SubMarketerInvestments implements Client.
func (c *HTTPClient) SubMarketerInvestments(ctx context.Context, subMarketerID string) ([]domain.InvestmentRecord, error) {
	var records []domain.InvestmentRecord
	path := fmt.Sprintf("/sub-marketers/%s/investments", subMarketerID)
	if err := c.do(ctx, "sub_marketer_investments", http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// statusUpdateBody is the PUT /investments/{id}/status request body.
type statusUpdateBody struct {
	Status domain.Status   `json:"status"`
	Amount decimal.Decimal `json:"amount"`
}

// UpdateInvestmentStatus implements Client.
func (c *HTTPClient) UpdateInvestmentStatus(ctx context.Context, investmentID string, status domain.Status, amount decimal.Decimal) (domain.InvestmentRecord, error) {
	var record domain.InvestmentRecord
	path := fmt.Sprintf("/investments/%s/status", investmentID)
	body := statusUpdateBody{Status: status, Amount: amount}
	if err := c.do(ctx, "update_status", http.MethodPut, path, body, &record); err != nil {
		return domain.InvestmentRecord{}, err
	}
	return record, nil
}

// do performs one backend request: bearer token, JSON in/out, non-2xx
// surfaced as a backend error. The operation label feeds metrics only.
func (c *HTTPClient) do(ctx context.Context, operation, method, path string, body, out interface{}) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, body, out)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.GatewayRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
	return err
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.ErrBackendUnavailablef(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.ErrBackendUnavailablef(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return apperrors.ErrBackendUnavailablef(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The backend defines no structured error schema; any non-2xx is a
		// generic request failure.
		return apperrors.ErrBackendUnavailablef(fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)).
			WithParams(map[string]interface{}{"status_code": resp.StatusCode})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.ErrBackendUnavailablef(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
