package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/web"
)

const maxResponseBytes = 1 << 20

// PostResult is the server's answer to an order submission. Order is set on 201, Error and
// Details otherwise.
type PostResult struct {
	Status  int
	Order   *models.Order
	Error   string
	Details []string
}

// APIClient talks to the ordering API over HTTP
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// PostOrder submits an order. A returned error means no usable answer came back: the request
// failed in transit or a 201 body could not be decoded.
func (c *APIClient) PostOrder(ctx context.Context, sub models.OrderSubmission) (*PostResult, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	result := &PostResult{Status: resp.StatusCode}
	if resp.StatusCode == http.StatusCreated {
		var order models.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		result.Order = &order
		return result, nil
	}

	// Error bodies are optional; an unreadable one leaves Error empty.
	var problem web.ErrorResponse
	if json.Unmarshal(raw, &problem) == nil {
		result.Error = problem.Error
		result.Details = problem.Details
	}
	return result, nil
}

// FetchMenu returns the current menu.
func (c *APIClient) FetchMenu(ctx context.Context) ([]models.MenuItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/menu", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch menu: unexpected status %d", resp.StatusCode)
	}

	var items []models.MenuItem
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	return items, nil
}
