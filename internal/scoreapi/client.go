// Package scoreapi talks to the secondary HTTP backend that serves
// pre-aggregated index computations. Callers fall back to client-side
// aggregation when it is unreachable.
package scoreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request scopes one index computation.
type Request struct {
	Country     string `json:"country"`
	Period      int    `json:"period"`
	Sector      string `json:"sector,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
	Province    string `json:"province,omitempty"`
}

// Response carries the weighted index and its per-dimension breakdown.
type Response struct {
	WeightedIndex float64            `json:"weightedIndex"`
	Breakdown     map[string]float64 `json:"breakdown"`
}

type Client interface {
	ComputeIndex(ctx context.Context, req Request) (*Response, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) ComputeIndex(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/score", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("scoreapi POST /score: %d %s", resp.StatusCode, string(body))
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("scoreapi decode: %w", err)
	}
	return &out, nil
}
