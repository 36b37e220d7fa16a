package scoreapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComputeIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/score" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Country != "España" || req.Province != "Alicante" {
			t.Errorf("unexpected scope: %+v", req)
		}
		json.NewEncoder(w).Encode(Response{
			WeightedIndex: 66.8,
			Breakdown:     map[string]float64{"Infraestructura Digital": 76},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	resp, err := c.ComputeIndex(context.Background(), Request{Country: "España", Province: "Alicante", Period: 2024})
	if err != nil {
		t.Fatalf("ComputeIndex failed: %v", err)
	}
	if resp.WeightedIndex != 66.8 {
		t.Errorf("expected 66.8, got %f", resp.WeightedIndex)
	}
	if resp.Breakdown["Infraestructura Digital"] != 76 {
		t.Errorf("unexpected breakdown: %v", resp.Breakdown)
	}
}

func TestComputeIndexServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	if _, err := c.ComputeIndex(context.Background(), Request{Country: "España"}); err == nil {
		t.Error("expected error on 500 response")
	}
}
