package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"houseprice/internal/config"
	"houseprice/internal/model"
)

func newTestClient(baseURL string) *PredictorClient {
	return NewPredictorClient(&config.PredictorConfig{
		BaseURL: baseURL,
		Timeout: 5,
		Enabled: true,
	})
}

func TestPredictPositional(t *testing.T) {
	var gotBody positionalRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("path = %q, want /predict", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]float64{"prediction": 523000})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	features := []float64{2000, 3, 2, 2010, 0, 0, 0, 3, 1, 1, 0, 0, 5000, 6, 0}

	resp, err := client.PredictPositional(context.Background(), features)
	if err != nil {
		t.Fatalf("PredictPositional() error = %v", err)
	}

	if len(gotBody.Features) != PositionalFeatureCount {
		t.Errorf("sent %d features, want %d", len(gotBody.Features), PositionalFeatureCount)
	}
	if resp.Kind != model.PointEstimate {
		t.Errorf("Kind = %v, want PointEstimate", resp.Kind)
	}
	if resp.Point != 523000 {
		t.Errorf("Point = %v, want 523000", resp.Point)
	}
}

func TestPredictNamedForwardsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]float64{"predicted_price": 610000})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	resp, err := client.PredictNamed(context.Background(), model.DefaultNamedFeatures(), "user-token")
	if err != nil {
		t.Fatalf("PredictNamed() error = %v", err)
	}
	if gotAuth != "Bearer user-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer user-token")
	}
	if resp.Point != 610000 {
		t.Errorf("Point = %v, want 610000", resp.Point)
	}
}

func TestPredictNamedFallsBackToAPIKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]float64{"predicted_price": 610000})
	}))
	defer server.Close()

	client := NewPredictorClient(&config.PredictorConfig{
		BaseURL: server.URL,
		APIKey:  "service-key",
		Timeout: 5,
		Enabled: true,
	})

	if _, err := client.PredictNamed(context.Background(), model.DefaultNamedFeatures(), ""); err != nil {
		t.Fatalf("PredictNamed() error = %v", err)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer service-key")
	}
}

func TestPredictRangeResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"min_price":        450000,
			"max_price":        550000,
			"confidence_score": 91,
			"comparable_properties": []map[string]any{
				{"address": "456 Pine Avenue", "price": 480000},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	resp, err := client.PredictNamed(context.Background(), model.DefaultNamedFeatures(), "")
	if err != nil {
		t.Fatalf("PredictNamed() error = %v", err)
	}
	if resp.Kind != model.RangeEstimate {
		t.Errorf("Kind = %v, want RangeEstimate", resp.Kind)
	}
	if resp.MinPrice != 450000 || resp.MaxPrice != 550000 {
		t.Errorf("range = [%v, %v], want [450000, 550000]", resp.MinPrice, resp.MaxPrice)
	}
	if resp.Confidence != 91 {
		t.Errorf("Confidence = %v, want 91", resp.Confidence)
	}
	if len(resp.Comparables) != 1 {
		t.Errorf("comparable count = %d, want 1", len(resp.Comparables))
	}
}

func TestPredictRangeWithoutConfidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"min_price": 450000,
			"max_price": 550000,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	resp, err := client.PredictNamed(context.Background(), model.DefaultNamedFeatures(), "")
	if err != nil {
		t.Fatalf("PredictNamed() error = %v", err)
	}
	// An absent confidence_score gets the nominal value, not zero
	if resp.Confidence != nominalConfidence {
		t.Errorf("Confidence = %v, want %v", resp.Confidence, float64(nominalConfidence))
	}
}

func TestPredictServerErrorRelaysDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "sqft_living must be positive"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.PredictPositional(context.Background(), []float64{1})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var serverErr *model.PredictionServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("error type = %T, want *model.PredictionServerError", err)
	}
	if serverErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", serverErr.StatusCode)
	}
	if serverErr.Detail != "sqft_living must be positive" {
		t.Errorf("Detail = %q, want relayed detail", serverErr.Detail)
	}
}

func TestPredictServerErrorWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("plain text panic"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.PredictPositional(context.Background(), []float64{1})
	var serverErr *model.PredictionServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("error type = %T, want *model.PredictionServerError", err)
	}
	if serverErr.Detail != genericServerErrorDetail {
		t.Errorf("Detail = %q, want generic fallback", serverErr.Detail)
	}
}

func TestPredictNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	client := newTestClient(server.URL)

	_, err := client.PredictPositional(context.Background(), []float64{1})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var netErr *model.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error type = %T, want *model.NetworkError", err)
	}
	if netErr.Unwrap() == nil {
		t.Error("NetworkError should wrap the underlying transport error")
	}
}

func TestPredictMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{"prediction": `},
		{"no recognizable fields", `{"status": "ok"}`},
		{"min without max", `{"min_price": 400000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)

			_, err := client.PredictPositional(context.Background(), []float64{1})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var malformedErr *model.MalformedResponseError
			if !errors.As(err, &malformedErr) {
				t.Errorf("error type = %T, want *model.MalformedResponseError", err)
			}
		})
	}
}

func TestPredictDisabledClient(t *testing.T) {
	client := NewPredictorClient(&config.PredictorConfig{Enabled: false})

	if _, err := client.PredictPositional(context.Background(), []float64{1}); err == nil {
		t.Error("PredictPositional() on a disabled client should fail")
	}
	if _, err := client.PredictNamed(context.Background(), model.DefaultNamedFeatures(), ""); err == nil {
		t.Error("PredictNamed() on a disabled client should fail")
	}
}
