package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"houseprice/internal/config"
	"houseprice/internal/model"
	"houseprice/internal/service"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the prediction routes against a backend URL. An empty
// URL leaves the remote client disabled so the local estimator answers.
func newTestRouter(backendURL string) *gin.Engine {
	predictorCfg := &config.PredictorConfig{
		BaseURL: backendURL,
		Timeout: 5,
		Enabled: backendURL != "",
	}
	predictor := service.NewPredictorClient(predictorCfg)
	predictionService := service.NewPredictionService(nil, predictor, service.NewEstimator(), service.DefaultComparableLimit)
	h := NewPredictionHandler(predictionService, 20, 100)

	router := gin.New()
	router.POST("/api/v1/predictions", h.Predict)
	router.POST("/api/v1/predictions/basic", h.PredictBasic)
	router.GET("/api/v1/predictions/chart", h.Chart)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPredictSuccess(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"min_price":        450000,
			"max_price":        550000,
			"confidence_score": 90,
		})
	}))
	defer backend.Close()

	router := newTestRouter(backend.URL)
	rec := doJSON(t, router, "POST", "/api/v1/predictions", `{"sqft_living": 2400}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var summary model.PredictionSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if summary.ID == "" {
		t.Error("summary missing id")
	}
	if summary.Result.MinPrice != 450000 || summary.Result.MaxPrice != 550000 {
		t.Errorf("range = [%v, %v], want [450000, 550000]", summary.Result.MinPrice, summary.Result.MaxPrice)
	}
	if summary.FormattedAvgPrice != "$500,000" {
		t.Errorf("FormattedAvgPrice = %q, want $500,000", summary.FormattedAvgPrice)
	}
	if !strings.Contains(summary.ChartSVG, "<svg") {
		t.Error("summary missing chart")
	}
	if summary.Source != model.SourceRemoteNamed {
		t.Errorf("Source = %q, want %q", summary.Source, model.SourceRemoteNamed)
	}
}

func TestPredictForwardsBearer(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]float64{"predicted_price": 500000})
	}))
	defer backend.Close()

	router := newTestRouter(backend.URL)
	rec := doJSON(t, router, "POST", "/api/v1/predictions", `{}`, map[string]string{
		"Authorization": "Bearer session-token",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotAuth != "Bearer session-token" {
		t.Errorf("backend saw Authorization = %q, want forwarded token", gotAuth)
	}
}

func TestPredictValidationError(t *testing.T) {
	router := newTestRouter("")
	rec := doJSON(t, router, "POST", "/api/v1/predictions", `{"sqft_living": 50}`, nil)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["field"] != "sqft_living" {
		t.Errorf("field = %v, want sqft_living", body["field"])
	}
	if body["detail"] == "" {
		t.Error("validation error missing detail")
	}
}

func TestPredictRelaysBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "zipcode not covered by the model"})
	}))
	defer backend.Close()

	router := newTestRouter(backend.URL)
	rec := doJSON(t, router, "POST", "/api/v1/predictions", `{}`, nil)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want relayed 422", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["detail"] != "zipcode not covered by the model" {
		t.Errorf("detail = %q, want backend detail relayed verbatim", body["detail"])
	}
}

func TestPredictNetworkError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close() // refuse all connections

	router := newTestRouter(backend.URL)
	rec := doJSON(t, router, "POST", "/api/v1/predictions", `{}`, nil)

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["detail"] != "Network error. Please check your connection." {
		t.Errorf("detail = %q, want the connection error message", body["detail"])
	}
}

func TestPredictMalformedBackendResponse(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer backend.Close()

	router := newTestRouter(backend.URL)
	rec := doJSON(t, router, "POST", "/api/v1/predictions", `{}`, nil)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestPredictInvalidBody(t *testing.T) {
	router := newTestRouter("")
	rec := doJSON(t, router, "POST", "/api/v1/predictions", `{"bedrooms": `, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPredictBasicUsesLocalEstimator(t *testing.T) {
	router := newTestRouter("")
	rec := doJSON(t, router, "POST", "/api/v1/predictions/basic", `{"size": 2400, "has_garage": true}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var summary model.PredictionSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.Source != model.SourceLocalEstimator {
		t.Errorf("Source = %q, want %q", summary.Source, model.SourceLocalEstimator)
	}
	if summary.Result.MinPrice <= 0 || summary.Result.MaxPrice <= summary.Result.MinPrice {
		t.Errorf("estimator produced range [%v, %v]", summary.Result.MinPrice, summary.Result.MaxPrice)
	}
}

func TestPredictBasicKeepsFormDefaults(t *testing.T) {
	var gotFeatures []float64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Features []float64 `json:"features"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotFeatures = req.Features
		json.NewEncoder(w).Encode(map[string]float64{"prediction": 500000})
	}))
	defer backend.Close()

	router := newTestRouter(backend.URL)
	rec := doJSON(t, router, "POST", "/api/v1/predictions/basic", `{"bedrooms": 4}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	want := []float64{2000, 4, 2, 2010, 0, 0, 0, 3, 1, 1, 0, 0, 5000, 6, 0}
	if len(gotFeatures) != len(want) {
		t.Fatalf("backend saw %d features, want %d", len(gotFeatures), len(want))
	}
	for i, v := range want {
		if gotFeatures[i] != v {
			t.Errorf("feature[%d] = %v, want %v", i, gotFeatures[i], v)
		}
	}
}

func TestChartEndpoint(t *testing.T) {
	router := newTestRouter("")

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantBody    string
		wantSVGType bool
	}{
		{
			name:        "valid range",
			query:       "min=450000&max=550000",
			wantStatus:  http.StatusOK,
			wantBody:    "$500,000",
			wantSVGType: true,
		},
		{
			name:        "inverted range degrades to placeholder",
			query:       "min=550000&max=450000",
			wantStatus:  http.StatusOK,
			wantBody:    "No price distribution available",
			wantSVGType: true,
		},
		{
			name:       "unparseable min",
			query:      "min=abc&max=550000",
			wantStatus: http.StatusBadRequest,
			wantBody:   "min must be a number",
		},
		{
			name:       "missing max",
			query:      "min=450000",
			wantStatus: http.StatusBadRequest,
			wantBody:   "max must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/predictions/chart?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q", tt.wantBody)
			}
			if tt.wantSVGType && !strings.Contains(rec.Header().Get("Content-Type"), "image/svg+xml") {
				t.Errorf("Content-Type = %q, want image/svg+xml", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestChartIdempotent(t *testing.T) {
	router := newTestRouter("")

	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/v1/predictions/chart?min=450000&max=550000", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		bodies = append(bodies, rec.Body.String())
	}

	if bodies[0] != bodies[1] {
		t.Error("chart endpoint output differs across identical requests")
	}
}
