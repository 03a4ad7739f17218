package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"houseprice/internal/config"
	"houseprice/internal/model"
)

// PredictorClient talks to the remote model service. Each call is an
// independent request-response exchange: no retries, no backoff, no caching.
type PredictorClient struct {
	config     *config.PredictorConfig
	httpClient *http.Client
}

// NewPredictorClient creates a client for the configured model service.
func NewPredictorClient(cfg *config.PredictorConfig) *PredictorClient {
	return &PredictorClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether a remote model service is configured.
func (c *PredictorClient) IsEnabled() bool {
	return c.config.Enabled
}

// positionalRequest is the generic endpoint's request body.
type positionalRequest struct {
	Features []float64 `json:"features"`
}

// predictionBody covers both response shapes the model service is known to
// return. Pointers distinguish absent fields from zero values.
type predictionBody struct {
	Prediction           *float64                   `json:"prediction"`
	PredictedPrice       *float64                   `json:"predicted_price"`
	MinPrice             *float64                   `json:"min_price"`
	MaxPrice             *float64                   `json:"max_price"`
	ConfidenceScore      *float64                   `json:"confidence_score"`
	ComparableProperties []model.ComparableProperty `json:"comparable_properties"`
}

// errorBody is the model service's error payload.
type errorBody struct {
	Detail string `json:"detail"`
}

// genericServerErrorDetail is surfaced when an error response carries no
// detail field.
const genericServerErrorDetail = "prediction request failed"

// PredictPositional sends the ordered feature vector to the generic /predict
// endpoint and returns the raw outcome.
func (c *PredictorClient) PredictPositional(ctx context.Context, features []float64) (*model.PredictionResponse, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("prediction service is not configured (missing PREDICTOR_BASE_URL)")
	}

	body, err := c.post(ctx, positionalRequest{Features: features}, "")
	if err != nil {
		return nil, err
	}

	return parsePredictionBody(body)
}

// PredictNamed sends the named feature payload to /predict. When token is
// non-empty it is forwarded as the bearer credential; otherwise the
// service-level API key is used if one is configured. Session lifecycle is
// the caller's concern.
func (c *PredictorClient) PredictNamed(ctx context.Context, payload model.NamedHouseFeatures, token string) (*model.PredictionResponse, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("prediction service is not configured (missing PREDICTOR_BASE_URL)")
	}

	body, err := c.post(ctx, payload, token)
	if err != nil {
		return nil, err
	}

	return parsePredictionBody(body)
}

// post performs one exchange with the /predict endpoint and classifies
// transport and server failures.
func (c *PredictorClient) post(ctx context.Context, payload any, token string) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/predict", c.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if token == "" {
		token = c.config.APIKey
	}
	if token != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &model.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := genericServerErrorDetail
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
			detail = eb.Detail
		}
		return nil, &model.PredictionServerError{StatusCode: resp.StatusCode, Detail: detail}
	}

	return body, nil
}

// parsePredictionBody decides which contract variant arrived. A full min/max
// bracket wins over a point estimate when both are present.
func parsePredictionBody(body []byte) (*model.PredictionResponse, error) {
	var pb predictionBody
	if err := json.Unmarshal(body, &pb); err != nil {
		return nil, &model.MalformedResponseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if pb.MinPrice != nil && pb.MaxPrice != nil {
		resp := &model.PredictionResponse{
			Kind:        model.RangeEstimate,
			MinPrice:    *pb.MinPrice,
			MaxPrice:    *pb.MaxPrice,
			Confidence:  nominalConfidence,
			Comparables: pb.ComparableProperties,
		}
		if pb.ConfidenceScore != nil {
			resp.Confidence = *pb.ConfidenceScore
		}
		return resp, nil
	}

	if pb.PredictedPrice != nil {
		return &model.PredictionResponse{Kind: model.PointEstimate, Point: *pb.PredictedPrice}, nil
	}
	if pb.Prediction != nil {
		return &model.PredictionResponse{Kind: model.PointEstimate, Point: *pb.Prediction}, nil
	}

	return nil, &model.MalformedResponseError{Reason: "response carries neither a price nor a price range"}
}
