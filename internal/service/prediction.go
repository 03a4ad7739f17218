package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"houseprice/internal/model"
	"houseprice/internal/render"
	"houseprice/internal/repository"
	"houseprice/internal/utils"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// DefaultComparableLimit is how many comparable properties a prediction
// summary carries when the caller does not override it.
const DefaultComparableLimit = 3

// PredictionService runs the full pipeline: build payload, call the model
// service (or the local estimator when none is configured), normalize the
// outcome, attach comparables and render the distribution chart.
type PredictionService struct {
	repo            *repository.PostgresRepository
	predictor       *PredictorClient
	estimator       *Estimator
	comparableLimit int
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	repo *repository.PostgresRepository,
	predictor *PredictorClient,
	estimator *Estimator,
	comparableLimit int,
) *PredictionService {
	return &PredictionService{
		repo:            repo,
		predictor:       predictor,
		estimator:       estimator,
		comparableLimit: comparableLimit,
	}
}

// PredictBasic runs the generic flow: positional vector to the model
// service's /predict endpoint.
func (s *PredictionService) PredictBasic(ctx context.Context, features model.BasicHouseFeatures) (*model.PredictionSummary, error) {
	startTime := time.Now()

	vector, err := BuildPositionalVector(features)
	if err != nil {
		return nil, err
	}

	var resp *model.PredictionResponse
	source := model.SourceLocalEstimator
	if s.predictor.IsEnabled() {
		source = model.SourceRemotePositional
		resp, err = s.predictor.PredictPositional(ctx, vector)
		if err != nil {
			return nil, err
		}
	} else {
		resp = s.estimator.EstimateBasic(features)
	}

	result, err := NormalizeResponse(resp)
	if err != nil {
		return nil, err
	}

	target := model.SimilarityVector(features.Size, features.Bedrooms, features.Bathrooms, features.YearBuilt)
	s.attachComparables(ctx, result, target)

	summary := s.buildSummary(result, source, startTime)
	s.logPrediction(features, result, source)
	return summary, nil
}

// PredictNamed runs the richer flow: named payload, with the caller's bearer
// token forwarded to the model service.
func (s *PredictionService) PredictNamed(ctx context.Context, features model.NamedHouseFeatures, token string) (*model.PredictionSummary, error) {
	startTime := time.Now()

	payload, err := BuildNamedPayload(features)
	if err != nil {
		return nil, err
	}

	var resp *model.PredictionResponse
	source := model.SourceLocalEstimator
	if s.predictor.IsEnabled() {
		source = model.SourceRemoteNamed
		resp, err = s.predictor.PredictNamed(ctx, payload, token)
		if err != nil {
			return nil, err
		}
	} else {
		resp = s.estimator.EstimateNamed(payload)
	}

	result, err := NormalizeResponse(resp)
	if err != nil {
		return nil, err
	}

	target := model.SimilarityVector(payload.SqftLiving, payload.Bedrooms, payload.Bathrooms, payload.YrBuilt)
	s.attachComparables(ctx, result, target)

	summary := s.buildSummary(result, source, startTime)
	s.logPrediction(features, result, source)
	return summary, nil
}

// History returns the most recent stored predictions.
func (s *PredictionService) History(ctx context.Context, limit int) ([]model.PredictionRecord, error) {
	return s.repo.ListPredictions(ctx, limit)
}

// UpsertComparables stores comparable properties with their similarity
// embeddings.
func (s *PredictionService) UpsertComparables(ctx context.Context, rows []model.ComparableProperty) (int, []string) {
	return s.repo.UpsertComparables(ctx, rows)
}

// attachComparables fills in comparables by feature similarity when the model
// service supplied none. Lookup failures degrade to an empty set; the
// prediction itself is already in hand.
func (s *PredictionService) attachComparables(ctx context.Context, result *model.PredictionResult, target pgvector.Vector) {
	if len(result.ComparableProperties) > 0 || s.repo == nil {
		return
	}
	comparables, err := s.repo.FindComparables(ctx, target, s.comparableLimit)
	if err != nil {
		log.Printf("Warning: comparable lookup failed: %v", err)
		return
	}
	result.ComparableProperties = comparables
}

func (s *PredictionService) buildSummary(result *model.PredictionResult, source string, startTime time.Time) *model.PredictionSummary {
	chart, err := render.Chart(result.MinPrice, result.MaxPrice)
	if err != nil {
		var rangeErr *model.InvalidRangeError
		if !errors.As(err, &rangeErr) {
			log.Printf("Warning: chart rendering failed: %v", err)
		}
		chart = render.EmptyChart()
	}

	cards := make([]model.ComparableCard, 0, len(result.ComparableProperties))
	for _, cp := range result.ComparableProperties {
		cards = append(cards, model.ComparableCard{
			ComparableProperty: cp,
			FormattedPrice:     utils.FormatUSD(cp.Price),
			FormattedDistance:  utils.FormatMiles(cp.DistanceFromTarget),
		})
	}

	return &model.PredictionSummary{
		ID:                uuid.NewString(),
		Result:            result,
		FormattedMinPrice: utils.FormatUSD(result.MinPrice),
		FormattedAvgPrice: utils.FormatUSD(result.AvgPrice),
		FormattedMaxPrice: utils.FormatUSD(result.MaxPrice),
		ChartSVG:          chart,
		Comparables:       cards,
		Source:            source,
		Took:              time.Since(startTime).Milliseconds(),
	}
}

// logPrediction stores the history row without blocking the response, like
// the request logging the rest of the service does.
func (s *PredictionService) logPrediction(features any, result *model.PredictionResult, source string) {
	if s.repo == nil {
		return
	}
	rec := &model.PredictionRecord{
		ID:             uuid.NewString(),
		Features:       featureMap(features),
		PredictedPrice: result.AvgPrice,
		MinPrice:       result.MinPrice,
		MaxPrice:       result.MaxPrice,
		Confidence:     result.ConfidenceScore,
		Source:         source,
		CreatedAt:      time.Now().UTC(),
	}
	go func() {
		if err := s.repo.SavePrediction(context.Background(), rec); err != nil {
			log.Printf("Warning: failed to save prediction history: %v", err)
		}
	}()
}

func featureMap(features any) model.JSONMap {
	data, err := json.Marshal(features)
	if err != nil {
		return model.JSONMap{}
	}
	var m model.JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return model.JSONMap{}
	}
	return m
}
