package service

import (
	"math"

	"houseprice/internal/model"
)

// Point-estimate fallback policy: the model service's scalar flow carries no
// native min/max, so a symmetric ±10% spread is synthesized around the
// estimate (the same bracket the product has always displayed). Negative
// estimates are rejected as malformed, never clamped into a usable bracket.
// Point estimates get a fixed confidence since the backend reports none.
const (
	pointSpreadFraction = 0.10
	// nominalConfidence stands in whenever the backend reports no confidence
	// of its own: point estimates and ranges without a confidence_score.
	nominalConfidence = 85
)

// NormalizeResponse converts either remote contract variant into the
// canonical PredictionResult consumed by rendering.
func NormalizeResponse(resp *model.PredictionResponse) (*model.PredictionResult, error) {
	if resp == nil {
		return nil, &model.MalformedResponseError{Reason: "empty response"}
	}

	switch resp.Kind {
	case model.PointEstimate:
		if math.IsNaN(resp.Point) || math.IsInf(resp.Point, 0) {
			return nil, &model.MalformedResponseError{Reason: "point estimate is not a finite number"}
		}
		if resp.Point < 0 {
			return nil, &model.MalformedResponseError{Reason: "point estimate is negative"}
		}
		min := resp.Point * (1 - pointSpreadFraction)
		max := resp.Point * (1 + pointSpreadFraction)
		return buildResult(min, max, nominalConfidence, nil)

	case model.RangeEstimate:
		if math.IsNaN(resp.MinPrice) || math.IsInf(resp.MinPrice, 0) ||
			math.IsNaN(resp.MaxPrice) || math.IsInf(resp.MaxPrice, 0) {
			return nil, &model.MalformedResponseError{Reason: "price range is not finite"}
		}
		if resp.MinPrice > resp.MaxPrice {
			return nil, &model.MalformedResponseError{Reason: "min price exceeds max price"}
		}
		return buildResult(resp.MinPrice, resp.MaxPrice, resp.Confidence, resp.Comparables)
	}

	return nil, &model.MalformedResponseError{Reason: "unknown response variant"}
}

func buildResult(min, max, confidence float64, comparables []model.ComparableProperty) (*model.PredictionResult, error) {
	// Both variants validate before reaching here; this guards the ordering
	// invariant against any future path that forgets to.
	if min > max {
		return nil, &model.MalformedResponseError{Reason: "min price exceeds max price"}
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	if comparables == nil {
		comparables = []model.ComparableProperty{}
	}

	return &model.PredictionResult{
		MinPrice:             math.Round(min),
		MaxPrice:             math.Round(max),
		AvgPrice:             math.Round((math.Round(min) + math.Round(max)) / 2),
		ConfidenceScore:      confidence,
		ComparableProperties: comparables,
	}, nil
}
