package service

import (
	"time"

	"houseprice/internal/model"
)

// Estimator is the deterministic local fallback used when no remote model
// service is configured. It is a placeholder formula, not an estimator fitted
// to data; its feature contract is intentionally independent of the remote
// model's.
type Estimator struct{}

// NewEstimator creates the local estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

const (
	estimatorBasePrice      = 200000
	estimatorSizeRate       = 150
	estimatorBedroomValue   = 25000
	estimatorBathroomValue  = 15000
	estimatorAgeDiscount    = 1000
	estimatorAmenityBonus   = 10000
	estimatorSpreadFraction = 0.10
	// The formula has no error model; the confidence reported for local
	// estimates is a fixed nominal value.
	estimatorConfidence = 85
)

// EstimateBasic prices a house from the basic form state.
func (e *Estimator) EstimateBasic(f model.BasicHouseFeatures) *model.PredictionResponse {
	amenities := countTrue(f.HasBasement, f.HasGarage, f.HasPool, f.HasFireplace, f.HasAirConditioning, f.HasView)
	return e.estimate(f.Size, f.Bedrooms, f.Bathrooms, f.YearBuilt, amenities)
}

// EstimateNamed prices a house from the named form state, treating the
// waterfront flag, a nonzero view rating and a basement as amenities.
func (e *Estimator) EstimateNamed(f model.NamedHouseFeatures) *model.PredictionResponse {
	amenities := countTrue(f.Waterfront == 1, f.View > 0, f.SqftBasement > 0)
	return e.estimate(f.SqftLiving, f.Bedrooms, f.Bathrooms, f.YrBuilt, amenities)
}

func (e *Estimator) estimate(size, bedrooms, bathrooms, yearBuilt float64, amenities int) *model.PredictionResponse {
	currentYear := float64(time.Now().Year())
	price := estimatorBasePrice +
		size*estimatorSizeRate +
		bedrooms*estimatorBedroomValue +
		bathrooms*estimatorBathroomValue -
		(currentYear-yearBuilt)*estimatorAgeDiscount +
		float64(amenities)*estimatorAmenityBonus

	min := price * (1 - estimatorSpreadFraction)
	if min < 0 {
		min = 0
	}
	max := price * (1 + estimatorSpreadFraction)
	if max < 0 {
		max = 0
	}

	return &model.PredictionResponse{
		Kind:       model.RangeEstimate,
		MinPrice:   min,
		MaxPrice:   max,
		Confidence: estimatorConfidence,
	}
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
