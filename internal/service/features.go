package service

import (
	"fmt"
	"math"
	"time"

	"houseprice/internal/model"
)

// PositionalFeatureCount is the field count the generic model endpoint expects.
const PositionalFeatureCount = 15

// BuildPositionalVector validates the basic form state and produces the
// ordered feature vector for the generic /predict endpoint. The order comes
// from model.PositionalFeatureOrder only; every listed feature must resolve
// and nothing outside the list is ever sent.
func BuildPositionalVector(f model.BasicHouseFeatures) ([]float64, error) {
	if err := validateBasicFeatures(f); err != nil {
		return nil, err
	}

	values := map[string]float64{
		"size":                 f.Size,
		"bedrooms":             f.Bedrooms,
		"bathrooms":            f.Bathrooms,
		"year_built":           f.YearBuilt,
		"has_basement":         boolFeature(f.HasBasement),
		"has_garage":           boolFeature(f.HasGarage),
		"has_pool":             boolFeature(f.HasPool),
		"condition":            f.Condition,
		"stories":              f.Stories,
		"parking_spaces":       f.ParkingSpaces,
		"has_fireplace":        boolFeature(f.HasFireplace),
		"has_air_conditioning": boolFeature(f.HasAirConditioning),
		"lot_size":             f.LotSize,
		"rooms":                f.Rooms,
		"has_view":             boolFeature(f.HasView),
	}

	vector := make([]float64, 0, len(model.PositionalFeatureOrder))
	for _, name := range model.PositionalFeatureOrder {
		v, ok := values[name]
		if !ok {
			return nil, &model.ValidationError{Field: name, Reason: "feature missing from form state"}
		}
		vector = append(vector, v)
	}

	if len(vector) != PositionalFeatureCount {
		return nil, &model.ValidationError{
			Field:  "features",
			Reason: fmt.Sprintf("expected %d features, built %d", PositionalFeatureCount, len(vector)),
		}
	}

	return vector, nil
}

// BuildNamedPayload validates the named form state. The struct itself is the
// payload; its json tags mirror the remote contract exactly, so it is sent
// verbatim after validation.
func BuildNamedPayload(f model.NamedHouseFeatures) (model.NamedHouseFeatures, error) {
	currentYear := float64(time.Now().Year())

	checks := []struct {
		field    string
		value    float64
		min, max float64
	}{
		{"bedrooms", f.Bedrooms, 0, 10},
		{"bathrooms", f.Bathrooms, 0, 10},
		{"sqft_living", f.SqftLiving, 200, 15000},
		{"sqft_lot", f.SqftLot, 200, math.MaxFloat64},
		{"floors", f.Floors, 1, 4},
		{"waterfront", f.Waterfront, 0, 1},
		{"view", f.View, 0, 4},
		{"condition", f.Condition, 1, 5},
		{"grade", f.Grade, 1, 13},
		{"sqft_above", f.SqftAbove, 200, math.MaxFloat64},
		{"sqft_basement", f.SqftBasement, 0, math.MaxFloat64},
		{"yr_built", f.YrBuilt, 1800, currentYear},
		{"yr_renovated", f.YrRenovated, 0, currentYear},
		{"zipcode", f.Zipcode, 10000, 99999},
		{"lat", f.Lat, 47.0, 48.0},
	}

	for _, c := range checks {
		if err := checkFinite(c.field, c.value); err != nil {
			return model.NamedHouseFeatures{}, err
		}
		if c.value < c.min || c.value > c.max {
			return model.NamedHouseFeatures{}, rangeError(c.field, c.min, c.max)
		}
	}

	// Waterfront is a flag on the wire, not a rating
	if f.Waterfront != 0 && f.Waterfront != 1 {
		return model.NamedHouseFeatures{}, &model.ValidationError{Field: "waterfront", Reason: "must be 0 or 1"}
	}

	return f, nil
}

func validateBasicFeatures(f model.BasicHouseFeatures) error {
	currentYear := float64(time.Now().Year())

	checks := []struct {
		field    string
		value    float64
		min, max float64
	}{
		{"size", f.Size, 0, math.MaxFloat64},
		{"bedrooms", f.Bedrooms, 0, math.MaxFloat64},
		{"bathrooms", f.Bathrooms, 0, math.MaxFloat64},
		{"year_built", f.YearBuilt, 1800, currentYear},
		{"condition", f.Condition, 1, 5},
		{"stories", f.Stories, 1, math.MaxFloat64},
		{"parking_spaces", f.ParkingSpaces, 0, math.MaxFloat64},
		{"lot_size", f.LotSize, 0, math.MaxFloat64},
		{"rooms", f.Rooms, 1, math.MaxFloat64},
	}

	for _, c := range checks {
		if err := checkFinite(c.field, c.value); err != nil {
			return err
		}
		if c.value < c.min || c.value > c.max {
			return rangeError(c.field, c.min, c.max)
		}
	}

	return nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &model.ValidationError{Field: field, Reason: "must be a finite number"}
	}
	return nil
}

func rangeError(field string, min, max float64) *model.ValidationError {
	if max == math.MaxFloat64 {
		return &model.ValidationError{Field: field, Reason: fmt.Sprintf("must be at least %g", min)}
	}
	return &model.ValidationError{Field: field, Reason: fmt.Sprintf("must be between %g and %g", min, max)}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
