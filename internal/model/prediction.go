package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pgvector/pgvector-go"
)

// ResponseKind identifies which of the two remote contract shapes arrived.
type ResponseKind int

const (
	// PointEstimate is a bare scalar price, e.g. {"prediction": 450000} or
	// {"predicted_price": 450000}.
	PointEstimate ResponseKind = iota
	// RangeEstimate is the richer shape carrying min/max, confidence and
	// comparable properties.
	RangeEstimate
)

// PredictionResponse is the raw outcome of a remote prediction call before
// normalization. Exactly one variant is populated, selected by Kind.
type PredictionResponse struct {
	Kind        ResponseKind
	Point       float64
	MinPrice    float64
	MaxPrice    float64
	Confidence  float64
	Comparables []ComparableProperty
}

// PredictionResult is the canonical normalized prediction consumed by every
// rendering component. MinPrice <= MaxPrice always holds and ConfidenceScore
// is clamped to [0,100].
type PredictionResult struct {
	MinPrice             float64              `json:"min_price"`
	MaxPrice             float64              `json:"max_price"`
	AvgPrice             float64              `json:"avg_price"`
	ConfidenceScore      float64              `json:"confidence_score"`
	ComparableProperties []ComparableProperty `json:"comparable_properties"`
}

// ComparableProperty is a read-only display record for a nearby sold or
// listed property. Order of delivery is preserved downstream.
type ComparableProperty struct {
	ID                 string  `json:"id" db:"id"`
	Address            string  `json:"address" db:"address"`
	Price              float64 `json:"price" db:"price"`
	Size               float64 `json:"size" db:"size"`
	Bedrooms           float64 `json:"bedrooms" db:"bedrooms"`
	Bathrooms          float64 `json:"bathrooms" db:"bathrooms"`
	YearBuilt          int     `json:"year_built" db:"year_built"`
	DistanceFromTarget float64 `json:"distance_from_target" db:"distance_from_target"`
	ImageURL           string  `json:"image_url" db:"image_url"`
}

// SimilarityVector builds the embedding used for comparable lookup. The
// space is the four fields both form flows and every comparable record
// share; payload construction and storage must agree on it.
func SimilarityVector(size, bedrooms, bathrooms, yearBuilt float64) pgvector.Vector {
	return pgvector.NewVector([]float32{
		float32(size), float32(bedrooms), float32(bathrooms), float32(yearBuilt),
	})
}

// SimilarityVector returns the record's own embedding.
func (c ComparableProperty) SimilarityVector() pgvector.Vector {
	return SimilarityVector(c.Size, c.Bedrooms, c.Bathrooms, float64(c.YearBuilt))
}

// ComparableBatchRequest is a batch upsert of comparable properties.
type ComparableBatchRequest struct {
	Comparables []ComparableProperty `json:"comparables" binding:"required"`
}

// ComparableBatchResponse reports the outcome of a batch upsert.
type ComparableBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ComparableCard is the display form of a comparable property: the raw
// record plus pre-formatted currency and distance strings.
type ComparableCard struct {
	ComparableProperty
	FormattedPrice    string `json:"formatted_price"`
	FormattedDistance string `json:"formatted_distance"`
}

// PredictionSummary is the full response for a prediction submission: the
// canonical result, display formatting, the rendered distribution chart and
// the comparable cards.
type PredictionSummary struct {
	ID                string            `json:"id"`
	Result            *PredictionResult `json:"result"`
	FormattedMinPrice string            `json:"formatted_min_price"`
	FormattedAvgPrice string            `json:"formatted_avg_price"`
	FormattedMaxPrice string            `json:"formatted_max_price"`
	ChartSVG          string            `json:"chart_svg"`
	Comparables       []ComparableCard  `json:"comparables"`
	Source            string            `json:"source"`
	Took              int64             `json:"took_ms"`
}

// PredictionRecord is a stored prediction history row.
type PredictionRecord struct {
	ID             string    `json:"id" db:"id"`
	Features       JSONMap   `json:"features" db:"features"`
	PredictedPrice float64   `json:"predicted_price" db:"predicted_price"`
	MinPrice       float64   `json:"min_price" db:"min_price"`
	MaxPrice       float64   `json:"max_price" db:"max_price"`
	Confidence     float64   `json:"confidence" db:"confidence"`
	Source         string    `json:"source" db:"source"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Prediction sources stored with each history row.
const (
	SourceRemoteNamed      = "remote_named"
	SourceRemotePositional = "remote_positional"
	SourceLocalEstimator   = "local_estimator"
)

// JSONMap represents a JSON object field
type JSONMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
