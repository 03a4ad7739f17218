package model

// PriceTrend is one month of average predicted prices.
type PriceTrend struct {
	Month    string  `json:"month" db:"month"`
	AvgPrice float64 `json:"avgPrice" db:"avg_price"`
	Zipcode  string  `json:"zipcode" db:"zipcode"`
}

// FeatureImportance reports the model's weight for a single named feature.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// AccuracyPoint is one quarter of model accuracy history.
type AccuracyPoint struct {
	Date     string  `json:"date"`
	Accuracy float64 `json:"accuracy"`
}

// AccuracyReport summarizes model error metrics.
type AccuracyReport struct {
	MAE           float64         `json:"mae"`
	MSE           float64         `json:"mse"`
	R2Score       float64         `json:"r2_score"`
	AccuracyTrend []AccuracyPoint `json:"accuracy_trend"`
}
