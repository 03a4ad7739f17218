package model

// PositionalFeatureOrder is the exact feature order the generic model endpoint
// expects in its "features" array. Payload construction, documentation and
// tests all read from this single list; reordering it is a contract change.
var PositionalFeatureOrder = []string{
	"size",
	"bedrooms",
	"bathrooms",
	"year_built",
	"has_basement",
	"has_garage",
	"has_pool",
	"condition",
	"stories",
	"parking_spaces",
	"has_fireplace",
	"has_air_conditioning",
	"lot_size",
	"rooms",
	"has_view",
}

// BasicHouseFeatures is the form state for the generic prediction flow.
// Boolean amenities are encoded as 0/1 when the positional vector is built.
type BasicHouseFeatures struct {
	Size               float64 `json:"size"`
	Bedrooms           float64 `json:"bedrooms"`
	Bathrooms          float64 `json:"bathrooms"`
	YearBuilt          float64 `json:"year_built"`
	HasBasement        bool    `json:"has_basement"`
	HasGarage          bool    `json:"has_garage"`
	HasPool            bool    `json:"has_pool"`
	Condition          float64 `json:"condition"`
	Stories            float64 `json:"stories"`
	ParkingSpaces      float64 `json:"parking_spaces"`
	HasFireplace       bool    `json:"has_fireplace"`
	HasAirConditioning bool    `json:"has_air_conditioning"`
	LotSize            float64 `json:"lot_size"`
	Rooms              float64 `json:"rooms"`
	HasView            bool    `json:"has_view"`
}

// DefaultBasicFeatures returns the form defaults used when a field is omitted.
func DefaultBasicFeatures() BasicHouseFeatures {
	return BasicHouseFeatures{
		Size:          2000,
		Bedrooms:      3,
		Bathrooms:     2,
		YearBuilt:     2010,
		Condition:     3,
		Stories:       1,
		ParkingSpaces: 1,
		LotSize:       5000,
		Rooms:         6,
	}
}

// NamedHouseFeatures is the form state for the richer prediction flow. Field
// names mirror the remote model contract exactly; the payload is sent with
// these keys verbatim. Waterfront is numeric 0/1 on the wire.
type NamedHouseFeatures struct {
	Bedrooms     float64 `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	SqftLiving   float64 `json:"sqft_living"`
	SqftLot      float64 `json:"sqft_lot"`
	Floors       float64 `json:"floors"`
	Waterfront   float64 `json:"waterfront"`
	View         float64 `json:"view"`
	Condition    float64 `json:"condition"`
	Grade        float64 `json:"grade"`
	SqftAbove    float64 `json:"sqft_above"`
	SqftBasement float64 `json:"sqft_basement"`
	YrBuilt      float64 `json:"yr_built"`
	YrRenovated  float64 `json:"yr_renovated"`
	Zipcode      float64 `json:"zipcode"`
	Lat          float64 `json:"lat"`
}

// DefaultNamedFeatures returns the form defaults for the named flow.
func DefaultNamedFeatures() NamedHouseFeatures {
	return NamedHouseFeatures{
		Bedrooms:     3,
		Bathrooms:    2,
		SqftLiving:   2000,
		SqftLot:      5000,
		Floors:       1,
		Waterfront:   0,
		View:         0,
		Condition:    3,
		Grade:        7,
		SqftAbove:    1500,
		SqftBasement: 500,
		YrBuilt:      1990,
		YrRenovated:  0,
		Zipcode:      98000,
		Lat:          47.5,
	}
}
