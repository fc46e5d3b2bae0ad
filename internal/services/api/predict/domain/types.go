package domain

import "weightwise/internal/core/features"

// Explanatory feature names the pipeline prefix must produce
const (
	FeatHealthyMealRatio = "HealthyMealRatio"
	FeatActivityBalance  = "ActivityBalance"
	FeatTransportType    = "TransportType"
	FeatLifestyleScore   = "LifestyleScore"
)

// Explained lists the explanatory features and the kind each must have
var Explained = features.Shape{
	FeatHealthyMealRatio: features.KindNumber,
	FeatActivityBalance:  features.KindNumber,
	FeatTransportType:    features.KindString,
	FeatLifestyleScore:   features.KindNumber,
}

// CalculatedFeatures are the derived values returned next to a prediction
type CalculatedFeatures struct {
	HealthyMealRatio float64 `json:"HealthyMealRatio" example:"0.67"`
	ActivityBalance  float64 `json:"ActivityBalance"  example:"0"`
	TransportType    string  `json:"TransportType"    example:"Public"`
	LifestyleScore   float64 `json:"LifestyleScore"   example:"1"`
}

// PredictionResult is the success payload of one prediction
type PredictionResult struct {
	Prediction         int                `json:"prediction" example:"1"`
	CalculatedFeatures CalculatedFeatures `json:"calculated_features"`
}
