package domain

import "context"

// ReadinessPort reports whether predictions can be served
type ReadinessPort interface {
	Ready() error
}

// ServicePort is the predict service contract
type ServicePort interface {
	ReadinessPort
	Predict(ctx context.Context, rec RawRecord) (PredictionResult, error)
}
