// Package service runs validated records through the loaded pipeline
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"weightwise/internal/core/features"
	"weightwise/internal/core/pipeline"
	"weightwise/internal/core/stage"
	perr "weightwise/internal/platform/errors"
	"weightwise/internal/platform/logger"
	"weightwise/internal/services/api/predict/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Svc implements the service port over one shared, read-only pipeline
type Svc struct {
	p *pipeline.Pipeline
}

// New attaches p; a nil pipeline yields a service that reports not ready
// a non-nil pipeline must produce every explanatory feature with the expected kind
func New(p *pipeline.Pipeline) (*Svc, error) {
	if p == nil {
		return &Svc{}, nil
	}
	shape := p.PrefixShape()
	var bad []string
	for _, name := range domain.Explained.Names() {
		if k, ok := shape[name]; !ok || k != domain.Explained[name] {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		return nil, perr.PipelineLoadf("pipeline does not produce explanatory features: %s", strings.Join(bad, ", "))
	}
	return &Svc{p: p}, nil
}

// Ready reports a PipelineLoad error until a pipeline is attached
func (s *Svc) Ready() error {
	if s == nil || s.p == nil {
		return perr.PipelineLoadf("model pipeline not loaded")
	}
	return nil
}

// Predict runs one prefix pass and scores the same record, so the explanation matches the label
func (s *Svc) Predict(ctx context.Context, rec domain.RawRecord) (domain.PredictionResult, error) {
	if err := s.Ready(); err != nil {
		return domain.PredictionResult{}, err
	}

	out, err := s.p.Evaluate(rec.Seed())
	if err != nil {
		err = stageFailure(err)
		logFailure(ctx, err)
		return domain.PredictionResult{}, err
	}

	cf, err := explain(out.Features)
	if err != nil {
		logFailure(ctx, err)
		return domain.PredictionResult{}, err
	}
	return domain.PredictionResult{Prediction: out.Label, CalculatedFeatures: cf}, nil
}

// Round2 rounds to two decimals from the exact binary value, ties to even
// so 0.125 gives 0.12 while 0.675, stored slightly above the tie, gives 0.68
func Round2(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}

func explain(rec features.Record) (domain.CalculatedFeatures, error) {
	var cf domain.CalculatedFeatures
	for _, name := range domain.Explained.Names() {
		v, ok := rec.Get(name)
		if !ok || v.Kind() != domain.Explained[name] {
			return cf, perr.WithField(perr.Newf(perr.ErrorCodePipelineStage, "explanatory feature %s missing after transform", name), name)
		}
		switch name {
		case domain.FeatHealthyMealRatio:
			f, _ := v.Float()
			cf.HealthyMealRatio = Round2(f)
		case domain.FeatActivityBalance:
			cf.ActivityBalance, _ = v.Float()
		case domain.FeatLifestyleScore:
			cf.LifestyleScore, _ = v.Float()
		case domain.FeatTransportType:
			cf.TransportType, _ = v.Text()
		}
	}
	return cf, nil
}

// stageFailure keeps the stage error in the chain and adds which stage and field failed
func stageFailure(err error) error {
	var se *pipeline.StageError
	if !errors.As(err, &se) {
		return perr.Wrap(err, perr.ErrorCodePipelineStage, "pipeline run failed")
	}
	out := perr.WithOp(perr.Wrapf(err, perr.ErrorCodePipelineStage, "pipeline stage %s failed", se.Stage), se.Stage)
	var fe *stage.Error
	if errors.As(err, &fe) && fe.Field != "" {
		out = perr.WithField(out, fe.Field)
	}
	return out
}

func logFailure(ctx context.Context, err error) {
	ev := logger.C(ctx).Error().Err(err)
	if e, ok := perr.As(err); ok {
		ev = ev.Str("stage", e.Op()).Str("field", e.Field())
	}
	var fe *stage.Error
	if errors.As(err, &fe) {
		ev = ev.Str("reason", string(fe.Reason))
	}
	ev.Msg("prediction failed")
}
