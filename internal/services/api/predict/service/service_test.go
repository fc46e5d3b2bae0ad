package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sync/errgroup"

	"weightwise/internal/core/pipeline"
	"weightwise/internal/core/stage"
	perr "weightwise/internal/platform/errors"
	"weightwise/internal/platform/net/http/bind"
	"weightwise/internal/platform/testkit"
	"weightwise/internal/services/api/predict/domain"
)

var modelPath = filepath.Join("..", "..", "..", "..", "..", "artifacts", "obesity_model.yaml")

func newSvc(t *testing.T) *Svc {
	t.Helper()
	data, err := os.ReadFile(modelPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	p, err := pipeline.Load(data)
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	s, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func exampleRecord(t *testing.T) domain.RawRecord {
	t.Helper()
	in := testkit.DecodeJSON[domain.PredictInput](t, bytes.NewReader(testkit.Fixture(t, "testdata", "example_input.json")))
	if err := bind.Validate(in); err != nil {
		t.Fatalf("example input invalid: %v", err)
	}
	return in.Record()
}

func golden(t *testing.T) domain.PredictionResult {
	t.Helper()
	return testkit.DecodeJSON[domain.PredictionResult](t, bytes.NewReader(testkit.Fixture(t, "testdata", "example_output.json")))
}

func TestPredict_Golden(t *testing.T) {
	t.Parallel()
	s := newSvc(t)

	got, err := s.Predict(context.Background(), exampleRecord(t))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if want := golden(t); got != want {
		t.Fatalf("Predict = %+v, want %+v", got, want)
	}
}

func TestPredict_Idempotent(t *testing.T) {
	t.Parallel()
	s := newSvc(t)
	rec := exampleRecord(t)

	first, err := s.Predict(context.Background(), rec)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Predict(context.Background(), rec)
		if err != nil || again != first {
			t.Fatalf("run %d = %+v, %v; want %+v", i, again, err, first)
		}
	}
}

func TestPredict_MealRatioTieRoundsToEven(t *testing.T) {
	t.Parallel()
	s := newSvc(t)

	rec := exampleRecord(t)
	rec.FCVC, rec.NCP = 1, 8

	got, err := s.Predict(context.Background(), rec)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got.CalculatedFeatures.HealthyMealRatio != 0.12 {
		t.Fatalf("HealthyMealRatio = %v, want 0.12", got.CalculatedFeatures.HealthyMealRatio)
	}
}

func TestPredict_Concurrent(t *testing.T) {
	t.Parallel()
	s := newSvc(t)
	rec := exampleRecord(t)
	want := golden(t)

	tall := rec
	tall.Height, tall.Weight = 2.10, 190

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			in, expect := rec, want.Prediction
			if i%2 == 1 {
				in, expect = tall, 6
			}
			got, err := s.Predict(context.Background(), in)
			if err != nil {
				return err
			}
			if got.Prediction != expect {
				return errors.New("prediction drifted under concurrency")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestPredict_StageFailureNamesStageAndField(t *testing.T) {
	t.Parallel()
	s := newSvc(t)

	rec := exampleRecord(t)
	rec.NCP = 0

	_, err := s.Predict(context.Background(), rec)
	if !perr.IsCode(err, perr.ErrorCodePipelineStage) {
		t.Fatalf("code = %v, err = %v", perr.CodeOf(err), err)
	}
	e, _ := perr.As(err)
	if e.Op() != "healthy_meal_ratio" || e.Field() != "NCP" {
		t.Fatalf("op = %q field = %q", e.Op(), e.Field())
	}
	if !stage.IsReason(err, stage.ReasonDivisionByZero) {
		t.Fatalf("stage reason lost: %v", err)
	}
	var se *pipeline.StageError
	if !errors.As(err, &se) || se.Index != 1 {
		t.Fatalf("stage error lost: %v", err)
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	if err := newSvc(t).Ready(); err != nil {
		t.Fatalf("loaded service not ready: %v", err)
	}

	empty, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := empty.Ready(); !perr.IsCode(err, perr.ErrorCodePipelineLoad) {
		t.Fatalf("Ready() = %v", err)
	}
	if _, err := empty.Predict(context.Background(), exampleRecord(t)); !perr.IsCode(err, perr.ErrorCodePipelineLoad) {
		t.Fatalf("Predict on unloaded = %v", err)
	}
}

func TestNew_RejectsPipelineWithoutExplanations(t *testing.T) {
	t.Parallel()

	artifact := []byte(`
name: partial
inputs: {FCVC: number, NCP: number, MTRANS: string}
stages:
  - {name: ratio, kind: meal_ratio}
  - {name: transport, kind: transport_type, config: {categories: {Walking: Active}}}
estimator:
  kind: decision_tree
  features: [HealthyMealRatio]
  tree:
    - {feature: HealthyMealRatio, threshold: 0.5, left: 1, right: 2}
    - {leaf: 0}
    - {leaf: 1}
`)
	p, err := pipeline.Load(artifact)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err = New(p)
	if !perr.IsCode(err, perr.ErrorCodePipelineLoad) {
		t.Fatalf("New = %v", err)
	}
	testkit.MustContain(t, err.Error(), "ActivityBalance, LifestyleScore")
}

func TestRound2(t *testing.T) {
	t.Parallel()

	cases := map[float64]float64{
		2.0 / 3.0: 0.67,
		0.125:     0.12,
		0.375:     0.38,
		-0.125:    -0.12,
		0.675:     0.68,
		0.145:     0.14,
		0.155:     0.15,
		1:         1,
		0.994999:  0.99,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
