package stage

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"weightwise/internal/core/features"
)

// rec builds a record from name, value pairs; float64 and string values only
func rec(t *testing.T, kv ...any) features.Record {
	t.Helper()
	if len(kv)%2 != 0 {
		t.Fatalf("rec: odd number of arguments")
	}
	r := features.NewRecord(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		name := kv[i].(string)
		switch v := kv[i+1].(type) {
		case float64:
			r.SetNumber(name, v)
		case int:
			r.SetNumber(name, float64(v))
		case string:
			r.SetString(name, v)
		default:
			t.Fatalf("rec: unsupported %T", v)
		}
	}
	return r
}

func mustNum(t *testing.T, r features.Record, name string) float64 {
	t.Helper()
	v, ok := r.Get(name)
	if !ok {
		t.Fatalf("field %q missing from %v", name, r.Map())
	}
	f, ok := v.Float()
	if !ok {
		t.Fatalf("field %q is %s, want number", name, v.Kind())
	}
	return f
}

func mustReason(t *testing.T, err error, r Reason, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", r)
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *stage.Error, got %T %v", err, err)
	}
	if se.Reason != r || se.Field != field {
		t.Fatalf("got %s on %q, want %s on %q", se.Reason, se.Field, r, field)
	}
}

// applyAtomic runs Apply and checks the input survived unchanged either way
func applyAtomic(t *testing.T, s Stage, in features.Record) (features.Record, error) {
	t.Helper()
	before := in.Clone()
	out, err := s.Apply(in)
	if !in.Equal(before) {
		t.Fatalf("%s mutated its input: %v -> %v", s.Name(), before.Map(), in.Map())
	}
	return out, err
}

func TestNumeric(t *testing.T) {
	t.Parallel()
	s, err := NewNumeric("num", NumericConfig{Fields: []string{"FCVC", "NCP"}})
	if err != nil {
		t.Fatal(err)
	}

	out, err := applyAtomic(t, s, rec(t, "FCVC", 2, "NCP", " 3 ", "Gender", "Male"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if mustNum(t, out, "FCVC") != 2 || mustNum(t, out, "NCP") != 3 {
		t.Fatalf("coercion mismatch: %v", out.Map())
	}
	if v, _ := out.Get("Gender"); v.IsNumber() {
		t.Fatalf("untouched field changed kind")
	}

	_, err = applyAtomic(t, s, rec(t, "FCVC", 2, "NCP", "three"))
	mustReason(t, err, ReasonInvalidFieldType, "NCP")

	_, err = applyAtomic(t, s, rec(t, "FCVC", "NaN", "NCP", 1))
	mustReason(t, err, ReasonInvalidFieldType, "FCVC")

	_, err = applyAtomic(t, s, rec(t, "FCVC", 2))
	mustReason(t, err, ReasonMissingField, "NCP")

	if _, err := NewNumeric("num", NumericConfig{}); err == nil {
		t.Fatalf("empty field list accepted")
	}
	if _, err := NewNumeric("num", NumericConfig{Fields: []string{"A", "A"}}); err == nil {
		t.Fatalf("duplicate field accepted")
	}
}

func TestMinMax_ExtrapolatesWithoutClamping(t *testing.T) {
	t.Parallel()
	s, err := NewMinMax("scale", MinMaxConfig{Fields: map[string]Bounds{"Weight": {Min: 0, Max: 10}}})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{5, 0.5},
		{10, 1},
		{15, 1.5},
		{-5, -0.5},
	}
	for _, c := range cases {
		out, err := applyAtomic(t, s, rec(t, "Weight", c.in))
		if err != nil {
			t.Fatalf("apply(%v): %v", c.in, err)
		}
		if got := mustNum(t, out, "Weight"); got != c.want {
			t.Fatalf("scale(%v) = %v, want %v", c.in, got, c.want)
		}
	}

	_, err = applyAtomic(t, s, rec(t, "Weight", "heavy"))
	mustReason(t, err, ReasonInvalidFieldType, "Weight")
}

func TestMinMax_FeatureRangeAndRejects(t *testing.T) {
	t.Parallel()
	s, err := NewMinMax("scale", MinMaxConfig{
		Fields: map[string]Bounds{"FAF": {Min: 0, Max: 4}},
		Range:  []float64{-1, 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Apply(rec(t, "FAF", 2))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustNum(t, out, "FAF"); got != 0 {
		t.Fatalf("mid range = %v, want 0", got)
	}

	bad := []MinMaxConfig{
		{},
		{Fields: map[string]Bounds{"A": {Min: 1, Max: 1}}},
		{Fields: map[string]Bounds{"A": {Min: 2, Max: 1}}},
		{Fields: map[string]Bounds{"A": {Min: 0, Max: 1}}, Range: []float64{1}},
		{Fields: map[string]Bounds{"A": {Min: 0, Max: 1}}, Range: []float64{1, 0}},
	}
	for i, cfg := range bad {
		if _, err := NewMinMax("scale", cfg); err == nil {
			t.Fatalf("case %d: invalid config accepted", i)
		}
	}
}

func TestMealRatio(t *testing.T) {
	t.Parallel()
	s, err := NewMealRatio("meal", MealRatioConfig{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := applyAtomic(t, s, rec(t, "FCVC", 2, "NCP", 3))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustNum(t, out, FieldHealthyMealRatio); got != 2.0/3.0 {
		t.Fatalf("ratio = %v", got)
	}

	_, err = applyAtomic(t, s, rec(t, "FCVC", 2, "NCP", 0))
	mustReason(t, err, ReasonDivisionByZero, "NCP")

	_, err = applyAtomic(t, s, rec(t, "FCVC", "2", "NCP", 1))
	mustReason(t, err, ReasonInvalidFieldType, "FCVC")

	if _, err := NewMealRatio("meal", MealRatioConfig{Numerator: "X", Denominator: "X"}); err == nil {
		t.Fatalf("self ratio accepted")
	}
}

func TestActivityBalance(t *testing.T) {
	t.Parallel()
	s, err := NewActivityBalance("act", ActivityBalanceConfig{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Apply(rec(t, "FAF", 1, "TUE", 1))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustNum(t, out, FieldActivityBalance); got != 0 {
		t.Fatalf("balance = %v, want 0", got)
	}

	two, half := 2.0, 0.5
	w, err := NewActivityBalance("act", ActivityBalanceConfig{PositiveWeight: &two, NegativeWeight: &half})
	if err != nil {
		t.Fatal(err)
	}
	out, err = w.Apply(rec(t, "FAF", 1.5, "TUE", 2))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustNum(t, out, FieldActivityBalance); got != 2 {
		t.Fatalf("weighted balance = %v, want 2", got)
	}

	_, err = applyAtomic(t, s, rec(t, "FAF", 1))
	mustReason(t, err, ReasonMissingField, "TUE")
}

func TestTransportType(t *testing.T) {
	t.Parallel()
	table := map[string]string{"Walking": "Active", "Bike": "Active", "Public_Transportation": "Public"}
	s, err := NewTransportType("transport", TransportTypeConfig{Categories: table})
	if err != nil {
		t.Fatal(err)
	}
	out, err := applyAtomic(t, s, rec(t, "MTRANS", "Public_Transportation"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out.Get(FieldTransportType); v.Format() != `"Public"` {
		t.Fatalf("TransportType = %s", v.Format())
	}
	if v, _ := out.Get("MTRANS"); v.Format() != `"Public_Transportation"` {
		t.Fatalf("source was changed: %s", v.Format())
	}

	_, err = applyAtomic(t, s, rec(t, "MTRANS", "Rocket"))
	mustReason(t, err, ReasonUnknownCategory, "MTRANS")
	if !IsReason(err, ReasonUnknownCategory) {
		t.Fatalf("IsReason mismatch")
	}

	d, err := NewTransportType("transport", TransportTypeConfig{Categories: table, Default: "Other"})
	if err != nil {
		t.Fatal(err)
	}
	out, err = d.Apply(rec(t, "MTRANS", "Rocket"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out.Get(FieldTransportType); v.Format() != `"Other"` {
		t.Fatalf("default not used: %s", v.Format())
	}
	if got := strings.Join(s.Modes(), ","); got != "Bike,Public_Transportation,Walking" {
		t.Fatalf("Modes = %s", got)
	}
}

func TestLifestyleScore(t *testing.T) {
	t.Parallel()
	s, err := NewLifestyleScore("life", LifestyleScoreConfig{
		Expr:   "0.5 * FAF + CH2O",
		Inputs: []string{"FAF", "CH2O"},
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := applyAtomic(t, s, rec(t, "FAF", 2, "CH2O", 1))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustNum(t, out, FieldLifestyleScore); got != 2 {
		t.Fatalf("score = %v, want 2", got)
	}

	_, err = applyAtomic(t, s, rec(t, "FAF", "2", "CH2O", 1))
	mustReason(t, err, ReasonInvalidFieldType, "FAF")

	inf, err := NewLifestyleScore("life", LifestyleScoreConfig{Expr: "FAF / 0.0", Inputs: []string{"FAF"}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = applyAtomic(t, inf, rec(t, "FAF", 1))
	mustReason(t, err, ReasonNonFinite, FieldLifestyleScore)

	overflow, err := NewLifestyleScore("life", LifestyleScoreConfig{Expr: "double(int(FAF * 1e300))", Inputs: []string{"FAF"}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = applyAtomic(t, overflow, rec(t, "FAF", 1))
	mustReason(t, err, ReasonEvaluation, FieldLifestyleScore)

	bad := []LifestyleScoreConfig{
		{Inputs: []string{"FAF"}},
		{Expr: "FAF"},
		{Expr: "FAF > 1.0", Inputs: []string{"FAF"}},
		{Expr: "FAF + TUE", Inputs: []string{"FAF"}},
		{Expr: "2 * FAF", Inputs: []string{"FAF"}},
		{Expr: "FAF +", Inputs: []string{"FAF"}},
	}
	for _, cfg := range bad {
		if _, err := NewLifestyleScore("life", cfg); err == nil {
			t.Fatalf("expression %q with inputs %v accepted", cfg.Expr, cfg.Inputs)
		}
	}
}

func TestCategoryEncode_RoundTrip(t *testing.T) {
	t.Parallel()
	cats := map[string]int{"Active": 0, "Public": 1, "Motorized": 2}
	s, err := NewCategoryEncode("enc", CategoryEncodeConfig{Fields: []EncodeField{
		{Source: "TransportType", Output: "TransportTypeCode", Categories: cats},
		{Source: "Gender", Categories: map[string]int{"Female": 0, "Male": 1}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := s.Codec("TransportType")
	if !ok {
		t.Fatal("codec missing")
	}
	for label := range cats {
		out, err := applyAtomic(t, s, rec(t, "TransportType", label, "Gender", "Male"))
		if err != nil {
			t.Fatalf("encode %q: %v", label, err)
		}
		code := mustNum(t, out, "TransportTypeCode")
		back, ok := c.Decode(int(code))
		if !ok || back != label {
			t.Fatalf("round trip %q -> %v -> %q", label, code, back)
		}
		if v, _ := out.Get("TransportType"); v.IsNumber() {
			t.Fatalf("source should keep its string when output differs")
		}
		if mustNum(t, out, "Gender") != 1 {
			t.Fatalf("in place encode failed: %v", out.Map())
		}
	}

	_, err = applyAtomic(t, s, rec(t, "TransportType", "Teleport", "Gender", "Male"))
	mustReason(t, err, ReasonUnknownCategory, "TransportType")

	_, err = applyAtomic(t, s, rec(t, "TransportType", "Active", "Gender", 1))
	mustReason(t, err, ReasonInvalidFieldType, "Gender")

	if _, err := NewCategoryEncode("enc", CategoryEncodeConfig{Fields: []EncodeField{
		{Source: "A", Categories: map[string]int{"x": 0}},
		{Source: "B", Output: "A", Categories: map[string]int{"y": 0}},
	}}); err == nil {
		t.Fatalf("duplicate output accepted")
	}
}

func TestDropStages(t *testing.T) {
	t.Parallel()
	d, err := NewDropFeatures("drop", DropFeaturesConfig{Fields: []string{"SMOKE"}})
	if err != nil {
		t.Fatal(err)
	}
	out, err := applyAtomic(t, d, rec(t, "SMOKE", "no", "Weight", 70))
	if err != nil {
		t.Fatal(err)
	}
	if out.Has("SMOKE") || !out.Has("Weight") {
		t.Fatalf("drop result = %v", out.Map())
	}
	_, err = applyAtomic(t, d, rec(t, "Weight", 70))
	mustReason(t, err, ReasonMissingField, "SMOKE")

	n, err := NewDropNonNumeric("strings", DropNonNumericConfig{Keep: []string{"TransportType"}})
	if err != nil {
		t.Fatal(err)
	}
	out, err = applyAtomic(t, n, rec(t, "Gender", "Male", "TransportType", "Public", "Weight", 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(out.Names(), ","); got != "TransportType,Weight" {
		t.Fatalf("remaining fields = %s", got)
	}
}

func TestShape_OrderingErrors(t *testing.T) {
	t.Parallel()
	raw := features.Shape{"FCVC": features.KindNumber, "NCP": features.KindNumber, "MTRANS": features.KindString}

	drop, _ := NewDropNonNumeric("strings", DropNonNumericConfig{})
	transport, _ := NewTransportType("transport", TransportTypeConfig{Categories: map[string]string{"Walking": "Active"}})

	after, err := drop.Shape(raw)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := after["MTRANS"]; ok {
		t.Fatalf("MTRANS survived drop_non_numeric shape")
	}
	if _, err := transport.Shape(after); err == nil || !strings.Contains(err.Error(), "MTRANS") {
		t.Fatalf("expected ordering error naming MTRANS, got %v", err)
	}

	keep, _ := NewDropNonNumeric("strings", DropNonNumericConfig{Keep: []string{"TransportType"}})
	if _, err := keep.Shape(raw); err == nil {
		t.Fatalf("keep of an absent field should fail")
	}

	meal, _ := NewMealRatio("meal", MealRatioConfig{})
	s, err := meal.Shape(raw)
	if err != nil {
		t.Fatal(err)
	}
	if s[FieldHealthyMealRatio] != features.KindNumber {
		t.Fatalf("meal ratio shape = %v", s)
	}
	if _, err := meal.Shape(features.Shape{"FCVC": features.KindString, "NCP": features.KindNumber}); err == nil {
		t.Fatalf("string numerator accepted")
	}
}

const factoryYAML = `
- name: coerce
  kind: numeric
  config:
    fields: [FCVC, NCP]
- kind: meal_ratio
- name: strings
  kind: drop_non_numeric
`

func TestFactory_BuildFromYAML(t *testing.T) {
	t.Parallel()
	var specs []Spec
	if err := yaml.Unmarshal([]byte(factoryYAML), &specs); err != nil {
		t.Fatal(err)
	}
	f := DefaultFactory()
	r := rec(t, "FCVC", "2", "NCP", 4, "Gender", "Male")
	for _, sp := range specs {
		st, err := f.Build(sp)
		if err != nil {
			t.Fatalf("build %s: %v", sp.Kind, err)
		}
		if r, err = st.Apply(r); err != nil {
			t.Fatalf("apply %s: %v", st.Name(), err)
		}
	}
	if got := mustNum(t, r, FieldHealthyMealRatio); got != 0.5 {
		t.Fatalf("ratio = %v", got)
	}
	if r.Has("Gender") {
		t.Fatalf("Gender should be dropped")
	}

	if _, err := f.Build(Spec{Kind: "teleport"}); err == nil || !strings.Contains(err.Error(), "unknown stage kind") {
		t.Fatalf("unknown kind error = %v", err)
	}
	var bad Spec
	if err := yaml.Unmarshal([]byte("kind: minmax\nconfig:\n  fields:\n    A: {min: 1, max: 1}\n"), &bad); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Build(bad); err == nil || !strings.Contains(err.Error(), "max > min") {
		t.Fatalf("degenerate bounds error = %v", err)
	}
	if len(f.Kinds()) != 9 {
		t.Fatalf("Kinds = %v", f.Kinds())
	}
}
