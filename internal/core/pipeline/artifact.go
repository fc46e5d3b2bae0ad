package pipeline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"

	"weightwise/internal/core/estimator"
	"weightwise/internal/core/features"
	"weightwise/internal/core/stage"
)

// Artifact is the serialized, pre-fit pipeline
// JSON artifacts decode too since JSON is valid YAML
type Artifact struct {
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	TrainedAt string            `yaml:"trained_at"`
	Inputs    map[string]string `yaml:"inputs"`
	Stages    []stage.Spec      `yaml:"stages"`
	Estimator estimator.Spec    `yaml:"estimator"`
}

// Decode parses an artifact, rejecting unknown top level keys
func Decode(data []byte) (Artifact, error) {
	var a Artifact
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return Artifact{}, fmt.Errorf("decode artifact: %w", err)
	}
	return a, nil
}

// InputShape converts the declared raw record schema
func (a Artifact) InputShape() (features.Shape, error) {
	if len(a.Inputs) == 0 {
		return nil, fmt.Errorf("artifact declares no inputs")
	}
	s := make(features.Shape, len(a.Inputs))
	for name, kind := range a.Inputs {
		switch kind {
		case "number":
			s[name] = features.KindNumber
		case "string":
			s[name] = features.KindString
		default:
			return nil, fmt.Errorf("input %q has kind %q, want number or string", name, kind)
		}
	}
	return s, nil
}

// Checksum is the hex SHA-256 of raw artifact bytes
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
