package model

import (
	"fmt"
	"math"
)

// StandardScaler applies the per-feature (x - mean) / scale transform
// fitted offline. Stateless after construction.
type StandardScaler struct {
	featureNames []string
	mean         []float64
	scale        []float64
}

func newStandardScaler(artifact *scalerArtifact) *StandardScaler {
	return &StandardScaler{
		featureNames: artifact.FeatureNames,
		mean:         artifact.Mean,
		scale:        artifact.Scale,
	}
}

// FeatureNames returns the fitted feature ordering. Callers must build
// vectors in exactly this order; copied so callers cannot mutate it.
func (s *StandardScaler) FeatureNames() []string {
	names := make([]string, len(s.featureNames))
	copy(names, s.featureNames)
	return names
}

// Transform scales one raw feature row
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.featureNames) {
		return nil, fmt.Errorf("row has %d values, scaler was fitted with %d features",
			len(row), len(s.featureNames))
	}

	scaled := make([]float64, len(row))
	for i, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("feature %q is not a finite number", s.featureNames[i])
		}
		scaled[i] = (v - s.mean[i]) / s.scale[i]
	}
	return scaled, nil
}
