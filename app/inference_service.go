package app

import (
	"context"
	"fmt"
	"sort"

	"winesense/domain/wine"
	"winesense/internal/errors"
	"winesense/ports"

	"golang.org/x/sync/errgroup"
)

// InferenceService is the inference adapter: it turns a wine sample into
// a quality verdict by way of an injected scaler and classifier. It is
// stateless and safe for concurrent use; the collaborators are read-only
// after loading.
type InferenceService struct {
	scaler     ports.Scaler
	classifier ports.Classifier
}

// NewInferenceService creates an inference service over a fitted scaler
// and trained classifier
func NewInferenceService(scaler ports.Scaler, classifier ports.Classifier) *InferenceService {
	return &InferenceService{
		scaler:     scaler,
		classifier: classifier,
	}
}

// Predict runs one sample through scale-then-classify and assembles the
// verdict with both class confidences. No rounding happens here.
func (s *InferenceService) Predict(ctx context.Context, sample wine.Sample) (*wine.Prediction, error) {
	if err := sample.Validate(); err != nil {
		return nil, errors.Wrap(errors.ScalingError(err.Error()), "sample rejected")
	}

	row, err := s.vectorize(sample)
	if err != nil {
		return nil, err
	}

	scaled, err := s.scaler.Transform(row)
	if err != nil {
		return nil, errors.Wrap(errors.ScalingError(err.Error()), "scaling failed")
	}

	// Predict and PredictProba are pure reads of an immutable model and
	// commute, so run them together.
	var class string
	var probs []float64
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		class, err = s.classifier.Predict(scaled)
		return err
	})
	g.Go(func() error {
		var err error
		probs, err = s.classifier.PredictProba(scaled)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.InferenceError("classification failed", err)
	}

	return s.assemble(class, probs)
}

// vectorize builds a single feature row in the scaler's own declared
// order. This is the one correctness-critical step of the whole system:
// a transposition here corrupts every prediction silently, so any name
// the scaler declares that the sample cannot supply fails loudly.
func (s *InferenceService) vectorize(sample wine.Sample) ([]float64, error) {
	names := s.scaler.FeatureNames()
	if len(names) != wine.FeatureCount {
		return nil, errors.ScalingError(fmt.Sprintf(
			"scaler declares %d features, expected %d", len(names), wine.FeatureCount))
	}

	row := make([]float64, len(names))
	for i, name := range names {
		v, ok := sample.ValueByName(name)
		if !ok {
			return nil, errors.ScalingError(fmt.Sprintf(
				"scaler declares unknown feature %q", name))
		}
		row[i] = v
	}
	return row, nil
}

// assemble maps classifier output onto the domain result. The positive
// class probability is found by class name, never by column position.
func (s *InferenceService) assemble(class string, probs []float64) (*wine.Prediction, error) {
	classes := s.classifier.Classes()
	if len(probs) != len(classes) {
		return nil, errors.InferenceError(fmt.Sprintf(
			"classifier returned %d probabilities for %d classes", len(probs), len(classes)), nil)
	}

	goodIdx := -1
	for i, c := range classes {
		if c == string(wine.LabelGood) {
			goodIdx = i
			break
		}
	}
	if goodIdx < 0 {
		return nil, errors.InferenceError("classifier declares no positive class", nil)
	}

	label, err := wine.ParseLabel(class)
	if err != nil {
		return nil, errors.InferenceError("classifier returned unexpected label", err)
	}

	pGood := probs[goodIdx]
	return &wine.Prediction{
		Label:    label,
		PGood:    pGood,
		PNotGood: 1 - pGood,
	}, nil
}

// RankedFeatureImportances zips the scaler's feature names with the
// classifier's static importance scores and sorts descending by score.
// Ties keep input order (stable sort).
func (s *InferenceService) RankedFeatureImportances() ([]wine.FeatureImportance, error) {
	names := s.scaler.FeatureNames()
	scores := s.classifier.FeatureImportances()
	if len(names) != len(scores) {
		return nil, errors.InferenceError(fmt.Sprintf(
			"scaler declares %d features but classifier scores %d", len(names), len(scores)), nil)
	}

	ranked := make([]wine.FeatureImportance, len(names))
	for i, name := range names {
		ranked[i] = wine.FeatureImportance{Feature: name, Score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
