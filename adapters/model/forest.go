package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Forest evaluates a trained random-forest classifier: each tree votes
// with its leaf class distribution and the votes are averaged. The
// forest is immutable after loading and safe for concurrent use.
type Forest struct {
	classes            []string
	featureCount       int
	featureImportances []float64
	trees              []tree
}

func newForest(artifact *forestArtifact) *Forest {
	f := &Forest{
		classes:            artifact.Classes,
		featureCount:       artifact.FeatureCount,
		featureImportances: artifact.FeatureImportances,
		trees:              artifact.Trees,
	}
	// Leaf distributions may be raw training-sample counts; normalize
	// once at load so evaluation works on probabilities.
	for _, t := range f.trees {
		for i, n := range t.Nodes {
			if n.Leaf == nil {
				continue
			}
			if sum := floats.Sum(n.Leaf); sum > 0 {
				floats.Scale(1/sum, t.Nodes[i].Leaf)
			}
		}
	}
	return f
}

// Classes returns the class names in probability-column order
func (f *Forest) Classes() []string {
	classes := make([]string, len(f.classes))
	copy(classes, f.classes)
	return classes
}

// FeatureImportances returns the static per-feature scores fixed at
// training time
func (f *Forest) FeatureImportances() []float64 {
	scores := make([]float64, len(f.featureImportances))
	copy(scores, f.featureImportances)
	return scores
}

// PredictProba returns per-class probabilities for one scaled row,
// averaged over all trees.
func (f *Forest) PredictProba(row []float64) ([]float64, error) {
	if len(row) != f.featureCount {
		return nil, fmt.Errorf("row has %d values, forest was trained with %d features",
			len(row), f.featureCount)
	}

	probs := make([]float64, len(f.classes))
	for _, t := range f.trees {
		floats.Add(probs, t.leafFor(row))
	}
	floats.Scale(1/float64(len(f.trees)), probs)
	return probs, nil
}

// Predict returns the winning class name for one scaled row. The winner
// is the class with the highest averaged probability; ties go to the
// earliest class, matching the behavior the model was trained under.
func (f *Forest) Predict(row []float64) (string, error) {
	probs, err := f.PredictProba(row)
	if err != nil {
		return "", err
	}
	return f.classes[floats.MaxIdx(probs)], nil
}

// leafFor walks one tree to the leaf distribution for a row. Structure
// is validated at load, so traversal cannot loop or escape the node set.
func (t tree) leafFor(row []float64) []float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return n.Leaf
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
