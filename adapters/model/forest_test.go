package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testForest is a two-tree stump forest over one feature. Leaves carry
// raw sample counts to exercise load-time normalization.
func testForest() *Forest {
	return newForest(&forestArtifact{
		SchemaVersion:      SchemaVersion,
		Kind:               "random_forest",
		Classes:            []string{"not_good", "good"},
		FeatureCount:       1,
		FeatureImportances: []float64{1},
		Trees: []tree{
			{Nodes: []treeNode{
				{Feature: 0, Threshold: 0, Left: 1, Right: 2},
				{Leaf: []float64{80, 20}},
				{Leaf: []float64{10, 90}},
			}},
			{Nodes: []treeNode{
				{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
				{Leaf: []float64{60, 40}},
				{Leaf: []float64{30, 70}},
			}},
		},
	})
}

func TestForestPredictProbaAveragesTrees(t *testing.T) {
	forest := testForest()

	// x = 1: tree 1 → [0.1, 0.9], tree 2 → [0.3, 0.7]
	probs, err := forest.PredictProba([]float64{1})
	require.NoError(t, err)
	require.Len(t, probs, 2)
	assert.InDelta(t, 0.2, probs[0], 1e-12)
	assert.InDelta(t, 0.8, probs[1], 1e-12)

	// x = 0.2: tree 1 → [0.1, 0.9], tree 2 → [0.6, 0.4]
	probs, err = forest.PredictProba([]float64{0.2})
	require.NoError(t, err)
	assert.InDelta(t, 0.35, probs[0], 1e-12)
	assert.InDelta(t, 0.65, probs[1], 1e-12)
}

func TestForestProbabilitiesSumToOne(t *testing.T) {
	forest := testForest()

	for _, x := range []float64{-3, -0.5, 0, 0.25, 0.5, 0.51, 2, 100} {
		probs, err := forest.PredictProba([]float64{x})
		require.NoError(t, err)
		sum := probs[0] + probs[1]
		assert.InDelta(t, 1.0, sum, 1e-9, "x=%v", x)
	}
}

func TestForestPredictPicksHighestProbabilityClass(t *testing.T) {
	forest := testForest()

	class, err := forest.Predict([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, "good", class)

	class, err = forest.Predict([]float64{-1})
	require.NoError(t, err)
	assert.Equal(t, "not_good", class)
}

func TestForestRejectsWrongArity(t *testing.T) {
	forest := testForest()

	_, err := forest.PredictProba([]float64{1, 2})
	assert.Error(t, err)

	_, err = forest.Predict(nil)
	assert.Error(t, err)
}

func TestForestAccessorsReturnCopies(t *testing.T) {
	forest := testForest()

	classes := forest.Classes()
	classes[0] = "mutated"
	assert.Equal(t, "not_good", forest.Classes()[0])

	scores := forest.FeatureImportances()
	scores[0] = -1
	assert.Equal(t, 1.0, forest.FeatureImportances()[0])
}
