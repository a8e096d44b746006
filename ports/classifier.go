package ports

// Classifier is a pre-trained model over scaled feature rows. Immutable
// after loading; all methods are pure reads and commute freely.
type Classifier interface {
	// Predict returns the winning class name for one scaled row.
	Predict(row []float64) (string, error)

	// PredictProba returns per-class probabilities for one scaled row,
	// ordered to match Classes().
	PredictProba(row []float64) ([]float64, error)

	// Classes returns the class names in probability-column order.
	Classes() []string

	// FeatureImportances returns one static score per feature, in the
	// same feature order the model was trained with.
	FeatureImportances() []float64
}
