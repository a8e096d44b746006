package ports

// Scaler is a fitted, deterministic feature transform. Post-fit it is
// stateless and safe for concurrent use.
type Scaler interface {
	// FeatureNames returns the feature ordering the scaler was fitted
	// with. This ordering is canonical: every vector handed to
	// Transform must list values in exactly this order.
	FeatureNames() []string

	// Transform scales a single raw feature row. Wrong arity or a
	// non-numeric value is a caller bug and returns an error.
	Transform(row []float64) ([]float64, error)
}
