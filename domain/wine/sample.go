package wine

import (
	"fmt"
	"math"
)

// Canonical feature names, exactly as the reference dataset labels its columns.
// The scaler artifact declares its own ordering of these names; vectorization is
// always driven by that declared order, never by this list's position.
const (
	FixedAcidity       = "fixed acidity"
	VolatileAcidity    = "volatile acidity"
	CitricAcid         = "citric acid"
	ResidualSugar      = "residual sugar"
	Chlorides          = "chlorides"
	FreeSulfurDioxide  = "free sulfur dioxide"
	TotalSulfurDioxide = "total sulfur dioxide"
	Density            = "density"
	PH                 = "pH"
	Sulphates          = "sulphates"
	Alcohol            = "alcohol"
)

// FeatureCount is the number of measurements in a complete sample
const FeatureCount = 11

// Sample holds the eleven chemical measurements of a red wine.
// It is an immutable value constructed once per prediction request.
type Sample struct {
	FixedAcidity       float64 `json:"fixed_acidity" form:"fixed_acidity"`
	VolatileAcidity    float64 `json:"volatile_acidity" form:"volatile_acidity"`
	CitricAcid         float64 `json:"citric_acid" form:"citric_acid"`
	ResidualSugar      float64 `json:"residual_sugar" form:"residual_sugar"`
	Chlorides          float64 `json:"chlorides" form:"chlorides"`
	FreeSulfurDioxide  float64 `json:"free_sulfur_dioxide" form:"free_sulfur_dioxide"`
	TotalSulfurDioxide float64 `json:"total_sulfur_dioxide" form:"total_sulfur_dioxide"`
	Density            float64 `json:"density" form:"density"`
	PH                 float64 `json:"ph" form:"ph"`
	Sulphates          float64 `json:"sulphates" form:"sulphates"`
	Alcohol            float64 `json:"alcohol" form:"alcohol"`
}

// ValueByName returns the measurement for a canonical feature name.
// The lookup keys by name so callers can assemble vectors in whatever
// order a fitted scaler declares.
func (s Sample) ValueByName(name string) (float64, bool) {
	switch name {
	case FixedAcidity:
		return s.FixedAcidity, true
	case VolatileAcidity:
		return s.VolatileAcidity, true
	case CitricAcid:
		return s.CitricAcid, true
	case ResidualSugar:
		return s.ResidualSugar, true
	case Chlorides:
		return s.Chlorides, true
	case FreeSulfurDioxide:
		return s.FreeSulfurDioxide, true
	case TotalSulfurDioxide:
		return s.TotalSulfurDioxide, true
	case Density:
		return s.Density, true
	case PH:
		return s.PH, true
	case Sulphates:
		return s.Sulphates, true
	case Alcohol:
		return s.Alcohol, true
	}
	return 0, false
}

// Validate rejects samples carrying NaN or infinite measurements.
// Out-of-slider-range values are accepted: range clamping is a
// presentation concern, not a sample invariant.
func (s Sample) Validate() error {
	for _, spec := range FieldSpecs() {
		v, _ := s.ValueByName(spec.Name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("measurement %q is not a finite number", spec.Name)
		}
	}
	return nil
}

// FieldSpec describes one measurement for presentation: label, unit and
// slider bounds. Bounds mirror the physically plausible ranges of the
// reference dataset and are never enforced on inference inputs.
type FieldSpec struct {
	Name    string
	Param   string // form/JSON parameter name
	Label   string
	Unit    string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// FieldSpecs returns the presentation table for the eleven measurements,
// in dataset column order.
func FieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: FixedAcidity, Param: "fixed_acidity", Label: "Fixed Acidity", Unit: "g/dm³", Min: 4.0, Max: 16.0, Step: 0.1, Default: 7.4},
		{Name: VolatileAcidity, Param: "volatile_acidity", Label: "Volatile Acidity", Unit: "g/dm³", Min: 0.1, Max: 1.6, Step: 0.01, Default: 0.7},
		{Name: CitricAcid, Param: "citric_acid", Label: "Citric Acid", Unit: "g/dm³", Min: 0.0, Max: 1.0, Step: 0.01, Default: 0.0},
		{Name: ResidualSugar, Param: "residual_sugar", Label: "Residual Sugar", Unit: "g/dm³", Min: 0.9, Max: 16.0, Step: 0.1, Default: 1.9},
		{Name: Chlorides, Param: "chlorides", Label: "Chlorides", Unit: "g/dm³", Min: 0.01, Max: 0.62, Step: 0.001, Default: 0.076},
		{Name: FreeSulfurDioxide, Param: "free_sulfur_dioxide", Label: "Free Sulfur Dioxide", Unit: "mg/dm³", Min: 1, Max: 72, Step: 1, Default: 11},
		{Name: TotalSulfurDioxide, Param: "total_sulfur_dioxide", Label: "Total Sulfur Dioxide", Unit: "mg/dm³", Min: 6, Max: 289, Step: 1, Default: 34},
		{Name: Density, Param: "density", Label: "Density", Unit: "g/cm³", Min: 0.9900, Max: 1.0040, Step: 0.0001, Default: 0.9978},
		{Name: PH, Param: "ph", Label: "pH", Unit: "", Min: 2.70, Max: 4.00, Step: 0.01, Default: 3.51},
		{Name: Sulphates, Param: "sulphates", Label: "Sulphates", Unit: "g/dm³", Min: 0.30, Max: 2.00, Step: 0.01, Default: 0.56},
		{Name: Alcohol, Param: "alcohol", Label: "Alcohol", Unit: "% vol.", Min: 8.0, Max: 15.0, Step: 0.1, Default: 9.4},
	}
}

// DefaultSample is the form's initial state: a typical unremarkable red
// that the reference model rates "not good".
func DefaultSample() Sample {
	return Sample{
		FixedAcidity:       7.4,
		VolatileAcidity:    0.7,
		CitricAcid:         0.0,
		ResidualSugar:      1.9,
		Chlorides:          0.076,
		FreeSulfurDioxide:  11.0,
		TotalSulfurDioxide: 34.0,
		Density:            0.9978,
		PH:                 3.51,
		Sulphates:          0.56,
		Alcohol:            9.4,
	}
}

// GoodExampleSample is the second preset: a wine the reference model
// rates "good".
func GoodExampleSample() Sample {
	return Sample{
		FixedAcidity:       6.6,
		VolatileAcidity:    0.52,
		CitricAcid:         0.08,
		ResidualSugar:      2.4,
		Chlorides:          0.07,
		FreeSulfurDioxide:  13.0,
		TotalSulfurDioxide: 32.0,
		Density:            0.9955,
		PH:                 3.42,
		Sulphates:          0.62,
		Alcohol:            11.4,
	}
}

// Presets maps preset identifiers to their literal sample values
func Presets() map[string]Sample {
	return map[string]Sample{
		"default":      DefaultSample(),
		"good_example": GoodExampleSample(),
	}
}
