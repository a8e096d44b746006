package wine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueByNameCoversEveryFeature(t *testing.T) {
	sample := Sample{
		FixedAcidity:       1,
		VolatileAcidity:    2,
		CitricAcid:         3,
		ResidualSugar:      4,
		Chlorides:          5,
		FreeSulfurDioxide:  6,
		TotalSulfurDioxide: 7,
		Density:            8,
		PH:                 9,
		Sulphates:          10,
		Alcohol:            11,
	}

	expected := map[string]float64{
		FixedAcidity:       1,
		VolatileAcidity:    2,
		CitricAcid:         3,
		ResidualSugar:      4,
		Chlorides:          5,
		FreeSulfurDioxide:  6,
		TotalSulfurDioxide: 7,
		Density:            8,
		PH:                 9,
		Sulphates:          10,
		Alcohol:            11,
	}

	require.Len(t, expected, FeatureCount)
	for name, want := range expected {
		got, ok := sample.ValueByName(name)
		require.True(t, ok, "feature %q not resolvable", name)
		assert.Equal(t, want, got, "feature %q", name)
	}

	_, ok := sample.ValueByName("tannins")
	assert.False(t, ok, "unknown feature must not resolve")
}

func TestFieldSpecsMatchFeatureCount(t *testing.T) {
	specs := FieldSpecs()
	require.Len(t, specs, FeatureCount)

	seen := map[string]bool{}
	for _, spec := range specs {
		assert.False(t, seen[spec.Name], "duplicate spec for %q", spec.Name)
		seen[spec.Name] = true
		assert.Less(t, spec.Min, spec.Max, "%q bounds inverted", spec.Name)
		assert.GreaterOrEqual(t, spec.Default, spec.Min, "%q default below min", spec.Name)
		assert.LessOrEqual(t, spec.Default, spec.Max, "%q default above max", spec.Name)
	}
}

func TestDefaultSampleMatchesSpecDefaults(t *testing.T) {
	sample := DefaultSample()
	for _, spec := range FieldSpecs() {
		v, ok := sample.ValueByName(spec.Name)
		require.True(t, ok)
		assert.Equal(t, spec.Default, v, "default for %q drifted from spec table", spec.Name)
	}
}

func TestPresets(t *testing.T) {
	presets := Presets()
	require.Contains(t, presets, "default")
	require.Contains(t, presets, "good_example")

	assert.Equal(t, DefaultSample(), presets["default"])
	assert.Equal(t, GoodExampleSample(), presets["good_example"])
	assert.NotEqual(t, presets["default"], presets["good_example"])

	// The good example is the documented 6.6 / 11.4%-alcohol wine
	good := presets["good_example"]
	assert.Equal(t, 6.6, good.FixedAcidity)
	assert.Equal(t, 11.4, good.Alcohol)
}

func TestValidateRejectsNonFiniteMeasurements(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Sample)
		valid  bool
	}{
		{name: "default values", mutate: func(*Sample) {}, valid: true},
		{name: "out of slider range is fine", mutate: func(s *Sample) { s.Alcohol = 40 }, valid: true},
		{name: "negative is fine", mutate: func(s *Sample) { s.CitricAcid = -1 }, valid: true},
		{name: "NaN rejected", mutate: func(s *Sample) { s.Density = math.NaN() }, valid: false},
		{name: "+Inf rejected", mutate: func(s *Sample) { s.ResidualSugar = math.Inf(1) }, valid: false},
		{name: "-Inf rejected", mutate: func(s *Sample) { s.PH = math.Inf(-1) }, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := DefaultSample()
			tt.mutate(&sample)
			err := sample.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseLabel(t *testing.T) {
	label, err := ParseLabel("good")
	require.NoError(t, err)
	assert.Equal(t, LabelGood, label)

	label, err = ParseLabel("not_good")
	require.NoError(t, err)
	assert.Equal(t, LabelNotGood, label)

	_, err = ParseLabel("mediocre")
	assert.Error(t, err)

	assert.Equal(t, "GOOD", LabelGood.Display())
	assert.Equal(t, "NOT GOOD", LabelNotGood.Display())
}
