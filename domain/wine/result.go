package wine

import (
	"fmt"
	"time"

	"winesense/domain/core"
)

// Label is the binary quality verdict
type Label string

const (
	LabelGood    Label = "good"
	LabelNotGood Label = "not_good"
)

// ParseLabel maps a classifier class name onto the verdict enum
func ParseLabel(class string) (Label, error) {
	switch class {
	case string(LabelGood):
		return LabelGood, nil
	case string(LabelNotGood):
		return LabelNotGood, nil
	}
	return "", fmt.Errorf("unknown class %q", class)
}

// Display returns the human-facing form of the label
func (l Label) Display() string {
	if l == LabelGood {
		return "GOOD"
	}
	return "NOT GOOD"
}

// Prediction is the result of one inference pass.
// PGood and PNotGood sum to 1 within floating-point tolerance; neither
// is rounded here — display rounding belongs to the presentation layer.
type Prediction struct {
	Label    Label   `json:"label"`
	PGood    float64 `json:"p_good"`
	PNotGood float64 `json:"p_not_good"`
}

// FeatureImportance pairs a feature name with its static importance score
type FeatureImportance struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// PredictionRecord is one persisted history entry: the inputs, the
// verdict, and when it was made.
type PredictionRecord struct {
	ID        core.ID   `json:"id"`
	Sample    Sample    `json:"sample"`
	Label     Label     `json:"label"`
	PGood     float64   `json:"p_good"`
	PNotGood  float64   `json:"p_not_good"`
	CreatedAt time.Time `json:"created_at"`
}
