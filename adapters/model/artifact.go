// Package model loads the fitted scaler and trained classifier from
// their serialized artifacts and adapts them to the inference ports.
//
// Artifacts are JSON documents produced by the offline training
// pipeline. They are opaque inputs to this service: nothing here fits,
// tunes, or retrains anything.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"winesense/internal/errors"
)

// SchemaVersion is the artifact schema this build understands
const SchemaVersion = 1

// scalerArtifact is the on-disk form of a fitted standard scaler
type scalerArtifact struct {
	SchemaVersion int       `json:"schema_version"`
	Kind          string    `json:"kind"`
	FeatureNames  []string  `json:"feature_names"`
	Mean          []float64 `json:"mean"`
	Scale         []float64 `json:"scale"`
}

// treeNode is one node of a serialized decision tree. Internal nodes
// carry a feature/threshold split; leaves carry a class distribution.
type treeNode struct {
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
	Leaf      []float64 `json:"leaf,omitempty"`
}

type tree struct {
	Nodes []treeNode `json:"nodes"`
}

// forestArtifact is the on-disk form of a trained random forest
type forestArtifact struct {
	SchemaVersion      int       `json:"schema_version"`
	Kind               string    `json:"kind"`
	Classes            []string  `json:"classes"`
	FeatureCount       int       `json:"feature_count"`
	FeatureImportances []float64 `json:"feature_importances"`
	Trees              []tree    `json:"trees"`
}

func (a *scalerArtifact) validate() error {
	if a.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d", a.SchemaVersion)
	}
	if a.Kind != "standard_scaler" {
		return fmt.Errorf("unexpected artifact kind %q", a.Kind)
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifact declares no features")
	}
	if len(a.Mean) != len(a.FeatureNames) || len(a.Scale) != len(a.FeatureNames) {
		return fmt.Errorf("mean/scale arity does not match %d declared features", len(a.FeatureNames))
	}
	for i, s := range a.Scale {
		if s == 0 {
			return fmt.Errorf("feature %q has zero scale", a.FeatureNames[i])
		}
	}
	return nil
}

// LoadScaler deserializes a fitted scaler artifact. Any failure here is
// fatal for the process: without the scaler no prediction can be served.
func LoadScaler(path string) (*StandardScaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ArtifactError(fmt.Sprintf("cannot read scaler artifact %s", path), err)
	}

	var artifact scalerArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, errors.ArtifactError(fmt.Sprintf("scaler artifact %s is corrupt", path), err)
	}
	if err := artifact.validate(); err != nil {
		return nil, errors.ArtifactError(fmt.Sprintf("scaler artifact %s is invalid", path), err)
	}

	return newStandardScaler(&artifact), nil
}

func (a *forestArtifact) validate() error {
	if a.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d", a.SchemaVersion)
	}
	if a.Kind != "random_forest" {
		return fmt.Errorf("unexpected artifact kind %q", a.Kind)
	}
	if len(a.Classes) < 2 {
		return fmt.Errorf("classifier declares %d classes, need at least 2", len(a.Classes))
	}
	if a.FeatureCount <= 0 {
		return fmt.Errorf("feature_count must be positive")
	}
	if len(a.FeatureImportances) != a.FeatureCount {
		return fmt.Errorf("importance arity %d does not match feature_count %d",
			len(a.FeatureImportances), a.FeatureCount)
	}
	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact contains no trees")
	}
	for ti, t := range a.Trees {
		if err := t.validate(a.FeatureCount, len(a.Classes)); err != nil {
			return fmt.Errorf("tree %d: %w", ti, err)
		}
	}
	return nil
}

func (t tree) validate(featureCount, classCount int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Leaf != nil {
			if len(n.Leaf) != classCount {
				return fmt.Errorf("node %d: leaf arity %d, want %d", i, len(n.Leaf), classCount)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= featureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		// Children must point forward so traversal always terminates
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: child indices out of range", i)
		}
	}
	return nil
}

// LoadClassifier deserializes a trained forest artifact. As with the
// scaler, a missing or corrupt file must abort startup.
func LoadClassifier(path string) (*Forest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ArtifactError(fmt.Sprintf("cannot read classifier artifact %s", path), err)
	}

	var artifact forestArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, errors.ArtifactError(fmt.Sprintf("classifier artifact %s is corrupt", path), err)
	}
	if err := artifact.validate(); err != nil {
		return nil, errors.ArtifactError(fmt.Sprintf("classifier artifact %s is invalid", path), err)
	}

	return newForest(&artifact), nil
}
