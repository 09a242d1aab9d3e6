// Package runbundle persists everything a finished stability run needs for
// later analysis: the model-under-test, the full probability matrix, the
// test outcomes and run metadata. A saved bundle is sufficient to recompute
// every instability, calibration and ROC statistic without refitting.
package runbundle

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"clinrisk/internal/models"
	"clinrisk/internal/stability"
)

func init() {
	gob.Register(&models.LogisticRegression{})
	gob.Register(&models.DecisionTree{})
	gob.Register(&models.RandomForest{})
	gob.Register(&models.GradientBoosting{})
}

type Metadata struct {
	RunID        string
	CreatedAt    time.Time
	ModelName    string
	Bootstraps   int
	Seed         int64
	Bins         int
	TrainRows    int
	TestRows     int
	FeatureNames []string
}

type Bundle struct {
	Meta  Metadata
	Model models.Model
	Probs stability.ProbMatrix
	YTest []int
}

// New assembles a bundle with a fresh run ID.
func New(mdl models.Model, probs stability.ProbMatrix, yTest []int, meta Metadata) *Bundle {
	meta.RunID = uuid.NewString()
	meta.CreatedAt = time.Now().UTC()
	meta.ModelName = mdl.Name()
	meta.TestRows = probs.Rows()
	return &Bundle{Meta: meta, Model: mdl, Probs: probs, YTest: yTest}
}

func (b *Bundle) validate() error {
	if b.Probs.Rows() != len(b.YTest) {
		return &stability.ShapeMismatchError{Rows: b.Probs.Rows(), Outcomes: len(b.YTest)}
	}
	if b.Model == nil {
		return fmt.Errorf("bundle %s has no model", b.Meta.RunID)
	}
	return nil
}

func Save(path string, b *Bundle) error {
	if err := b.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(b); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return nil
}

func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle %s: %w", path, err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
