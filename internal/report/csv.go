// Package report renders the numeric outputs of a stability run to CSV and
// PNG artifacts. The core packages only return numbers; everything visual
// lives here.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"clinrisk/internal/calibration"
	"clinrisk/internal/roc"
)

// Summary collects the scalar diagnostics of one run.
type Summary struct {
	ModelName          string
	Bootstraps         int
	AverageInstability float64
	CalibrationError   float64
	AUC                roc.Summary
}

func createCSV(path string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, csv.NewWriter(f), nil
}

func WriteSummaryCSV(path string, s Summary) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"model", "bootstraps", "average_instability", "calibration_error", "auc", "bootstrap_auc_mean", "bootstrap_auc_sd"}); err != nil {
		return err
	}
	return w.Write([]string{
		s.ModelName,
		strconv.Itoa(s.Bootstraps),
		fmt.Sprintf("%.6f", s.AverageInstability),
		fmt.Sprintf("%.6f", s.CalibrationError),
		fmt.Sprintf("%.6f", s.AUC.ModelUnderTest),
		fmt.Sprintf("%.6f", s.AUC.BootstrapMean),
		fmt.Sprintf("%.6f", s.AUC.BootstrapSD),
	})
}

// WriteCalibrationCSV emits every model's curve in long format. Model 0 is
// the model-under-test.
func WriteCalibrationCSV(path string, curves []calibration.Curve) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"model", "mean_predicted", "observed_freq"}); err != nil {
		return err
	}
	for j, curve := range curves {
		for _, pt := range curve {
			rec := []string{strconv.Itoa(j), fmt.Sprintf("%.6f", pt.MeanPredicted), fmt.Sprintf("%.6f", pt.ObservedFreq)}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteROCCSV emits every model's ROC curve in long format.
func WriteROCCSV(path string, curves []roc.Curve) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"model", "fpr", "tpr"}); err != nil {
		return err
	}
	for j, curve := range curves {
		for _, pt := range curve {
			rec := []string{strconv.Itoa(j), fmt.Sprintf("%.6f", pt.FPR), fmt.Sprintf("%.6f", pt.TPR)}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func WriteDistributionCSV(path string, stats []calibration.BinStat) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()
	defer w.Flush()
	if err := w.Write([]string{"bin_center", "mean_count", "sd_count"}); err != nil {
		return err
	}
	for _, s := range stats {
		rec := []string{fmt.Sprintf("%.3f", s.Center), fmt.Sprintf("%.3f", s.Mean), fmt.Sprintf("%.3f", s.SD)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
