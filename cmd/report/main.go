// Recomputes every stability, calibration and ROC diagnostic from a saved
// run bundle, without refitting anything. Exists both as a reporting tool
// and as proof that the bundle is self-sufficient.
package main

import (
	"flag"

	"go.uber.org/zap"

	"clinrisk/internal/calibration"
	"clinrisk/internal/report"
	"clinrisk/internal/roc"
	"clinrisk/internal/runbundle"
	"clinrisk/internal/stability"
	"clinrisk/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	bundlePath := flag.String("bundle", "out/run.gob", "Run bundle to analyse")
	bins := flag.Int("bins", 0, "Calibration bins (0 = value stored in the bundle)")
	outDir := flag.String("out", "out", "Artifact output directory")
	flag.Parse()

	b, err := runbundle.Load(*bundlePath)
	if err != nil {
		logger.Fatal("Failed to load run bundle", zap.Error(err))
	}
	nBins := *bins
	if nBins == 0 {
		nBins = b.Meta.Bins
	}
	logger.Info("Loaded run bundle",
		zap.String("run_id", b.Meta.RunID),
		zap.String("model", b.Meta.ModelName),
		zap.Int("bootstraps", b.Meta.Bootstraps),
		zap.Int("test_rows", b.Meta.TestRows),
	)

	instab := stability.AverageInstability(b.Probs)
	ace, err := calibration.AverageError(b.Probs.Column(0), b.YTest, nBins)
	if err != nil {
		logger.Fatal("Calibration error computation failed", zap.Error(err))
	}
	aucs, err := roc.Summarize(b.Probs, b.YTest)
	if err != nil {
		logger.Fatal("AUC computation failed", zap.Error(err))
	}

	calCurves, err := calibration.BootstrappedCurves(b.Probs, b.YTest, nBins)
	if err != nil {
		logger.Fatal("Calibration curves failed", zap.Error(err))
	}
	rocCurves, err := roc.BootstrappedCurves(b.Probs, b.YTest)
	if err != nil {
		logger.Fatal("ROC curves failed", zap.Error(err))
	}
	dist, err := calibration.PredictionDistribution(b.Probs, nBins)
	if err != nil {
		logger.Fatal("Prediction distribution failed", zap.Error(err))
	}
	points := stability.InstabilityPoints(b.Probs, b.YTest)

	summary := report.Summary{
		ModelName:          b.Meta.ModelName,
		Bootstraps:         b.Meta.Bootstraps,
		AverageInstability: instab,
		CalibrationError:   ace,
		AUC:                aucs,
	}
	logger.Info("Recomputed diagnostics",
		zap.Float64("average_instability", instab),
		zap.Float64("calibration_error", ace),
		zap.Float64("auc", aucs.ModelUnderTest),
		zap.Float64("bootstrap_auc_mean", aucs.BootstrapMean),
		zap.Float64("bootstrap_auc_sd", aucs.BootstrapSD),
	)

	steps := []struct {
		name string
		run  func() error
	}{
		{"summary.csv", func() error { return report.WriteSummaryCSV(*outDir+"/summary.csv", summary) }},
		{"calibration.csv", func() error { return report.WriteCalibrationCSV(*outDir+"/calibration.csv", calCurves) }},
		{"roc.csv", func() error { return report.WriteROCCSV(*outDir+"/roc.csv", rocCurves) }},
		{"distribution.csv", func() error { return report.WriteDistributionCSV(*outDir+"/distribution.csv", dist) }},
		{"instability.png", func() error { return report.PlotInstability(*outDir+"/instability.png", points) }},
		{"calibration.png", func() error { return report.PlotCalibration(*outDir+"/calibration.png", calCurves) }},
		{"roc.png", func() error { return report.PlotROC(*outDir+"/roc.png", rocCurves, aucs) }},
		{"distribution.png", func() error { return report.PlotDistribution(*outDir+"/distribution.png", dist) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			logger.Fatal("Failed to write artifact", zap.String("artifact", s.name), zap.Error(err))
		}
	}
	logger.Info("Artifacts written", zap.String("dir", *outDir))
}
