package main

import (
	"context"
	"flag"
	"math/rand"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"

	"clinrisk/internal/calibration"
	"clinrisk/internal/config"
	"clinrisk/internal/data"
	"clinrisk/internal/features"
	"clinrisk/internal/models"
	"clinrisk/internal/report"
	"clinrisk/internal/roc"
	"clinrisk/internal/runbundle"
	"clinrisk/internal/stability"
	"clinrisk/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfgPath := flag.String("config", "", "YAML run configuration (flags override)")
	regen := flag.Bool("regen", true, "Regenerate the synthetic episode dataset")
	rows := flag.Int("n", 20000, "Number of synthetic episodes")
	dataPath := flag.String("data", "data/episodes.csv", "Episode CSV path")
	algo := flag.String("algo", "logistic", "Classifier: logistic|dt|rf|gb")
	estimators := flag.Int("estimators", 30, "Number of estimators (rf/gb)")
	maxDepth := flag.Int("max_depth", 6, "Maximum tree depth")
	minSamples := flag.Int("min_samples", 100, "Minimum samples for a split")
	lr := flag.Float64("lr", 0.1, "Learning rate (gb)")
	bootstraps := flag.Int("bootstraps", 200, "Number of bootstrap models M")
	seed := flag.Int64("seed", 1, "Random seed (0 = nondeterministic)")
	bins := flag.Int("bins", 10, "Calibration bins")
	trainFrac := flag.Float64("train_frac", 0.8, "Training fraction of the split")
	outDir := flag.String("out", "out", "Artifact output directory")
	bundlePath := flag.String("bundle", "", "Run bundle path (default <out>/run.gob)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "regen":
			cfg.Regenerate = *regen
		case "n":
			cfg.Rows = *rows
		case "data":
			cfg.DataPath = *dataPath
		case "algo":
			cfg.Algo = *algo
		case "estimators":
			cfg.Estimators = *estimators
		case "max_depth":
			cfg.MaxDepth = *maxDepth
		case "min_samples":
			cfg.MinSamples = *minSamples
		case "lr":
			cfg.LearningRate = *lr
		case "bootstraps":
			cfg.Bootstraps = *bootstraps
		case "seed":
			cfg.Seed = *seed
		case "bins":
			cfg.Bins = *bins
		case "train_frac":
			cfg.TrainFraction = *trainFrac
		case "out":
			cfg.OutDir = *outDir
		case "bundle":
			cfg.BundlePath = *bundlePath
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.BundlePath == "" {
		cfg.BundlePath = filepath.Join(cfg.OutDir, "run.gob")
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	if cfg.Regenerate {
		logger.Info("Generating synthetic episodes", zap.Int("n", cfg.Rows), zap.String("out", cfg.DataPath))
		if err := data.GenerateSyntheticEpisodes(cfg.Rows, cfg.BaseRate, cfg.DataPath, rng); err != nil {
			logger.Fatal("Failed to generate dataset", zap.Error(err))
		}
	}

	episodes, err := data.LoadEpisodes(cfg.DataPath)
	if err != nil {
		logger.Fatal("Failed to load episodes", zap.Error(err))
	}
	X, y, names := features.Matrix(episodes)

	var pos, neg int
	for i := range y {
		if y[i] == 1 {
			pos++
		} else {
			neg++
		}
	}
	logger.Info("Outcome distribution", zap.Int("events", pos), zap.Int("non_events", neg))

	Xtrain, ytrain, Xtest, ytest := data.StratifiedSplit(X, y, cfg.TrainFraction, rng)
	logger.Info("Split dataset", zap.Int("train", len(Xtrain)), zap.Int("test", len(Xtest)))

	factory, err := buildFactory(cfg)
	if err != nil {
		logger.Fatal("Unknown classifier", zap.Error(err))
	}

	train := stability.TrainingSet{X: Xtrain, Y: ytrain}
	logger.Info("Fitting model-under-test and bootstrap models",
		zap.String("algo", cfg.Algo), zap.Int("bootstraps", cfg.Bootstraps))
	fitted, probs, err := stability.Run(context.Background(), factory, train, Xtest, cfg.Bootstraps, rng)
	if err != nil {
		logger.Fatal("Stability run failed", zap.Error(err))
	}
	if fitted.Advisory != nil {
		logger.Warn("Bootstrap count advisory", zap.String("advisory", fitted.Advisory.String()))
	}

	instab := stability.AverageInstability(probs)
	ace, err := calibration.AverageError(probs.Column(0), ytest, cfg.Bins)
	if err != nil {
		logger.Fatal("Calibration error computation failed", zap.Error(err))
	}
	aucs, err := roc.Summarize(probs, ytest)
	if err != nil {
		logger.Fatal("AUC computation failed", zap.Error(err))
	}
	logger.Info("Stability diagnostics",
		zap.Float64("average_instability", instab),
		zap.Float64("calibration_error", ace),
		zap.Float64("auc", aucs.ModelUnderTest),
		zap.Float64("bootstrap_auc_mean", aucs.BootstrapMean),
		zap.Float64("bootstrap_auc_sd", aucs.BootstrapSD),
	)

	mdl := fitted.ModelUnderTest.(models.Model)
	bundle := runbundle.New(mdl, probs, ytest, runbundle.Metadata{
		Bootstraps:   cfg.Bootstraps,
		Seed:         cfg.Seed,
		Bins:         cfg.Bins,
		TrainRows:    len(Xtrain),
		FeatureNames: names,
	})
	if err := runbundle.Save(cfg.BundlePath, bundle); err != nil {
		logger.Fatal("Failed to save run bundle", zap.Error(err))
	}
	logger.Info("Run bundle saved", zap.String("path", cfg.BundlePath), zap.String("run_id", bundle.Meta.RunID))

	summary := report.Summary{
		ModelName:          mdl.Name(),
		Bootstraps:         cfg.Bootstraps,
		AverageInstability: instab,
		CalibrationError:   ace,
		AUC:                aucs,
	}
	if err := emitArtifacts(cfg.OutDir, cfg.Bins, probs, ytest, summary); err != nil {
		logger.Fatal("Failed to write artifacts", zap.Error(err))
	}
	logger.Info("Artifacts written", zap.String("dir", cfg.OutDir))
}

func buildFactory(cfg *config.Config) (stability.Factory, error) {
	var seedCtr atomic.Int64
	seedCtr.Store(cfg.Seed)
	nextRNG := func() *rand.Rand {
		if cfg.Seed == 0 {
			return nil
		}
		return rand.New(rand.NewSource(seedCtr.Add(1)))
	}

	var build models.Builder
	switch cfg.Algo {
	case "logistic":
		build = func() models.Model {
			lr := models.NewLogisticRegression()
			return lr
		}
	case "dt":
		build = func() models.Model {
			dt := models.NewDecisionTree(nextRNG())
			dt.MaxDepth = cfg.MaxDepth
			dt.MinSamplesSplit = cfg.MinSamples
			return dt
		}
	case "rf":
		build = func() models.Model {
			rf := models.NewRandomForest(nextRNG())
			rf.NEstimators = cfg.Estimators
			rf.MaxDepth = cfg.MaxDepth
			rf.MinSamples = cfg.MinSamples
			return rf
		}
	case "gb":
		build = func() models.Model {
			gb := models.NewGradientBoosting()
			gb.NEstimators = cfg.Estimators
			gb.LearningRate = cfg.LearningRate
			gb.MinSamples = cfg.MinSamples
			return gb
		}
	default:
		return nil, &unknownAlgoError{cfg.Algo}
	}
	return models.FactoryOf(build), nil
}

type unknownAlgoError struct{ algo string }

func (e *unknownAlgoError) Error() string { return "unknown classifier " + e.algo }

func emitArtifacts(dir string, bins int, probs stability.ProbMatrix, ytest []int, summary report.Summary) error {
	calCurves, err := calibration.BootstrappedCurves(probs, ytest, bins)
	if err != nil {
		return err
	}
	rocCurves, err := roc.BootstrappedCurves(probs, ytest)
	if err != nil {
		return err
	}
	dist, err := calibration.PredictionDistribution(probs, bins)
	if err != nil {
		return err
	}
	points := stability.InstabilityPoints(probs, ytest)

	if err := report.WriteSummaryCSV(filepath.Join(dir, "summary.csv"), summary); err != nil {
		return err
	}
	if err := report.WriteCalibrationCSV(filepath.Join(dir, "calibration.csv"), calCurves); err != nil {
		return err
	}
	if err := report.WriteROCCSV(filepath.Join(dir, "roc.csv"), rocCurves); err != nil {
		return err
	}
	if err := report.WriteDistributionCSV(filepath.Join(dir, "distribution.csv"), dist); err != nil {
		return err
	}
	if err := report.PlotInstability(filepath.Join(dir, "instability.png"), points); err != nil {
		return err
	}
	if err := report.PlotCalibration(filepath.Join(dir, "calibration.png"), calCurves); err != nil {
		return err
	}
	if err := report.PlotROC(filepath.Join(dir, "roc.png"), rocCurves, summary.AUC); err != nil {
		return err
	}
	return report.PlotDistribution(filepath.Join(dir, "distribution.png"), dist)
}
