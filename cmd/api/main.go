package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinrisk/internal/calibration"
	"clinrisk/internal/data"
	"clinrisk/internal/features"
	"clinrisk/internal/models"
	"clinrisk/internal/roc"
	"clinrisk/internal/runbundle"
	"clinrisk/internal/stability"
	"clinrisk/pkg/utils"
)

// consensusModel is the fallback scorer when no run bundle is available:
// a hand-written approximation of the ARC-HBR consensus criteria, scoring
// one point-weight per major bleeding risk factor.
type consensusModel struct{}

func (c *consensusModel) Fit(X [][]float64, y []int) error { return nil }
func (c *consensusModel) Name() string                     { return "ConsensusCriteria" }
func (c *consensusModel) Predict(X [][]float64) []int {
	ps := c.PredictProba(X)
	out := make([]int, len(ps))
	for i := range ps {
		if ps[i] >= 0.04 {
			out[i] = 1
		}
	}
	return out
}

// Feature layout matches features.Vectorize.
func (c *consensusModel) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, v := range X {
		s := 0.01
		if v[0] >= 75 {
			s += 0.02
		}
		if v[4] < 11 {
			s += 0.04
		} else if v[4] < 12.9 {
			s += 0.02
		}
		if v[5] < 30 {
			s += 0.04
		} else if v[5] < 60 {
			s += 0.02
		}
		if v[6] > 0 {
			s += 0.04
		}
		if v[11] > 0 {
			s += 0.02
		}
		if v[12] == 1 {
			s += 0.03
		}
		if s > 0.95 {
			s = 0.95
		}
		out[i] = s
	}
	return out
}

type server struct {
	logger *zap.Logger
	bundle *runbundle.Bundle
	model  models.Model
}

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	s := &server{logger: logger, model: &consensusModel{}}

	bundlePath := os.Getenv("BUNDLE_PATH")
	if bundlePath == "" {
		bundlePath = "out/run.gob"
	}
	if b, err := runbundle.Load(bundlePath); err == nil {
		s.bundle = b
		s.model = b.Model
		logger.Info("Serving run bundle", zap.String("run_id", b.Meta.RunID), zap.String("model", b.Meta.ModelName))
	} else {
		logger.Warn("No run bundle, falling back to consensus criteria", zap.String("path", bundlePath), zap.Error(err))
	}

	r := gin.Default()

	api := r.Group("/")
	api.Use(apiKeyMiddleware)
	api.POST("/predict", s.handlePredict)
	api.GET("/runs/current", s.handleRun)
	api.GET("/runs/current/summary", s.handleSummary)
	api.GET("/runs/current/calibration", s.handleCalibration)
	api.GET("/runs/current/roc", s.handleROC)
	api.GET("/runs/current/distribution", s.handleDistribution)
	api.GET("/runs/current/instability", s.handleInstability)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func apiKeyMiddleware(c *gin.Context) {
	key := os.Getenv("API_KEY")
	if key == "" {
		c.Next()
		return
	}
	if c.GetHeader("X-API-Key") != key {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

type predictReq struct {
	PatientID     string  `json:"patient_id"`
	EpisodeID     string  `json:"episode_id"`
	IndexDate     string  `json:"index_date" binding:"required"`
	Age           float64 `json:"age" binding:"required,gte=18,lte=120"`
	Male          int     `json:"male" binding:"gte=0,lte=1"`
	STEMI         int     `json:"stemi" binding:"gte=0,lte=1"`
	PCIPerformed  int     `json:"pci_performed" binding:"gte=0,lte=1"`
	Haemoglobin   float64 `json:"haemoglobin" binding:"required,gt=0"`
	EGFR          float64 `json:"egfr" binding:"required,gt=0"`
	PriorBleeding int     `json:"prior_bleeding" binding:"gte=0"`
	PriorACS      int     `json:"prior_acs" binding:"gte=0"`
	PriorRenal    int     `json:"prior_renal" binding:"gte=0"`
	PriorDiabetes int     `json:"prior_diabetes" binding:"gte=0"`
	PriorCOPD     int     `json:"prior_copd" binding:"gte=0"`
	PriorCancer   int     `json:"prior_cancer" binding:"gte=0"`
	OnAnticoag    int     `json:"on_anticoagulant" binding:"gte=0,lte=1"`
}

// riskBand maps a bleeding probability to a reporting band; 4% tracks the
// consensus threshold for high bleeding risk.
func riskBand(p float64) string {
	switch {
	case p >= 0.08:
		return "very_high"
	case p >= 0.04:
		return "high"
	case p >= 0.02:
		return "moderate"
	default:
		return "low"
	}
}

func (s *server) handlePredict(c *gin.Context) {
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	idx, err := time.Parse("2006-01-02", req.IndexDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index_date must be YYYY-MM-DD"})
		return
	}
	e := data.Episode{
		PatientID:     req.PatientID,
		EpisodeID:     req.EpisodeID,
		IndexDate:     idx,
		Age:           req.Age,
		Male:          req.Male,
		STEMI:         req.STEMI,
		PCIPerformed:  req.PCIPerformed,
		Haemoglobin:   req.Haemoglobin,
		EGFR:          req.EGFR,
		PriorBleeding: req.PriorBleeding,
		PriorACS:      req.PriorACS,
		PriorRenal:    req.PriorRenal,
		PriorDiabetes: req.PriorDiabetes,
		PriorCOPD:     req.PriorCOPD,
		PriorCancer:   req.PriorCancer,
		OnAnticoag:    req.OnAnticoag,
	}
	v, _ := features.Vectorize(e)
	p := s.model.PredictProba([][]float64{v})[0]
	c.JSON(http.StatusOK, gin.H{"probability": p, "risk": riskBand(p), "model": s.model.Name()})
}

func (s *server) requireBundle(c *gin.Context) *runbundle.Bundle {
	if s.bundle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run bundle loaded"})
		return nil
	}
	return s.bundle
}

func (s *server) handleRun(c *gin.Context) {
	b := s.requireBundle(c)
	if b == nil {
		return
	}
	c.JSON(http.StatusOK, b.Meta)
}

func (s *server) handleSummary(c *gin.Context) {
	b := s.requireBundle(c)
	if b == nil {
		return
	}
	bins := queryBins(c, b.Meta.Bins)
	ace, err := calibration.AverageError(b.Probs.Column(0), b.YTest, bins)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	aucs, err := roc.Summarize(b.Probs, b.YTest)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"average_instability": stability.AverageInstability(b.Probs),
		"calibration_error":   ace,
		"auc":                 aucs.ModelUnderTest,
		"bootstrap_auc_mean":  aucs.BootstrapMean,
		"bootstrap_auc_sd":    aucs.BootstrapSD,
	})
}

func (s *server) handleCalibration(c *gin.Context) {
	b := s.requireBundle(c)
	if b == nil {
		return
	}
	curves, err := calibration.BootstrappedCurves(b.Probs, b.YTest, queryBins(c, b.Meta.Bins))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"curves": curves})
}

func (s *server) handleROC(c *gin.Context) {
	b := s.requireBundle(c)
	if b == nil {
		return
	}
	curves, err := roc.BootstrappedCurves(b.Probs, b.YTest)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"curves": curves})
}

func (s *server) handleDistribution(c *gin.Context) {
	b := s.requireBundle(c)
	if b == nil {
		return
	}
	dist, err := calibration.PredictionDistribution(b.Probs, queryBins(c, b.Meta.Bins))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bins": dist})
}

func (s *server) handleInstability(c *gin.Context) {
	b := s.requireBundle(c)
	if b == nil {
		return
	}
	points := stability.InstabilityPoints(b.Probs, b.YTest)
	limit := 5000
	if q := c.Query("limit"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 {
			limit = v
		}
	}
	if len(points) > limit {
		points = points[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

func queryBins(c *gin.Context, fallback int) int {
	if q := c.Query("bins"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v >= 2 {
			return v
		}
	}
	if fallback < 2 {
		return 10
	}
	return fallback
}
