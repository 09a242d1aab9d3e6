package data

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var episodeHeader = []string{
	"patient_id", "episode_id", "index_date", "age", "male", "stemi",
	"pci_performed", "haemoglobin", "egfr", "prior_bleeding", "prior_acs",
	"prior_renal", "prior_diabetes", "prior_copd", "prior_cancer",
	"on_anticoagulant", "bleed",
}

// GenerateSyntheticEpisodes writes n synthetic index episodes to a CSV at
// outPath. The outcome is drawn from a latent bleeding-risk score built from
// established risk factors (age, anaemia, renal function, prior bleeding,
// anticoagulation), so fitted models have real structure to find. baseRate
// sets the background outcome probability for a patient with no risk
// factors.
func GenerateSyntheticEpisodes(n int, baseRate float64, outPath string, rng *rand.Rand) error {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(episodeHeader); err != nil {
		return err
	}

	baseDate := time.Now().AddDate(-2, 0, 0)
	for i := 0; i < n; i++ {
		e := randomEpisode(i, baseDate, baseRate, rng)
		if err := w.Write(episodeRecord(e)); err != nil {
			return err
		}
	}
	return nil
}

func randomEpisode(i int, baseDate time.Time, baseRate float64, rng *rand.Rand) Episode {
	e := Episode{
		PatientID: "P" + strconv.Itoa(100000+rng.Intn(40000)),
		EpisodeID: "E" + strconv.Itoa(1000000+i),
		IndexDate: baseDate.AddDate(0, 0, rng.Intn(700)),
	}

	e.Age = 40 + rng.NormFloat64()*12 + 28
	if e.Age < 30 {
		e.Age = 30 + rng.Float64()*10
	}
	if e.Age > 100 {
		e.Age = 100
	}
	if rng.Float64() < 0.65 {
		e.Male = 1
	}
	if rng.Float64() < 0.4 {
		e.STEMI = 1
	}
	if rng.Float64() < 0.7 {
		e.PCIPerformed = 1
	}

	// Haemoglobin g/dL, lower for older patients; eGFR declines with age.
	e.Haemoglobin = 14.5 - (e.Age-60)*0.02 + rng.NormFloat64()*1.6
	e.EGFR = 95 - (e.Age-40)*0.7 + rng.NormFloat64()*14
	if e.EGFR < 5 {
		e.EGFR = 5
	}
	if e.EGFR > 120 {
		e.EGFR = 120
	}

	e.PriorBleeding = poissonish(rng, 0.15)
	e.PriorACS = poissonish(rng, 0.4)
	e.PriorRenal = poissonish(rng, 0.2)
	e.PriorDiabetes = poissonish(rng, 0.5)
	e.PriorCOPD = poissonish(rng, 0.2)
	e.PriorCancer = poissonish(rng, 0.1)
	if rng.Float64() < 0.12 {
		e.OnAnticoag = 1
	}

	score := baseRate
	if e.Age > 75 {
		score += 0.05
	}
	if e.Haemoglobin < 12 {
		score += 0.06
	}
	if e.EGFR < 45 {
		score += 0.05
	}
	if e.PriorBleeding > 0 {
		score += 0.08
	}
	if e.OnAnticoag == 1 {
		score += 0.05
	}
	if e.PriorCancer > 0 {
		score += 0.03
	}
	if e.Male == 0 {
		score += 0.01
	}
	if rng.Float64() < score {
		e.Bleed = 1
	}
	return e
}

// poissonish draws small non-negative counts with mean roughly lambda,
// enough to mimic prior-code-group counts without a full Poisson sampler.
func poissonish(rng *rand.Rand, lambda float64) int {
	n := 0
	for rng.Float64() < lambda && n < 6 {
		n++
		lambda /= 2
	}
	return n
}

func episodeRecord(e Episode) []string {
	return []string{
		e.PatientID,
		e.EpisodeID,
		e.IndexDate.Format("2006-01-02"),
		strconv.FormatFloat(e.Age, 'f', 1, 64),
		strconv.Itoa(e.Male),
		strconv.Itoa(e.STEMI),
		strconv.Itoa(e.PCIPerformed),
		strconv.FormatFloat(e.Haemoglobin, 'f', 2, 64),
		strconv.FormatFloat(e.EGFR, 'f', 1, 64),
		strconv.Itoa(e.PriorBleeding),
		strconv.Itoa(e.PriorACS),
		strconv.Itoa(e.PriorRenal),
		strconv.Itoa(e.PriorDiabetes),
		strconv.Itoa(e.PriorCOPD),
		strconv.Itoa(e.PriorCancer),
		strconv.Itoa(e.OnAnticoag),
		strconv.Itoa(e.Bleed),
	}
}

// LoadEpisodes reads a CSV produced by GenerateSyntheticEpisodes (or an
// external feature-engineering pipeline emitting the same columns).
func LoadEpisodes(path string) ([]Episode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("episode file %s has no data rows", path)
	}

	out := make([]Episode, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		e, err := parseEpisode(rows[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseEpisode(row []string) (Episode, error) {
	if len(row) != len(episodeHeader) {
		return Episode{}, fmt.Errorf("expected %d columns, got %d", len(episodeHeader), len(row))
	}
	var e Episode
	var err error
	e.PatientID = row[0]
	e.EpisodeID = row[1]
	if e.IndexDate, err = time.Parse("2006-01-02", row[2]); err != nil {
		return Episode{}, err
	}
	if e.Age, err = strconv.ParseFloat(row[3], 64); err != nil {
		return Episode{}, err
	}
	ints := []*int{&e.Male, &e.STEMI, &e.PCIPerformed}
	for k, dst := range ints {
		if *dst, err = strconv.Atoi(row[4+k]); err != nil {
			return Episode{}, err
		}
	}
	if e.Haemoglobin, err = strconv.ParseFloat(row[7], 64); err != nil {
		return Episode{}, err
	}
	if e.EGFR, err = strconv.ParseFloat(row[8], 64); err != nil {
		return Episode{}, err
	}
	tail := []*int{&e.PriorBleeding, &e.PriorACS, &e.PriorRenal, &e.PriorDiabetes, &e.PriorCOPD, &e.PriorCancer, &e.OnAnticoag, &e.Bleed}
	for k, dst := range tail {
		if *dst, err = strconv.Atoi(row[9+k]); err != nil {
			return Episode{}, err
		}
	}
	return e, nil
}
