package data

import "time"

// Episode is one index event (an ACS presentation or PCI procedure) for one
// patient, carrying the attributes known at the index date plus counts of
// prior clinical-code groups. Bleed is the outcome: major bleeding within
// the follow-up window after the index event.
type Episode struct {
	PatientID     string    `json:"patient_id"`
	EpisodeID     string    `json:"episode_id"`
	IndexDate     time.Time `json:"index_date"`
	Age           float64   `json:"age"`
	Male          int       `json:"male"`
	STEMI         int       `json:"stemi"`
	PCIPerformed  int       `json:"pci_performed"`
	Haemoglobin   float64   `json:"haemoglobin"`
	EGFR          float64   `json:"egfr"`
	PriorBleeding int       `json:"prior_bleeding"`
	PriorACS      int       `json:"prior_acs"`
	PriorRenal    int       `json:"prior_renal"`
	PriorDiabetes int       `json:"prior_diabetes"`
	PriorCOPD     int       `json:"prior_copd"`
	PriorCancer   int       `json:"prior_cancer"`
	OnAnticoag    int       `json:"on_anticoagulant"`
	Bleed         int       `json:"bleed"`
}
