package fivemdomain

import (
	"math"
	"slices"
	"time"
)

// EconomyOverview summarises money held by every character.
type EconomyOverview struct {
	Characters  int     `json:"characters"`
	TotalCash   float64 `json:"total_cash"`
	TotalBank   float64 `json:"total_bank"`
	TotalCrypto float64 `json:"total_crypto"`
	AverageCash float64 `json:"average_cash"`
	AverageBank float64 `json:"average_bank"`
	MedianCash  float64 `json:"median_cash"`
	MedianBank  float64 `json:"median_bank"`
}

// Holdings is one character's money.
type Holdings struct {
	Cash   float64
	Bank   float64
	Crypto float64
}

// Total is cash plus bank. Crypto is tracked separately and not counted as wealth.
func (h Holdings) Total() float64 { return h.Cash + h.Bank }

// Summarise builds an EconomyOverview from every character's holdings.
func Summarise(holdings []Holdings) EconomyOverview {
	o := EconomyOverview{Characters: len(holdings)}
	if len(holdings) == 0 {
		return o
	}

	cash := make([]float64, len(holdings))
	bank := make([]float64, len(holdings))
	for i, h := range holdings {
		o.TotalCash += h.Cash
		o.TotalBank += h.Bank
		o.TotalCrypto += h.Crypto
		cash[i] = h.Cash
		bank[i] = h.Bank
	}
	n := float64(len(holdings))
	o.AverageCash = round2(o.TotalCash / n)
	o.AverageBank = round2(o.TotalBank / n)
	o.MedianCash = Median(cash)
	o.MedianBank = Median(bank)
	return o
}

// Median returns the median of values, averaging the middle pair for even counts. values is
// sorted in place.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	slices.Sort(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return round2((values[mid-1] + values[mid]) / 2)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WealthBucket counts characters whose cash plus bank falls in [Min, Max). Max is zero for the
// open-ended top bucket.
type WealthBucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max,omitempty"`
	Count int     `json:"count"`
}

// NewWealthBuckets returns the empty distribution buckets.
func NewWealthBuckets() []WealthBucket {
	return []WealthBucket{
		{Label: "<10k", Min: 0, Max: 10_000},
		{Label: "10k-50k", Min: 10_000, Max: 50_000},
		{Label: "50k-250k", Min: 50_000, Max: 250_000},
		{Label: "250k-1M", Min: 250_000, Max: 1_000_000},
		{Label: ">1M", Min: 1_000_000},
	}
}

// Distribute counts holdings into the wealth buckets. Negative balances land in the first bucket.
func Distribute(holdings []Holdings) []WealthBucket {
	buckets := NewWealthBuckets()
	for _, h := range holdings {
		total := h.Total()
		i := slices.IndexFunc(buckets, func(b WealthBucket) bool {
			return b.Max == 0 || total < b.Max
		})
		buckets[i].Count++
	}
	return buckets
}

// RichCharacter is one row of the richest characters list.
type RichCharacter struct {
	CitizenID string  `json:"citizen_id"`
	Name      string  `json:"name"`
	Job       string  `json:"job"`
	Cash      float64 `json:"cash"`
	Bank      float64 `json:"bank"`
	Total     float64 `json:"total"`
}

// JobCount is the number of characters holding a job.
type JobCount struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ModelCount is the number of owned vehicles of one model.
type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// VehicleStats summarises owned vehicles.
type VehicleStats struct {
	Total     int          `json:"total"`
	TopModels []ModelCount `json:"top_models"`
}

// PlayerOverview summarises characters and their activity.
type PlayerOverview struct {
	Characters     int `json:"characters"`
	UniqueLicenses int `json:"unique_licenses"`
	Active24h      int `json:"active_24h"`
	Active7d       int `json:"active_7d"`
}

// PublicStats is the anonymous landing page summary.
type PublicStats struct {
	Characters int `json:"characters"`
	Vehicles   int `json:"vehicles"`
}

// ActivityWindows are the lookbacks PlayerOverview reports.
var ActivityWindows = struct {
	Day  time.Duration
	Week time.Duration
}{Day: 24 * time.Hour, Week: 7 * 24 * time.Hour}
