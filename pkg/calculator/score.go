package calculator

import (
	"fmt"
	"math"
	"sort"

	"rfm-segments/pkg/models"
)

// Bornes acceptées pour K.
const (
	MinBins = 2
	MaxBins = 10
)

// Segment calcule les scores R/F/M (quantiles sur toute la population)
// puis attribue un segment à chaque client via rules.
func Segment(metrics []models.CustomerMetrics, k int, rules RuleSet) ([]models.ScoredCustomer, error) {
	if k < MinBins || k > MaxBins {
		return nil, fmt.Errorf("%w: %d (attendu %d..%d)", ErrInvalidBins, k, MinBins, MaxBins)
	}
	if err := rules.Validate(k); err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, &models.EmptyDatasetError{Stage: "metrics"}
	}

	recency := make([]float64, len(metrics))
	frequency := make([]float64, len(metrics))
	monetary := make([]float64, len(metrics))
	for i, m := range metrics {
		recency[i] = float64(m.Recency)
		frequency[i] = float64(m.Frequency)
		monetary[i] = m.Monetary.InexactFloat64()
	}
	rEdges := quantileEdges(recency, k)
	fEdges := quantileEdges(frequency, k)
	mEdges := quantileEdges(monetary, k)

	out := make([]models.ScoredCustomer, len(metrics))
	for i, m := range metrics {
		sc := models.ScoredCustomer{
			CustomerMetrics: m,
			// Recency inversée : peu de jours écoulés = meilleur score.
			RecencyScore:   k + 1 - binOf(recency[i], rEdges),
			FrequencyScore: binOf(frequency[i], fEdges),
			MonetaryScore:  binOf(monetary[i], mEdges),
		}
		sc.Segment = rules.Classify(sc.RecencyScore, sc.FrequencyScore, sc.MonetaryScore)
		out[i] = sc
	}
	return out, nil
}

// quantileEdges renvoie k+1 bornes : edges[0] = min, edges[k] = max,
// edges[i] = quantile i/k par interpolation linéaire entre statistiques d'ordre.
func quantileEdges(values []float64, k int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)

	edges := make([]float64, k+1)
	for i := 0; i <= k; i++ {
		pos := float64(n-1) * float64(i) / float64(k)
		lo := int(math.Floor(pos))
		frac := pos - float64(lo)
		if lo+1 >= n || frac == 0 {
			edges[i] = sorted[lo]
			continue
		}
		edges[i] = sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
	}
	edges[k] = sorted[n-1]
	return edges
}

// binOf renvoie le premier bin b (1..k) tel que v <= edges[b] : borne haute inclusive,
// les valeurs égales tombent donc toujours dans le même bin.
func binOf(v float64, edges []float64) int {
	k := len(edges) - 1
	for b := 1; b < k; b++ {
		if v <= edges[b] {
			return b
		}
	}
	return k
}
