package calculator

import (
	"errors"
	"fmt"

	"rfm-segments/pkg/models"
)

var (
	ErrInvalidBins = errors.New("nombre de quantiles invalide")
	ErrInvalidRule = errors.New("règle de segmentation invalide")
)

// RuleSet est la table de classification : évaluée dans l'ordre, la première
// règle qui correspond gagne, sinon Others.
type RuleSet []models.Rule

// Tiers découpe [1..k] en trois paliers bas / moyen / haut.
// bas = [1..(k+1)/3], haut = les (k+1)/3 scores du haut, moyen = le reste
// (vide pour k = 2).
//
//	k=3 : bas 1,   moyen 2,   haut 3
//	k=5 : bas 1-2, moyen 3,   haut 4-5
//	k=10: bas 1-3, moyen 4-7, haut 8-10
func Tiers(k int) (low, mid, high models.ScoreRange) {
	lowMax := (k + 1) / 3
	highMin := k + 1 - lowMax
	low = models.ScoreRange{Min: 1, Max: lowMax}
	mid = models.ScoreRange{Min: lowMax + 1, Max: highMin - 1}
	high = models.ScoreRange{Min: highMin, Max: k}
	return low, mid, high
}

// DefaultRules construit la table par défaut pour k quantiles.
func DefaultRules(k int) RuleSet {
	low, mid, high := Tiers(k)
	lowToMid := models.ScoreRange{Min: low.Min, Max: mid.Max}
	if mid.Empty() {
		lowToMid = low
	}
	midToHigh := models.ScoreRange{Min: mid.Min, Max: high.Max}
	if mid.Empty() {
		midToHigh = high
	}

	return RuleSet{
		{Segment: models.SegmentBest, Recency: high, Frequency: high, Monetary: high},
		{Segment: models.SegmentPotential, Recency: mid, Frequency: high, Monetary: high},
		{Segment: models.SegmentNew, Recency: high, Frequency: low, Monetary: lowToMid},
		{Segment: models.SegmentNeedAttention, Recency: mid, Frequency: lowToMid, Monetary: lowToMid},
		{Segment: models.SegmentLostValuable, Recency: low, Frequency: midToHigh, Monetary: midToHigh},
		{Segment: models.SegmentLostCheap, Recency: low, Frequency: low, Monetary: low},
	}
}

// Classify est totale : tout triplet renvoie un segment de l'ensemble fermé.
func (rs RuleSet) Classify(recency, frequency, monetary int) models.Segment {
	for _, r := range rs {
		if r.Matches(recency, frequency, monetary) {
			return r.Segment
		}
	}
	return models.SegmentOthers
}

// Validate vérifie que chaque règle vise un segment connu et que ses
// intervalles non vides restent dans [1..k].
func (rs RuleSet) Validate(k int) error {
	for i, r := range rs {
		if !r.Segment.Valid() {
			return fmt.Errorf("%w: #%d segment inconnu %q", ErrInvalidRule, i, r.Segment)
		}
		for _, axis := range []struct {
			name string
			sr   models.ScoreRange
		}{
			{"recency", r.Recency},
			{"frequency", r.Frequency},
			{"monetary", r.Monetary},
		} {
			if axis.sr.Empty() {
				continue
			}
			if axis.sr.Min < 1 || axis.sr.Max > k {
				return fmt.Errorf("%w: #%d %s [%d..%d] hors de [1..%d]",
					ErrInvalidRule, i, axis.name, axis.sr.Min, axis.sr.Max, k)
			}
		}
	}
	return nil
}
