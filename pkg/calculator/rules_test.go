package calculator

import (
	"testing"

	"rfm-segments/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiers(t *testing.T) {
	tests := []struct {
		k              int
		low, mid, high models.ScoreRange
	}{
		{2, models.ScoreRange{Min: 1, Max: 1}, models.ScoreRange{Min: 2, Max: 1}, models.ScoreRange{Min: 2, Max: 2}},
		{3, models.ScoreRange{Min: 1, Max: 1}, models.ScoreRange{Min: 2, Max: 2}, models.ScoreRange{Min: 3, Max: 3}},
		{4, models.ScoreRange{Min: 1, Max: 1}, models.ScoreRange{Min: 2, Max: 3}, models.ScoreRange{Min: 4, Max: 4}},
		{5, models.ScoreRange{Min: 1, Max: 2}, models.ScoreRange{Min: 3, Max: 3}, models.ScoreRange{Min: 4, Max: 5}},
		{10, models.ScoreRange{Min: 1, Max: 3}, models.ScoreRange{Min: 4, Max: 7}, models.ScoreRange{Min: 8, Max: 10}},
	}
	for _, tt := range tests {
		low, mid, high := Tiers(tt.k)
		assert.Equal(t, tt.low, low, "k=%d low", tt.k)
		assert.Equal(t, tt.mid, mid, "k=%d mid", tt.k)
		assert.Equal(t, tt.high, high, "k=%d high", tt.k)
	}
}

func TestDefaultRules_Total(t *testing.T) {
	for k := MinBins; k <= MaxBins; k++ {
		rules := DefaultRules(k)
		require.NoError(t, rules.Validate(k), "k=%d", k)
		for r := 1; r <= k; r++ {
			for f := 1; f <= k; f++ {
				for m := 1; m <= k; m++ {
					seg := rules.Classify(r, f, m)
					assert.True(t, seg.Valid(), "k=%d (%d,%d,%d) -> %q", k, r, f, m, seg)
				}
			}
		}
	}
}

// Chaque frontière de la table par défaut pour k=5 (bas 1-2, moyen 3, haut 4-5).
func TestDefaultRules_Boundaries_K5(t *testing.T) {
	rules := DefaultRules(5)
	tests := []struct {
		name    string
		r, f, m int
		want    models.Segment
	}{
		{"best_lowest_corner", 4, 4, 4, models.SegmentBest},
		{"best_top", 5, 5, 5, models.SegmentBest},
		{"best_needs_high_r", 3, 4, 4, models.SegmentPotential},
		{"best_needs_high_f", 4, 3, 4, models.SegmentOthers},
		{"best_needs_high_m", 4, 4, 3, models.SegmentOthers},
		{"potential", 3, 5, 5, models.SegmentPotential},
		{"potential_needs_mid_r", 2, 5, 5, models.SegmentLostValuable},
		{"potential_needs_high_m", 3, 4, 3, models.SegmentOthers},
		{"new_top", 5, 1, 1, models.SegmentNew},
		{"new_edge", 4, 2, 3, models.SegmentNew},
		{"new_needs_low_f", 4, 3, 1, models.SegmentOthers},
		{"new_needs_not_high_m", 5, 1, 4, models.SegmentOthers},
		{"need_attention", 3, 3, 3, models.SegmentNeedAttention},
		{"need_attention_low_fm", 3, 1, 1, models.SegmentNeedAttention},
		{"need_attention_needs_mid_r", 2, 3, 3, models.SegmentLostValuable},
		{"need_attention_high_m", 3, 3, 4, models.SegmentOthers},
		{"lost_valuable_edge", 2, 3, 3, models.SegmentLostValuable},
		{"lost_valuable_top", 1, 5, 5, models.SegmentLostValuable},
		{"lost_valuable_needs_f", 1, 2, 5, models.SegmentOthers},
		{"lost_cheap", 1, 1, 1, models.SegmentLostCheap},
		{"lost_cheap_edge", 2, 2, 2, models.SegmentLostCheap},
		{"lost_cheap_needs_low_m", 2, 2, 3, models.SegmentOthers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Classify(tt.r, tt.f, tt.m))
		})
	}
}

func TestDefaultRules_K2HasNoMidSegments(t *testing.T) {
	rules := DefaultRules(2)
	for r := 1; r <= 2; r++ {
		for f := 1; f <= 2; f++ {
			for m := 1; m <= 2; m++ {
				seg := rules.Classify(r, f, m)
				assert.NotEqual(t, models.SegmentPotential, seg)
				assert.NotEqual(t, models.SegmentNeedAttention, seg)
			}
		}
	}
	assert.Equal(t, models.SegmentBest, rules.Classify(2, 2, 2))
	assert.Equal(t, models.SegmentNew, rules.Classify(2, 1, 1))
	assert.Equal(t, models.SegmentLostValuable, rules.Classify(1, 2, 2))
	assert.Equal(t, models.SegmentLostCheap, rules.Classify(1, 1, 1))
}

func TestRuleSet_FirstMatchWins(t *testing.T) {
	all := models.ScoreRange{Min: 1, Max: 5}
	rules := RuleSet{
		{Segment: models.SegmentLostCheap, Recency: models.ScoreRange{Min: 1, Max: 1}, Frequency: all, Monetary: all},
		{Segment: models.SegmentBest, Recency: all, Frequency: all, Monetary: all},
	}
	assert.Equal(t, models.SegmentLostCheap, rules.Classify(1, 5, 5))
	assert.Equal(t, models.SegmentBest, rules.Classify(2, 5, 5))
	assert.Equal(t, models.SegmentOthers, RuleSet{}.Classify(5, 5, 5))
}

func TestRuleSet_Validate(t *testing.T) {
	ok := models.ScoreRange{Min: 1, Max: 3}
	tests := []struct {
		name string
		rule models.Rule
	}{
		{"unknown_segment", models.Rule{Segment: "VIP", Recency: ok, Frequency: ok, Monetary: ok}},
		{"below_one", models.Rule{Segment: models.SegmentBest, Recency: models.ScoreRange{Min: 0, Max: 2}, Frequency: ok, Monetary: ok}},
		{"above_k", models.Rule{Segment: models.SegmentBest, Recency: ok, Frequency: ok, Monetary: models.ScoreRange{Min: 2, Max: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, RuleSet{tt.rule}.Validate(3), ErrInvalidRule)
		})
	}

	empty := models.Rule{Segment: models.SegmentBest, Recency: models.ScoreRange{Min: 9, Max: 0}, Frequency: ok, Monetary: ok}
	assert.NoError(t, RuleSet{empty}.Validate(3))
}
