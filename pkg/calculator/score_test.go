package calculator

import (
	"fmt"
	"testing"

	"rfm-segments/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metric(id string, recency, frequency int, monetary int64) models.CustomerMetrics {
	return models.CustomerMetrics{
		CustomerID:   id,
		CustomerName: "name-" + id,
		PhoneNumber:  "phone-" + id,
		Recency:      recency,
		Frequency:    frequency,
		Monetary:     decimal.NewFromInt(monetary),
	}
}

func TestQuantileEdges(t *testing.T) {
	edges := quantileEdges([]float64{50, 500, 5000}, 3)
	require.Len(t, edges, 4)
	assert.InDelta(t, 50, edges[0], 1e-9)
	assert.InDelta(t, 350, edges[1], 1e-9)
	assert.InDelta(t, 2000, edges[2], 1e-9)
	assert.InDelta(t, 5000, edges[3], 1e-9)
}

func TestBinOf_InclusiveUpperEdge(t *testing.T) {
	edges := []float64{1, 2, 4, 6, 8, 10}
	assert.Equal(t, 1, binOf(1, edges))
	assert.Equal(t, 1, binOf(2, edges))
	assert.Equal(t, 2, binOf(2.5, edges))
	assert.Equal(t, 2, binOf(4, edges))
	assert.Equal(t, 5, binOf(10, edges))
}

func TestSegment_TiesShareBin(t *testing.T) {
	var ms []models.CustomerMetrics
	// 6 clients à 1 achat, 4 clients à plus
	for i := 0; i < 6; i++ {
		ms = append(ms, metric(fmt.Sprintf("one-%d", i), 10, 1, 10))
	}
	for i := 0; i < 4; i++ {
		ms = append(ms, metric(fmt.Sprintf("many-%d", i), 10, 2+i, 10))
	}

	scored, err := Segment(ms, 5, DefaultRules(5))
	require.NoError(t, err)

	for _, s := range scored[:6] {
		assert.Equal(t, scored[0].FrequencyScore, s.FrequencyScore)
		// tout le monde a la même Recency et le même Monetary
		assert.Equal(t, 5, s.RecencyScore)
		assert.Equal(t, 1, s.MonetaryScore)
	}
	assert.Equal(t, 1, scored[0].FrequencyScore)
	assert.Equal(t, 5, scored[9].FrequencyScore)
}

func TestSegment_Monotonic(t *testing.T) {
	var ms []models.CustomerMetrics
	for i := 0; i < 97; i++ {
		ms = append(ms, metric(fmt.Sprintf("c%03d", i), (i*37)%365, 1+(i*13)%20, int64((i*7919)%5000)))
	}

	for _, k := range []int{2, 3, 5, 10} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			scored, err := Segment(ms, k, DefaultRules(k))
			require.NoError(t, err)
			require.Len(t, scored, len(ms))

			for _, a := range scored {
				assert.True(t, a.RecencyScore >= 1 && a.RecencyScore <= k)
				assert.True(t, a.FrequencyScore >= 1 && a.FrequencyScore <= k)
				assert.True(t, a.MonetaryScore >= 1 && a.MonetaryScore <= k)
				for _, b := range scored {
					if a.Monetary.GreaterThan(b.Monetary) {
						assert.GreaterOrEqual(t, a.MonetaryScore, b.MonetaryScore)
					}
					if a.Frequency > b.Frequency {
						assert.GreaterOrEqual(t, a.FrequencyScore, b.FrequencyScore)
					}
					if a.Recency > b.Recency {
						assert.LessOrEqual(t, a.RecencyScore, b.RecencyScore)
					}
				}
			}
		})
	}
}

func TestSegment_EqualSizedBins(t *testing.T) {
	var ms []models.CustomerMetrics
	for i := 0; i < 100; i++ {
		ms = append(ms, metric(fmt.Sprintf("c%03d", i), i, i+1, int64(i)))
	}
	scored, err := Segment(ms, 5, DefaultRules(5))
	require.NoError(t, err)

	perBin := map[int]int{}
	for _, s := range scored {
		perBin[s.MonetaryScore]++
	}
	for b := 1; b <= 5; b++ {
		assert.InDelta(t, 20, perBin[b], 1, "bin %d", b)
	}
}

func TestSegment_SingleCustomer(t *testing.T) {
	scored, err := Segment([]models.CustomerMetrics{metric("solo", 3, 2, 100)}, 5, DefaultRules(5))
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, 5, scored[0].RecencyScore)
	assert.Equal(t, 1, scored[0].FrequencyScore)
	assert.Equal(t, 1, scored[0].MonetaryScore)
	assert.Equal(t, models.SegmentNew, scored[0].Segment)
}

func TestSegment_InvalidBins(t *testing.T) {
	ms := []models.CustomerMetrics{metric("a", 1, 1, 1)}
	for _, k := range []int{-1, 0, 1, 11} {
		_, err := Segment(ms, k, DefaultRules(5))
		assert.ErrorIs(t, err, ErrInvalidBins, "k=%d", k)
	}
}

func TestSegment_Empty(t *testing.T) {
	_, err := Segment(nil, 5, DefaultRules(5))
	var ee *models.EmptyDatasetError
	assert.ErrorAs(t, err, &ee)
}
