package models

// Segment est le nom d'une catégorie de clients. L'ensemble est fermé.
type Segment string

const (
	SegmentBest          Segment = "Best Customers"
	SegmentPotential     Segment = "Potential To Be Best"
	SegmentNew           Segment = "New Customers"
	SegmentNeedAttention Segment = "Need Attention (Normal Customers)"
	SegmentLostValuable  Segment = "Lost Valuable Customers"
	SegmentLostCheap     Segment = "Lost Cheap Customers"
	SegmentOthers        Segment = "Others"
)

// Segments liste les sept segments dans l'ordre de la table de règles.
func Segments() []Segment {
	return []Segment{
		SegmentBest,
		SegmentPotential,
		SegmentNew,
		SegmentNeedAttention,
		SegmentLostValuable,
		SegmentLostCheap,
		SegmentOthers,
	}
}

// Valid indique si s appartient à l'ensemble fermé.
func (s Segment) Valid() bool {
	for _, known := range Segments() {
		if s == known {
			return true
		}
	}
	return false
}

// ScoreRange est un intervalle inclusif de scores [Min..Max].
// Min > Max désigne un intervalle vide (aucun score ne correspond).
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains indique si score est dans l'intervalle.
func (r ScoreRange) Contains(score int) bool {
	return score >= r.Min && score <= r.Max
}

// Empty indique si l'intervalle ne contient aucun score.
func (r ScoreRange) Empty() bool {
	return r.Min > r.Max
}

// Rule associe un triplet d'intervalles (R, F, M) à un segment.
type Rule struct {
	Segment   Segment    `json:"segment"`
	Recency   ScoreRange `json:"recency"`
	Frequency ScoreRange `json:"frequency"`
	Monetary  ScoreRange `json:"monetary"`
}

// Matches indique si le triplet de scores satisfait la règle.
func (r Rule) Matches(recency, frequency, monetary int) bool {
	return r.Recency.Contains(recency) && r.Frequency.Contains(frequency) && r.Monetary.Contains(monetary)
}
