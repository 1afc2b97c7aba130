package calculator

import (
	"context"
	"fmt"

	"rfm-segments/pkg/models"
)

// Source fournit les transactions brutes (CSV, base de données...).
type Source interface {
	Load(ctx context.Context) (models.LoadResult, error)
}

// Progress est avancé d'un pas à la fin de chaque étape (chargement, métriques, segments).
// *progressbar.ProgressBar le satisfait.
type Progress interface {
	Add(num int) error
}

// Stages est le nombre d'étapes signalées à Progress.
const Stages = 3

// Run enchaîne chargement → métriques → scores/segments.
// Aucun résultat partiel : en cas d'erreur la table est vide.
func Run(ctx context.Context, src Source, cfg models.Config, progress Progress) (models.Result, error) {
	k := cfg.Bins
	if k == 0 {
		k = models.DefaultBins
	}
	rules := RuleSet(cfg.Rules)
	if len(rules) == 0 {
		rules = DefaultRules(k)
	}
	step := func() {
		if progress != nil {
			_ = progress.Add(1)
		}
	}

	loaded, err := src.Load(ctx)
	if err != nil {
		return models.Result{}, fmt.Errorf("load: %w", err)
	}
	step()
	if err := ctx.Err(); err != nil {
		return models.Result{}, err
	}

	table, err := BuildMetrics(loaded.Records, cfg.AsOf)
	if err != nil {
		return models.Result{}, fmt.Errorf("metrics: %w", err)
	}
	step()
	if err := ctx.Err(); err != nil {
		return models.Result{}, err
	}

	scored, err := Segment(table.Customers, k, rules)
	if err != nil {
		return models.Result{}, fmt.Errorf("segment: %w", err)
	}
	step()

	return models.Result{
		ReferenceDate: table.ReferenceDate,
		Customers:     scored,
		Counts:        CountSegments(scored),
		RowsRead:      loaded.Read,
		RowsDropped:   loaded.Dropped,
		MissingKeys:   table.MissingKeys,
	}, nil
}

// CountSegments compte les clients par segment, dans l'ordre de models.Segments().
// Les segments sans client n'apparaissent pas.
func CountSegments(customers []models.ScoredCustomer) []models.SegmentCount {
	counts := make(map[models.Segment]int)
	for _, c := range customers {
		counts[c.Segment]++
	}
	out := make([]models.SegmentCount, 0, len(counts))
	for _, s := range models.Segments() {
		if n := counts[s]; n > 0 {
			out = append(out, models.SegmentCount{Segment: s, Count: n})
		}
	}
	return out
}
