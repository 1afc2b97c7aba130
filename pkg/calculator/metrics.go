package calculator

import (
	"sort"
	"time"

	"rfm-segments/pkg/models"

	"github.com/shopspring/decimal"
)

// MetricsTable est la sortie du calcul des métriques RFM.
type MetricsTable struct {
	ReferenceDate time.Time
	Customers     []models.CustomerMetrics // triés par CustomerID
	MissingKeys   int                      // lignes exclues faute d'identifiant
}

// Warning renvoie une *models.MissingCustomerKeyError si des lignes ont été exclues, nil sinon.
func (t MetricsTable) Warning() error {
	if t.MissingKeys == 0 {
		return nil
	}
	return &models.MissingCustomerKeyError{Count: t.MissingKeys}
}

type accumulator struct {
	metrics models.CustomerMetrics
	last    time.Time
}

// BuildMetrics agrège les transactions par client.
//
// Date de référence : asOf si fourni, sinon la date max de toutes les transactions.
// Nom et téléphone : la dernière valeur rencontrée dans l'ordre d'entrée l'emporte
// (hypothèse de qualité des données : ils devraient être identiques pour un client).
func BuildMetrics(records []models.TransactionRecord, asOf *time.Time) (MetricsTable, error) {
	if len(records) == 0 {
		return MetricsTable{}, &models.EmptyDatasetError{Stage: "load"}
	}

	var ref time.Time
	if asOf != nil {
		ref = dateOf(*asOf)
	} else {
		for _, r := range records {
			if d := dateOf(r.Date); d.After(ref) {
				ref = d
			}
		}
	}

	byCustomer := make(map[string]*accumulator)
	missing := 0
	for _, r := range records {
		if r.CustomerID == "" {
			missing++
			continue
		}
		acc, ok := byCustomer[r.CustomerID]
		if !ok {
			acc = &accumulator{metrics: models.CustomerMetrics{CustomerID: r.CustomerID, Monetary: decimal.Zero}}
			byCustomer[r.CustomerID] = acc
		}
		acc.metrics.CustomerName = r.CustomerName
		acc.metrics.PhoneNumber = r.PhoneNumber
		acc.metrics.Frequency++
		acc.metrics.Monetary = acc.metrics.Monetary.Add(r.Amount)
		if d := dateOf(r.Date); d.After(acc.last) {
			acc.last = d
		}
	}

	if len(byCustomer) == 0 {
		return MetricsTable{}, &models.EmptyDatasetError{Stage: "customer key filtering"}
	}

	out := make([]models.CustomerMetrics, 0, len(byCustomer))
	for _, acc := range byCustomer {
		m := acc.metrics
		m.Recency = daysBetween(acc.last, ref)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })

	return MetricsTable{ReferenceDate: ref, Customers: out, MissingKeys: missing}, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween renvoie le nombre de jours entiers de from à to, jamais négatif
// (une date as-of antérieure à un achat donne une Recency de 0).
// Calcul en secondes Unix : time.Sub sature au-delà de ~292 ans.
func daysBetween(from, to time.Time) int {
	d := int((to.Unix() - from.Unix()) / 86400)
	if d < 0 {
		return 0
	}
	return d
}
