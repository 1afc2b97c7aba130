package models

import (
	"time"

	"github.com/shopspring/decimal"
)

/*
LOAD → lignes brutes lues depuis la source (CSV ou base de données).
*/

// TransactionRecord représente une transaction telle qu'elle est lue depuis la source.
// CustomerID peut être vide : la ligne est alors exclue lors du calcul des métriques.
type TransactionRecord struct {
	CustomerID   string
	CustomerName string
	PhoneNumber  string
	Date         time.Time
	Amount       decimal.Decimal
	Quantity     int
}

// LoadResult contient les transactions chargées et le nombre de lignes écartées.
type LoadResult struct {
	Records []TransactionRecord
	Read    int // lignes lues (hors en-tête)
	Dropped int // lignes écartées (policy=drop)
}

/*
COMPUTE → métriques et scores par client
*/

// CustomerMetrics contient Recency / Frequency / Monetary pour un client.
type CustomerMetrics struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	PhoneNumber  string          `json:"phone_number"`
	Recency      int             `json:"recency"`   // jours depuis le dernier achat
	Frequency    int             `json:"frequency"` // nombre de transactions
	Monetary     decimal.Decimal `json:"monetary"`  // somme des montants
}

// ScoredCustomer est une ligne de la table de sortie.
type ScoredCustomer struct {
	CustomerMetrics
	RecencyScore   int     `json:"recency_score"`
	FrequencyScore int     `json:"frequency_score"`
	MonetaryScore  int     `json:"monetary_score"`
	Segment        Segment `json:"segment"`
}

// SegmentCount est l'agrégat "nombre de clients par segment".
type SegmentCount struct {
	Segment Segment `json:"segment"`
	Count   int     `json:"count"`
}

// Result est la sortie complète d'un run.
type Result struct {
	ReferenceDate time.Time        `json:"reference_date"`
	Customers     []ScoredCustomer `json:"customers"`
	Counts        []SegmentCount   `json:"counts"`
	RowsRead      int              `json:"rows_read"`
	RowsDropped   int              `json:"rows_dropped"`
	MissingKeys   int              `json:"missing_keys"`
}

/*
CONFIG → paramètres du moteur
*/

// RowPolicy décide du sort des lignes dont la date ou le montant ne se parse pas.
type RowPolicy string

const (
	RowPolicyDrop RowPolicy = "drop" // la ligne est écartée et comptée
	RowPolicyFail RowPolicy = "fail" // le chargement échoue (DataFormatError)
)

// DefaultBins est le nombre de quantiles par défaut.
const DefaultBins = 5

// Columns nomme les colonnes de la source.
type Columns struct {
	CustomerID   string
	CustomerName string
	PhoneNumber  string
	Date         string
	Amount       string
	Quantity     string // optionnelle
}

// DefaultColumns reprend les noms du fichier d'export des ventes.
func DefaultColumns() Columns {
	return Columns{
		CustomerID:   "customer_id",
		CustomerName: "customer_name",
		PhoneNumber:  "phone_number",
		Date:         "date",
		Amount:       "amount",
		Quantity:     "quantity",
	}
}

// Required renvoie les colonnes obligatoires, dans l'ordre du schéma.
func (c Columns) Required() []string {
	return []string{c.CustomerID, c.CustomerName, c.PhoneNumber, c.Date, c.Amount}
}

// Config contient les paramètres de configuration passés au moteur.
type Config struct {
	Bins  int        // K, nombre de quantiles
	AsOf  *time.Time // date de référence explicite ; nil = date max observée
	Rules []Rule     // table de classification ; vide = règles par défaut pour Bins
}
