package database

import (
	"fmt"
	"math"
	"strings"
	"time"

	"rfm-segments/pkg/models"

	"github.com/shopspring/decimal"
)

// Formats de date acceptés, du plus courant au plus rare.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Valeurs considérées comme "pas d'identifiant" (exports pandas / SQL).
var nullTokens = map[string]bool{
	"":     true,
	"null": true,
	"nan":  true,
	"none": true,
}

var maxQuantity = decimal.NewFromInt(math.MaxInt32)

// rowParser convertit une ligne brute en TransactionRecord.
// Le même parseur sert aux sources CSV et SQL.
type rowParser struct {
	cols        models.Columns
	policy      models.RowPolicy
	hasQuantity bool
}

func newRowParser(cols models.Columns, policy models.RowPolicy, header []string) (*rowParser, map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, c := range cols.Required() {
		if _, ok := index[c]; !ok {
			return nil, nil, &models.DataFormatError{Column: c, Reason: "required column missing"}
		}
	}
	if policy == "" {
		policy = models.RowPolicyDrop
	}
	_, hasQty := index[cols.Quantity]
	return &rowParser{cols: cols, policy: policy, hasQuantity: cols.Quantity != "" && hasQty}, index, nil
}

// parse renvoie ok=false quand la ligne est écartée (policy=drop) ;
// une erreur n'est renvoyée qu'en policy=fail.
func (p *rowParser) parse(row int, get func(col string) string) (models.TransactionRecord, bool, error) {
	rec := models.TransactionRecord{
		CustomerID:   strings.TrimSpace(get(p.cols.CustomerID)),
		CustomerName: strings.TrimSpace(get(p.cols.CustomerName)),
		PhoneNumber:  strings.TrimSpace(get(p.cols.PhoneNumber)),
		Quantity:     1,
	}
	if nullTokens[strings.ToLower(rec.CustomerID)] {
		rec.CustomerID = ""
	}

	d, err := parseDate(get(p.cols.Date))
	if err != nil {
		return p.reject(p.cols.Date, row, err.Error())
	}
	rec.Date = d

	amount, err := parseAmount(get(p.cols.Amount))
	if err != nil {
		return p.reject(p.cols.Amount, row, err.Error())
	}
	rec.Amount = amount

	if p.hasQuantity {
		raw := strings.TrimSpace(get(p.cols.Quantity))
		if raw != "" {
			q, err := parseQuantity(raw)
			if err != nil {
				return p.reject(p.cols.Quantity, row, err.Error())
			}
			if q > 0 {
				rec.Quantity = q
			}
		}
	}
	return rec, true, nil
}

func (p *rowParser) reject(col string, row int, reason string) (models.TransactionRecord, bool, error) {
	if p.policy == models.RowPolicyFail {
		return models.TransactionRecord{}, false, &models.DataFormatError{Column: col, Row: row, Reason: reason}
	}
	return models.TransactionRecord{}, false, nil
}

// parseDate ramène la valeur à une date calendaire UTC (heure ignorée).
func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

// parseQuantity accepte un entier, éventuellement écrit "3.0" (exports pandas).
func parseQuantity(raw string) (int, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a number", raw)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("quantity %q is not an integer", raw)
	}
	if d.Abs().GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("quantity %q out of range", raw)
	}
	return int(d.IntPart()), nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparsable amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", d.String())
	}
	return d, nil
}
