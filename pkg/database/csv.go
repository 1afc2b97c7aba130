package database

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"rfm-segments/pkg/models"
)

// CSVSource lit les transactions depuis un fichier CSV avec ligne d'en-tête.
type CSVSource struct {
	Path    string
	Columns models.Columns
	Policy  models.RowPolicy
}

// Load lit tout le fichier. Les lignes sont numérotées à partir de 1 (hors en-tête).
func (s CSVSource) Load(ctx context.Context) (models.LoadResult, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return models.LoadResult{}, &models.DataAccessError{Source: s.Path, Err: err}
	}
	defer f.Close()
	return readCSV(ctx, f, s.Path, s.Columns, s.Policy)
}

func readCSV(ctx context.Context, r io.Reader, name string, cols models.Columns, policy models.RowPolicy) (models.LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.LoadResult{}, &models.EmptyDatasetError{Stage: "load"}
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return models.LoadResult{}, &models.DataFormatError{Row: 0, Reason: "header: " + pe.Err.Error()}
	}
	if err != nil {
		return models.LoadResult{}, &models.DataAccessError{Source: name, Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	parser, index, err := newRowParser(cols, policy, header)
	if err != nil {
		return models.LoadResult{}, err
	}

	var out models.LoadResult
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.LoadResult{}, ctxErr
		}
		// Ligne CSV mal formée (guillemet isolé...) : même politique qu'une valeur illisible.
		// Le lecteur reprend à la ligne suivante.
		if errors.As(err, &pe) {
			out.Read++
			if policy == models.RowPolicyFail {
				return models.LoadResult{}, &models.DataFormatError{Row: out.Read, Reason: pe.Err.Error()}
			}
			out.Dropped++
			continue
		}
		if err != nil {
			return models.LoadResult{}, &models.DataAccessError{Source: name, Err: err}
		}
		out.Read++

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		rec, ok, err := parser.parse(out.Read, get)
		if err != nil {
			return models.LoadResult{}, err
		}
		if !ok {
			out.Dropped++
			continue
		}
		out.Records = append(out.Records, rec)
	}

	if len(out.Records) == 0 {
		return models.LoadResult{}, &models.EmptyDatasetError{Stage: "load"}
	}
	return out, nil
}
