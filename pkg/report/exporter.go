package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rfm-segments/pkg/models"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Contact est la projection nom + téléphone d'un client.
type Contact struct {
	PhoneNumber  string `json:"phone_number"`
	CustomerName string `json:"customer_name"`
}

// SortedCounts trie les comptes par effectif décroissant (puis par nom).
func SortedCounts(counts []models.SegmentCount) []models.SegmentCount {
	out := append([]models.SegmentCount(nil), counts...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}

// FilterSegment renvoie les contacts des clients du segment, dans l'ordre de la table.
func FilterSegment(customers []models.ScoredCustomer, segment models.Segment) []Contact {
	var out []Contact
	for _, c := range customers {
		if c.Segment == segment {
			out = append(out, Contact{PhoneNumber: c.PhoneNumber, CustomerName: c.CustomerName})
		}
	}
	return out
}

// WriteContactsCSV écrit les contacts avec l'en-tête phone_number,customer_name.
func WriteContactsCSV(w io.Writer, contacts []Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"phone_number", "customer_name"}); err != nil {
		return err
	}
	for _, c := range contacts {
		if err := cw.Write([]string{c.PhoneNumber, c.CustomerName}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ContactsFilename : "<segment>_customer_data.csv" dans dir.
func ContactsFilename(dir string, segment models.Segment) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(string(segment))
	return filepath.Join(dir, name+"_customer_data.csv")
}

// ExportContacts écrit le fichier CSV du segment et renvoie son chemin.
func ExportContacts(dir string, customers []models.ScoredCustomer, segment models.Segment) (string, error) {
	if !segment.Valid() {
		return "", fmt.Errorf("segment inconnu %q", segment)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	filename := ContactsFilename(dir, segment)
	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if err := WriteContactsCSV(f, FilterSegment(customers, segment)); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return filename, nil
}

// EncodeJSON écrit le résultat indenté.
func EncodeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSON écrit data dans filename (dossier créé au besoin).
func ExportJSON(filename string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := EncodeJSON(file, data); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// TimestampedFilename : <dir>/<name>_YYYYMMDD_HHMMSS.json
func TimestampedFilename(dir, name string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, at.Format("20060102_150405")))
}
