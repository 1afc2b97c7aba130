package models

import "fmt"

// DataAccessError : la source ne peut pas être ouverte ou lue.
type DataAccessError struct {
	Source string
	Err    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access %s: %v", e.Source, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// DataFormatError : colonne absente ou valeur mal formée.
// Row vaut 0 quand l'erreur porte sur le schéma (en-tête) et non sur une ligne.
// Column est vide quand la ligne entière est illisible (syntaxe CSV).
type DataFormatError struct {
	Column string
	Row    int
	Reason string
}

func (e *DataFormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("data format: row %d: %s", e.Row, e.Reason)
	}
	if e.Row > 0 {
		return fmt.Sprintf("data format: column %q row %d: %s", e.Column, e.Row, e.Reason)
	}
	return fmt.Sprintf("data format: column %q: %s", e.Column, e.Reason)
}

// EmptyDatasetError : aucune ligne (ou aucun client) à traiter.
type EmptyDatasetError struct {
	Stage string
}

func (e *EmptyDatasetError) Error() string {
	if e.Stage == "" {
		return "empty dataset"
	}
	return "empty dataset after " + e.Stage
}

// MissingCustomerKeyError signale des lignes sans identifiant client.
// Récupérable : les lignes sont exclues et le calcul continue.
type MissingCustomerKeyError struct {
	Count int
}

func (e *MissingCustomerKeyError) Error() string {
	return fmt.Sprintf("%d row(s) without customer identifier excluded", e.Count)
}
