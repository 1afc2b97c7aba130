package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"rfm-segments/pkg/calculator"
	"rfm-segments/pkg/models"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config regroupe les paramètres lus depuis l'environnement (et un éventuel .env).
// Les flags de la ligne de commande prennent ces valeurs comme défauts.
type Config struct {
	DSN       string `env:"RFM_DSN"`
	Source    string `env:"RFM_SOURCE"` // chemin CSV
	Table     string `env:"RFM_TABLE" envDefault:"transactions"`
	Bins      int    `env:"RFM_BINS" envDefault:"5"`
	AsOf      string `env:"RFM_AS_OF"` // YYYY-MM-DD ; vide = date max observée
	RowPolicy string `env:"RFM_ROW_POLICY" envDefault:"drop"`
	Rules     string `env:"RFM_RULES"` // fichier JSON de règles ; vide = règles par défaut
	OutDir    string `env:"RFM_OUT" envDefault:"reports"`
	Verbose   bool   `env:"RFM_VERBOSE" envDefault:"true"`

	Columns ColumnNames `envPrefix:"RFM_COL_"`
}

// ColumnNames permet de renommer les colonnes de la source.
type ColumnNames struct {
	CustomerID   string `env:"CUSTOMER_ID" envDefault:"customer_id"`
	CustomerName string `env:"CUSTOMER_NAME" envDefault:"customer_name"`
	PhoneNumber  string `env:"PHONE_NUMBER" envDefault:"phone_number"`
	Date         string `env:"DATE" envDefault:"date"`
	Amount       string `env:"AMOUNT" envDefault:"amount"`
	Quantity     string `env:"QUANTITY" envDefault:"quantity"`
}

// Load lit .env s'il existe puis les variables RFM_*.
func Load() (Config, error) {
	// .env optionnel
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Policy convertit RowPolicy en models.RowPolicy.
func (c Config) Policy() (models.RowPolicy, error) {
	switch p := models.RowPolicy(c.RowPolicy); p {
	case "", models.RowPolicyDrop:
		return models.RowPolicyDrop, nil
	case models.RowPolicyFail:
		return p, nil
	default:
		return "", fmt.Errorf("row policy invalide %q (drop|fail)", c.RowPolicy)
	}
}

// SourceColumns renvoie les noms de colonnes attendus dans la source.
func (c Config) SourceColumns() models.Columns {
	return models.Columns{
		CustomerID:   c.Columns.CustomerID,
		CustomerName: c.Columns.CustomerName,
		PhoneNumber:  c.Columns.PhoneNumber,
		Date:         c.Columns.Date,
		Amount:       c.Columns.Amount,
		Quantity:     c.Columns.Quantity,
	}
}

// Engine construit la configuration du moteur.
func (c Config) Engine() (models.Config, error) {
	out := models.Config{Bins: c.Bins}
	if c.AsOf != "" {
		t, err := time.Parse("2006-01-02", c.AsOf)
		if err != nil {
			return models.Config{}, fmt.Errorf("as_of: format attendu YYYY-MM-DD: %w", err)
		}
		out.AsOf = &t
	}
	if c.Rules != "" {
		k := c.Bins
		if k == 0 {
			k = models.DefaultBins
		}
		rules, err := LoadRules(c.Rules, k)
		if err != nil {
			return models.Config{}, err
		}
		out.Rules = rules
	}
	return out, nil
}

// LoadRules lit une table de classification JSON :
//
//	[{"segment": "Best Customers", "recency": {"min": 4, "max": 5}, ...}, ...]
//
// Les règles sont évaluées dans l'ordre du fichier et validées pour k quantiles.
func LoadRules(path string, k int) ([]models.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	var rules []models.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules %s: %w: table vide", path, calculator.ErrInvalidRule)
	}
	if err := calculator.RuleSet(rules).Validate(k); err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return rules, nil
}

// SelectSource choisit entre fichier CSV et DSN. Un flag passé explicitement
// l'emporte sur une valeur venue de l'environnement ; deux valeurs de même
// origine sont ambiguës.
func SelectSource(source, dsn string, sourceFlag, dsnFlag bool) (string, string, error) {
	switch {
	case sourceFlag && dsnFlag:
		return "", "", errors.New("--source et --dsn sont exclusifs")
	case sourceFlag:
		dsn = ""
	case dsnFlag:
		source = ""
	}
	if (source == "") == (dsn == "") {
		return "", "", errors.New("une seule source attendue : --source file.csv ou --dsn ...")
	}
	return source, dsn, nil
}
