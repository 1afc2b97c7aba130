package database

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rfm-segments/pkg/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialecte goqu
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialecte goqu
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	driverMySQL    = "mysql"
	driverPostgres = "postgres"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)?$`)

// Open DSN mariadb://, mysql:// ou postgres:// → driver + DSN natif.
// Le nom du driver renvoyé par db.DriverName() sert aussi de dialecte goqu.
func Open(dsn string) (*sqlx.DB, string, error) {
	driver, nativeDSN, err := resolveDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sqlx.Open(driver, nativeDSN)
	if err != nil {
		return nil, "", &models.DataAccessError{Source: driver, Err: err}
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nativeDSN, nil
}

func resolveDSN(dsn string) (string, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return driverPostgres, dsn, nil
	default:
		out, err := toMySQLDSN(dsn)
		return driverMySQL, out, err
	}
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("dsn incomplet (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// SQLSource lit les transactions depuis une table MySQL/MariaDB ou PostgreSQL.
type SQLSource struct {
	DB      *sqlx.DB
	Table   string
	Columns models.Columns
	Policy  models.RowPolicy
}

// Load vérifie le schéma de la table (SELECT * ... WHERE 1 = 0) puis lit toutes les lignes.
func (s SQLSource) Load(ctx context.Context) (models.LoadResult, error) {
	if !tableNameRe.MatchString(s.Table) {
		return models.LoadResult{}, fmt.Errorf("table invalide %q", s.Table)
	}
	dialect := goqu.Dialect(s.DB.DriverName())

	if err := s.DB.PingContext(ctx); err != nil {
		return models.LoadResult{}, &models.DataAccessError{Source: s.Table, Err: err}
	}

	schemaSQL, _, err := dialect.From(s.Table).Where(goqu.L("1 = 0")).ToSQL()
	if err != nil {
		return models.LoadResult{}, fmt.Errorf("build schema query: %w", err)
	}
	header, err := s.columns(ctx, schemaSQL)
	if err != nil {
		return models.LoadResult{}, &models.DataAccessError{Source: s.Table, Err: err}
	}

	parser, _, err := newRowParser(s.Columns, s.Policy, header)
	if err != nil {
		return models.LoadResult{}, err
	}

	selected := make([]any, 0, 6)
	for _, c := range s.Columns.Required() {
		selected = append(selected, goqu.C(c))
	}
	if parser.hasQuantity {
		selected = append(selected, goqu.C(s.Columns.Quantity))
	}

	q, _, err := dialect.From(s.Table).Select(selected...).ToSQL()
	if err != nil {
		return models.LoadResult{}, fmt.Errorf("build select query: %w", err)
	}

	rows, err := s.DB.QueryxContext(ctx, q)
	if err != nil {
		return models.LoadResult{}, &models.DataAccessError{Source: s.Table, Err: err}
	}
	defer rows.Close()

	var out models.LoadResult
	for rows.Next() {
		raw := map[string]any{}
		if err := rows.MapScan(raw); err != nil {
			return models.LoadResult{}, &models.DataAccessError{Source: s.Table, Err: err}
		}
		out.Read++

		rec, ok, err := parser.parse(out.Read, func(col string) string { return sqlValueString(raw[col]) })
		if err != nil {
			return models.LoadResult{}, err
		}
		if !ok {
			out.Dropped++
			continue
		}
		out.Records = append(out.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return models.LoadResult{}, &models.DataAccessError{Source: s.Table, Err: err}
	}

	if len(out.Records) == 0 {
		return models.LoadResult{}, &models.EmptyDatasetError{Stage: "load"}
	}
	return out, nil
}

func (s SQLSource) columns(ctx context.Context, schemaSQL string) ([]string, error) {
	rows, err := s.DB.QueryxContext(ctx, schemaSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

// sqlValueString normalise les types renvoyés par les drivers mysql et pq.
func sqlValueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case time.Time:
		return t.UTC().Format("2006-01-02 15:04:05")
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
