package source

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/jengzang/peopleflow-backend-go/internal/models"
)

// SQLite reads raw records from a table in a SQLite database file,
// the other export format the survey vendor ships.
type SQLite struct {
	path  string
	table string
	cols  Columns
}

// NewSQLite builds a SQLite source. table defaults to "flow_records".
func NewSQLite(path, table string, cols Columns) *SQLite {
	if table == "" {
		table = "flow_records"
	}
	return &SQLite{path: path, table: table, cols: cols}
}

// Read selects every row of the configured table in rowid order. Rows
// that fail to scan are reported as RowErrors and skipped.
func (s *SQLite) Read() ([]models.RawRecord, []RowError, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite source: %w", err)
	}
	defer db.Close()

	// Read-only workload; a single connection is enough
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, nil, fmt.Errorf("open sqlite source: %w", err)
	}

	names := s.cols.names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	query := fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY rowid`,
		strings.Join(quoted, ", "), s.table)

	rows, err := db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query sqlite source: %w", err)
	}
	defer rows.Close()

	var (
		records []models.RawRecord
		rowErrs []RowError
		line    int
	)

	for rows.Next() {
		line++

		var (
			rec    models.RawRecord
			ageVec [10]float64
		)
		dest := []interface{}{
			&rec.Period, &rec.GX, &rec.GY, &rec.Hour, &rec.DayCategory,
			&rec.TotalUsers, &rec.StayShort, &rec.StayMedium, &rec.StayLong,
			&rec.MalePct, &rec.FemalePct,
		}
		for i := range ageVec {
			dest = append(dest, &ageVec[i])
		}

		if err := rows.Scan(dest...); err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}
		rec.AgeShares = models.AgeSharesFromVector(ageVec)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read sqlite source: %w", err)
	}

	return records, rowErrs, nil
}
