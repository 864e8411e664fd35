// Package source reads raw survey rows from a tabular source. Exact
// column names are configuration; readers report malformed rows
// individually so a few corrupt lines never abort a load.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jengzang/peopleflow-backend-go/internal/models"
)

// RowError describes one row that could not be parsed. Line is the
// 1-based position in the source (CSV line or result-set row).
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

// Source yields every parseable row of a tabular dataset in source
// order. Parse failures come back as RowErrors next to the good rows;
// a non-nil error means the source itself is unusable.
type Source interface {
	Read() ([]models.RawRecord, []RowError, error)
}

// Columns maps the logical record fields to source column names.
type Columns struct {
	Period      string `mapstructure:"period"`
	GX          string `mapstructure:"gx"`
	GY          string `mapstructure:"gy"`
	Hour        string `mapstructure:"hour"`
	DayCategory string `mapstructure:"day_category"`
	Total       string `mapstructure:"total"`
	StayShort   string `mapstructure:"stay_short"`
	StayMedium  string `mapstructure:"stay_medium"`
	StayLong    string `mapstructure:"stay_long"`
	Male        string `mapstructure:"male"`
	Female      string `mapstructure:"female"`
	AgePrefix   string `mapstructure:"age_prefix"` // age_1 .. age_9
	AgeOther    string `mapstructure:"age_other"`
}

// DefaultColumns returns the column names used by the original survey
// exports.
func DefaultColumns() Columns {
	return Columns{
		Period:      "month",
		GX:          "gx",
		GY:          "gy",
		Hour:        "hour",
		DayCategory: "day_type",
		Total:       "avg_total_users",
		StayShort:   "avg_users_under_10min",
		StayMedium:  "avg_users_10_30min",
		StayLong:    "avg_users_over_30min",
		Male:        "sex_1",
		Female:      "sex_2",
		AgePrefix:   "age_",
		AgeOther:    "age_other",
	}
}

// names returns every column name in record-field order: the 11 fixed
// columns followed by age_1..age_9 and the other bracket.
func (c Columns) names() []string {
	out := []string{
		c.Period, c.GX, c.GY, c.Hour, c.DayCategory,
		c.Total, c.StayShort, c.StayMedium, c.StayLong,
		c.Male, c.Female,
	}
	for i := 1; i <= 9; i++ {
		out = append(out, fmt.Sprintf("%s%d", c.AgePrefix, i))
	}
	return append(out, c.AgeOther)
}

// Open picks a reader for the given path. Format "csv" or "sqlite"
// forces one; "auto" (or empty) decides by extension.
func Open(path, format, table string, cols Columns) (Source, error) {
	switch strings.ToLower(format) {
	case "csv":
		return NewCSVFile(path, cols), nil
	case "sqlite":
		return NewSQLite(path, table, cols), nil
	case "", "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
			return NewSQLite(path, table, cols), nil
		default:
			return NewCSVFile(path, cols), nil
		}
	}
	return nil, fmt.Errorf("unknown source format %q", format)
}
