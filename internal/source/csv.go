package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/peopleflow-backend-go/internal/models"
)

// CSV reads raw records from a comma-separated stream with a header
// row naming the columns.
type CSV struct {
	open func() (io.ReadCloser, error)
	cols Columns
}

// NewCSVFile builds a CSV source backed by a file path. The file is
// opened on Read, so a missing file surfaces as a load error, not a
// construction error.
func NewCSVFile(path string, cols Columns) *CSV {
	return &CSV{
		open: func() (io.ReadCloser, error) { return os.Open(path) },
		cols: cols,
	}
}

// NewCSVReader builds a CSV source over an arbitrary stream.
func NewCSVReader(r io.Reader, cols Columns) *CSV {
	return &CSV{
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
		cols: cols,
	}
}

// Read parses the whole stream. Rows with the wrong field count or
// unparseable numbers are reported as RowErrors and skipped.
func (c *CSV) Read() ([]models.RawRecord, []RowError, error) {
	rc, err := c.open()
	if err != nil {
		return nil, nil, fmt.Errorf("open csv source: %w", err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	idx, err := resolveHeader(header, c.cols)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []models.RawRecord
		rowErrs []RowError
		line    = 1 // header was line 1
	)

	for {
		line++
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}

		rec, perr := parseRow(fields, idx)
		if perr != "" {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: perr})
			continue
		}
		records = append(records, rec)
	}

	return records, rowErrs, nil
}

// resolveHeader maps every configured column name to its position.
// A missing column makes the whole source unusable.
func resolveHeader(header []string, cols Columns) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}

	names := cols.names()
	idx := make([]int, len(names))
	for i, name := range names {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("csv source missing column %q", name)
		}
		idx[i] = p
	}
	return idx, nil
}

// parseRow converts one CSV row into a RawRecord using the resolved
// column order from Columns.names. Returns a reason string on failure.
func parseRow(fields []string, idx []int) (models.RawRecord, string) {
	var rec models.RawRecord

	get := func(i int) (string, bool) {
		p := idx[i]
		if p >= len(fields) {
			return "", false
		}
		return strings.TrimSpace(fields[p]), true
	}

	ints := []struct {
		pos  int
		dst  *int
		name string
	}{
		{0, &rec.Period, "period"},
		{1, &rec.GX, "gx"},
		{2, &rec.GY, "gy"},
		{3, &rec.Hour, "hour"},
	}
	for _, f := range ints {
		s, ok := get(f.pos)
		if !ok || s == "" {
			return rec, "missing " + f.name
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return rec, "bad " + f.name + ": " + s
		}
		*f.dst = v
	}

	day, ok := get(4)
	if !ok || day == "" {
		return rec, "missing day category"
	}
	rec.DayCategory = day

	var ageVec [10]float64
	floats := []struct {
		pos  int
		dst  *float64
		name string
	}{
		{5, &rec.TotalUsers, "total"},
		{6, &rec.StayShort, "stay_short"},
		{7, &rec.StayMedium, "stay_medium"},
		{8, &rec.StayLong, "stay_long"},
		{9, &rec.MalePct, "male_pct"},
		{10, &rec.FemalePct, "female_pct"},
		{11, &ageVec[0], "age_1"},
		{12, &ageVec[1], "age_2"},
		{13, &ageVec[2], "age_3"},
		{14, &ageVec[3], "age_4"},
		{15, &ageVec[4], "age_5"},
		{16, &ageVec[5], "age_6"},
		{17, &ageVec[6], "age_7"},
		{18, &ageVec[7], "age_8"},
		{19, &ageVec[8], "age_9"},
		{20, &ageVec[9], "age_other"},
	}
	for _, f := range floats {
		s, ok := get(f.pos)
		if !ok || s == "" {
			return rec, "missing " + f.name
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, "bad " + f.name + ": " + s
		}
		*f.dst = v
	}
	rec.AgeShares = models.AgeSharesFromVector(ageVec)

	return rec, ""
}
