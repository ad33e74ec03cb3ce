// Package paramfile reads parameter tables (.csv, .tsv, .xlsx) into raw
// parameter entries in parameter_id, target, unit, mode order.
package paramfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column names of the canonical header, in entry order.
var Columns = []string{"parameter_id", "target", "unit", "mode"}

var aliases = map[string]string{
	"parameter_id":     "parameter_id",
	"parametertype_id": "parameter_id",
	"id":               "parameter_id",
	"target":           "target",
	"target_value":     "target",
	"unit":             "unit",
	"mode":             "mode",
}

// ErrNoRows is returned for a table with a header but no data rows.
var ErrNoRows = errors.New("no parameter rows")

// Row is one data row. Line is 1-based in the source file (or sheet).
type Row struct {
	Line   int
	Fields []string
}

// Read loads path, choosing the reader by extension.
func Read(path string) ([]Row, error) {
	var (
		rows  [][]string
		lines []int
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, lines, err = readDelimited(path, ',')
	case ".tsv", ".tab":
		rows, lines, err = readDelimited(path, '\t')
	case ".xlsx", ".xlsm":
		rows, err = readExcel(path)
		lines = make([]int, len(rows))
		for i := range lines {
			lines[i] = i + 1
		}
	default:
		return nil, fmt.Errorf("%s: unsupported parameter table type %q (want .csv, .tsv or .xlsx)", path, ext)
	}
	if err != nil {
		return nil, err
	}
	out, err := processRows(rows, lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func readDelimited(path string, comma rune) ([][]string, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open parameter table: %w", err)
	}
	defer f.Close()
	return parseDelimited(f, comma)
}

// parseDelimited returns every record with its source line; the csv
// reader drops blank lines, so record index and line differ.
func parseDelimited(r io.Reader, comma rune) ([][]string, []int, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	var (
		rows  [][]string
		lines []int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read parameter table: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, rec)
		lines = append(lines, line)
	}
	return rows, lines, nil
}

// readExcel reads the first sheet of the workbook.
func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// processRows maps the header onto Columns and returns the data rows.
// Blank rows and rows whose first cell starts with '#' are skipped.
func processRows(rows [][]string, lines []int) ([]Row, error) {
	hdr := -1
	for i, r := range rows {
		if !skippable(r) {
			hdr = i
			break
		}
	}
	if hdr < 0 {
		return nil, errors.New("empty parameter table")
	}
	pos, err := headerPositions(rows[hdr])
	if err != nil {
		return nil, err
	}

	var out []Row
	for i := hdr + 1; i < len(rows); i++ {
		r := rows[i]
		if skippable(r) {
			continue
		}
		fields := make([]string, len(Columns))
		for c, p := range pos {
			if p >= 0 && p < len(r) {
				fields[c] = strings.TrimSpace(r[p])
			}
		}
		out = append(out, Row{Line: lines[i], Fields: fields})
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// headerPositions returns, per canonical column, its index in header or
// -1 when absent. parameter_id and mode are required.
func headerPositions(header []string) ([]int, error) {
	pos := make([]int, len(Columns))
	for i := range pos {
		pos[i] = -1
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		canon, ok := aliases[key]
		if !ok {
			continue
		}
		for c, name := range Columns {
			if name == canon && pos[c] < 0 {
				pos[c] = i
			}
		}
	}
	for _, req := range []int{0, 3} {
		if pos[req] < 0 {
			return nil, fmt.Errorf("header lacks required column %q (have %q)", Columns[req], strings.Join(header, ","))
		}
	}
	return pos, nil
}

func skippable(r []string) bool {
	for _, c := range r {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		return strings.HasPrefix(c, "#")
	}
	return true
}
