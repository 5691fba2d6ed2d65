// Package excel reads task sheets exported from the exam archive spreadsheet.
package excel

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Columns lists the header names a task sheet may carry. Order in the sheet
// does not matter.
var Columns = []string{
	"przedmiot", "zakres", "dzial", "rok_arkusza", "rodzaj_arkusza", "numer_zadania",
	"typ_zadania", "tresc", "odp_a", "odp_b", "odp_c", "odp_d", "poprawna_odp",
}

// Row is one non-blank data row. Line is the 1-based row number in the sheet.
type Row struct {
	Sheet string
	Line  int
	Cells map[string]string
}

func (r Row) Get(column string) string { return r.Cells[column] }

// ParseTasks reads the first sheet of the workbook in r. The first row is the
// header; unknown header names are ignored.
func ParseTasks(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]
	log.Println("📖 Parsing task sheet:", sheet)

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	header, err := parseHeader(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}

	var out []Row
	for i, cells := range rows[1:] {
		row, ok := parseRow(sheet, i+2, cells, header)
		if !ok {
			continue
		}
		out = append(out, row)
	}

	log.Printf("✅ Parsed %d task rows from sheet %s\n", len(out), sheet)
	return out, nil
}

func parseHeader(cells []string) (map[int]string, error) {
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c] = true
	}
	header := make(map[int]string)
	seen := make(map[string]bool)
	for i, v := range cells {
		name := strings.ToLower(strings.TrimSpace(v))
		if !known[name] {
			if name != "" {
				log.Printf("⚠️ Ignoring unknown column %q\n", v)
			}
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = true
		header[i] = name
	}
	for _, required := range []string{"przedmiot", "zakres", "dzial", "rodzaj_arkusza", "typ_zadania", "tresc"} {
		if !seen[required] {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return header, nil
}

// parseRow maps cells by header; rows with only blank cells are skipped.
func parseRow(sheet string, line int, cells []string, header map[int]string) (Row, bool) {
	row := Row{Sheet: sheet, Line: line, Cells: make(map[string]string, len(header))}
	blank := true
	for i, v := range cells {
		name, ok := header[i]
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v != "" {
			blank = false
		}
		row.Cells[name] = v
	}
	if blank {
		return Row{}, false
	}
	return row, true
}
