// ============================================================================
// backend/internal/importer/excel.go
// Excel workbook parsing: worksheet rows into validated, typed records
// ============================================================================

package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

var validate = validator.New()

// Reserved header columns that are not subject codes.
const (
	colName   = "NAME"
	colSex    = "SEX"
	colTotal  = "TOT"
	colAvg    = "AVE"
	colRank   = "RANK"
	colStatus = "STATUS"
)

// Row is one parsed and typed spreadsheet row. Scores holds every numeric
// subject-code column the row carried; the summary fields are the sheet's
// own precomputed values, copied verbatim. Malformed lists summary columns
// whose cells did not parse; the zero value stands in and the reconciler
// records an error entry for each.
type Row struct {
	Name      string `validate:"required"`
	Sex       string `validate:"required"`
	Scores    map[string]float64
	Total     float64
	Average   float64
	Rank      int
	Status    string
	Malformed []string
}

// Validate checks the row's required identity fields.
func (r Row) Validate() error {
	return validate.Struct(r)
}

// Sheet is one worksheet's parsed rows.
type Sheet struct {
	Name string
	Rows []Row
}

// Workbook is the parsed input to a reconciliation run.
type Workbook struct {
	Sheets []Sheet
}

// RowCount is the total number of data rows across all sheets, used for
// progress reporting.
func (w *Workbook) RowCount() int {
	total := 0
	for _, sheet := range w.Sheets {
		total += len(sheet.Rows)
	}
	return total
}

// ParseWorkbook reads an xlsx stream and converts the selected sheets
// (all sheets when none are named) into typed rows. A workbook that cannot
// be opened is a fatal error: nothing is imported.
func ParseWorkbook(r io.Reader, sheetNames []string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if len(sheetNames) == 0 {
		sheetNames = f.GetSheetList()
	}

	wb := &Workbook{}
	for _, name := range sheetNames {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: parseRows(rows)})
	}
	return wb, nil
}

// parseRows maps a sheet's cells through its header row into typed records.
// Blank rows are dropped; rows with unparseable score cells keep the cell
// absent so the reconciler reports it as a missing subject.
func parseRows(rows [][]string) []Row {
	if len(rows) < 2 {
		return nil
	}

	header := rows[0]
	var parsed []Row

	for _, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}

		row := Row{Scores: make(map[string]float64)}
		for i, col := range header {
			col = strings.TrimSpace(col)
			cell := ""
			if i < len(cells) {
				cell = strings.TrimSpace(cells[i])
			}
			if cell == "" {
				continue
			}

			switch col {
			case colName:
				row.Name = cell
			case colSex:
				row.Sex = cell
			case colTotal:
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					row.Total = v
				} else {
					row.Malformed = append(row.Malformed, colTotal)
				}
			case colAvg:
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					row.Average = v
				} else {
					row.Malformed = append(row.Malformed, colAvg)
				}
			case colRank:
				if v, err := strconv.Atoi(cell); err == nil {
					row.Rank = v
				} else {
					row.Malformed = append(row.Malformed, colRank)
				}
			case colStatus:
				row.Status = cell
			default:
				if score, err := strconv.ParseFloat(cell, 64); err == nil {
					row.Scores[col] = score
				}
			}
		}
		parsed = append(parsed, row)
	}
	return parsed
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
