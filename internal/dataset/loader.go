package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fire-insights-go/internal/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const (
	typeColumn     = "type"
	durationColumn = "duration"
)

// missingMarkers are the cell values read as "no value".
var missingMarkers = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-NaN", "-nan", "<NA>", "N/A", "NA", "NULL",
	"NaN", "None", "n/a", "nan", "null", "<nil>",
}

// Load reads call records from a CSV file, or from the first sheet of an .xlsx
// workbook. Call types are whitespace trimmed; missing cells load as "".
func Load(path string) ([]types.CallRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadXLSX(path)
	default:
		return loadCSV(path)
	}
}

func loadCSV(path string) ([]types.CallRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingMarkers),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	names := df.Names()
	typeIdx, durIdx, err := findColumns(names)
	if err != nil {
		return nil, err
	}
	typeCol := df.Col(names[typeIdx])
	durCol := df.Col(names[durIdx])

	out := make([]types.CallRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		out = append(out, types.CallRecord{
			Type:     strings.TrimSpace(cell(typeCol, i)),
			Duration: cell(durCol, i),
		})
	}
	return out, nil
}

func cell(s series.Series, i int) string {
	e := s.Elem(i)
	if e.IsNA() {
		return ""
	}
	return e.String()
}

func loadXLSX(path string) ([]types.CallRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	typeIdx, durIdx, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]types.CallRecord, 0, len(rows)-1)
	for i, r := range rows {
		if i == 0 {
			continue
		}
		record := types.CallRecord{}
		if typeIdx < len(r) && !isMissing(r[typeIdx]) {
			record.Type = strings.TrimSpace(r[typeIdx])
		}
		if durIdx < len(r) && !isMissing(r[durIdx]) {
			record.Duration = r[durIdx]
		}
		out = append(out, record)
	}
	return out, nil
}

// findColumns locates the type and duration columns by trimmed, case-insensitive
// header name.
func findColumns(header []string) (typeIdx, durIdx int, err error) {
	typeIdx, durIdx = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case typeColumn:
			if typeIdx == -1 {
				typeIdx = i
			}
		case durationColumn:
			if durIdx == -1 {
				durIdx = i
			}
		}
	}
	if typeIdx == -1 {
		return -1, -1, fmt.Errorf("missing %q column", typeColumn)
	}
	if durIdx == -1 {
		return -1, -1, fmt.Errorf("missing %q column", durationColumn)
	}
	return typeIdx, durIdx, nil
}

func isMissing(v string) bool {
	for _, m := range missingMarkers {
		if v == m {
			return true
		}
	}
	return false
}
