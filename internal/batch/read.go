package batch

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Candidate is one input value and where it came from.
type Candidate struct {
	Line int // 1-based line (text, CSV) or row (XLSX) number
	Raw  string
}

// ReadCandidates loads candidates from path. The format follows the
// extension: .xlsx reads the first column of the first sheet, .csv the first
// column, anything else one candidate per line. Blank entries are skipped.
func ReadCandidates(path string) ([]Candidate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readCSV(f)
	}
	return readLines(f)
}

func readLines(r io.Reader) ([]Candidate, error) {
	var out []Candidate
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if text := strings.TrimSpace(sc.Text()); text != "" {
			out = append(out, Candidate{Line: line, Raw: text})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return out, nil
}

func readCSV(r io.Reader) ([]Candidate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []Candidate
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError already names the line
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(row) > 0 && strings.TrimSpace(row[0]) != "" {
			// quoted fields may span lines, so ask the reader where the row began
			line, _ := reader.FieldPos(0)
			out = append(out, Candidate{Line: line, Raw: strings.TrimSpace(row[0])})
		}
	}
	return out, nil
}

func readXLSX(path string) ([]Candidate, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var out []Candidate
	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) != "" {
			out = append(out, Candidate{Line: i + 1, Raw: strings.TrimSpace(row[0])})
		}
	}
	return out, nil
}
