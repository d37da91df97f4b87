package evaluation

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadPriceHistory reads a daily close-price CSV for the scripted
// evaluator. The first row names the symbols; every following row is
// one day of closes in the same column order.
func LoadPriceHistory(path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price history: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse price history: %w", err)
	}
	if len(records) < 3 {
		return nil, fmt.Errorf("price history needs a header and at least two rows, got %d", len(records))
	}

	header := records[0]
	history := make(map[string][]float64, len(header))
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		history[header[i]] = make([]float64, 0, len(records)-1)
	}

	for rowIdx, row := range records[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", rowIdx+2, len(row), len(header))
		}
		for col, cell := range row {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowIdx+2, header[col], err)
			}
			history[header[col]] = append(history[header[col]], value)
		}
	}

	return history, nil
}
