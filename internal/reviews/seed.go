package reviews

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DeafMist/review-radar/backend/internal/models"
)

var seedColumns = []string{"ReviewId", "ReviewBody", "Location", "Timestamp"}

// LoadCSVFile reads the seed dataset at path.
func LoadCSVFile(path string) ([]models.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed dataset: %w", err)
	}
	defer f.Close()

	out, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// LoadCSV parses seed reviews from CSV with a header row. Columns are found by
// name, so their order does not matter and extra columns are ignored.
func LoadCSV(r io.Reader) ([]models.Review, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed dataset is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	cols := make([]int, len(seedColumns))
	for i, name := range seedColumns {
		pos, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		cols[i] = pos
	}

	var out []models.Review
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		field := func(i int) string {
			if cols[i] < len(record) {
				return record[cols[i]]
			}
			return ""
		}
		out = append(out, models.Review{
			ReviewId:   field(0),
			ReviewBody: field(1),
			Location:   field(2),
			Timestamp:  field(3),
		})
	}
	return out, nil
}
