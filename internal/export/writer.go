package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/halcyonworks/chatgauge/internal/pipeline"
)

// WriteCSV streams the dataset as CSV with a header row. Missing values
// render as empty cells.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range ds.Rows {
		rec, err := ds.record(row)
		if err != nil {
			return err
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.ConversationID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the results as a JSON array of records. Missing values
// render as null.
func WriteJSON(w io.Writer, results []pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// WriteFiles writes dataset.csv and features_targets.json into dir, creating
// it if needed.
func WriteFiles(dir string, results []pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	csvPath := filepath.Join(dir, "dataset.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", csvPath, err)
	}
	defer csvFile.Close()
	if err := WriteCSV(csvFile, Build(results)); err != nil {
		return err
	}

	jsonPath := filepath.Join(dir, "features_targets.json")
	jsonFile, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", jsonPath, err)
	}
	defer jsonFile.Close()
	return WriteJSON(jsonFile, results)
}
