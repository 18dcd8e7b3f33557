package export

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/halcyonworks/chatgauge/internal/extract"
	"github.com/halcyonworks/chatgauge/internal/pipeline"
)

// Dataset is a rectangular view over a batch of extraction results: one row
// per conversation, one column per feature or target. Conversations missing
// a column carry the missing value there, never a zero.
type Dataset struct {
	// Columns is conversation_id followed by the sorted union of feature
	// names, then the sorted union of target names.
	Columns []string
	Rows    []Row
}

type Row struct {
	ConversationID string
	Values         map[string]extract.Value
}

// Build assembles a dataset from pipeline results. Rows keep the result
// order; columns are unioned across all rows so partial extraction sets
// still line up.
func Build(results []pipeline.Result) *Dataset {
	featureSet := map[string]bool{}
	targetSet := map[string]bool{}
	for _, r := range results {
		for name := range r.Features {
			featureSet[name] = true
		}
		for name := range r.Targets {
			targetSet[name] = true
		}
	}

	columns := []string{"conversation_id"}
	columns = append(columns, sortedKeys(featureSet)...)
	columns = append(columns, sortedKeys(targetSet)...)

	ds := &Dataset{Columns: columns}
	for _, r := range results {
		row := Row{
			ConversationID: r.ConversationID,
			Values:         make(map[string]extract.Value, len(featureSet)+len(targetSet)),
		}
		for name := range featureSet {
			row.Values[name] = valueOrMissing(r.Features, name)
		}
		for name := range targetSet {
			row.Values[name] = valueOrMissing(r.Targets, name)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// cell renders one value for CSV output. Missing renders as the empty string.
func cell(v extract.Value) string {
	switch {
	case v.Missing:
		return ""
	case v.IsLabel:
		return v.Label
	default:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	}
}

func valueOrMissing(m map[string]extract.Value, name string) extract.Value {
	if v, ok := m[name]; ok {
		return v
	}
	return extract.None()
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Dataset) record(row Row) ([]string, error) {
	rec := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		if col == "conversation_id" {
			rec[i] = row.ConversationID
			continue
		}
		v, ok := row.Values[col]
		if !ok {
			return nil, fmt.Errorf("row %s has no column %q", row.ConversationID, col)
		}
		rec[i] = cell(v)
	}
	return rec, nil
}
