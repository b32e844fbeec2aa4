package sections

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Table lays flattened content out as rows: a header row with the labels in
// ascending order, then the lines of every label zipped together and padded
// with empty strings to the longest column.
func Table(flat *OrderedLines) [][]string {
	if flat == nil || flat.Len() == 0 {
		return nil
	}

	headers := flat.Keys()
	sort.Strings(headers)

	longest := 0
	for _, header := range headers {
		longest = max(longest, len(flat.Get(header)))
	}

	rows := make([][]string, 0, longest+1)
	rows = append(rows, headers)
	for i := 0; i < longest; i++ {
		row := make([]string, len(headers))
		for j, header := range headers {
			if lines := flat.Get(header); i < len(lines) {
				row[j] = lines[i]
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// WriteCSV writes Table(flat) as CSV. Nothing is written for empty input.
func WriteCSV(w io.Writer, flat *OrderedLines) error {
	rows := Table(flat)
	if len(rows) == 0 {
		return nil
	}

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteJSON dumps the structured tree.
func WriteJSON(w io.Writer, tree *Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
