// Package export flattens tabular JSON payloads into CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// ErrNotTabular means the payload is not a list of JSON objects.
var ErrNotTabular = errors.New("payload is not tabular")

// Rows flattens a JSON array of objects into a sorted header row plus one
// string row per record. Nested values are re-encoded as JSON text.
func Rows(payload any) (headers []string, rows [][]string, err error) {
	list, ok := payload.([]any)
	if !ok {
		return nil, nil, ErrNotTabular
	}

	seen := map[string]bool{}
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, nil, ErrNotTabular
		}
		records = append(records, obj)
		for k := range obj {
			seen[k] = true
		}
	}

	for k := range seen {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	for _, obj := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = cell(obj[h])
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// WriteCSV writes payload to w as CSV.
func WriteCSV(w io.Writer, payload any) error {
	headers, rows, err := Rows(payload)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes payload to a CSV file at path.
func Save(path string, payload any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, payload); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}
