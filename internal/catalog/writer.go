package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woograb/woograb/internal/logger"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Result reports an upsert merge.
type Result struct {
	Updated int
	Added   int
}

// Upsert merges rows into the master catalog file at path, keyed by SKU:
// a row whose SKU already exists overwrites the existing row in place, any
// other row is appended. The whole file (header + rows) is rewritten in
// one pass. The file is UTF-8 with a byte-order mark; reads tolerate a
// missing one.
func Upsert(path string, rows []Row) (Result, error) {
	header, existing := readExisting(path)
	width := len(header)

	skuIdx := skuColumn(header)

	// First occurrence wins when the existing file already holds
	// duplicate SKUs.
	index := make(map[string]int)
	for i, r := range existing {
		existing[i] = fit(r, width)
		sku := strings.TrimSpace(existing[i][skuIdx])
		if sku != "" {
			if _, ok := index[sku]; !ok {
				index[sku] = i
			}
		}
	}

	var res Result
	for _, row := range rows {
		row = fit(row, width)
		sku := strings.TrimSpace(row[skuIdx])
		if sku != "" {
			if pos, ok := index[sku]; ok {
				existing[pos] = row
				res.Updated++
				continue
			}
		}
		existing = append(existing, row)
		if sku != "" {
			index[sku] = len(existing) - 1
		}
		res.Added++
	}

	if err := writeAll(path, header, existing); err != nil {
		return Result{}, err
	}
	return res, nil
}

// readExisting parses the current file. Returns the canonical header when
// the file is missing, unreadable, or its header width does not match.
func readExisting(path string) ([]string, []Row) {
	header := append([]string(nil), Header...)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("catalog file unreadable, starting fresh", "path", path, "error", err)
		}
		return header, nil
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		logger.Warn("catalog file corrupt, starting fresh", "path", path, "error", err)
		return header, nil
	}
	if len(records) == 0 {
		return header, nil
	}

	if len(records[0]) == len(Header) {
		header = records[0]
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row(rec))
	}
	return header, rows
}

// writeAll rewrites the catalog file: BOM, header, then every row.
func writeAll(path string, header []string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to encode catalog header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to encode catalog row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", path, err)
	}
	return nil
}

// skuColumn finds the SKU column in the header.
func skuColumn(header []string) int {
	for i, name := range header {
		if name == "SKU" {
			return i
		}
	}
	return defaultSKUColumn
}
