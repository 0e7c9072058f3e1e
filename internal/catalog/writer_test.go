package catalog

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func testRow(sku, name string) Row {
	r := make(Row, len(Header))
	r[1] = "simple"
	r[2] = sku
	r[3] = name
	return r
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read catalog: %v", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse catalog: %v", err)
	}
	return records
}

func TestUpsert_CreatesFileWithHeaderAndBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")

	res, err := Upsert(path, []Row{testRow("bob", "Bob")})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if res.Added != 1 || res.Updated != 0 {
		t.Errorf("expected 1 added, got %+v", res)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Error("catalog file must start with a UTF-8 BOM")
	}

	records := readRows(t, path)
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if records[0][2] != "SKU" {
		t.Errorf("unexpected header: %v", records[0])
	}
}

func TestUpsert_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	rows := []Row{testRow("bob", "Bob")}

	if _, err := Upsert(path, rows); err != nil {
		t.Fatal(err)
	}
	res, err := Upsert(path, rows)
	if err != nil {
		t.Fatal(err)
	}

	if res.Updated != 1 || res.Added != 0 {
		t.Errorf("second run should update, not add: %+v", res)
	}

	records := readRows(t, path)
	if len(records) != 2 {
		t.Errorf("expected exactly one row for the SKU after rerun, got %d", len(records)-1)
	}
}

func TestUpsert_UpdatePreservesPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")

	if _, err := Upsert(path, []Row{
		testRow("first", "First"),
		testRow("second", "Second"),
		testRow("third", "Third"),
	}); err != nil {
		t.Fatal(err)
	}

	res, err := Upsert(path, []Row{testRow("second", "Second Renamed")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Updated != 1 || res.Added != 0 {
		t.Fatalf("expected in-place update, got %+v", res)
	}

	records := readRows(t, path)
	if records[2][2] != "second" || records[2][3] != "Second Renamed" {
		t.Errorf("updated row should keep its position, got %v", records[2])
	}
	if records[1][2] != "first" || records[3][2] != "third" {
		t.Error("neighboring rows should be untouched")
	}
}

func TestUpsert_EmptySKURowsAlwaysAppended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")

	if _, err := Upsert(path, []Row{testRow("", "Anon")}); err != nil {
		t.Fatal(err)
	}
	res, err := Upsert(path, []Row{testRow("", "Anon")})
	if err != nil {
		t.Fatal(err)
	}

	if res.Added != 1 {
		t.Errorf("rows without SKU never upsert, got %+v", res)
	}
	if records := readRows(t, path); len(records) != 3 {
		t.Errorf("expected 2 data rows, got %d", len(records)-1)
	}
}

func TestUpsert_ReadsFileWithoutBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")

	// Seed a BOM-less file with the canonical header
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Header)
	_ = w.Write(testRow("bob", "Old Name"))
	w.Flush()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Upsert(path, []Row{testRow("bob", "New Name")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Updated != 1 {
		t.Errorf("expected update against BOM-less file, got %+v", res)
	}

	records := readRows(t, path)
	if records[1][3] != "New Name" {
		t.Errorf("expected updated name, got %q", records[1][3])
	}
}

func TestUpsert_ShortRowsPadded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")

	short := Row{"", "simple", "bob", "Bob"}
	if _, err := Upsert(path, []Row{short}); err != nil {
		t.Fatal(err)
	}

	records := readRows(t, path)
	if len(records[1]) != len(Header) {
		t.Errorf("expected row padded to %d columns, got %d", len(Header), len(records[1]))
	}
}

func TestUpsert_MismatchedHeaderFallsBackToCanonical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte("A,B,C\n1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Upsert(path, []Row{testRow("bob", "Bob")}); err != nil {
		t.Fatal(err)
	}

	records := readRows(t, path)
	if records[0][2] != "SKU" {
		t.Errorf("expected canonical header, got %v", records[0])
	}
	// The old narrow row is padded to the canonical width
	if len(records[1]) != len(Header) {
		t.Errorf("expected padded legacy row, got %d columns", len(records[1]))
	}
}

func TestUpsert_DuplicateExistingSKU_FirstOccurrenceWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	_ = w.Write(Header)
	_ = w.Write(testRow("dup", "First Copy"))
	_ = w.Write(testRow("other", "Other"))
	_ = w.Write(testRow("dup", "Second Copy"))
	w.Flush()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Upsert(path, []Row{testRow("dup", "Updated")}); err != nil {
		t.Fatal(err)
	}

	records := readRows(t, path)
	if records[1][3] != "Updated" {
		t.Errorf("first occurrence should be updated, got %q", records[1][3])
	}
	if records[3][3] != "Second Copy" {
		t.Errorf("later duplicate should be untouched, got %q", records[3][3])
	}
}
