package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
)

// writeReferenceDir writes a minimal reference manifest + CSV and returns the dir.
func writeReferenceDir(t *testing.T, csvContent string) string {
	t.Helper()
	dir := t.TempDir()

	manifest := `data_file: data.csv
format:
  delimiter: ";"
  encoding: utf-8
  has_header: true
name_column: "Ingredient"
registry_column: "CAS"
`
	os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(manifest), 0o644)
	os.WriteFile(filepath.Join(dir, "data.csv"), []byte(csvContent), 0o644)
	return dir
}

func writeAliasDir(t *testing.T, csvContent string) string {
	t.Helper()
	dir := t.TempDir()

	manifest := `data_file: data.csv
format:
  delimiter: ";"
  has_header: true
alias_column: "Alias"
official_column: "Official"
`
	os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(manifest), 0o644)
	os.WriteFile(filepath.Join(dir, "data.csv"), []byte(csvContent), 0o644)
	return dir
}

func TestLoadReference(t *testing.T) {
	dir := writeReferenceDir(t,
		"Ingredient;CAS;Specs\nVitamina C;50-81-7;500mg\nCafeína;58-08-2;200mg\n")

	idx, err := LoadReference(dir)
	if err != nil {
		t.Fatalf("LoadReference: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("records = %d, want 2", idx.Len())
	}
	if idx.Records[1].NameKey() != "cafeina" {
		t.Errorf("NameKey = %q, want cafeina", idx.Records[1].NameKey())
	}
	if !idx.HasRegistry() {
		t.Error("HasRegistry = false, want true")
	}
}

func TestLoadReference_Missing(t *testing.T) {
	_, err := LoadReference(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrSourceMissing) {
		t.Errorf("err = %v, want ErrSourceMissing", err)
	}
}

func TestLoadReference_MissingDataFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "manifest.yaml"),
		[]byte("data_file: data.csv\nformat:\n  has_header: true\n"), 0o644)

	_, err := LoadReference(dir)
	if !errors.Is(err, ErrSourceMissing) {
		t.Errorf("err = %v, want ErrSourceMissing", err)
	}
}

func TestLoadReference_SchemaError(t *testing.T) {
	dir := writeReferenceDir(t, "Nome;CAS\nVitamina C;50-81-7\n")

	_, err := LoadReference(dir)
	var schemaErr *lookup.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v, want *lookup.SchemaError", err)
	}
}

func TestLoadReference_XLSX(t *testing.T) {
	dir := t.TempDir()
	manifest := `data_file: data.xlsx
name_column: "Ingredient"
registry_column: "CAS"
`
	os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(manifest), 0o644)

	f := excelize.NewFile()
	f.SetSheetRow("Sheet1", "A1", &[]any{"Ingredient", "CAS", "Specs"})
	f.SetSheetRow("Sheet1", "A2", &[]any{"Vitamina C", "50-81-7", "500mg"})
	f.SetSheetRow("Sheet1", "A3", &[]any{"Melatonina", "", ""})
	if err := f.SaveAs(filepath.Join(dir, "data.xlsx")); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	idx, err := LoadReference(dir)
	if err != nil {
		t.Fatalf("LoadReference: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("records = %d, want 2", idx.Len())
	}
	if idx.Records[0].RegistryKey() != "50-81-7" {
		t.Errorf("RegistryKey = %q, want 50-81-7", idx.Records[0].RegistryKey())
	}
	// Row 3 has trailing empty cells; fields must still be addressable.
	if got := idx.Records[1].Fields["Specs"]; got != "" {
		t.Errorf("Fields[Specs] = %q, want empty", got)
	}
}

func TestLoadAliases(t *testing.T) {
	dir := writeAliasDir(t, "Alias;Official\nAcido Ascorbico;Vitamina C\n")

	aliases, degraded := LoadAliases(dir)
	if degraded {
		t.Fatal("degraded = true, want false")
	}
	if len(aliases.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(aliases.Entries))
	}
	if aliases.Entries[0].OfficialKey() != "vitamina c" {
		t.Errorf("OfficialKey = %q", aliases.Entries[0].OfficialKey())
	}
}

func TestLoadAliases_Degraded(t *testing.T) {
	// Missing directory.
	aliases, degraded := LoadAliases(filepath.Join(t.TempDir(), "nope"))
	if !degraded || !aliases.Empty() {
		t.Errorf("missing dir: degraded=%v empty=%v, want true/true", degraded, aliases.Empty())
	}

	// Missing required column.
	dir := writeAliasDir(t, "Alias;Other\nx;y\n")
	aliases, degraded = LoadAliases(dir)
	if !degraded || !aliases.Empty() {
		t.Errorf("missing column: degraded=%v empty=%v, want true/true", degraded, aliases.Empty())
	}
}

func TestLoadTable_Latin1(t *testing.T) {
	dir := t.TempDir()
	manifest := &Manifest{
		DataFile: "data.csv",
		Format:   FormatSpec{Delimiter: ";", Encoding: "iso-8859-1", HasHeader: true},
	}
	// "Cafeína" in Latin-1: í is byte 0xED.
	os.WriteFile(filepath.Join(dir, "data.csv"),
		[]byte("Ingredient\nCafe\xedna\n"), 0o644)

	table, err := LoadTable(dir, manifest)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.Rows[0][0] != "Cafeína" {
		t.Errorf("cell = %q, want Cafeína", table.Rows[0][0])
	}
}
