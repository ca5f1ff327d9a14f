package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
)

func testBatch(t *testing.T) (*lookup.BatchResult, []string) {
	t.Helper()
	table := &lookup.Table{
		Columns: []string{"Ingredient", "CAS", "Specs"},
		Rows:    [][]string{{"Vitamina C", "50-81-7", "500mg"}},
	}
	idx, err := lookup.BuildIndex(table, lookup.Options{})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	batch := idx.SearchBatch(nil, []string{"vitamina", "desconhecido"})
	return batch, idx.Columns
}

func TestWrite(t *testing.T) {
	batch, columns := testBatch(t)

	var buf bytes.Buffer
	if err := Write(&buf, batch, columns); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != FoundSheet || sheets[1] != NotFoundSheet {
		t.Fatalf("sheets = %v, want [%s %s]", sheets, FoundSheet, NotFoundSheet)
	}

	found, err := f.GetRows(FoundSheet)
	if err != nil {
		t.Fatalf("read found sheet: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found rows = %d, want header + 1", len(found))
	}
	if found[0][0] != "Query" || found[0][1] != "Ingredient" {
		t.Errorf("found header = %v", found[0])
	}
	if found[1][0] != "vitamina" || found[1][1] != "Vitamina C" || found[1][3] != "500mg" {
		t.Errorf("found row = %v", found[1])
	}

	notFound, err := f.GetRows(NotFoundSheet)
	if err != nil {
		t.Fatalf("read not-found sheet: %v", err)
	}
	if len(notFound) != 2 {
		t.Fatalf("not-found rows = %d, want header + 1", len(notFound))
	}
	if notFound[1][0] != "desconhecido" {
		t.Errorf("not-found row = %v", notFound[1])
	}
	if notFound[1][1] == "" {
		t.Error("remediation hint missing")
	}
}

func TestWrite_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &lookup.BatchResult{}, []string{"Ingredient"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	if got := len(f.GetSheetList()); got != 2 {
		t.Errorf("sheets = %d, want 2 even when empty", got)
	}
}
