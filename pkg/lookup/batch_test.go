package lookup

import "testing"

func TestSplitQueries(t *testing.T) {
	input := "  Cafeina \n\n\tVitamina C\n   \nMelatonina\n"
	got := SplitQueries(input)
	want := []string{"Cafeina", "Vitamina C", "Melatonina"}
	if len(got) != len(want) {
		t.Fatalf("SplitQueries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SplitQueries = %v, want %v", got, want)
		}
	}
}

func TestSplitQueries_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \n\t\n"} {
		if got := SplitQueries(input); got != nil {
			t.Errorf("SplitQueries(%q) = %v, want nil", input, got)
		}
	}
}

func TestSearchBatch(t *testing.T) {
	table := &Table{
		Columns: []string{"Ingredient", "CAS", "Specs"},
		Rows:    [][]string{{"Vitamina C", "50-81-7", "500mg"}},
	}
	idx, err := BuildIndex(table, Options{})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	aliases := BuildAliasIndex(&Table{
		Columns: []string{"Alias", "Official"},
		Rows:    [][]string{{"Acido Ascorbico", "Vitamina C"}},
	}, AliasOptions{})

	batch := idx.SearchBatch(aliases, []string{"Cafeina", "Acido Ascorbico", "50-81-7"})

	if batch.Queries() != 3 {
		t.Errorf("Queries() = %d, want 3", batch.Queries())
	}
	if len(batch.NotFound) != 1 || batch.NotFound[0] != "Cafeina" {
		t.Fatalf("NotFound = %v, want [Cafeina]", batch.NotFound)
	}
	if len(batch.Found) != 2 {
		t.Fatalf("Found = %d queries, want 2", len(batch.Found))
	}

	for i, wantQuery := range []string{"Acido Ascorbico", "50-81-7"} {
		qr := batch.Found[i]
		if qr.Query != wantQuery {
			t.Errorf("Found[%d].Query = %q, want %q", i, qr.Query, wantQuery)
		}
		if len(qr.Records) != 1 {
			t.Fatalf("Found[%d]: %d records, want 1", i, len(qr.Records))
		}
		rec := qr.Records[0]
		if rec.Fields["Ingredient"] != "Vitamina C" || rec.Fields["CAS"] != "50-81-7" || rec.Fields["Specs"] != "500mg" {
			t.Errorf("Found[%d] fields = %v", i, rec.Fields)
		}
	}
	if batch.Matches() != 2 {
		t.Errorf("Matches() = %d, want 2", batch.Matches())
	}
}

func TestSearchBatch_SkipsBlankQueries(t *testing.T) {
	idx, err := BuildIndex(referenceTable(), Options{})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	batch := idx.SearchBatch(nil, []string{"", "   ", "cafeina", "\t"})
	if batch.Queries() != 1 {
		t.Errorf("Queries() = %d, want 1 (blank queries excluded)", batch.Queries())
	}
	if len(batch.Found) != 1 || batch.Found[0].Query != "cafeina" {
		t.Errorf("Found = %v", batch.Found)
	}
}
