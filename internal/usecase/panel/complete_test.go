package panel

import (
	"testing"
	"time"

	"github.com/ndc-analytics/ndcsearch/internal/domain/catalog"
	dompanel "github.com/ndc-analytics/ndcsearch/internal/domain/panel"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/result"
	"github.com/ndc-analytics/ndcsearch/internal/refdata"
)

func doc(iso, party string, year, version int) catalog.Document {
	return catalog.Document{
		ISO:     iso,
		Party:   party,
		Version: version,
		Date:    time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		Title:   party + " NDC",
	}
}

func hit(iso string, year, count int) result.Aggregated {
	return result.Aggregated{
		ISO:   iso,
		Date:  time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		Count: count,
	}
}

var testCountries = []refdata.Country{
	{ISO: "KEN", Name: "Kenya"},
	{ISO: "FJI", Name: "Fiji"},
	{ISO: "ZMB", Name: "Zambia"},
}

func findRow(t *testing.T, rows []dompanel.Row, iso string, year int) dompanel.Row {
	t.Helper()
	for _, r := range rows {
		if r.ISO == iso && r.Year == year {
			return r
		}
	}
	t.Fatalf("no row for %s/%d", iso, year)
	return dompanel.Row{}
}

func TestCompleteGridShape(t *testing.T) {
	docs := []catalog.Document{doc("KEN", "Kenya", 2020, 1), doc("FJI", "Fiji", 2016, 1)}
	results := []result.Aggregated{hit("KEN", 2020, 2), hit("FJI", 2016, 1)}
	rows := Complete(results, docs, testCountries)

	// 3 countries x 2 years
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
}

func TestCompleteEmptyResults(t *testing.T) {
	docs := []catalog.Document{doc("KEN", "Kenya", 2020, 1)}
	if rows := Complete(nil, docs, testCountries); rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
}

func TestCompleteYearsComeFromResults(t *testing.T) {
	// the catalog spans 2016 and 2020, but only 2020 produced hits
	docs := []catalog.Document{
		doc("KEN", "Kenya", 2016, 1),
		doc("KEN", "Kenya", 2020, 2),
	}
	results := []result.Aggregated{hit("KEN", 2020, 3)}

	rows := Complete(results, docs, testCountries[:1])
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (years from results)", len(rows))
	}
	if rows[0].Year != 2020 {
		t.Errorf("year = %d, want 2020", rows[0].Year)
	}
}

func TestCompleteCellStates(t *testing.T) {
	docs := []catalog.Document{
		doc("KEN", "Kenya", 2020, 1),
		doc("FJI", "Fiji", 2020, 1),
	}
	results := []result.Aggregated{hit("KEN", 2020, 4)}

	rows := Complete(results, docs, testCountries)

	ken := findRow(t, rows, "KEN", 2020)
	if ken.Count != 4 || !ken.HasDocument {
		t.Errorf("KEN = %+v, want count 4 with document", ken)
	}

	// Fiji submitted but had no hits
	fji := findRow(t, rows, "FJI", 2020)
	if fji.Count != dompanel.CountNoMatch || !fji.HasDocument {
		t.Errorf("FJI = %+v, want count 0 with document", fji)
	}

	// Zambia never submitted in 2020
	zmb := findRow(t, rows, "ZMB", 2020)
	if zmb.Count != dompanel.CountNoDocument || zmb.HasDocument {
		t.Errorf("ZMB = %+v, want count -1 without document", zmb)
	}
	if zmb.Party != "Zambia" {
		t.Errorf("ZMB party = %q, want map name fallback", zmb.Party)
	}
}

func TestCompleteKeepsLargerCountAcrossTranslations(t *testing.T) {
	docs := []catalog.Document{doc("KEN", "Kenya", 2020, 1)}
	results := []result.Aggregated{
		hit("KEN", 2020, 2), // translation
		hit("KEN", 2020, 5), // original
	}

	rows := Complete(results, docs, testCountries)
	ken := findRow(t, rows, "KEN", 2020)
	if ken.Count != 5 {
		t.Errorf("count = %d, want 5", ken.Count)
	}
}

func TestCompleteDocumentMetadataCarriedIntoRow(t *testing.T) {
	docs := []catalog.Document{doc("KEN", "Kenya", 2020, 2)}
	results := []result.Aggregated{hit("FJI", 2020, 1)}
	rows := Complete(results, docs, testCountries)

	ken := findRow(t, rows, "KEN", 2020)
	if ken.Title != "Kenya NDC" || ken.Version != 2 {
		t.Errorf("row = %+v", ken)
	}
	if ken.Date.Year() != 2020 {
		t.Errorf("date = %v", ken.Date)
	}
	if ken.Count != dompanel.CountNoMatch {
		t.Errorf("count = %d, want 0 (document without hits)", ken.Count)
	}
}

func TestCompleteYearsAscending(t *testing.T) {
	docs := []catalog.Document{
		doc("KEN", "Kenya", 2021, 2),
		doc("KEN", "Kenya", 2016, 1),
	}
	results := []result.Aggregated{hit("KEN", 2021, 1), hit("KEN", 2016, 2)}
	rows := Complete(results, docs, testCountries[:1])

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Year != 2016 || rows[1].Year != 2021 {
		t.Errorf("years = %d, %d, want ascending", rows[0].Year, rows[1].Year)
	}
}

func TestCompleteHitOutsideCatalogYearStaysNoDocument(t *testing.T) {
	docs := []catalog.Document{doc("KEN", "Kenya", 2020, 1)}
	// a hit for a country with no catalog document that year
	results := []result.Aggregated{hit("ZMB", 2020, 3)}

	rows := Complete(results, docs, testCountries)
	zmb := findRow(t, rows, "ZMB", 2020)
	if zmb.Count != dompanel.CountNoDocument {
		t.Errorf("count = %d, want -1 (no catalog document)", zmb.Count)
	}
}
