package panel

import (
	"sort"

	"github.com/ndc-analytics/ndcsearch/internal/domain/catalog"
	dompanel "github.com/ndc-analytics/ndcsearch/internal/domain/panel"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/result"
	"github.com/ndc-analytics/ndcsearch/internal/refdata"
)

type cell struct {
	iso  string
	year int
}

// Complete expands sparse search results into a dense country-by-year grid.
// Every mappable country appears for every year present in the results:
// countries with no submission that year get CountNoDocument, submissions
// with no hits get CountNoMatch, and hits carry their match count. A country
// submitting both an original and a translation in one year stays one cell,
// keeping the larger count. Empty results yield an empty panel.
func Complete(
	results []result.Aggregated,
	docs []catalog.Document,
	countries []refdata.Country,
) []dompanel.Row {
	years := resultYears(results)
	if len(years) == 0 {
		return nil
	}

	docByCell := make(map[cell]catalog.Document)
	for _, d := range docs {
		key := cell{iso: d.ISO, year: d.Date.Year()}
		if _, seen := docByCell[key]; !seen {
			docByCell[key] = d
		}
	}

	countByCell := make(map[cell]int)
	for _, r := range results {
		key := cell{iso: r.ISO, year: r.Date.Year()}
		if r.Count > countByCell[key] {
			countByCell[key] = r.Count
		}
	}

	rows := make([]dompanel.Row, 0, len(countries)*len(years))
	for _, country := range countries {
		for _, year := range years {
			key := cell{iso: country.ISO, year: year}
			row := dompanel.Row{
				ISO:   country.ISO,
				Party: country.Name,
				Year:  year,
				Count: dompanel.CountNoDocument,
			}
			if doc, ok := docByCell[key]; ok {
				row.Party = doc.Party
				row.Title = doc.Title
				row.Version = doc.Version
				row.Date = doc.Date
				row.HasDocument = true
				row.Count = countByCell[key]
			}
			rows = append(rows, row)
		}
	}

	return rows
}

// resultYears returns the distinct hit years, ascending.
func resultYears(results []result.Aggregated) []int {
	seen := make(map[int]struct{})
	for _, r := range results {
		seen[r.Date.Year()] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
