package refdata

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
)

// AllCountries is the geography option that applies no filter.
const AllCountries = "All countries"

//go:embed data/areas.csv
var areasCSV []byte

// Areas maps geography option names to ISO 3166-1 alpha-3 country codes.
// A single-country option resolves to one code; a regional grouping to many.
type Areas struct {
	order []string
	byKey map[string][]string
}

// LoadAreas parses the embedded areas table. The CSV has one row per
// (area, iso3) pair; row order defines option display order.
func LoadAreas() (*Areas, error) {
	r := csv.NewReader(bytes.NewReader(areasCSV))
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read areas header: %w", err)
	}
	if len(header) != 2 || header[0] != "area" || header[1] != "iso3" {
		return nil, fmt.Errorf("unexpected areas header %v", header)
	}

	a := &Areas{byKey: make(map[string][]string)}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read areas row: %w", err)
		}
		name, iso := rec[0], rec[1]
		if _, seen := a.byKey[name]; !seen {
			a.order = append(a.order, name)
		}
		a.byKey[name] = append(a.byKey[name], iso)
	}
	return a, nil
}

// MustLoadAreas is LoadAreas that panics on error. The table is embedded, so
// a failure is a build defect.
func MustLoadAreas() *Areas {
	a, err := LoadAreas()
	if err != nil {
		panic(err)
	}
	return a
}

// Options returns the geography options in display order, AllCountries first.
func (a *Areas) Options() []string {
	out := make([]string, 0, len(a.order)+1)
	out = append(out, AllCountries)
	out = append(out, a.order...)
	return out
}

// Resolve returns the ISO codes for a geography option. AllCountries and the
// empty string resolve to nil, meaning no geographic restriction. Unknown
// options are an error.
func (a *Areas) Resolve(name string) ([]string, error) {
	if name == "" || name == AllCountries {
		return nil, nil
	}
	codes, ok := a.byKey[name]
	if !ok {
		return nil, fmt.Errorf("unknown geography %q", name)
	}
	return codes, nil
}
