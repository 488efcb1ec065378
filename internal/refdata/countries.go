package refdata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom/encoding/geojson"
)

//go:embed data/countries.geojson
var countriesGeoJSON []byte

// Country is one boundary feature of the world map layer. Center is the
// midpoint of the feature's bounding box, used to place map annotations.
type Country struct {
	ISO    string
	Name   string
	Center [2]float64
}

// Countries is the set of mappable countries, keyed by ISO code.
type Countries struct {
	order []Country
	byISO map[string]Country
}

// LoadCountries parses the embedded world boundaries layer.
func LoadCountries() (*Countries, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(countriesGeoJSON, &fc); err != nil {
		return nil, fmt.Errorf("parse countries layer: %w", err)
	}

	c := &Countries{byISO: make(map[string]Country)}
	for _, f := range fc.Features {
		iso, _ := f.Properties["iso3cd"].(string)
		name, _ := f.Properties["nam_en"].(string)
		if iso == "" || f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bounds()
		country := Country{
			ISO:  iso,
			Name: name,
			Center: [2]float64{
				(b.Min(0) + b.Max(0)) / 2,
				(b.Min(1) + b.Max(1)) / 2,
			},
		}
		if _, seen := c.byISO[iso]; seen {
			continue
		}
		c.order = append(c.order, country)
		c.byISO[iso] = country
	}
	return c, nil
}

// MustLoadCountries is LoadCountries that panics on error.
func MustLoadCountries() *Countries {
	c, err := LoadCountries()
	if err != nil {
		panic(err)
	}
	return c
}

// All returns the countries in layer order.
func (c *Countries) All() []Country {
	return append([]Country(nil), c.order...)
}

// Lookup returns the country for an ISO code.
func (c *Countries) Lookup(iso string) (Country, bool) {
	country, ok := c.byISO[iso]
	return country, ok
}

// ISOCodes returns the ISO codes of all mappable countries in layer order.
func (c *Countries) ISOCodes() []string {
	out := make([]string, 0, len(c.order))
	for _, country := range c.order {
		out = append(out, country.ISO)
	}
	return out
}
