// Package fixture serves a canned Epic Beer Search catalog over HTTP.
//
// The server speaks the same two endpoints as the real API, which makes it
// usable both from `ebs fixtures serve` during local development and from
// httptest in package tests.
package fixture

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/five82/ebs/internal/catalog"
)

// Fixtures is the catalog content a Server answers with.
type Fixtures struct {
	PreviousSearches []catalog.PreviousSearch `yaml:"previous_searches"`
	Beers            []catalog.Beer           `yaml:"beers"`
	// FailQueries makes the search endpoint answer 500 for these queries
	// (compared case-insensitively).
	FailQueries []string `yaml:"fail_queries"`
}

// Default returns the Mock/Mack catalog.
func Default() Fixtures {
	return Fixtures{
		PreviousSearches: []catalog.PreviousSearch{
			{Query: "Mock", TotalResults: 1, Kind: catalog.KindBeer},
			{Query: "Mack", TotalResults: 1, Kind: catalog.KindBrewery},
		},
		Beers: []catalog.Beer{
			{
				Name:     "Beer",
				Brewery:  "Mock",
				ImageURL: "https://example.com/mock.png",
				ABV:      "6.5",
				Style:    "Porter",
				Rating:   "4.1",
			},
		},
	}
}

// Load reads fixtures from a YAML file.
func Load(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures: %w", err)
	}
	return f, nil
}

// Match returns the beers whose name (beer scope) or brewery (brewery scope)
// contains query, ignoring case. An empty query matches nothing.
func (f Fixtures) Match(query string, kind catalog.SearchKind) []catalog.Beer {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	var beers []catalog.Beer
	for _, b := range f.Beers {
		field := b.Name
		if kind == catalog.KindBrewery {
			field = b.Brewery
		}
		if strings.Contains(strings.ToLower(field), needle) {
			beers = append(beers, b)
		}
	}
	return beers
}

func (f Fixtures) fails(query string) bool {
	for _, q := range f.FailQueries {
		if strings.EqualFold(strings.TrimSpace(q), strings.TrimSpace(query)) {
			return true
		}
	}
	return false
}
