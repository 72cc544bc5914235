package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// SearchKind selects whether a query targets beers or breweries.
type SearchKind int

const (
	KindBeer SearchKind = iota
	KindBrewery
)

// String returns the wire value used by the catalog API.
func (k SearchKind) String() string {
	switch k {
	case KindBrewery:
		return "brewery"
	default:
		return "beer"
	}
}

// Label is the human-facing scope name.
func (k SearchKind) Label() string {
	if k == KindBrewery {
		return "Brewery"
	}
	return "Beer"
}

// Toggle flips between the two scopes.
func (k SearchKind) Toggle() SearchKind {
	if k == KindBrewery {
		return KindBeer
	}
	return KindBrewery
}

// ParseSearchKind accepts the wire values case-insensitively.
func ParseSearchKind(value string) (SearchKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "beer":
		return KindBeer, nil
	case "brewery":
		return KindBrewery, nil
	default:
		return KindBeer, fmt.Errorf("unknown search kind %q", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SearchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SearchKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSearchKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Beer mirrors a single entry of the search endpoint's beer_list.
type Beer struct {
	Name     string `json:"name" yaml:"name"`
	Brewery  string `json:"brewery_name" yaml:"brewery"`
	ImageURL string `json:"image_url" yaml:"image_url"`
	ABV      string `json:"abv" yaml:"abv"`
	Style    string `json:"style" yaml:"style"`
	Rating   string `json:"rating" yaml:"rating"`
}

// UnmarshalJSON rejects an image_url that does not parse as a URL, so a
// malformed entry fails the whole response.
func (b *Beer) UnmarshalJSON(data []byte) error {
	type plain Beer
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if raw := strings.TrimSpace(decoded.ImageURL); raw != "" {
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("beer %q: image_url: %w", decoded.Name, err)
		}
	}
	*b = Beer(decoded)
	return nil
}

// ABVLabel renders the strength the way the result rows show it.
func (b Beer) ABVLabel() string {
	abv := strings.TrimSpace(b.ABV)
	if abv == "" {
		return ""
	}
	return abv + "% ABV"
}

// PreviousSearch is one entry of the recent-searches endpoint.
type PreviousSearch struct {
	Query        string     `json:"search" yaml:"query"`
	TotalResults int        `json:"search_total" yaml:"total"`
	Kind         SearchKind `json:"search_type" yaml:"kind"`
}

// SearchListResponse mirrors ebs_get_search.py.
type SearchListResponse struct {
	PreviousSearches []PreviousSearch `json:"beer_list"`
}

// SearchResponse mirrors ebs_untappd.py.
type SearchResponse struct {
	Beers []Beer `json:"beer_list"`
}
