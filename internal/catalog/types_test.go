package catalog

import (
	"encoding/json"
	"strconv"
	"testing"
)

func TestParseSearchKind(t *testing.T) {
	cases := []struct {
		in      string
		want    SearchKind
		wantErr bool
	}{
		{"beer", KindBeer, false},
		{" Brewery ", KindBrewery, false},
		{"BEER", KindBeer, false},
		{"cider", KindBeer, true},
		{"", KindBeer, true},
	}
	for _, tc := range cases {
		got, err := ParseSearchKind(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseSearchKind(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseSearchKind(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSearchKindToggleAndLabels(t *testing.T) {
	if KindBeer.Toggle() != KindBrewery || KindBrewery.Toggle() != KindBeer {
		t.Fatalf("Toggle should flip between beer and brewery")
	}
	if KindBeer.Label() != "Beer" || KindBrewery.Label() != "Brewery" {
		t.Fatalf("labels = %q/%q", KindBeer.Label(), KindBrewery.Label())
	}
	if KindBrewery.String() != "brewery" {
		t.Fatalf("String = %q, want brewery", KindBrewery.String())
	}
}

func TestDecodeSearchListResponse(t *testing.T) {
	payload := `{"beer_list":[
		{"search":"Mock","search_total":1,"search_type":"beer"},
		{"search":"Mack","search_total":3,"search_type":"brewery"}
	]}`
	var resp SearchListResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []PreviousSearch{
		{Query: "Mock", TotalResults: 1, Kind: KindBeer},
		{Query: "Mack", TotalResults: 3, Kind: KindBrewery},
	}
	if len(resp.PreviousSearches) != len(want) {
		t.Fatalf("got %d searches, want %d", len(resp.PreviousSearches), len(want))
	}
	for i := range want {
		if resp.PreviousSearches[i] != want[i] {
			t.Fatalf("search[%d] = %#v, want %#v", i, resp.PreviousSearches[i], want[i])
		}
	}
}

func TestDecodeSearchListResponse_UnknownKindFails(t *testing.T) {
	payload := `{"beer_list":[{"search":"Mock","search_total":1,"search_type":"cider"}]}`
	var resp SearchListResponse
	if err := json.Unmarshal([]byte(payload), &resp); err == nil {
		t.Fatalf("Unmarshal returned nil error, want unknown kind error")
	}
}

func TestDecodeSearchResponse(t *testing.T) {
	payload := `{"beer_list":[{"name":"Beer","brewery_name":"Mock","image_url":"http://www.fake.url","abv":"5","style":"Porter","rating":"5"}]}`
	var resp SearchResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Beer{Name: "Beer", Brewery: "Mock", ImageURL: "http://www.fake.url", ABV: "5", Style: "Porter", Rating: "5"}
	if len(resp.Beers) != 1 || resp.Beers[0] != want {
		t.Fatalf("beers = %#v, want [%#v]", resp.Beers, want)
	}
	if got := resp.Beers[0].ABVLabel(); got != "5% ABV" {
		t.Fatalf("ABVLabel = %q, want 5%% ABV", got)
	}
}

func TestDecodeSearchResponse_ImageURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"absolute", "https://example.com/mock.png", false},
		{"empty", "", false},
		{"bad escape", "http://example.com/%zz", true},
		{"unclosed ipv6 host", "http://[::1/beer.png", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{"beer_list":[{"name":"Beer","image_url":` + strconv.Quote(tt.url) + `}]}`
			var resp SearchResponse
			err := json.Unmarshal([]byte(payload), &resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err == nil && resp.Beers[0].ImageURL != tt.url {
				t.Fatalf("ImageURL = %q, want %q", resp.Beers[0].ImageURL, tt.url)
			}
		})
	}
}

func TestBeerABVLabelEmpty(t *testing.T) {
	if got := (Beer{ABV: "  "}).ABVLabel(); got != "" {
		t.Fatalf("ABVLabel = %q, want empty", got)
	}
}
