package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/five82/ebs/internal/catalog"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case outputText, outputJSON, outputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (text, json, yaml)", format)
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeBeers(w io.Writer, format string, beers []catalog.Beer) error {
	if format != outputText {
		if beers == nil {
			beers = []catalog.Beer{}
		}
		return writeStructured(w, format, beers)
	}
	if len(beers) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, b := range beers {
		if _, err := fmt.Fprintln(w, formatBeer(b)); err != nil {
			return err
		}
	}
	return nil
}

func formatBeer(b catalog.Beer) string {
	parts := []string{b.Name}
	if brewery := strings.TrimSpace(b.Brewery); brewery != "" {
		parts[0] += " (" + brewery + ")"
	}
	if style := strings.TrimSpace(b.Style); style != "" {
		parts = append(parts, style)
	}
	if abv := b.ABVLabel(); abv != "" {
		parts = append(parts, abv)
	}
	if rating := strings.TrimSpace(b.Rating); rating != "" {
		parts = append(parts, "★ "+rating)
	}
	return strings.Join(parts, " | ")
}

func writePreviousSearches(w io.Writer, format string, searches []catalog.PreviousSearch, empty string) error {
	if format != outputText {
		if searches == nil {
			searches = []catalog.PreviousSearch{}
		}
		return writeStructured(w, format, searches)
	}
	if len(searches) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}
	for _, s := range searches {
		if _, err := fmt.Fprintf(w, "%-8s %s (%d)\n", s.Kind.String(), s.Query, s.TotalResults); err != nil {
			return err
		}
	}
	return nil
}
