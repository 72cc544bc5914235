package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/ebs/internal/catalog"
	"github.com/five82/ebs/internal/results"
)

var titleCaser = cases.Title(language.Und)

// kindGlyph marks previous-search rows with their scope.
func kindGlyph(kind catalog.SearchKind) string {
	if kind == catalog.KindBrewery {
		return "🏢"
	}
	return "🍺"
}

func iconGlyph(icon results.Icon) string {
	switch icon {
	case results.IconError:
		return "✖"
	case results.IconEmptySearch:
		return "⌕"
	default:
		return ""
	}
}

// rowLines renders one entry. Every variant of results.Entry is handled here.
func rowLines(entry results.Entry, styles Styles) []string {
	switch e := entry.(type) {
	case results.PreviousSearchEntry:
		return []string{
			styles.KindText(e.Kind.String()).Render(kindGlyph(e.Kind)) + " " + styles.Text.Render(titleCaser.String(e.Query)),
		}

	case results.BeerEntry:
		b := e.Beer
		first := styles.Title.Render(b.Name)
		if abv := b.ABVLabel(); abv != "" {
			first += "  " + styles.AccentText.Render(abv)
		}
		var details []string
		for _, part := range []string{b.Brewery, b.Style} {
			if part = strings.TrimSpace(part); part != "" {
				details = append(details, part)
			}
		}
		second := styles.MutedText.Render(strings.Join(details, " · "))
		if rating := strings.TrimSpace(b.Rating); rating != "" {
			second += "  " + styles.WarningText.Render("★ "+rating)
		}
		return []string{first, "  " + second}

	case results.MessageEntry:
		style := styles.MutedText
		if e.Icon == results.IconError {
			style = styles.DangerText
		}
		text := e.Text
		if glyph := iconGlyph(e.Icon); glyph != "" {
			text = glyph + " " + text
		}
		return []string{style.Render(text)}

	default:
		return nil
	}
}

// renderRows lays the snapshot out as lines and reports the first line of
// each row so the list can scroll to the cursor.
func renderRows(snap results.Snapshot, cursor, width int, styles Styles) (string, []int) {
	var (
		lines  []string
		starts = make([]int, len(snap))
	)
	for i, entry := range snap {
		starts[i] = len(lines)
		for _, line := range rowLines(entry, styles) {
			prefix := "  "
			if i == cursor {
				prefix = styles.AccentText.Render("▌ ")
			}
			line = prefix + line
			if width > 0 {
				line = lipgloss.NewStyle().MaxWidth(width).Render(line)
			}
			if i == cursor {
				line = styles.Selected.Render(line)
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), starts
}
