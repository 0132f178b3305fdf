// Package render prints the final deal list: a fixed-width table for
// humans, a JSON envelope for the downstream agent, and an optional
// HTML chart.
package render

import (
	"fmt"
	"io"

	"flyerhunt/pkg/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Column width budgets. Overlong fields are truncated with a trailing
// ellipsis that counts toward the budget; the URL column is unbounded.
const (
	widthDescription = 55
	widthStore       = 14
	widthSize        = 10
	widthPrice       = 10
	widthUnitPrice   = 11
	widthValidity    = 21
)

const placeholder = "-"

// Table renders the deals to w. An empty list prints a single line
// instead of headers.
func Table(w io.Writer, deals []models.Deal) {
	if len(deals) == 0 {
		fmt.Fprintln(w, "No matching deals found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Description", "Store", "Size", "Price", "EUR/L", "Validity", "URL"})

	for _, d := range deals {
		url := ""
		if d.URL != nil {
			url = *d.URL
		}
		t.AppendRow(table.Row{
			Truncate(description(d), widthDescription),
			Truncate(d.Store, widthStore),
			Truncate(d.Size, widthSize),
			Truncate(money(d.Price, "EUR"), widthPrice),
			Truncate(money(d.PricePerLitre, "EUR/L"), widthUnitPrice),
			Truncate(validity(d), widthValidity),
			url,
		})
	}

	t.Render()
}

func description(d models.Deal) string {
	if d.Description == "" {
		return d.Name
	}
	return d.Name + " (" + d.Description + ")"
}

func money(v *float64, suffix string) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf("%.2f %s", *v, suffix)
}

func validity(d models.Deal) string {
	return d.ValidFrom + "/" + d.ValidTo
}

// Truncate cuts s to max runes, spending the last three on "..." when
// it does not fit.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
