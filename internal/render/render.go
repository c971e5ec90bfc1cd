// Package render prints rankings and season tables as aligned text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

var printer = message.NewPrinter(language.German)

// Decimal formats v with one decimal in German notation ("52,4").
func Decimal(v float64) string {
	return printer.Sprintf("%.1f", v)
}

type column struct {
	title string
	right bool
}

// writeTable pads cells by display width so umlauts and wide runes line up.
func writeTable(w io.Writer, cols []column, rows [][]string) error {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, r := range rows {
		for i, cell := range r {
			if n := runewidth.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cols))
		for i, c := range cols {
			if c.right {
				parts[i] = runewidth.FillLeft(cells[i], widths[i])
			} else {
				parts[i] = runewidth.FillRight(cells[i], widths[i])
			}
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	titles := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
		rules[i] = strings.Repeat("-", widths[i])
	}
	var b strings.Builder
	b.WriteString(line(titles) + "\n")
	b.WriteString(strings.Join(rules, "  ") + "\n")
	for _, r := range rows {
		b.WriteString(line(r) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Ranking prints the five-year table. With breakdown, each row also lists
// its per-season contributions in window order.
func Ranking(w io.Writer, rows []model.RankingRow, breakdown bool) error {
	cols := []column{
		{title: "Platz", right: true},
		{title: "Verein"},
		{title: "Punkte", right: true},
		{title: "Gewichtet", right: true},
	}
	if breakdown {
		cols = append(cols, column{title: "Aufschlüsselung"})
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells := []string{
			fmt.Sprint(r.Rank),
			r.Team,
			fmt.Sprint(r.TotalPoints),
			Decimal(r.WeightedScore),
		}
		if breakdown {
			cells = append(cells, Breakdown(r.Breakdown))
		}
		out = append(out, cells)
	}
	return writeTable(w, cols, out)
}

// Breakdown renders contributions as "2023/24: 30 × 1,0 = 30,0; ...".
func Breakdown(cs []model.SeasonContribution) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, fmt.Sprintf("%s: %d × %s = %s",
			fetch.SeasonLabel(c.Season), c.Points, Decimal(c.Weight), Decimal(c.Weighted)))
	}
	return strings.Join(parts, "; ")
}

// Season prints a per-season record table (S = Siege, U = Unentschieden).
func Season(w io.Writer, records []model.SeasonRecord) error {
	cols := []column{
		{title: "Saison"},
		{title: "Verein"},
		{title: "S", right: true},
		{title: "U", right: true},
		{title: "Punkte", right: true},
	}
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, []string{
			fetch.SeasonLabel(r.Season),
			r.Team,
			fmt.Sprint(r.Wins),
			fmt.Sprint(r.Draws),
			fmt.Sprint(r.Points),
		})
	}
	return writeTable(w, cols, out)
}

// Warnings prints one "Hinweis:" line per warning.
func Warnings(w io.Writer, warnings []string) error {
	for _, msg := range warnings {
		if _, err := fmt.Fprintf(w, "Hinweis: %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}
