package extract

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Table is a parsed HTML table with spans expanded so that every row's
// cell i sits under header i.
type Table struct {
	Index   int
	Caption string
	Heading string
	Headers []string
	Rows    [][]string
}

// maxSpan guards against absurd colspan/rowspan values.
const maxSpan = 64

// ParseTables returns every <table> of an HTML document in document order.
func ParseTables(body []byte) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	// footnote references and inline styles only pollute cell text
	doc.Find("sup.reference, style, script").Remove()

	var tables []Table
	doc.Find("table").Each(func(i int, sel *goquery.Selection) {
		t := Table{
			Index:   i,
			Caption: cleanText(sel.ChildrenFiltered("caption").First().Text()),
			Heading: precedingHeading(sel),
		}
		t.Headers, t.Rows = tableGrid(sel)
		tables = append(tables, t)
	})
	return tables, nil
}

// tableGrid splits a table into its header row (the first row made only of
// <th> cells) and the data rows after it (rows with at least one <td>).
func tableGrid(table *goquery.Selection) ([]string, [][]string) {
	var (
		headers []string
		rows    [][]string
		carry   = map[int]*pending{}
	)
	ownRows(table).Each(func(_ int, tr *goquery.Selection) {
		cells, hasTD := rowCells(tr, carry)
		if len(cells) == 0 {
			return
		}
		if headers == nil {
			if !hasTD {
				headers = cells
			}
			return
		}
		// further all-<th> rows are sub-headers
		if hasTD {
			rows = append(rows, cells)
		}
	})
	return headers, rows
}

// ownRows selects the table's rows, skipping rows of nested tables.
func ownRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})
}

// pending is a rowspan cell still occupying rows below its origin.
type pending struct {
	text      string
	remaining int
}

func rowCells(tr *goquery.Selection, carry map[int]*pending) ([]string, bool) {
	var (
		out   []string
		hasTD bool
	)
	fill := func() {
		for {
			p, ok := carry[len(out)]
			if !ok {
				return
			}
			out = append(out, p.text)
			p.remaining--
			if p.remaining <= 0 {
				delete(carry, len(out)-1)
			}
		}
	}

	tr.Children().Each(func(_ int, cell *goquery.Selection) {
		n := cell.Get(0)
		if n.Type != html.ElementNode || (n.DataAtom != atom.Th && n.DataAtom != atom.Td) {
			return
		}
		if n.DataAtom == atom.Td {
			hasTD = true
		}
		fill()
		text := cleanText(cell.Text())
		colspan := spanAttr(cell, "colspan")
		rowspan := spanAttr(cell, "rowspan")
		for c := 0; c < colspan; c++ {
			if rowspan > 1 {
				carry[len(out)] = &pending{text: text, remaining: rowspan - 1}
			}
			out = append(out, text)
		}
	})
	fill()
	return out, hasTD
}

func spanAttr(cell *goquery.Selection, name string) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxSpan {
		return maxSpan
	}
	return n
}

// precedingHeading finds the nearest heading before the table, looking at
// the table's own siblings first and then its ancestors' siblings.
func precedingHeading(table *goquery.Selection) string {
	n := table.Get(0)
	for depth := 0; depth < 4 && n != nil; depth++ {
		for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if isHeading(sib) {
				return cleanText(goquery.NewDocumentFromNode(sib).Text())
			}
		}
		n = n.Parent
	}
	return ""
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(" "+a.Val+" ", " mw-heading ") {
			return true
		}
	}
	return false
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
