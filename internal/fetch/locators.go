package fetch

import (
	"fmt"
	"strings"

	"github.com/yosida95/uritemplate/v3"
)

// DefaultTitle is the German Wikipedia title prefix of a Bundesliga season page.
const DefaultTitle = "Fußball-Bundesliga"

// Default season page templates, tried in order. The primary keeps the "/"
// of the season label, the alternate percent-encodes it.
var DefaultTemplates = []string{
	"https://de.wikipedia.org/wiki/{+title}_{+label}",
	"https://de.wikipedia.org/wiki/{title}_{label}",
}

// Locator is one candidate URL for a season's document.
type Locator struct {
	Season int    `json:"season"`
	Index  int    `json:"index"`
	URL    string `json:"url"`
}

// CachePath is the raw store path for the locator's document.
func (l Locator) CachePath() string {
	return fmt.Sprintf("seasons/%d/%d.html", l.Season, l.Index)
}

// SeasonLabel renders a season start year as "2023/24".
func SeasonLabel(season int) string {
	return fmt.Sprintf("%d/%02d", season, (season+1)%100)
}

// SeasonLocators expands every template for season. Template variables:
// title, season ("2023"), next ("24") and label ("2023/24"). Non-ASCII
// characters are percent-encoded as UTF-8; templates must not carry a
// literal "%25".
func SeasonLocators(templates []string, title string, season int) ([]Locator, error) {
	if title == "" {
		title = DefaultTitle
	}
	values := uritemplate.Values{}
	values.Set("title", uritemplate.String(escapeNonASCII(title)))
	values.Set("season", uritemplate.String(fmt.Sprintf("%d", season)))
	values.Set("next", uritemplate.String(fmt.Sprintf("%02d", (season+1)%100)))
	values.Set("label", uritemplate.String(escapeNonASCII(SeasonLabel(season))))

	out := make([]Locator, 0, len(templates))
	seen := make(map[string]bool, len(templates))
	for _, raw := range templates {
		tmpl, err := uritemplate.New(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing template %q: %w", raw, err)
		}
		u, err := tmpl.Expand(values)
		if err != nil {
			return nil, fmt.Errorf("expanding template %q: %w", raw, err)
		}
		// uritemplate escapes the '%' of our triplets; undo that one step
		u = strings.ReplaceAll(u, "%25", "%")
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, Locator{Season: season, Index: len(out), URL: u})
	}
	return out, nil
}

// escapeNonASCII percent-encodes '%' and every non-ASCII byte, leaving the
// ASCII characters to the template operator. uritemplate encodes a rune by
// its code point ("ß" as %DF), which Wikipedia does not resolve.
func escapeNonASCII(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 && c != '%' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}
