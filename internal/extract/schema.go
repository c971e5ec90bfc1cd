package extract

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Field is a canonical column of a standings table.
type Field string

const (
	FieldTeam  Field = "Team"
	FieldWins  Field = "Wins"
	FieldDraws Field = "Draws"
)

// MatchKind is how an alias is compared with a normalized header.
type MatchKind int

const (
	Exact MatchKind = iota
	Prefix
	Contains
)

func (k MatchKind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case Contains:
		return "contains"
	}
	return "unknown"
}

// Alias is one accepted header spelling. Text must already be normalized.
type Alias struct {
	Text string
	Kind MatchKind
}

func (a Alias) matches(header string) bool {
	switch a.Kind {
	case Exact:
		return header == a.Text
	case Prefix:
		return strings.HasPrefix(header, a.Text)
	case Contains:
		return strings.Contains(header, a.Text)
	}
	return false
}

// FieldRule lists a field's aliases in priority order.
type FieldRule struct {
	Field   Field
	Aliases []Alias
}

// Schema maps table headers to canonical fields.
type Schema struct {
	Rules []FieldRule
	// StandingsMarkers identify a standings table by caption or heading.
	StandingsMarkers []string
}

// DefaultSchema accepts German and English standings tables.
func DefaultSchema() Schema {
	return Schema{
		Rules: []FieldRule{
			{Field: FieldTeam, Aliases: []Alias{
				{"verein", Exact}, {"club", Exact}, {"team", Exact}, {"mannschaft", Exact},
				{"verein", Contains}, {"club", Contains}, {"team", Contains},
			}},
			{Field: FieldWins, Aliases: []Alias{
				{"s", Exact}, {"siege", Exact}, {"g", Exact}, {"w", Exact}, {"wins", Exact}, {"won", Exact},
				{"sieg", Prefix}, {"win", Prefix},
			}},
			{Field: FieldDraws, Aliases: []Alias{
				{"u", Exact}, {"unentschieden", Exact}, {"d", Exact}, {"draws", Exact}, {"drawn", Exact}, {"remis", Exact},
				{"unent", Prefix}, {"draw", Prefix},
			}},
		},
		StandingsMarkers: []string{"abschlusstabelle", "tabelle", "standings", "league table"},
	}
}

var (
	footnotePattern = regexp.MustCompile(`\[[^\]]*\]`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// NormalizeHeader folds case, strips footnote markers and punctuation.
func NormalizeHeader(s string) string {
	s = norm.NFC.String(s)
	s = footnotePattern.ReplaceAllString(s, "")
	s = strings.NewReplacer(".", "", ":", "", "*", "").Replace(s)
	// a Caser is stateful, so one per call
	s = cases.Fold().String(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// Mapping is the column index chosen for each field.
type Mapping map[Field]int

// AmbiguousError reports equally ranked candidate columns for a field.
type AmbiguousError struct {
	Field   Field
	Columns []int
	Headers []string
	Detail  string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("column for %s is ambiguous: %s (columns %v %q)",
		e.Field, e.Detail, e.Columns, e.Headers)
}

// MissingError reports a field with no matching column.
type MissingError struct {
	Field Field
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("no column for %s", e.Field)
}

// Resolve picks one column per field. For each field the best ranked alias
// that matches any header wins; more than one column at that rank is an
// *AmbiguousError rather than a silent first pick.
func (s Schema) Resolve(headers []string) (Mapping, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	m := make(Mapping, len(s.Rules))
	used := make(map[int]Field, len(s.Rules))
	for _, rule := range s.Rules {
		col, err := resolveField(rule, headers, normalized)
		if err != nil {
			return nil, err
		}
		if other, taken := used[col]; taken {
			return nil, &AmbiguousError{
				Field:   rule.Field,
				Columns: []int{col},
				Headers: []string{headers[col]},
				Detail:  fmt.Sprintf("same column already mapped to %s", other),
			}
		}
		used[col] = rule.Field
		m[rule.Field] = col
	}
	return m, nil
}

func resolveField(rule FieldRule, headers, normalized []string) (int, error) {
	for _, alias := range rule.Aliases {
		var cols []int
		for i, h := range normalized {
			if h != "" && alias.matches(h) {
				cols = append(cols, i)
			}
		}
		switch len(cols) {
		case 0:
			continue
		case 1:
			return cols[0], nil
		default:
			names := make([]string, len(cols))
			for i, c := range cols {
				names[i] = headers[c]
			}
			return 0, &AmbiguousError{
				Field:   rule.Field,
				Columns: cols,
				Headers: names,
				Detail:  fmt.Sprintf("%s match on %q", alias.Kind, alias.Text),
			}
		}
	}
	return 0, &MissingError{Field: rule.Field}
}

// isStandings reports whether a caption or heading names a standings table.
func (s Schema) isStandings(texts ...string) bool {
	for _, t := range texts {
		n := NormalizeHeader(t)
		if n == "" {
			continue
		}
		for _, marker := range s.StandingsMarkers {
			if strings.Contains(n, marker) {
				return true
			}
		}
	}
	return false
}
