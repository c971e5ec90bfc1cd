package extract

// TableInventory describes how the header schema sees one table of a
// document. It is a diagnostic for pages whose layout changed.
type TableInventory struct {
	Index     int      `json:"index"`
	Caption   string   `json:"caption,omitempty"`
	Heading   string   `json:"heading,omitempty"`
	Headers   []string `json:"headers"`
	Rows      int      `json:"rows"`
	Standings bool     `json:"standings"`
	Mapping   Mapping  `json:"mapping,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Inventory lists every table in body with its resolved column mapping or
// the reason it does not match.
func Inventory(body []byte, schema Schema) ([]TableInventory, error) {
	tables, err := ParseTables(body)
	if err != nil {
		return nil, err
	}
	out := make([]TableInventory, 0, len(tables))
	for _, t := range tables {
		inv := TableInventory{
			Index:     t.Index,
			Caption:   t.Caption,
			Heading:   t.Heading,
			Headers:   t.Headers,
			Rows:      len(t.Rows),
			Standings: schema.isStandings(t.Caption, t.Heading),
		}
		if inv.Headers == nil {
			inv.Headers = []string{}
		}
		if len(t.Headers) == 0 {
			inv.Error = "no header row"
		} else if m, err := schema.Resolve(t.Headers); err != nil {
			inv.Error = err.Error()
		} else {
			inv.Mapping = m
		}
		out = append(out, inv)
	}
	return out, nil
}
