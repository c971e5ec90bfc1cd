package extract

import (
	"context"
	"fmt"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/model"
)

// FailureKind classifies why a season produced no table.
type FailureKind string

const (
	// FetchFailure: no candidate document could be retrieved.
	FetchFailure FailureKind = "fetch"
	// ParseFailure: a document was retrieved but no table matched the header schema.
	ParseFailure FailureKind = "parse"
	// AmbiguousColumns: a table had several equally ranked columns for one field.
	AmbiguousColumns FailureKind = "ambiguous"
)

// Failure describes a failed extraction.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Locator string      `json:"locator,omitempty"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

func (f *Failure) Error() string {
	if f.Locator != "" {
		return fmt.Sprintf("%s failure at %s: %s", f.Kind, f.Locator, f.Message)
	}
	return fmt.Sprintf("%s failure: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// priority orders failures by how much they say about the source.
func (f *Failure) priority() int {
	switch f.Kind {
	case AmbiguousColumns:
		return 3
	case ParseFailure:
		return 2
	default:
		return 1
	}
}

// Result is the outcome of extracting one season: either Records (possibly
// empty, when the table had no valid rows) or a Failure.
type Result struct {
	Season   int                  `json:"season"`
	Records  []model.SeasonRecord `json:"records"`
	Source   string               `json:"source,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
	Failure  *Failure             `json:"failure,omitempty"`
}

// OK reports whether the season was extracted.
func (r Result) OK() bool { return r.Failure == nil }

// Failed builds a failed Result.
func Failed(season int, f *Failure) Result {
	return Result{Season: season, Failure: f}
}

// Source produces one season's table. Implementations never return an error;
// every failure is carried in the Result.
type Source interface {
	Season(ctx context.Context, season int) Result
}
