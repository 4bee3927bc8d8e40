package domain

import (
	"fmt"
	"sort"
)

// Alternatives is a tour frequency alternatives table: one row per alternative
// id, one column per tour type, each cell the number of tours of that type
// generated when the alternative is chosen.
//
// Column order is significant. Expansion walks columns in this order, which
// decides which physical tour receives which sequence number.
type Alternatives struct {
	columns []string
	rows    map[string][]int
}

// NewAlternatives builds a table from column names and rows keyed by
// alternative id. Every row must have one non-negative count per column.
// Returns ErrValidation for malformed tables.
func NewAlternatives(columns []string, rows map[string][]int) (*Alternatives, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: alternatives table has no columns", ErrValidation)
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("%w: empty tour type column", ErrValidation)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate tour type column %q", ErrValidation, c)
		}
		seen[c] = struct{}{}
	}

	a := &Alternatives{
		columns: append([]string(nil), columns...),
		rows:    make(map[string][]int, len(rows)),
	}
	for id, counts := range rows {
		if id == "" {
			return nil, fmt.Errorf("%w: empty alternative id", ErrValidation)
		}
		if len(counts) != len(columns) {
			return nil, fmt.Errorf("%w: alternative %q has %d counts, want %d",
				ErrValidation, id, len(counts), len(columns))
		}
		for i, n := range counts {
			if n < 0 {
				return nil, fmt.Errorf("%w: alternative %q has negative %s count",
					ErrValidation, id, columns[i])
			}
		}
		a.rows[id] = append([]int(nil), counts...)
	}
	return a, nil
}

// Columns returns the tour type columns in table order.
func (a *Alternatives) Columns() []string {
	return append([]string(nil), a.columns...)
}

// IDs returns every alternative id, sorted.
func (a *Alternatives) IDs() []string {
	ids := make([]string, 0, len(a.rows))
	for id := range a.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Row returns the counts of alternative id, aligned with Columns.
// The returned slice must not be modified.
func (a *Alternatives) Row(id string) ([]int, bool) {
	r, ok := a.rows[id]
	return r, ok
}

// ColumnMax returns the largest count found in each column.
func (a *Alternatives) ColumnMax() map[string]int {
	out := make(map[string]int, len(a.columns))
	for i, c := range a.columns {
		m := 0
		for _, r := range a.rows {
			if r[i] > m {
				m = r[i]
			}
		}
		out[c] = m
	}
	return out
}

// AlternativesSet groups the alternatives tables of every tour frequency model.
type AlternativesSet struct {
	Mandatory     *Alternatives
	NonMandatory  *Alternatives
	AtWorkSubtour *Alternatives
	Joint         *Alternatives
}
