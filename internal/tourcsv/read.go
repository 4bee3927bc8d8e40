// Package tourcsv reads tour frequency inputs from CSV and writes expanded
// tours as CSV. Columns are matched by header name.
package tourcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkordes/tourgen/internal/domain"
)

// AlternativeColumn is accepted as the choice column of any choices file.
const AlternativeColumn = "alternative"

// ChoiceColumn returns the column a choices file of kind normally stores its
// alternatives in, named the way the tour frequency models write them.
func ChoiceColumn(kind domain.RunKind) string {
	switch kind {
	case domain.RunMandatory:
		return "mandatory_tour_frequency"
	case domain.RunNonMandatory:
		return "non_mandatory_tour_frequency"
	case domain.RunSubtour:
		return "atwork_subtour_frequency"
	case domain.RunJoint:
		return "joint_tour_frequency"
	}
	return AlternativeColumn
}

// table is a parsed CSV file with its header indexed by column name.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv, header row required", domain.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	t := &table{cols: make(map[string]int, len(header))}
	for i, h := range header {
		t.cols[strings.TrimSpace(h)] = i
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	t.rows = rows
	return t, nil
}

// column returns the index of the first of names present in the header.
func (t *table) column(names ...string) (int, error) {
	for _, n := range names {
		if i, ok := t.cols[n]; ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: missing column %s", domain.ErrValidation, strings.Join(names, " or "))
}

// optional returns the index of name, or -1.
func (t *table) optional(name string) int {
	if i, ok := t.cols[name]; ok {
		return i
	}
	return -1
}

// line is the 1-based file line of row i; the header is line 1.
func line(i int) int { return i + 2 }

// parseInt parses an optional integer cell; a missing column or a blank
// cell is zero.
func parseInt(row []string, col, i int, name string) (int64, error) {
	if col < 0 || strings.TrimSpace(row[col]) == "" {
		return 0, nil
	}
	return requireInt(row, col, i, name)
}

// requireInt parses an integer cell that must be filled in.
func requireInt(row []string, col, i int, name string) (int64, error) {
	cell := strings.TrimSpace(row[col])
	if cell == "" {
		return 0, fmt.Errorf("%w: line %d: %s is empty", domain.ErrValidation, line(i), name)
	}
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s %q is not an integer", domain.ErrValidation, line(i), name, row[col])
	}
	return v, nil
}

// ReadChoices reads a choice series. The owner is taken from an owner_id
// column or the id column of owner; the alternative from column or, failing
// that, an "alternative" column. Row order is kept and rows with an empty
// alternative are returned as is.
func ReadChoices(r io.Reader, owner domain.OwnerKind, column string) ([]domain.Choice, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("tourcsv.ReadChoices: %w", err)
	}
	ownerCol, err := t.column("owner_id", owner.Column())
	if err != nil {
		return nil, fmt.Errorf("tourcsv.ReadChoices: %w", err)
	}
	altCol, err := t.column(column, AlternativeColumn)
	if err != nil {
		return nil, fmt.Errorf("tourcsv.ReadChoices: %w", err)
	}

	out := make([]domain.Choice, len(t.rows))
	for i, row := range t.rows {
		id, err := requireInt(row, ownerCol, i, "owner id")
		if err != nil {
			return nil, fmt.Errorf("tourcsv.ReadChoices: %w", err)
		}
		out[i] = domain.Choice{OwnerID: id, Alternative: strings.TrimSpace(row[altCol])}
	}
	return out, nil
}

// ReadPersons reads the person columns of the mandatory tour processor.
// person_id and mandatory_tour_frequency are required; household_id,
// is_worker, school_taz and workplace_taz default to zero values.
func ReadPersons(r io.Reader) ([]domain.Person, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("tourcsv.ReadPersons: %w", err)
	}
	idCol, err := t.column("person_id")
	if err != nil {
		return nil, fmt.Errorf("tourcsv.ReadPersons: %w", err)
	}
	freqCol, err := t.column(ChoiceColumn(domain.RunMandatory), AlternativeColumn)
	if err != nil {
		return nil, fmt.Errorf("tourcsv.ReadPersons: %w", err)
	}
	hhCol := t.optional("household_id")
	workerCol := t.optional("is_worker")
	schoolCol := t.optional("school_taz")
	workCol := t.optional("workplace_taz")

	out := make([]domain.Person, len(t.rows))
	for i, row := range t.rows {
		p := domain.Person{MandatoryTourFrequency: strings.TrimSpace(row[freqCol])}
		if p.ID, err = requireInt(row, idCol, i, "person_id"); err != nil {
			return nil, fmt.Errorf("tourcsv.ReadPersons: %w", err)
		}
		if p.HouseholdID, err = parseInt(row, hhCol, i, "household_id"); err != nil {
			return nil, fmt.Errorf("tourcsv.ReadPersons: %w", err)
		}
		if p.SchoolTAZ, err = parseInt(row, schoolCol, i, "school_taz"); err != nil {
			return nil, fmt.Errorf("tourcsv.ReadPersons: %w", err)
		}
		if p.WorkplaceTAZ, err = parseInt(row, workCol, i, "workplace_taz"); err != nil {
			return nil, fmt.Errorf("tourcsv.ReadPersons: %w", err)
		}
		if workerCol >= 0 && strings.TrimSpace(row[workerCol]) != "" {
			if p.IsWorker, err = strconv.ParseBool(strings.TrimSpace(row[workerCol])); err != nil {
				return nil, fmt.Errorf("tourcsv.ReadPersons: %w: line %d: is_worker %q is not a boolean",
					domain.ErrValidation, line(i), row[workerCol])
			}
		}
		out[i] = p
	}
	return out, nil
}

// ReadWorkTours reads parent work tours with their at-work subtour choice.
// tour_id, person_id and tour_num are required and tour_num starts at 1.
// A file of expanded mandatory tours can be read as is: when tour_type or
// tour_category columns are present every row must be a mandatory work tour.
func ReadWorkTours(r io.Reader) ([]domain.WorkTour, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("tourcsv.ReadWorkTours: %w", err)
	}
	var cols [3]int
	for j, name := range []string{"tour_id", "person_id", "tour_num"} {
		if cols[j], err = t.column(name); err != nil {
			return nil, fmt.Errorf("tourcsv.ReadWorkTours: %w", err)
		}
	}
	freqCol, err := t.column(ChoiceColumn(domain.RunSubtour), AlternativeColumn)
	if err != nil {
		return nil, fmt.Errorf("tourcsv.ReadWorkTours: %w", err)
	}
	typeCol := t.optional("tour_type")
	catCol := t.optional("tour_category")

	out := make([]domain.WorkTour, len(t.rows))
	seen := make(map[int64]int, len(t.rows))
	for i, row := range t.rows {
		var vals [3]int64
		for j, name := range []string{"tour_id", "person_id", "tour_num"} {
			if vals[j], err = requireInt(row, cols[j], i, name); err != nil {
				return nil, fmt.Errorf("tourcsv.ReadWorkTours: %w", err)
			}
		}
		if vals[2] < 1 {
			return nil, fmt.Errorf("tourcsv.ReadWorkTours: %w: line %d: tour_num %d is not positive",
				domain.ErrValidation, line(i), vals[2])
		}
		if j, dup := seen[vals[0]]; dup {
			return nil, fmt.Errorf("tourcsv.ReadWorkTours: %w: line %d: tour_id %d already on line %d",
				domain.ErrValidation, line(i), vals[0], line(j))
		}
		seen[vals[0]] = i
		if typeCol >= 0 && strings.TrimSpace(row[typeCol]) != "work" {
			return nil, fmt.Errorf("tourcsv.ReadWorkTours: %w: line %d: tour %d is a %q tour, not work",
				domain.ErrValidation, line(i), vals[0], strings.TrimSpace(row[typeCol]))
		}
		if catCol >= 0 && strings.TrimSpace(row[catCol]) != string(domain.CategoryMandatory) {
			return nil, fmt.Errorf("tourcsv.ReadWorkTours: %w: line %d: tour %d is not a mandatory tour",
				domain.ErrValidation, line(i), vals[0])
		}
		out[i] = domain.WorkTour{
			TourID:                 vals[0],
			PersonID:               vals[1],
			TourNum:                int(vals[2]),
			AtWorkSubtourFrequency: strings.TrimSpace(row[freqCol]),
		}
	}
	return out, nil
}
