package tourcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkordes/tourgen/internal/domain"
)

// Header defines the column names written as the first row of a tours CSV.
var Header = []string{
	"tour_id", "id_space", "owner_id", "person_id", "household_id", "parent_tour_id", "parent_tour_num",
	"tour_type", "tour_type_num", "tour_type_count", "tour_num", "tour_count",
	"tour_category", "mandatory", "non_mandatory", "destination",
}

// WriteTours writes Header followed by one record per tour.
func WriteTours(w io.Writer, tours []domain.Tour) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("tourcsv.WriteTours: %w", err)
	}
	for _, t := range tours {
		if err := cw.Write(Record(t)); err != nil {
			return fmt.Errorf("tourcsv.WriteTours: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("tourcsv.WriteTours: %w", err)
	}
	return nil
}

// Record encodes a tour in Header order. Owner columns that do not apply to
// the tour's owner, the mandatory flags of uncategorized tours and nil
// pointers are written as empty fields.
func Record(t domain.Tour) []string {
	var personID, householdID, parentTourNum, mandatory, nonMandatory string
	if t.HasPersonID() {
		personID = strconv.FormatInt(t.PersonID, 10)
	}
	if t.HasHouseholdID() {
		householdID = strconv.FormatInt(t.HouseholdID, 10)
	}
	if t.ParentTourID != nil {
		parentTourNum = strconv.Itoa(t.ParentTourNum)
	}
	if t.HasCategory() {
		mandatory = strconv.FormatBool(t.Mandatory)
		nonMandatory = strconv.FormatBool(t.NonMandatory)
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		string(t.Space),
		strconv.FormatInt(t.OwnerID, 10),
		personID,
		householdID,
		optionalPtr(t.ParentTourID),
		parentTourNum,
		t.TourType,
		strconv.Itoa(t.TourTypeNum),
		strconv.Itoa(t.TourTypeCount),
		strconv.Itoa(t.TourNum),
		strconv.Itoa(t.TourCount),
		string(t.Category),
		mandatory,
		nonMandatory,
		optionalPtr(t.Destination),
	}
}

func optionalPtr(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
