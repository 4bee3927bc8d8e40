// Package domain contains the core data types for the tour expansion service.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (tours, repo, service, handler).
package domain

import (
	"encoding/json"
	"fmt"
)

// Category is the tour category stamped on expanded tours.
// Joint tours carry no category at expansion time (CategoryNone).
type Category string

const (
	CategoryNone         Category = ""
	CategoryMandatory    Category = "mandatory"
	CategoryNonMandatory Category = "non_mandatory"
	CategorySubtour      Category = "subtour"
)

// Valid reports whether c is one of the known categories, CategoryNone included.
func (c Category) Valid() bool {
	switch c {
	case CategoryNone, CategoryMandatory, CategoryNonMandatory, CategorySubtour:
		return true
	}
	return false
}

// OwnerKind names the table a tour frequency choice was made for.
type OwnerKind int

const (
	OwnerPerson OwnerKind = iota
	OwnerHousehold
	OwnerParentTour
)

// String returns the stored name of the owner kind.
func (k OwnerKind) String() string {
	switch k {
	case OwnerHousehold:
		return "household"
	case OwnerParentTour:
		return "parent_tour"
	default:
		return "person"
	}
}

// ParseOwnerKind is the inverse of OwnerKind.String.
func ParseOwnerKind(s string) (OwnerKind, bool) {
	switch s {
	case "person":
		return OwnerPerson, true
	case "household":
		return OwnerHousehold, true
	case "parent_tour":
		return OwnerParentTour, true
	}
	return OwnerPerson, false
}

// Column returns the owner id column name used in tables and exports.
func (k OwnerKind) Column() string {
	switch k {
	case OwnerHousehold:
		return "household_id"
	case OwnerParentTour:
		return "parent_tour_id"
	default:
		return "person_id"
	}
}

// IDSpace separates tour ids that are allowed to overlap.
// Mandatory, non-mandatory and at-work subtours share SpacePerson;
// joint household tours are numbered in SpaceJoint.
type IDSpace string

const (
	SpacePerson IDSpace = "person"
	SpaceJoint  IDSpace = "joint"
)

// Valid reports whether s is a known id space.
func (s IDSpace) Valid() bool {
	return s == SpacePerson || s == SpaceJoint
}

// Tour is one generated tour.
//
// OwnerID is the key of whatever the frequency choice was made for: a person,
// a household (joint tours) or a parent work tour (at-work subtours).
// PersonID, HouseholdID and ParentTourID repeat that key in the matching
// column. Which of them apply follows from Owner, so a zero key is still a
// key; see HasPersonID and HasHouseholdID.
type Tour struct {
	ID      int64
	Space   IDSpace
	Owner   OwnerKind
	OwnerID int64

	PersonID      int64
	HouseholdID   int64
	ParentTourID  *int64
	ParentTourNum int

	TourType      string
	TourTypeNum   int
	TourTypeCount int
	TourNum       int
	TourCount     int

	// Mandatory and NonMandatory are derived from Category and only
	// meaningful when Category is set.
	Category     Category
	Mandatory    bool
	NonMandatory bool

	// Destination is the zone the tour goes to, when already known.
	// Only mandatory tours have one at expansion time.
	Destination *int64
}

// HasPersonID reports whether the tour belongs to a person, directly or
// through its parent work tour.
func (t Tour) HasPersonID() bool {
	return t.Owner == OwnerPerson || t.Owner == OwnerParentTour
}

// HasHouseholdID reports whether the tour is a household's joint tour.
func (t Tour) HasHouseholdID() bool { return t.Owner == OwnerHousehold }

// HasCategory reports whether the mandatory flags of t apply.
func (t Tour) HasCategory() bool { return t.Category != CategoryNone }

// tourJSON is the wire form of Tour. Columns that do not apply to the
// tour's owner or category are left out rather than written as zero.
type tourJSON struct {
	ID        int64   `json:"tour_id"`
	Space     IDSpace `json:"id_space"`
	OwnerKind string  `json:"owner_kind"`
	OwnerID   int64   `json:"owner_id"`

	PersonID      *int64 `json:"person_id,omitempty"`
	HouseholdID   *int64 `json:"household_id,omitempty"`
	ParentTourID  *int64 `json:"parent_tour_id,omitempty"`
	ParentTourNum *int   `json:"parent_tour_num,omitempty"`

	TourType      string `json:"tour_type"`
	TourTypeNum   int    `json:"tour_type_num"`
	TourTypeCount int    `json:"tour_type_count"`
	TourNum       int    `json:"tour_num"`
	TourCount     int    `json:"tour_count"`

	Category     Category `json:"tour_category,omitempty"`
	Mandatory    *bool    `json:"mandatory,omitempty"`
	NonMandatory *bool    `json:"non_mandatory,omitempty"`

	Destination *int64 `json:"destination,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Tour) MarshalJSON() ([]byte, error) {
	w := tourJSON{
		ID:            t.ID,
		Space:         t.Space,
		OwnerKind:     t.Owner.String(),
		OwnerID:       t.OwnerID,
		ParentTourID:  t.ParentTourID,
		TourType:      t.TourType,
		TourTypeNum:   t.TourTypeNum,
		TourTypeCount: t.TourTypeCount,
		TourNum:       t.TourNum,
		TourCount:     t.TourCount,
		Category:      t.Category,
		Destination:   t.Destination,
	}
	if t.HasPersonID() {
		w.PersonID = &t.PersonID
	}
	if t.HasHouseholdID() {
		w.HouseholdID = &t.HouseholdID
	}
	if t.ParentTourID != nil {
		w.ParentTourNum = &t.ParentTourNum
	}
	if t.HasCategory() {
		w.Mandatory = &t.Mandatory
		w.NonMandatory = &t.NonMandatory
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tour) UnmarshalJSON(b []byte) error {
	var w tourJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	owner, ok := ParseOwnerKind(w.OwnerKind)
	if !ok && w.OwnerKind != "" {
		return fmt.Errorf("unknown owner kind %q", w.OwnerKind)
	}
	*t = Tour{
		ID:            w.ID,
		Space:         w.Space,
		Owner:         owner,
		OwnerID:       w.OwnerID,
		ParentTourID:  w.ParentTourID,
		TourType:      w.TourType,
		TourTypeNum:   w.TourTypeNum,
		TourTypeCount: w.TourTypeCount,
		TourNum:       w.TourNum,
		TourCount:     w.TourCount,
		Category:      w.Category,
		Destination:   w.Destination,
	}
	if w.PersonID != nil {
		t.PersonID = *w.PersonID
	}
	if w.HouseholdID != nil {
		t.HouseholdID = *w.HouseholdID
	}
	if w.ParentTourNum != nil {
		t.ParentTourNum = *w.ParentTourNum
	}
	if w.Mandatory != nil {
		t.Mandatory = *w.Mandatory
	}
	if w.NonMandatory != nil {
		t.NonMandatory = *w.NonMandatory
	}
	return nil
}
