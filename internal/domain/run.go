package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunKind names the category processor an expansion run used.
type RunKind string

const (
	RunMandatory    RunKind = "mandatory"
	RunNonMandatory RunKind = "non_mandatory"
	RunSubtour      RunKind = "subtour"
	RunJoint        RunKind = "joint"
)

// Space returns the id space the tours of a run are numbered in.
func (k RunKind) Space() IDSpace {
	if k == RunJoint {
		return SpaceJoint
	}
	return SpacePerson
}

// ExpansionRun records one call of a category processor whose tours were persisted.
type ExpansionRun struct {
	ID        uuid.UUID `json:"id"`
	Kind      RunKind   `json:"kind"`
	Space     IDSpace   `json:"id_space"`
	Owners    int       `json:"owners"`
	Tours     int       `json:"tours"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpansionResult is what a service-level expansion returns to its caller.
type ExpansionResult struct {
	Run   ExpansionRun
	Tours []Tour
}

// TourFilter narrows tour listings. Nil or zero fields mean "any".
type TourFilter struct {
	Space    IDSpace
	Category *Category
	OwnerID  *int64
}
