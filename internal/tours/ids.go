package tours

import (
	"fmt"
	"math"

	"github.com/pkordes/tourgen/internal/domain"
)

// Checks reported by InvariantError.
const (
	CheckLabelSpace   = "label_space"
	CheckUnknownLabel = "unknown_label"
	CheckDuplicateID  = "duplicate_id"
	CheckOverflow     = "id_overflow"
)

// InvariantError reports a broken guarantee of the stable id scheme.
// It always matches domain.ErrInvariant with errors.Is.
type InvariantError struct {
	Check  string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", domain.ErrInvariant, e.Check, e.Detail)
}

func (e *InvariantError) Unwrap() error { return domain.ErrInvariant }

// KeyFunc returns the owner key a tour's label rank is offset from.
type KeyFunc func(domain.Tour) int64

// ByPerson keys ids by person. At-work subtours are keyed by the person of
// their parent work tour so that they share the person id range.
func ByPerson(t domain.Tour) int64 { return t.PersonID }

// ByHousehold keys ids by household, for joint tours.
func ByHousehold(t domain.Tour) int64 { return t.HouseholdID }

// AssignIDs sets ID and Space on every tour:
//
//	id = key(t) * space.Len() + rank(label(t))
//
// The label is Label(type, type_num), or SubtourLabel(type, type_num,
// parent_tour_num) when withParent is set. Every owner gets its own block of
// space.Len() ids, so ids cannot collide while every label is in space and
// owner keys are unique.
//
// A label outside space, an id that does not fit in int64, or a duplicate id
// is returned as *InvariantError. On error no tour is modified. No tours is
// never an error, whatever the size of space.
func AssignIDs(tours []domain.Tour, space *LabelSpace, key KeyFunc, withParent bool) error {
	if len(tours) == 0 {
		return nil
	}
	n := int64(space.Len())
	if n == 0 {
		t := tours[0]
		return &InvariantError{
			Check:  CheckUnknownLabel,
			Detail: fmt.Sprintf("tour %s%d of owner %d generated but the %s label space is empty", t.TourType, t.TourTypeNum, t.OwnerID, space.Space()),
		}
	}
	limit := math.MaxInt64/n - 1

	ids := make([]int64, len(tours))
	seen := make(map[int64]int, len(tours))
	for i, t := range tours {
		label := Label(t.TourType, t.TourTypeNum)
		if withParent {
			label = SubtourLabel(t.TourType, t.TourTypeNum, t.ParentTourNum)
		}
		rank, ok := space.Rank(label)
		if !ok {
			return &InvariantError{
				Check:  CheckUnknownLabel,
				Detail: fmt.Sprintf("tour label %q of owner %d is not in the %s label space", label, t.OwnerID, space.Space()),
			}
		}

		k := key(t)
		if k > limit || k < -limit {
			return &InvariantError{
				Check:  CheckOverflow,
				Detail: fmt.Sprintf("owner key %d times %d overflows int64", k, n),
			}
		}

		id := k*n + int64(rank)
		if j, dup := seen[id]; dup {
			return &InvariantError{
				Check: CheckDuplicateID,
				Detail: fmt.Sprintf("tour id %d assigned to rows %d and %d (label %q, key %d)",
					id, j, i, label, k),
			}
		}
		seen[id] = i
		ids[i] = id
	}

	for i := range tours {
		tours[i].ID = ids[i]
		tours[i].Space = space.Space()
	}
	return nil
}
