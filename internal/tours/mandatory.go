package tours

import (
	"context"
	"fmt"

	"github.com/pkordes/tourgen/internal/domain"
)

// Mandatory expands the mandatory tour frequency choices of persons.
//
// Every person must carry a mandatory tour frequency; persons without one are
// excluded upstream. For a work_and_school choice the alternatives table puts
// work before school; non-workers get the order swapped so their school tour
// is tour 1. Work tours go to the workplace zone, all others to the school
// zone. Ids are in the person space.
func (p Processor) Mandatory(ctx context.Context, persons []domain.Person, alts *domain.Alternatives) ([]domain.Tour, error) {
	choices := make([]domain.Choice, len(persons))
	byID := make(map[int64]domain.Person, len(persons))
	for i, per := range persons {
		if per.MandatoryTourFrequency == "" {
			return nil, fmt.Errorf("%w: person %d has no mandatory tour frequency", domain.ErrValidation, per.ID)
		}
		choices[i] = domain.Choice{OwnerID: per.ID, Alternative: per.MandatoryTourFrequency}
		byID[per.ID] = per
	}

	tours, err := p.expand(ctx, choices, alts, domain.CategoryMandatory, domain.OwnerPerson)
	if err != nil {
		return nil, fmt.Errorf("tours.Processor.Mandatory: %w", err)
	}

	for i := range tours {
		t := &tours[i]
		per := byID[t.PersonID]

		if per.MandatoryTourFrequency == domain.WorkAndSchool && !per.IsWorker {
			if t.TourCount != 2 {
				return nil, fmt.Errorf("%w: %s alternative yields %d tours for person %d, want 2",
					domain.ErrValidation, domain.WorkAndSchool, t.TourCount, per.ID)
			}
			t.TourNum = 3 - t.TourNum
		}

		dest := per.SchoolTAZ
		if t.TourType == "work" {
			dest = per.WorkplaceTAZ
		}
		t.Destination = &dest
	}

	if err := AssignIDs(tours, PersonSpace(), ByPerson, false); err != nil {
		return nil, fmt.Errorf("tours.Processor.Mandatory: %w", err)
	}
	return tours, nil
}
