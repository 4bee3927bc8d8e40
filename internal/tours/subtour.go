package tours

import (
	"context"
	"fmt"

	"github.com/pkordes/tourgen/internal/domain"
)

// AtWorkSubtours expands the at-work subtour frequency choice of each
// work tour. The owner of a subtour is its parent work tour; after expansion
// each subtour takes the parent's person and the parent's tour_num as
// parent_tour_num.
//
// Labels carry the parent tour number ("eat1_2"), so the first eat subtour of
// a person's two work tours get different ids. Work tours without a subtour
// choice produce nothing.
func (p Processor) AtWorkSubtours(ctx context.Context, workTours []domain.WorkTour, alts *domain.Alternatives) ([]domain.Tour, error) {
	parents := make(map[int64]domain.WorkTour, len(workTours))
	choices := make([]domain.Choice, 0, len(workTours))
	for _, wt := range workTours {
		if wt.AtWorkSubtourFrequency == "" {
			continue
		}
		parents[wt.TourID] = wt
		choices = append(choices, domain.Choice{OwnerID: wt.TourID, Alternative: wt.AtWorkSubtourFrequency})
	}

	tours, err := p.expand(ctx, choices, alts, domain.CategorySubtour, domain.OwnerParentTour)
	if err != nil {
		return nil, fmt.Errorf("tours.Processor.AtWorkSubtours: %w", err)
	}

	for i := range tours {
		parent := parents[tours[i].OwnerID]
		tours[i].PersonID = parent.PersonID
		tours[i].ParentTourNum = parent.TourNum
	}

	if err := AssignIDs(tours, PersonSpace(), ByPerson, true); err != nil {
		return nil, fmt.Errorf("tours.Processor.AtWorkSubtours: %w", err)
	}
	return tours, nil
}
