package tours

import (
	"context"
	"fmt"

	"github.com/pkordes/tourgen/internal/domain"
)

// Joint expands household joint tour frequency choices.
//
// Joint tours carry no category. Their ids live in a separate space whose
// labels come from the household alternatives table itself, keyed by
// household.
func (p Processor) Joint(ctx context.Context, choices []domain.Choice, alts *domain.Alternatives) ([]domain.Tour, error) {
	space, err := JointSpace(alts)
	if err != nil {
		return nil, fmt.Errorf("tours.Processor.Joint: %w", err)
	}
	tours, err := p.expand(ctx, choices, alts, domain.CategoryNone, domain.OwnerHousehold)
	if err != nil {
		return nil, fmt.Errorf("tours.Processor.Joint: %w", err)
	}
	if err := AssignIDs(tours, space, ByHousehold, false); err != nil {
		return nil, fmt.Errorf("tours.Processor.Joint: %w", err)
	}
	return tours, nil
}
