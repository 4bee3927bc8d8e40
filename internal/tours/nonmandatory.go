package tours

import (
	"context"
	"fmt"

	"github.com/pkordes/tourgen/internal/domain"
)

// NonMandatory expands per-person non-mandatory tour frequency choices.
// Destinations are left unset for the destination choice model.
func (p Processor) NonMandatory(ctx context.Context, choices []domain.Choice, alts *domain.Alternatives) ([]domain.Tour, error) {
	tours, err := p.expand(ctx, choices, alts, domain.CategoryNonMandatory, domain.OwnerPerson)
	if err != nil {
		return nil, fmt.Errorf("tours.Processor.NonMandatory: %w", err)
	}
	if err := AssignIDs(tours, PersonSpace(), ByPerson, false); err != nil {
		return nil, fmt.Errorf("tours.Processor.NonMandatory: %w", err)
	}
	return tours, nil
}
