package tours

import (
	"context"

	"github.com/pkordes/tourgen/internal/domain"
)

// Processor runs the category processors. The zero value expands
// sequentially; Workers > 1 expands owner partitions concurrently with
// identical results.
type Processor struct {
	Workers int
}

func (p Processor) expand(ctx context.Context, choices []domain.Choice, alts *domain.Alternatives, category domain.Category, owner domain.OwnerKind) ([]domain.Tour, error) {
	return ExpandParallel(ctx, choices, alts, category, owner, p.Workers)
}

// ProcessMandatory runs Processor.Mandatory sequentially.
func ProcessMandatory(persons []domain.Person, alts *domain.Alternatives) ([]domain.Tour, error) {
	return Processor{}.Mandatory(context.Background(), persons, alts)
}

// ProcessNonMandatory runs Processor.NonMandatory sequentially.
func ProcessNonMandatory(choices []domain.Choice, alts *domain.Alternatives) ([]domain.Tour, error) {
	return Processor{}.NonMandatory(context.Background(), choices, alts)
}

// ProcessAtWorkSubtours runs Processor.AtWorkSubtours sequentially.
func ProcessAtWorkSubtours(workTours []domain.WorkTour, alts *domain.Alternatives) ([]domain.Tour, error) {
	return Processor{}.AtWorkSubtours(context.Background(), workTours, alts)
}

// ProcessJoint runs Processor.Joint sequentially.
func ProcessJoint(choices []domain.Choice, alts *domain.Alternatives) ([]domain.Tour, error) {
	return Processor{}.Joint(context.Background(), choices, alts)
}
