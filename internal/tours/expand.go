package tours

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/tourgen/internal/domain"
)

// Expand turns a choice series into one tour per unit of chosen count.
//
// Owners are visited in choice order, tour types in alternatives column order,
// and a count of K yields K consecutive tours (0 yields none). Sequence numbers
// are then ranks within (owner, type) and within owner in that same row order:
//
//	owner 10 chooses {shopping:2, eatout:0, othmaint:1}
//	  shopping  tour_type_num 1/2  tour_num 1/3
//	  shopping  tour_type_num 2/2  tour_num 2/3
//	  othmaint  tour_type_num 1/1  tour_num 3/3
//
// The order is part of the contract: it decides which physical tour is
// "shopping1" and so which id and random stream it gets.
//
// Returns domain.ErrValidation when an owner appears twice, has no chosen
// alternative, or chose an alternative missing from alts.
func Expand(choices []domain.Choice, alts *domain.Alternatives, category domain.Category, owner domain.OwnerKind) ([]domain.Tour, error) {
	if err := validateChoices(choices, alts, category); err != nil {
		return nil, err
	}
	tours := expandRows(choices, alts, category, owner)
	number(tours)
	return tours, nil
}

// ExpandParallel produces exactly the output of Expand, expanding contiguous
// partitions of the choice series on up to workers goroutines. Every owner's
// tours fall inside one partition, so per-owner numbering is unaffected, and
// partitions are concatenated in series order.
func ExpandParallel(ctx context.Context, choices []domain.Choice, alts *domain.Alternatives, category domain.Category, owner domain.OwnerKind, workers int) ([]domain.Tour, error) {
	if workers <= 1 || len(choices) <= workers {
		return Expand(choices, alts, category, owner)
	}
	if err := validateChoices(choices, alts, category); err != nil {
		return nil, err
	}

	size := (len(choices) + workers - 1) / workers
	parts := make([][]domain.Tour, (len(choices)+size-1)/size)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range parts {
		start := i * size
		end := min(start+size, len(choices))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			part := expandRows(choices[start:end], alts, category, owner)
			number(part)
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tours.ExpandParallel: %w", err)
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]domain.Tour, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

func validateChoices(choices []domain.Choice, alts *domain.Alternatives, category domain.Category) error {
	if alts == nil {
		return fmt.Errorf("%w: alternatives table is required", domain.ErrValidation)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: unknown tour category %q", domain.ErrValidation, category)
	}
	seen := make(map[int64]struct{}, len(choices))
	for _, c := range choices {
		if c.Alternative == "" {
			return fmt.Errorf("%w: owner %d has no chosen alternative", domain.ErrValidation, c.OwnerID)
		}
		if _, dup := seen[c.OwnerID]; dup {
			return fmt.Errorf("%w: owner %d appears more than once", domain.ErrValidation, c.OwnerID)
		}
		seen[c.OwnerID] = struct{}{}
		if _, ok := alts.Row(c.Alternative); !ok {
			return fmt.Errorf("%w: owner %d chose unknown alternative %q", domain.ErrValidation, c.OwnerID, c.Alternative)
		}
	}
	return nil
}

// expandRows replicates each chosen count into tours. Choices must be valid.
func expandRows(choices []domain.Choice, alts *domain.Alternatives, category domain.Category, owner domain.OwnerKind) []domain.Tour {
	columns := alts.Columns()
	var tours []domain.Tour
	for _, c := range choices {
		row, _ := alts.Row(c.Alternative)
		for i, tourType := range columns {
			for range row[i] {
				tours = append(tours, newTour(c.OwnerID, owner, tourType, category))
			}
		}
	}
	return tours
}

func newTour(ownerID int64, owner domain.OwnerKind, tourType string, category domain.Category) domain.Tour {
	t := domain.Tour{
		Owner:    owner,
		OwnerID:  ownerID,
		TourType: tourType,
		Category: category,
	}
	switch owner {
	case domain.OwnerPerson:
		t.PersonID = ownerID
	case domain.OwnerHousehold:
		t.HouseholdID = ownerID
	case domain.OwnerParentTour:
		parent := ownerID
		t.ParentTourID = &parent
	}
	if category != domain.CategoryNone {
		t.Mandatory = category == domain.CategoryMandatory
		t.NonMandatory = category == domain.CategoryNonMandatory
	}
	return t
}

type ownerType struct {
	owner    int64
	tourType string
}

// number fills the four sequence columns from row order.
func number(tours []domain.Tour) {
	typeNum, typeCount := groupRank(len(tours), func(i int) ownerType {
		return ownerType{owner: tours[i].OwnerID, tourType: tours[i].TourType}
	})
	tourNum, tourCount := groupRank(len(tours), func(i int) int64 {
		return tours[i].OwnerID
	})
	for i := range tours {
		tours[i].TourTypeNum = typeNum[i]
		tours[i].TourTypeCount = typeCount[i]
		tours[i].TourNum = tourNum[i]
		tours[i].TourCount = tourCount[i]
	}
}

// groupRank numbers the rows 0..n-1 within their groups, 1-based and in row
// order, and reports the size of each row's group. Rows of a group need not be
// adjacent. It is a forward running count plus a group total; no sorting is
// involved, so the relative order of rows within a group is preserved.
func groupRank[K comparable](n int, key func(int) K) (rank, size []int) {
	rank = make([]int, n)
	size = make([]int, n)
	counts := make(map[K]int)
	for i := range n {
		k := key(i)
		counts[k]++
		rank[i] = counts[k]
	}
	for i := range n {
		size[i] = counts[key(i)]
	}
	return rank, size
}
