package tours_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourgen/internal/domain"
)

// ---- alternatives fixtures -------------------------------------------------

func mustAlts(t *testing.T, columns []string, rows map[string][]int) *domain.Alternatives {
	t.Helper()
	alts, err := domain.NewAlternatives(columns, rows)
	require.NoError(t, err)
	return alts
}

func mandatoryAlts(t *testing.T) *domain.Alternatives {
	return mustAlts(t, []string{"work", "school"}, map[string][]int{
		"work1":              {1, 0},
		"work2":              {2, 0},
		"school1":            {0, 1},
		"school2":            {0, 2},
		domain.WorkAndSchool: {1, 1},
	})
}

func nonMandatoryAlts(t *testing.T) *domain.Alternatives {
	return mustAlts(t,
		[]string{"escort", "shopping", "othmaint", "othdiscr", "eatout", "social"},
		map[string][]int{
			"0": {0, 0, 0, 0, 0, 0},
			"1": {0, 1, 0, 0, 0, 0},
			"2": {2, 0, 0, 0, 0, 0},
			"3": {0, 1, 1, 1, 0, 0},
			"4": {2, 1, 1, 1, 1, 1},
			"5": {1, 0, 0, 0, 1, 0},
		})
}

func subtourAlts(t *testing.T) *domain.Alternatives {
	return mustAlts(t, []string{"eat", "business", "maint"}, map[string][]int{
		"no_subtours":  {0, 0, 0},
		"eat":          {1, 0, 0},
		"business1":    {0, 1, 0},
		"maint":        {0, 0, 1},
		"business2":    {0, 2, 0},
		"eat_business": {1, 1, 0},
	})
}

func jointAlts(t *testing.T) *domain.Alternatives {
	return mustAlts(t, []string{"shop", "main", "eat", "visi", "disc"}, map[string][]int{
		"0_tours": {0, 0, 0, 0, 0},
		"1_Shop":  {1, 0, 0, 0, 0},
		"1_Main":  {0, 1, 0, 0, 0},
		"1_Eat":   {0, 0, 1, 0, 0},
		"1_Visi":  {0, 0, 0, 1, 0},
		"1_Disc":  {0, 0, 0, 0, 1},
		"2_SS":    {2, 0, 0, 0, 0},
		"2_SM":    {1, 1, 0, 0, 0},
		"2_DD":    {0, 0, 0, 0, 2},
	})
}

// ---- tour projections ------------------------------------------------------

// seq is the (type, tour_type_num, tour_type_count, tour_num, tour_count)
// tuple of a tour, the shape expansion results are most easily compared in.
type seq struct {
	Type      string
	TypeNum   int
	TypeCount int
	Num       int
	Count     int
}

func seqs(tours []domain.Tour) []seq {
	out := make([]seq, len(tours))
	for i, t := range tours {
		out[i] = seq{t.TourType, t.TourTypeNum, t.TourTypeCount, t.TourNum, t.TourCount}
	}
	return out
}

func ids(tours []domain.Tour) []int64 {
	out := make([]int64, len(tours))
	for i, t := range tours {
		out[i] = t.ID
	}
	return out
}
