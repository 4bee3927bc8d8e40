package tours

import (
	"sort"
	"strconv"
)

// Flavors maps a tour type to the maximum number of tours of that type one
// owner can have.
type Flavors map[string]int

// Fixed flavor maps of the person tour space. Never derived from data.
var (
	nonMandatoryFlavors = Flavors{
		"escort":   2,
		"shopping": 1,
		"othmaint": 1,
		"othdiscr": 1,
		"eatout":   1,
		"social":   1,
	}
	mandatoryFlavors = Flavors{
		"work":   2,
		"school": 2,
	}
	atWorkSubtourFlavors = Flavors{
		"eat":      1,
		"business": 2,
		"maint":    1,
	}
)

// MaxWorkTours is the most work tours a person can have, and so the number of
// parent tours an at-work subtour label has to tell apart.
var MaxWorkTours = mandatoryFlavors["work"]

// EnumerateChannels lists the label of every (type, occurrence) slot in f:
// each type followed by 1..max. Types are visited in name order.
//
//	{"eat": 1, "business": 2} -> ["business1", "business2", "eat1"]
func EnumerateChannels(f Flavors) []string {
	types := make([]string, 0, len(f))
	for t := range f {
		types = append(types, t)
	}
	sort.Strings(types)

	var channels []string
	for _, t := range types {
		for n := 1; n <= f[t]; n++ {
			channels = append(channels, Label(t, n))
		}
	}
	return channels
}

// Label is the canonical label of the n-th tour of tourType.
func Label(tourType string, n int) string {
	return tourType + strconv.Itoa(n)
}

// SubtourLabel is the canonical label of the n-th subtour of tourType made
// during the parentNum-th work tour.
func SubtourLabel(tourType string, n, parentNum int) string {
	return Label(tourType, n) + "_" + strconv.Itoa(parentNum)
}
