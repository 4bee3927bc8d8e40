package tours

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkordes/tourgen/internal/domain"
)

// LabelSpace is a closed, sorted universe of canonical tour labels.
// It is immutable once built.
type LabelSpace struct {
	space  domain.IDSpace
	labels []string
	rank   map[string]int
}

// NewLabelSpace sorts labels and indexes them by rank.
// Duplicate labels would let two tours share an id, so they are reported as
// an invariant violation.
func NewLabelSpace(space domain.IDSpace, labels []string) (*LabelSpace, error) {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)

	rank := make(map[string]int, len(sorted))
	for i, l := range sorted {
		if _, dup := rank[l]; dup {
			return nil, &InvariantError{Check: CheckLabelSpace, Detail: fmt.Sprintf("duplicate label %q", l)}
		}
		rank[l] = i
	}
	return &LabelSpace{space: space, labels: sorted, rank: rank}, nil
}

// Space returns the id space tours numbered by this label space live in.
func (s *LabelSpace) Space() domain.IDSpace { return s.space }

// Len returns the number of labels, which is also the id multiplier.
func (s *LabelSpace) Len() int { return len(s.labels) }

// Labels returns a copy of the sorted labels.
func (s *LabelSpace) Labels() []string { return append([]string(nil), s.labels...) }

// Rank returns the zero-based position of label.
func (s *LabelSpace) Rank(label string) (int, bool) {
	r, ok := s.rank[label]
	return r, ok
}

var personSpace = mustPersonSpace()

// PersonSpace returns the label space shared by mandatory, non-mandatory and
// at-work subtours. It always holds the same 19 labels.
func PersonSpace() *LabelSpace { return personSpace }

func mustPersonSpace() *LabelSpace {
	var labels []string
	labels = append(labels, EnumerateChannels(nonMandatoryFlavors)...)
	labels = append(labels, EnumerateChannels(mandatoryFlavors)...)
	// eat1_1 is the eat subtour of work tour 1, eat1_2 the one of work tour 2.
	for _, c := range EnumerateChannels(atWorkSubtourFlavors) {
		for p := 1; p <= MaxWorkTours; p++ {
			labels = append(labels, c+"_"+strconv.Itoa(p))
		}
	}
	s, err := NewLabelSpace(domain.SpacePerson, labels)
	if err != nil {
		panic("tours: person label space: " + err.Error())
	}
	return s
}

// JointSpace builds the label space of joint household tours from the joint
// tour frequency alternatives: each column's flavor is its largest count.
// Unlike PersonSpace it is rebuilt from the configured table on every run.
func JointSpace(alts *domain.Alternatives) (*LabelSpace, error) {
	if alts == nil {
		return nil, fmt.Errorf("%w: joint alternatives table is required", domain.ErrValidation)
	}
	return NewLabelSpace(domain.SpaceJoint, EnumerateChannels(Flavors(alts.ColumnMax())))
}

// CheckCoverage verifies that every tour an alternatives table can generate
// has a label in space. For subtour tables every parent tour number
// 1..MaxWorkTours is checked. Run it once at startup so a mismatch between a
// configured table and the fixed flavor maps is caught before any expansion.
func CheckCoverage(space *LabelSpace, alts *domain.Alternatives, subtours bool) error {
	var missing []string
	for tourType, most := range alts.ColumnMax() {
		for n := 1; n <= most; n++ {
			if !subtours {
				if _, ok := space.Rank(Label(tourType, n)); !ok {
					missing = append(missing, Label(tourType, n))
				}
				continue
			}
			for p := 1; p <= MaxWorkTours; p++ {
				if _, ok := space.Rank(SubtourLabel(tourType, n, p)); !ok {
					missing = append(missing, SubtourLabel(tourType, n, p))
				}
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &InvariantError{
			Check:  CheckLabelSpace,
			Detail: "labels not in " + string(space.space) + " space: " + strings.Join(missing, ", "),
		}
	}
	return nil
}
