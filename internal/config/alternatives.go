package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/tourgen/internal/domain"
)

// alternativesFile is the YAML layout of the tour frequency alternatives.
// Columns are a list rather than a mapping because their order decides the
// order tours are expanded in.
//
//	mandatory:
//	  columns: [work, school]
//	  alternatives:
//	    - {id: work1, counts: [1, 0]}
//	    - {id: work_and_school, counts: [1, 1]}
type alternativesFile struct {
	Mandatory     tableSpec `yaml:"mandatory"`
	NonMandatory  tableSpec `yaml:"non_mandatory"`
	AtWorkSubtour tableSpec `yaml:"atwork_subtour"`
	Joint         tableSpec `yaml:"joint"`
}

type tableSpec struct {
	Columns      []string          `yaml:"columns"`
	Alternatives []alternativeSpec `yaml:"alternatives"`
}

type alternativeSpec struct {
	ID     string `yaml:"id"`
	Counts []int  `yaml:"counts"`
}

// LoadAlternatives reads and parses the alternatives file at path.
func LoadAlternatives(path string) (domain.AlternativesSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.AlternativesSet{}, fmt.Errorf("config.LoadAlternatives: %w", err)
	}
	set, err := ParseAlternatives(data)
	if err != nil {
		return domain.AlternativesSet{}, fmt.Errorf("config.LoadAlternatives: %s: %w", path, err)
	}
	return set, nil
}

// ParseAlternatives decodes all four alternatives tables. Unknown keys,
// missing tables and malformed rows are errors wrapping domain.ErrValidation.
func ParseAlternatives(data []byte) (domain.AlternativesSet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f alternativesFile
	if err := dec.Decode(&f); err != nil {
		return domain.AlternativesSet{}, fmt.Errorf("%w: decode alternatives: %v", domain.ErrValidation, err)
	}

	var (
		set domain.AlternativesSet
		err error
	)
	if set.Mandatory, err = f.Mandatory.build("mandatory"); err != nil {
		return domain.AlternativesSet{}, err
	}
	if set.NonMandatory, err = f.NonMandatory.build("non_mandatory"); err != nil {
		return domain.AlternativesSet{}, err
	}
	if set.AtWorkSubtour, err = f.AtWorkSubtour.build("atwork_subtour"); err != nil {
		return domain.AlternativesSet{}, err
	}
	if set.Joint, err = f.Joint.build("joint"); err != nil {
		return domain.AlternativesSet{}, err
	}
	return set, nil
}

func (s tableSpec) build(name string) (*domain.Alternatives, error) {
	if len(s.Alternatives) == 0 {
		return nil, fmt.Errorf("%w: %s: no alternatives", domain.ErrValidation, name)
	}
	rows := make(map[string][]int, len(s.Alternatives))
	for _, a := range s.Alternatives {
		if _, dup := rows[a.ID]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate alternative %q", domain.ErrValidation, name, a.ID)
		}
		rows[a.ID] = a.Counts
	}
	alts, err := domain.NewAlternatives(s.Columns, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return alts, nil
}
