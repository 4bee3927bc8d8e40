package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/tourgen/internal/config"
	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/tourcsv"
	"github.com/pkordes/tourgen/internal/tours"
)

type expandOptions struct {
	category     string
	alternatives string
	input        string
	workers      int
}

func newExpandCmd() *cobra.Command {
	var opts expandOptions
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand a CSV of tour frequency choices and write the tours as CSV.",
		Long: `Expand a CSV of tour frequency choices and write the tours as CSV. ` +
			`mandatory reads persons (person_id, mandatory_tour_frequency, ` +
			`is_worker, school_taz, workplace_taz); non_mandatory and joint read ` +
			`choices keyed by person_id or household_id; subtour reads work tours ` +
			`(tour_id, person_id, tour_num, atwork_subtour_frequency), which may be ` +
			`mandatory expand output with the choice column added; its rows must ` +
			`then all be mandatory work tours.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if opts.input != "-" {
				f, err := os.Open(opts.input)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			out, err := runExpand(cmd.Context(), opts, in)
			if err != nil {
				return err
			}
			return tourcsv.WriteTours(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&opts.category, "category", "", "mandatory, non_mandatory, subtour or joint")
	cmd.Flags().StringVar(&opts.alternatives, "alternatives", defaultAlternatives, "alternatives YAML file")
	cmd.Flags().StringVar(&opts.input, "input", "-", "input CSV file, - for stdin")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "owner partitions expanded concurrently")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runExpand(ctx context.Context, opts expandOptions, in io.Reader) ([]domain.Tour, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	alts, err := config.LoadAlternatives(opts.alternatives)
	if err != nil {
		return nil, err
	}
	proc := tours.Processor{Workers: opts.workers}

	kind := domain.RunKind(opts.category)
	switch kind {
	case domain.RunMandatory:
		persons, err := tourcsv.ReadPersons(in)
		if err != nil {
			return nil, err
		}
		chosen := make([]domain.Person, 0, len(persons))
		for _, p := range persons {
			if p.MandatoryTourFrequency != "" {
				chosen = append(chosen, p)
			}
		}
		return proc.Mandatory(ctx, chosen, alts.Mandatory)

	case domain.RunNonMandatory:
		choices, err := tourcsv.ReadChoices(in, domain.OwnerPerson, tourcsv.ChoiceColumn(kind))
		if err != nil {
			return nil, err
		}
		return proc.NonMandatory(ctx, domain.Chosen(choices), alts.NonMandatory)

	case domain.RunSubtour:
		workTours, err := tourcsv.ReadWorkTours(in)
		if err != nil {
			return nil, err
		}
		return proc.AtWorkSubtours(ctx, workTours, alts.AtWorkSubtour)

	case domain.RunJoint:
		choices, err := tourcsv.ReadChoices(in, domain.OwnerHousehold, tourcsv.ChoiceColumn(kind))
		if err != nil {
			return nil, err
		}
		return proc.Joint(ctx, domain.Chosen(choices), alts.Joint)
	}
	return nil, fmt.Errorf("unknown category %q, want mandatory, non_mandatory, subtour or joint", opts.category)
}
