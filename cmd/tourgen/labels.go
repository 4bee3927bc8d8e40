package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkordes/tourgen/internal/config"
	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/tours"
)

func newLabelsCmd() *cobra.Command {
	var (
		space        string
		alternatives string
	)
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Print a canonical tour label space, one rank and label per line.",
		Long: `Print a canonical tour label space, one rank and label per line. ` +
			`The person space is fixed; the joint space is derived from the ` +
			`joint alternatives table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ls *tours.LabelSpace
			switch domain.IDSpace(space) {
			case domain.SpacePerson:
				ls = tours.PersonSpace()
			case domain.SpaceJoint:
				alts, err := config.LoadAlternatives(alternatives)
				if err != nil {
					return err
				}
				if ls, err = tours.JointSpace(alts.Joint); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown id space %q, want person or joint", space)
			}

			out := cmd.OutOrStdout()
			for rank, label := range ls.Labels() {
				if _, err := fmt.Fprintf(out, "%d\t%s\n", rank, label); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&space, "space", string(domain.SpacePerson), "id space: person or joint")
	cmd.Flags().StringVar(&alternatives, "alternatives", defaultAlternatives, "alternatives YAML file (joint space only)")
	return cmd
}
