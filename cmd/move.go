package main

import (
	"context"
	"fmt"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/services"
	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	var input services.BulkMoveInput

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move candidates into a stage and notify its managers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				outcomes, err := a.engine.BulkMove(ctx, input)
				if err != nil {
					return err
				}

				for _, outcome := range outcomes {
					printOutcome(cmd, outcome)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntSliceVar(&input.CandidateIDs, "candidate", nil, "candidate ids to move")
	cmd.Flags().IntVar(&input.StageID, "stage", 0, "target stage id")
	addActorFlags(cmd, &input.Actor)
	_ = cmd.MarkFlagRequired("candidate")
	_ = cmd.MarkFlagRequired("stage")
	return cmd
}

func addActorFlags(cmd *cobra.Command, actor *models.Actor) {
	cmd.Flags().IntVar(&actor.EmployeeID, "employee", 0, "acting employee id")
	cmd.Flags().BoolVar(&actor.Superuser, "superuser", false, "act without manager checks")
}

func printOutcome(cmd *cobra.Command, outcome services.Outcome) {
	switch {
	case outcome.Err != nil:
		fmt.Fprintf(cmd.OutOrStdout(), "candidate %d: %s: %v\n", outcome.CandidateID, outcome.Status, outcome.Err)
	case outcome.VacancyFilled:
		fmt.Fprintf(cmd.OutOrStdout(), "candidate %d: %s, vacancy filled with %d hired\n",
			outcome.CandidateID, outcome.Status, outcome.Hired)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "candidate %d: %s\n", outcome.CandidateID, outcome.Status)
	}
}
