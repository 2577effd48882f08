package main

import (
	"context"
	"fmt"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/spf13/cobra"
	"io"
	"text/tabwriter"
)

func newBoardCmd() *cobra.Command {
	var filter models.PipelineFilter

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print stages and candidates of active recruitments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				snapshot, err := a.sessions.GetOrPopulate(ctx, a.sessions.NewSessionKey(), filter)
				if err != nil {
					return err
				}
				return printBoard(cmd.OutOrStdout(), snapshot)
			})
		},
	}

	cmd.Flags().IntSliceVar(&filter.RecruitmentIDs, "recruitment", nil, "only these recruitment ids")
	cmd.Flags().StringVar(&filter.Search, "search", "", "candidate name or email fragment")
	cmd.Flags().BoolVar(&filter.IncludeClosed, "closed", false, "include closed recruitments")
	return cmd
}

func printBoard(out io.Writer, snapshot *models.PipelineSnapshot) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	for _, recruitment := range snapshot.Recruitments {
		fmt.Fprintf(w, "#%d %s\tvacancy %d\n", recruitment.ID, recruitment.Title, recruitment.Vacancy)
		for _, stage := range snapshot.RecruitmentStages(recruitment.ID) {
			fmt.Fprintf(w, "  [%d] %s (%s)\t%d\n", stage.ID, stage.Title, stage.StageType, snapshot.BadgeCount(stage.ID))
			for _, candidate := range snapshot.StageCandidates(stage.ID) {
				fmt.Fprintf(w, "    %d. %s\t%s\n", candidate.ID, candidate.Name, candidate.Email)
			}
		}
	}

	return w.Flush()
}
