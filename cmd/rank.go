package main

import (
	"context"
	"encoding/json"
	"github.com/spf13/cobra"
)

type rankedRow struct {
	ResumeID     int    `json:"resume_id"`
	FileName     string `json:"file_name"`
	MatchCount   int    `json:"match_count"`
	Claimed      bool   `json:"claimed"`
	ScannedImage bool   `json:"scanned_image"`
}

func newRankCmd() *cobra.Command {
	var recruitmentID int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank a recruitment's résumés by matched skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				ranked, err := a.intake.Rank(ctx, recruitmentID)
				if err != nil {
					return err
				}

				rows := make([]rankedRow, 0, len(ranked))
				for _, r := range ranked {
					rows = append(rows, rankedRow{
						ResumeID:     r.Resume.ID,
						FileName:     r.Resume.FileName,
						MatchCount:   r.MatchCount,
						Claimed:      r.Resume.Claimed,
						ScannedImage: r.ScannedImage,
					})
				}

				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(rows)
			})
		},
	}

	cmd.Flags().IntVar(&recruitmentID, "recruitment", 0, "recruitment id")
	_ = cmd.MarkFlagRequired("recruitment")
	return cmd
}
