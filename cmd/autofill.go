package main

import (
	"context"
	"encoding/json"
	"github.com/maxaizer/recruitment-funnel/internal/services"
	"github.com/spf13/cobra"
	"os"
)

func newAutofillCmd() *cobra.Command {
	var parse bool

	cmd := &cobra.Command{
		Use:   "autofill <file.pdf>",
		Short: "Guess contact fields from a PDF résumé",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")

			if !parse {
				return encoder.Encode(services.AutofillDocument(content))
			}

			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				return encoder.Encode(a.intake.Complete(ctx, content))
			})
		},
	}

	cmd.Flags().BoolVar(&parse, "parse", false, "also ask the configured parser for structured sections")
	return cmd
}
