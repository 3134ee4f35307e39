package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCorrectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "Show recent AI parse corrections",
		Long: `Lists the corrections recorded when you edited an AI parse before saving.
These examples are fed back into the parser as few-shot context, so this is
what the model is currently learning from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return run(cmd, func(ctx context.Context, a *app) error {
				corrections, err := a.db.RecentCorrections(ctx, a.ownerID, limit)
				if err != nil {
					return err
				}
				if len(corrections) == 0 {
					fmt.Println("No corrections recorded yet.")
					return nil
				}
				for i, c := range corrections {
					if i > 0 {
						fmt.Println()
					}
					fmt.Printf("%d. Input: %s\n", i+1, c.OriginalText)
					fmt.Printf("   AI parsed:        %s\n", c.AIOutput)
					fmt.Printf("   You corrected to: %s\n", c.UserOutput)
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", 10, "Maximum number of corrections to show")
	return cmd
}
