package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/swimtrack/swimtrack/internal/storage"
	"github.com/swimtrack/swimtrack/internal/views"
)

var (
	communityTitle   string
	communityOffline bool
)

var communityCmd = &cobra.Command{
	Use:   "community",
	Short: "List trainings shared by the community",
	Long: `List the trainings every swimmer can see. No login is needed.

EXAMPLES:

  swimtrack community                   # All shared trainings
  swimtrack community --title técnica   # Title contains "técnica"
  swimtrack community --offline         # Shared trainings seen before`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if communityOffline {
			list, err := cachedTrains(cmd, storage.ListFilter{Title: communityTitle, Community: true})
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), views.NewTrainViews(list))
			return nil
		}
		list, err := state.source.Community(cmd.Context(), communityTitle)
		if err != nil {
			return fmt.Errorf("listing community: %w", err)
		}
		printList(cmd.OutOrStdout(), views.NewTrainViews(list))
		return nil
	},
}

func init() {
	communityCmd.Flags().StringVar(&communityTitle, "title", "", "filter by title substring")
	communityCmd.Flags().BoolVar(&communityOffline, "offline", false, "read the local cache only")
	rootCmd.AddCommand(communityCmd)
}
