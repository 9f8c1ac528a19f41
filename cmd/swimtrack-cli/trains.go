package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/session"
	"github.com/swimtrack/swimtrack/internal/storage"
	"github.com/swimtrack/swimtrack/internal/views"
)

var (
	trainsTitle   string
	trainsOffline bool
	trainsLimit   int
)

var trainsCmd = &cobra.Command{
	Use:     "trains",
	Aliases: []string{"t"},
	Short:   "List, show and delete your trainings",
}

var trainsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your trainings",
	Long: `List your trainings, newest first.

OUTPUT FORMAT:

  Each line shows: ID  PUBLISHED  TITLE  METERS  (@CREATOR)
  followed by the one-line series summary for structured trainings.

EXAMPLES:

  swimtrack trains list                  # Everything you created
  swimtrack trains list --title fondo    # Title contains "fondo"
  swimtrack trains list --offline        # Read the local cache only`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		owner := 0
		if u := state.sess.User(); u != nil {
			owner = u.ID
		}
		if trainsOffline {
			list, err := cachedTrains(cmd, storage.ListFilter{Title: trainsTitle, CreatorID: owner, Limit: trainsLimit})
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), views.NewTrainViews(list))
			return nil
		}
		if owner == 0 {
			return fmt.Errorf("%w: run 'swimtrack login' first", session.ErrNotAuthenticated)
		}
		list, err := state.source.SearchTrains(cmd.Context(), trainsTitle)
		if err != nil {
			return fmt.Errorf("listing trainings: %w", err)
		}
		printList(cmd.OutOrStdout(), limit(views.NewTrainViews(list), trainsLimit))
		return nil
	},
}

var trainsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one training block by block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := state.source.GetTrain(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("training %d: %w", id, err)
		}
		v := views.NewTrainView(*t)
		api := state.sess.Client()
		if g, err := api.GlobalRate(cmd.Context(), id); err == nil {
			mine := 0
			if state.sess.IsAuthenticated() {
				mine, _ = api.MyRate(cmd.Context(), id)
			}
			r := views.NewRatingView(*g, mine)
			v.Rating = &r
		} else {
			state.log.Debug("rating unavailable", "train", id, "error", err)
		}
		printTrain(cmd.OutOrStdout(), v)
		return nil
	},
}

var trainsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete one of your trainings",
	Long: `Delete a training on the Remote Data Service and drop it from the
local cache.

CAUTION:

  This permanently deletes the training. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := state.sess.Client().DeleteTrain(cmd.Context(), id); err != nil {
			return fmt.Errorf("deleting training %d: %w", id, err)
		}
		if err := state.cache.DeleteTrain(cmd.Context(), id); err != nil {
			state.log.Warn("dropping cached training failed", "train", id, "error", err)
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Deleted training %d\n", id)
		return nil
	},
}

var trainsRateCmd = &cobra.Command{
	Use:   "rate <id> <1-5>",
	Short: "Rate a training",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating %q", args[1])
		}
		if _, err := state.sess.RequireUser(); err != nil {
			return fmt.Errorf("%w: run 'swimtrack login' first", err)
		}
		if err := state.sess.Client().Rate(cmd.Context(), id, value); err != nil {
			return err
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Rated training %d with %d\n", id, value)
		return nil
	},
}

func init() {
	trainsListCmd.Flags().StringVar(&trainsTitle, "title", "", "filter by title substring")
	trainsListCmd.Flags().BoolVar(&trainsOffline, "offline", false, "read the local cache only")
	trainsListCmd.Flags().IntVarP(&trainsLimit, "limit", "n", 0, "show at most n trainings")
	trainsCmd.AddCommand(trainsListCmd, trainsShowCmd, trainsDeleteCmd, trainsRateCmd)
	rootCmd.AddCommand(trainsCmd)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid training id %q", s)
	}
	return id, nil
}

func cachedTrains(cmd *cobra.Command, f storage.ListFilter) ([]models.Train, error) {
	rows, err := state.source.Cached(cmd.Context(), f)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	out := make([]models.Train, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Train)
	}
	return out, nil
}

func limit[T any](list []T, n int) []T {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}
