package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainrush/internal/achievements"
	"github.com/abhisek/brainrush/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show best scores and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		game, _ := cmd.Flags().GetString("game")

		e, err := newEnv(cmd, envOptions{openStore: true})
		if err != nil {
			return err
		}
		defer e.Close()

		r, err := loadReport(context.Background(), e, store.QueryOpts{Limit: limit, Game: game})
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), r)
		return nil
	},
}

// statsReport is everything the stats command prints.
type statsReport struct {
	Best         []store.BestScore
	Sessions     []store.SessionRecord
	Categories   []store.CategoryAverage
	Unsynced     int
	Submissions  store.SubmissionStats
	Achievements []achievements.Award
}

func loadReport(ctx context.Context, e *env, opts store.QueryOpts) (statsReport, error) {
	var r statsReport
	var err error
	if r.Best, err = e.store.BestScores(ctx); err != nil {
		return r, fmt.Errorf("query best scores: %w", err)
	}
	if r.Sessions, err = e.store.RecentSessions(ctx, opts); err != nil {
		return r, fmt.Errorf("query sessions: %w", err)
	}
	insight := store.QueryOpts{Limit: store.DefaultInsightRounds, Game: opts.Game}
	if r.Categories, err = e.store.RecentCategoryAverages(ctx, insight); err != nil {
		return r, fmt.Errorf("query category averages: %w", err)
	}
	if r.Unsynced, err = e.store.UnsyncedRounds(ctx); err != nil {
		return r, fmt.Errorf("count unsynced rounds: %w", err)
	}
	if r.Submissions, err = e.store.Submissions(ctx); err != nil {
		return r, fmt.Errorf("query submissions: %w", err)
	}
	if r.Achievements, err = e.achievements.Earned(ctx); err != nil {
		return r, err
	}
	return r, nil
}

func init() {
	statsCmd.Flags().Int("limit", 20, "Maximum number of sessions to show")
	statsCmd.Flags().String("game", "", "Only show sessions of this game")
}

func printStats(w io.Writer, r statsReport) {
	if len(r.Sessions) == 0 && len(r.Best) == 0 {
		fmt.Fprintln(w, "No games played yet.")
		return
	}

	if len(r.Best) > 0 {
		fmt.Fprintf(w, "%-14s  %8s  %8s  %s\n", "Game", "Best", "Played", "Last")
		fmt.Fprintln(w, strings.Repeat("─", 52))
		for _, b := range r.Best {
			fmt.Fprintf(w, "%-14s  %8s  %8d  %s\n",
				b.Game, formatScore(b.Best), b.Sessions, b.Last.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(w)
	}

	if len(r.Sessions) > 0 {
		fmt.Fprintf(w, "%-16s  %-14s  %8s  %6s  %9s  %s\n",
			"When", "Game", "Score", "Rounds", "Correct", "Status")
		fmt.Fprintln(w, strings.Repeat("─", 72))
		for _, s := range r.Sessions {
			fmt.Fprintf(w, "%-16s  %-14s  %8s  %6d  %9s  %s\n",
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				s.Game,
				formatScore(s.Combined),
				s.Rounds,
				fmt.Sprintf("%d/%d", s.Correct, s.Questions),
				sessionStatus(s))
		}
		fmt.Fprintln(w)
	}

	if len(r.Categories) > 0 {
		fmt.Fprintf(w, "Average time per category, last %d rounds\n", store.DefaultInsightRounds)
		fmt.Fprintln(w, strings.Repeat("─", 40))
		for _, c := range r.Categories {
			fmt.Fprintf(w, "%-16s  %6d  %8.2fs\n", c.Category, c.Count, c.AvgTimeMs/1000)
		}
		fmt.Fprintln(w)
	}

	if len(r.Achievements) > 0 {
		fmt.Fprintf(w, "Achievements (%d/%d)\n", len(r.Achievements), len(achievements.All()))
		for _, a := range r.Achievements {
			fmt.Fprintf(w, "  🏆 %-20s %s\n", a.Name, a.Description)
		}
		fmt.Fprintln(w)
	}

	if r.Unsynced > 0 {
		fmt.Fprintf(w, "%d rounds saved locally only\n", r.Unsynced)
	}
	if r.Submissions.Total > 0 {
		fmt.Fprintf(w, "%d submissions, %d failed, %.0fms average\n", r.Submissions.Total, r.Submissions.Failed, r.Submissions.AvgMs)
	}
}

func sessionStatus(s store.SessionRecord) string {
	switch {
	case s.Flagged:
		return "flagged"
	case !s.Authoritative:
		return "local"
	default:
		return "✓"
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
