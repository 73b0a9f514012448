package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/ui/components"
)

var previewCmd = &cobra.Command{
	Use:   "preview GAME",
	Short: "Answer a round's questions without timers (no database)",
	Long: `Generate and interactively answer questions from one round of a game.

This is a stateless tool: no timers, no scoring and no history. Useful for
checking the questions a custom game definition produces.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int("round", 1, "Round number to draw questions from")
	previewCmd.Flags().Int("tier", 0, "Difficulty tier")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
}

func runPreview(cmd *cobra.Command, args []string) error {
	roundNum, _ := cmd.Flags().GetInt("round")
	tier, _ := cmd.Flags().GetInt("tier")
	count, _ := cmd.Flags().GetInt("count")
	if tier < 0 {
		return fmt.Errorf("invalid tier %d: must not be negative", tier)
	}

	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	cfg, err := e.catalog.Build(args[0], e.cfg.Seed)
	if err != nil {
		return err
	}
	if roundNum < 1 || roundNum > len(cfg.Rounds) {
		return fmt.Errorf("invalid round %d: %s has %d rounds", roundNum, cfg.Game, len(cfg.Rounds))
	}
	spec := cfg.Rounds[roundNum-1]

	fmt.Fprintf(cmd.OutOrStdout(), "Game: %s, round %d (%s), tier %d\n\n", cfg.Game, roundNum, spec.Name, tier)
	correct := preview(cmd.InOrStdin(), cmd.OutOrStdout(), spec.Generator, tier, count)
	fmt.Fprintf(cmd.OutOrStdout(), "── Summary: %d/%d correct ──\n", correct, count)
	return nil
}

// preview asks count questions and returns how many were answered
// correctly on the first try.
func preview(in io.Reader, out io.Writer, gen problemgen.Generator, tier, count int) int {
	scanner := bufio.NewScanner(in)
	correct := 0

	for i := 1; i <= count; i++ {
		q := gen.Generate(tier)

		fmt.Fprintf(out, "── Question %d/%d ──\n", i, count)
		if q.Kind == problemgen.KindPattern {
			fmt.Fprintln(out, components.Grid(q.GridSize, q.Pattern, true))
		}
		fmt.Fprintln(out, q.Expression)

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Fprintln(out, "(skipped)")
			fmt.Fprintln(out)
			continue
		}

		switch problemgen.CheckAnswer(answer, q) {
		case problemgen.Correct:
			correct++
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		case problemgen.Ignored:
			fmt.Fprintf(out, "(not an answer) Answer: %s\n", expected(q))
		default:
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", expected(q))
		}
		fmt.Fprintln(out)
	}
	return correct
}

func expected(q problemgen.Question) string {
	if q.Kind == problemgen.KindKey {
		return q.Target
	}
	if q.Kind == problemgen.KindPattern {
		cells := make([]string, len(q.Pattern))
		for i, c := range q.Pattern {
			cells[i] = c.String()
		}
		return strings.Join(cells, " ")
	}
	return strconv.FormatFloat(q.Answer, 'f', -1, 64)
}

