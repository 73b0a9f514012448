package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainrush/internal/games"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List available games",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		printGames(cmd.OutOrStdout(), e.catalog.List())
		return nil
	},
}

var gamesCheckCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Validate custom game definition files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := games.NewCatalog()
		failed := 0
		for _, path := range args {
			n, err := catalog.LoadFromFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %v\n", err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d games\n", path, n)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	gamesCmd.AddCommand(gamesCheckCmd)
}

func printGames(w io.Writer, defs []games.Definition) {
	fmt.Fprintf(w, "%-14s  %-24s  %6s  %-7s  %s\n", "Name", "Title", "Rounds", "Source", "Round names")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, d := range defs {
		source := "custom"
		if d.Builtin {
			source = "builtin"
		}
		var names []string
		for _, r := range d.Rounds {
			names = append(names, r.Name)
		}
		fmt.Fprintf(w, "%-14s  %-24s  %6d  %-7s  %s\n",
			d.Name, d.Title, len(d.Rounds), source, strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "\n%d games\n", len(defs))
}
