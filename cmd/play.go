package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Start the game menu, or a game directly",
	Long: `Start the interactive game menu. With a game name, that game starts
right away and the menu is shown once it ends.

Run "brainrush games" to list the available games.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		game := ""
		if len(args) == 1 {
			game = args[0]
		}
		return runApp(cmd, game)
	},
}
