package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/brainrush/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "brainrush",
	Short: "Timed arithmetic and memory games",
	Long:  "Brainrush: multi-round arithmetic and pattern memory games in the terminal, with optional leaderboard submission.",
	// Errors are printed by main.
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/brainrush/config.toml)")
	flags.String("db", "", "Path to SQLite database file (overrides BRAINRUSH_DB)")
	flags.String("server", "", "Leaderboard server URL (overrides BRAINRUSH_SERVER_URL)")
	flags.Bool("offline", false, "Keep every score local even when a server is configured")
	flags.Uint64("seed", 0, "Fix question generation with this seed")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
}

// loadConfig resolves defaults, .env, the config file, the environment
// and finally command-line flags, in increasing priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("load .env: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if u, _ := cmd.Flags().GetString("server"); u != "" {
		cfg.ServerURL = u
	}
	if off, _ := cmd.Flags().GetBool("offline"); off {
		cfg.ServerURL = ""
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	return cfg, nil
}
