package cmd

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, commit and Go toolchain",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		printVersion(cmd.OutOrStdout(), version, info)
	},
}

// printVersion writes the release version followed by the VCS details Go
// stamps into the binary, when there are any.
func printVersion(w io.Writer, v string, info *debug.BuildInfo) {
	if info == nil {
		fmt.Fprintln(w, "brainrush", v)
		return
	}
	if v == "(devel)" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	fmt.Fprintln(w, "brainrush", v)

	var rev, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if rev != "" {
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if modified == "true" {
			rev += "-dirty"
		}
		fmt.Fprintln(w, "  commit:", rev)
	}
	fmt.Fprintln(w, "  go:    ", info.GoVersion)
}
