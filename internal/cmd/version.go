package cmd

import (
	"fmt"

	"github.com/hindiconfession/cli/pkg/output"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X .../internal/cmd.Version=..."
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(output.Writer(), "Hindi Confession CLI v%s\n", Version)
	},
}
