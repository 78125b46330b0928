package cmd

import (
	"github.com/spf13/cobra"

	"provisioner/internal/distro"
	"provisioner/internal/logger"
)

// detectCmd prints the Linux distribution the guard would match against.
// Useful for debugging why distribution-restricted commands are skipped.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Print the detected Linux distribution",
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("[INFO] Detected distribution: %s\n", distro.Identify())
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
