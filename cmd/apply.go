package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"provisioner/internal/config"
	"provisioner/internal/engine"
	"provisioner/internal/logger"
	"provisioner/internal/state"
	"provisioner/internal/status"
)

// registryPath holds the path to the registry YAML file.
// It's passed via the `--config` or `-c` flag.
var registryPath string

// statePath is the path to the persistent artifact state file.
var statePath string

// applyCmd runs every setup entry of the registry in order.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run every setup entry of the registry against this machine",
	Run: func(cmd *cobra.Command, args []string) {
		registry := loadRegistry()

		// Attach the artifact state so re-runs skip unchanged downloads.
		rt := engine.NewRuntime()
		rt.State = state.Load(statePath)

		result := registry.Execute(rt)

		// Save updated artifact state after the run.
		state.Save(statePath, rt.State)

		if result == status.Failure {
			os.Exit(1)
		}
	},
}

// listCmd prints the registry's entries without running anything.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the setup entries of the registry",
	Run: func(cmd *cobra.Command, args []string) {
		registry := loadRegistry()
		for i, entry := range registry.Entries() {
			logger.Info("[INFO] %d: %s (%d commands, %d configs)\n",
				i+1, entry.Description(), len(entry.Commands()), len(entry.Configs()))
		}
	},
}

// loadRegistry loads the registry file or aborts the process. A malformed
// registry is the one unrecoverable condition: nothing is partially applied.
func loadRegistry() *engine.Registry {
	registry, err := config.Load(registryPath)
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
	return registry
}

// init sets up CLI flags and adds the commands to the root command.
func init() {
	// Global flags for the registry file and the artifact state file.
	applyCmd.Flags().StringVarP(&registryPath, "config", "c", "setup.yaml", "Path to registry file")
	applyCmd.Flags().StringVar(&statePath, "state", "state.json", "Path to artifact state file")
	listCmd.Flags().StringVarP(&registryPath, "config", "c", "setup.yaml", "Path to registry file")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(listCmd)
}
