package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gapmap/internal/infrastructure/wiring"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Global flags.
var (
	rootDir string
	verbose bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "gapmap",
	Version: Version,
	Short:   "Reconcile specification documents against the code that claims to implement them",
	Long: `Gapmap reads a project's specification documents and its source tree,
then answers three questions:
1. What does the spec say should exist?
2. What does the code actually contain?
3. In what order should the divergences be closed?`,
}

// Execute runs the CLI. Called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "project root (default: current directory)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadWorkspace wires services for the configured root.
func loadWorkspace() (*wiring.Workspace, error) {
	root := rootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}
	ws := wiring.NewWorkspace(root, verbose)
	if err := ws.Repo.Initialize(); err != nil {
		return nil, err
	}
	return ws, nil
}
