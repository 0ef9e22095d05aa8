package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gapmap/internal/infrastructure/watch"
	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/storage"
)

var watchQuiet time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis whenever specs or source files change",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchQuiet, "debounce", 500*time.Millisecond, "quiet window before re-analyzing")
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	rerun := func(batch []watch.Change) {
		specChanges, sourceChanges := 0, 0
		for _, c := range batch {
			if c.Kind == watch.KindSpec {
				specChanges++
			} else {
				sourceChanges++
			}
		}
		cmd.Printf("%s %d spec, %d source file(s) changed, re-analyzing\n",
			dimStyle.Render(time.Now().Format("15:04:05")), specChanges, sourceChanges)

		result, err := ws.Analysis.Analyze(cmd.Context(), ws.Root, application.AnalysisOptions{})
		if err != nil {
			cmd.Println(badStyle.Render("analysis failed: " + err.Error()))
			return
		}
		if err := ws.Repo.SaveDocument(storage.AnalysisFile, result); err != nil {
			ws.Logger.Warn("caching analysis failed", "error", err)
		}
		printAnalysis(cmd, result)
	}

	w, err := watch.New(watchQuiet, rerun, ws.Logger)
	if err != nil {
		return err
	}
	if err := w.WatchTree(ws.Root); err != nil {
		return err
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", ws.Root)
	return w.Run(cmd.Context())
}
