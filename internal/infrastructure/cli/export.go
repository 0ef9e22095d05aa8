package cli

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/storage"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the generated roadmap to a file",
	Long: `Export serializes the cached roadmap to a file. Markdown produces a
human-readable report; json and yaml are machine-readable and parse back
into an identical roadmap.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "export format: markdown, json, or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "roadmap.md", "output path")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	format, err := storage.ParseExportFormat(exportFormat)
	if err != nil {
		return err
	}

	if err := ws.Roadmaps.Export(format, exportOut); err != nil {
		return err
	}

	if wf, state, err := ws.LoadWorkflow(); err == nil {
		if err := wf.Advance(application.EventExport); err == nil {
			_ = ws.SaveStage(state, wf.Current())
		}
	}

	cmd.Printf("%s %s (%s)\n", okStyle.Render("Exported"), exportOut, format)
	return nil
}
