package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/parser"
)

var detectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect which specification convention the project uses",
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "output in JSON format")
	RootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	det, err := parser.Detect(ws.Root, ws.Logger)
	if err != nil {
		return err
	}

	wf, state, err := ws.LoadWorkflow()
	if err == nil && det.Format != parser.FormatUnknown {
		if err := wf.Advance(application.EventDetect); err == nil {
			_ = ws.SaveStage(state, wf.Current())
		}
	}

	if detectJSON {
		data, err := json.MarshalIndent(det, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(headerStyle.Render("Specification Detection"))
	cmd.Printf("\nFormat:     %s\n", det.Format)
	cmd.Printf("Confidence: %.0f%%\n", det.Confidence*100)
	if det.Paths.SpecRoot != "" {
		cmd.Printf("Spec root:  %s (%d feature folders)\n", det.Paths.SpecRoot, len(det.Paths.FeatureDirs))
	}
	docs := []struct{ label, path string }{
		{"Requirements", det.Paths.Requirements},
		{"Architecture", det.Paths.Architecture},
		{"Epics", det.Paths.Epics},
	}
	for _, d := range docs {
		if d.path != "" {
			cmd.Printf("%-13s %s\n", d.label+":", d.path)
		}
	}
	if det.Format == parser.FormatUnknown {
		cmd.Println(warnStyle.Render("\nNo specification documents recognized."))
		return fmt.Errorf("nothing to analyze under %s", ws.Root)
	}
	return nil
}
