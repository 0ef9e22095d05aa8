package cli

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gapmap/pkg/application"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the pipeline stands and what to run next",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	RootCmd.AddCommand(statusCmd)
}

// nextCommand suggests the command that advances the pipeline.
var nextCommand = map[string]string{
	application.StateInitial:  "gapmap analyze",
	application.StateDetected: "gapmap analyze",
	application.StateAnalyzed: "gapmap roadmap",
	application.StateScored:   "gapmap roadmap",
	application.StatePlanned:  "gapmap export",
	application.StateExported: "done (re-run gapmap analyze after changes)",
}

func runStatus(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	state, err := ws.Repo.LoadState()
	if err != nil {
		return err
	}
	stage := state.Stage
	if stage == "" {
		stage = application.StateInitial
	}

	if statusJSON {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(headerStyle.Render("Workspace Status"))
	cmd.Printf("\nRoot:  %s\n", ws.Root)
	cmd.Printf("Stage: %s\n", stage)
	if !state.UpdatedAt.IsZero() {
		cmd.Printf("Last run: %s\n", state.UpdatedAt.Format("2006-01-02 15:04 UTC"))
	}
	if state.SpecCount > 0 || state.GapCount > 0 {
		cmd.Printf("Specs: %d | Gaps: %d\n", state.SpecCount, state.GapCount)
	}

	if rm, err := ws.Repo.LoadRoadmap(); err == nil {
		counts := make([]string, 0, len(rm.Summary.ByPriority))
		for prio, n := range rm.Summary.ByPriority {
			counts = append(counts, string(prio)+":"+strconv.Itoa(n))
		}
		sort.Strings(counts)
		cmd.Printf("Roadmap: %d items in %d phases ", len(rm.AllItems), len(rm.Phases))
		cmd.Println(dimStyle.Render("(" + strings.Join(counts, ", ") + ")"))
	}

	cmd.Printf("\nNext: %s\n", sectionStyle.Render(nextCommand[stage]))
	return nil
}
