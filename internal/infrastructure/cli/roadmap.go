package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/domain/roadmap"
	"github.com/felixgeelhaar/gapmap/pkg/storage"
)

var (
	roadmapJSON      bool
	roadmapTeamSize  int
	roadmapMaxPhases int
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Score the analysis and pack it into a phased delivery roadmap",
	RunE:  runRoadmap,
}

func init() {
	roadmapCmd.Flags().BoolVar(&roadmapJSON, "json", false, "output in JSON format")
	roadmapCmd.Flags().IntVar(&roadmapTeamSize, "team-size", 1, "developers available per phase")
	roadmapCmd.Flags().IntVar(&roadmapMaxPhases, "max-phases", 0, "cap on phase count (default 4)")
	RootCmd.AddCommand(roadmapCmd)
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	var result application.AnalysisResult
	if err := ws.Repo.LoadDocument(storage.AnalysisFile, &result); err != nil {
		return fmt.Errorf("no cached analysis, run `gapmap analyze` first: %w", err)
	}

	rm, err := ws.Roadmaps.Generate(&result, roadmap.Context{
		TeamSize:  roadmapTeamSize,
		MaxPhases: roadmapMaxPhases,
	})
	if err != nil {
		return err
	}

	if wf, state, err := ws.LoadWorkflow(); err == nil {
		_ = wf.Advance(application.EventScore)
		if err := wf.Advance(application.EventPlan); err == nil {
			_ = ws.SaveStage(state, wf.Current())
		}
	}

	if roadmapJSON {
		data, err := json.MarshalIndent(rm, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	printRoadmap(cmd, rm)
	return nil
}

func printRoadmap(cmd *cobra.Command, rm *roadmap.Roadmap) {
	cmd.Println(headerStyle.Render("Delivery Roadmap"))
	cmd.Printf("\nTotal effort: %gh | 1 dev: %dw | 2 devs: %dw | 3 devs: %dw\n",
		rm.Timeline.TotalHours,
		rm.Timeline.ByTeamSize.OneDev,
		rm.Timeline.ByTeamSize.TwoDevs,
		rm.Timeline.ByTeamSize.ThreeDevs)

	for _, phase := range rm.Phases {
		cmd.Println(sectionStyle.Render(fmt.Sprintf("\nPhase %d: %s (%gh)", phase.Index, phase.Name, phase.EffortHours)))
		for _, id := range phase.Items {
			item := rm.Item(id)
			if item == nil {
				continue
			}
			prio := priorityStyle(string(item.Priority)).Render(string(item.Priority))
			cmd.Printf("  %s %s %s\n", prio, item.Title,
				dimStyle.Render(fmt.Sprintf("(ROI %.2f, %s)", item.ROI, item.Effort)))
		}
		for _, risk := range phase.Risks {
			cmd.Printf("  %s %s\n", warnStyle.Render("!"), dimStyle.Render(risk))
		}
	}

	if len(rm.Summary.NextSteps) > 0 {
		cmd.Println(sectionStyle.Render("\nNext steps"))
		for i, step := range rm.Summary.NextSteps {
			cmd.Printf("  %d. %s\n", i+1, step)
		}
	}
}
