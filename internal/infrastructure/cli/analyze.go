package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/storage"
)

var (
	analyzeJSON bool
	analyzeAsIs bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Diff the specification against the code and list the gaps",
	Long: `Analyze parses the project's specification documents, extracts structural
facts from the source tree, and reports every requirement that is missing,
stubbed, or incomplete, alongside advertised features with no code behind
them. The result is cached for the roadmap and export commands.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output in JSON format")
	analyzeCmd.Flags().BoolVar(&analyzeAsIs, "as-is", false, "treat the project as documented in its current state (parses the architecture document)")
	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	result, err := ws.Analysis.Analyze(cmd.Context(), ws.Root, application.AnalysisOptions{AsIs: analyzeAsIs})
	if err != nil {
		return err
	}

	if err := ws.Repo.SaveDocument(storage.AnalysisFile, result); err != nil {
		return fmt.Errorf("cache analysis: %w", err)
	}
	if wf, state, err := ws.LoadWorkflow(); err == nil {
		_ = wf.Advance(application.EventDetect)
		if err := wf.Advance(application.EventAnalyze); err == nil {
			state.SpecCount = result.Stats.SpecCount
			state.GapCount = result.Stats.GapCount
			_ = ws.SaveStage(state, wf.Current())
		}
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	printAnalysis(cmd, result)
	return nil
}

func printAnalysis(cmd *cobra.Command, result *application.AnalysisResult) {
	cmd.Println(headerStyle.Render("Gap Analysis"))
	cmd.Printf("\n%d specs, %d requirements, %d files, %d functions\n",
		result.Stats.SpecCount, result.Stats.RequirementCount,
		result.Stats.FileCount, result.Stats.FunctionCount)

	if len(result.Gaps) == 0 {
		cmd.Println(okStyle.Render("\nNo gaps: every requirement has a matching implementation."))
	} else {
		cmd.Println(sectionStyle.Render(fmt.Sprintf("\nGaps (%d)", len(result.Gaps))))
		for _, g := range result.Gaps {
			prio := priorityStyle(string(g.Priority)).Render(string(g.Priority))
			cmd.Printf("  %s %-10s %s %s\n", prio, g.Category, g.Description,
				dimStyle.Render(fmt.Sprintf("(%d%% confident, %s)", g.Confidence, g.Effort)))
		}
	}

	unsubstantiated := 0
	for _, f := range result.Findings {
		if f.IsUnsubstantiated() {
			unsubstantiated++
		}
	}
	if unsubstantiated > 0 {
		cmd.Println(sectionStyle.Render(fmt.Sprintf("\nAdvertised but unimplemented (%d)", unsubstantiated)))
		for _, f := range result.Findings {
			if f.IsUnsubstantiated() {
				cmd.Printf("  %s %s %s\n", badStyle.Render("✗"), f.Advertised.Title,
					dimStyle.Render("("+f.Advertised.Path+")"))
			}
		}
	}
}
