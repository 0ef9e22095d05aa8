package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/gapmap/pkg/domain/feature"
	"github.com/felixgeelhaar/gapmap/pkg/parser"
)

var featuresJSON bool

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Check advertised features against the code that should back them",
	Long: `Features reads the project's overview documents, collects every claim
under a features-style heading, and scores each one by how much structural
evidence the code actually provides.`,
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().BoolVar(&featuresJSON, "json", false, "output in JSON format")
	RootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	advertised, err := parser.ExtractAdvertised(ws.Root)
	if err != nil {
		return err
	}
	if len(advertised) == 0 {
		cmd.Println("No advertised features found in the overview documents.")
		return nil
	}

	ix, _, err := ws.Analysis.Scanner().Scan(cmd.Context(), ws.Root)
	if err != nil {
		return err
	}
	findings := feature.NewAnalyzer(ws.Logger).Analyze(advertised, ix)

	if featuresJSON {
		data, err := json.MarshalIndent(findings, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(headerStyle.Render("Feature Completeness"))
	cmd.Println()
	for _, f := range findings {
		mark := okStyle.Render("✓")
		if f.IsUnsubstantiated() {
			mark = badStyle.Render("✗")
		} else if f.AccuracyScore < 100 {
			mark = warnStyle.Render("~")
		}
		cmd.Printf("%s %3d%% %s %s\n", mark, f.AccuracyScore, f.Advertised.Title,
			dimStyle.Render(fmt.Sprintf("(%s)", f.Advertised.Path)))
	}
	return nil
}
