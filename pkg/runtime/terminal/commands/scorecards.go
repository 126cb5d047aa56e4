package commands

import (
	"os"
	"regexp"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
	"github.com/dash-tools/report-atlas/pkg/services/report"
	"github.com/spf13/cobra"
)

// ScorecardRenderer renders extracted summary metrics to the terminal.
type ScorecardRenderer interface {
	HandleScorecards(metrics []domain.SummaryMetric, failures []domain.RowFailure) error
}

type ScorecardsCmd struct {
	input      string
	configPath string
	renderer   ScorecardRenderer
}

func NewScorecardsCmd(renderer ScorecardRenderer) *cobra.Command {
	sc := &ScorecardsCmd{renderer: renderer}
	cmd := &cobra.Command{
		Use:   "scorecards",
		Short: "Extract summary metrics from scorecard text blocks",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.input, "input", "", "Path to a text file with one scorecard block per paragraph")
	cmd.Flags().StringVar(&sc.configPath, "config", "", "Path to the extraction config file")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

var blockSeparator = regexp.MustCompile(`\r?\n\s*\r?\n`)

func (sc *ScorecardsCmd) run(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(sc.input)
	if err != nil {
		return err
	}

	cfg := report.DefaultConfig()
	if sc.configPath != "" {
		loaded, err := report.LoadConfig(sc.configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	blocks := blockSeparator.Split(string(content), -1)
	metrics, failures := report.NewExtractor(cfg).ExtractScorecards(blocks)

	return sc.renderer.HandleScorecards(metrics, failures)
}
