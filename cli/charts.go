package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/charts"
)

var chartsOutput string

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render comparison charts from the result artifacts",
	Long: `charts reads the result files of both bindings from the results
directory and renders whichever comparison figures their inputs allow.
Missing inputs skip their chart; the rest still render.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}

		out := chartsOutput
		if out == "" {
			out = cfg.ResultsDir
		}
		g := &charts.Generator{ResultsDir: cfg.ResultsDir, OutputDir: out}
		rendered := g.All()

		log.WithField("rendered", rendered).Info("Chart generation finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().StringVarP(&chartsOutput, "output", "o", "", "chart output directory (defaults to the results directory)")
}
