package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/bench"
	"github.com/inferlab/ortbench/results"
)

var runLabel string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the baseline repeated inference benchmark",
	Long: `run executes the full measurement protocol: a fresh session per
repeat, warmup, timed iterations with inline RSS sampling, averaged
across repeats. It writes the summary, the per-repeat log and the raw
latency dump.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}
		if runLabel != "" {
			cfg.Label = runLabel
		}
		if err := results.EnsureDir(cfg.ResultsDir); err != nil {
			return err
		}

		return withRuntime(cfg, func() error {
			rep, err := bench.Repeat(cfg, bench.OpenSession, nil)
			if err != nil {
				return err
			}

			avg := rep.Average
			if err := results.WriteResult(cfg.ResultsDir, "Inference Benchmark", avg); err != nil {
				return err
			}
			if err := results.WriteDetailedLog(cfg.ResultsDir, rep); err != nil {
				return err
			}
			if err := results.WriteLatencySamples(cfg.ResultsDir, avg.Label, avg.Samples); err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"label":      avg.Label,
				"mean_ms":    avg.Stats.Mean,
				"p99_ms":     avg.Stats.P99,
				"fps":        avg.Stats.FPS,
				"stable_rss": avg.StableRSS,
			}).Info("Benchmark complete")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runLabel, "label", "", "result file label (defaults to the configured label)")
}
