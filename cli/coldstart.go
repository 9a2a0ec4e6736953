package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/bench"
	"github.com/inferlab/ortbench/config"
	"github.com/inferlab/ortbench/results"
)

var coldStartRounds int

var coldStartCmd = &cobra.Command{
	Use:   "coldstart",
	Short: "Measure the first-inference cold start against the stable regime",
	Long: `coldstart builds a fresh session per round, times its very first
inference against the stable statistics after warmup, and writes the
averaged comparison across all rounds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}
		if err := results.EnsureDir(cfg.ResultsDir); err != nil {
			return err
		}

		return withRuntime(cfg, func() error {
			res, err := bench.RepeatColdStart(cfg, coldStartRounds, bench.OpenSession, nil)
			if err != nil {
				return err
			}
			if err := results.WriteColdStart(cfg.ResultsDir, res); err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"rounds":    coldStartRounds,
				"cold_ms":   res.ColdStart,
				"stable_ms": res.Stable.Mean,
				"factor":    res.Factor,
			}).Info("Cold start benchmark complete")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(coldStartCmd)
	coldStartCmd.Flags().IntVar(&coldStartRounds, "rounds", config.DefaultColdStartRounds,
		"independent cold start rounds to average")
}
