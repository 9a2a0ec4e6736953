package cli

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/bench"
	"github.com/inferlab/ortbench/results"
)

var (
	stabilityDuration time.Duration
	stabilityProgress int
)

var stabilityCmd = &cobra.Command{
	Use:   "stability",
	Short: "Run continuous inference for a fixed duration, tracking RSS",
	Long: `stability runs inference back to back for the given duration,
recording a timestamped RSS curve. It writes the stability summary plus
the curve CSV the memory chart is drawn from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}
		if err := results.EnsureDir(cfg.ResultsDir); err != nil {
			return err
		}

		return withRuntime(cfg, func() error {
			sess, err := bench.OpenSession(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := sess.Close(); err != nil {
					log.WithError(err).Warn("session close failed")
				}
			}()

			res, err := bench.MeasureStability(cfg, stabilityDuration, stabilityProgress, sess, nil)
			if err != nil {
				return err
			}
			if err := results.WriteStability(cfg.ResultsDir, res); err != nil {
				return err
			}
			if err := results.WriteRSSCurve(cfg.ResultsDir, res.Curve); err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"inferences": res.Inferences,
				"rate":       res.Rate,
				"drift_mb":   res.Drift,
			}).Info("Stability benchmark complete")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(stabilityCmd)
	stabilityCmd.Flags().DurationVar(&stabilityDuration, "duration", 10*time.Minute,
		"continuous inference duration")
	stabilityCmd.Flags().IntVar(&stabilityProgress, "progress-every", 100,
		"log progress every N inferences (0 disables)")
}
