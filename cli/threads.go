package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/bench"
	"github.com/inferlab/ortbench/config"
	"github.com/inferlab/ortbench/results"
)

var threadCounts []int

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Run the intra-op thread scaling sweep",
	Long: `threads runs the repeated measurement protocol once per intra-op
thread count. Each count writes its own summary file; the sweep as a
whole writes the comparison table and its CSV twin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}
		if err := results.EnsureDir(cfg.ResultsDir); err != nil {
			return err
		}

		return withRuntime(cfg, func() error {
			sweep, err := bench.Sweep(cfg, threadCounts, bench.OpenSession, nil)
			if err != nil {
				return err
			}

			for _, t := range sweep {
				title := fmt.Sprintf("Thread Config Benchmark (%d threads)", t.Threads)
				if err := results.WriteResult(cfg.ResultsDir, title, t.Aggregate); err != nil {
					return err
				}
			}
			if err := results.WriteComprehensiveTable(cfg.ResultsDir, sweep); err != nil {
				return err
			}

			log.WithField("configs", len(sweep)).Info("Thread sweep complete")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(threadsCmd)
	threadsCmd.Flags().IntSliceVar(&threadCounts, "threads", config.DefaultThreadCounts,
		"intra-op thread counts to sweep")
}
