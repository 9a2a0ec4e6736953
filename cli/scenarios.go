package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/bench"
	"github.com/inferlab/ortbench/config"
	"github.com/inferlab/ortbench/results"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios <set.yaml>",
	Short: "Run a YAML-described set of benchmark scenarios back to back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}

		set, err := config.LoadScenarioSet(args[0])
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"set":       set.Name,
			"scenarios": len(set.Scenarios),
		}).Info("Running scenario set")

		if err := results.EnsureDir(cfg.ResultsDir); err != nil {
			return err
		}

		return withRuntime(cfg, func() error {
			for _, sc := range set.Scenarios {
				runCfg := sc.Apply(cfg)
				log.WithFields(log.Fields{
					"scenario": sc.Name,
					"label":    runCfg.Label,
				}).Info("Starting scenario")

				rep, err := bench.Repeat(runCfg, bench.OpenSession, nil)
				if err != nil {
					return err
				}
				if err := results.WriteResult(runCfg.ResultsDir, sc.Name, rep.Average); err != nil {
					return err
				}
				if err := results.WriteDetailedLog(runCfg.ResultsDir, rep); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
