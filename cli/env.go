package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/results"
	"github.com/inferlab/ortbench/sysinfo"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Collect the host environment report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}

		info := sysinfo.Collect(cfg.LibraryPath)
		report := info.Render()
		fmt.Print(report)

		if err := results.EnsureDir(cfg.ResultsDir); err != nil {
			return err
		}
		path := sysinfo.ReportPath(cfg.ResultsDir)
		if err := results.WriteTextFile(path, report); err != nil {
			return err
		}
		log.WithField("path", path).Info("Environment report written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
