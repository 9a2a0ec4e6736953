package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/checksum"
	"github.com/inferlab/ortbench/results"
)

var checksumCmd = &cobra.Command{
	Use:   "checksum [file...]",
	Short: "Write the MD5 report of the model files under test",
	Long: `checksum digests the configured model file plus any extra files given
as arguments and writes the report both harnesses use to confirm they
benchmarked identical bytes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}

		paths := append([]string{cfg.ModelPath}, args...)
		digests, err := checksum.DigestFiles(paths)
		if err != nil {
			return err
		}
		for _, d := range digests {
			if d.Missing {
				log.WithField("path", d.Path).Warn("Model file missing")
			}
		}

		report := checksum.Render(digests)
		fmt.Print(report)

		if err := results.EnsureDir(cfg.ResultsDir); err != nil {
			return err
		}
		path := checksum.ReportPath(cfg.ResultsDir)
		if err := results.WriteTextFile(path, report); err != nil {
			return err
		}
		log.WithField("path", path).Info("Checksum report written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checksumCmd)
}
