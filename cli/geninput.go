package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inferlab/ortbench/config"
	"github.com/inferlab/ortbench/input"
)

var genInputSeed uint64

var genInputCmd = &cobra.Command{
	Use:   "geninput",
	Short: "Generate the shared deterministic input tensor file",
	Long: `geninput writes the flat little-endian float32 input file both
language bindings load, produced by the shared linear congruential
generator so the same seed yields identical bytes everywhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRun()
		if err != nil {
			return err
		}

		shape := make([]int, len(cfg.InputShape))
		for i, d := range cfg.InputShape {
			shape[i] = int(d)
		}

		t, err := input.Generate(genInputSeed, shape...)
		if err != nil {
			return err
		}
		if err := input.WriteFile(t, cfg.InputDataPath); err != nil {
			return err
		}

		sum, err := input.Summarize(t)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"path":     cfg.InputDataPath,
			"elements": sum.Elements,
			"size_mb":  sum.SizeMB,
			"min":      sum.Min,
			"max":      sum.Max,
			"mean":     sum.Mean,
		}).Info("Input data written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genInputCmd)
	genInputCmd.Flags().Uint64Var(&genInputSeed, "seed", config.DefaultSeed, "generator seed")
}
