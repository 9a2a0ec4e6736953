// Package cli wires the benchmark harness into an ortbench command
// tree. Configuration is layered flags > config file > defaults; the
// merged view is materialized once per invocation so every subcommand
// sees the same Run.
package cli

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inferlab/ortbench/bench"
	"github.com/inferlab/ortbench/config"
)

var (
	cfgFile    string
	resultsDir string
)

var rootCmd = &cobra.Command{
	Use:   "ortbench",
	Short: "ortbench - ONNX Runtime inference benchmark harness",
	Long: `ortbench measures inference latency, cold start behavior, thread
scaling and long-run memory stability of an ONNX model and writes the
result artifacts a companion harness in another binding can be compared
against.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(viper.GetString("verbosity"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		return nil
	},
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringP("verbosity", "v", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&resultsDir, "results", "r", "", "results directory (overrides config)")

	_ = viper.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbosity"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return
	}
	viper.SetConfigName("ortbench")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
}

// loadRun materializes the merged configuration: defaults, then the
// config file if one exists, then flag overrides.
func loadRun() (config.Run, error) {
	run := config.DefaultRun()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return run, err
		}
	} else {
		log.WithField("file", viper.ConfigFileUsed()).Debug("Config file loaded")
	}

	if err := viper.Unmarshal(&run); err != nil {
		return run, err
	}
	if resultsDir != "" {
		run.ResultsDir = resultsDir
	}
	return run, run.Validate()
}

// withRuntime initializes the shared onnxruntime library around fn.
func withRuntime(cfg config.Run, fn func() error) error {
	if err := bench.InitRuntime(cfg.LibraryPath); err != nil {
		return err
	}
	defer bench.ShutdownRuntime()
	return fn()
}
