package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/etatrack/internal/logging"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string

	appLog *logging.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "etatrack",
	Short: "Remaining-time estimation for unit-counted work",
	Long: `etatrack tracks "one unit done" signals from a task with a known
unit count and projects the remaining time from the most recent
completions.

It can simulate a paced run, attach to a shell pipeline, follow a
remote run over HTTP, and expose progress as JSON and Prometheus
metrics.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.etatrack/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default info)")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".etatrack"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("ETATRACK")
	viper.AutomaticEnv()
	viper.BindEnv("log_level", "ETATRACK_LOG_LEVEL")
	viper.BindEnv("tracing.endpoint", "ETATRACK_TRACING_ENDPOINT")

	viper.SetDefault("log_level", "info")
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.endpoint", "")
	viper.SetDefault("tracing.environment", "development")
	viper.SetDefault("tracing.sample_ratio", 1.0)

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()

	if logLevel == "" {
		logLevel = viper.GetString("log_level")
	}
	appLog = logging.New(logLevel, stderrIsTerminal())
}

// logger returns the process logger, initializing it if a command
// runs without the cobra lifecycle (tests).
func logger() *logging.Logger {
	if appLog == nil {
		appLog = logging.New("info", false)
	}
	return appLog
}

// stderrIsTerminal decides between console and JSON log lines.
func stderrIsTerminal() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
