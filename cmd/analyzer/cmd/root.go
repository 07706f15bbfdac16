package cmd

import (
	"fmt"
	"os"

	"golang-statement-analyzer/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Bank statement analysis tool",
	Long: `A command-line tool for analyzing bank statement workbooks.
It detects recurring income and expense patterns, flags suspicious
transaction activity, and surfaces product recommendations backed by
account usage.

Examples:
  analyzer analyze --statement-file statement.xlsx
  analyzer analyze --statement-file statement.xlsx --output-format json --output-file report.json
  analyzer analyze --statement-file statement.xlsx --profile strict --verbose
  analyzer version`,
	Version:       getVersionString(),
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.analyzer.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	// Read environment variables that match
	viper.SetEnvPrefix("ANALYZER")
	viper.AutomaticEnv()

	// Verbose runs switch the global logger to debug output on stderr
	if viper.GetBool("verbose") {
		if debugLogger, err := logger.NewLogger(logger.DebugConfig()); err == nil {
			logger.SetGlobalLogger(debugLogger)
		}
	}
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

// getVersionString returns a formatted version string
func getVersionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}
