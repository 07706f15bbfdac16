package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang-statement-analyzer/cmd/analyzer/config"
	"golang-statement-analyzer/internal/analysis"
	"golang-statement-analyzer/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	statementFile       string
	outputFormat        string
	outputFile          string
	thresholdProfile    string
	workbookProfile     string
	transactionSheet    string
	balanceSheet        string
	skipBalances        bool
	velocityLimit       int
	largeTransaction    float64
	digitalRatio        float64
	maxRowErrors        int
	detailedBreakdown   bool
	includeBalanceTrend bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a bank statement workbook",
	Long: `Analyze transactions and EOD balances from a bank statement workbook.

The analyze command reads the transaction and balance sheets from an
Excel statement export, detects recurring income and expense patterns,
flags suspicious activity, and evaluates product recommendations.

Examples:
  # Basic analysis with console output
  analyzer analyze --statement-file statement.xlsx

  # JSON report written to a file
  analyzer analyze --statement-file statement.xlsx --output-format json --output-file report.json

  # Strict fraud thresholds with a custom velocity limit
  analyzer analyze --statement-file statement.xlsx --profile strict --velocity-limit 3

  # Alternate workbook layout without an EOD balance sheet
  analyzer analyze --statement-file statement.xlsx --workbook-profile SBI --skip-balances`,
	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Required flags
	analyzeCmd.Flags().StringVarP(&statementFile, "statement-file", "s", "", "path to the statement workbook (required)")
	analyzeCmd.MarkFlagRequired("statement-file")

	// Output flags
	analyzeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format (console, json, csv)")
	analyzeCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Workbook layout flags
	analyzeCmd.Flags().StringVar(&workbookProfile, "workbook-profile", "Standard", "workbook layout profile (Standard, HDFC, ICICI, SBI)")
	analyzeCmd.Flags().StringVar(&transactionSheet, "transaction-sheet", "", "transaction sheet name (overrides the workbook profile)")
	analyzeCmd.Flags().StringVar(&balanceSheet, "balance-sheet", "", "EOD balance sheet name (overrides the workbook profile)")
	analyzeCmd.Flags().BoolVar(&skipBalances, "skip-balances", false, "skip the EOD balance sheet entirely")
	analyzeCmd.Flags().IntVar(&maxRowErrors, "max-row-errors", -1, "invalid rows tolerated before the parse fails (-1 uses the profile value)")

	// Threshold flags
	analyzeCmd.Flags().StringVarP(&thresholdProfile, "profile", "p", "default", "threshold profile (default, strict, relaxed)")
	analyzeCmd.Flags().IntVar(&velocityLimit, "velocity-limit", 0, "hourly transaction count above which activity is flagged (0 uses the profile value)")
	analyzeCmd.Flags().Float64Var(&largeTransaction, "large-transaction", 0, "amount above which a transaction counts as large (0 uses the profile value)")
	analyzeCmd.Flags().Float64Var(&digitalRatio, "digital-ratio", 0, "digital usage ratio that triggers card recommendations (0 uses the profile value)")

	// Report content flags
	analyzeCmd.Flags().BoolVar(&detailedBreakdown, "detailed", true, "include per-amount and per-hour breakdowns")
	analyzeCmd.Flags().BoolVar(&includeBalanceTrend, "balance-trend", true, "include the monthly balance trend")

	// Bind flags to viper
	viper.BindPFlag("statement-file", analyzeCmd.Flags().Lookup("statement-file"))
	viper.BindPFlag("output-format", analyzeCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", analyzeCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("workbook-profile", analyzeCmd.Flags().Lookup("workbook-profile"))
	viper.BindPFlag("transaction-sheet", analyzeCmd.Flags().Lookup("transaction-sheet"))
	viper.BindPFlag("balance-sheet", analyzeCmd.Flags().Lookup("balance-sheet"))
	viper.BindPFlag("skip-balances", analyzeCmd.Flags().Lookup("skip-balances"))
	viper.BindPFlag("max-row-errors", analyzeCmd.Flags().Lookup("max-row-errors"))
	viper.BindPFlag("profile", analyzeCmd.Flags().Lookup("profile"))
	viper.BindPFlag("velocity-limit", analyzeCmd.Flags().Lookup("velocity-limit"))
	viper.BindPFlag("large-transaction", analyzeCmd.Flags().Lookup("large-transaction"))
	viper.BindPFlag("digital-ratio", analyzeCmd.Flags().Lookup("digital-ratio"))
	viper.BindPFlag("detailed", analyzeCmd.Flags().Lookup("detailed"))
	viper.BindPFlag("balance-trend", analyzeCmd.Flags().Lookup("balance-trend"))
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	statementFile = viper.GetString("statement-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	workbookProfile = viper.GetString("workbook-profile")
	transactionSheet = viper.GetString("transaction-sheet")
	balanceSheet = viper.GetString("balance-sheet")
	skipBalances = viper.GetBool("skip-balances")
	maxRowErrors = viper.GetInt("max-row-errors")
	thresholdProfile = viper.GetString("profile")
	velocityLimit = viper.GetInt("velocity-limit")
	largeTransaction = viper.GetFloat64("large-transaction")
	digitalRatio = viper.GetFloat64("digital-ratio")
	detailedBreakdown = viper.GetBool("detailed")
	includeBalanceTrend = viper.GetBool("balance-trend")

	// Validate required flags
	if statementFile == "" {
		return fmt.Errorf("statement-file is required")
	}

	// Validate statement file exists and is readable
	if err := validateFileExists(statementFile, "statement file"); err != nil {
		return err
	}

	// Validate output format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
		"csv":     true,
	}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	// Validate threshold profile
	validProfiles := map[string]bool{
		"default": true,
		"strict":  true,
		"relaxed": true,
	}
	if !validProfiles[thresholdProfile] {
		return fmt.Errorf("invalid threshold profile '%s'. Valid profiles: default, strict, relaxed", thresholdProfile)
	}

	// Validate workbook profile
	if _, err := config.GetWorkbookProfile(workbookProfile); err != nil {
		return err
	}

	// Validate threshold overrides
	if velocityLimit < 0 {
		return fmt.Errorf("velocity limit cannot be negative")
	}
	if largeTransaction < 0 {
		return fmt.Errorf("large transaction amount cannot be negative")
	}
	if digitalRatio < 0 || digitalRatio > 1 {
		return fmt.Errorf("digital ratio must be between 0.0 and 1.0")
	}
	if maxRowErrors < -1 {
		return fmt.Errorf("max row errors cannot be below -1")
	}

	// Validate output file directory exists if specified
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access %s: %s", description, filePath)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file: %s", description, filePath)
	}

	// Check if file is readable
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %s", description, filePath)
	}
	file.Close()

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting statement analysis...\n")
		fmt.Fprintf(os.Stderr, "Statement file: %s\n", statementFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	// Create configurations
	workbookConfig, err := config.CreateWorkbookConfig(workbookProfile, transactionSheet, balanceSheet, skipBalances, maxRowErrors)
	if err != nil {
		return fmt.Errorf("failed to create workbook config: %w", err)
	}

	thresholds, err := config.CreateThresholds(thresholdProfile, velocityLimit, largeTransaction, digitalRatio)
	if err != nil {
		return fmt.Errorf("failed to create thresholds: %w", err)
	}

	analysisConfig := config.CreateAnalysisConfig(workbookConfig, thresholds, detailedBreakdown, includeBalanceTrend)

	// Create analysis service
	service, err := analysis.NewService(analysisConfig)
	if err != nil {
		return fmt.Errorf("failed to create analysis service: %w", err)
	}

	// Run the analysis
	result, err := service.AnalyzeFile(ctx, statementFile)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	// Create report generator with fallback handling
	reportConfig := config.CreateReportConfig(outputFormat)
	reportGenerator, err := reporter.NewSafeReportGenerator(reportConfig, nil)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	// Determine output destination
	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	// Generate report
	if err := reportGenerator.GenerateReportSafely(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	// Show completion summary
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nAnalysis completed successfully\n")
		fmt.Fprintf(os.Stderr, "Transactions processed: %d\n", result.Overview.TotalTransactions)
		fmt.Fprintf(os.Stderr, "Regular income transactions: %d\n", result.Patterns.IncomeCount)
		fmt.Fprintf(os.Stderr, "Recurring expense transactions: %d\n", result.Patterns.ExpensesCount)
		fmt.Fprintf(os.Stderr, "Fraud alerts: %d\n", result.Fraud.AlertsCount)
		fmt.Fprintf(os.Stderr, "Opportunities: %d cross-sell, %d up-sell\n",
			len(result.Opportunities.CrossSell), len(result.Opportunities.UpSell))
		if result.HasWarnings() {
			fmt.Fprintf(os.Stderr, "Warnings: %d\n", len(result.Warnings))
		}
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", result.Duration)
	}

	return nil
}
