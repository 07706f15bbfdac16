package config

import (
	"fmt"

	"golang-statement-analyzer/internal/analysis"
	"golang-statement-analyzer/internal/analyzer"
	"golang-statement-analyzer/internal/ingest"
	"golang-statement-analyzer/internal/reporter"

	"github.com/shopspring/decimal"
)

// CreateWorkbookConfig builds the workbook configuration from a layout
// profile plus command-line overrides
func CreateWorkbookConfig(profileName, transactionSheet, balanceSheet string, skipBalances bool, maxErrors int) (*ingest.WorkbookConfig, error) {
	workbookConfig, err := GetWorkbookProfile(profileName)
	if err != nil {
		return nil, err
	}

	// Apply command-line overrides
	if transactionSheet != "" {
		workbookConfig.TransactionSheet = transactionSheet
	}
	if balanceSheet != "" {
		workbookConfig.BalanceSheet = balanceSheet
	}
	if skipBalances {
		workbookConfig.BalanceSheet = ""
	}
	if maxErrors >= 0 {
		workbookConfig.MaxErrors = maxErrors
	}

	return workbookConfig, nil
}

// CreateThresholds builds the analysis thresholds from a named profile
// plus command-line overrides. Zero-valued overrides keep the profile value.
func CreateThresholds(profile string, velocityLimit int, largeTransaction, digitalRatio float64) (*analyzer.Thresholds, error) {
	var thresholds *analyzer.Thresholds

	switch profile {
	case "", "default":
		thresholds = analyzer.DefaultThresholds()
	case "strict":
		thresholds = analyzer.StrictThresholds()
	case "relaxed":
		thresholds = analyzer.RelaxedThresholds()
	default:
		return nil, fmt.Errorf("unknown threshold profile: %s", profile)
	}

	// Apply command-line overrides
	if velocityLimit > 0 {
		thresholds.VelocityLimit = velocityLimit
	}
	if largeTransaction > 0 {
		thresholds.LargeTransaction = decimal.NewFromFloat(largeTransaction)
	}
	if digitalRatio > 0 {
		thresholds.DigitalRatioThreshold = digitalRatio
	}

	return thresholds, nil
}

// CreateAnalysisConfig creates an analysis service configuration
func CreateAnalysisConfig(workbook *ingest.WorkbookConfig, thresholds *analyzer.Thresholds, detailedBreakdown, includeBalanceTrend bool) *analysis.Config {
	analysisConfig := analysis.DefaultConfig()

	analysisConfig.Workbook = workbook
	analysisConfig.Thresholds = thresholds
	analysisConfig.DetailedBreakdown = detailedBreakdown
	analysisConfig.IncludeBalanceTrend = includeBalanceTrend
	analysisConfig.IncludeStatistics = true

	return analysisConfig
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *reporter.ReportConfig {
	reportConfig := reporter.DefaultReportConfig()

	switch format {
	case "console":
		reportConfig.Format = reporter.FormatConsole
		reportConfig.IncludeFraudTransactions = true
		reportConfig.IncludeBalanceTrend = true
		reportConfig.IncludeParseStats = true

	case "json":
		reportConfig.Format = reporter.FormatJSON
		reportConfig.IncludeBalanceTrend = true
		reportConfig.IncludeParseStats = true

	case "csv":
		reportConfig.Format = reporter.FormatCSV
		reportConfig.CSVHeaders = true
		reportConfig.CSVDelimiter = ','
		reportConfig.IncludePatternTransactions = true
		reportConfig.IncludeFraudTransactions = true
		reportConfig.IncludeParseStats = false
	}

	return reportConfig
}

// WorkbookProfile represents a pre-configured statement workbook layout
type WorkbookProfile struct {
	Name   string
	Config *ingest.WorkbookConfig
}

// GetCommonWorkbookProfiles returns configurations for common statement
// export layouts. The Standard profile matches the canonical workbook
// format; the bank profiles cover frequently seen header variations.
func GetCommonWorkbookProfiles() []WorkbookProfile {
	return []WorkbookProfile{
		{
			Name:   "Standard",
			Config: ingest.DefaultWorkbookConfig(),
		},
		{
			Name: "HDFC",
			Config: &ingest.WorkbookConfig{
				TransactionSheet: "Transactions",
				BalanceSheet:     "Daily EOD Balances",
				DateColumn:       "Txn Date",
				AmountColumn:     "Amount",
				TypeColumn:       "Transaction Type",
				ChannelColumn:    "Mode",
				BalanceColumn:    "Closing Balance",
				DayColumn:        "Day/Month",
				ColumnAliases:    make(map[string]string),
				MaxErrors:        100,
			},
		},
		{
			Name: "ICICI",
			Config: &ingest.WorkbookConfig{
				TransactionSheet: "Transaction Details",
				BalanceSheet:     "EOD Balance",
				DateColumn:       "Value Date",
				AmountColumn:     "Transaction Amount",
				TypeColumn:       "Transaction Type",
				ChannelColumn:    "Transaction Channel",
				BalanceColumn:    "Available Balance",
				DayColumn:        "Day/Month",
				ColumnAliases:    make(map[string]string),
				MaxErrors:        100,
			},
		},
		{
			Name: "SBI",
			Config: &ingest.WorkbookConfig{
				TransactionSheet: "Account Statement",
				BalanceSheet:     "",
				DateColumn:       "Txn Date",
				AmountColumn:     "Amount",
				TypeColumn:       "Debit/Credit",
				ChannelColumn:    "Channel",
				BalanceColumn:    "Balance",
				DayColumn:        "Day/Month",
				ColumnAliases:    make(map[string]string),
				MaxErrors:        100,
			},
		},
	}
}

// GetWorkbookProfile returns a workbook configuration by profile name
func GetWorkbookProfile(profileName string) (*ingest.WorkbookConfig, error) {
	for _, profile := range GetCommonWorkbookProfiles() {
		if profile.Name == profileName {
			return profile.Config, nil
		}
	}

	return nil, fmt.Errorf("unknown workbook profile: %s", profileName)
}

// ValidateConfig validates that all required configurations are valid
func ValidateConfig(workbookConfig *ingest.WorkbookConfig, thresholds *analyzer.Thresholds) error {
	if err := workbookConfig.Validate(); err != nil {
		return fmt.Errorf("invalid workbook config: %w", err)
	}

	if err := thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid threshold config: %w", err)
	}

	return nil
}
