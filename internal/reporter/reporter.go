// Package reporter provides reporting capabilities for statement analysis results.
//
// This package renders analysis results in multiple output formats, covering
// the account overview, detected transaction patterns, fraud indicators and
// business opportunity recommendations.
//
// Supported output formats:
//   - Console: Human-readable sectioned output for terminal display
//   - JSON: Structured data format for programmatic consumption
//   - CSV: Flat per-transaction listing for spreadsheet applications
//
// Report sections available:
//   - Account overview: transaction totals, volumes and balance trend
//   - Transaction patterns: regular income and recurring expense groups
//   - Fraud indicators: high velocity and unusual timing alerts
//   - Business opportunities: cross-sell and up-sell recommendations
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(nil)
//	if err != nil {
//		return err
//	}
//	err = generator.GenerateReport(result, os.Stdout)
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"golang-statement-analyzer/internal/analysis"
	"golang-statement-analyzer/internal/analyzer"
	"golang-statement-analyzer/internal/ingest"
	"golang-statement-analyzer/internal/models"
)

// OutputFormat represents the supported report output formats.
// Each format is optimized for different use cases and audiences.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	// Output format
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludePatternTransactions bool `json:"include_pattern_transactions"`
	IncludeFraudTransactions   bool `json:"include_fraud_transactions"`
	IncludeBalanceTrend        bool `json:"include_balance_trend"`
	IncludeParseStats          bool `json:"include_parse_stats"`

	// MaxListItems caps each transaction listing; longer lists end with
	// a trailing count of the omitted entries
	MaxListItems int `json:"max_list_items"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`

	// SortByAmount orders transaction listings by amount instead of
	// statement order
	SortByAmount bool `json:"sort_by_amount"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                     FormatConsole,
		IncludePatternTransactions: false,
		IncludeFraudTransactions:   true,
		IncludeBalanceTrend:        true,
		IncludeParseStats:          true,
		MaxListItems:               10,
		CSVDelimiter:               ',',
		CSVHeaders:                 true,
		SortByAmount:               false,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	if c.MaxListItems < 1 {
		return fmt.Errorf("max list items must be at least 1, got %d", c.MaxListItems)
	}

	return nil
}

// ReportGenerator renders statement analysis reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// GenerateReport renders an analysis result and writes it to the provided writer
func (rg *ReportGenerator) GenerateReport(result *analysis.Result, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("analysis result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	case FormatCSV:
		return rg.generateCSVReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// generateConsoleReport generates a human-readable console report
func (rg *ReportGenerator) generateConsoleReport(result *analysis.Result, writer io.Writer) error {
	// Report header
	fmt.Fprintf(writer, "STATEMENT ANALYSIS REPORT\n")
	if result.Session != nil {
		fmt.Fprintf(writer, "File: %s\n", result.Session.FileName)
		fmt.Fprintf(writer, "Session: %s\n", result.Session.ID)
	}
	fmt.Fprintf(writer, "Generated: %s\n", result.ProcessedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Processing Duration: %v\n\n", result.Duration)

	// Overview section
	fmt.Fprintf(writer, "=== ACCOUNT OVERVIEW ===\n")
	rg.printOverview(result, writer)
	fmt.Fprintf(writer, "\n")

	// Pattern section
	fmt.Fprintf(writer, "=== TRANSACTION PATTERNS ===\n")
	rg.printPatterns(result.Patterns, writer)
	fmt.Fprintf(writer, "\n")

	// Fraud section
	fmt.Fprintf(writer, "=== FRAUD INDICATORS ===\n")
	rg.printFraud(result.Fraud, writer)
	fmt.Fprintf(writer, "\n")

	// Opportunity section
	fmt.Fprintf(writer, "=== BUSINESS OPPORTUNITIES ===\n")
	rg.printOpportunities(result.Opportunities, writer)

	// Ingestion warnings
	if result.HasWarnings() {
		fmt.Fprintf(writer, "\n=== WARNINGS ===\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(writer, "  - %s\n", warning)
		}
	}

	// Processing statistics
	if rg.config.IncludeParseStats && result.ParseStats != nil {
		fmt.Fprintf(writer, "\n=== PROCESSING STATISTICS ===\n")
		rg.printParseStats(result.ParseStats, writer)
	}

	return nil
}

// generateJSONReport generates a structured JSON report
func (rg *ReportGenerator) generateJSONReport(result *analysis.Result, writer io.Writer) error {
	// Create a filtered result based on configuration
	filteredResult := rg.filterResultForOutput(result)

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(filteredResult)
}

// generateCSVReport generates a CSV report listing pattern and fraud transactions
func (rg *ReportGenerator) generateCSVReport(result *analysis.Result, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	// Write headers if enabled
	if rg.config.CSVHeaders {
		headers := []string{
			"Category",
			"Date",
			"Amount",
			"Transaction_Type",
			"Transaction_Channel",
			"Balance",
			"Notes",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	// Write pattern transactions if requested
	if rg.config.IncludePatternTransactions && result.Patterns != nil {
		if err := rg.writeTransactionRows(csvWriter, "Regular Income", result.Patterns.RegularIncome, "Recurring credit amount"); err != nil {
			return err
		}
		if err := rg.writeTransactionRows(csvWriter, "Recurring Expense", result.Patterns.RecurringExpenses, "Recurring debit amount"); err != nil {
			return err
		}
	}

	// Write flagged transactions
	if rg.config.IncludeFraudTransactions && result.Fraud != nil {
		if err := rg.writeTransactionRows(csvWriter, "High Velocity", result.Fraud.HighVelocity, "Hour exceeded velocity limit"); err != nil {
			return err
		}
		if err := rg.writeTransactionRows(csvWriter, "Unusual Timing", result.Fraud.UnusualTiming, "Transaction inside suspicious hours"); err != nil {
			return err
		}
	}

	return nil
}

func (rg *ReportGenerator) writeTransactionRows(csvWriter *csv.Writer, category string, transactions []*models.Transaction, notes string) error {
	for _, tx := range transactions {
		record := []string{
			category,
			tx.Timestamp.Format("2006-01-02 15:04:05"),
			tx.Amount.String(),
			tx.Type,
			tx.Channel,
			tx.Balance.String(),
			notes,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write %s record: %w", category, err)
		}
	}
	return nil
}

// Helper methods for console output formatting

func (rg *ReportGenerator) printOverview(result *analysis.Result, writer io.Writer) {
	overview := result.Overview
	if overview == nil {
		return
	}

	fmt.Fprintf(writer, "Total Transactions:  %d\n", overview.TotalTransactions)
	fmt.Fprintf(writer, "Average Balance:     %s\n", overview.AverageBalance.StringFixed(2))
	fmt.Fprintf(writer, "Total Volume:        %s\n", overview.TotalVolume.StringFixed(2))
	fmt.Fprintf(writer, "Credits:             %d (%.1f%%)\n",
		overview.CreditCount,
		rg.calculatePercentage(overview.CreditCount, overview.TotalTransactions))
	fmt.Fprintf(writer, "Debits:              %d (%.1f%%)\n",
		overview.DebitCount,
		rg.calculatePercentage(overview.DebitCount, overview.TotalTransactions))
	fmt.Fprintf(writer, "Large Transactions:  %d\n", overview.LargeTransactionCount)

	if rg.config.IncludeBalanceTrend && len(result.BalanceTrend) > 0 {
		fmt.Fprintf(writer, "\nMonthly Balance Trend:\n")
		for _, month := range result.BalanceTrend {
			fmt.Fprintf(writer, "  %s: min %s, max %s, avg %s (%d days)\n",
				month.Month.Format("2006-01"),
				month.Minimum.StringFixed(2),
				month.Maximum.StringFixed(2),
				month.Average.StringFixed(2),
				month.Days)
		}
	}
}

func (rg *ReportGenerator) printPatterns(patterns *analyzer.PatternResult, writer io.Writer) {
	if patterns == nil {
		return
	}

	fmt.Fprintf(writer, "Regular Income Sources: %d\n", patterns.IncomeCount)
	fmt.Fprintf(writer, "Recurring Expenses:     %d\n", patterns.ExpensesCount)

	if len(patterns.IncomeGroups) > 0 {
		fmt.Fprintf(writer, "\nIncome Amounts:\n")
		rg.printAmountGroups(patterns.IncomeGroups, writer)
	}

	if len(patterns.ExpenseGroups) > 0 {
		fmt.Fprintf(writer, "\nExpense Amounts:\n")
		rg.printAmountGroups(patterns.ExpenseGroups, writer)
	}

	if rg.config.IncludePatternTransactions && len(patterns.RegularIncome) > 0 {
		fmt.Fprintf(writer, "\nRegular Income Transactions (%d):\n", len(patterns.RegularIncome))
		rg.printTransactionList(patterns.RegularIncome, writer)
	}

	if rg.config.IncludePatternTransactions && len(patterns.RecurringExpenses) > 0 {
		fmt.Fprintf(writer, "\nRecurring Expense Transactions (%d):\n", len(patterns.RecurringExpenses))
		rg.printTransactionList(patterns.RecurringExpenses, writer)
	}
}

func (rg *ReportGenerator) printFraud(fraud *analyzer.FraudResult, writer io.Writer) {
	if fraud == nil {
		return
	}

	if len(fraud.HighVelocity) > 0 {
		fmt.Fprintf(writer, "High velocity transactions detected: %d instances\n", len(fraud.HighVelocity))
		for _, bucket := range fraud.VelocityBuckets {
			fmt.Fprintf(writer, "  Hour %s: %d transactions\n", bucket.Bucket, bucket.Count)
		}
		if rg.config.IncludeFraudTransactions {
			rg.printTransactionList(fraud.HighVelocity, writer)
		}
	}

	if len(fraud.UnusualTiming) > 0 {
		if len(fraud.HighVelocity) > 0 {
			fmt.Fprintf(writer, "\n")
		}
		fmt.Fprintf(writer, "Unusual timing transactions detected: %d instances\n", len(fraud.UnusualTiming))
		if rg.config.IncludeFraudTransactions {
			rg.printTransactionList(fraud.UnusualTiming, writer)
		}
	}

	if !fraud.HasAlerts() {
		fmt.Fprintf(writer, "No suspicious activities detected\n")
	}
}

func (rg *ReportGenerator) printOpportunities(opportunities *analyzer.OpportunityResult, writer io.Writer) {
	if opportunities == nil {
		return
	}

	fmt.Fprintf(writer, "Digital Usage Ratio: %.1f%%\n", opportunities.DigitalRatio*100)
	fmt.Fprintf(writer, "Average Balance:     %s\n", opportunities.AverageBalance.StringFixed(2))
	fmt.Fprintf(writer, "Maximum Balance:     %s\n\n", opportunities.MaxBalance.StringFixed(2))

	fmt.Fprintf(writer, "Cross-Sell Recommendations: %d\n", len(opportunities.CrossSell))
	for i, opportunity := range opportunities.CrossSell {
		fmt.Fprintf(writer, "  %d. %s (confidence: %.1f%%)\n",
			i+1, opportunity.Product, opportunity.Confidence*100)
		fmt.Fprintf(writer, "     Reasoning: %s\n", opportunity.Reasoning)
	}

	fmt.Fprintf(writer, "\nUp-Sell Recommendations: %d\n", len(opportunities.UpSell))
	for i, opportunity := range opportunities.UpSell {
		fmt.Fprintf(writer, "  %d. %s (eligibility: %.1f%%)\n",
			i+1, opportunity.Product, opportunity.Eligibility*100)
		fmt.Fprintf(writer, "     Justification: %s\n", opportunity.Justification)
	}
}

func (rg *ReportGenerator) printParseStats(stats *ingest.ParseStats, writer io.Writer) {
	fmt.Fprintf(writer, "Total Rows:   %d\n", stats.TotalRows)
	fmt.Fprintf(writer, "Rows Parsed:  %d\n", stats.RowsParsed)
	fmt.Fprintf(writer, "Rows Valid:   %d\n", stats.RowsValid)
	fmt.Fprintf(writer, "Row Errors:   %d\n", stats.ErrorCount)

	for _, sample := range stats.GetSampleErrors(3) {
		fmt.Fprintf(writer, "  - %s\n", sample)
	}
}

func (rg *ReportGenerator) printAmountGroups(groups []*analyzer.AmountGroup, writer io.Writer) {
	for i, group := range groups {
		fmt.Fprintf(writer, "  %d. Amount: %s, Occurrences: %d\n",
			i+1, group.Amount.StringFixed(2), group.Count)
	}
}

func (rg *ReportGenerator) printTransactionList(transactions []*models.Transaction, writer io.Writer) {
	// Sort a copy if requested so the result ordering stays untouched
	listed := transactions
	if rg.config.SortByAmount {
		listed = make([]*models.Transaction, len(transactions))
		copy(listed, transactions)
		sort.Slice(listed, func(i, j int) bool {
			return listed[i].Amount.GreaterThan(listed[j].Amount)
		})
	}

	limit := rg.config.MaxListItems
	for i, tx := range listed {
		fmt.Fprintf(writer, "  %d. Time: %s, Amount: %s, Type: %s, Channel: %s\n",
			i+1,
			tx.Timestamp.Format("2006-01-02 15:04:05"),
			tx.Amount.StringFixed(2),
			tx.Type,
			tx.Channel)

		// Limit output for very long lists
		if i >= limit-1 && len(listed) > limit {
			fmt.Fprintf(writer, "  ... and %d more\n", len(listed)-limit)
			break
		}
	}
}

// Helper methods

func (rg *ReportGenerator) calculatePercentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}

// filterResultForOutput shapes the JSON payload. The patterns and fraud
// sections keep the dashboard key names: regular_income, recurring_expenses,
// income_count, expenses_count, high_velocity, unusual_timing, alerts_count
func (rg *ReportGenerator) filterResultForOutput(result *analysis.Result) map[string]interface{} {
	output := map[string]interface{}{
		"session":      result.Session,
		"processed_at": result.ProcessedAt,
		"overview":     result.Overview,
	}

	if result.Patterns != nil {
		output["patterns"] = map[string]interface{}{
			"regular_income":     result.Patterns.RegularIncome,
			"recurring_expenses": result.Patterns.RecurringExpenses,
			"income_count":       result.Patterns.IncomeCount,
			"expenses_count":     result.Patterns.ExpensesCount,
		}
	}

	if result.Fraud != nil {
		output["fraud"] = map[string]interface{}{
			"high_velocity":  result.Fraud.HighVelocity,
			"unusual_timing": result.Fraud.UnusualTiming,
			"alerts_count":   result.Fraud.AlertsCount,
		}
	}

	if result.Opportunities != nil {
		output["opportunities"] = result.Opportunities
	}

	if rg.config.IncludeBalanceTrend && len(result.BalanceTrend) > 0 {
		output["balance_trend"] = result.BalanceTrend
	}

	if result.HasWarnings() {
		output["warnings"] = result.Warnings
	}

	if rg.config.IncludeParseStats && result.ParseStats != nil {
		output["parse_stats"] = map[string]interface{}{
			"total_rows":    result.ParseStats.TotalRows,
			"rows_parsed":   result.ParseStats.RowsParsed,
			"rows_valid":    result.ParseStats.RowsValid,
			"error_count":   result.ParseStats.ErrorCount,
			"sample_errors": result.ParseStats.GetSampleErrors(5),
		}
	}

	return output
}

// UpdateConfiguration updates the report generator configuration
func (rg *ReportGenerator) UpdateConfiguration(config *ReportConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid report configuration: %w", err)
	}

	rg.config = config
	return nil
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}
