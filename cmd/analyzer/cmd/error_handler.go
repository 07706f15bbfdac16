package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang-statement-analyzer/pkg/errors"
	"golang-statement-analyzer/pkg/logger"

	"github.com/spf13/viper"
)

// CLIErrorHandler provides user-friendly error handling for the CLI
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError processes an error and provides user-friendly output.
// Returns the exit code the process should terminate with.
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	// Handle structured analyzer errors
	if analyzerErr, ok := errors.AsAnalyzerError(err); ok {
		return h.handleAnalyzerError(analyzerErr)
	}

	// Handle generic errors
	return h.handleGenericError(err)
}

// handleAnalyzerError handles structured analyzer errors with rich context
func (h *CLIErrorHandler) handleAnalyzerError(err *errors.AnalyzerError) int {
	// Print the main error message
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	// Print context information if available
	if len(err.Context) > 0 {
		fmt.Fprintf(os.Stderr, "\nDetails:\n")
		for key, value := range err.Context {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
		}
	}

	// Print suggestion if available
	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", err.Suggestion)
	}

	// Print category-specific help
	if help := h.getCategoryHelp(err.Category); help != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", help)
	}

	// Print underlying cause in verbose mode
	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nCaused by: %v\n", err.Cause)
	}

	h.logger.WithFields(logger.Fields{
		"category": err.Category,
		"code":     err.Code,
	}).Debug("CLI error handled")

	return err.GetExitCode()
}

// handleGenericError handles unstructured errors with best-effort guidance
func (h *CLIErrorHandler) handleGenericError(err error) int {
	switch {
	case isFileNotFoundError(err):
		fmt.Fprintf(os.Stderr, "Error: File not found\n")
		fmt.Fprintf(os.Stderr, "\nSuggestion: Check that the statement file path is correct and the file exists\n")
		return 2

	case isPermissionError(err):
		fmt.Fprintf(os.Stderr, "Error: Permission denied\n")
		fmt.Fprintf(os.Stderr, "\nSuggestion: Check file permissions or run with appropriate privileges\n")
		return 2

	case isDiskSpaceError(err):
		fmt.Fprintf(os.Stderr, "Error: Insufficient disk space\n")
		fmt.Fprintf(os.Stderr, "\nSuggestion: Free up disk space and try again\n")
		return 2

	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if h.verbose {
			fmt.Fprintf(os.Stderr, "\nFor more help, run 'analyzer analyze --help'\n")
		}
		return 1
	}
}

// getCategoryHelp returns category-specific help text
func (h *CLIErrorHandler) getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File troubleshooting:
  • Check that the statement file path is correct
  • Ensure the file exists and is readable
  • Verify the file is a valid Excel workbook (.xlsx or .xls)`

	case errors.CategoryWorkbook:
		return `Workbook troubleshooting:
  • Check that the transaction sheet name matches the workbook
  • Verify the expected column headers are present
  • Use --workbook-profile or --transaction-sheet to match your bank's layout
  • Use --skip-balances if the workbook has no EOD balance sheet`

	case errors.CategoryValidation:
		return `Data validation troubleshooting:
  • Check that dates use a supported format (e.g. 2024-01-15 14:30:00)
  • Verify amounts are numeric
  • Ensure transaction types are 'Credit' or 'Debit'
  • Use --max-row-errors to tolerate more invalid rows`

	case errors.CategoryConfiguration:
		return `Configuration troubleshooting:
  • Check your command-line flags for typos
  • Verify the config file syntax if using --config
  • Run 'analyzer analyze --help' to see all available options`

	case errors.CategoryAnalysis:
		return `Analysis troubleshooting:
  • Check that the statement contains valid transaction data
  • Try relaxed thresholds with --profile relaxed
  • Run with --verbose for detailed processing information`

	default:
		return ""
	}
}

// FormatValidationErrors formats multiple validation errors for display
func (h *CLIErrorHandler) FormatValidationErrors(validationErrors []error) string {
	if len(validationErrors) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d validation error(s):\n", len(validationErrors)))

	displayCount := min(len(validationErrors), 10)
	for i := 0; i < displayCount; i++ {
		builder.WriteString(fmt.Sprintf("  %d. %v\n", i+1, validationErrors[i]))
	}

	if len(validationErrors) > displayCount {
		builder.WriteString(fmt.Sprintf("  ... and %d more errors\n", len(validationErrors)-displayCount))
	}

	return builder.String()
}

// FormatFileError creates a user-friendly error for file access problems,
// suggesting similarly named files from the same directory when present
func (h *CLIErrorHandler) FormatFileError(filePath string, err error) error {
	baseErr := fmt.Errorf("cannot access file '%s': %w", filePath, err)

	if !os.IsNotExist(err) {
		return baseErr
	}

	dir := filepath.Dir(filePath)
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)

	pattern := filepath.Join(dir, "*"+ext)
	matches, globErr := filepath.Glob(pattern)
	if globErr != nil || len(matches) == 0 {
		return baseErr
	}

	suggestions := make([]string, 0, min(len(matches), 3))
	for i := 0; i < min(len(matches), 3); i++ {
		suggestions = append(suggestions, filepath.Base(matches[i]))
	}

	return fmt.Errorf("cannot access file '%s': %w (similar files in %s: %s)",
		filePath, err, dir, strings.Join(suggestions, ", "))
}

// SuggestRecoveryActions returns recovery suggestions for an error category
func (h *CLIErrorHandler) SuggestRecoveryActions(category errors.ErrorCategory) []string {
	switch category {
	case errors.CategoryFile:
		return []string{
			"Verify the statement file path",
			"Check file permissions",
			"Ensure the file is not open in another application",
		}
	case errors.CategoryWorkbook:
		return []string{
			"Inspect the workbook sheet names",
			"Try a different --workbook-profile",
			"Override sheet names with --transaction-sheet and --balance-sheet",
		}
	case errors.CategoryValidation:
		return []string{
			"Review the reported row errors",
			"Fix the source data or raise --max-row-errors",
		}
	case errors.CategoryConfiguration:
		return []string{
			"Review command-line flags",
			"Check the config file for syntax errors",
		}
	case errors.CategoryAnalysis:
		return []string{
			"Run with --verbose to see processing details",
			"Try a different threshold profile",
		}
	default:
		return []string{
			"Run with --verbose for more information",
			"Check the documentation for troubleshooting steps",
		}
	}
}

func isFileNotFoundError(err error) bool {
	if os.IsNotExist(err) {
		return true
	}
	return strings.Contains(err.Error(), "no such file or directory")
}

func isPermissionError(err error) bool {
	if os.IsPermission(err) {
		return true
	}
	return strings.Contains(err.Error(), "permission denied")
}

func isDiskSpaceError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no space left on device") ||
		strings.Contains(msg, "disk full")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
