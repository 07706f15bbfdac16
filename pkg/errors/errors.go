package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryWorkbook      ErrorCategory = "workbook"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryAnalysis      ErrorCategory = "analysis"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound      ErrorCode = "file_not_found"
	CodeFilePermission    ErrorCode = "file_permission"
	CodeFileCorrupted     ErrorCode = "file_corrupted"
	CodeUnsupportedFormat ErrorCode = "unsupported_format"

	// Workbook errors
	CodeMissingSheet  ErrorCode = "missing_sheet"
	CodeMissingColumn ErrorCode = "missing_column"
	CodeInvalidCell   ErrorCode = "invalid_cell"
	CodeEmptySheet    ErrorCode = "empty_sheet"

	// Validation errors
	CodeInvalidAmount  ErrorCode = "invalid_amount"
	CodeInvalidDate    ErrorCode = "invalid_date"
	CodeInvalidBalance ErrorCode = "invalid_balance"
	CodeMissingField   ErrorCode = "missing_field"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Analysis errors
	CodeProcessingError  ErrorCode = "processing_error"
	CodeDataInconsistent ErrorCode = "data_inconsistent"

	// Internal errors
	CodeUnexpectedError   ErrorCode = "unexpected_error"
	CodeResourceExhausted ErrorCode = "resource_exhausted"
)

// AnalyzerError is the base error type for all application errors
type AnalyzerError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *AnalyzerError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AnalyzerError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *AnalyzerError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryWorkbook, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryAnalysis, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *AnalyzerError) WithContext(key string, value interface{}) *AnalyzerError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *AnalyzerError) WithSuggestion(suggestion string) *AnalyzerError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AnalyzerError
func New(category ErrorCategory, code ErrorCode, message string) *AnalyzerError {
	return &AnalyzerError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with AnalyzerError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *AnalyzerError {
	if err == nil {
		return nil
	}

	return &AnalyzerError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file appears to be corrupted: %s", path)
		suggestion = "re-export the statement from your bank and try again"
	case CodeUnsupportedFormat:
		message = fmt.Sprintf("unsupported statement format: %s", path)
		suggestion = "provide the statement as an .xlsx or legacy .xls workbook"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// WorkbookError creates an error tied to a sheet or cell of the statement workbook
func WorkbookError(code ErrorCode, sheet string, row int, column string, value string, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingSheet:
		message = fmt.Sprintf("required sheet '%s' not found in workbook", sheet)
		suggestion = "ensure the statement export contains the expected sheet with its original name"
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column '%s' in sheet '%s'", column, sheet)
		suggestion = "verify the sheet has all required columns with correct headers"
	case CodeInvalidCell:
		message = fmt.Sprintf("invalid value in sheet '%s' at row %d, column '%s': '%s'", sheet, row, column, value)
		suggestion = "correct the cell value or remove the row"
	case CodeEmptySheet:
		message = fmt.Sprintf("sheet '%s' contains no data rows", sheet)
		suggestion = "check that the export range covers the statement period"
	default:
		message = fmt.Sprintf("workbook error in sheet '%s'", sheet)
		suggestion = "check the workbook structure and data integrity"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryWorkbook, code, message)
	} else {
		result = New(CategoryWorkbook, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("sheet", sheet).
		WithContext("row", row).
		WithContext("column", column).
		WithContext("value", value)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '1250.50')"
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "use a recognized date format such as YYYY-MM-DD HH:MM:SS"
	case CodeInvalidBalance:
		message = fmt.Sprintf("invalid balance in field '%s': %v", field, value)
		suggestion = "ensure balances are valid decimal numbers"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// AnalysisError creates an error for a failed analysis stage
func AnalysisError(code ErrorCode, stage string, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeProcessingError:
		message = fmt.Sprintf("processing error during %s", stage)
		suggestion = "check the statement contents and try again"
	case CodeDataInconsistent:
		message = fmt.Sprintf("data inconsistency detected during %s", stage)
		suggestion = "verify the statement export is complete and has not been edited"
	default:
		message = fmt.Sprintf("analysis error during %s", stage)
		suggestion = "review the statement data and configuration"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryAnalysis, code, message)
	} else {
		result = New(CategoryAnalysis, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("stage", stage)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *AnalyzerError {
	var message string
	var suggestion string

	switch code {
	case CodeUnexpectedError:
		message = fmt.Sprintf("unexpected error during %s", operation)
		suggestion = "this is likely a bug - please report it with the error details"
	case CodeResourceExhausted:
		message = fmt.Sprintf("resource exhausted during %s", operation)
		suggestion = "try a smaller statement file or increase system resources"
	default:
		message = fmt.Sprintf("internal error during %s", operation)
		suggestion = "try again or contact support if the problem persists"
	}

	var result *AnalyzerError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total        int                   `json:"total"`
	ByCategory   map[ErrorCategory]int `json:"by_category"`
	ByCode       map[ErrorCode]int     `json:"by_code"`
	Errors       []*AnalyzerError      `json:"errors"`
	SampleErrors []*AnalyzerError      `json:"sample_errors,omitempty"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errors []*AnalyzerError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errors),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errors,
	}
	if len(errors) == 0 {
		summary.Errors = []*AnalyzerError{}
		return summary
	}

	for _, err := range errors {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	// Include sample errors (max 5)
	maxSamples := 5
	if len(errors) > maxSamples {
		summary.SampleErrors = errors[:maxSamples]
	} else {
		summary.SampleErrors = errors
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// HasCategory checks if the summary contains errors of the given category
func (es *ErrorSummary) HasCategory(category ErrorCategory) bool {
	count, exists := es.ByCategory[category]
	return exists && count > 0
}

// HasCode checks if the summary contains errors with the given code
func (es *ErrorSummary) HasCode(code ErrorCode) bool {
	count, exists := es.ByCode[code]
	return exists && count > 0
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// Utility functions

// IsAnalyzerError checks if an error is an AnalyzerError
func IsAnalyzerError(err error) bool {
	_, ok := err.(*AnalyzerError)
	return ok
}

// AsAnalyzerError extracts an AnalyzerError from an error chain
func AsAnalyzerError(err error) (*AnalyzerError, bool) {
	var analyzerErr *AnalyzerError
	if errors.As(err, &analyzerErr) {
		return analyzerErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error if it's not already an AnalyzerError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *AnalyzerError {
	if err == nil {
		return nil
	}

	if analyzerErr, ok := AsAnalyzerError(err); ok {
		return analyzerErr
	}

	return Wrap(err, category, code, message)
}
