package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang-statement-analyzer/internal/models"
	"golang-statement-analyzer/pkg/errors"
	"golang-statement-analyzer/pkg/logger"
)

// RowError represents an error that occurred while parsing a sheet row
type RowError struct {
	Sheet   string
	Row     int
	Column  string
	Value   string
	Message string
	Err     error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row error in sheet '%s' at row %d (%s='%s'): %s: %v",
			e.Sheet, e.Row, e.Column, e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("row error in sheet '%s' at row %d (%s='%s'): %s",
		e.Sheet, e.Row, e.Column, e.Value, e.Message)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ParseStats holds statistics about a statement parsing operation
type ParseStats struct {
	TotalRows  int
	RowsParsed int
	RowsValid  int
	ErrorCount int
	Errors     []*RowError
}

// NewParseStats creates a new ParseStats instance
func NewParseStats() *ParseStats {
	return &ParseStats{
		Errors: make([]*RowError, 0),
	}
}

// AddError adds an error to the parsing statistics
func (ps *ParseStats) AddError(err *RowError) {
	ps.Errors = append(ps.Errors, err)
	ps.ErrorCount++
}

// HasErrors returns true if there were any parsing errors
func (ps *ParseStats) HasErrors() bool {
	return ps.ErrorCount > 0
}

// String returns a human-readable summary of parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Parsed %d rows, %d records (%d valid), %d errors",
		ps.TotalRows, ps.RowsParsed, ps.RowsValid, ps.ErrorCount)
}

// GetSampleErrors returns a sample of the parsing errors for logging/debugging
func (ps *ParseStats) GetSampleErrors(maxSamples int) []string {
	if len(ps.Errors) == 0 {
		return nil
	}

	var samples []string
	limit := len(ps.Errors)
	if maxSamples > 0 && maxSamples < limit {
		limit = maxSamples
	}

	for i := 0; i < limit; i++ {
		samples = append(samples, ps.Errors[i].Error())
	}

	return samples
}

// Statement is the parsed content of a statement workbook. Balances is nil
// when the balance sheet was missing or unreadable; Warnings carries the
// recoverable problems encountered on the way
type Statement struct {
	Transactions []*models.Transaction
	Balances     []*models.BalanceSnapshot
	Warnings     []string
}

// HasBalances reports whether the balance sheet was loaded successfully
func (s *Statement) HasBalances() bool {
	return len(s.Balances) > 0
}

// StatementParser reads statement workbooks into Statement values
type StatementParser struct {
	config *WorkbookConfig
	logger logger.Logger
}

// NewStatementParser creates a new StatementParser with the given configuration
func NewStatementParser(config *WorkbookConfig) (*StatementParser, error) {
	if config == nil {
		config = DefaultWorkbookConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"workbook_config",
			config,
			err,
		).WithSuggestion("Check the workbook layout configuration values")
	}

	log := logger.GetGlobalLogger().WithComponent("statement_parser")
	log.WithFields(logger.Fields{
		"transaction_sheet": config.TransactionSheet,
		"balance_sheet":     config.BalanceSheet,
	}).Debug("Created statement parser")

	return &StatementParser{
		config: config,
		logger: log,
	}, nil
}

// ParseFile parses a statement workbook from disk
func (sp *StatementParser) ParseFile(path string) (*Statement, *ParseStats, error) {
	return sp.ParseFileWithContext(context.Background(), path)
}

// ParseFileWithContext parses a statement workbook with cancellation support
func (sp *StatementParser) ParseFileWithContext(ctx context.Context, path string) (*Statement, *ParseStats, error) {
	sp.logger.WithFields(logger.Fields{
		"file_path": path,
		"operation": "parse_statement",
	}).Info("Starting statement parsing")

	reader, err := OpenWorkbook(path)
	if err != nil {
		sp.logger.WithError(err).WithField("file_path", path).Error("Failed to open statement workbook")
		return nil, nil, err
	}
	defer reader.Close()

	return sp.parseWorkbook(ctx, reader, path)
}

// ParseReader parses a statement workbook from a stream, such as an upload
func (sp *StatementParser) ParseReader(ctx context.Context, r io.Reader, name string) (*Statement, *ParseStats, error) {
	sp.logger.WithFields(logger.Fields{
		"source":    name,
		"operation": "parse_statement",
	}).Info("Starting statement parsing from reader")

	reader, err := OpenWorkbookReader(r, name)
	if err != nil {
		sp.logger.WithError(err).WithField("source", name).Error("Failed to open statement workbook")
		return nil, nil, err
	}
	defer reader.Close()

	return sp.parseWorkbook(ctx, reader, name)
}

// parseWorkbook drives the full ingestion: the transaction sheet is
// mandatory, the balance sheet degrades to a warning
func (sp *StatementParser) parseWorkbook(ctx context.Context, reader WorkbookReader, name string) (*Statement, *ParseStats, error) {
	stats := NewParseStats()

	if !HasSheet(reader, sp.config.TransactionSheet) {
		sp.logger.WithFields(logger.Fields{
			"source":           name,
			"expected_sheet":   sp.config.TransactionSheet,
			"available_sheets": reader.SheetNames(),
		}).Error("Transaction sheet not found in workbook")

		return nil, stats, errors.WorkbookError(
			errors.CodeMissingSheet,
			sp.config.TransactionSheet,
			0, "", "",
			nil,
		).WithContext("source", name)
	}

	rows, err := reader.Rows(sp.config.TransactionSheet)
	if err != nil {
		return nil, stats, errors.Wrap(err, errors.CategoryWorkbook, errors.CodeInvalidCell,
			fmt.Sprintf("failed to read sheet '%s'", sp.config.TransactionSheet))
	}

	transactions, err := sp.parseTransactionRows(ctx, rows, stats)
	if err != nil {
		return nil, stats, err
	}

	statement := &Statement{Transactions: transactions}

	if stats.ErrorCount > 0 {
		statement.Warnings = append(statement.Warnings,
			fmt.Sprintf("Skipped %d transaction rows with invalid values", stats.ErrorCount))
		sp.logger.WithField("sample_errors", stats.GetSampleErrors(3)).Warn("Encountered errors during parsing")
	}

	balances, balanceWarnings := sp.parseBalances(reader)
	statement.Balances = balances
	statement.Warnings = append(statement.Warnings, balanceWarnings...)

	sp.logger.WithFields(logger.Fields{
		"source":       name,
		"total_rows":   stats.TotalRows,
		"rows_parsed":  stats.RowsParsed,
		"rows_valid":   stats.RowsValid,
		"error_count":  stats.ErrorCount,
		"balance_days": len(statement.Balances),
		"warnings":     len(statement.Warnings),
	}).Info("Statement parsing completed")

	return statement, stats, nil
}

// parseTransactionRows converts the transaction sheet rows into model
// transactions. The first row must be the header row
func (sp *StatementParser) parseTransactionRows(ctx context.Context, rows [][]string, stats *ParseStats) ([]*models.Transaction, error) {
	sheet := sp.config.TransactionSheet
	stats.TotalRows = len(rows)

	if len(rows) == 0 {
		return nil, errors.WorkbookError(errors.CodeEmptySheet, sheet, 0, "", "", nil)
	}

	columns, err := sp.resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	transactions := make([]*models.Transaction, 0, len(rows)-1)

	progress := logger.NewProgressTracker(logger.ProgressConfig{
		Operation: "ingest_transactions",
		Total:     int64(len(rows) - 1),
		Logger:    sp.logger,
	})

	for i, row := range rows[1:] {
		select {
		case <-ctx.Done():
			sp.logger.Warn("Statement parsing was cancelled")
			return nil, errors.InternalError(
				errors.CodeUnexpectedError,
				"statement_parsing",
				fmt.Errorf("parsing cancelled by context"),
			)
		default:
		}

		rowNum := i + 2 // 1-based, after the header row
		progress.Increment()

		if isEmptyRow(row) {
			continue
		}
		stats.RowsParsed++

		transaction, rowErr, fatal := sp.parseTransactionRow(row, rowNum, columns)
		if fatal != nil {
			progress.CompleteWithError(fatal)
			return nil, fatal
		}
		if rowErr != nil {
			stats.AddError(rowErr)
			if sp.config.MaxErrors > 0 && stats.ErrorCount > sp.config.MaxErrors {
				tooMany := errors.New(errors.CategoryWorkbook, errors.CodeInvalidCell,
					fmt.Sprintf("too many invalid rows in sheet '%s': %d", sheet, stats.ErrorCount)).
					WithSuggestion("fix the statement export or raise the max errors limit")
				progress.CompleteWithError(tooMany)
				return nil, tooMany
			}
			continue
		}

		transactions = append(transactions, transaction)
		stats.RowsValid++
	}

	progress.Complete()
	return transactions, nil
}

// transactionColumns holds the resolved column indices of the transaction sheet
type transactionColumns struct {
	date    int
	amount  int
	txType  int
	channel int
	balance int
}

// resolveColumns locates the required columns in the header row. A missing
// column is fatal because every analysis reads all five fields
func (sp *StatementParser) resolveColumns(header []string) (*transactionColumns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	lookup := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		for column, i := range index {
			if strings.EqualFold(column, name) {
				return i
			}
		}
		return -1
	}

	columns := &transactionColumns{
		date:    lookup(sp.config.GetColumnName("date")),
		amount:  lookup(sp.config.GetColumnName("amount")),
		txType:  lookup(sp.config.GetColumnName("type")),
		channel: lookup(sp.config.GetColumnName("channel")),
		balance: lookup(sp.config.GetColumnName("balance")),
	}

	missing := make([]string, 0)
	for _, required := range []struct {
		name  string
		index int
	}{
		{sp.config.GetColumnName("date"), columns.date},
		{sp.config.GetColumnName("amount"), columns.amount},
		{sp.config.GetColumnName("type"), columns.txType},
		{sp.config.GetColumnName("channel"), columns.channel},
		{sp.config.GetColumnName("balance"), columns.balance},
	} {
		if required.index == -1 {
			missing = append(missing, required.name)
		}
	}

	if len(missing) > 0 {
		sp.logger.WithFields(logger.Fields{
			"missing_columns":   missing,
			"available_columns": header,
		}).Error("Required columns are missing")

		return nil, errors.WorkbookError(
			errors.CodeMissingColumn,
			sp.config.TransactionSheet,
			1,
			strings.Join(missing, ", "),
			"",
			nil,
		)
	}

	return columns, nil
}

// parseTransactionRow converts one data row. It returns a fatal error for an
// unparseable date, because a broken date column poisons every downstream
// analysis; other bad cells only skip the row
func (sp *StatementParser) parseTransactionRow(row []string, rowNum int, columns *transactionColumns) (*models.Transaction, *RowError, error) {
	sheet := sp.config.TransactionSheet

	dateCell := cellValue(row, columns.date)
	if dateCell == "" {
		return nil, &RowError{
			Sheet:   sheet,
			Row:     rowNum,
			Column:  sp.config.GetColumnName("date"),
			Message: "empty date cell",
		}, nil
	}

	timestamp, err := models.ParseTimeWithFormats(dateCell)
	if err != nil {
		sp.logger.WithError(err).WithFields(logger.Fields{
			"row":  rowNum,
			"date": dateCell,
		}).Error("Unparseable date cell in transaction sheet")

		fatal := errors.ValidationError(
			errors.CodeInvalidDate,
			sp.config.GetColumnName("date"),
			dateCell,
			err,
		).WithContext("sheet", sheet).WithContext("row", rowNum)
		return nil, nil, fatal
	}

	amountCell := cellValue(row, columns.amount)
	amount, err := models.ParseDecimalFromString(amountCell)
	if err != nil {
		return nil, &RowError{
			Sheet:   sheet,
			Row:     rowNum,
			Column:  sp.config.GetColumnName("amount"),
			Value:   amountCell,
			Message: "invalid amount",
			Err:     err,
		}, nil
	}

	balanceCell := cellValue(row, columns.balance)
	balance, err := models.ParseDecimalFromString(balanceCell)
	if err != nil {
		return nil, &RowError{
			Sheet:   sheet,
			Row:     rowNum,
			Column:  sp.config.GetColumnName("balance"),
			Value:   balanceCell,
			Message: "invalid balance",
			Err:     err,
		}, nil
	}

	transaction := models.NewTransaction(
		timestamp,
		amount,
		cellValue(row, columns.txType),
		cellValue(row, columns.channel),
		balance,
	)

	if err := transaction.Validate(); err != nil {
		return nil, &RowError{
			Sheet:   sheet,
			Row:     rowNum,
			Message: "transaction validation failed",
			Err:     err,
		}, nil
	}

	return transaction, nil, nil
}

// parseBalances loads the daily balance grid. Any failure here is reported
// as a warning so transaction analyses still run
func (sp *StatementParser) parseBalances(reader WorkbookReader) ([]*models.BalanceSnapshot, []string) {
	sheet := strings.TrimSpace(sp.config.BalanceSheet)
	if sheet == "" {
		return nil, nil
	}

	if !HasSheet(reader, sheet) {
		sp.logger.WithField("balance_sheet", sheet).Warn("Balance sheet not found in workbook")
		return nil, []string{fmt.Sprintf("Could not load EOD balance data: sheet '%s' not found", sheet)}
	}

	rows, err := reader.Rows(sheet)
	if err != nil {
		sp.logger.WithError(err).WithField("balance_sheet", sheet).Warn("Failed to read balance sheet")
		return nil, []string{fmt.Sprintf("Could not load EOD balance data: %v", err)}
	}

	snapshots, warnings, err := ReshapeBalances(rows, sp.config)
	if err != nil {
		sp.logger.WithError(err).WithField("balance_sheet", sheet).Warn("Failed to reshape balance sheet")
		return nil, append(warnings, fmt.Sprintf("Could not load EOD balance data: %v", err))
	}

	sp.logger.WithFields(logger.Fields{
		"balance_sheet": sheet,
		"snapshots":     len(snapshots),
	}).Debug("Loaded daily balance grid")

	return snapshots, warnings
}

// cellValue safely retrieves a trimmed cell by index; spreadsheet rows often
// omit trailing empty cells
func cellValue(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// isEmptyRow checks if all cells in a row are empty or whitespace
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
