package ingest

import (
	"fmt"
	"strings"
)

// WorkbookConfig describes where the statement data lives inside the
// exported workbook: the sheet names and the column headers of the
// transaction sheet and the daily balance grid
type WorkbookConfig struct {
	TransactionSheet string            `json:"transaction_sheet"`
	BalanceSheet     string            `json:"balance_sheet"`
	DateColumn       string            `json:"date_column"`
	AmountColumn     string            `json:"amount_column"`
	TypeColumn       string            `json:"type_column"`
	ChannelColumn    string            `json:"channel_column"`
	BalanceColumn    string            `json:"balance_column"`
	DayColumn        string            `json:"day_column"`
	ColumnAliases    map[string]string `json:"column_aliases,omitempty"`
	MaxErrors        int               `json:"max_errors"`
}

// DefaultWorkbookConfig returns the layout used by the supported
// statement exports
func DefaultWorkbookConfig() *WorkbookConfig {
	return &WorkbookConfig{
		TransactionSheet: "Transactions",
		BalanceSheet:     "Daily EOD Balances",
		DateColumn:       "Date",
		AmountColumn:     "Amount",
		TypeColumn:       "Transaction Type",
		ChannelColumn:    "Transaction Channel",
		BalanceColumn:    "Balance",
		DayColumn:        "Day/Month",
		ColumnAliases:    make(map[string]string),
		MaxErrors:        100,
	}
}

// Validate checks if the workbook configuration is valid
func (wc *WorkbookConfig) Validate() error {
	if strings.TrimSpace(wc.TransactionSheet) == "" {
		return fmt.Errorf("transaction sheet name cannot be empty")
	}

	if strings.TrimSpace(wc.DateColumn) == "" {
		return fmt.Errorf("date column cannot be empty")
	}

	if strings.TrimSpace(wc.AmountColumn) == "" {
		return fmt.Errorf("amount column cannot be empty")
	}

	if strings.TrimSpace(wc.TypeColumn) == "" {
		return fmt.Errorf("type column cannot be empty")
	}

	if strings.TrimSpace(wc.ChannelColumn) == "" {
		return fmt.Errorf("channel column cannot be empty")
	}

	if strings.TrimSpace(wc.BalanceColumn) == "" {
		return fmt.Errorf("balance column cannot be empty")
	}

	if strings.TrimSpace(wc.BalanceSheet) != "" && strings.TrimSpace(wc.DayColumn) == "" {
		return fmt.Errorf("day column cannot be empty when a balance sheet is configured")
	}

	if wc.MaxErrors < 0 {
		return fmt.Errorf("max errors cannot be negative, got %d", wc.MaxErrors)
	}

	return nil
}

// GetColumnName returns the actual column name, checking aliases first
func (wc *WorkbookConfig) GetColumnName(standardName string) string {
	if alias, exists := wc.ColumnAliases[standardName]; exists {
		return alias
	}

	switch standardName {
	case "date":
		return wc.DateColumn
	case "amount":
		return wc.AmountColumn
	case "type":
		return wc.TypeColumn
	case "channel":
		return wc.ChannelColumn
	case "balance":
		return wc.BalanceColumn
	case "day":
		return wc.DayColumn
	default:
		return standardName
	}
}

// RequiredTransactionColumns returns the headers the transaction sheet must carry
func (wc *WorkbookConfig) RequiredTransactionColumns() []string {
	return []string{
		wc.GetColumnName("date"),
		wc.GetColumnName("amount"),
		wc.GetColumnName("type"),
		wc.GetColumnName("channel"),
		wc.GetColumnName("balance"),
	}
}
