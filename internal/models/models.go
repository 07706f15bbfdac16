package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// TypeCredit is the statement label for money flowing into the account
	TypeCredit = "Credit"
	// TypeDebit is the statement label for money flowing out of the account
	TypeDebit = "Debit"
)

// digitalChannels lists the transaction channels treated as digital when
// scoring product opportunities
var digitalChannels = map[string]struct{}{
	"Net Banking Transfer": {},
	"UPI":                  {},
	"Card":                 {},
}

// IsDigitalChannel reports whether the given channel counts as digital
func IsDigitalChannel(channel string) bool {
	_, ok := digitalChannels[channel]
	return ok
}

// Transaction represents a single row of the statement's transaction sheet.
// Type and Channel are carried as free text exactly as exported by the bank;
// classification helpers match against the exact statement labels
type Transaction struct {
	Timestamp time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"transaction_type"`
	Channel   string          `json:"transaction_channel"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewTransaction creates a new Transaction instance
func NewTransaction(timestamp time.Time, amount decimal.Decimal, txType, channel string, balance decimal.Decimal) *Transaction {
	return &Transaction{
		Timestamp: timestamp,
		Amount:    amount,
		Type:      txType,
		Channel:   channel,
		Balance:   balance,
	}
}

// Validate performs basic validation on the Transaction
func (t *Transaction) Validate() error {
	if t.Timestamp.IsZero() {
		return fmt.Errorf("transaction timestamp cannot be zero")
	}

	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount cannot be negative: %s", t.Amount.String())
	}

	return nil
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{Time: %s, Amount: %s, Type: %s, Channel: %s, Balance: %s}",
		t.Timestamp.Format(time.RFC3339), t.Amount.String(), t.Type, t.Channel, t.Balance.String())
}

// IsCredit returns true if the transaction type is the exact credit label
func (t *Transaction) IsCredit() bool {
	return strings.TrimSpace(t.Type) == TypeCredit
}

// IsDebit returns true if the transaction type is the exact debit label
func (t *Transaction) IsDebit() bool {
	return strings.TrimSpace(t.Type) == TypeDebit
}

// IsDigital returns true if the transaction went through a digital channel
func (t *Transaction) IsDigital() bool {
	return IsDigitalChannel(t.Channel)
}

// AmountKey returns the canonical grouping key for the transaction amount.
// decimal.String trims trailing zeros, so 100, 100.0 and 100.00 share a key
// while 100.01 gets its own
func (t *Transaction) AmountKey() string {
	return t.Amount.String()
}

// HourBucket returns the calendar-hour bucket the transaction falls into,
// formatted as YYYY-MM-DD-HH
func (t *Transaction) HourBucket() string {
	return t.Timestamp.Format("2006-01-02-15")
}

// TimeOfDay returns the offset of the transaction within its day
func (t *Transaction) TimeOfDay() time.Duration {
	return time.Duration(t.Timestamp.Hour())*time.Hour +
		time.Duration(t.Timestamp.Minute())*time.Minute +
		time.Duration(t.Timestamp.Second())*time.Second +
		time.Duration(t.Timestamp.Nanosecond())
}

// MarshalJSON implements custom JSON marshaling for Transaction
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Timestamp string `json:"date"`
		Amount    string `json:"amount"`
		Balance   string `json:"balance"`
		*Alias
	}{
		Timestamp: t.Timestamp.Format(time.RFC3339),
		Amount:    t.Amount.String(),
		Balance:   t.Balance.String(),
		Alias:     (*Alias)(t),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Transaction
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type Alias Transaction
	aux := &struct {
		Timestamp string `json:"date"`
		Amount    string `json:"amount"`
		Balance   string `json:"balance"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	t.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	t.Balance, err = decimal.NewFromString(aux.Balance)
	if err != nil {
		return fmt.Errorf("invalid balance format: %w", err)
	}

	t.Timestamp, err = time.Parse(time.RFC3339, aux.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid transaction time format: %w", err)
	}

	return nil
}

// Equals compares two Transaction instances for equality
func (t *Transaction) Equals(other *Transaction) bool {
	if other == nil {
		return false
	}

	return t.Timestamp.Equal(other.Timestamp) &&
		t.Amount.Equal(other.Amount) &&
		t.Type == other.Type &&
		t.Channel == other.Channel &&
		t.Balance.Equal(other.Balance)
}

// BalanceSnapshot represents one day's end-of-day balance from the
// statement's balance sheet, keyed by day of month and statement month
type BalanceSnapshot struct {
	Day     int             `json:"day"`
	Month   time.Time       `json:"month"`
	Balance decimal.Decimal `json:"balance"`
}

// NewBalanceSnapshot creates a new BalanceSnapshot instance
func NewBalanceSnapshot(day int, month time.Time, balance decimal.Decimal) *BalanceSnapshot {
	return &BalanceSnapshot{
		Day:     day,
		Month:   month,
		Balance: balance,
	}
}

// Validate performs basic validation on the BalanceSnapshot
func (bs *BalanceSnapshot) Validate() error {
	if bs.Day < 1 || bs.Day > 31 {
		return fmt.Errorf("day of month out of range: %d", bs.Day)
	}

	if bs.Month.IsZero() {
		return fmt.Errorf("snapshot month cannot be zero")
	}

	return nil
}

// Date returns the calendar date of the snapshot
func (bs *BalanceSnapshot) Date() time.Time {
	return time.Date(bs.Month.Year(), bs.Month.Month(), bs.Day, 0, 0, 0, 0, bs.Month.Location())
}

// String returns a string representation of the BalanceSnapshot
func (bs *BalanceSnapshot) String() string {
	return fmt.Sprintf("BalanceSnapshot{Date: %s, Balance: %s}",
		bs.Date().Format("2006-01-02"), bs.Balance.String())
}

// MarshalJSON implements custom JSON marshaling for BalanceSnapshot
func (bs *BalanceSnapshot) MarshalJSON() ([]byte, error) {
	type Alias BalanceSnapshot
	return json.Marshal(&struct {
		Month   string `json:"month"`
		Balance string `json:"balance"`
		*Alias
	}{
		Month:   bs.Month.Format("2006-01"),
		Balance: bs.Balance.String(),
		Alias:   (*Alias)(bs),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for BalanceSnapshot
func (bs *BalanceSnapshot) UnmarshalJSON(data []byte) error {
	type Alias BalanceSnapshot
	aux := &struct {
		Month   string `json:"month"`
		Balance string `json:"balance"`
		*Alias
	}{
		Alias: (*Alias)(bs),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	bs.Balance, err = decimal.NewFromString(aux.Balance)
	if err != nil {
		return fmt.Errorf("invalid balance format: %w", err)
	}

	bs.Month, err = time.Parse("2006-01", aux.Month)
	if err != nil {
		return fmt.Errorf("invalid month format: %w", err)
	}

	return nil
}

// Utility functions for type conversion and validation

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Strip currency symbols and thousand separators seen in exports
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseTimeWithFormats attempts to parse time from string using multiple common formats
func ParseTimeWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("time string cannot be empty")
	}

	// Formats seen across bank statement exports and spreadsheet cell styles
	formats := []string{
		time.RFC3339,          // "2006-01-02T15:04:05Z07:00"
		"2006-01-02 15:04:05", // "2006-01-02 15:04:05"
		"2006-01-02T15:04:05", // "2006-01-02T15:04:05"
		"2006-01-02",          // "2006-01-02"
		"1/2/06 15:04",        // "1/2/06 15:04" (default spreadsheet datetime style)
		"1/2/06 15:04:05",     // "1/2/06 15:04:05"
		"1/2/2006 15:04",      // "1/2/2006 15:04"
		"1/2/2006 15:04:05",   // "1/2/2006 15:04:05"
		"01/02/2006",          // "01/02/2006"
		"02-01-2006 15:04:05", // "02-01-2006 15:04:05"
		"2006/01/02",          // "2006/01/02"
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time '%s': %w", s, lastErr)
}

// ParseMonthLabel parses a statement month header such as "Jan-24" or
// "January 2024" into the first day of that month
func ParseMonthLabel(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("month label cannot be empty")
	}

	formats := []string{
		"Jan-06",       // "Jan-24"
		"Jan-2006",     // "Jan-2024"
		"Jan 2006",     // "Jan 2024"
		"January 2006", // "January 2024"
		"January-06",   // "January-24"
		"2006-01",      // "2024-01"
		"01/2006",      // "01/2024"
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse month label '%s': %w", s, lastErr)
}
