// Package analyzer implements the statement analysis engines: transaction
// pattern detection, fraud heuristics, and business opportunity rules.
//
// Three engines share one Thresholds configuration:
//   - PatternAnalyzer finds regular income and recurring expenses by
//     grouping transactions on their exact amount
//   - FraudDetector flags high-velocity bursts and unusually timed
//     transactions
//   - OpportunityEngine derives cross-sell and up-sell recommendations
//     from balance levels and digital channel usage
//
// The engines are pure: they read a transaction slice and return result
// structs, leaving orchestration and logging to the analysis service.
//
// Example usage:
//
//	config := analyzer.DefaultThresholds()
//
//	patterns := analyzer.NewPatternAnalyzer(config).Analyze(transactions)
//	fraud := analyzer.NewFraudDetector(config).Detect(transactions)
//	opportunities := analyzer.NewOpportunityEngine(config).Evaluate(transactions)
package analyzer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Thresholds holds the tunable limits shared by the analysis engines.
// Different profiles suit different review postures: a strict profile
// surfaces more candidates for manual review, a relaxed one fewer.
//
// Use the provided factory functions for common scenarios:
//   - DefaultThresholds(): balanced limits for routine statement review
//   - StrictThresholds(): tight limits for high-risk accounts
//   - RelaxedThresholds(): loose limits for exploratory analysis
type Thresholds struct {
	// VelocityLimit is the maximum number of transactions allowed within a
	// single clock hour before the whole hour is flagged
	VelocityLimit int `json:"velocity_limit"`

	// SuspiciousTimeStart is the time of day, as an offset from midnight,
	// at or after which a transaction counts as unusually timed
	SuspiciousTimeStart time.Duration `json:"suspicious_time_start"`

	// SuspiciousTimeEnd is the time of day, as an offset from midnight,
	// at or before which a transaction counts as unusually timed
	SuspiciousTimeEnd time.Duration `json:"suspicious_time_end"`

	// LargeTransaction is the amount above which a transaction counts as
	// large in the overview statistics
	LargeTransaction decimal.Decimal `json:"large_transaction"`

	// MinIncomeOccurrences is the minimum number of credits sharing an
	// exact amount for that amount to count as a regular income source
	MinIncomeOccurrences int `json:"min_income_occurrences"`

	// MinExpenseOccurrences is the minimum number of debits sharing an
	// exact amount for that amount to count as a recurring expense
	MinExpenseOccurrences int `json:"min_expense_occurrences"`

	// DigitalRatioThreshold is the share of digital-channel transactions
	// above which the premium card cross-sell fires
	DigitalRatioThreshold float64 `json:"digital_ratio_threshold"`

	// HealthyBalanceThreshold is the average balance above which the
	// mutual fund cross-sell fires
	HealthyBalanceThreshold decimal.Decimal `json:"healthy_balance_threshold"`

	// PremiumBalanceThreshold is the maximum balance above which the
	// premium account up-sell fires
	PremiumBalanceThreshold decimal.Decimal `json:"premium_balance_threshold"`
}

// DefaultThresholds returns the limits used for routine statement review
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		VelocityLimit:           5,
		SuspiciousTimeStart:     23 * time.Hour,
		SuspiciousTimeEnd:       4 * time.Hour,
		LargeTransaction:        decimal.NewFromInt(500000),
		MinIncomeOccurrences:    3,
		MinExpenseOccurrences:   2,
		DigitalRatioThreshold:   0.7,
		HealthyBalanceThreshold: decimal.NewFromInt(100000),
		PremiumBalanceThreshold: decimal.NewFromInt(500000),
	}
}

// StrictThresholds returns limits tuned for high-risk account review
func StrictThresholds() *Thresholds {
	return &Thresholds{
		VelocityLimit:           3,
		SuspiciousTimeStart:     22 * time.Hour,
		SuspiciousTimeEnd:       5 * time.Hour,
		LargeTransaction:        decimal.NewFromInt(200000),
		MinIncomeOccurrences:    2,
		MinExpenseOccurrences:   2,
		DigitalRatioThreshold:   0.5,
		HealthyBalanceThreshold: decimal.NewFromInt(50000),
		PremiumBalanceThreshold: decimal.NewFromInt(250000),
	}
}

// RelaxedThresholds returns limits tuned for exploratory analysis
func RelaxedThresholds() *Thresholds {
	return &Thresholds{
		VelocityLimit:           10,
		SuspiciousTimeStart:     23*time.Hour + 30*time.Minute,
		SuspiciousTimeEnd:       3 * time.Hour,
		LargeTransaction:        decimal.NewFromInt(1000000),
		MinIncomeOccurrences:    4,
		MinExpenseOccurrences:   3,
		DigitalRatioThreshold:   0.85,
		HealthyBalanceThreshold: decimal.NewFromInt(250000),
		PremiumBalanceThreshold: decimal.NewFromInt(1000000),
	}
}

// Validate checks if the threshold configuration is valid
func (t *Thresholds) Validate() error {
	if t.VelocityLimit <= 0 {
		return fmt.Errorf("velocity limit must be positive: %d", t.VelocityLimit)
	}

	day := 24 * time.Hour
	if t.SuspiciousTimeStart < 0 || t.SuspiciousTimeStart >= day {
		return fmt.Errorf("suspicious time start must be a time of day: %s", t.SuspiciousTimeStart)
	}

	if t.SuspiciousTimeEnd < 0 || t.SuspiciousTimeEnd >= day {
		return fmt.Errorf("suspicious time end must be a time of day: %s", t.SuspiciousTimeEnd)
	}

	if t.LargeTransaction.IsNegative() {
		return fmt.Errorf("large transaction threshold cannot be negative: %s", t.LargeTransaction)
	}

	if t.MinIncomeOccurrences < 1 {
		return fmt.Errorf("minimum income occurrences must be at least 1: %d", t.MinIncomeOccurrences)
	}

	if t.MinExpenseOccurrences < 1 {
		return fmt.Errorf("minimum expense occurrences must be at least 1: %d", t.MinExpenseOccurrences)
	}

	if t.DigitalRatioThreshold < 0.0 || t.DigitalRatioThreshold > 1.0 {
		return fmt.Errorf("digital ratio threshold must be between 0.0 and 1.0: %f", t.DigitalRatioThreshold)
	}

	if t.HealthyBalanceThreshold.IsNegative() {
		return fmt.Errorf("healthy balance threshold cannot be negative: %s", t.HealthyBalanceThreshold)
	}

	if t.PremiumBalanceThreshold.IsNegative() {
		return fmt.Errorf("premium balance threshold cannot be negative: %s", t.PremiumBalanceThreshold)
	}

	return nil
}

// Clone creates a deep copy of the threshold configuration
func (t *Thresholds) Clone() *Thresholds {
	if t == nil {
		return nil
	}

	clone := *t
	return &clone
}

// IsSuspiciousTimeOfDay reports whether a time of day, expressed as an
// offset from midnight, falls inside the suspicious window. The window
// wraps around midnight and is inclusive at both ends, so 23:00:00 and
// 04:00:00 are suspicious while 04:00:01 is not
func (t *Thresholds) IsSuspiciousTimeOfDay(timeOfDay time.Duration) bool {
	return timeOfDay >= t.SuspiciousTimeStart || timeOfDay <= t.SuspiciousTimeEnd
}

// IsLargeTransaction reports whether the amount exceeds the large
// transaction threshold
func (t *Thresholds) IsLargeTransaction(amount decimal.Decimal) bool {
	return amount.GreaterThan(t.LargeTransaction)
}

// String returns a human-readable description of the configuration
func (t *Thresholds) String() string {
	return fmt.Sprintf("Thresholds{Velocity: %d/hour, SuspiciousWindow: %s-%s, MinIncome: %d, MinExpense: %d, DigitalRatio: %.2f}",
		t.VelocityLimit, formatTimeOfDay(t.SuspiciousTimeStart), formatTimeOfDay(t.SuspiciousTimeEnd),
		t.MinIncomeOccurrences, t.MinExpenseOccurrences, t.DigitalRatioThreshold)
}

// formatTimeOfDay renders a duration offset from midnight as HH:MM
func formatTimeOfDay(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
