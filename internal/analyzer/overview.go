package analyzer

import (
	"sort"
	"time"

	"golang-statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// OverviewStats represents the headline account metrics shown before any
// deeper analysis
type OverviewStats struct {
	// TotalTransactions is the number of parsed transactions
	TotalTransactions int `json:"total_transactions"`

	// AverageBalance is the mean of the running balance column
	AverageBalance decimal.Decimal `json:"average_balance"`

	// TotalVolume is the sum of all transaction amounts, credits and
	// debits alike
	TotalVolume decimal.Decimal `json:"total_volume"`

	// LargeTransactionCount is the number of transactions above the large
	// transaction threshold
	LargeTransactionCount int `json:"large_transaction_count"`

	// CreditCount and DebitCount partition the transactions by type.
	// Free-text types that are neither fall into neither count
	CreditCount int `json:"credit_count"`
	DebitCount  int `json:"debit_count"`
}

// ComputeOverview derives the headline metrics from the transactions
func ComputeOverview(transactions []*models.Transaction, config *Thresholds) *OverviewStats {
	if config == nil {
		config = DefaultThresholds()
	}

	stats := &OverviewStats{
		TotalTransactions: len(transactions),
		AverageBalance:    decimal.Zero,
		TotalVolume:       decimal.Zero,
	}

	if len(transactions) == 0 {
		return stats
	}

	balanceTotal := decimal.Zero
	for _, tx := range transactions {
		balanceTotal = balanceTotal.Add(tx.Balance)
		stats.TotalVolume = stats.TotalVolume.Add(tx.Amount)

		if config.IsLargeTransaction(tx.Amount) {
			stats.LargeTransactionCount++
		}

		switch {
		case tx.IsCredit():
			stats.CreditCount++
		case tx.IsDebit():
			stats.DebitCount++
		}
	}

	stats.AverageBalance = balanceTotal.Div(decimal.NewFromInt(int64(len(transactions))))

	return stats
}

// MonthlyBalance summarizes the end-of-day balances of one statement month
type MonthlyBalance struct {
	// Month is the first day of the summarized month
	Month time.Time `json:"month"`

	// Days is the number of end-of-day snapshots in the month
	Days int `json:"days"`

	// Minimum, Maximum and Average describe the balance level across the
	// month's snapshots
	Minimum decimal.Decimal `json:"minimum"`
	Maximum decimal.Decimal `json:"maximum"`
	Average decimal.Decimal `json:"average"`
}

// SummarizeBalances condenses the daily balance snapshots into one summary
// per month, sorted chronologically. A nil or empty snapshot list yields
// an empty summary
func SummarizeBalances(snapshots []*models.BalanceSnapshot) []*MonthlyBalance {
	months := make(map[string]*MonthlyBalance)
	totals := make(map[string]decimal.Decimal)

	for _, snapshot := range snapshots {
		key := snapshot.Month.Format("2006-01")
		summary, exists := months[key]
		if !exists {
			months[key] = &MonthlyBalance{
				Month:   snapshot.Month,
				Days:    1,
				Minimum: snapshot.Balance,
				Maximum: snapshot.Balance,
			}
			totals[key] = snapshot.Balance
			continue
		}

		summary.Days++
		totals[key] = totals[key].Add(snapshot.Balance)
		if snapshot.Balance.LessThan(summary.Minimum) {
			summary.Minimum = snapshot.Balance
		}
		if snapshot.Balance.GreaterThan(summary.Maximum) {
			summary.Maximum = snapshot.Balance
		}
	}

	summaries := make([]*MonthlyBalance, 0, len(months))
	for key, summary := range months {
		summary.Average = totals[key].Div(decimal.NewFromInt(int64(summary.Days)))
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Month.Before(summaries[j].Month)
	})

	return summaries
}
