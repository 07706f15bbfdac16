package analyzer

import (
	"sort"

	"golang-statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// AmountGroup collects the transactions that share one exact amount
type AmountGroup struct {
	// Amount is the shared transaction amount
	Amount decimal.Decimal

	// Count is the number of transactions in the group
	Count int

	// Transactions holds the group members in statement order
	Transactions []*models.Transaction
}

// PatternResult represents the recurring transaction patterns found in a
// statement
type PatternResult struct {
	// RegularIncome holds every credit whose exact amount repeats at least
	// MinIncomeOccurrences times, in statement order
	RegularIncome []*models.Transaction

	// RecurringExpenses holds every debit whose exact amount repeats at
	// least MinExpenseOccurrences times, in statement order
	RecurringExpenses []*models.Transaction

	// IncomeGroups breaks RegularIncome down by amount, sorted by amount
	IncomeGroups []*AmountGroup

	// ExpenseGroups breaks RecurringExpenses down by amount, sorted by amount
	ExpenseGroups []*AmountGroup

	// IncomeCount is the total number of transactions in RegularIncome
	IncomeCount int

	// ExpensesCount is the total number of transactions in RecurringExpenses
	ExpensesCount int
}

// PatternAnalyzer finds regular income sources and recurring expenses by
// grouping transactions on their exact amount. Grouping uses the canonical
// decimal string, so 100 and 100.00 land in the same group while 100.01
// does not; there is no tolerance
type PatternAnalyzer struct {
	config *Thresholds
}

// NewPatternAnalyzer creates a pattern analyzer with the given thresholds
func NewPatternAnalyzer(config *Thresholds) *PatternAnalyzer {
	if config == nil {
		config = DefaultThresholds()
	}

	return &PatternAnalyzer{config: config}
}

// Analyze partitions the transactions into credits and debits and reports
// the amounts that repeat often enough to count as patterns
func (pa *PatternAnalyzer) Analyze(transactions []*models.Transaction) *PatternResult {
	var credits, debits []*models.Transaction
	for _, tx := range transactions {
		switch {
		case tx.IsCredit():
			credits = append(credits, tx)
		case tx.IsDebit():
			debits = append(debits, tx)
		}
	}

	incomeGroups, incomeKeys := groupByExactAmount(credits, pa.config.MinIncomeOccurrences)
	expenseGroups, expenseKeys := groupByExactAmount(debits, pa.config.MinExpenseOccurrences)

	result := &PatternResult{
		RegularIncome:     filterByAmountKey(credits, incomeKeys),
		RecurringExpenses: filterByAmountKey(debits, expenseKeys),
		IncomeGroups:      incomeGroups,
		ExpenseGroups:     expenseGroups,
	}

	result.IncomeCount = len(result.RegularIncome)
	result.ExpensesCount = len(result.RecurringExpenses)

	return result
}

// groupByExactAmount buckets transactions by their canonical amount key and
// keeps the buckets that reach minOccurrences. Groups come back sorted by
// amount; the key set drives order-preserving filtering of the source slice
func groupByExactAmount(transactions []*models.Transaction, minOccurrences int) ([]*AmountGroup, map[string]bool) {
	buckets := make(map[string]*AmountGroup)
	for _, tx := range transactions {
		key := tx.AmountKey()
		if group, exists := buckets[key]; exists {
			group.Transactions = append(group.Transactions, tx)
			group.Count++
		} else {
			buckets[key] = &AmountGroup{
				Amount:       tx.Amount,
				Count:        1,
				Transactions: []*models.Transaction{tx},
			}
		}
	}

	keys := make(map[string]bool)
	groups := make([]*AmountGroup, 0, len(buckets))
	for key, group := range buckets {
		if group.Count >= minOccurrences {
			keys[key] = true
			groups = append(groups, group)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Amount.LessThan(groups[j].Amount)
	})

	return groups, keys
}

// filterByAmountKey returns the transactions whose amount key is in the
// set, preserving the order of the source slice
func filterByAmountKey(transactions []*models.Transaction, keys map[string]bool) []*models.Transaction {
	filtered := make([]*models.Transaction, 0)
	for _, tx := range transactions {
		if keys[tx.AmountKey()] {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}
