package analyzer

import (
	"golang-statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// CrossSellOpportunity recommends an additional product for the account
type CrossSellOpportunity struct {
	Product    string  `json:"product"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// UpSellOpportunity recommends an upgrade of the account itself
type UpSellOpportunity struct {
	Product       string  `json:"product"`
	Eligibility   float64 `json:"eligibility"`
	Justification string  `json:"justification"`
}

// OpportunityResult represents the business opportunities derived from a
// statement, together with the metrics the rules evaluated
type OpportunityResult struct {
	// CrossSell and UpSell are never nil; an account with no
	// opportunities gets empty lists
	CrossSell []CrossSellOpportunity `json:"cross_sell"`
	UpSell    []UpSellOpportunity    `json:"up_sell"`

	// AverageBalance is the mean of the running balance column
	AverageBalance decimal.Decimal `json:"average_balance"`

	// MaxBalance is the highest running balance observed
	MaxBalance decimal.Decimal `json:"max_balance"`

	// DigitalRatio is the share of transactions on a digital channel
	DigitalRatio float64 `json:"digital_ratio"`
}

// OpportunityEngine evaluates the cross-sell and up-sell rules. The three
// rules are independent: each fires on its own metric and none suppresses
// another
type OpportunityEngine struct {
	config *Thresholds
}

// NewOpportunityEngine creates an opportunity engine with the given
// thresholds
func NewOpportunityEngine(config *Thresholds) *OpportunityEngine {
	if config == nil {
		config = DefaultThresholds()
	}

	return &OpportunityEngine{config: config}
}

// Evaluate computes the account metrics and applies the opportunity rules.
// Every comparison is strictly greater than its threshold; a statement
// with no transactions yields empty recommendation lists
func (oe *OpportunityEngine) Evaluate(transactions []*models.Transaction) *OpportunityResult {
	result := &OpportunityResult{
		CrossSell: make([]CrossSellOpportunity, 0),
		UpSell:    make([]UpSellOpportunity, 0),
	}

	if len(transactions) == 0 {
		return result
	}

	total := decimal.Zero
	maxBalance := transactions[0].Balance
	digitalCount := 0

	for _, tx := range transactions {
		total = total.Add(tx.Balance)
		if tx.Balance.GreaterThan(maxBalance) {
			maxBalance = tx.Balance
		}
		if tx.IsDigital() {
			digitalCount++
		}
	}

	result.AverageBalance = total.Div(decimal.NewFromInt(int64(len(transactions))))
	result.MaxBalance = maxBalance
	result.DigitalRatio = float64(digitalCount) / float64(len(transactions))

	if result.DigitalRatio > oe.config.DigitalRatioThreshold {
		result.CrossSell = append(result.CrossSell, CrossSellOpportunity{
			Product:    "Premium Credit Card",
			Confidence: 0.8,
			Reasoning:  "High digital transaction usage indicates comfort with cards",
		})
	}

	if result.AverageBalance.GreaterThan(oe.config.HealthyBalanceThreshold) {
		result.CrossSell = append(result.CrossSell, CrossSellOpportunity{
			Product:    "Mutual Fund Investment",
			Confidence: 0.75,
			Reasoning:  "Maintains healthy average balance",
		})
	}

	if result.MaxBalance.GreaterThan(oe.config.PremiumBalanceThreshold) {
		result.UpSell = append(result.UpSell, UpSellOpportunity{
			Product:       "Premium Banking Account",
			Eligibility:   0.9,
			Justification: "High value transactions and balance maintenance",
		})
	}

	return result
}
