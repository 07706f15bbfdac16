package analyzer

import (
	"sort"

	"golang-statement-analyzer/internal/models"
)

// VelocityBucket collects the transactions that fell into one flagged
// clock hour
type VelocityBucket struct {
	// Bucket identifies the hour in YYYY-MM-DD-HH form
	Bucket string

	// Count is the number of transactions in the hour
	Count int

	// Transactions holds the bucket members in statement order
	Transactions []*models.Transaction
}

// FraudResult represents the fraud indicators found in a statement
type FraudResult struct {
	// HighVelocity holds every transaction from an hour whose transaction
	// count exceeded the velocity limit, in statement order
	HighVelocity []*models.Transaction

	// UnusualTiming holds every transaction timestamped inside the
	// suspicious late-night window, in statement order
	UnusualTiming []*models.Transaction

	// VelocityBuckets breaks HighVelocity down by hour, sorted by hour
	VelocityBuckets []*VelocityBucket

	// AlertsCount is the sum of the two list lengths. A transaction that
	// appears in both lists contributes twice
	AlertsCount int
}

// HasAlerts reports whether any fraud indicator fired
func (fr *FraudResult) HasAlerts() bool {
	return fr.AlertsCount > 0
}

// FraudDetector flags high-velocity transaction bursts and transactions
// timestamped at unusual hours. The two heuristics run independently over
// the full transaction list; neither consumes the other's matches
type FraudDetector struct {
	config *Thresholds
}

// NewFraudDetector creates a fraud detector with the given thresholds
func NewFraudDetector(config *Thresholds) *FraudDetector {
	if config == nil {
		config = DefaultThresholds()
	}

	return &FraudDetector{config: config}
}

// Detect runs both fraud heuristics over the transactions
func (fd *FraudDetector) Detect(transactions []*models.Transaction) *FraudResult {
	buckets, flaggedHours := fd.findVelocityBuckets(transactions)

	result := &FraudResult{
		HighVelocity:    make([]*models.Transaction, 0),
		UnusualTiming:   make([]*models.Transaction, 0),
		VelocityBuckets: buckets,
	}

	for _, tx := range transactions {
		if flaggedHours[tx.HourBucket()] {
			result.HighVelocity = append(result.HighVelocity, tx)
		}
	}

	for _, tx := range transactions {
		if fd.config.IsSuspiciousTimeOfDay(tx.TimeOfDay()) {
			result.UnusualTiming = append(result.UnusualTiming, tx)
		}
	}

	result.AlertsCount = len(result.HighVelocity) + len(result.UnusualTiming)

	return result
}

// findVelocityBuckets groups transactions by clock hour and keeps the
// hours whose count exceeds the velocity limit. Exceeding means strictly
// greater: an hour holding exactly the limit is not flagged
func (fd *FraudDetector) findVelocityBuckets(transactions []*models.Transaction) ([]*VelocityBucket, map[string]bool) {
	hours := make(map[string]*VelocityBucket)
	for _, tx := range transactions {
		key := tx.HourBucket()
		if bucket, exists := hours[key]; exists {
			bucket.Transactions = append(bucket.Transactions, tx)
			bucket.Count++
		} else {
			hours[key] = &VelocityBucket{
				Bucket:       key,
				Count:        1,
				Transactions: []*models.Transaction{tx},
			}
		}
	}

	flagged := make(map[string]bool)
	buckets := make([]*VelocityBucket, 0)
	for key, bucket := range hours {
		if bucket.Count > fd.config.VelocityLimit {
			flagged[key] = true
			buckets = append(buckets, bucket)
		}
	}

	// the YYYY-MM-DD-HH key sorts chronologically
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Bucket < buckets[j].Bucket
	})

	return buckets, flagged
}
