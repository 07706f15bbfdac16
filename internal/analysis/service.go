// Package analysis orchestrates the full statement analysis pipeline:
// ingestion, overview statistics, pattern detection, fraud heuristics and
// opportunity evaluation, collected into a single Result per session.
package analysis

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"golang-statement-analyzer/internal/analyzer"
	"golang-statement-analyzer/internal/ingest"
	"golang-statement-analyzer/internal/models"
	apperrors "golang-statement-analyzer/pkg/errors"
	"golang-statement-analyzer/pkg/logger"
)

// Config holds configuration options for the analysis service
type Config struct {
	// Workbook configures the statement ingestion layer
	Workbook *ingest.WorkbookConfig

	// Thresholds configures the analysis engines
	Thresholds *analyzer.Thresholds

	// IncludeStatistics attaches row-level parse statistics to the result
	IncludeStatistics bool

	// DetailedBreakdown attaches the per-amount and per-hour group
	// breakdowns to the result
	DetailedBreakdown bool

	// IncludeBalanceTrend attaches the monthly balance summaries to the
	// result when the statement carries balance data
	IncludeBalanceTrend bool
}

// DefaultConfig returns a default configuration for the analysis service
func DefaultConfig() *Config {
	return &Config{
		Workbook:            ingest.DefaultWorkbookConfig(),
		Thresholds:          analyzer.DefaultThresholds(),
		IncludeStatistics:   true,
		DetailedBreakdown:   true,
		IncludeBalanceTrend: true,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Workbook != nil {
		if err := c.Workbook.Validate(); err != nil {
			return fmt.Errorf("invalid workbook configuration: %w", err)
		}
	}

	if c.Thresholds != nil {
		if err := c.Thresholds.Validate(); err != nil {
			return fmt.Errorf("invalid threshold configuration: %w", err)
		}
	}

	return nil
}

// Result contains the complete results of one statement analysis
type Result struct {
	// Session identifies the analysis run
	Session *Session `json:"session"`

	// Overview holds the headline account metrics
	Overview *analyzer.OverviewStats `json:"overview"`

	// Patterns holds the recurring income and expense findings
	Patterns *analyzer.PatternResult `json:"patterns"`

	// Fraud holds the fraud indicator findings
	Fraud *analyzer.FraudResult `json:"fraud"`

	// Opportunities holds the cross-sell and up-sell recommendations
	Opportunities *analyzer.OpportunityResult `json:"opportunities"`

	// Balances holds the daily end-of-day balance snapshots, when present
	Balances []*models.BalanceSnapshot `json:"balances,omitempty"`

	// BalanceTrend summarizes Balances month by month
	BalanceTrend []*analyzer.MonthlyBalance `json:"balance_trend,omitempty"`

	// Warnings lists the recoverable problems hit during ingestion
	Warnings []string `json:"warnings,omitempty"`

	// ParseStats carries row-level ingestion statistics
	ParseStats *ingest.ParseStats `json:"parse_stats,omitempty"`

	// ProcessedAt is when the analysis finished
	ProcessedAt time.Time `json:"processed_at"`

	// Duration is the elapsed wall time of the full run
	Duration time.Duration `json:"duration"`
}

// HasWarnings reports whether ingestion degraded anywhere
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Service orchestrates the complete statement analysis process
type Service struct {
	parser        *ingest.StatementParser
	patterns      *analyzer.PatternAnalyzer
	fraud         *analyzer.FraudDetector
	opportunities *analyzer.OpportunityEngine
	config        *Config
	logger        logger.Logger
}

// NewService creates a new analysis service
func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, apperrors.ConfigurationError(
			apperrors.CodeInvalidConfig,
			"analysis_config",
			config,
			err,
		)
	}

	parser, err := ingest.NewStatementParser(config.Workbook)
	if err != nil {
		return nil, fmt.Errorf("failed to create statement parser: %w", err)
	}

	thresholds := config.Thresholds
	if thresholds == nil {
		thresholds = analyzer.DefaultThresholds()
	}

	return &Service{
		parser:        parser,
		patterns:      analyzer.NewPatternAnalyzer(thresholds),
		fraud:         analyzer.NewFraudDetector(thresholds),
		opportunities: analyzer.NewOpportunityEngine(thresholds),
		config:        config,
		logger:        logger.GetGlobalLogger().WithComponent("analysis_service"),
	}, nil
}

// AnalyzeFile runs the full analysis pipeline over a statement workbook on
// disk
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	session := NewSession(filepath.Base(path))

	statement, stats, err := s.parser.ParseFileWithContext(ctx, path)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Error("Statement ingestion failed")
		return nil, err
	}

	return s.analyze(ctx, session, statement, stats)
}

// AnalyzeReader runs the full analysis pipeline over a statement workbook
// read from a stream, such as an upload
func (s *Service) AnalyzeReader(ctx context.Context, r io.Reader, name string) (*Result, error) {
	session := NewSession(name)

	statement, stats, err := s.parser.ParseReader(ctx, r, name)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Error("Statement ingestion failed")
		return nil, err
	}

	return s.analyze(ctx, session, statement, stats)
}

// analyze runs the analysis engines over a parsed statement and assembles
// the final result
func (s *Service) analyze(ctx context.Context, session *Session, statement *ingest.Statement, stats *ingest.ParseStats) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, apperrors.AnalysisError(
			apperrors.CodeProcessingError,
			"analysis",
			fmt.Errorf("analysis cancelled by context"),
		)
	default:
	}

	op := logger.NewOperationLogger("analyze_statement", s.logger).
		WithField("session_id", session.ID).
		WithField("file_name", session.FileName).
		WithField("transactions", len(statement.Transactions))

	result := &Result{
		Session:  session,
		Warnings: statement.Warnings,
	}

	op.Step("overview")
	result.Overview = analyzer.ComputeOverview(statement.Transactions, s.config.Thresholds)

	op.Step("patterns")
	result.Patterns = s.patterns.Analyze(statement.Transactions)

	op.Step("fraud")
	result.Fraud = s.fraud.Detect(statement.Transactions)

	op.Step("opportunities")
	result.Opportunities = s.opportunities.Evaluate(statement.Transactions)

	if statement.HasBalances() {
		result.Balances = statement.Balances
		if s.config.IncludeBalanceTrend {
			result.BalanceTrend = analyzer.SummarizeBalances(statement.Balances)
		}
	}

	if s.config.IncludeStatistics {
		result.ParseStats = stats
	}

	if !s.config.DetailedBreakdown {
		result.Patterns.IncomeGroups = nil
		result.Patterns.ExpenseGroups = nil
		result.Fraud.VelocityBuckets = nil
	}

	result.ProcessedAt = time.Now()
	result.Duration = session.Duration()

	op.WithField("alerts", result.Fraud.AlertsCount).Success("Statement analysis completed")

	return result, nil
}

// GetConfiguration returns the current configuration
func (s *Service) GetConfiguration() *Config {
	return s.config
}

// UpdateConfiguration replaces the service configuration and rebuilds the
// components that depend on it
func (s *Service) UpdateConfiguration(config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	parser, err := ingest.NewStatementParser(config.Workbook)
	if err != nil {
		return fmt.Errorf("failed to create statement parser: %w", err)
	}

	thresholds := config.Thresholds
	if thresholds == nil {
		thresholds = analyzer.DefaultThresholds()
	}

	s.parser = parser
	s.patterns = analyzer.NewPatternAnalyzer(thresholds)
	s.fraud = analyzer.NewFraudDetector(thresholds)
	s.opportunities = analyzer.NewOpportunityEngine(thresholds)
	s.config = config

	return nil
}
