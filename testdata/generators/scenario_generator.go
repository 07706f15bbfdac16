package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ScenarioGenerator creates statement workbooks with known analysis outcomes
type ScenarioGenerator struct {
	Seed      int64
	OutputDir string
}

func main() {
	var (
		outputDir = flag.String("output-dir", "generated_scenarios", "Output directory for scenario workbooks")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible generation")
		scenario  = flag.String("scenario", "all", "Scenario to generate: all, salary, night, rapid-fire, affluent, messy, no-balances, performance")
	)
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	generator := &ScenarioGenerator{
		Seed:      *seed,
		OutputDir: *outputDir,
	}

	switch *scenario {
	case "salary":
		generator.GenerateSalaryPatternScenario()
	case "night":
		generator.GenerateNightActivityScenario()
	case "rapid-fire":
		generator.GenerateRapidFireScenario()
	case "affluent":
		generator.GenerateAffluentScenario()
	case "messy":
		generator.GenerateMessyRowsScenario()
	case "no-balances":
		generator.GenerateTransactionsOnlyScenario()
	case "performance":
		generator.GeneratePerformanceScenario()
	case "all":
		generator.GenerateAllScenarios()
	default:
		log.Fatalf("Unknown scenario: %s", *scenario)
	}

	fmt.Printf("Generated scenarios in %s\n", *outputDir)
	fmt.Printf("Seed used: %d\n", *seed)
}

// GenerateAllScenarios generates all predefined scenarios
func (sg *ScenarioGenerator) GenerateAllScenarios() {
	fmt.Println("Generating all scenarios...")
	sg.GenerateSalaryPatternScenario()
	sg.GenerateNightActivityScenario()
	sg.GenerateRapidFireScenario()
	sg.GenerateAffluentScenario()
	sg.GenerateMessyRowsScenario()
	sg.GenerateTransactionsOnlyScenario()
	sg.GeneratePerformanceScenario()
}

// GenerateSalaryPatternScenario creates three months of a fixed salary credit
// plus repeating rent and utility debits. Amount strings repeat exactly so the
// occurrences group together.
func (sg *ScenarioGenerator) GenerateSalaryPatternScenario() {
	fmt.Println("Generating salary pattern scenario...")

	transactions := [][]string{
		{"Date", "Amount", "Transaction Type", "Transaction Channel", "Balance"},
		{"2024-01-01 09:30:00", "75000.00", "Credit", "Net Banking Transfer", "125000.00"},
		{"2024-01-05 10:00:00", "18500.00", "Debit", "Net Banking Transfer", "106500.00"},
		{"2024-01-12 18:00:00", "2349.50", "Debit", "UPI", "104150.50"},
		{"2024-02-01 09:30:00", "75000.00", "Credit", "Net Banking Transfer", "179150.50"},
		{"2024-02-05 10:00:00", "18500.00", "Debit", "Net Banking Transfer", "160650.50"},
		{"2024-02-12 18:00:00", "2349.50", "Debit", "UPI", "158301.00"},
		{"2024-03-01 09:30:00", "75000.00", "Credit", "Net Banking Transfer", "233301.00"},
		{"2024-03-05 10:00:00", "18500.00", "Debit", "Net Banking Transfer", "214801.00"},
		{"2024-03-12 18:00:00", "2349.50", "Debit", "UPI", "212451.50"},
	}

	balances := [][]string{
		{"Day/Month", "Jan-2024", "Feb-2024", "Mar-2024"},
		{"1", "125000.00", "179150.50", "233301.00"},
		{"5", "106500.00", "160650.50", "214801.00"},
		{"12", "104150.50", "158301.00", "212451.50"},
	}

	sg.writeWorkbook("salary_pattern.xlsx", transactions, balances)
}

// GenerateNightActivityScenario creates transactions between 23:00 and 04:00
// mixed with daytime activity
func (sg *ScenarioGenerator) GenerateNightActivityScenario() {
	fmt.Println("Generating night activity scenario...")

	transactions := [][]string{
		{"Date", "Amount", "Transaction Type", "Transaction Channel", "Balance"},
		{"2024-01-10 11:00:00", "1500.00", "Credit", "UPI", "41500.00"},
		{"2024-01-10 23:15:00", "4999.00", "Debit", "Card", "36501.00"},
		{"2024-01-11 00:40:00", "1200.00", "Debit", "UPI", "35301.00"},
		{"2024-01-11 15:30:00", "2000.00", "Credit", "Net Banking Transfer", "37301.00"},
		{"2024-01-12 03:20:00", "899.00", "Debit", "Card", "36402.00"},
		{"2024-01-13 02:05:00", "3100.00", "Debit", "UPI", "33302.00"},
		{"2024-01-14 10:45:00", "650.00", "Debit", "ATM", "32652.00"},
	}

	balances := [][]string{
		{"Day/Month", "Jan-2024"},
		{"10", "36501.00"},
		{"11", "37301.00"},
		{"12", "36402.00"},
		{"13", "33302.00"},
		{"14", "32652.00"},
	}

	sg.writeWorkbook("night_activity.xlsx", transactions, balances)
}

// GenerateRapidFireScenario puts eight transactions inside one clock hour,
// enough to cross the default velocity limit of five
func (sg *ScenarioGenerator) GenerateRapidFireScenario() {
	fmt.Println("Generating rapid fire scenario...")

	transactions := [][]string{
		{"Date", "Amount", "Transaction Type", "Transaction Channel", "Balance"},
		{"2024-01-14 09:30:00", "5000.00", "Credit", "Net Banking Transfer", "55000.00"},
		{"2024-01-15 14:02:00", "450.00", "Debit", "UPI", "54550.00"},
		{"2024-01-15 14:08:00", "1299.00", "Debit", "Card", "53251.00"},
		{"2024-01-15 14:15:00", "780.00", "Debit", "UPI", "52471.00"},
		{"2024-01-15 14:22:00", "2150.00", "Debit", "Card", "50321.00"},
		{"2024-01-15 14:31:00", "349.00", "Debit", "UPI", "49972.00"},
		{"2024-01-15 14:40:00", "999.00", "Debit", "Card", "48973.00"},
		{"2024-01-15 14:47:00", "1875.00", "Debit", "UPI", "47098.00"},
		{"2024-01-15 14:55:00", "520.00", "Debit", "Card", "46578.00"},
		{"2024-01-16 12:00:00", "1000.00", "Debit", "ATM", "45578.00"},
	}

	balances := [][]string{
		{"Day/Month", "Jan-2024"},
		{"14", "55000.00"},
		{"15", "46578.00"},
		{"16", "45578.00"},
	}

	sg.writeWorkbook("rapid_fire.xlsx", transactions, balances)
}

// GenerateAffluentScenario creates a fully digital account whose balances sit
// well above the premium thresholds
func (sg *ScenarioGenerator) GenerateAffluentScenario() {
	fmt.Println("Generating affluent account scenario...")

	transactions := [][]string{
		{"Date", "Amount", "Transaction Type", "Transaction Channel", "Balance"},
		{"2024-01-01 10:00:00", "150000.00", "Credit", "Net Banking Transfer", "350000.00"},
		{"2024-01-02 11:30:00", "30000.00", "Credit", "UPI", "380000.00"},
		{"2024-01-03 09:45:00", "40000.00", "Credit", "Net Banking Transfer", "420000.00"},
		{"2024-01-04 14:20:00", "31000.00", "Credit", "Card", "451000.00"},
		{"2024-01-05 16:00:00", "29000.00", "Credit", "UPI", "480000.00"},
		{"2024-01-06 10:10:00", "30000.00", "Credit", "Net Banking Transfer", "510000.00"},
		{"2024-01-07 12:40:00", "35000.00", "Credit", "Card", "545000.00"},
		{"2024-01-08 15:25:00", "30000.00", "Credit", "UPI", "575000.00"},
		{"2024-01-09 09:05:00", "35000.00", "Credit", "Net Banking Transfer", "610000.00"},
		{"2024-01-10 13:50:00", "40000.00", "Credit", "Card", "650000.00"},
	}

	balances := [][]string{
		{"Day/Month", "Jan-2024"},
		{"1", "350000.00"},
		{"2", "380000.00"},
		{"3", "420000.00"},
		{"4", "451000.00"},
		{"5", "480000.00"},
		{"6", "510000.00"},
		{"7", "545000.00"},
		{"8", "575000.00"},
		{"9", "610000.00"},
		{"10", "650000.00"},
	}

	sg.writeWorkbook("affluent_account.xlsx", transactions, balances)
}

// GenerateMessyRowsScenario mixes valid rows with recoverable bad cells. The
// bad rows stay clear of unparseable dates, which would abort the whole parse.
func (sg *ScenarioGenerator) GenerateMessyRowsScenario() {
	fmt.Println("Generating messy rows scenario...")

	transactions := [][]string{
		{"Date", "Amount", "Transaction Type", "Transaction Channel", "Balance"},
		{"2024-02-01 10:00:00", "1200.00", "Credit", "UPI", "51200.00"},
		{"2024-02-02 11:30:00", "450.00", "Debit", "Card", "50750.00"},
		{"", "300.00", "Debit", "UPI", "50450.00"},
		{"2024-02-04 09:00:00", "abc", "Debit", "ATM", "50450.00"},
		{"2024-02-05 14:00:00", "8000.00", "Credit", "Net Banking Transfer", "58450.00"},
		{"2024-02-06 12:00:00", "-500.00", "Debit", "Branch", "57950.00"},
		{"2024-02-07 16:45:00", "250.00", "Debit", "UPI", "n/a"},
		{"2024-02-08 10:15:00", "625.00", "Debit", "Card", "57075.00"},
		{"2024-02-09 13:00:00", "90.00", "Transfer", "Branch", "56985.00"},
		{"2024-02-10 17:30:00", "2100.00", "Credit", "UPI", "59085.00"},
	}

	// The Totals column has no month label and should only produce a warning
	balances := [][]string{
		{"Day/Month", "Feb-2024", "Totals"},
		{"1", "51200.00", "51200.00"},
		{"2", "50750.00", "101950.00"},
		{"5", "58450.00", "160400.00"},
	}

	sg.writeWorkbook("messy_rows.xlsx", transactions, balances)
}

// GenerateTransactionsOnlyScenario omits the balance sheet entirely, which
// should surface as a warning rather than a failure
func (sg *ScenarioGenerator) GenerateTransactionsOnlyScenario() {
	fmt.Println("Generating transactions-only scenario...")

	transactions := [][]string{
		{"Date", "Amount", "Transaction Type", "Transaction Channel", "Balance"},
		{"2024-03-01 09:00:00", "20000.00", "Credit", "Net Banking Transfer", "70000.00"},
		{"2024-03-03 12:30:00", "1500.00", "Debit", "UPI", "68500.00"},
		{"2024-03-07 15:45:00", "3200.00", "Debit", "Card", "65300.00"},
		{"2024-03-11 10:20:00", "800.00", "Debit", "ATM", "64500.00"},
		{"2024-03-15 14:00:00", "5000.00", "Credit", "UPI", "69500.00"},
	}

	sg.writeWorkbook("transactions_only.xlsx", transactions, nil)
}

// GeneratePerformanceScenario creates a large workbook for throughput checks
func (sg *ScenarioGenerator) GeneratePerformanceScenario() {
	rand.Seed(sg.Seed)

	fmt.Println("Generating performance scenario...")

	transactions := [][]string{
		{"Date", "Amount", "Transaction Type", "Transaction Channel", "Balance"},
	}

	channels := []string{"UPI", "Card", "Net Banking Transfer", "ATM", "Branch", "Cheque"}
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	balance := decimal.NewFromInt(500000)

	for i := 0; i < 5000; i++ {
		txTime := baseTime.AddDate(0, 0, rand.Intn(365)).
			Add(time.Duration(rand.Intn(24))*time.Hour).
			Add(time.Duration(rand.Intn(60))*time.Minute)

		amount := decimal.NewFromFloat(rand.Float64()*10000 + 10).Round(2)

		txType := "Credit"
		if rand.Float64() < 0.55 {
			txType = "Debit"
			balance = balance.Sub(amount)
		} else {
			balance = balance.Add(amount)
		}

		transactions = append(transactions, []string{
			txTime.Format("2006-01-02 15:04:05"),
			amount.String(),
			txType,
			channels[rand.Intn(len(channels))],
			balance.String(),
		})
	}

	sg.writeWorkbook("performance_statement.xlsx", transactions, nil)
}

// writeWorkbook writes the transaction rows and, when balance rows are given,
// a Daily EOD Balances grid alongside them
func (sg *ScenarioGenerator) writeWorkbook(filename string, transactions [][]string, balances [][]string) {
	path := filepath.Join(sg.OutputDir, filename)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Transactions"); err != nil {
		log.Printf("Failed to set up %s: %v", path, err)
		return
	}

	if err := writeRows(f, "Transactions", transactions); err != nil {
		log.Printf("Failed to write transactions to %s: %v", path, err)
		return
	}

	if balances != nil {
		if _, err := f.NewSheet("Daily EOD Balances"); err != nil {
			log.Printf("Failed to add balance sheet to %s: %v", path, err)
			return
		}
		if err := writeRows(f, "Daily EOD Balances", balances); err != nil {
			log.Printf("Failed to write balances to %s: %v", path, err)
			return
		}
	}

	if err := f.SaveAs(path); err != nil {
		log.Printf("Failed to save %s: %v", path, err)
		return
	}

	fmt.Printf("  Created %s with %d transaction rows\n", filename, len(transactions)-1)
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
