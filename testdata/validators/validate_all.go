package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MasterValidator orchestrates the individual validation tools
type MasterValidator struct {
	DataDir    string
	OutputDir  string
	Verbose    bool
	Strict     bool
	ReportFile string
}

// ValidationSuite is a named sequence of validator runs
type ValidationSuite struct {
	Name        string
	Description string
	Validators  []ValidatorSpec
}

// ValidatorSpec describes one validator invocation
type ValidatorSpec struct {
	Name     string
	Command  string
	Args     []string
	Required bool
	Timeout  time.Duration
}

// RunResult captures the outcome of one validator run
type RunResult struct {
	Success  bool
	Duration time.Duration
	Output   string
	Error    string
}

func main() {
	var (
		dataDir   = flag.String("data-dir", "../generated", "Directory containing test workbooks")
		outputDir = flag.String("output-dir", "validation_reports", "Directory for validation reports")
		verbose   = flag.Bool("verbose", false, "Verbose output")
		strict    = flag.Bool("strict", false, "Strict validation mode")
		suiteName = flag.String("suite", "full", "Validation suite: quick, full, performance, edge_cases")
		report    = flag.String("report", "", "Master report file (optional)")
	)
	flag.Parse()

	mv := &MasterValidator{
		DataDir:    *dataDir,
		OutputDir:  *outputDir,
		Verbose:    *verbose,
		Strict:     *strict,
		ReportFile: *report,
	}

	fmt.Println("Statement Workbook Validation Runner")
	fmt.Println("====================================")
	fmt.Printf("Workbooks under:  %s\n", mv.DataDir)
	fmt.Printf("Reports written:  %s\n", mv.OutputDir)
	fmt.Printf("Suite selected:   %s\n", *suiteName)
	if mv.Strict {
		fmt.Println("Mode:             strict")
	}
	fmt.Println()

	if err := os.MkdirAll(mv.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	suite, ok := mv.suiteByName(*suiteName)
	if !ok {
		fmt.Println("Available validation suites:")
		for _, s := range mv.DefineValidationSuites() {
			fmt.Printf("  %-12s %s\n", s.Name, s.Description)
		}
		log.Fatalf("Unknown validation suite: %s", *suiteName)
	}

	success := mv.RunValidationSuite(suite)

	if mv.ReportFile != "" {
		mv.GenerateMasterReport()
	}

	if !success {
		os.Exit(1)
	}
}

func (mv *MasterValidator) suiteByName(name string) (ValidationSuite, bool) {
	for _, s := range mv.DefineValidationSuites() {
		if s.Name == name {
			return s, true
		}
	}
	return ValidationSuite{}, false
}

// reportArg builds the -output argument pointing into the report directory.
func (mv *MasterValidator) reportArg(filename string) string {
	return "-output=" + filepath.Join(mv.OutputDir, filename)
}

func required(name, command string, timeout time.Duration, args ...string) ValidatorSpec {
	return ValidatorSpec{Name: name, Command: command, Args: args, Required: true, Timeout: timeout}
}

func optional(name, command string, timeout time.Duration, args ...string) ValidatorSpec {
	return ValidatorSpec{Name: name, Command: command, Args: args, Required: false, Timeout: timeout}
}

// DefineValidationSuites enumerates the suites this runner knows about
func (mv *MasterValidator) DefineValidationSuites() []ValidationSuite {
	scenarioDir := filepath.Join(mv.DataDir, "scenarios")

	quick := ValidationSuite{
		Name:        "quick",
		Description: "Fast checks for the inner development loop",
		Validators: []ValidatorSpec{
			required("workbook_format", "data_validator", 30*time.Second,
				"-input="+scenarioDir, mv.reportArg("data_validation.txt")),
			required("salary_coverage", "scenario_validator", time.Minute,
				"-data-dir="+mv.DataDir, "-scenario=salary_pattern", mv.reportArg("scenario_validation.txt")),
		},
	}

	full := ValidationSuite{
		Name:        "full",
		Description: "Every validator over the whole generated tree",
		Validators: []ValidatorSpec{
			required("workbook_format", "data_validator", 2*time.Minute,
				"-input="+mv.DataDir, "-recursive", mv.reportArg("data_validation.txt")),
			required("scenario_coverage", "scenario_validator", 3*time.Minute,
				"-data-dir="+mv.DataDir, mv.reportArg("scenario_validation.txt")),
			required("analysis_e2e", "analysis_validator", 5*time.Minute,
				"-data-dir="+scenarioDir, mv.reportArg("analysis_validation.txt")),
		},
	}

	perf := ValidationSuite{
		Name:        "performance",
		Description: "Large-workbook parse and analysis timing",
		Validators: []ValidatorSpec{
			required("workbook_format", "data_validator", 2*time.Minute,
				"-input="+filepath.Join(mv.DataDir, "performance"), mv.reportArg("data_validation.txt")),
			optional("analysis_performance", "analysis_validator", 10*time.Minute,
				"-data-dir="+scenarioDir, "-test=performance", mv.reportArg("performance_validation.txt")),
		},
	}

	edge := ValidationSuite{
		Name:        "edge_cases",
		Description: "Recoverable bad cells and missing balance sheets",
		Validators: []ValidatorSpec{
			required("messy_coverage", "scenario_validator", time.Minute,
				"-data-dir="+mv.DataDir, "-scenario=messy_rows", mv.reportArg("edge_case_scenarios.txt")),
			required("messy_analysis", "analysis_validator", 2*time.Minute,
				"-data-dir="+scenarioDir, "-test=messy_rows", mv.reportArg("edge_case_analysis.txt")),
			optional("no_balance_analysis", "analysis_validator", 2*time.Minute,
				"-data-dir="+scenarioDir, "-test=transactions_only", mv.reportArg("edge_case_warnings.txt")),
		},
	}

	return []ValidationSuite{quick, full, perf, edge}
}

// RunValidationSuite executes every validator in the suite and reports overall success
func (mv *MasterValidator) RunValidationSuite(suite ValidationSuite) bool {
	fmt.Printf("Suite: %s (%s)\n\n", suite.Name, suite.Description)

	allRequiredPassed := true
	results := make(map[string]RunResult)

	for _, spec := range suite.Validators {
		fmt.Printf("--> %s\n", spec.Name)

		result := mv.RunValidator(spec)
		results[spec.Name] = result

		switch {
		case result.Success:
			fmt.Printf("    passed in %v\n", result.Duration.Round(time.Millisecond))
		case spec.Required:
			fmt.Printf("    FAILED in %v\n", result.Duration.Round(time.Millisecond))
			allRequiredPassed = false
		default:
			fmt.Printf("    failed in %v (not required)\n", result.Duration.Round(time.Millisecond))
		}

		if mv.Verbose || (!result.Success && spec.Required) {
			mv.printRunDetail(result)
		}
		fmt.Println()
	}

	mv.PrintSuiteSummary(suite, results)

	return allRequiredPassed
}

func (mv *MasterValidator) printRunDetail(result RunResult) {
	if result.Error != "" {
		fmt.Printf("    error: %s\n", result.Error)
	}
	for _, line := range strings.Split(strings.TrimSpace(result.Output), "\n") {
		fmt.Printf("    | %s\n", line)
	}
}

// RunValidator invokes one validator tool via `go run` in this directory
func (mv *MasterValidator) RunValidator(spec ValidatorSpec) RunResult {
	args := append([]string{"run", spec.Command + ".go"}, spec.Args...)

	if mv.Verbose {
		args = append(args, "-verbose")
	}

	// Only the format validator understands strict mode
	if mv.Strict && spec.Command == "data_validator" {
		args = append(args, "-strict")
	}

	cmd := exec.Command("go", args...)
	cmd.Dir = "."

	started := time.Now()
	output, err := cmd.CombinedOutput()

	result := RunResult{
		Duration: time.Since(started),
		Output:   string(output),
		Success:  err == nil,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// PrintSuiteSummary prints the per-validator outcomes and the overall verdict
func (mv *MasterValidator) PrintSuiteSummary(suite ValidationSuite, results map[string]RunResult) {
	heading := fmt.Sprintf("Suite summary: %s", suite.Name)
	fmt.Println(heading)
	fmt.Println(strings.Repeat("=", len(heading)))

	var passed, requiredPassed, requiredTotal int
	var elapsed time.Duration

	for _, spec := range suite.Validators {
		result := results[spec.Name]
		elapsed += result.Duration
		if result.Success {
			passed++
		}
		if spec.Required {
			requiredTotal++
			if result.Success {
				requiredPassed++
			}
		}

		marker := "✅"
		if !result.Success {
			marker = "❌"
		}
		note := ""
		if spec.Required {
			note = " (required)"
		}
		fmt.Printf("  %s %-22s %8v%s\n", marker, spec.Name, result.Duration.Round(time.Millisecond), note)
	}

	fmt.Printf("\n%d/%d validators passed, %d/%d required, total %v\n",
		passed, len(suite.Validators), requiredPassed, requiredTotal, elapsed.Round(time.Millisecond))

	if requiredPassed == requiredTotal {
		fmt.Println("Verdict: ✅ SUITE PASSED")
	} else {
		fmt.Println("Verdict: ❌ SUITE FAILED")
	}
	fmt.Println()
}

// GenerateMasterReport stitches the individual report files into one markdown document
func (mv *MasterValidator) GenerateMasterReport() {
	reportPath := mv.ReportFile
	if reportPath == "" {
		reportPath = filepath.Join(mv.OutputDir, "master_validation_report.md")
	}

	file, err := os.Create(reportPath)
	if err != nil {
		log.Printf("Failed to create master report: %v", err)
		return
	}
	defer file.Close()

	mode := "standard"
	if mv.Strict {
		mode = "strict"
	}

	fmt.Fprintf(file, "# Statement Workbook Validation Report\n\n")
	fmt.Fprintf(file, "- Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "- Workbook directory: %s\n", mv.DataDir)
	fmt.Fprintf(file, "- Mode: %s\n\n", mode)

	sections := []struct {
		title string
		file  string
		desc  string
	}{
		{"Workbook Format", "data_validation.txt", "Structural parse results for every workbook, with row-level error samples."},
		{"Scenario Coverage", "scenario_validation.txt", "Whether each required analysis scenario has a matching workbook."},
		{"Analysis Pipeline", "analysis_validation.txt", "End-to-end runs with per-scenario outcome expectations."},
	}

	for _, section := range sections {
		fmt.Fprintf(file, "## %s\n\n%s\n\n", section.title, section.desc)

		content, readErr := os.ReadFile(filepath.Join(mv.OutputDir, section.file))
		if readErr != nil {
			fmt.Fprintf(file, "*No report produced (%s).*\n\n", section.file)
			continue
		}
		fmt.Fprintf(file, "```\n%s\n```\n\n", strings.TrimSpace(string(content)))
	}

	fmt.Fprintf(file, "## Workbook Inventory\n\n")
	for _, entry := range mv.collectWorkbooks() {
		fmt.Fprintf(file, "- `%s` (%d bytes)\n", entry.path, entry.size)
	}

	fmt.Printf("Master report written to %s\n", reportPath)
}

type workbookEntry struct {
	path string
	size int64
}

func (mv *MasterValidator) collectWorkbooks() []workbookEntry {
	var entries []workbookEntry

	filepath.Walk(mv.DataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".xlsx" && ext != ".xls" {
			return nil
		}
		rel, relErr := filepath.Rel(mv.DataDir, path)
		if relErr != nil {
			rel = path
		}
		entries = append(entries, workbookEntry{path: rel, size: info.Size()})
		return nil
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	return entries
}

// ValidateGeneratedData checks that the workbooks the suites depend on exist
func (mv *MasterValidator) ValidateGeneratedData() bool {
	needed := []string{
		"scenarios/salary_pattern.xlsx",
		"scenarios/rapid_fire.xlsx",
		"scenarios/night_activity.xlsx",
		"scenarios/affluent_account.xlsx",
	}

	ok := true
	for _, rel := range needed {
		if _, err := os.Stat(filepath.Join(mv.DataDir, rel)); os.IsNotExist(err) {
			fmt.Printf("missing workbook: %s (run the generators first)\n", rel)
			ok = false
		}
	}
	return ok
}

// CheckSystemDependencies verifies the go toolchain is on PATH for `go run`
func (mv *MasterValidator) CheckSystemDependencies() bool {
	if _, err := exec.LookPath("go"); err != nil {
		fmt.Println("go toolchain not found on PATH")
		return false
	}
	return true
}

// CleanupValidationResults resets the report directory between runs
func (mv *MasterValidator) CleanupValidationResults() {
	if err := os.RemoveAll(mv.OutputDir); err != nil {
		fmt.Printf("Warning: could not clear %s: %v\n", mv.OutputDir, err)
	}
	if err := os.MkdirAll(mv.OutputDir, 0755); err != nil {
		fmt.Printf("Warning: could not recreate %s: %v\n", mv.OutputDir, err)
	}
}
