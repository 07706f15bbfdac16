package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// Generator describes one runnable generator tool in this directory
type Generator struct {
	Name        string
	Command     string
	Description string
}

var generators = []Generator{
	{
		Name:        "statements",
		Command:     "statement_generator",
		Description: "Bank statement workbooks (.xlsx) with configurable activity patterns",
	},
	{
		Name:        "scenarios",
		Command:     "scenario_generator",
		Description: "Fixed scenario workbooks with known analysis outcomes",
	},
}

func main() {
	var (
		generator = flag.String("generator", "", "Generator to run: statements, scenarios, or 'all'")
		list      = flag.Bool("list", false, "List available generators")
		outputDir = flag.String("output-dir", "../generated", "Output directory for generated files")
		help      = flag.Bool("help", false, "Show the selected generator's own flags")
	)
	flag.Parse()

	if *list {
		listGenerators()
		return
	}

	if *generator == "" {
		printUsage()
		return
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	if *help {
		showGeneratorHelp(*generator)
		return
	}

	if *generator == "all" {
		generateAll(*outputDir)
		return
	}

	g, ok := findGenerator(*generator)
	if !ok {
		log.Fatalf("Unknown generator: %s", *generator)
	}
	runGenerator(g, *outputDir, flag.Args())
}

func findGenerator(name string) (Generator, bool) {
	for _, g := range generators {
		if g.Name == name {
			return g, true
		}
	}
	return Generator{}, false
}

func printUsage() {
	fmt.Println("Workbook generator front end")
	fmt.Println()
	fmt.Println("  go run generate.go -generator=<name> [tool flags]")
	fmt.Println("  go run generate.go -generator=all")
	fmt.Println()
	fmt.Println("Generators:")
	for _, g := range generators {
		fmt.Printf("  %-12s %s\n", g.Name, g.Description)
	}
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  go run generate.go -generator=statements -count=1000 -pattern=salaried")
	fmt.Println("  go run generate.go -generator=scenarios -scenario=rapid-fire")
}

func listGenerators() {
	fmt.Println("Available generators")
	fmt.Println("--------------------")
	for _, g := range generators {
		fmt.Printf("%-12s (%s.go)\n", g.Name, g.Command)
		fmt.Printf("             %s\n", g.Description)
	}
}

func showGeneratorHelp(name string) {
	g, ok := findGenerator(name)
	if !ok {
		log.Fatalf("Unknown generator: %s", name)
	}

	fmt.Printf("Flags for the %s generator:\n\n", g.Name)

	// The subtool exits nonzero on -help; its usage text still lands on stderr
	out, _ := exec.Command("go", "run", g.Command+".go", "-help").CombinedOutput()
	fmt.Println(string(out))
}

func runGenerator(g Generator, outputDir string, extra []string) {
	fmt.Printf("Running the %s generator\n", g.Name)

	cmdArgs := []string{"run", g.Command + ".go"}
	if g.Name == "scenarios" {
		cmdArgs = append(cmdArgs, "-output-dir="+outputDir)
	}
	cmdArgs = append(cmdArgs, extra...)

	cmd := exec.Command("go", cmdArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		log.Fatalf("%s generator failed: %v", g.Name, err)
	}

	fmt.Printf("✓ %s generator finished\n", g.Name)
}

// runStatementGenerator shells out to statement_generator.go for one workbook.
func runStatementGenerator(path string, count int, pattern string, seed int64, extra ...string) error {
	args := []string{
		"run", "statement_generator.go",
		"-output=" + path,
		"-count=" + strconv.Itoa(count),
		"-pattern=" + pattern,
		"-seed=" + strconv.FormatInt(seed, 10),
	}
	args = append(args, extra...)
	return exec.Command("go", args...).Run()
}

func generateAll(outputDir string) {
	fmt.Println("Building the full generated-workbook tree")
	fmt.Printf("Target: %s\n", outputDir)

	seed := time.Now().UnixNano()
	fmt.Printf("Seed:   %d\n\n", seed)

	for _, sub := range []string{"statements", "scenarios", "performance"} {
		if err := os.MkdirAll(filepath.Join(outputDir, sub), 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", sub, err)
		}
	}

	fmt.Println("[1/4] statement workbooks")
	generateStatementSets(outputDir, seed)

	fmt.Println("[2/4] scenario workbooks")
	generateScenarioSets(outputDir, seed)

	fmt.Println("[3/4] performance workbooks")
	generatePerformanceSets(outputDir, seed)

	fmt.Println("[4/4] dataset README")
	generateDocumentation(outputDir)

	fmt.Printf("\n✓ Generated tree ready under %s\n", outputDir)
}

type datasetSpec struct {
	file    string
	count   int
	pattern string
	desc    string
}

func generateStatementSets(outputDir string, seed int64) {
	stmtDir := filepath.Join(outputDir, "statements")

	sets := []datasetSpec{
		{"small_random.xlsx", 100, "random", "Small random statement"},
		{"medium_random.xlsx", 1000, "random", "Medium random statement"},
		{"salaried_account.xlsx", 400, "salaried", "Salary and recurring expense patterns"},
		{"night_owl.xlsx", 400, "night-owl", "Late night transaction activity"},
		{"burst_activity.xlsx", 300, "burst", "Transaction bursts inside single hours"},
		{"affluent_digital.xlsx", 300, "affluent", "Digital heavy high balance account"},
	}

	for _, ds := range sets {
		fmt.Printf("  %s: %s\n", ds.file, ds.desc)
		if err := runStatementGenerator(filepath.Join(stmtDir, ds.file), ds.count, ds.pattern, seed); err != nil {
			log.Printf("generation of %s failed: %v", ds.file, err)
		}
	}
}

func generateScenarioSets(outputDir string, seed int64) {
	fmt.Println("  all fixed scenarios plus the seeded performance workbook")

	err := exec.Command("go", "run", "scenario_generator.go",
		"-output-dir="+filepath.Join(outputDir, "scenarios"),
		"-scenario=all",
		"-seed="+strconv.FormatInt(seed, 10),
	).Run()
	if err != nil {
		log.Printf("scenario generation failed: %v", err)
	}
}

func generatePerformanceSets(outputDir string, seed int64) {
	perfDir := filepath.Join(outputDir, "performance")

	sets := []datasetSpec{
		{"stress_test_10k.xlsx", 10000, "random", "10K transactions for stress testing"},
		{"stress_test_25k.xlsx", 25000, "random", "25K transactions for load testing"},
		{"stress_test_50k.xlsx", 50000, "random", "50K transactions for extreme load testing"},
	}

	for _, ds := range sets {
		fmt.Printf("  %s: %s\n", ds.file, ds.desc)
		err := runStatementGenerator(filepath.Join(perfDir, ds.file), ds.count, ds.pattern, seed,
			"-end-date=2024-12-31")
		if err != nil {
			log.Printf("generation of %s failed: %v", ds.file, err)
		}
	}
}

func generateDocumentation(outputDir string) {
	docContent := `# Generated Test Data

This directory contains automatically generated statement workbooks for the analyzer.

## Directory Structure

- **statements/**: Statement workbooks with different activity patterns
- **scenarios/**: Workbooks with known analysis outcomes (velocity, timing, patterns)
- **performance/**: Large workbooks for performance and stress testing

## File Descriptions

### Statements
- small_random.xlsx: 100 random transactions
- medium_random.xlsx: 1,000 random transactions
- salaried_account.xlsx: Fixed monthly salary credits plus repeating debits
- night_owl.xlsx: Roughly a third of activity between 23:00 and 04:00
- burst_activity.xlsx: Clusters of transactions sharing a clock hour
- affluent_digital.xlsx: Digital heavy account with high balances

### Scenarios
- salary_pattern.xlsx: Deterministic income and expense groups
- night_activity.xlsx: Transactions in the unusual timing window
- rapid_fire.xlsx: Eight transactions inside one clock hour
- affluent_account.xlsx: Trips every product recommendation rule
- messy_rows.xlsx: Recoverable bad cells mixed into valid rows
- transactions_only.xlsx: No balance sheet, parse warning expected
- performance_statement.xlsx: 5,000 row workbook

### Performance
- stress_test_10k.xlsx: 10,000 transactions
- stress_test_25k.xlsx: 25,000 transactions
- stress_test_50k.xlsx: 50,000 transactions

## Usage

Pick workbooks by what you are exercising:

1. **Functional runs**: statements/small_random.xlsx and medium_random.xlsx
2. **Detector behavior**: scenarios/, where expected outcomes are documented
3. **Degraded input handling**: messy_rows.xlsx and transactions_only.xlsx
4. **Throughput**: the performance/ folder

## Regeneration

To regenerate all test data:
` + "```bash\ngo run generate.go -generator=all\n```" + `

To generate specific datasets:
` + "```bash\ngo run generate.go -generator=statements -count=5000 -pattern=salaried\ngo run generate.go -generator=scenarios -scenario=rapid-fire\n```" + `

Generated on: ` + time.Now().Format("2006-01-02 15:04:05") + `
`

	docPath := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(docPath, []byte(docContent), 0644); err != nil {
		log.Printf("Failed to write documentation: %v", err)
	} else {
		fmt.Println("  wrote README.md")
	}
}
