//go:build integration
// +build integration

package integration

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/age-of-tension/integration/runner"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

var caseFlag = flag.String("case", "", "Name of test case to run (from integration/cases/)")
var errFlag = flag.String("err", "continue", "Error handling mode: 'continue' (run all steps) or 'exit' (stop on first failure)")
var runsFlag = flag.Int("runs", 1, "Number of times to run each test suite (useful for testing non-deterministic behavior)")
var factionFlag = flag.String("faction", "", "Override the player faction for all test cases (e.g. 'china')")

func TestMain(m *testing.M) {
	fmt.Printf("Running Age of Tension Integration Tests\n")
	fmt.Printf("   API Base URL: %s\n", apiBaseURL())

	code := m.Run()
	os.Exit(code)
}

func apiBaseURL() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8000"
}

func newRunner(mode runner.ErrorHandlingMode) *runner.Runner {
	r := runner.NewRunner(apiBaseURL())
	r.Timeout = time.Duration(getIntEnv("TEST_TIMEOUT_SECONDS", 300)) * time.Second
	r.ErrorHandlingMode = mode
	r.FactionOverride = world.FactionID(strings.ToLower(*factionFlag))
	r.Logger = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}
	return r
}

func TestIntegrationSuites(t *testing.T) {
	if *caseFlag != "" {
		t.Skip("Skipping bulk suites (running -case instead)")
	}

	testFiles, err := discoverTestFiles("cases")
	if err != nil {
		t.Fatalf("Failed to discover test files: %v", err)
	}
	if len(testFiles) == 0 {
		t.Fatal("No test files found in cases directory")
	}

	var jobs []runner.TestJob
	for _, file := range testFiles {
		expandedJobs, err := runner.LoadTestSuiteWithExpansion(file, "cases")
		if err != nil {
			t.Errorf("Failed to load test suite %s: %v", file, err)
			continue
		}
		jobs = append(jobs, expandedJobs...)
	}
	if len(jobs) == 0 {
		t.Fatal("No valid test suites loaded")
	}

	t.Logf("Loaded %d test suites", len(jobs))
	runJobs(t, newRunner(runner.ErrorHandlingContinue), jobs, 1)
}

// TestSingleSuite allows running individual test suites for debugging
// Supports multiple cases comma-separated: -case "case1,case2,case3"
func TestSingleSuite(t *testing.T) {
	if *caseFlag == "" {
		t.Skip("Skipping single suite test (use -case flag to run)")
	}
	if *errFlag != "exit" && *errFlag != "continue" {
		t.Fatalf("Invalid -err flag value: %s (must be 'exit' or 'continue')", *errFlag)
	}
	runs := *runsFlag
	if runs < 1 {
		t.Fatalf("Number of runs must be >= 1, got: %d", runs)
	}

	var jobs []runner.TestJob
	for _, caseName := range strings.Split(*caseFlag, ",") {
		caseName = strings.TrimSpace(caseName)
		if caseName == "" {
			continue
		}
		suiteFile := filepath.Join("cases", caseName)
		if filepath.Ext(suiteFile) == "" {
			suiteFile += ".yaml"
		}
		loaded, err := runner.LoadTestSuiteWithExpansion(suiteFile, "cases")
		if err != nil {
			t.Fatalf("Failed to load test suite %s: %v", suiteFile, err)
		}
		jobs = append(jobs, loaded...)
	}

	// Multi-run always continues so the statistics are complete.
	mode := runner.ErrorHandlingMode(*errFlag)
	if runs > 1 {
		mode = runner.ErrorHandlingContinue
	}
	runJobs(t, newRunner(mode), jobs, runs)
}

// failureDetail tracks information about a specific step failure
type failureDetail struct {
	caseName string
	stepName string
	error    string
	run      int
}

type suiteStats struct{ passes, failures int }

func runJobs(t *testing.T, r *runner.Runner, jobs []runner.TestJob, runs int) {
	t.Helper()
	stats := make(map[string]suiteStats)
	var failures []failureDetail

	for run := 1; run <= runs; run++ {
		if runs > 1 {
			t.Logf("=== RUN %d/%d ===", run, runs)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)

		for i, job := range jobs {
			t.Logf("[%d/%d] Running test suite: %s (%d steps)", i+1, len(jobs), job.Name, len(job.Suite.Steps))
			result, err := r.RunSuite(ctx, job.Suite)
			if err != nil && result.Error == nil {
				result.Error = err
			}
			t.Logf("Run ID: %s", result.RunID)

			s := stats[job.Name]
			if result.Error != nil {
				s.failures++
				t.Errorf("[%d/%d] FAILED: Test suite '%s' failed: %v", i+1, len(jobs), job.Name, result.Error)
			} else {
				s.passes++
				t.Logf("[%d/%d] PASSED: Test suite '%s' completed in %v", i+1, len(jobs), job.Name, result.Duration)
			}
			stats[job.Name] = s

			for _, stepResult := range result.Results {
				switch {
				case stepResult.IsReset:
					t.Logf("   ↻ %s (%v)", stepResult.StepName, stepResult.Duration)
				case stepResult.Success:
					t.Logf("   ✓ %s (%v)", stepResult.StepName, stepResult.Duration)
				default:
					t.Logf("   ✗ %s: %v", stepResult.StepName, stepResult.Error)
					failures = append(failures, failureDetail{
						caseName: job.Name,
						stepName: stepResult.StepName,
						error:    stepResult.Error.Error(),
						run:      run,
					})
				}
			}
			t.Logf("--------------------------------")

			if result.Error != nil && r.ErrorHandlingMode == runner.ErrorHandlingExit {
				cancel()
				t.Fatalf("Test suite(s) had errors")
			}
		}
		cancel()
	}

	t.Log(buildFinalReport(runs, stats))
	if len(failures) > 0 {
		t.Log(buildFailureReport(failures))
		t.Fatalf("Integration tests failed")
	}
}

// buildFinalReport creates the final statistics summary
func buildFinalReport(runs int, stats map[string]suiteStats) string {
	var sb strings.Builder
	names := make([]string, 0, len(stats))
	var passes, fails int
	for name, s := range stats {
		names = append(names, name)
		passes += s.passes
		fails += s.failures
	}
	sort.Strings(names)

	sb.WriteString("\nIntegration Test Summary:\n")
	sb.WriteString(fmt.Sprintf("   Passed: %d\n", passes))
	sb.WriteString(fmt.Sprintf("   Failed: %d\n", fails))
	if runs > 1 {
		sb.WriteString("\nPer-suite statistics:\n")
		for _, name := range names {
			s := stats[name]
			total := s.passes + s.failures
			sb.WriteString(fmt.Sprintf("  %s: %d/%d passes (%.1f%%)\n", name, s.passes, total, float64(s.passes)/float64(total)*100))
			if s.passes > 0 && s.failures > 0 {
				sb.WriteString("    ⚠️  FLAKY: This test both passed and failed across runs\n")
			}
		}
	}
	return sb.String()
}

// buildFailureReport groups collected failures by suite and step
func buildFailureReport(failures []failureDetail) string {
	var sb strings.Builder
	sb.WriteString("\n========================================\n")
	sb.WriteString("Detailed Failure Report\n")
	sb.WriteString("========================================\n")

	byCase := make(map[string][]failureDetail)
	for _, f := range failures {
		byCase[f.caseName] = append(byCase[f.caseName], f)
	}
	caseNames := make([]string, 0, len(byCase))
	for name := range byCase {
		caseNames = append(caseNames, name)
	}
	sort.Strings(caseNames)

	for _, name := range caseNames {
		sb.WriteString(fmt.Sprintf("\n%s (%d step failure(s)):\n", name, len(byCase[name])))
		for _, f := range byCase[name] {
			sb.WriteString(fmt.Sprintf("  ✗ %s (run %d): %s\n", f.stepName, f.run, f.error))
		}
	}
	sb.WriteString("\n========================================\n")
	return sb.String()
}

// Helper functions

func discoverTestFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml", ".json":
			if !info.IsDir() {
				files = append(files, path)
			}
		}
		return nil
	})
	return files, err
}

func getIntEnv(name string, defaultValue int) int {
	str := os.Getenv(name)
	if str == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultValue
	}
	return val
}
