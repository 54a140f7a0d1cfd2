package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/age-of-tension/internal/handlers"
	"github.com/jwebster45206/age-of-tension/internal/middleware"
	"github.com/jwebster45206/age-of-tension/pkg/chat"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running age-of-tension API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	FactionOverride   world.FactionID // If set, overrides the faction for all test cases
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 6 * time.Minute},
		Timeout:           5 * time.Minute,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML or JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &suite); err != nil {
			return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
		}
	default:
		if err := json.Unmarshal(content, &suite); err != nil {
			return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
		}
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// session is the client-side game a suite plays: the faction and the
// transcript sent back with each turn.
type session struct {
	runID   uuid.UUID
	faction world.FactionID
	history []chat.HistoryEntry
}

// RunSuite resets the world and executes every step of suite in order.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
		RunID:   uuid.New(),
	}

	sess := &session{runID: result.RunID, faction: suite.Faction}
	if r.FactionOverride != "" {
		sess.faction = r.FactionOverride
	}
	if sess.faction == "" {
		sess.faction = world.FactionUSA
	}

	if err := r.reset(ctx, sess); err != nil {
		result.Error = fmt.Errorf("failed to reset world: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, sess, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep executes a single test step, retrying once on a timeout
func (r *Runner) runStep(ctx context.Context, sess *session, step TestStep) TestResult {
	result := r.executeStep(ctx, sess, step)
	if result.Error != nil && isTimeout(result.Error) {
		r.Logger("    Timeout detected, retrying step: %s", step.Name)
		result = r.executeStep(ctx, sess, step)
	}
	return result
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// executeStep performs the actual step execution
func (r *Runner) executeStep(ctx context.Context, sess *session, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	fail := func(err error) TestResult {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	stepCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	switch strings.ToLower(step.Action) {
	case ActionReset:
		if err := r.reset(stepCtx, sess); err != nil {
			return fail(fmt.Errorf("failed to reset world: %w", err))
		}
		result.IsReset = true
		result.ResponseText = "[WORLD RESET]"

	case ActionBriefing:
		var resp chat.TurnResponse
		req := chat.BriefingRequest{Faction: sess.faction}
		if err := r.call(stepCtx, sess, http.MethodPost, "/api/briefing", req, &resp); err != nil {
			return fail(fmt.Errorf("briefing failed: %w", err))
		}
		sess.history = append(sess.history, chat.HistoryEntry{Type: chat.ChatRoleAssistant, Text: resp.Narrative})
		result.ResponseText = resp.Narrative

	case ActionState:

	case ActionTurn, "":
		if strings.TrimSpace(step.Input) == "" {
			return fail(fmt.Errorf("turn step has no input"))
		}
		var resp chat.TurnResponse
		req := chat.TurnRequest{Input: step.Input, History: sess.history, Faction: sess.faction}
		if err := r.call(stepCtx, sess, http.MethodPost, "/api/turn", req, &resp); err != nil {
			return fail(fmt.Errorf("turn failed: %w", err))
		}
		sess.history = append(sess.history,
			chat.HistoryEntry{Type: chat.ChatRoleUser, Text: step.Input},
			chat.HistoryEntry{Type: chat.ChatRoleAssistant, Text: resp.Narrative},
		)
		result.ResponseText = resp.Narrative
		result.Rejections = len(resp.Rejections)

	default:
		return fail(fmt.Errorf("unknown step action %q", step.Action))
	}

	var current *handlers.StateResponse
	if step.Expectations.checksWorld() {
		sr, err := r.getState(stepCtx, sess)
		if err != nil {
			return fail(fmt.Errorf("failed to get world state: %w", err))
		}
		current = sr
	}

	if err := CheckExpectations(step.Expectations, current, result.ResponseText, result.Rejections); err != nil {
		return fail(fmt.Errorf("expectation failed: %w", err))
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) reset(ctx context.Context, sess *session) error {
	sess.history = nil
	return r.call(ctx, sess, http.MethodPost, "/api/reset", struct{}{}, nil)
}

func (r *Runner) getState(ctx context.Context, sess *session) (*handlers.StateResponse, error) {
	var sr handlers.StateResponse
	path := "/api/state?faction=" + string(sess.faction)
	if err := r.call(ctx, sess, http.MethodGet, path, nil, &sr); err != nil {
		return nil, err
	}
	return &sr, nil
}

// call sends one API request tagged with the run id and decodes a 200 reply into out.
func (r *Runner) call(ctx context.Context, sess *session, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.RequestIDHeader, sess.runID.String())

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errResp chat.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// CheckExpectations validates exp against the world after a step and the
// narrative it produced. sr may be nil when exp has no world checks.
func CheckExpectations(exp Expectations, sr *handlers.StateResponse, responseText string, rejections int) error {
	if exp.checksWorld() {
		if sr == nil || sr.State == nil {
			return fmt.Errorf("world state unavailable")
		}
		ws := sr.State

		if exp.TurnCount != nil && ws.TurnCount != *exp.TurnCount {
			return fmt.Errorf("expected turn_count to be %d, got %d", *exp.TurnCount, ws.TurnCount)
		}
		if exp.Year != nil && ws.Year != *exp.Year {
			return fmt.Errorf("expected year to be %d, got %d", *exp.Year, ws.Year)
		}
		if exp.DefconMin != nil && ws.Defcon < *exp.DefconMin {
			return fmt.Errorf("expected defcon >= %d, got %d", *exp.DefconMin, ws.Defcon)
		}
		if exp.DefconMax != nil && ws.Defcon > *exp.DefconMax {
			return fmt.Errorf("expected defcon <= %d, got %d", *exp.DefconMax, ws.Defcon)
		}
		if exp.Budget != nil && ws.Resources != *exp.Budget {
			return fmt.Errorf("expected budget to be %d, got %d", *exp.Budget, ws.Resources)
		}
		for code, want := range exp.Territories {
			got, ok := ws.Ownership[code]
			if !ok {
				return fmt.Errorf("expected %s to be owned by %s, but it has no owner", code, want)
			}
			if got != want {
				return fmt.Errorf("expected %s to be owned by %s, got %s", code, want, got)
			}
		}
	}

	lowerResponse := strings.ToLower(responseText)
	for _, expectedText := range exp.ResponseContains {
		if !strings.Contains(lowerResponse, strings.ToLower(expectedText)) {
			return fmt.Errorf("expected response to contain '%s', but it didn't", expectedText)
		}
	}
	for _, unexpectedText := range exp.ResponseNotContains {
		if strings.Contains(lowerResponse, strings.ToLower(unexpectedText)) {
			return fmt.Errorf("expected response to NOT contain '%s', but it did", unexpectedText)
		}
	}

	if exp.ResponseRegex != "" {
		matched, err := regexp.MatchString(exp.ResponseRegex, responseText)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("response didn't match regex pattern: %s", exp.ResponseRegex)
		}
	}

	if exp.ResponseMinLength != nil && len(responseText) < *exp.ResponseMinLength {
		return fmt.Errorf("expected response length >= %d, got %d", *exp.ResponseMinLength, len(responseText))
	}
	if exp.ResponseMaxLength != nil && len(responseText) > *exp.ResponseMaxLength {
		return fmt.Errorf("expected response length <= %d, got %d", *exp.ResponseMaxLength, len(responseText))
	}

	if exp.MaxRejections != nil && rejections > *exp.MaxRejections {
		return fmt.Errorf("expected at most %d rejections, got %d", *exp.MaxRejections, rejections)
	}

	return nil
}
