package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
	Today  string `json:"today"`
}

// GridResponse is the response for /api/v1/grid/{dob} and /api/v1/me/grid
type GridResponse struct {
	CurrentYear    int    `json:"current_year"`
	CurrentWeek    int    `json:"current_week"`
	WeeksLived     int    `json:"weeks_lived"`
	WeeksRemaining int    `json:"weeks_remaining"`
	Summary        string `json:"summary"`
	Events         []struct {
		Title string `json:"title"`
	} `json:"events"`
}

// Coordinate is a (year of life, week) cell.
type Coordinate struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// CoordinateResponse is the response for /api/v1/coordinate
type CoordinateResponse struct {
	Coordinate Coordinate `json:"coordinate"`
}

// EventResponse is one stored life event.
type EventResponse struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Coordinate Coordinate `json:"coordinate"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	jar, _ := cookiejar.New(nil)
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
			// Page redirects are checked, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Life Calendar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testGrid()
	tr.testCoordinates()
	tr.testEdgeCases()
	tr.testPages()
	tr.testAccountFlow()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (server date %s)", health.Today))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testGrid() {
	tr.printSection("Grid")

	tests := []struct {
		path       string
		year, week int
	}{
		{"/api/v1/grid/1995-12-01?today=2021-03-10", 26, 15},
		{"/api/v1/grid/1999-12-01?today=2000-05-31", 1, 26},
		{"/api/v1/grid/1996-02-29?today=2005-05-31", 10, 14},
	}

	for _, tt := range tests {
		resp, err := tr.get(tt.path)
		if err != nil {
			tr.recordError(tt.path, err.Error())
			continue
		}

		var g GridResponse
		if err := json.Unmarshal(resp.Data, &g); err != nil {
			tr.recordError(tt.path, err.Error())
			continue
		}

		if g.CurrentYear != tt.year || g.CurrentWeek != tt.week {
			tr.recordError(tt.path, fmt.Sprintf("got year %d week %d, want year %d week %d",
				g.CurrentYear, g.CurrentWeek, tt.year, tt.week))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: year %d week %d", tt.path, g.CurrentYear, g.CurrentWeek))
		if tr.verbose {
			fmt.Printf("    %s\n", g.Summary)
		}
	}
}

func (tr *TestRunner) testCoordinates() {
	tr.printSection("Event Coordinates")

	tests := []struct {
		dob, date string
		want      Coordinate
	}{
		{"1995-12-01", "2005-05-31", Coordinate{10, 26}},
		{"1999-12-01", "2005-05-31", Coordinate{6, 26}},
		{"1995-12-01", "2004-02-29", Coordinate{9, 13}},
		{"1996-02-29", "2005-05-31", Coordinate{10, 14}},
		{"1995-12-01", "1995-12-01", Coordinate{1, 1}},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s on %s", tt.date, tt.dob)
		resp, err := tr.get(fmt.Sprintf("/api/v1/coordinate?dob=%s&date=%s", tt.dob, tt.date))
		if err != nil {
			tr.recordError(name, err.Error())
			continue
		}

		var data CoordinateResponse
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			tr.recordError(name, err.Error())
			continue
		}

		if data.Coordinate != tt.want {
			tr.recordError(name, fmt.Sprintf("got %+v, want %+v", data.Coordinate, tt.want))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: year %d week %d", name, tt.want.Year, tt.want.Week))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Invalid date format rejected", "/api/v1/grid/invalid", http.StatusBadRequest},
		{"Future birth date rejected", "/api/v1/grid/2999-12-31", http.StatusUnprocessableEntity},
		{"Birth date over 90 years ago rejected", "/api/v1/grid/1901-01-01", http.StatusUnprocessableEntity},
		{"Event before birth rejected", "/api/v1/coordinate?dob=1995-12-01&date=1995-11-30", http.StatusUnprocessableEntity},
		{"Event after 90th birthday rejected", "/api/v1/coordinate?dob=1995-12-01&date=2085-12-02", http.StatusUnprocessableEntity},
		{"Missing coordinate parameter rejected", "/api/v1/coordinate?dob=1995-12-01", http.StatusBadRequest},
		{"Anonymous /me rejected", "/api/v1/me", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		resp, err := tr.getRaw(tt.path)
		if err != nil {
			tr.recordError(tt.name, err.Error())
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == tt.status {
			tr.recordSuccess(tt.name)
		} else {
			tr.recordError(tt.name, fmt.Sprintf("Should return %d, got %d", tt.status, resp.StatusCode))
		}
	}
}

func (tr *TestRunner) testPages() {
	tr.printSection("Pages")

	resp, err := tr.getRaw("/grid/1995-12-01")
	if err != nil {
		tr.recordError("Grid page", err.Error())
	} else {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if n := strings.Count(string(body), `class="year-row`); n == 90 {
			tr.recordSuccess("Grid page has 90 year rows")
		} else {
			tr.recordError("Grid page", fmt.Sprintf("found %d year rows, want 90", n))
		}
	}

	resp, err = tr.getRaw("/grid/2999-12-31")
	if err != nil {
		tr.recordError("Future grid", err.Error())
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusFound && resp.Header.Get("Location") == "/" {
			tr.recordSuccess("Future birth date redirects home")
		} else {
			tr.recordError("Future grid", fmt.Sprintf("got %d to %q", resp.StatusCode, resp.Header.Get("Location")))
		}
	}
}

func (tr *TestRunner) testAccountFlow() {
	tr.printSection("Account Flow")

	suffix := make([]byte, 4)
	rand.Read(suffix)
	username := "apitest-" + hex.EncodeToString(suffix)

	// Step 1: sign up (logs in)
	if _, err := tr.send(http.MethodPost, "/api/v1/accounts", map[string]string{
		"username": username,
		"dob":      "1995-12-01",
		"password": "apitest-password",
	}); err != nil {
		tr.recordError("Sign up", err.Error())
		return
	}
	tr.recordSuccess("Signed up as " + username)

	// Step 2: add an event
	resp, err := tr.send(http.MethodPost, "/api/v1/me/events", map[string]string{
		"title": "Graduated",
		"date":  "2005-05-31",
	})
	if err != nil {
		tr.recordError("Add event", err.Error())
		return
	}
	var event EventResponse
	if err := json.Unmarshal(resp.Data, &event); err != nil {
		tr.recordError("Add event", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Event placed at year %d week %d", event.Coordinate.Year, event.Coordinate.Week))

	// Step 3: the event is on the grid
	resp, err = tr.get("/api/v1/me/grid")
	if err != nil {
		tr.recordError("My grid", err.Error())
	} else {
		var g GridResponse
		if err := json.Unmarshal(resp.Data, &g); err != nil || len(g.Events) != 1 {
			tr.recordError("My grid", fmt.Sprintf("want 1 event, got %d (%v)", len(g.Events), err))
		} else {
			tr.recordSuccess("Event shows on my grid")
		}
	}

	// Step 4: a birth date after the event is refused
	if _, err := tr.send(http.MethodPatch, "/api/v1/me", map[string]string{"dob": "2006-01-01"}); err == nil {
		tr.recordError("Move birth date", "Should reject a birth date after an event")
	} else {
		tr.recordSuccess("Birth date after event rejected")
	}

	// Step 5: clean up
	if _, err := tr.send(http.MethodDelete, fmt.Sprintf("/api/v1/me/events/%d", event.ID), nil); err != nil {
		tr.recordError("Delete event", err.Error())
	} else {
		tr.recordSuccess("Event deleted")
	}
	if _, err := tr.send(http.MethodDelete, "/api/v1/session", nil); err != nil {
		tr.recordError("Log out", err.Error())
	} else {
		tr.recordSuccess("Logged out")
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	return tr.send(http.MethodGet, path, nil)
}

func (tr *TestRunner) send(method, path string, body interface{}) (*APIResponse, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tr.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tr.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show grid summaries)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the lifecal server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
