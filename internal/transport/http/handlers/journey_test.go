package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hris/internal/app/server"
	"hris/internal/domain/auth"
	"hris/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:              ":0",
		DatabaseURL:       dbURL,
		JWTSecret:         "test-secret",
		FrontendDir:       "frontend/dist",
		Environment:       "test",
		TaxTablePath:      "../../../../config/tax_brackets.yaml",
		MigrationsDir:     "../../../../migrations",
		SeedCompanyName:   "Test Company",
		SeedAdminEmail:    "admin@test.local",
		SeedAdminPassword: "ChangeMe123!",
		RunMigrations:     true,
		RunSeed:           true,
		MaxBodyBytes:      1048576,
		CORSOrigins:       []string{"http://localhost:5173"},
	}
}

func startApp(t *testing.T) (*server.App, *httptest.Server, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts, cfg
}

// createApprover inserts a user with the given role plus a matching employee
// row, and returns the login credentials.
func createApprover(t *testing.T, app *server.App, roleName string) (string, string) {
	t.Helper()
	ctx := context.Background()

	var roleID string
	if err := app.DB.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", roleName).Scan(&roleID); err != nil {
		t.Fatalf("failed to load role %s: %v", roleName, err)
	}

	email := fmt.Sprintf("%s-%d@example.com", roleName, time.Now().UnixNano())
	password := "Approver123!"
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	if err := app.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role_id)
    VALUES ($1,$2,$3)
    RETURNING id
  `, email, hash, roleID).Scan(&userID); err != nil {
		t.Fatalf("failed to create %s user: %v", roleName, err)
	}

	if _, err := app.DB.Exec(ctx, `
    INSERT INTO employees (user_id, first_name, last_name, email, start_date)
    VALUES ($1,$2,$3,$4,$5)
  `, userID, "Role", roleName, email, time.Now().AddDate(-3, 0, 0)); err != nil {
		t.Fatalf("failed to create %s employee: %v", roleName, err)
	}

	return email, password
}

func TestLeaveApprovalChainJourney(t *testing.T) {
	app, ts, cfg := startApp(t)
	client := ts.Client()

	hrToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	resp := postJSON(t, client, ts.URL+"/api/v1/employees", hrToken, map[string]any{
		"firstName": "Journey",
		"lastName":  "Tester",
		"email":     employeeEmail,
		"startDate": time.Now().AddDate(-2, 0, 0).Format(time.RFC3339),
	})
	employeeID := idFrom(t, resp)

	// Monday to Friday two months out
	start := nextMonday(time.Now().AddDate(0, 2, 0))
	end := start.AddDate(0, 0, 4)
	resp = postJSON(t, client, ts.URL+"/api/v1/leave/requests", hrToken, map[string]any{
		"employeeId": employeeID,
		"startDate":  start.Format("2006-01-02"),
		"endDate":    end.Format("2006-01-02"),
		"reason":     "family visit",
	})
	requestID := idFrom(t, resp)

	var req map[string]any
	if err := json.Unmarshal(resp.Data, &req); err != nil {
		t.Fatalf("failed to decode request: %v", err)
	}
	if req["days"].(float64) != 5 {
		t.Fatalf("expected 5 business days, got %v", req["days"])
	}
	if req["stage"] != "submitted" {
		t.Fatalf("expected stage submitted, got %v", req["stage"])
	}

	for _, step := range []struct {
		role  string
		stage string
	}{
		{auth.RoleManager, "manager_approved"},
		{auth.RoleDirector, "director_approved"},
		{auth.RoleGeneralManager, "approved"},
	} {
		email, password := createApprover(t, app, step.role)
		token := login(t, client, ts.URL, email, password)
		resp = postJSON(t, client, ts.URL+"/api/v1/leave/requests/"+requestID+"/approve", token, nil)
		if err := json.Unmarshal(resp.Data, &req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["stage"] != step.stage {
			t.Fatalf("expected stage %s after %s approval, got %v", step.stage, step.role, req["stage"])
		}
	}

	// an overlapping submission must now conflict
	postJSONStatus(t, client, ts.URL+"/api/v1/leave/requests", hrToken, map[string]any{
		"employeeId": employeeID,
		"startDate":  start.AddDate(0, 0, 2).Format("2006-01-02"),
		"endDate":    end.AddDate(0, 0, 2).Format("2006-01-02"),
	}, http.StatusConflict)

	env := getJSON(t, client, fmt.Sprintf("%s/api/v1/leave/balance?employeeId=%s&year=%d", ts.URL, employeeID, start.Year()), hrToken)
	var balance map[string]any
	if err := json.Unmarshal(env.Data, &balance); err != nil {
		t.Fatalf("failed to decode balance: %v", err)
	}
	if balance["usedDays"].(float64) != 5 {
		t.Fatalf("expected 5 used days, got %v", balance["usedDays"])
	}
}

func TestPayrollPeriodJourney(t *testing.T) {
	_, ts, cfg := startApp(t)
	client := ts.Client()

	hrToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	resp := postJSON(t, client, ts.URL+"/api/v1/org/positions", hrToken, map[string]any{
		"name":      fmt.Sprintf("Engineer-%d", time.Now().UnixNano()),
		"minSalary": "40000",
		"maxSalary": "90000",
	})
	positionID := idFrom(t, resp)

	employeeEmail := fmt.Sprintf("payroll-%d@example.com", time.Now().UnixNano())
	resp = postJSON(t, client, ts.URL+"/api/v1/employees", hrToken, map[string]any{
		"firstName":  "Pay",
		"lastName":   "Roll",
		"email":      employeeEmail,
		"startDate":  time.Now().AddDate(-1, 0, 0).Format(time.RFC3339),
		"positionId": positionID,
	})
	employeeID := idFrom(t, resp)

	resp = postJSON(t, client, ts.URL+"/api/v1/payroll/records", hrToken, map[string]any{
		"employeeId":  employeeID,
		"year":        2025,
		"month":       6,
		"grossSalary": "60000",
	})
	recordID := idFrom(t, resp)

	var rec map[string]any
	if err := json.Unmarshal(resp.Data, &rec); err != nil {
		t.Fatalf("failed to decode record: %v", err)
	}
	if rec["sgk"] != "8400" {
		t.Fatalf("expected sgk 8400, got %v", rec["sgk"])
	}

	// same period again conflicts even with a different gross
	postJSONStatus(t, client, ts.URL+"/api/v1/payroll/records", hrToken, map[string]any{
		"employeeId":  employeeID,
		"year":        2025,
		"month":       6,
		"grossSalary": "65000",
	}, http.StatusConflict)

	// out of band is rejected
	postJSONStatus(t, client, ts.URL+"/api/v1/payroll/records", hrToken, map[string]any{
		"employeeId":  employeeID,
		"year":        2025,
		"month":       7,
		"grossSalary": "95000",
	}, http.StatusUnprocessableEntity)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/payroll/records/"+recordID+"/payslip", nil)
	if err != nil {
		t.Fatalf("failed to create payslip request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+hrToken)
	payslipResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("payslip request failed: %v", err)
	}
	defer payslipResp.Body.Close()
	if payslipResp.StatusCode != http.StatusOK {
		t.Fatalf("expected payslip 200, got %d", payslipResp.StatusCode)
	}
	if ct := payslipResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
}

func nextMonday(from time.Time) time.Time {
	d := from
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func idFrom(t *testing.T, env envelope) string {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected id in response")
	}
	return id
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(raw))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(out))
	}
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return env
}
