// Command smoketest walks a running server through one booking journey and
// reports the latency of every step. With SESSION_BACKEND=redis it also
// checks the session keys each step leaves behind.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"railbook/internal/search"
	"railbook/internal/session"
	"railbook/internal/shared/config"
	"railbook/internal/shared/constants"
	"railbook/pkg/cache"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type StepResult struct {
	Step         string        `json:"step"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
	NextStep     string        `json:"next_step,omitempty"`
	KeysPresent  []string      `json:"keys_present,omitempty"`
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
}

type journeyStep struct {
	name       string
	method     string
	path       string
	body       interface{}
	wantStatus int
	wantKeys   []string
}

type SmokeSuite struct {
	BaseURL   string
	SessionID string
	Redis     *redis.Client
	Results   []StepResult
	client    *http.Client
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	baseURL := os.Getenv("SMOKE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Port + cfg.GetAPIBasePath()
	}

	suite := &SmokeSuite{
		BaseURL:   baseURL,
		SessionID: uuid.NewString(),
		client:    &http.Client{Timeout: 30 * time.Second},
	}

	if cfg.Session.Backend == "redis" {
		rdb, err := cache.NewClient(context.Background(), cache.Config{
			Address:  cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer rdb.Close()
		suite.Redis = rdb
	}

	date := time.Now().AddDate(0, 0, 7).Format(search.DateLayout)
	route := map[string]string{"from": "Delhi", "to": "Mumbai", "date": date}

	steps := []journeyStep{
		{"search", http.MethodPost, "/search", route, http.StatusOK, nil},
		{"select train", http.MethodPost, "/trains/12301/select", route, http.StatusOK, []string{session.KeySelectedTrain}},
		{"add passenger", http.MethodPost, "/booking/form/passengers", map[string]interface{}{
			"firstName": "Smoke", "lastName": "Test", "age": 30, "mobile": "9876543210", "berth": "lower",
		}, http.StatusCreated, []string{session.KeyPassengerForm}},
		{"submit booking", http.MethodPost, "/bookings", map[string]interface{}{}, http.StatusCreated, []string{session.KeyUserBookings, session.KeyPendingBooking}},
		{"pay", http.MethodPost, "/payments", map[string]string{"payment_method": "upi"}, http.StatusOK, []string{session.KeyUserBookings}},
		{"list bookings", http.MethodGet, "/bookings", nil, http.StatusOK, nil},
	}

	fmt.Printf("Running booking journey against %s (session %s)\n", suite.BaseURL, suite.SessionID)
	for _, step := range steps {
		result := suite.run(step)
		suite.Results = append(suite.Results, result)
		suite.print(result)
		if !result.Success {
			break
		}
	}

	if !suite.report() {
		os.Exit(1)
	}
}

func (s *SmokeSuite) run(step journeyStep) StepResult {
	result := StepResult{Step: step.name}

	var body io.Reader
	if step.body != nil {
		data, err := json.Marshal(step.body)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(step.method, s.BaseURL+step.path, body)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", s.SessionID)

	start := time.Now()
	resp, err := s.client.Do(req)
	result.ResponseTime = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	var envelope struct {
		Message string `json:"message"`
		Next    struct {
			Step string `json:"step"`
		} `json:"next"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	result.StatusCode = resp.StatusCode
	result.NextStep = envelope.Next.Step
	result.Success = resp.StatusCode == step.wantStatus
	if !result.Success {
		result.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, envelope.Message)
		return result
	}

	if s.Redis != nil {
		for _, key := range step.wantKeys {
			n, err := s.Redis.Exists(context.Background(), constants.BuildSessionKey(s.SessionID, key)).Result()
			if err != nil || n == 0 {
				result.Success = false
				result.Error = "missing session key " + key
				return result
			}
			result.KeysPresent = append(result.KeysPresent, key)
		}
	}
	return result
}

func (s *SmokeSuite) print(r StepResult) {
	status := "ok  "
	if !r.Success {
		status = "FAIL"
	}
	fmt.Printf("  [%s] %-15s %3d %10v next=%s %v\n", status, r.Step, r.StatusCode, r.ResponseTime, r.NextStep, r.KeysPresent)
	if r.Error != "" {
		fmt.Printf("         %s\n", r.Error)
	}
}

func (s *SmokeSuite) report() bool {
	passed := 0
	var total time.Duration
	for _, r := range s.Results {
		if r.Success {
			passed++
		}
		total += r.ResponseTime
	}

	fmt.Printf("\n%d/%d steps passed in %v\n", passed, len(s.Results), total)

	if path := os.Getenv("SMOKE_REPORT"); path != "" {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"session_id": s.SessionID,
			"passed":     passed,
			"results":    s.Results,
		}, "", "  ")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Printf("could not write report: %v\n", err)
		}
	}
	return passed == len(s.Results)
}
