package search

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Next    *struct {
		Step   string            `json:"step"`
		Params map[string]string `json:"params"`
		Query  string            `json:"query"`
	} `json:"next"`
}

func newSearchRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := NewService(func() time.Time { return searchNow })
	SetupSearchRoutes(r.Group("/api/v1"), NewController(svc))
	return r
}

func post(r *gin.Engine, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestController_SubmitSearch(t *testing.T) {
	r := newSearchRouter()

	w, env := post(r, "/api/v1/search", SubmitSearchRequest{From: "Mumbai", To: "Mumbai", Date: "2026-10-20"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.Message != "Source and destination cannot be the same" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	w, env = post(r, "/api/v1/search", SubmitSearchRequest{From: "Delhi", To: "Mumbai", Date: "2026-10-20"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.Next == nil || env.Next.Step != "train_list" {
		t.Fatalf("expected train_list continuation, got %+v", env.Next)
	}
	if env.Next.Query != "date=2026-10-20&from=Delhi&to=Mumbai" {
		t.Fatalf("unexpected encoded query %q", env.Next.Query)
	}
}

func TestController_SwapAndDefaults(t *testing.T) {
	r := newSearchRouter()

	_, env := post(r, "/api/v1/search/swap", SwapRequest{From: "Delhi", To: "Chandigarh"})
	var swapped SwapResponse
	if err := json.Unmarshal(env.Data, &swapped); err != nil {
		t.Fatalf("decode swap: %v", err)
	}
	if swapped.From != "Chandigarh" || swapped.To != "Delhi" {
		t.Fatalf("unexpected swap %+v", swapped)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/defaults", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var got envelope
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	var defaults DefaultsResponse
	if err := json.Unmarshal(got.Data, &defaults); err != nil {
		t.Fatalf("decode defaults: %v", err)
	}
	if defaults.MinDate != "2026-10-19" || defaults.DefaultDate != "2026-10-19" || defaults.DisplayDate != "19 Oct 2026" {
		t.Fatalf("unexpected defaults %+v", defaults)
	}
}
