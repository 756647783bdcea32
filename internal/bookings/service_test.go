package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"railbook/internal/session"
	"railbook/internal/shared/config"
	"railbook/internal/shared/flow"
	"railbook/internal/shared/middleware"
	"railbook/internal/trains"

	"github.com/gin-gonic/gin"
)

var bookingNow = time.Date(2026, 10, 18, 11, 0, 0, 0, time.UTC)

var testSelection = trains.Selection{
	TrainID:   "12301",
	TrainName: "Rajdhani Express",
	From:      "Delhi",
	To:        "Mumbai",
	Date:      "2026-10-25",
	Departure: "06:00 AM",
	Arrival:   "04:00 PM",
	Duration:  "10h 00m",
	Seats:     50,
}

type fixture struct {
	svc        Service
	store      session.Store
	repo       Repository
	selections trains.SelectionRepository
}

func newFixture(store session.Store) *fixture {
	repo := NewRepository(store, session.NewLocker())
	selections := trains.NewSelectionRepository(store)
	svc := NewService(repo, selections, WithClock(func() time.Time { return bookingNow }))
	return &fixture{svc: svc, store: store, repo: repo, selections: selections}
}

func (f *fixture) selectTrain(t *testing.T, sid string) {
	t.Helper()
	if err := f.selections.SaveSelection(context.Background(), sid, testSelection); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
}

func passengerInput() PassengerInput {
	return PassengerInput{FirstName: "Asha", LastName: "Rao", Age: 34, Mobile: "9876543210", Berth: BerthLower}
}

func TestForm_AddUpdateRemove(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	ctx := context.Background()

	form, err := f.svc.GetForm(ctx, "sid")
	if err != nil || form.State != FormEmpty || form.Count != 0 {
		t.Fatalf("expected empty form, got %+v (%v)", form, err)
	}
	if len(form.BerthOptions) != 6 || form.BerthOptions[0] != BerthSideLower {
		t.Fatalf("unexpected berth options %v", form.BerthOptions)
	}

	if _, err := f.svc.AddPassenger(ctx, "sid", nil); err != nil {
		t.Fatalf("AddPassenger: %v", err)
	}
	in := passengerInput()
	form, err = f.svc.AddPassenger(ctx, "sid", &in)
	if err != nil {
		t.Fatalf("AddPassenger: %v", err)
	}
	if form.Count != 2 || form.Passengers[1].FirstName != "Asha" || form.Passengers[1].Label != "Passenger 2" {
		t.Fatalf("unexpected form %+v", form)
	}

	form, err = f.svc.RemovePassenger(ctx, "sid", 0)
	if err != nil {
		t.Fatalf("RemovePassenger: %v", err)
	}
	if form.Count != 1 || form.Passengers[0].Label != "Passenger 1" || form.Passengers[0].FirstName != "Asha" {
		t.Fatalf("unexpected form after remove %+v", form)
	}

	if _, err := f.svc.UpdatePassenger(ctx, "sid", 5, in); !errors.Is(err, ErrPassengerIndex) {
		t.Fatalf("expected ErrPassengerIndex, got %v", err)
	}

	if err := f.svc.ResetForm(ctx, "sid"); err != nil {
		t.Fatalf("ResetForm: %v", err)
	}
	if form, _ = f.svc.GetForm(ctx, "sid"); form.Count != 0 {
		t.Fatalf("form should be empty after reset, got %+v", form)
	}
}

func TestValidateForm_ReportsEveryField(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	ctx := context.Background()

	if _, err := f.svc.AddPassenger(ctx, "sid", nil); err != nil {
		t.Fatalf("AddPassenger: %v", err)
	}
	form, err := f.svc.ValidateForm(ctx, "sid")
	if !errors.Is(err, ErrIncompletePassenger) {
		t.Fatalf("expected ErrIncompletePassenger, got %v", err)
	}
	if form == nil || len(form.Invalid) < 4 {
		t.Fatalf("expected every blank field flagged, got %+v", form)
	}

	if _, err := f.svc.UpdatePassenger(ctx, "sid", 0, passengerInput()); err != nil {
		t.Fatalf("UpdatePassenger: %v", err)
	}
	form, err = f.svc.ValidateForm(ctx, "sid")
	if err != nil || form.State != FormValidated {
		t.Fatalf("expected Validated, got %+v (%v)", form, err)
	}
}

func TestSubmit_EmptyForm(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	f.selectTrain(t, "sid")

	_, _, err := f.svc.Submit(context.Background(), "sid", nil)
	if !errors.Is(err, ErrNoPassengers) {
		t.Fatalf("expected ErrNoPassengers, got %v", err)
	}
	list, _ := f.repo.ListBookings(context.Background(), "sid")
	if len(list) != 0 {
		t.Fatalf("nothing should be booked, got %d", len(list))
	}
}

func TestSubmit_NoSelection(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))

	req := &SubmitBookingRequest{Passengers: []PassengerInput{passengerInput()}}
	if _, _, err := f.svc.Submit(context.Background(), "sid", req); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestSubmit_WritesSession(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	ctx := context.Background()
	f.selectTrain(t, "sid")

	req := &SubmitBookingRequest{Passengers: []PassengerInput{passengerInput(), passengerInput()}}
	rec, next, err := f.svc.Submit(ctx, "sid", req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if next.Step != flow.StepPayment {
		t.Fatalf("expected payment continuation, got %+v", next)
	}
	if !pnrPattern.MatchString(rec.PNR) || rec.TotalAmount != 2*2850 || rec.Status != StatusConfirmed {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.TrainDetails != testSelection || !rec.BookingDate.Equal(bookingNow) {
		t.Fatalf("train details or date not carried over: %+v", rec)
	}

	list, err := f.repo.ListBookings(ctx, "sid")
	if err != nil || len(list) != 1 || list[0].PNR != rec.PNR {
		t.Fatalf("booking not appended: %+v (%v)", list, err)
	}
	pending, err := f.repo.LoadPending(ctx, "sid")
	if err != nil || pending.PNR != rec.PNR {
		t.Fatalf("pending booking not stored: %+v (%v)", pending, err)
	}
	if _, err := f.selections.LoadSelection(ctx, "sid"); !errors.Is(err, trains.ErrNoSelection) {
		t.Fatalf("selection should be cleared, got %v", err)
	}
	form, _ := f.svc.GetForm(ctx, "sid")
	if form.Count != 0 || form.State != FormEmpty {
		t.Fatalf("form should be cleared, got %+v", form)
	}
}

func TestSubmit_AppendsInOrder(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	ctx := context.Background()
	req := &SubmitBookingRequest{Passengers: []PassengerInput{passengerInput()}}

	var pnrs []string
	for i := 0; i < 3; i++ {
		f.selectTrain(t, "sid")
		rec, _, err := f.svc.Submit(ctx, "sid", req)
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		pnrs = append(pnrs, rec.PNR)
	}

	resp, err := f.svc.ListBookings(ctx, "sid")
	if err != nil || resp.Count != 3 {
		t.Fatalf("expected 3 bookings, got %+v (%v)", resp, err)
	}
	for i, b := range resp.Bookings {
		if b.PNR != pnrs[i] {
			t.Fatalf("booking %d out of order", i)
		}
	}

	got, err := f.svc.GetBooking(ctx, "sid", pnrs[1])
	if err != nil || got.PNR != pnrs[1] {
		t.Fatalf("GetBooking: %+v (%v)", got, err)
	}
	if _, err := f.svc.GetBooking(ctx, "sid", "NOPE"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

// failingStore rejects writes to one key
type failingStore struct {
	session.Store
	key string
}

func (s *failingStore) Set(ctx context.Context, sid, key string, value interface{}) error {
	if key == s.key {
		return errors.New("store unavailable")
	}
	return s.Store.Set(ctx, sid, key, value)
}

func TestSubmit_NoRollbackOnLaterFailure(t *testing.T) {
	store := &failingStore{Store: session.NewMemoryStore(time.Hour), key: session.KeyPendingBooking}
	f := newFixture(store)
	ctx := context.Background()
	f.selectTrain(t, "sid")

	req := &SubmitBookingRequest{Passengers: []PassengerInput{passengerInput()}}
	if _, _, err := f.svc.Submit(ctx, "sid", req); err == nil {
		t.Fatalf("expected pending write to fail")
	}

	list, _ := f.repo.ListBookings(ctx, "sid")
	if len(list) != 1 {
		t.Fatalf("earlier append should remain, got %d bookings", len(list))
	}
	if _, err := f.selections.LoadSelection(ctx, "sid"); !errors.Is(err, trains.ErrNoSelection) {
		t.Fatalf("selection clear should remain, got %v", err)
	}
}

// slowStore widens the gap between a read and the write that follows it
type slowStore struct {
	session.Store
}

func (s *slowStore) Get(ctx context.Context, sid, key string, dest interface{}) error {
	err := s.Store.Get(ctx, sid, key, dest)
	time.Sleep(2 * time.Millisecond)
	return err
}

func TestAddPassenger_ConcurrentAddsAreKept(t *testing.T) {
	f := newFixture(&slowStore{Store: session.NewMemoryStore(time.Hour)})
	ctx := context.Background()

	const adds = 20
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := passengerInput()
			if _, err := f.svc.AddPassenger(ctx, "sid", &in); err != nil {
				t.Errorf("AddPassenger: %v", err)
			}
		}()
	}
	wg.Wait()

	form, err := f.svc.GetForm(ctx, "sid")
	if err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	if form.Count != adds {
		t.Fatalf("expected %d passengers, got %d", adds, form.Count)
	}
}

func TestUpdateForm_FailedMutationWritesNothing(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	ctx := context.Background()

	if _, err := f.svc.RemovePassenger(ctx, "sid", 0); !errors.Is(err, ErrPassengerIndex) {
		t.Fatalf("expected ErrPassengerIndex, got %v", err)
	}
	var stored PassengerForm
	if err := f.store.Get(ctx, "sid", session.KeyPassengerForm, &stored); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("failed mutation must not save the form, got %v", err)
	}
}

func TestTicket_RendersPDF(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	ctx := context.Background()
	f.selectTrain(t, "sid")

	rec, _, err := f.svc.Submit(ctx, "sid", &SubmitBookingRequest{Passengers: []PassengerInput{passengerInput()}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	pdf, err := f.svc.Ticket(ctx, "sid", rec.PNR)
	if err != nil {
		t.Fatalf("Ticket: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("ticket is not a pdf")
	}
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Session(config.SessionConfig{CookieName: "railbook_session", HeaderName: "X-Session-ID", TTL: time.Hour}))
	SetupBookingRoutes(r.Group("/api/v1"), NewController(svc))
	return r
}

func TestController_SubmitFlow(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	router := newTestRouter(f.svc)
	sid := "session-abc-123"
	f.selectTrain(t, sid)

	body := `{"passengers":[{"firstName":"Asha","lastName":"Rao","age":34,"mobile":"12345","berth":"lower"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sid)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad mobile, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Please fill in all required fields for all passengers") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	body = strings.Replace(body, "12345", "9876543210", 1)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sid)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data BookingRecord     `json:"data"`
		Next flow.Continuation `json:"next"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Next.Step != flow.StepPayment || resp.Data.TotalAmount != 2850 {
		t.Fatalf("unexpected response %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+resp.Data.PNR+"/ticket", nil)
	req.Header.Set("X-Session-ID", sid)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("ticket download failed: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestController_PendingMissing(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	router := newTestRouter(f.svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/pending", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Booking data not found") {
		t.Fatalf("expected 404 booking data not found, got %d: %s", w.Code, w.Body.String())
	}
}

// chunkedRequest builds a request whose length is unknown, as with
// Transfer-Encoding: chunked
func chunkedRequest(method, path, body, sid string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sid)
	return req
}

func TestController_ChunkedBodies(t *testing.T) {
	f := newFixture(session.NewMemoryStore(time.Hour))
	router := newTestRouter(f.svc)
	sid := "session-chunked-1"
	f.selectTrain(t, sid)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, chunkedRequest(http.MethodPost, "/api/v1/booking/form/passengers",
		`{"firstName":"Asha","lastName":"Rao","age":34,"mobile":"9876543210","berth":"lower"}`, sid))
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"firstName":"Asha"`) {
		t.Fatalf("chunked add should bind the passenger, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, chunkedRequest(http.MethodPost, "/api/v1/booking/form/passengers", "", sid))
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"count":2`) {
		t.Fatalf("empty chunked add should add a blank passenger, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, chunkedRequest(http.MethodPost, "/api/v1/booking/form/passengers", `{"age":`, sid))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed chunked body should be rejected, got %d", w.Code)
	}

	body := `{"passengers":[{"firstName":"Vik","lastName":"Rao","age":8,"mobile":"9876543211","berth":"upper"}]}`
	w = httptest.NewRecorder()
	router.ServeHTTP(w, chunkedRequest(http.MethodPost, "/api/v1/bookings", body, sid))
	if w.Code != http.StatusCreated {
		t.Fatalf("chunked submit should replace the form, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data BookingRecord `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Passengers) != 1 || resp.Data.Passengers[0].FirstName != "Vik" {
		t.Fatalf("expected the posted passenger list, got %+v", resp.Data.Passengers)
	}
}
