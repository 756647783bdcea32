package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"railbook/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type sample struct {
	TrainID string `json:"trainId"`
	Seats   int    `json:"seats"`
}

// exerciseStore runs the behaviour every backend must share
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	var got sample
	if err := s.Get(ctx, "sid-1", KeySelectedTrain, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if err := s.Set(ctx, "sid-1", KeySelectedTrain, sample{TrainID: "12301", Seats: 50}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Get(ctx, "sid-1", KeySelectedTrain, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TrainID != "12301" || got.Seats != 50 {
		t.Fatalf("unexpected value %+v", got)
	}

	// sessions are isolated
	if err := s.Get(ctx, "sid-2", KeySelectedTrain, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected other session to be empty, got %v", err)
	}

	if err := s.Delete(ctx, "sid-1", KeySelectedTrain); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Get(ctx, "sid-1", KeySelectedTrain, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "sid-1", KeySelectedTrain); err != nil {
		t.Fatalf("Delete of missing key should succeed: %v", err)
	}

	_ = s.Set(ctx, "sid-1", KeyUserBookings, []sample{{TrainID: "a"}})
	_ = s.Set(ctx, "sid-1", KeyPendingBooking, sample{TrainID: "a"})
	if err := s.Clear(ctx, "sid-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	var list []sample
	if err := s.Get(ctx, "sid-1", KeyUserBookings, &list); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected userBookings cleared, got %v", err)
	}

	if err := s.Set(ctx, "", KeyCaptcha, "x"); !errors.Is(err, ErrEmptySessionID) {
		t.Fatalf("expected ErrEmptySessionID, got %v", err)
	}
}

// exerciseSessionExpiry checks that a write keeps every key of the session
// alive, and that the session then expires as a whole. advance moves the
// backend's clock.
func exerciseSessionExpiry(t *testing.T, s Store, ttl time.Duration, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	if err := s.Set(ctx, "sid-exp", KeyUserBookings, []sample{{TrainID: "PNR1"}}); err != nil {
		t.Fatalf("Set userBookings: %v", err)
	}
	advance(ttl * 2 / 3)
	if err := s.Set(ctx, "sid-exp", KeySelectedTrain, sample{TrainID: "12301"}); err != nil {
		t.Fatalf("Set selectedTrain: %v", err)
	}
	advance(ttl / 2)

	var list []sample
	if err := s.Get(ctx, "sid-exp", KeyUserBookings, &list); err != nil {
		t.Fatalf("userBookings should live as long as the session, got %v", err)
	}
	if len(list) != 1 || list[0].TrainID != "PNR1" {
		t.Fatalf("unexpected bookings %+v", list)
	}

	advance(ttl)
	var got sample
	if err := s.Get(ctx, "sid-exp", KeySelectedTrain, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected selectedTrain expired, got %v", err)
	}
	if err := s.Get(ctx, "sid-exp", KeyUserBookings, &list); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected userBookings expired, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_SessionExpiry(t *testing.T) {
	s := NewMemoryStore(30 * time.Minute)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	exerciseSessionExpiry(t, s, 30*time.Minute, func(d time.Duration) { now = now.Add(d) })
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	s := NewMemoryStore(0)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Set(ctx, "sid", KeyCaptcha, "Ab3#xY")
	now = now.Add(24 * 365 * time.Hour)
	var captcha string
	if err := s.Get(ctx, "sid", KeyCaptcha, &captcha); err != nil {
		t.Fatalf("zero ttl should never expire, got %v", err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Set(ctx, "sid", KeyCaptcha, "Ab3#xY"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(2 * time.Minute)
	var captcha string
	if err := s.Get(ctx, "sid", KeyCaptcha, &captcha); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key to be gone, got %v", err)
	}
	if n := s.Sweep(); n != 1 {
		t.Fatalf("expected one swept session, got %d", n)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStore(cache.NewService(client), 30*time.Minute)
	exerciseStore(t, s)

	if err := s.Set(context.Background(), "abc", KeyPendingBooking, sample{TrainID: "12615"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	key := "railbook:session:abc:pendingBooking"
	if !mr.Exists(key) {
		t.Fatalf("expected key %s, have %v", key, mr.Keys())
	}
	if ttl := mr.TTL(key); ttl != 30*time.Minute {
		t.Fatalf("expected ttl 30m, got %v", ttl)
	}
}

func TestRedisStore_SessionExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStore(cache.NewService(client), 30*time.Minute)
	exerciseSessionExpiry(t, s, 30*time.Minute, mr.FastForward)
}

func TestRedisStore_RefreshesSiblingKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStore(cache.NewService(client), 30*time.Minute)
	ctx := context.Background()

	_ = s.Set(ctx, "abc", KeyUserBookings, []sample{{TrainID: "PNR1"}})
	mr.FastForward(20 * time.Minute)
	_ = s.Set(ctx, "abc", KeySelectedTrain, sample{TrainID: "12301"})
	_ = s.Set(ctx, "other", KeySelectedTrain, sample{TrainID: "12045"})

	if ttl := mr.TTL("railbook:session:abc:userBookings"); ttl != 30*time.Minute {
		t.Fatalf("expected userBookings ttl reset to 30m, got %v", ttl)
	}
	mr.FastForward(10 * time.Minute)
	_ = s.Set(ctx, "abc", KeyCaptcha, "Ab3#xY")
	if ttl := mr.TTL("railbook:session:other:selectedTrain"); ttl != 20*time.Minute {
		t.Fatalf("other sessions must keep their ttl, got %v", ttl)
	}
}

func TestLocker_SerialisesPerSession(t *testing.T) {
	l := NewLocker()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("sid")
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
	if len(l.locks) != 0 {
		t.Fatalf("expected lock table to drain, have %d", len(l.locks))
	}
}
