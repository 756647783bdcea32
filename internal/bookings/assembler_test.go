package bookings

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"railbook/internal/trains"
)

var pnrPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

func TestGeneratePNR_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		pnr, err := GeneratePNR(nil)
		if err != nil {
			t.Fatalf("GeneratePNR: %v", err)
		}
		if !pnrPattern.MatchString(pnr) {
			t.Fatalf("bad pnr %q", pnr)
		}
	}
}

func TestGeneratePNR_Deterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 64)

	a, err := GeneratePNR(bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("GeneratePNR: %v", err)
	}
	b, _ := GeneratePNR(bytes.NewReader(seed))
	if a != b {
		t.Fatalf("same entropy should give same pnr: %q vs %q", a, b)
	}
}

func TestGeneratePNR_ShortReader(t *testing.T) {
	if _, err := GeneratePNR(bytes.NewReader(nil)); err == nil {
		t.Fatalf("expected error from exhausted reader")
	}
}

func TestAddRemove_Relabels(t *testing.T) {
	list := AddPassenger(nil)
	list = AddPassenger(list)
	list[1].FirstName = "Second"

	list, err := RemovePassenger(list, 0)
	if err != nil {
		t.Fatalf("RemovePassenger: %v", err)
	}
	labels := Labels(list)
	if len(labels) != 1 || labels[0] != "Passenger 1" || list[0].FirstName != "Second" {
		t.Fatalf("unexpected list %+v labels %v", list, labels)
	}
}

func TestLabels_Contiguous(t *testing.T) {
	var list []PassengerRecord
	for i := 0; i < 5; i++ {
		list = AddPassenger(list)
	}
	list, _ = RemovePassenger(list, 2)
	for i, l := range Labels(list) {
		if want := "Passenger " + string(rune('1'+i)); l != want {
			t.Fatalf("label %d = %q, want %q", i, l, want)
		}
	}
}

func TestAddPassenger_DoesNotAlias(t *testing.T) {
	list := make([]PassengerRecord, 1, 4)
	out := AddPassenger(list)
	out[0].FirstName = "changed"
	if list[0].FirstName != "" {
		t.Fatalf("AddPassenger must copy its input")
	}
	if out[1].Berth != BerthSideLower {
		t.Fatalf("new passenger should default to %s, got %s", BerthSideLower, out[1].Berth)
	}
}

func TestRemovePassenger_OutOfRange(t *testing.T) {
	if _, err := RemovePassenger(AddPassenger(nil), 3); !errors.Is(err, ErrPassengerIndex) {
		t.Fatalf("expected ErrPassengerIndex, got %v", err)
	}
}

func TestAssemble_TotalAmount(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	passengers := []PassengerRecord{validPassenger(), validPassenger(), validPassenger()}

	tests := []struct {
		trainID string
		want    int
	}{
		{"12301", 3 * 2850},
		{"12615", 3 * 450},
		{"99999", 3 * trains.DefaultFare},
	}

	for _, tt := range tests {
		rec := Assemble("ABCDEFGHIJ", passengers, trains.Selection{TrainID: tt.trainID}, now)
		if rec.TotalAmount != tt.want {
			t.Fatalf("train %s: total %d, want %d", tt.trainID, rec.TotalAmount, tt.want)
		}
		if rec.Status != StatusConfirmed || !rec.BookingDate.Equal(now) || len(rec.Passengers) != 3 {
			t.Fatalf("unexpected record %+v", rec)
		}
	}
}

func TestForm_Transitions(t *testing.T) {
	form := &PassengerForm{State: FormEmpty}

	form.Add()
	if form.State != FormCollecting {
		t.Fatalf("after add: %s", form.State)
	}
	if err := form.Validate(); err == nil {
		t.Fatalf("blank passenger should not validate")
	}
	if err := form.Update(0, validPassenger()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := form.Validate(); err != nil || form.State != FormValidated {
		t.Fatalf("expected Validated, got %s (%v)", form.State, err)
	}
	if err := form.Update(0, validPassenger()); err != nil || form.State != FormCollecting {
		t.Fatalf("edit should return to Collecting, got %s", form.State)
	}
	if err := form.Remove(0); err != nil || form.State != FormEmpty {
		t.Fatalf("removing the last passenger should empty the form, got %s", form.State)
	}
}
