package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestAccept_ReturnsSelectedSlot(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	slots := []Slot{
		{StartAt: now.Add(24 * time.Hour)},
		{StartAt: now.Add(48 * time.Hour)},
	}
	at, err := Accept(StatusPendingResponse, slots, 1, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !at.Equal(slots[1].StartAt) {
		t.Fatalf("want=%v got=%v", slots[1].StartAt, at)
	}
}

func TestAccept_RejectsNonPendingStatus(t *testing.T) {
	now := time.Now()
	slots := []Slot{{StartAt: now.Add(time.Hour)}}
	for _, status := range []string{StatusScheduled, StatusDeclined, StatusCounterProposed} {
		if _, err := Accept(status, slots, 0, now); !errors.Is(err, ErrAlreadyHandled) {
			t.Fatalf("status %q: want ErrAlreadyHandled got %v", status, err)
		}
	}
}

func TestAccept_RejectsOutOfRangeIndex(t *testing.T) {
	now := time.Now()
	slots := []Slot{{StartAt: now.Add(time.Hour)}}
	for _, idx := range []int{-1, 1, 5} {
		if _, err := Accept(StatusPendingResponse, slots, idx, now); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("index %d: want ErrInvalidSlot got %v", idx, err)
		}
	}
}

func TestAccept_RejectsPastSlot(t *testing.T) {
	now := time.Now()
	slots := []Slot{{StartAt: now.Add(-time.Minute)}}
	if _, err := Accept(StatusPendingResponse, slots, 0, now); !errors.Is(err, ErrSlotExpired) {
		t.Fatalf("want ErrSlotExpired got %v", err)
	}
}

func TestCounter_ValidatesSlotCount(t *testing.T) {
	now := time.Now()
	if _, err := Counter(StatusPendingResponse, nil, now); !errors.Is(err, ErrBadSlotCount) {
		t.Fatalf("empty: want ErrBadSlotCount got %v", err)
	}
	four := []time.Time{
		now.Add(1 * time.Hour), now.Add(2 * time.Hour),
		now.Add(3 * time.Hour), now.Add(4 * time.Hour),
	}
	if _, err := Counter(StatusPendingResponse, four, now); !errors.Is(err, ErrBadSlotCount) {
		t.Fatalf("four slots: want ErrBadSlotCount got %v", err)
	}
}

func TestCounter_RejectsPastSlots(t *testing.T) {
	now := time.Now()
	proposed := []time.Time{now.Add(time.Hour), now.Add(-time.Hour)}
	if _, err := Counter(StatusPendingResponse, proposed, now); !errors.Is(err, ErrSlotNotFuture) {
		t.Fatalf("want ErrSlotNotFuture got %v", err)
	}
}

func TestCounter_MarksSlotsProposed(t *testing.T) {
	now := time.Now()
	slots, err := Counter(StatusPendingResponse, []time.Time{now.Add(time.Hour)}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].Status != "proposed" {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestCounter_IsTerminalForTheRound(t *testing.T) {
	now := time.Now()
	if _, err := Counter(StatusCounterProposed, []time.Time{now.Add(time.Hour)}, now); !errors.Is(err, ErrAlreadyHandled) {
		t.Fatalf("want ErrAlreadyHandled got %v", err)
	}
}

func TestDecline_OnlyFromPending(t *testing.T) {
	if err := Decline(StatusPendingResponse); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Decline(StatusDeclined); !errors.Is(err, ErrAlreadyHandled) {
		t.Fatalf("want ErrAlreadyHandled got %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	cases := map[string]bool{
		StatusPendingResponse: false,
		StatusScheduled:       true,
		StatusDeclined:        true,
		StatusCounterProposed: true,
		"unknown":             false,
	}
	for status, want := range cases {
		if got := IsTerminal(status); got != want {
			t.Fatalf("IsTerminal(%q): want=%v got=%v", status, want, got)
		}
	}
}
