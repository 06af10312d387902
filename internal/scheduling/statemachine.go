package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// Terminal-state and slot validation errors surfaced to the candidate
// response page. ErrAlreadyHandled also covers the case where a concurrent
// request won the compare-and-swap on the interview status.
var (
	ErrAlreadyHandled = errors.New("this invitation was already handled")
	ErrInvalidSlot    = errors.New("selected slot does not exist")
	ErrSlotExpired    = errors.New("selected slot is in the past")
	ErrBadSlotCount   = errors.New("between 1 and 3 proposed slots are required")
	ErrSlotNotFuture  = errors.New("proposed slots must be in the future")
)

const (
	StatusPendingResponse = "pending_response"
	StatusScheduled       = "scheduled"
	StatusDeclined        = "declined"
	StatusCounterProposed = "counter_proposed"
)

type Slot struct {
	StartAt time.Time `json:"start_at"`
	Status  string    `json:"status"`
}

// Accept validates an accept transition against the proposed slots and
// returns the datetime to schedule. Only valid from pending_response; the
// caller must still enforce that atomically at write time.
func Accept(status string, slots []Slot, selectedSlotIndex int, now time.Time) (time.Time, error) {
	if status != StatusPendingResponse {
		return time.Time{}, ErrAlreadyHandled
	}
	if selectedSlotIndex < 0 || selectedSlotIndex >= len(slots) {
		return time.Time{}, fmt.Errorf("%w: index %d of %d slots", ErrInvalidSlot, selectedSlotIndex, len(slots))
	}
	slot := slots[selectedSlotIndex]
	if !slot.StartAt.After(now) {
		return time.Time{}, ErrSlotExpired
	}
	return slot.StartAt, nil
}

// Counter validates a counter-proposal. A counter is terminal for the round:
// the recruiter reviews the proposed slots and sends a fresh invitation.
func Counter(status string, proposed []time.Time, now time.Time) ([]Slot, error) {
	if status != StatusPendingResponse {
		return nil, ErrAlreadyHandled
	}
	if len(proposed) < 1 || len(proposed) > 3 {
		return nil, ErrBadSlotCount
	}
	slots := make([]Slot, 0, len(proposed))
	for _, t := range proposed {
		if !t.After(now) {
			return nil, ErrSlotNotFuture
		}
		slots = append(slots, Slot{StartAt: t, Status: "proposed"})
	}
	return slots, nil
}

// Decline validates a decline transition.
func Decline(status string) error {
	if status != StatusPendingResponse {
		return ErrAlreadyHandled
	}
	return nil
}

// IsTerminal reports whether a status accepts no further candidate action.
func IsTerminal(status string) bool {
	switch status {
	case StatusScheduled, StatusDeclined, StatusCounterProposed:
		return true
	}
	return false
}
