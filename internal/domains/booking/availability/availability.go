// Package availability decides whether inclusive date ranges collide.
//
// All comparisons happen on calendar days: times are truncated to midnight UTC of their
// own calendar date before comparing. Both ends are inclusive, so a booking ending on the
// 5th and another starting on the 5th overlap.
package availability

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRange = errors.New("from date must be on or before to date")

type Range struct {
	From time.Time
	To   time.Time
}

func NewRange(from, to time.Time) Range {
	return Range{From: Day(from), To: Day(to)}
}

// ParseRange parses two YYYY-MM-DD dates and rejects reversed ranges.
func ParseRange(from, to string) (Range, error) {
	fromDate, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return Range{}, fmt.Errorf("invalid from date %q: %w", from, err)
	}

	toDate, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return Range{}, fmt.Errorf("invalid to date %q: %w", to, err)
	}

	r := NewRange(fromDate, toDate)
	if !r.Valid() {
		return Range{}, ErrInvalidRange
	}

	return r, nil
}

// Day keeps only the calendar date of t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r Range) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !r.From.After(r.To)
}

// Days is the number of calendar days covered, both ends included.
func (r Range) Days() int {
	if !r.Valid() {
		return 0
	}

	return int(Day(r.To).Sub(Day(r.From)).Hours()/24) + 1
}

func (r Range) Contains(day time.Time) bool {
	day = Day(day)

	return !day.Before(Day(r.From)) && !day.After(Day(r.To))
}

func (r Range) String() string {
	return r.From.Format(time.DateOnly) + ".." + r.To.Format(time.DateOnly)
}

// Overlaps reports whether a and b share at least one day. Invalid ranges never overlap.
func Overlaps(a, b Range) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}

	return !Day(a.From).After(Day(b.To)) && !Day(a.To).Before(Day(b.From))
}

// Slot is an existing reservation of one room.
type Slot struct {
	ID    string
	Range Range
}

// Conflicts returns the slots overlapping candidate, ignoring the slot named excludeID.
func Conflicts(candidate Range, slots []Slot, excludeID string) []Slot {
	var conflicts []Slot

	for _, slot := range slots {
		if excludeID != "" && slot.ID == excludeID {
			continue
		}

		if Overlaps(candidate, slot.Range) {
			conflicts = append(conflicts, slot)
		}
	}

	return conflicts
}

// Check validates candidate and returns a *ConflictError when it collides with slots.
func Check(candidate Range, slots []Slot, excludeID string) error {
	if !candidate.Valid() {
		return ErrInvalidRange
	}

	if conflicts := Conflicts(candidate, slots, excludeID); len(conflicts) > 0 {
		return &ConflictError{Candidate: candidate, With: conflicts}
	}

	return nil
}

func Available(candidate Range, slots []Slot, excludeID string) bool {
	return Check(candidate, slots, excludeID) == nil
}

// ValidateSet checks that every slot is valid and that no two slots overlap.
func ValidateSet(slots []Slot) error {
	for i, slot := range slots {
		if !slot.Range.Valid() {
			return fmt.Errorf("booking %s: %w", slot.ID, ErrInvalidRange)
		}

		for _, other := range slots[i+1:] {
			if Overlaps(slot.Range, other.Range) {
				return &ConflictError{Candidate: slot.Range, With: []Slot{other}}
			}
		}
	}

	return nil
}

type ConflictError struct {
	Candidate Range
	With      []Slot
}

func (e *ConflictError) Error() string {
	if len(e.With) == 0 {
		return "room is already booked for " + e.Candidate.String()
	}

	return fmt.Sprintf("room is already booked from %s to %s",
		e.With[0].Range.From.Format(time.DateOnly), e.With[0].Range.To.Format(time.DateOnly))
}

// RoomSlots is one room with its current reservations.
type RoomSlots struct {
	Hostel   string
	RoomNo   string
	RoomType string
	Slots    []Slot
}

type RoomRef struct {
	Hostel   string `json:"hostel"`
	RoomNo   string `json:"room_no"`
	RoomType string `json:"room_type"`
}

// Vacancies lists the rooms free for the whole candidate range, in input order.
func Vacancies(rooms []RoomSlots, candidate Range) ([]RoomRef, error) {
	if !candidate.Valid() {
		return nil, ErrInvalidRange
	}

	vacant := []RoomRef{}

	for _, room := range rooms {
		if len(Conflicts(candidate, room.Slots, "")) == 0 {
			vacant = append(vacant, RoomRef{Hostel: room.Hostel, RoomNo: room.RoomNo, RoomType: room.RoomType})
		}
	}

	return vacant, nil
}
