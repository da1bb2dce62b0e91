package availability_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestroom/internal/domains/booking/availability"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return t
}

func rng(from, to string) availability.Range {
	return availability.NewRange(day(from), day(to))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b availability.Range
		want bool
	}{
		{name: "disjoint before", a: rng("2024-05-01", "2024-05-03"), b: rng("2024-05-04", "2024-05-06"), want: false},
		{name: "disjoint after", a: rng("2024-05-07", "2024-05-09"), b: rng("2024-05-04", "2024-05-06"), want: false},
		{name: "shared boundary day", a: rng("2024-05-01", "2024-05-05"), b: rng("2024-05-05", "2024-05-07"), want: true},
		{name: "contained", a: rng("2024-05-02", "2024-05-03"), b: rng("2024-05-01", "2024-05-10"), want: true},
		{name: "identical single day", a: rng("2024-05-02", "2024-05-02"), b: rng("2024-05-02", "2024-05-02"), want: true},
		{name: "invalid range never overlaps", a: rng("2024-05-05", "2024-05-01"), b: rng("2024-05-01", "2024-05-10"), want: false},
		{name: "time of day ignored", a: availability.NewRange(day("2024-05-01").Add(23*time.Hour), day("2024-05-03")), b: rng("2024-05-01", "2024-05-01"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, availability.Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, availability.Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestParseRange(t *testing.T) {
	r, err := availability.ParseRange("2024-05-01", "2024-05-05")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Days())

	_, err = availability.ParseRange("2024-05-05", "2024-05-01")
	assert.ErrorIs(t, err, availability.ErrInvalidRange)

	_, err = availability.ParseRange("05/01/2024", "2024-05-01")
	assert.Error(t, err)

	_, err = availability.ParseRange("", "")
	assert.Error(t, err)
}

// Alice holds R101 from 2024-01-10 to 2024-01-15.
func aliceOnR101() []availability.Slot {
	return []availability.Slot{{ID: "alice", Range: rng("2024-01-10", "2024-01-15")}}
}

func TestScenarioA_OverlappingCreateRejected(t *testing.T) {
	err := availability.Check(rng("2024-01-14", "2024-01-20"), aliceOnR101(), "")

	var conflict *availability.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "alice", conflict.With[0].ID)
}

func TestScenarioB_AdjacentCreateAccepted(t *testing.T) {
	assert.NoError(t, availability.Check(rng("2024-01-16", "2024-01-20"), aliceOnR101(), ""))
}

func TestScenarioC_ExtendIntoNeighbourRejected(t *testing.T) {
	slots := append(aliceOnR101(), availability.Slot{ID: "carol", Range: rng("2024-01-16", "2024-01-20")})

	err := availability.Check(rng("2024-01-10", "2024-01-20"), slots, "alice")
	assert.Error(t, err)

	// Alice's own slot never blocks her.
	assert.NoError(t, availability.Check(rng("2024-01-10", "2024-01-15"), slots, "alice"))
}

func TestScenarioD_CancelThenRebook(t *testing.T) {
	slots := aliceOnR101()
	bob := rng("2024-01-14", "2024-01-20")

	require.Error(t, availability.Check(bob, slots, ""))

	slots = slots[:0]
	assert.NoError(t, availability.Check(bob, slots, ""))
}

func TestCheckInvalidCandidate(t *testing.T) {
	err := availability.Check(rng("2024-05-09", "2024-05-01"), nil, "")
	assert.ErrorIs(t, err, availability.ErrInvalidRange)
}

func TestValidateSet(t *testing.T) {
	ok := []availability.Slot{
		{ID: "a", Range: rng("2024-05-01", "2024-05-02")},
		{ID: "b", Range: rng("2024-05-03", "2024-05-04")},
	}
	assert.NoError(t, availability.ValidateSet(ok))

	clash := append(ok, availability.Slot{ID: "c", Range: rng("2024-05-02", "2024-05-03")})
	assert.Error(t, availability.ValidateSet(clash))

	reversed := []availability.Slot{{ID: "r", Range: rng("2024-05-05", "2024-05-01")}}
	assert.ErrorIs(t, availability.ValidateSet(reversed), availability.ErrInvalidRange)
}

func TestVacancies(t *testing.T) {
	rooms := []availability.RoomSlots{
		{Hostel: "H1", RoomNo: "R101", Slots: aliceOnR101()},
		{Hostel: "H1", RoomNo: "R102"},
		{Hostel: "H2", RoomNo: "R201", Slots: []availability.Slot{{ID: "x", Range: rng("2024-05-10", "2024-05-12")}}},
	}

	vacant, err := availability.Vacancies(rooms, rng("2024-01-12", "2024-01-14"))
	require.NoError(t, err)
	assert.Equal(t, []availability.RoomRef{{Hostel: "H1", RoomNo: "R102"}, {Hostel: "H2", RoomNo: "R201"}}, vacant)

	_, err = availability.Vacancies(rooms, rng("2024-05-06", "2024-05-04"))
	assert.ErrorIs(t, err, availability.ErrInvalidRange)
}

// Accepting only candidates that pass Check never produces an overlapping set.
func TestAcceptedSequenceNeverOverlaps(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	base := day("2024-01-01")

	var slots []availability.Slot

	for i := range 500 {
		start := base.AddDate(0, 0, random.Intn(120))
		candidate := availability.NewRange(start, start.AddDate(0, 0, random.Intn(6)))

		if availability.Available(candidate, slots, "") {
			slots = append(slots, availability.Slot{ID: string(rune('a' + i%26)), Range: candidate})
		}
	}

	require.NotEmpty(t, slots)
	assert.NoError(t, availability.ValidateSet(slots))
}
