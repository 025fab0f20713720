package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petties/models"
)

func TestSlotsRequired(t *testing.T) {
	assert.Equal(t, 1, SlotsRequired(0))
	assert.Equal(t, 1, SlotsRequired(-10))
	assert.Equal(t, 1, SlotsRequired(20))
	assert.Equal(t, 1, SlotsRequired(30))
	assert.Equal(t, 2, SlotsRequired(31))
	assert.Equal(t, 2, SlotsRequired(45))
	assert.Equal(t, 2, SlotsRequired(60))
	assert.Equal(t, 3, SlotsRequired(90))
}

func TestComputeScheduleTwoPetsParallelRounds(t *testing.T) {
	// Pet A: exam (20min) then vaccination (45min); pet B: grooming (50min).
	// At 13:30 both pets start in parallel; A's second service begins when
	// its first slot frees up, while B is still being groomed. Every block
	// is rounded up to whole slots, so the 45-minute service holds two.
	items := []models.BookingServiceItem{
		{ID: "a1", PetID: "petA", DurationMinutes: 20},
		{ID: "a2", PetID: "petA", DurationMinutes: 45},
		{ID: "b1", PetID: "petB", DurationMinutes: 50},
	}
	schedule := ComputeSchedule(items, 810) // 13:30

	require.Len(t, schedule, 3)
	assert.Equal(t, ScheduledInterval{Start: 810, End: 840}, schedule["a1"])
	assert.Equal(t, ScheduledInterval{Start: 810, End: 870}, schedule["b1"])
	assert.Equal(t, ScheduledInterval{Start: 840, End: 900}, schedule["a2"])
}

func TestComputeScheduleSinglePetSequential(t *testing.T) {
	items := []models.BookingServiceItem{
		{ID: "s1", PetID: "pet1", DurationMinutes: 30},
		{ID: "s2", PetID: "pet1", DurationMinutes: 45},
		{ID: "s3", PetID: "pet1", DurationMinutes: 15},
	}
	schedule := ComputeSchedule(items, 540) // 09:00

	require.Len(t, schedule, 3)
	assert.Equal(t, ScheduledInterval{Start: 540, End: 570}, schedule["s1"])
	assert.Equal(t, ScheduledInterval{Start: 570, End: 630}, schedule["s2"])
	assert.Equal(t, ScheduledInterval{Start: 630, End: 660}, schedule["s3"])

	// One pet's items never overlap.
	assert.True(t, schedule["s1"].End <= schedule["s2"].Start)
	assert.True(t, schedule["s2"].End <= schedule["s3"].Start)
}

func TestComputeScheduleUnevenPetsResync(t *testing.T) {
	// Pet A finishes its short first item and starts the next round alone;
	// pet B joins later rounds only when its cursor matches the round start.
	items := []models.BookingServiceItem{
		{ID: "a1", PetID: "petA", DurationMinutes: 30},
		{ID: "a2", PetID: "petA", DurationMinutes: 30},
		{ID: "b1", PetID: "petB", DurationMinutes: 90},
		{ID: "b2", PetID: "petB", DurationMinutes: 30},
	}
	schedule := ComputeSchedule(items, 600)

	assert.Equal(t, ScheduledInterval{Start: 600, End: 630}, schedule["a1"])
	assert.Equal(t, ScheduledInterval{Start: 600, End: 690}, schedule["b1"])
	assert.Equal(t, ScheduledInterval{Start: 630, End: 660}, schedule["a2"])
	assert.Equal(t, ScheduledInterval{Start: 690, End: 720}, schedule["b2"])
}

func TestComputeScheduleDeterministic(t *testing.T) {
	items := []models.BookingServiceItem{
		{ID: "a1", PetID: "petA", DurationMinutes: 20},
		{ID: "b1", PetID: "petB", DurationMinutes: 50},
		{ID: "a2", PetID: "petA", DurationMinutes: 45},
		{ID: "c1", PetID: "petC", DurationMinutes: 30},
	}
	first := ComputeSchedule(items, 480)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ComputeSchedule(items, 480))
	}
}

func TestComputeScheduleZeroDurationDefaultsToOneSlot(t *testing.T) {
	items := []models.BookingServiceItem{
		{ID: "x1", PetID: "pet1"},
	}
	schedule := ComputeSchedule(items, 600)
	assert.Equal(t, ScheduledInterval{Start: 600, End: 630}, schedule["x1"])
}

func TestComputeScheduleEmpty(t *testing.T) {
	assert.Empty(t, ComputeSchedule(nil, 600))
}

func TestApplySchedule(t *testing.T) {
	b := &models.Booking{
		Start: 810,
		ServiceItems: []models.BookingServiceItem{
			{ID: "a1", PetID: "petA", DurationMinutes: 20},
			{ID: "b1", PetID: "petB", DurationMinutes: 50},
		},
	}
	ApplySchedule(b)

	assert.Equal(t, 810, b.ServiceItems[0].ScheduledStart)
	assert.Equal(t, 840, b.ServiceItems[0].ScheduledEnd)
	assert.Equal(t, 810, b.ServiceItems[1].ScheduledStart)
	assert.Equal(t, 870, b.ServiceItems[1].ScheduledEnd)
	assert.Equal(t, 870, b.End())
}
