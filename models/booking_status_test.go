package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHappyPathInClinic(t *testing.T) {
	b := &Booking{Type: BookingInClinic, Status: StatusPending}

	require.NoError(t, b.Transition(StatusConfirmed))
	require.NoError(t, b.Transition(StatusAssigned))
	require.NoError(t, b.CheckIn())
	assert.Equal(t, StatusInProgress, b.Status)
	require.NoError(t, b.Checkout())
	assert.Equal(t, StatusCompleted, b.Status)
	assert.True(t, b.Status.IsTerminal())
}

func TestHappyPathHomeVisit(t *testing.T) {
	b := &Booking{Type: BookingHomeVisit, Status: StatusPending}

	require.NoError(t, b.Transition(StatusConfirmed))
	require.NoError(t, b.Transition(StatusAssigned))
	require.NoError(t, b.Transition(StatusOnTheWay))
	require.NoError(t, b.Transition(StatusArrived))
	require.NoError(t, b.CheckIn())
	require.NoError(t, b.Checkout())
	assert.Equal(t, StatusCompleted, b.Status)
}

func TestTravelStatusesRejectedForInClinic(t *testing.T) {
	b := &Booking{Type: BookingInClinic, Status: StatusAssigned}

	err := b.Transition(StatusOnTheWay)
	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, StatusAssigned, invalid.From)
	assert.Equal(t, StatusOnTheWay, invalid.To)
	assert.Equal(t, StatusAssigned, b.Status, "status must not change on rejection")
}

func TestSkippingStatesRejected(t *testing.T) {
	cases := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{StatusPending, StatusAssigned},
		{StatusPending, StatusInProgress},
		{StatusPending, StatusCompleted},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusCompleted},
		{StatusAssigned, StatusCompleted},
		{StatusCompleted, StatusInProgress},
	}
	for _, tc := range cases {
		b := &Booking{Type: BookingInClinic, Status: tc.from}
		err := b.Transition(tc.to)
		assert.Error(t, err, "%s -> %s must be rejected", tc.from, tc.to)
	}
}

func TestCancelFromAnyNonTerminalState(t *testing.T) {
	for _, from := range []BookingStatus{
		StatusPending, StatusConfirmed, StatusAssigned,
		StatusOnTheWay, StatusArrived, StatusInProgress,
	} {
		b := &Booking{Type: BookingHomeVisit, Status: from}
		assert.NoError(t, b.Transition(StatusCancelled), "cancel from %s", from)
	}
}

func TestCancelFromTerminalStateRejected(t *testing.T) {
	for _, from := range []BookingStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		b := &Booking{Type: BookingInClinic, Status: from}
		assert.Error(t, b.Transition(StatusCancelled), "cancel from %s", from)
		assert.Error(t, b.Transition(StatusNoShow), "no-show from %s", from)
	}
}

func TestCheckInGuards(t *testing.T) {
	b := &Booking{Type: BookingInClinic, Status: StatusConfirmed}
	assert.Error(t, b.CheckIn())

	b = &Booking{Type: BookingHomeVisit, Status: StatusArrived}
	assert.NoError(t, b.CheckIn())
}

func TestCheckoutOnlyFromInProgress(t *testing.T) {
	b := &Booking{Type: BookingInClinic, Status: StatusAssigned}
	assert.Error(t, b.Checkout())

	b.Status = StatusInProgress
	assert.NoError(t, b.Checkout())
}

func TestSpecialtyForCategory(t *testing.T) {
	assert.Equal(t, SpecialtyVetDental, SpecialtyForCategory(CategoryDental))
	assert.Equal(t, SpecialtyGroomer, SpecialtyForCategory(CategoryGrooming))
	assert.Equal(t, SpecialtyVetGeneral, SpecialtyForCategory(CategoryVaccine))
	assert.Equal(t, SpecialtyVetGeneral, SpecialtyForCategory(ServiceCategory("UNKNOWN")))
}

func TestStaffCanCover(t *testing.T) {
	s := Staff{Specialty: SpecialtyVetSurgery, Compatible: []Specialty{SpecialtyVetGeneral}}
	assert.True(t, s.CanCover(SpecialtyVetSurgery))
	assert.True(t, s.CanCover(SpecialtyVetGeneral))
	assert.False(t, s.CanCover(SpecialtyGroomer))
}
