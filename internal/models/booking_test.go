package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBookingCanTransitionTo(t *testing.T) {
	chain := []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusOnWay,
		BookingStatusArrived,
		BookingStatusInProgress,
		BookingStatusCompleted,
	}

	for i, from := range chain {
		for j, to := range chain {
			b := &Booking{Status: from}
			require.Equal(t, j == i+1, b.CanTransitionTo(to), "%s -> %s", from, to)
		}
		b := &Booking{Status: from}
		require.Equal(t, from != BookingStatusCompleted, b.CanTransitionTo(BookingStatusCancelled), "%s -> cancelled", from)
	}

	cancelled := &Booking{Status: BookingStatusCancelled}
	for _, to := range append(chain, BookingStatusCancelled) {
		require.False(t, cancelled.CanTransitionTo(to))
	}

	unknown := &Booking{Status: "reviewed"}
	require.False(t, unknown.CanTransitionTo(BookingStatusConfirmed))
}

func TestBookingStatusTerminal(t *testing.T) {
	require.True(t, BookingStatusCompleted.IsTerminal())
	require.True(t, BookingStatusCancelled.IsTerminal())
	require.False(t, BookingStatusPending.IsTerminal())
	require.True(t, (&Booking{Status: BookingStatusArrived}).IsActive())
}

func TestBookingCloneDetachesDescription(t *testing.T) {
	desc := "sparking socket"
	b := &Booking{ProblemDescription: &desc}
	c := b.Clone()
	*c.ProblemDescription = "changed"
	require.Equal(t, "sparking socket", *b.ProblemDescription)
}
