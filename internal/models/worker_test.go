package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerCanTransitionTo(t *testing.T) {
	tests := []struct {
		from ApprovalStatus
		to   ApprovalStatus
		want bool
	}{
		{ApprovalPending, ApprovalApproved, true},
		{ApprovalPending, ApprovalRejected, true},
		{ApprovalApproved, ApprovalRejected, false},
		{ApprovalRejected, ApprovalApproved, false},
		{ApprovalApproved, ApprovalApproved, false},
		{ApprovalPending, ApprovalPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			w := &WorkerProfile{Status: tt.from}
			require.Equal(t, tt.want, w.CanTransitionTo(tt.to))
		})
	}
}

func TestWorkerMatches(t *testing.T) {
	maxRate := 400.0
	w := &WorkerProfile{
		Name:               "Meena",
		Category:           CategoryPlumber,
		HourlyRate:         350,
		Location:           "Indiranagar, Bengaluru",
		SubSpecializations: []string{"Leak repair"},
	}

	require.True(t, w.Matches(WorkerFilter{}))
	require.True(t, w.Matches(WorkerFilter{Category: CategoryPlumber, MaxRate: &maxRate}))
	require.True(t, w.Matches(WorkerFilter{Location: "bengaluru"}))
	require.True(t, w.Matches(WorkerFilter{Query: "LEAK"}))
	require.False(t, w.Matches(WorkerFilter{Category: CategoryPainter}))
	require.False(t, w.Matches(WorkerFilter{Query: "wiring"}))

	cheap := 100.0
	require.False(t, w.Matches(WorkerFilter{MaxRate: &cheap}))
}

func TestWorkerCloneIsDeep(t *testing.T) {
	w := &WorkerProfile{
		SubSpecializations: []string{"Wiring"},
		Portfolio:          []PortfolioItem{{ID: "p1", ImageURL: "a.png"}},
		Availability:       Availability{Days: []string{"Monday"}},
		MapPosition:        &MapPosition{Top: "10%", Left: "20%"},
	}
	c := w.Clone()
	c.SubSpecializations[0] = "Changed"
	c.Portfolio[0].ImageURL = "b.png"
	c.Availability.Days[0] = "Sunday"
	c.MapPosition.Top = "0%"

	require.Equal(t, "Wiring", w.SubSpecializations[0])
	require.Equal(t, "a.png", w.Portfolio[0].ImageURL)
	require.Equal(t, "Monday", w.Availability.Days[0])
	require.Equal(t, "10%", w.MapPosition.Top)
}

func TestWorkerSnapshot(t *testing.T) {
	w := &WorkerProfile{Name: "Ravi", Category: CategoryElectrician, HourlyRate: 500, ImageURL: "ravi.png"}
	require.Equal(t, WorkerSnapshot{Name: "Ravi", Category: CategoryElectrician, Price: 500, ImageURL: "ravi.png"}, w.Snapshot())
}
