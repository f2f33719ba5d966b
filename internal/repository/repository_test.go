package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aditya/worknearby/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBookingUpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	b := &models.Booking{WorkerID: "w-1", Status: models.BookingStatusPending}
	require.NoError(t, repo.Create(ctx, b))

	boom := errors.New("boom")
	_, err := repo.Update(ctx, b.ID, func(draft *models.Booking) error {
		draft.Status = models.BookingStatusConfirmed
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, stored.Status)
}

func TestBookingUpdateKeepsSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	b := &models.Booking{
		WorkerID:         "w-1",
		WorkerSnapshot:   models.WorkerSnapshot{Name: "Ravi", Price: 500},
		CustomerSnapshot: models.CustomerSnapshot{UserID: "u-1", Name: "Asha", Phone: "5550100"},
		Status:           models.BookingStatusPending,
	}
	require.NoError(t, repo.Create(ctx, b))

	updated, err := repo.Update(ctx, b.ID, func(draft *models.Booking) error {
		draft.Price = 900
		draft.CustomerSnapshot.Name = "Someone Else"
		draft.HasReview = true
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 500.0, updated.Price)
	require.Equal(t, "Asha", updated.CustomerSnapshot.Name)
	require.True(t, updated.HasReview)
}

func TestBookingUpdateUnknownID(t *testing.T) {
	repo := NewBookingRepository()
	called := false
	got, err := repo.Update(context.Background(), "missing", func(*models.Booking) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.Nil(t, got)
	require.False(t, called)
}

func TestBookingListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	var ids []string
	for _, worker := range []string{"w-1", "w-2", "w-1"} {
		b := &models.Booking{WorkerID: worker, CustomerSnapshot: models.CustomerSnapshot{UserID: "u-1"}}
		require.NoError(t, repo.Create(ctx, b))
		ids = append(ids, b.ID)
	}

	forWorker, err := repo.ListByWorkerID(ctx, "w-1")
	require.NoError(t, err)
	require.Len(t, forWorker, 2)
	require.Equal(t, ids[2], forWorker[0].ID)
	require.Equal(t, ids[0], forWorker[1].ID)

	forCustomer, err := repo.ListByCustomerID(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, forCustomer, 3)

	none, err := repo.ListByCustomerID(ctx, "u-2")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestBookingReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	b := &models.Booking{WorkerID: "w-1", Status: models.BookingStatusPending}
	require.NoError(t, repo.Create(ctx, b))

	b.Status = models.BookingStatusCompleted
	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, got.Status)

	got.Status = models.BookingStatusCancelled
	again, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, again.Status)
}

func TestUserPhoneIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	asha := &models.User{Name: "Asha", Phone: "5550100"}
	require.NoError(t, repo.Create(ctx, asha))

	require.ErrorIs(t, repo.Create(ctx, &models.User{Name: "Other", Phone: "5550100"}), ErrDuplicatePhone)

	ravi := &models.User{Name: "Ravi", Phone: "5550199"}
	require.NoError(t, repo.Create(ctx, ravi))

	ravi.Phone = "5550100"
	require.ErrorIs(t, repo.Update(ctx, ravi), ErrDuplicatePhone)

	asha.Phone = "5550111"
	require.NoError(t, repo.Update(ctx, asha))

	byOld, err := repo.GetByPhone(ctx, "5550100")
	require.NoError(t, err)
	require.Nil(t, byOld)

	byNew, err := repo.GetByPhone(ctx, "5550111")
	require.NoError(t, err)
	require.Equal(t, asha.ID, byNew.ID)
}

func TestUserUpdateUnknownID(t *testing.T) {
	err := NewUserRepository().Update(context.Background(), &models.User{ID: "missing", Phone: "5550100"})
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWorkerRepository().GetByID(ctx, "w-1")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, NewBookingRepository().Create(ctx, &models.Booking{}), context.Canceled)
}
