package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testPhone    = "5550100"
	testPassword = "hunter22"
)

type testEnv struct {
	users    repository.UserRepository
	sessions SessionService
	workers  WorkerService
	bookings BookingService
	events   *recordingPublisher
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.BookingEvent
}

func (p *recordingPublisher) PublishBookingEvent(ctx context.Context, event *models.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := repository.NewUserRepository()
	sessions := NewSessionService(users, repository.NewCredentialRepository(), SessionConfig{
		Secret:     []byte("test-secret"),
		TTL:        time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	workers := NewWorkerService(repository.NewWorkerRepository(), sessions, false)
	events := &recordingPublisher{}

	return &testEnv{
		users:    users,
		sessions: sessions,
		workers:  workers,
		bookings: NewBookingService(repository.NewBookingRepository(), workers, sessions, events),
		events:   events,
	}
}

// login creates the test account on first use and opens a session for it.
func (e *testEnv) login(t *testing.T) *models.Session {
	t.Helper()
	ctx := context.Background()

	existing, err := e.users.GetByPhone(ctx, testPhone)
	require.NoError(t, err)
	if existing == nil {
		_, err := e.sessions.SignUp(ctx, &models.SignUpRequest{
			Name:     "Asha Rao",
			Phone:    testPhone,
			Password: testPassword,
		})
		require.NoError(t, err)
	}

	session, err := e.sessions.Login(ctx, &models.Credentials{Phone: testPhone, Password: testPassword})
	require.NoError(t, err)
	return session
}

func (e *testEnv) registerWorker(t *testing.T, name string, category models.WorkerCategory, rate float64) *models.WorkerProfile {
	t.Helper()
	w, err := e.workers.Register(context.Background(), &models.RegisterWorkerRequest{
		Name:       name,
		Phone:      "5550199",
		Category:   category,
		HourlyRate: rate,
		Location:   "Koramangala",
		ImageURL:   "https://img.example/" + name + ".png",
	})
	require.NoError(t, err)
	return w
}

func (e *testEnv) approvedWorker(t *testing.T, name string, rate float64) *models.WorkerProfile {
	t.Helper()
	w := e.registerWorker(t, name, models.CategoryElectrician, rate)
	w, err := e.workers.Approve(context.Background(), w.ID)
	require.NoError(t, err)
	return w
}

func (e *testEnv) book(t *testing.T, session *models.Session, workerID string) *models.Booking {
	t.Helper()
	b, err := e.bookings.Create(context.Background(), &models.CreateBookingRequest{
		WorkerID: workerID,
		Customer: session.User.Snapshot(),
		Date:     "2026-10-20",
		Time:     "10:00",
		Location: "HSR Layout",
	})
	require.NoError(t, err)
	return b
}

func (e *testEnv) advanceTo(t *testing.T, id string, steps ...models.BookingStatus) *models.Booking {
	t.Helper()
	var b *models.Booking
	for _, s := range steps {
		var err error
		b, err = e.bookings.Advance(context.Background(), id, s)
		require.NoError(t, err)
	}
	return b
}

var toCompleted = []models.BookingStatus{
	models.BookingStatusConfirmed,
	models.BookingStatusOnWay,
	models.BookingStatusArrived,
	models.BookingStatusInProgress,
	models.BookingStatusCompleted,
}
