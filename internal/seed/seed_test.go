package seed

import (
	"context"
	"testing"
	"time"

	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/internal/repository"
	"github.com/aditya/worknearby/internal/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestWorkers(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewWorkerRepository()

	require.NoError(t, Workers(ctx, repo))

	approved, err := repo.ListByStatus(ctx, models.ApprovalApproved)
	require.NoError(t, err)
	require.Len(t, approved, 5)

	pending, err := repo.ListByStatus(ctx, models.ApprovalPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Nil(t, pending[0].MapPosition)
}

func TestDemoAccountIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sessions := service.NewSessionService(repository.NewUserRepository(), repository.NewCredentialRepository(), service.SessionConfig{
		Secret:     []byte("test-secret"),
		TTL:        time.Hour,
		BcryptCost: bcrypt.MinCost,
	})

	require.NoError(t, DemoAccount(ctx, sessions))
	require.NoError(t, DemoAccount(ctx, sessions))

	session, err := sessions.Login(ctx, &models.Credentials{Phone: DemoPhone, Password: DemoPassword})
	require.NoError(t, err)
	require.Equal(t, "Demo Customer", session.User.Name)
}
