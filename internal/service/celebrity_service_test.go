package service

import (
	"context"
	"strings"
	"testing"

	"helpboard/internal/repository"
	"helpboard/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCelebrityRequests(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewCelebrityService(repository.NewCelebrityRepository(env.db, ""), env.notifier, "2204", logger.NewNop())

	_, err := svc.CreateRequest(ctx, CreateRequestInput{RequesterName: "Аня", CelebrityName: "Звезда"})
	assert.ErrorIs(t, err, ErrValidation)

	longText := strings.Repeat("я", 300)
	res, err := svc.CreateRequest(ctx, CreateRequestInput{RequesterName: "Аня", CelebrityName: "Звезда", RequestText: longText})
	require.NoError(t, err)
	assert.Equal(t, int64(60), res.Amount)
	assert.Equal(t, "2204", res.OzonCard)

	require.Equal(t, 1, env.notifier.count())
	assert.Contains(t, env.notifier.messages[0], strings.Repeat("я", 200)+"...")
	assert.NotContains(t, env.notifier.messages[0], strings.Repeat("я", 201))

	assert.ErrorIs(t, svc.UpdateStatus(ctx, res.RequestID, "lost", ""), ErrValidation)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, 999, "sent", ""), ErrNotFound)
	require.NoError(t, svc.UpdateStatus(ctx, res.RequestID, "rejected", "нет"))

	public, err := svc.GetPublicRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := svc.GetAllRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "нет", all[0].AdminNotes)
}
