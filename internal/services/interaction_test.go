package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/repository"
	"swipe-match-backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInteractionService() (*services.InteractionService, *repository.InMemoryLikeRepository) {
	likes := repository.NewInMemoryLikeRepository()
	return services.NewInteractionService(likes, 0, zerolog.Nop()), likes
}

func TestInteractionService_Reciprocity(t *testing.T) {
	ctx := context.Background()
	svc, likes := newInteractionService()

	res, err := svc.Resolve(ctx, []byte(`{"fromUserId":1,"toUserId":2,"action":"like"}`))
	require.NoError(t, err)
	assert.False(t, res.Match)

	_, err = svc.Resolve(ctx, []byte(`{"fromUserId":1,"toUserId":2,"action":"like"}`))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.DuplicateLikeKind))
	assert.Equal(t, "Duplicate like", apperr.Message(err))

	res, err = svc.Resolve(ctx, []byte(`{"fromUserId":"2","toUserId":1,"action":"like"}`))
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, "2", res.FromUserID)
	assert.Equal(t, "1", res.ToUserID)

	before := likes.Len()
	res, err = svc.Resolve(ctx, []byte(`{"fromUserId":1,"toUserId":2,"action":"dislike"}`))
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, before, likes.Len(), "dislikes never record an edge")
}

func TestInteractionService_StringAndNumberIDsMatch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInteractionService()

	_, err := svc.Resolve(ctx, []byte(`{"fromUserId":"1","toUserId":2,"action":"like"}`))
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, []byte(`{"fromUserId":1,"toUserId":2,"action":"like"}`))
	assert.True(t, apperr.Is(err, apperr.DuplicateLikeKind))
}

func TestParseInteraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind apperr.Kind
	}{
		{"empty body", ``, apperr.InvalidPayloadKind},
		{"not json", `{fromUserId:1}`, apperr.InvalidPayloadKind},
		{"trailing garbage", `{"fromUserId":1,"toUserId":2,"action":"like"} x`, apperr.InvalidPayloadKind},
		{"array", `[1,2]`, apperr.InvalidBodyKind},
		{"null", `null`, apperr.InvalidBodyKind},
		{"missing from", `{"toUserId":2,"action":"like"}`, apperr.InvalidBodyKind},
		{"bool from", `{"fromUserId":true,"toUserId":2,"action":"like"}`, apperr.InvalidBodyKind},
		{"string to", `{"fromUserId":1,"toUserId":"2","action":"like"}`, apperr.InvalidBodyKind},
		{"fractional to", `{"fromUserId":1,"toUserId":2.5,"action":"like"}`, apperr.InvalidBodyKind},
		{"unknown action", `{"fromUserId":1,"toUserId":2,"action":"superlike"}`, apperr.InvalidBodyKind},
		{"missing action", `{"fromUserId":1,"toUserId":2}`, apperr.InvalidBodyKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.ParseInteraction([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}

	t.Run("valid", func(t *testing.T) {
		in, err := services.ParseInteraction([]byte(` {"fromUserId":"abc","toUserId":42,"action":"dislike"} `))
		require.NoError(t, err)
		assert.Equal(t, services.Interaction{FromUserID: "abc", ToUserID: "42", Action: "dislike"}, in)
	})
}

func TestInteractionService_DelayRunsBeforeParsing(t *testing.T) {
	svc := services.NewInteractionService(repository.NewInMemoryLikeRepository(), 30*time.Millisecond, zerolog.Nop())

	start := time.Now()
	_, err := svc.Resolve(context.Background(), []byte(`garbage`))
	assert.True(t, apperr.Is(err, apperr.InvalidPayloadKind))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Resolve(ctx, []byte(`{"fromUserId":1,"toUserId":2,"action":"like"}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInteractionService_ConcurrentDuplicateLikes(t *testing.T) {
	svc, _ := newInteractionService()

	var accepted, duplicates atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Resolve(context.Background(), []byte(`{"fromUserId":5,"toUserId":6,"action":"like"}`))
			switch {
			case err == nil:
				accepted.Add(1)
			case apperr.Is(err, apperr.DuplicateLikeKind):
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, accepted.Load())
	assert.EqualValues(t, 31, duplicates.Load())
}
