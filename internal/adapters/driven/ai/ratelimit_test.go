package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/embedding/hashing"
)

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.Nil(t, NewLimiter(-1))

	l := NewLimiter(0.5)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
	assert.Equal(t, 4, NewLimiter(4).Burst())
}

func TestRateLimitedEmbedding_PassThrough(t *testing.T) {
	svc := NewRateLimitedEmbedding(hashing.New(16), nil)

	vec, err := svc.Embed(context.Background(), "ticket")
	require.NoError(t, err)
	assert.Len(t, vec, 16)
	assert.Equal(t, 16, svc.Dimensions())
	assert.Equal(t, "hashing-v1", svc.ModelName())
}

func TestRateLimitedEmbedding_DeadlineTooShort(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	svc := NewRateLimitedEmbedding(hashing.New(16), limiter)

	_, err := svc.Embed(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = svc.EmbedBatch(ctx, []string{"second"})
	assert.Error(t, err)
}
