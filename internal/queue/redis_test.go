package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paligo/taxonomy/internal/config"
	"paligo/taxonomy/internal/domain"
)

func TestStreamValues(t *testing.T) {
	id := domain.TaxonomyID(9)
	outcome := &domain.Outcome{
		RunID:      "run-1",
		Status:     domain.OutcomeCreated,
		Path:       domain.Path{"Animals", "Birds"},
		Title:      "Birds",
		ID:         &id,
		StatusCode: 201,
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	values, err := streamValues(outcome)
	require.NoError(t, err)

	assert.Equal(t, "run-1", values["run_id"])
	assert.Equal(t, "created", values["status"])
	assert.Equal(t, "Birds", values["title"])

	var decoded domain.Outcome
	require.NoError(t, json.Unmarshal([]byte(values["outcome"].(string)), &decoded))
	assert.Equal(t, *outcome, decoded)
}

func TestOutcomeStreamObserve(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	stream := NewOutcomeStream(rdb, config.RedisConfig{Stream: "test:outcomes"})
	defer func() { assert.NoError(t, stream.Close()) }()

	ctx := context.Background()
	failed := &domain.Outcome{
		RunID:      "run-2",
		Status:     domain.OutcomeFailed,
		Path:       domain.Path{"Animals", "Mammals"},
		Title:      "Mammals",
		StatusCode: 400,
		Detail:     `{"title":["not allowed"]}`,
		Skipped:    1,
	}
	require.NoError(t, stream.Observe(ctx, failed))

	entries, err := rdb.XRange(ctx, "test:outcomes", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, "run-2", values["run_id"])
	assert.Equal(t, "failed", values["status"])
	assert.Equal(t, "Mammals", values["title"])

	var decoded domain.Outcome
	require.NoError(t, json.Unmarshal([]byte(values["outcome"].(string)), &decoded))
	assert.Equal(t, domain.Path{"Animals", "Mammals"}, decoded.Path)
	assert.Equal(t, 1, decoded.Skipped)
	assert.Nil(t, decoded.ID)
}

func TestOutcomeStreamObserveServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	stream := NewOutcomeStream(rdb, config.RedisConfig{Stream: "test:outcomes"})
	err := stream.Observe(context.Background(), &domain.Outcome{Title: "Animals"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test:outcomes")
}
