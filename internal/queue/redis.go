package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"paligo/taxonomy/internal/config"
	"paligo/taxonomy/internal/domain"
	"paligo/taxonomy/internal/observer"
)

// OutcomeStream publishes import outcomes to a Redis stream so other
// tools can follow an import as it runs.
type OutcomeStream struct {
	redisClient *redis.Client
	stream      string
}

var _ observer.Observer = (*OutcomeStream)(nil)

func NewOutcomeStream(redisClient *redis.Client, cfg config.RedisConfig) *OutcomeStream {
	return &OutcomeStream{
		redisClient: redisClient,
		stream:      cfg.Stream,
	}
}

// Observe adds the outcome to the stream using XADD
func (q *OutcomeStream) Observe(ctx context.Context, outcome *domain.Outcome) error {
	values, err := streamValues(outcome)
	if err != nil {
		return err
	}

	messageID, err := q.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: values,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to add outcome to Redis stream %s: %w", q.stream, err)
	}

	log.Debugf("Added outcome for %s to stream %s with message ID: %s", outcome.Path, q.stream, messageID)
	return nil
}

// Fields: run_id, status, title, outcome (JSON)
func streamValues(outcome *domain.Outcome) (map[string]interface{}, error) {
	data, err := json.Marshal(outcome)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize outcome: %w", err)
	}

	return map[string]interface{}{
		"run_id":  outcome.RunID,
		"status":  string(outcome.Status),
		"title":   outcome.Title,
		"outcome": string(data),
	}, nil
}

func (q *OutcomeStream) Close() error {
	if q.redisClient != nil {
		return q.redisClient.Close()
	}
	return nil
}
