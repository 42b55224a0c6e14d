package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"paligo/taxonomy/internal/domain"
	"paligo/taxonomy/internal/observer"
)

const createOutcomesTable = `
	CREATE TABLE IF NOT EXISTS taxonomy_import_outcomes (
		run_id      TEXT        NOT NULL,
		path        TEXT[]      NOT NULL,
		title       TEXT        NOT NULL,
		status      TEXT        NOT NULL,
		status_code INTEGER     NOT NULL,
		taxonomy_id BIGINT,
		parent_id   BIGINT,
		detail      TEXT,
		skipped     INTEGER     NOT NULL DEFAULT 0,
		occurred_at TIMESTAMPTZ NOT NULL
	)`

// OutcomeRepository stores one row per submitted node and doubles as an
// outcome sink.
type OutcomeRepository interface {
	observer.Observer
	EnsureSchema(ctx context.Context) error
	SaveOutcome(ctx context.Context, outcome *domain.Outcome) error
}

type outcomeRepository struct {
	db *pgxpool.Pool
}

func NewOutcomeRepository(db *pgxpool.Pool) OutcomeRepository {
	return &outcomeRepository{
		db: db,
	}
}

func (r *outcomeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createOutcomesTable); err != nil {
		return fmt.Errorf("failed to create outcomes table: %w", err)
	}
	return nil
}

func (r *outcomeRepository) SaveOutcome(ctx context.Context, outcome *domain.Outcome) error {
	query := `
	INSERT INTO taxonomy_import_outcomes
		(run_id, path, title, status, status_code, taxonomy_id, parent_id, detail, skipped, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		outcome.RunID,
		[]string(outcome.Path),
		outcome.Title,
		string(outcome.Status),
		outcome.StatusCode,
		nullableID(outcome.ID),
		nullableID(outcome.Parent),
		outcome.Detail,
		outcome.Skipped,
		outcome.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save outcome for %s: %w", outcome.Path, err)
	}

	return nil
}

func (r *outcomeRepository) Observe(ctx context.Context, outcome *domain.Outcome) error {
	return r.SaveOutcome(ctx, outcome)
}

func nullableID(id *domain.TaxonomyID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}
