// Package publisher creates a taxonomy forest on the remote service.
//
// Nodes are created depth-first in pre-order: a node's creation call
// completes before any of its children is submitted, and each child is sent
// with the id the service assigned to its parent. A node the service refuses
// takes its whole subtree with it; siblings carry on. Transport errors end
// the run.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"paligo/taxonomy/internal/client"
	"paligo/taxonomy/internal/domain"
	"paligo/taxonomy/internal/observer"
)

type Publisher struct {
	client   client.TaxonomyClient
	observer observer.Observer
	color    int
	now      func() time.Time
}

func NewPublisher(client client.TaxonomyClient, observer observer.Observer, color int) *Publisher {
	return &Publisher{
		client:   client,
		observer: observer,
		color:    color,
		now:      time.Now,
	}
}

type run struct {
	summary domain.Summary
}

// Publish creates every node of the forest. The summary is returned even
// when a transport error stops the run early.
func (p *Publisher) Publish(ctx context.Context, forest *domain.Forest) (domain.Summary, error) {
	r := &run{summary: domain.Summary{
		RunID: uuid.NewString(),
		Total: forest.Len(),
	}}

	log.Infof("🚀 Publishing %d taxonomy nodes (run %s)", r.summary.Total, r.summary.RunID)

	err := p.publishNodes(ctx, r, forest.Roots(), nil, nil)
	return r.summary, err
}

func (p *Publisher) publishNodes(
	ctx context.Context,
	r *run,
	nodes []*domain.Node,
	parentPath domain.Path,
	parent *domain.TaxonomyID,
) error {
	for _, node := range nodes {
		path := append(parentPath[:len(parentPath):len(parentPath)], node.Label)

		taxonomy, err := p.client.CreateTaxonomy(ctx, &domain.CreateTaxonomyRequest{
			Title:  node.Label,
			Color:  p.color,
			Parent: parent,
		})

		var apiErr *client.APIError
		switch {
		case errors.As(err, &apiErr):
			skipped := domain.Descendants(node)
			r.summary.Failed++
			r.summary.Skipped += skipped

			p.notify(ctx, &domain.Outcome{
				RunID:      r.summary.RunID,
				Status:     domain.OutcomeFailed,
				Path:       path,
				Title:      node.Label,
				Parent:     parent,
				StatusCode: apiErr.StatusCode,
				Detail:     apiErr.Detail,
				Skipped:    skipped,
				OccurredAt: p.now(),
			})
			continue

		case err != nil:
			return fmt.Errorf("failed to create taxonomy %s: %w", path, err)
		}

		r.summary.Created++
		p.notify(ctx, &domain.Outcome{
			RunID:      r.summary.RunID,
			Status:     domain.OutcomeCreated,
			Path:       path,
			Title:      node.Label,
			Parent:     parent,
			ID:         taxonomy.ID,
			StatusCode: http.StatusCreated,
			OccurredAt: p.now(),
		})

		if err := p.publishNodes(ctx, r, node.Children(), path, taxonomy.ID); err != nil {
			return err
		}
	}

	return nil
}

// notify logs sink errors instead of returning them
func (p *Publisher) notify(ctx context.Context, outcome *domain.Outcome) {
	if p.observer == nil {
		return
	}
	if err := p.observer.Observe(ctx, outcome); err != nil {
		log.Warnf("⚠️ Failed to record outcome for %s: %v", outcome.Path, err)
	}
}
