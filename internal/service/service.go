package service

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"paligo/taxonomy/internal/domain"
	"paligo/taxonomy/internal/parser"
)

// ForestPublisher creates a parsed forest remotely
type ForestPublisher interface {
	Publish(ctx context.Context, forest *domain.Forest) (domain.Summary, error)
}

type Service struct {
	publisher ForestPublisher
	out       io.Writer
}

func NewService(publisher ForestPublisher, out io.Writer) *Service {
	return &Service{
		publisher: publisher,
		out:       out,
	}
}

// Import parses the CSV file and publishes the resulting forest. File and
// CSV errors end the import before any request is sent.
func (s *Service) Import(ctx context.Context, csvFile string) (domain.Summary, error) {
	forest, err := s.load(csvFile)
	if err != nil {
		return domain.Summary{}, err
	}

	summary, err := s.publisher.Publish(ctx, forest)
	if err != nil {
		log.Errorf("❌ Import aborted after %d created, %d failed: %v", summary.Created, summary.Failed, err)
		return summary, err
	}

	log.Infof("✅ Import finished: %d created, %d failed, %d skipped of %d nodes",
		summary.Created, summary.Failed, summary.Skipped, summary.Total)
	return summary, nil
}

// DryRun parses the CSV file and writes the forest as YAML without
// contacting the service.
func (s *Service) DryRun(csvFile string) error {
	forest, err := s.load(csvFile)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(s.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(forest); err != nil {
		return fmt.Errorf("failed to write forest: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to write forest: %w", err)
	}

	log.Infof("🔍 Dry run: %d nodes would be created", forest.Len())
	return nil
}

func (s *Service) load(csvFile string) (*domain.Forest, error) {
	log.Infof("📄 Reading taxonomy from %s", csvFile)

	forest, err := parser.ReadFile(csvFile)
	if err != nil {
		return nil, err
	}

	log.Infof("🌳 Parsed %d nodes under %d roots", forest.Len(), len(forest.Roots()))
	return forest, nil
}
