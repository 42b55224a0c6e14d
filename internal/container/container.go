package container

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"paligo/taxonomy/internal/client"
	"paligo/taxonomy/internal/config"
	"paligo/taxonomy/internal/observer"
	"paligo/taxonomy/internal/proxy"
	"paligo/taxonomy/internal/publisher"
	"paligo/taxonomy/internal/queue"
	"paligo/taxonomy/internal/repository"
	"paligo/taxonomy/internal/service"
)

// Container holds all initialized components
type Container struct {
	Config    *config.Config
	Client    client.TaxonomyClient
	Publisher *publisher.Publisher
	Service   *service.Service

	observers []observer.Observer
	db        *pgxpool.Pool
	stream    *queue.OutcomeStream
}

// New creates a new container with all dependencies initialized.
// Dry runs get no client and no sinks.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	if cfg.Import.DryRun {
		container.Service = service.NewService(nil, os.Stdout)
		return container, nil
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Paligo.Proxies, cfg.Paligo.BaseURL, nil)
	container.Client = client.NewPaligoClient(cfg.Paligo, proxySupplier)

	container.observers = []observer.Observer{observer.NewLogObserver()}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.stream = queue.NewOutcomeStream(rdb, cfg.Redis)
		container.observers = append(container.observers, container.stream)
	}

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx,
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		container.db = db

		outcomeRepo := repository.NewOutcomeRepository(db)
		if err := outcomeRepo.EnsureSchema(ctx); err != nil {
			container.Close()
			return nil, err
		}
		log.Info("✅ Connected to Postgres successfully")

		container.observers = append(container.observers, outcomeRepo)
	}

	container.Publisher = publisher.NewPublisher(
		container.Client,
		observer.Multi(container.observers...),
		cfg.Import.DefaultColor,
	)
	container.Service = service.NewService(container.Publisher, os.Stdout)

	return container, nil
}

// Run imports the configured CSV file
func (c *Container) Run(ctx context.Context) error {
	if c.Config.Import.DryRun {
		return c.Service.DryRun(c.Config.Import.CSVFile)
	}

	_, err := c.Service.Import(ctx, c.Config.Import.CSVFile)
	return err
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	var errs []error
	if c.Client != nil {
		if err := c.Client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close API client: %w", err))
		}
	}
	if c.db != nil {
		c.db.Close()
	}
	if c.stream != nil {
		if err := c.stream.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis client: %w", err))
		}
	}
	return errors.Join(errs...)
}
