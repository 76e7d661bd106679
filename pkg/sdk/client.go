package vocabdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbpostgres "github.com/kailas-cloud/vocabdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/vocabdex/internal/db/redis"
	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
	awardrepo "github.com/kailas-cloud/vocabdex/internal/repository/award"
	"github.com/kailas-cloud/vocabdex/internal/repository/awardindex"
	funderrepo "github.com/kailas-cloud/vocabdex/internal/repository/funder"
	awarduc "github.com/kailas-cloud/vocabdex/internal/usecase/award"
	funderuc "github.com/kailas-cloud/vocabdex/internal/usecase/funder"
	healthuc "github.com/kailas-cloud/vocabdex/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "vocabdex:"
)

// Internal interfaces, swapped for mocks in tests.
type awardUseCase interface {
	Create(ctx context.Context, id identity.Identity, d domaward.Draft) (domaward.Award, error)
	Read(ctx context.Context, id identity.Identity, pid string) (domaward.Award, error)
	Update(ctx context.Context, id identity.Identity, pid string, d domaward.Draft, expectedRevision int) (domaward.Award, error)
	Delete(ctx context.Context, id identity.Identity, pid string, expectedRevision int) (domaward.Award, error)
	ForceDelete(ctx context.Context, id identity.Identity, pid string) error
	Search(ctx context.Context, id identity.Identity, p awarduc.SearchParams) (awarduc.SearchResult, error)
	Reindex(ctx context.Context, id identity.Identity) (int, error)
	RefreshIndex(ctx context.Context) error
}

type funderUseCase interface {
	Create(ctx context.Context, id identity.Identity, fid, name, country string) (domfunder.Funder, error)
	Get(ctx context.Context, id string) (domfunder.Funder, error)
}

// Client is the vocabdex SDK entry point.
type Client struct {
	awardSvc  awardUseCase
	funderSvc funderUseCase
	healthSvc healthUseCase
	actor     identity.Identity
	closers   []func()
	tel       *telemetry
}

// New creates a Client and connects to the configured backends.
// The provided context is used for the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" && !cfg.memoryStore {
		return nil, errors.New("vocabdex: record store required (use WithPostgres or WithInMemory)")
	}
	if len(cfg.redisAddrs) == 0 && !cfg.memoryIndex {
		return nil, errors.New("vocabdex: search index required (use WithRedis or WithInMemory)")
	}

	tel, err := newTelemetry(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{actor: identity.System(), tel: tel}
	if cfg.actor != nil {
		c.actor = identity.New(cfg.actor.subject, cfg.actor.roles, cfg.actor.scopes)
	}
	if err := c.wire(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) wire(ctx context.Context, cfg *clientConfig) error {
	var (
		awards  awarduc.Repository
		funders funderuc.Repository
		pinger  healthuc.Pinger
	)
	if cfg.memoryStore {
		mem := awardrepo.NewInMemory()
		awards, funders, pinger = mem, funderrepo.NewInMemory(), mem
	} else {
		sqlDB, err := dbpostgres.Open(dbpostgres.Config{DSN: cfg.dsn})
		if err != nil {
			return fmt.Errorf("vocabdex: open postgres: %w", err)
		}
		c.closers = append(c.closers, func() { _ = sqlDB.Close() })
		if err := dbpostgres.WaitForReady(ctx, sqlDB, defaultReadinessTimeout); err != nil {
			return fmt.Errorf("vocabdex: postgres not ready: %w", err)
		}
		if cfg.migrate {
			if _, err := dbpostgres.Migrate(ctx, sqlDB); err != nil {
				return fmt.Errorf("vocabdex: migrate: %w", err)
			}
		}
		pg := awardrepo.NewPostgres(sqlDB)
		awards, funders, pinger = pg, funderrepo.NewPostgres(sqlDB), pg
	}

	var index awarduc.Index
	if cfg.memoryIndex {
		index = awardindex.NewInMemory()
	} else {
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.redisAddrs, Password: cfg.redisPassword})
		if err != nil {
			return fmt.Errorf("vocabdex: create redis store: %w", err)
		}
		c.closers = append(c.closers, store.Close)
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			return fmt.Errorf("vocabdex: redis not ready: %w", err)
		}
		index = awardindex.NewRedis(store, cfg.keyPrefix)
	}

	svc := awarduc.New(awards, funders, index)
	if cfg.maxPageSize > 0 {
		svc = svc.WithPagination(cfg.maxPageSize)
	}
	if cfg.reindexWorkers > 0 || cfg.reindexBatch > 0 {
		svc = svc.WithReindex(cfg.reindexWorkers, cfg.reindexBatch)
	}
	if err := svc.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("vocabdex: %w", err)
	}

	c.awardSvc = svc
	c.funderSvc = funderuc.New(funders)
	c.healthSvc = healthuc.New(pinger, index)
	return nil
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Awards returns the award service.
func (c *Client) Awards() *AwardService {
	return &AwardService{svc: c.awardSvc, actor: c.actor, tel: c.tel}
}

// Funders returns the funder service.
func (c *Client) Funders() *FunderService {
	return &FunderService{svc: c.funderSvc, actor: c.actor, tel: c.tel}
}
