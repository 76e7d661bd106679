package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vocabdex/internal/auth"
	"github.com/kailas-cloud/vocabdex/internal/config"
	"github.com/kailas-cloud/vocabdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/vocabdex/internal/db/redis"
	logpkg "github.com/kailas-cloud/vocabdex/internal/logger"
	"github.com/kailas-cloud/vocabdex/internal/metrics"
	awardrepo "github.com/kailas-cloud/vocabdex/internal/repository/award"
	"github.com/kailas-cloud/vocabdex/internal/repository/awardindex"
	funderrepo "github.com/kailas-cloud/vocabdex/internal/repository/funder"
	awarduc "github.com/kailas-cloud/vocabdex/internal/usecase/award"
	funderuc "github.com/kailas-cloud/vocabdex/internal/usecase/funder"
	healthuc "github.com/kailas-cloud/vocabdex/internal/usecase/health"
)

// app is the composition root shared by all subcommands.
type app struct {
	cfg     config.Config
	env     string
	logger  *zap.Logger
	awards  *awarduc.Service
	funders *funderuc.Service
	health  *healthuc.Service
	tokens  *auth.TokenService
	sqlDB   *sql.DB
	closers []func()
}

// record store dependencies
type recordStores struct {
	awards  awarduc.Repository
	funders interface {
		awarduc.FunderReader
		funderuc.Repository
	}
	pinger healthuc.Pinger
}

// newApp loads configuration and logging. Connections are opened by wire.
func newApp(flags *globalFlags) (*app, error) {
	cfg, err := flags.load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logger, err := logpkg.NewLogger(flags.env, level)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, env: flags.env, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })
	return a, nil
}

// wire opens the record store and index and builds the services.
func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg
	stores, err := a.openRecordStore(ctx)
	if err != nil {
		return err
	}
	index, err := a.openIndex(ctx)
	if err != nil {
		return err
	}

	metrics.RegisterIndexMetrics()
	instrumented := awarduc.NewInstrumentedIndex(index, a.logger)

	a.awards = awarduc.New(stores.awards, stores.funders, instrumented).
		WithPagination(cfg.Index.MaxPageSize).
		WithReindex(cfg.Index.ReindexWorkers, cfg.Index.ReindexBatchSize)
	a.funders = funderuc.New(stores.funders)
	a.health = healthuc.New(stores.pinger, instrumented)

	if cfg.Auth.SigningKey != "" {
		return a.initTokens()
	}
	return nil
}

func (a *app) initTokens() error {
	if a.cfg.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is not configured")
	}
	tokens, err := auth.NewTokenService(a.cfg.Auth.SigningKey, a.cfg.Auth.Issuer, a.cfg.Auth.Audience)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	a.tokens = tokens
	return nil
}

func (a *app) openRecordStore(ctx context.Context) (recordStores, error) {
	switch a.cfg.Database.Driver {
	case config.DriverMemory:
		a.logger.Warn("Using in-memory record store; data is lost on exit")
		awards := awardrepo.NewInMemory()
		return recordStores{awards: awards, funders: funderrepo.NewInMemory(), pinger: awards}, nil
	case config.DriverPostgres:
		sqlDB, err := a.openPostgres(ctx)
		if err != nil {
			return recordStores{}, err
		}
		awards := awardrepo.NewPostgres(sqlDB)
		return recordStores{awards: awards, funders: funderrepo.NewPostgres(sqlDB), pinger: awards}, nil
	default:
		return recordStores{}, fmt.Errorf("unknown database driver %q", a.cfg.Database.Driver)
	}
}

func (a *app) openPostgres(ctx context.Context) (*sql.DB, error) {
	if a.sqlDB != nil {
		return a.sqlDB, nil
	}
	dbCfg := a.cfg.Database
	sqlDB, err := postgres.Open(postgres.Config{
		DSN:             dbCfg.DSN,
		MaxOpenConns:    dbCfg.MaxOpenConns,
		MaxIdleConns:    dbCfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(dbCfg.ConnMaxLifetimeSec) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	a.closers = append(a.closers, func() { _ = sqlDB.Close() })

	if err := postgres.WaitForReady(ctx, sqlDB, time.Duration(dbCfg.ReadinessTimeout)*time.Second); err != nil {
		return nil, fmt.Errorf("postgres not ready: %w", err)
	}
	a.logger.Info("Connected to record store")
	a.sqlDB = sqlDB
	return sqlDB, nil
}

// migrate applies pending schema migrations on the configured Postgres.
func (a *app) migrate(ctx context.Context) ([]string, error) {
	if a.cfg.Database.Driver != config.DriverPostgres {
		return nil, nil
	}
	sqlDB, err := a.openPostgres(ctx)
	if err != nil {
		return nil, err
	}
	applied, err := postgres.Migrate(ctx, sqlDB)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	for _, name := range applied {
		a.logger.Info("Applied migration", zap.String("name", name))
	}
	return applied, nil
}

func (a *app) openIndex(ctx context.Context) (awarduc.Index, error) {
	idxCfg := a.cfg.Index
	switch idxCfg.Driver {
	case config.DriverMemory:
		a.logger.Warn("Using in-memory search index")
		return awardindex.NewInMemory(), nil
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    idxCfg.Addrs,
			Password: idxCfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create index store: %w", err)
		}
		a.closers = append(a.closers, store.Close)

		if err := store.WaitForReady(ctx, time.Duration(idxCfg.ReadinessTimeout)*time.Second); err != nil {
			return nil, fmt.Errorf("index store not ready: %w", err)
		}
		a.logger.Info("Connected to search index", zap.Strings("addrs", idxCfg.Addrs))
		return awardindex.NewRedis(store, idxCfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown index driver %q", idxCfg.Driver)
	}
}

// Close releases connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
