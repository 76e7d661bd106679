package vocabdex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn string

	memoryStore bool
	memoryIndex bool

	redisAddrs    []string
	redisPassword string
	keyPrefix     string
	migrate       bool

	maxPageSize    int
	reindexWorkers int
	reindexBatch   int

	actor *actor

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type actor struct {
	subject string
	roles   []string
	scopes  []string
}

// WithPostgres stores records in the PostgreSQL database at dsn.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
		c.memoryStore = false
	})
}

// WithMigrations applies pending schema migrations when the client connects.
func WithMigrations() Option {
	return optionFunc(func(c *clientConfig) {
		c.migrate = true
	})
}

// WithRedis mirrors records into the Redis Search index at addr.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
		c.memoryIndex = false
	})
}

// WithKeyPrefix namespaces index keys. Default: "vocabdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithInMemory keeps records and the index in process memory.
// Intended for tests and tooling.
func WithInMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.memoryStore = true
		c.memoryIndex = true
	})
}

// WithMaxPageSize caps the search page size. Default: 100.
func WithMaxPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPageSize = n
	})
}

// WithReindex sets reindex concurrency and batch size. Defaults: 4, 500.
func WithReindex(workers, batchSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.reindexWorkers = workers
		c.reindexBatch = batchSize
	})
}

// WithActor performs every operation as the given caller instead of the
// system identity, so permission and pid scope rules apply.
func WithActor(subject string, roles, pidScopes []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.actor = &actor{subject: subject, roles: roles, scopes: pidScopes}
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
