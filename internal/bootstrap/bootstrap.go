// Package bootstrap wires the storage layers, the health monitor and the
// reconciliation side channels from configuration. It is shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/config"
	"github.com/feral-file/ff-events/internal/health"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/messaging"
	"github.com/feral-file/ff-events/internal/providers"
	"github.com/feral-file/ff-events/internal/providers/database"
	"github.com/feral-file/ff-events/internal/providers/ethereum"
	"github.com/feral-file/ff-events/internal/providers/ipfs"
	"github.com/feral-file/ff-events/internal/providers/jetstream"
	s3provider "github.com/feral-file/ff-events/internal/providers/s3"
	"github.com/feral-file/ff-events/internal/store"
	"github.com/feral-file/ff-events/internal/sweeper"
)

const (
	CONTENT_BACKEND_IPFS = "ipfs"
	CONTENT_BACKEND_S3   = "s3"
)

// Options selects the sections a binary needs
type Options struct {
	Storage config.StorageConfig
	Redis   config.RedisConfig
	NATS    config.NATSConfig
	Health  config.HealthConfig
}

// Stack holds the wired providers. Database, Ledger and Content report every call to Monitor.
type Stack struct {
	Clock     adapter.Clock
	Codec     adapter.Codec
	Monitor   health.Monitor
	Database  providers.DatabaseProvider
	Ledger    providers.LedgerProvider
	Content   providers.ContentProvider
	Publisher messaging.Publisher // nil when NATS is not configured

	// raw providers are probed by the health sweeper, which reports on its own
	raw     []providers.Provider
	closers []func()
}

// Open connects every configured layer. Redis and NATS are optional.
func Open(ctx context.Context, opts Options) (*Stack, error) {
	s := &Stack{
		Clock: adapter.NewClock(),
		Codec: adapter.NewCodec(),
	}

	db, err := openDatabase(ctx, opts.Storage.Database)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	databaseProvider := database.NewProvider(store.NewPGStore(db), s.Clock)

	ledgerProvider, err := s.openLedger(ctx, opts.Storage.Ethereum)
	if err != nil {
		s.Close()
		return nil, err
	}

	contentProvider, err := s.openContent(ctx, opts.Storage)
	if err != nil {
		s.Close()
		return nil, err
	}

	stateStore, err := s.openStateStore(ctx, opts.Redis)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Monitor = health.NewMonitor(health.Config{
		DegradedAfter: opts.Health.DegradedAfter,
		DownAfter:     opts.Health.DownAfter,
		RecoverAfter:  opts.Health.RecoverAfter,
		LatencyWindow: opts.Health.LatencyWindow,
	}, stateStore, s.Clock)

	s.raw = []providers.Provider{databaseProvider, ledgerProvider, contentProvider}
	s.Database = health.InstrumentDatabase(databaseProvider, s.Monitor, s.Clock)
	s.Ledger = health.InstrumentLedger(ledgerProvider, s.Monitor, s.Clock)
	s.Content = health.InstrumentContent(contentProvider, s.Monitor, s.Clock)

	if opts.NATS.URL != "" {
		publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            opts.NATS.URL,
			StreamName:     opts.NATS.StreamName,
			SubjectPrefix:  opts.NATS.SubjectPrefix,
			MaxReconnects:  opts.NATS.MaxReconnects,
			ReconnectWait:  opts.NATS.ReconnectWait,
			ConnectionName: opts.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), s.Codec)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		s.Publisher = publisher
		s.closers = append(s.closers, publisher.Close)
	} else {
		logger.WarnCtx(ctx, "NATS not configured, divergence alerts are only logged")
	}

	return s, nil
}

// Reconciler builds the consistency checker over the instrumented providers
func (s *Stack) Reconciler(cfg config.ConsistencyConfig) (health.Reconciler, error) {
	policy, err := health.ParseFieldPolicy(cfg.FieldPolicy)
	if err != nil {
		return nil, err
	}

	return health.NewReconciler(health.ReconcilerConfig{
		BatchSize:      cfg.BatchSize,
		MaxRows:        cfg.MaxRows,
		WorkerPoolSize: cfg.WorkerPoolSize,
		Policy:         policy,
	}, s.Database, s.Ledger, s.Publisher, s.Clock), nil
}

// HealthSweeper builds the periodic provider probe
func (s *Stack) HealthSweeper(cfg config.HealthConfig) sweeper.Sweeper {
	return sweeper.NewProviderHealthSweeper(&sweeper.ProviderHealthSweeperConfig{
		Interval: cfg.ProbeInterval,
		Timeout:  cfg.ProbeTimeout,
	}, s.raw, s.Monitor, s.Clock)
}

// Close releases connections in reverse order
func (s *Stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}

	logger.InfoCtx(ctx, "Connected to database",
		zap.String("host", cfg.Host),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)
	return db, nil
}

func (s *Stack) openLedger(ctx context.Context, cfg config.EthereumConfig) (providers.LedgerProvider, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := adapter.NewEthClientDialer().Dial(dialCtx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ethereum rpc: %w", err)
	}
	s.closers = append(s.closers, client.Close)

	if err := ethereum.VerifyChain(dialCtx, client, cfg.ChainID); err != nil {
		return nil, err
	}

	ledger, err := ethereum.NewClient(ethereum.Config{
		ChainID:         cfg.ChainID,
		ContractAddress: cfg.ContractAddress,
		ConfirmTimeout:  cfg.ConfirmTimeout,
		PollInterval:    cfg.PollInterval,
		Confirmations:   cfg.Confirmations,
		ScanLimit:       cfg.ScanLimit,
	}, client, s.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger client: %w", err)
	}

	logger.InfoCtx(ctx, "Connected to ledger",
		zap.Int64("chain_id", cfg.ChainID),
		zap.String("contract", cfg.ContractAddress))
	return ledger, nil
}

func (s *Stack) openContent(ctx context.Context, cfg config.StorageConfig) (providers.ContentProvider, error) {
	switch cfg.Content.Backend {
	case CONTENT_BACKEND_IPFS, "":
		httpClient := adapter.NewHTTPClient(adapter.HTTPClientConfig{
			Timeout:         cfg.IPFS.HTTPTimeout,
			MaxResponseSize: int64(cfg.Content.MaxSize),
		})
		logger.InfoCtx(ctx, "Using IPFS content store", zap.String("api_url", cfg.IPFS.APIURL))
		return ipfs.NewProvider(ipfs.Config{
			APIURL:   cfg.IPFS.APIURL,
			Gateways: cfg.IPFS.Gateways,
		}, httpClient, s.Clock), nil

	case CONTENT_BACKEND_S3:
		client, err := adapter.NewS3Client(ctx, cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		logger.InfoCtx(ctx, "Using S3 content store", zap.String("bucket", cfg.S3.Bucket))
		return s3provider.NewProvider(s3provider.Config{
			Bucket: cfg.S3.Bucket,
			Prefix: cfg.S3.Prefix,
		}, client, s.Clock), nil
	}

	return nil, fmt.Errorf("unsupported content backend: %s", cfg.Content.Backend)
}

// openStateStore returns nil when Redis is not configured, which keeps the health state in memory
func (s *Stack) openStateStore(ctx context.Context, cfg config.RedisConfig) (health.StateStore, error) {
	if cfg.URL == "" {
		logger.WarnCtx(ctx, "Redis not configured, provider health is tracked per instance")
		return nil, nil
	}

	client, err := adapter.NewRedisClient(cfg.URL)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	s.closers = append(s.closers, func() { _ = client.Close() })

	logger.InfoCtx(ctx, "Connected to Redis")
	return health.NewRedisStateStore(health.RedisConfig{Prefix: cfg.Prefix, TTL: cfg.TTL}, client, s.Codec), nil
}
