package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug       bool   `mapstructure:"debug"`
	Environment string `mapstructure:"environment"` // reported to sentry and attached to every log line
	SentryDSN   string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// EthereumConfig holds the ledger configuration
type EthereumConfig struct {
	RPCURL          string        `mapstructure:"rpc_url"`
	ChainID         int64         `mapstructure:"chain_id"`
	ContractAddress string        `mapstructure:"contract_address"`
	ConfirmTimeout  time.Duration `mapstructure:"confirm_timeout"` // Maximum wait for finality before reporting pending
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	Confirmations   uint64        `mapstructure:"confirmations"` // Blocks on top of the receipt block required for finality
	ScanLimit       int           `mapstructure:"scan_limit"`    // Maximum records read by a ledger enumeration
}

// ContentConfig holds content-addressed store configuration
type ContentConfig struct {
	Backend         string        `mapstructure:"backend"` // "ipfs" or "s3"
	MaxAttempts     uint64        `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	AttemptTimeout  time.Duration `mapstructure:"attempt_timeout"`
	MaxSize         int           `mapstructure:"max_size"` // Maximum banner size in bytes
}

// IPFSConfig holds IPFS node configuration
type IPFSConfig struct {
	APIURL      string        `mapstructure:"api_url"`
	Gateways    []string      `mapstructure:"gateways"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// S3Config holds S3 configuration
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"` // Optional custom endpoint (MinIO, LocalStack)
	Prefix   string `mapstructure:"prefix"`
}

// RedisConfig holds Redis configuration for shared health state
type RedisConfig struct {
	URL    string        `mapstructure:"url"`
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// HealthConfig holds health monitor thresholds
type HealthConfig struct {
	DegradedAfter int           `mapstructure:"degraded_after"` // Consecutive failures before healthy -> degraded
	DownAfter     int           `mapstructure:"down_after"`     // Further consecutive failures before degraded -> down
	RecoverAfter  int           `mapstructure:"recover_after"`  // Consecutive successes before returning to healthy
	LatencyWindow int           `mapstructure:"latency_window"` // Samples kept for rolling latency
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
}

// OrchestratorConfig holds event orchestration settings
type OrchestratorConfig struct {
	MinCapacity     int           `mapstructure:"min_capacity"`
	MaxCapacity     int           `mapstructure:"max_capacity"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"` // Relational read timeout before falling back to the ledger
	FallbackOnEmpty bool          `mapstructure:"fallback_on_empty"`
	MetadataWorkers int           `mapstructure:"metadata_workers"`
	MetadataTimeout time.Duration `mapstructure:"metadata_timeout"` // Metadata merge budget of a ledger fallback read
}

// ConsistencyConfig holds consistency check and data sync settings
type ConsistencyConfig struct {
	BatchSize      int               `mapstructure:"batch_size"`
	MaxRows        int               `mapstructure:"max_rows"` // Rows compared by one check run
	WorkerPoolSize int               `mapstructure:"worker_pool_size"`
	CheckSchedule  string            `mapstructure:"check_schedule"` // cron expression
	SyncSchedule   string            `mapstructure:"sync_schedule"`  // cron expression, empty disables scheduled sync
	JobTimeout     time.Duration     `mapstructure:"job_timeout"`
	FieldPolicy    map[string]string `mapstructure:"field_policy"` // field -> "ledger" | "database"
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds

	AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS origins, empty allows all
	MaxBodySize    int64    `mapstructure:"max_body_size"`   // bytes, base64 banners included
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// StorageConfig groups the configuration of the three storage layers
type StorageConfig struct {
	Database DatabaseConfig `mapstructure:"database"`
	Ethereum EthereumConfig `mapstructure:"ethereum"`
	Content  ContentConfig  `mapstructure:"content"`
	IPFS     IPFSConfig     `mapstructure:"ipfs"`
	S3       S3Config       `mapstructure:"s3"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig    `mapstructure:",squash"`
	StorageConfig `mapstructure:",squash"`
	Redis         RedisConfig        `mapstructure:"redis"`
	NATS          NATSConfig         `mapstructure:"nats"`
	Health        HealthConfig       `mapstructure:"health"`
	Orchestrator  OrchestratorConfig `mapstructure:"orchestrator"`
	Consistency   ConsistencyConfig  `mapstructure:"consistency"`
	Server        ServerConfig       `mapstructure:"server"`
	Auth          AuthConfig         `mapstructure:"auth"`
}

// ReconcilerConfig holds configuration for the reconciler
type ReconcilerConfig struct {
	BaseConfig    `mapstructure:",squash"`
	StorageConfig `mapstructure:",squash"`
	Redis         RedisConfig       `mapstructure:"redis"`
	NATS          NATSConfig        `mapstructure:"nats"`
	Health        HealthConfig      `mapstructure:"health"`
	Consistency   ConsistencyConfig `mapstructure:"consistency"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	setStorageDefaults(v)
	setMonitoringDefaults(v)
	v.SetDefault("orchestrator.min_capacity", 1)
	v.SetDefault("orchestrator.max_capacity", 100000)
	v.SetDefault("orchestrator.read_timeout", "2s")
	v.SetDefault("orchestrator.fallback_on_empty", true)
	v.SetDefault("orchestrator.metadata_workers", 8)
	v.SetDefault("orchestrator.metadata_timeout", "3s")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 150)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.max_body_size", 16*1024*1024)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadReconcilerConfig loads configuration for the reconciler
func LoadReconcilerConfig(configFile string, envPath string) (*ReconcilerConfig, error) {
	v := configureViper("reconciler", configFile, envPath)

	setStorageDefaults(v)
	setMonitoringDefaults(v)
	v.SetDefault("consistency.check_schedule", "*/15 * * * *")
	v.SetDefault("consistency.sync_schedule", "")
	v.SetDefault("consistency.job_timeout", "10m")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config ReconcilerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setStorageDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("ethereum.chain_id", 1)
	v.SetDefault("ethereum.confirm_timeout", "2m")
	v.SetDefault("ethereum.poll_interval", "3s")
	v.SetDefault("ethereum.confirmations", 1)
	v.SetDefault("ethereum.scan_limit", 500)
	v.SetDefault("content.backend", "ipfs")
	v.SetDefault("content.max_attempts", 3)
	v.SetDefault("content.initial_interval", "500ms")
	v.SetDefault("content.max_interval", "2s")
	v.SetDefault("content.attempt_timeout", "10s")
	v.SetDefault("content.max_size", 10*1024*1024)
	v.SetDefault("ipfs.api_url", "http://localhost:5001")
	v.SetDefault("ipfs.gateways", []string{"https://ipfs.io"})
	v.SetDefault("ipfs.http_timeout", "30s")
	v.SetDefault("s3.region", "us-east-1")
}

func setMonitoringDefaults(v *viper.Viper) {
	v.SetDefault("redis.prefix", "ff-events:health")
	v.SetDefault("redis.ttl", "1h")
	v.SetDefault("nats.stream_name", "EVENT_CONSISTENCY")
	v.SetDefault("nats.subject_prefix", "consistency")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("health.degraded_after", 3)
	v.SetDefault("health.down_after", 3)
	v.SetDefault("health.recover_after", 3)
	v.SetDefault("health.latency_window", 20)
	v.SetDefault("health.probe_interval", "30s")
	v.SetDefault("health.probe_timeout", "5s")
	v.SetDefault("consistency.batch_size", 100)
	v.SetDefault("consistency.max_rows", 2000)
	v.SetDefault("consistency.worker_pool_size", 8)
}

// readConfig reads the config file, tolerating a missing one so env vars alone are enough
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper creates a viper instance for a service
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	loadEnv(envPath, service)

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Environment variables: FF_EVENTS_DATABASE_HOST -> database.host
	v.SetEnvPrefix("FF_EVENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"environment",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.contract_address",
		"ethereum.confirm_timeout",
		"ethereum.poll_interval",
		"ethereum.confirmations",
		"ethereum.scan_limit",
		// Content
		"content.backend",
		"content.max_attempts",
		"content.initial_interval",
		"content.max_interval",
		"content.attempt_timeout",
		"content.max_size",
		"ipfs.api_url",
		"ipfs.gateways",
		"ipfs.http_timeout",
		"s3.bucket",
		"s3.region",
		"s3.endpoint",
		"s3.prefix",
		// Redis
		"redis.url",
		"redis.prefix",
		"redis.ttl",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Health
		"health.degraded_after",
		"health.down_after",
		"health.recover_after",
		"health.latency_window",
		"health.probe_interval",
		"health.probe_timeout",
		// Orchestrator
		"orchestrator.min_capacity",
		"orchestrator.max_capacity",
		"orchestrator.read_timeout",
		"orchestrator.fallback_on_empty",
		"orchestrator.metadata_workers",
		"orchestrator.metadata_timeout",
		// Consistency
		"consistency.batch_size",
		"consistency.max_rows",
		"consistency.worker_pool_size",
		"consistency.check_schedule",
		"consistency.sync_schedule",
		"consistency.job_timeout",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		"server.max_body_size",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
