package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Security   SecurityConfig   `mapstructure:"security"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Database   DatabaseConfig   `mapstructure:"database"`
	CloudWatch CloudWatchConfig `mapstructure:"cloudwatch"`
	S3         S3Config         `mapstructure:"s3"`
	Dynamo     DynamoConfig     `mapstructure:"dynamo"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SecurityConfig struct {
	AllowedOriginsCSV string   `mapstructure:"allowed_origins"`
	AllowedOrigins    []string `mapstructure:"-"`
	AuthEnabled       bool     `mapstructure:"auth_enabled"`
	AuthToken         string   `mapstructure:"auth_token"`
}

// LoggerConfig настройки zap логгера
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// DashboardConfig параметры оболочки дашборда и генератора истории расходов
type DashboardConfig struct {
	InitialSection        string        `mapstructure:"initial_section"`
	Breakpoint            int           `mapstructure:"breakpoint"`
	ShowSidebar           bool          `mapstructure:"show_sidebar"`
	ClassName             string        `mapstructure:"class_name"`
	CostHistorySamples    int           `mapstructure:"cost_history_samples"`
	CostHistoryMaxSamples int           `mapstructure:"cost_history_max_samples"`
	CostHistoryBase       float64       `mapstructure:"cost_history_base"`
	CostHistorySpacing    time.Duration `mapstructure:"cost_history_spacing"`
	ScorePublishInterval  time.Duration `mapstructure:"score_publish_interval"`
	LiveEventInterval     time.Duration `mapstructure:"live_event_interval"`
}

// ThresholdsConfig пороги классификации по местам вызова
type ThresholdsConfig struct {
	ESGItemLow     float64 `mapstructure:"esg_item_low"`
	ESGItemHigh    float64 `mapstructure:"esg_item_high"`
	RAIVerdictLow  float64 `mapstructure:"rai_verdict_low"`
	RAIVerdictHigh float64 `mapstructure:"rai_verdict_high"`
	GradeA         float64 `mapstructure:"grade_a"`
	GradeBPlus     float64 `mapstructure:"grade_b_plus"`
	GradeB         float64 `mapstructure:"grade_b"`
	GradeC         float64 `mapstructure:"grade_c"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	TTL          time.Duration `mapstructure:"ttl"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
	Stream  string `mapstructure:"stream"`
	// Настройки Circuit Breaker для публикации
	BreakerMaxRequests uint32        `mapstructure:"breaker_max_requests"`
	BreakerInterval    time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
	BreakerFailures    uint32        `mapstructure:"breaker_failures"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"name"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type CloudWatchConfig struct {
	MetricsEnabled    bool              `mapstructure:"metrics_enabled"`
	LogsEnabled       bool              `mapstructure:"logs_enabled"`
	Namespace         string            `mapstructure:"namespace"`
	Region            string            `mapstructure:"region"`
	Endpoint          string            `mapstructure:"endpoint"`
	AccessKeyID       string            `mapstructure:"access_key_id"`
	SecretAccessKey   string            `mapstructure:"secret_access_key"`
	DimensionsCSV     string            `mapstructure:"dimensions"`
	Dimensions        map[string]string `mapstructure:"-"`
	BufferSize        int               `mapstructure:"buffer_size"`
	FlushInterval     time.Duration     `mapstructure:"flush_interval"`
	StorageResolution int32             `mapstructure:"storage_resolution"`
	LogGroup          string            `mapstructure:"log_group"`
	LogStream         string            `mapstructure:"log_stream"`
	LogsBufferSize    int               `mapstructure:"logs_buffer_size"`
	LogsFlushInterval time.Duration     `mapstructure:"logs_flush_interval"`
	LogsAutoCreate    bool              `mapstructure:"logs_auto_create"`
}

type S3Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	Bucket          string        `mapstructure:"bucket"`
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UsePathStyle    bool          `mapstructure:"use_path_style"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	URLMode         string        `mapstructure:"url_mode"`
	PresignedTTL    time.Duration `mapstructure:"presigned_ttl"`
}

type DynamoConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Table           string        `mapstructure:"table"`
	Region          string        `mapstructure:"region"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	TTL             time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type SnapshotConfig struct {
	DefaultLimit   int           `mapstructure:"default_limit"`
	MaxLimit       int           `mapstructure:"max_limit"`
	FallbackToS3   bool          `mapstructure:"fallback_to_s3"`
	UploadAttempts uint          `mapstructure:"upload_attempts"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
}

// Load собирает конфигурацию из .env, YAML файла, переменных окружения и значений по умолчанию.
// Путь к файлу можно задать через RAI_CONFIG_FILE, иначе ищется ./config.yaml.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()
	if path := os.Getenv("RAI_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Security.AllowedOrigins = splitCSV(cfg.Security.AllowedOriginsCSV)

	dimensions, err := parseDimensions(cfg.CloudWatch.DimensionsCSV)
	if err != nil {
		return nil, fmt.Errorf("invalid cloudwatch.dimensions: %w", err)
	}
	cfg.CloudWatch.Dimensions = dimensions

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Security.AuthEnabled && c.Security.AuthToken == "" {
		return errors.New("security.auth_token is required when security.auth_enabled=true")
	}
	if c.Dashboard.Breakpoint <= 0 {
		return fmt.Errorf("dashboard.breakpoint must be positive, got %d", c.Dashboard.Breakpoint)
	}
	if c.Dashboard.CostHistorySamples < 1 {
		return fmt.Errorf("dashboard.cost_history_samples must be at least 1, got %d", c.Dashboard.CostHistorySamples)
	}
	if c.Dashboard.CostHistoryMaxSamples < c.Dashboard.CostHistorySamples {
		return errors.New("dashboard.cost_history_max_samples must not be less than cost_history_samples")
	}
	if c.Dashboard.ScorePublishInterval <= 0 {
		return errors.New("dashboard.score_publish_interval must be positive")
	}
	if c.Dashboard.LiveEventInterval <= 0 {
		return errors.New("dashboard.live_event_interval must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("security.allowed_origins", "http://localhost:8080,http://127.0.0.1:8080")
	v.SetDefault("security.auth_enabled", false)
	v.SetDefault("security.auth_token", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("dashboard.initial_section", "overview")
	v.SetDefault("dashboard.breakpoint", 1024)
	v.SetDefault("dashboard.show_sidebar", true)
	v.SetDefault("dashboard.class_name", "")
	v.SetDefault("dashboard.cost_history_samples", 20)
	v.SetDefault("dashboard.cost_history_max_samples", 500)
	v.SetDefault("dashboard.cost_history_base", 0.022)
	v.SetDefault("dashboard.cost_history_spacing", 3*time.Minute)
	v.SetDefault("dashboard.score_publish_interval", time.Minute)
	v.SetDefault("dashboard.live_event_interval", 3*time.Second)

	v.SetDefault("thresholds.esg_item_low", 70.0)
	v.SetDefault("thresholds.esg_item_high", 85.0)
	v.SetDefault("thresholds.rai_verdict_low", 65.0)
	v.SetDefault("thresholds.rai_verdict_high", 80.0)
	v.SetDefault("thresholds.grade_a", 90.0)
	v.SetDefault("thresholds.grade_b_plus", 80.0)
	v.SetDefault("thresholds.grade_b", 70.0)
	v.SetDefault("thresholds.grade_c", 60.0)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 30*time.Second)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "rai.navigation.section_changed")
	v.SetDefault("nats.stream", "RAI_NAVIGATION")
	v.SetDefault("nats.breaker_max_requests", 1)
	v.SetDefault("nats.breaker_interval", time.Minute)
	v.SetDefault("nats.breaker_timeout", 30*time.Second)
	v.SetDefault("nats.breaker_failures", 5)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "rai_dashboard")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 10*time.Minute)

	v.SetDefault("cloudwatch.metrics_enabled", false)
	v.SetDefault("cloudwatch.logs_enabled", false)
	v.SetDefault("cloudwatch.namespace", "RAIDashboard")
	v.SetDefault("cloudwatch.region", "us-east-1")
	v.SetDefault("cloudwatch.endpoint", "")
	v.SetDefault("cloudwatch.access_key_id", "")
	v.SetDefault("cloudwatch.secret_access_key", "")
	v.SetDefault("cloudwatch.dimensions", "service=rai-dashboard")
	v.SetDefault("cloudwatch.buffer_size", 100)
	v.SetDefault("cloudwatch.flush_interval", 10*time.Second)
	v.SetDefault("cloudwatch.storage_resolution", 60)
	v.SetDefault("cloudwatch.log_group", "/rai-dashboard/api")
	v.SetDefault("cloudwatch.log_stream", "")
	v.SetDefault("cloudwatch.logs_buffer_size", 50)
	v.SetDefault("cloudwatch.logs_flush_interval", 5*time.Second)
	v.SetDefault("cloudwatch.logs_auto_create", true)

	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.use_path_style", true)
	v.SetDefault("s3.key_prefix", "rai-snapshots")
	v.SetDefault("s3.url_mode", "presigned")
	v.SetDefault("s3.presigned_ttl", 5*time.Minute)

	v.SetDefault("dynamo.enabled", false)
	v.SetDefault("dynamo.table", "rai_dashboard_snapshots")
	v.SetDefault("dynamo.region", "us-east-1")
	v.SetDefault("dynamo.endpoint", "")
	v.SetDefault("dynamo.access_key_id", "")
	v.SetDefault("dynamo.secret_access_key", "")
	v.SetDefault("dynamo.ttl", 30*24*time.Hour)

	v.SetDefault("rate_limit.requests_per_second", 5.0)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("snapshot.default_limit", 24)
	v.SetDefault("snapshot.max_limit", 100)
	v.SetDefault("snapshot.fallback_to_s3", true)
	v.SetDefault("snapshot.upload_attempts", 3)
	v.SetDefault("snapshot.retry_delay", 200*time.Millisecond)
}

// bindLegacyEnv сохраняет поддержку старых имен переменных окружения
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("security.allowed_origins", "SECURITY_ALLOWED_ORIGINS", "ALLOWED_ORIGINS")
	_ = v.BindEnv("security.auth_enabled", "SECURITY_AUTH_ENABLED", "AUTH_ENABLED")
	_ = v.BindEnv("security.auth_token", "SECURITY_AUTH_TOKEN", "AUTH_BEARER_TOKEN")
	_ = v.BindEnv("logger.level", "LOGGER_LEVEL", "LOG_LEVEL")
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseDimensions разбирает "key=value,key2=value2"
func parseDimensions(raw string) (map[string]string, error) {
	dimensions := make(map[string]string)
	for _, pair := range splitCSV(raw) {
		key, value, ok := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("malformed dimension %q", pair)
		}
		dimensions[key] = value
	}
	return dimensions, nil
}
