package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Queue    *queueConfig
	Push     *pushConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"repvision"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address            string        `envconfig:"REPVISION_ADDRESS" default:":8080"`
	MetricsAddress     string        `envconfig:"REPVISION_METRICS_ADDRESS" default:":8081"`
	LogLevel           string        `envconfig:"REPVISION_LOG_LEVEL" default:"info"`
	MigrationFolder    string        `envconfig:"REPVISION_MIGRATIONS_FOLDER" default:""`
	DispatchTimeout    time.Duration `envconfig:"REPVISION_DISPATCH_TIMEOUT" default:"10m"`
	StaleSweepInterval time.Duration `envconfig:"REPVISION_STALE_SWEEP_INTERVAL" default:"1m"`
	Auth               Auth
}

type queueConfig struct {
	Brokers      []string      `envconfig:"REPVISION_QUEUE_BROKERS" default:""`
	Topic        string        `envconfig:"REPVISION_QUEUE_TOPIC" default:"video_analysis_queue"`
	ClientID     string        `envconfig:"REPVISION_QUEUE_CLIENT_ID" default:"repvision-api"`
	WriteTimeout time.Duration `envconfig:"REPVISION_QUEUE_WRITE_TIMEOUT" default:"10s"`
}

type pushConfig struct {
	Endpoint string        `envconfig:"REPVISION_PUSH_ENDPOINT" default:"https://api.expo.dev/v2/push/send"`
	Timeout  time.Duration `envconfig:"REPVISION_PUSH_TIMEOUT" default:"10s"`
}

type Auth struct {
	AuthenticationType string        `envconfig:"REPVISION_AUTH" default:""`
	JwkCertURL         string        `envconfig:"REPVISION_JWK_URL" default:""`
	JwtSecret          string        `envconfig:"REPVISION_JWT_SECRET" default:""`
	JwtExpiration      time.Duration `envconfig:"REPVISION_JWT_EXPIRATION" default:"24h"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config suitable for tests: an in-memory sqlite store,
// no broker and no push provider.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: ":memory:",
		},
		Service: &svcConfig{
			LogLevel:           "info",
			DispatchTimeout:    10 * time.Minute,
			StaleSweepInterval: time.Minute,
			Auth:               Auth{AuthenticationType: "none", JwtSecret: "test-secret", JwtExpiration: 24 * time.Hour},
		},
		Queue: &queueConfig{
			Topic:        "video_analysis_queue",
			WriteTimeout: 10 * time.Second,
		},
		Push: &pushConfig{
			Timeout: 10 * time.Second,
		},
	}
}
