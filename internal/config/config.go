package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Client    ClientConfig    `mapstructure:"client"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Source    SourceConfig    `mapstructure:"source"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Server    ServerConfig    `mapstructure:"server"`
}

// ---- Leaf structs ----

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // json | console
}

type HTTPConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout"`
}

// ClientConfig is the fixed identification sent with every upstream call.
type ClientConfig struct {
	UserAgent    string `mapstructure:"user_agent"`
	ServerSelect string `mapstructure:"server_select"`
	DeviceName   string `mapstructure:"device_name"`
	Version      string `mapstructure:"version"`
}

type EndpointsConfig struct {
	Accounts     string `mapstructure:"accounts"`
	Phones       string `mapstructure:"phones"`
	PhoneRefresh string `mapstructure:"phone_refresh"`
	MyTMBase     string `mapstructure:"mytm_base"`
}

type DashboardConfig struct {
	IsFirstTime    string `mapstructure:"is_first_time"`
	IsFirstInstall string `mapstructure:"is_first_install"`
}

type PipelineConfig struct {
	Concurrency   int  `mapstructure:"concurrency"` // 0 = unbounded
	SkipDashboard bool `mapstructure:"skip_dashboard"`
	SkipPhones    bool `mapstructure:"skip_phones"`
}

type SourceConfig struct {
	FallbackToSnapshot bool `mapstructure:"fallback_to_snapshot"`
}

type SnapshotConfig struct {
	Backend  string        `mapstructure:"backend"` // file | redis | memory
	Path     string        `mapstructure:"path"`
	RedisKey string        `mapstructure:"redis_key"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

type ServerConfig struct {
	Addr     string        `mapstructure:"addr"`
	APIKey   string        `mapstructure:"api_key"`
	Interval time.Duration `mapstructure:"interval"` // 0 = trigger only
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (CLAIMER_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (CLAIMER_*), e.g. CLAIMER_KAFKA_ENABLED=true
	v.SetEnvPrefix("CLAIMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings every command depends on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoints.Accounts) == "" {
		return fmt.Errorf("endpoints.accounts is empty")
	}
	if strings.TrimSpace(c.Endpoints.MyTMBase) == "" {
		return fmt.Errorf("endpoints.mytm_base is empty")
	}
	if c.Client.Version == "" {
		return fmt.Errorf("client.version is empty")
	}

	switch c.Snapshot.Backend {
	case "file":
		if c.Snapshot.Path == "" {
			return fmt.Errorf("snapshot.path is empty")
		}
	case "redis":
		if c.Redis.Addr == "" || c.Snapshot.RedisKey == "" {
			return fmt.Errorf("snapshot backend redis needs redis.addr and snapshot.redis_key")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.Snapshot.Backend)
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("kafka enabled but brokers/topic missing")
	}
	if c.Pipeline.Concurrency < 0 {
		return fmt.Errorf("invalid pipeline.concurrency=%d", c.Pipeline.Concurrency)
	}
	return nil
}
