package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/de-tools/lab-costing/pkg/models/domain"
)

const envPrefix = "LABCOST"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Costing  CostingConfig  `mapstructure:"costing"`
	Export   ExportConfig   `mapstructure:"export"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DatabaseConfig selects the PostgreSQL connection either by DSN or by a
// profile of the profiles file. The DSN wins when both are set.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	Profile         string        `mapstructure:"profile"`
	ProfilesFile    string        `mapstructure:"profiles_file"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CostingConfig struct {
	AllocationMode    string `mapstructure:"allocation_mode"`
	PlaceholderTotals bool   `mapstructure:"placeholder_totals"`
}

func (c CostingConfig) Mode() domain.AllocationMode {
	return domain.AllocationMode(c.AllocationMode)
}

type ExportConfig struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.profile", "")
	v.SetDefault("database.profiles_file", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.connect_timeout", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("costing.allocation_mode", string(domain.AllocationFlat))
	v.SetDefault("costing.placeholder_totals", false)

	v.SetDefault("export.bucket", "")
	v.SetDefault("export.prefix", "dashboards")
	v.SetDefault("export.region", "us-east-1")
	v.SetDefault("export.endpoint", "")
	v.SetDefault("export.access_key_id", "")
	v.SetDefault("export.secret_access_key", "")
	v.SetDefault("export.use_path_style", false)
}

// Load reads the YAML file at path, when given, and applies LABCOST_*
// environment overrides, e.g. LABCOST_COSTING_ALLOCATION_MODE.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !c.Costing.Mode().Valid() {
		return fmt.Errorf("invalid costing.allocation_mode %q: expected %q or %q",
			c.Costing.AllocationMode, domain.AllocationFlat, domain.AllocationProportional)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log.format %q: expected json or console", c.Log.Format)
	}
	return nil
}
