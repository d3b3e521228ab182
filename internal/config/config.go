// Package config loads worker settings from .env, an optional config.yaml and the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL  string        `mapstructure:"db_url" validate:"required"`
	RabbitMQURL  string        `mapstructure:"rabbitmq_url" validate:"required"`
	GoogleAPIKey string        `mapstructure:"google_api_key"`
	Workers      int           `mapstructure:"workers" validate:"min=1,max=64"`
	OpsAddr      string        `mapstructure:"ops_addr" validate:"required"`
	Storage      StorageConfig `mapstructure:"storage"`
	Redis        RedisConfig   `mapstructure:"redis"`
	Logging      LoggingConfig `mapstructure:"logging"`
}

type StorageConfig struct {
	Driver        string   `mapstructure:"driver" validate:"oneof=r2 local"`
	LocalDir      string   `mapstructure:"local_dir" validate:"required_if=Driver local"`
	PublicBaseURL string   `mapstructure:"public_base_url"`
	R2            R2Config `mapstructure:"r2"`
}

type R2Config struct {
	AccountID string `mapstructure:"account_id"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// RedisConfig is optional; an empty address disables the cross-process recompute lock.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// envBindings maps config keys to the environment variables the deployment sets.
// The first variable that is set wins.
var envBindings = map[string][]string{
	"db_url":                  {"DB_URL"},
	"rabbitmq_url":            {"RABBITMQ_URL"},
	"google_api_key":          {"GOOGLE_API_KEY"},
	"workers":                 {"WORKERS"},
	"ops_addr":                {"OPS_ADDR"},
	"storage.driver":          {"STORAGE_DRIVER"},
	"storage.local_dir":       {"STORAGE_LOCAL_DIR"},
	"storage.public_base_url": {"PUBLIC_BASE_URL"},
	"storage.r2.account_id":   {"R2_ACCCOUNT_ID", "R2_ACCOUNT_ID"},
	"storage.r2.bucket":       {"R2_BUCKET"},
	"storage.r2.access_key":   {"R2_ACCESS_KEY"},
	"storage.r2.secret_key":   {"R2_SECRET_KEY"},
	"redis.address":           {"REDIS_ADDR"},
	"redis.password":          {"REDIS_PASSWORD"},
	"redis.db":                {"REDIS_DB"},
	"logging.level":           {"LOG_LEVEL"},
	"logging.format":          {"LOG_FORMAT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("workers", 3)
	v.SetDefault("ops_addr", ":9090")
	v.SetDefault("storage.driver", "r2")
	v.SetDefault("storage.local_dir", "./media")
	v.SetDefault("redis.db", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Load reads .env (if present), then config.yaml from the given search paths,
// then the environment.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Storage.Driver != "r2" {
		return nil
	}

	r2 := c.Storage.R2
	var missing []string
	for _, f := range []struct{ env, val string }{
		{"R2_ACCCOUNT_ID", r2.AccountID},
		{"R2_BUCKET", r2.Bucket},
		{"R2_ACCESS_KEY", r2.AccessKey},
		{"R2_SECRET_KEY", r2.SecretKey},
	} {
		if f.val == "" {
			missing = append(missing, f.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("storage driver r2 requires %s", strings.Join(missing, ", "))
	}
	return nil
}
