package commands

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/notify"
	"github.com/spf13/viper"
)

// Config is the vaultd configuration. Paths that are not absolute are
// relative to Home.
type Config struct {
	Home     string `mapstructure:"home"`
	LogLevel string `mapstructure:"log_level"`

	// DB is the path of the ledger database. An empty value keeps the
	// ledger in memory.
	DB      string `mapstructure:"db"`
	Genesis string `mapstructure:"genesis"`
	HTTP    string `mapstructure:"http"`

	Redis RedisConfig `mapstructure:"redis"`

	// Node is the API address used by the client commands.
	Node string `mapstructure:"node"`
	// Key is the private key file used to sign transactions.
	Key string `mapstructure:"key"`
}

// RedisConfig enables publishing committed events to a Redis stream when
// Addr is set.
type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	Stream string `mapstructure:"stream"`
	MaxLen int64  `mapstructure:"max_len"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("home", defaultHome())
	v.SetDefault("log_level", "info")
	v.SetDefault("db", "data/vault.db")
	v.SetDefault("genesis", "genesis.json")
	v.SetDefault("http", "localhost:8080")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.stream", notify.DefaultStream)
	v.SetDefault("redis.max_len", 10000)
	v.SetDefault("node", "http://localhost:8080")
	v.SetDefault("key", "key.priv")
}

// loadConfig reads the configuration file, if any, and applies the
// environment overrides.
func loadConfig(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("VAULTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(v.GetString("home"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, errors.Wrapf(errors.ErrInput, "read config: %s", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return Config{}, errors.Wrapf(errors.ErrInput, "decode config: %s", err)
	}
	conf.DB = conf.path(conf.DB)
	conf.Genesis = conf.path(conf.Genesis)
	conf.Key = conf.path(conf.Key)
	return conf, nil
}

func (c Config) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Home, p)
}
