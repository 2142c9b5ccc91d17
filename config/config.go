package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"gointervals/store"
)

const envPrefix = "GOINTERVALS"

type Config struct {
	Listen string
	Log    Log
	MySQL  MySQL
	Redis  Redis
}

type Log struct {
	// zerolog level name, e.g. debug, info, warn
	Level string
	// plain console output instead of JSON
	Console bool
}

type MySQL struct {
	User     string
	Password string
	Addr     string
	Database string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func (m MySQL) Store() store.MySQLConfig {
	return store.MySQLConfig{
		User:     m.User,
		Password: m.Password,
		Addr:     m.Addr,
		Database: m.Database,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "localhost:7890")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
	v.SetDefault("mysql.user", "gaux")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.addr", "localhost:3306")
	v.SetDefault("mysql.database", "segment")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Hour)
}

// Load reads file when set, then applies GOINTERVALS_* environment
// overrides, e.g. GOINTERVALS_REDIS_ADDR for redis.addr.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}

	config := new(Config)
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return config, nil
}
