package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Debug     DebugConfig
	Admin     AdminConfig
	Reminders RemindersConfig
}

type ServerConfig struct {
	Addr string
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	PreviewPattern string   `mapstructure:"preview_pattern"`
}

type LogConfig struct {
	Level string
}

type DebugConfig struct {
	Requests bool
}

// AdminConfig describes the account created on first start when no admin exists.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

type RemindersConfig struct {
	Interval time.Duration
}

// Load reads .env (if present), an optional config file and the environment.
// Env var overrides use prefix CLUB_, e.g. CLUB_DATABASE_DSN.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=user password=password dbname=club_db port=5432 sslmode=disable")
	v.SetDefault("jwt.access_secret", "")
	v.SetDefault("jwt.refresh_secret", "")
	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("cors.preview_pattern", `^https://[a-z0-9-]+\.vercel\.app$`)
	v.SetDefault("log.level", "info")
	v.SetDefault("debug.requests", false)
	v.SetDefault("admin.name", "Administrator")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("reminders.interval", time.Hour)

	v.SetConfigType("yaml")
	if path := os.Getenv("CLUB_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CLUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("jwt.access_secret and jwt.refresh_secret must be set")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("jwt.access_secret and jwt.refresh_secret must differ")
	}
	if c.CORS.PreviewPattern != "" {
		if _, err := regexp.Compile(c.CORS.PreviewPattern); err != nil {
			return fmt.Errorf("cors.preview_pattern: %w", err)
		}
	}
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}

// OriginMatcher returns the CORS origin check: exact allow-list entries first,
// then the preview deployment pattern.
func (c CORSConfig) OriginMatcher() func(origin string) bool {
	allowed := make(map[string]struct{}, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	var preview *regexp.Regexp
	if c.PreviewPattern != "" {
		preview = regexp.MustCompile(c.PreviewPattern)
	}
	return func(origin string) bool {
		if _, ok := allowed[origin]; ok {
			return true
		}
		return preview != nil && preview.MatchString(origin)
	}
}
