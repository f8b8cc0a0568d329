package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"storyhub/backend/global"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// insecureDevSecret signs tokens when jwt.secret is empty. Anyone can forge
// tokens with it, so production configs must set their own.
const insecureDevSecret = "dev-secret"

type Server struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DB struct {
	Driver string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
	Path   string
}

type JWT struct {
	Secret string
	Issuer string
	ExpMin int
}

type Admin struct {
	Username string
	Password string
	Email    string
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type Minio struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	Server         Server
	DB             DB
	JWT            JWT
	Admin          Admin
	Redis          Redis
	Minio          Minio
	UploadMaxBytes int64
	AllowedOrigins []string
	Log            Log
}

// Loader keeps the viper instance around so callers can watch the file.
type Loader struct {
	v *viper.Viper
}

func NewLoader(path string) *Loader {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("storyhub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "storyhub")
	v.SetDefault("db.path", "storyhub.db")
	v.SetDefault("jwt.issuer", "storyhub")
	v.SetDefault("jwt.exp_min", 30)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("admin.email", "admin@storyplatform.com")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("storage.minio.enabled", false)
	v.SetDefault("storage.minio.endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.minio.bucket", "stories")
	v.SetDefault("upload.max_bytes", 5<<20)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	return &Loader{v: v}
}

// Load reads the config file. A missing file is not an error: defaults and
// STORYHUB_* environment variables still apply.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return l.build(), nil
}

// Watch calls fn with the re-read config each time the file changes.
func (l *Loader) Watch(fn func(*Config, fsnotify.Event)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		fn(l.build(), e)
	})
	l.v.WatchConfig()
}

func (l *Loader) build() *Config {
	v := l.v
	cfg := &Config{
		Server: Server{
			Host:         v.GetString("server.host"),
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		DB: DB{
			Driver: strings.ToLower(v.GetString("db.driver")),
			Host:   v.GetString("db.host"),
			Port:   v.GetInt("db.port"),
			User:   v.GetString("db.user"),
			Pass:   v.GetString("db.pass"),
			Name:   v.GetString("db.name"),
			Path:   v.GetString("db.path"),
		},
		JWT: JWT{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
			ExpMin: v.GetInt("jwt.exp_min"),
		},
		Admin: Admin{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
			Email:    v.GetString("admin.email"),
		},
		Redis: Redis{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Minio: Minio{
			Enabled:   v.GetBool("storage.minio.enabled"),
			Endpoint:  v.GetString("storage.minio.endpoint"),
			AccessKey: v.GetString("storage.minio.access_key"),
			SecretKey: v.GetString("storage.minio.secret_key"),
			Bucket:    v.GetString("storage.minio.bucket"),
			UseSSL:    v.GetBool("storage.minio.use_ssl"),
			PublicURL: v.GetString("storage.minio.public_url"),
		},
		UploadMaxBytes: v.GetInt64("upload.max_bytes"),
		AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = insecureDevSecret
		global.Logger.Warn().Msg("jwt.secret is not set; signing tokens with a built-in development secret")
	}
	if cfg.JWT.ExpMin <= 0 {
		cfg.JWT.ExpMin = 30
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 5 << 20
	}
	if cfg.Minio.PublicURL == "" {
		scheme := "http"
		if cfg.Minio.UseSSL {
			scheme = "https"
		}
		cfg.Minio.PublicURL = fmt.Sprintf("%s://%s", scheme, cfg.Minio.Endpoint)
	}
	return cfg
}

// Load is a shortcut for NewLoader(path).Load().
func Load(path string) (*Config, error) {
	return NewLoader(path).Load()
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
