package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Chat    ChatConfig    `mapstructure:"chat"`
	AWBW    AWBWConfig    `mapstructure:"awbw"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
}

// ChatConfig gates the chat listener. These values belong to the chat
// surface; the codecs never read them.
type ChatConfig struct {
	ListenForMaps   bool     `mapstructure:"listen_for_maps"`
	BufferChannel   string   `mapstructure:"buffer_channel"`
	AllowedChannels []string `mapstructure:"allowed_channels"`
}

// AWBWConfig holds settings for the AWBW map API client
type AWBWConfig struct {
	Endpoint      string  `mapstructure:"endpoint"`
	Timeout       int     `mapstructure:"timeout"` // seconds
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
	CachePath     string  `mapstructure:"cache_path"` // empty disables the cache
	CacheTTL      int     `mapstructure:"cache_ttl"`  // hours
}

func (a AWBWConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

func (a AWBWConfig) CacheTTLDuration() time.Duration {
	return time.Duration(a.CacheTTL) * time.Hour
}

// SessionConfig holds the per-user map store settings
type SessionConfig struct {
	TTL int `mapstructure:"ttl"` // seconds
}

func (s SessionConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Second
}

// ServerConfig holds server configuration
type ServerConfig struct {
	GRPC      GRPCServerConfig `mapstructure:"grpc"`
	HTTP      HTTPServerConfig `mapstructure:"http"`
	LogLevel  string           `mapstructure:"log_level"`
	LogFormat string           `mapstructure:"log_format"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// HTTPServerConfig holds HTTP server configuration
type HTTPServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ViewerConfig holds desktop viewer settings
type ViewerConfig struct {
	WindowTitle string `mapstructure:"window_title"`
	Scale       int    `mapstructure:"scale"`
}

const (
	EnvPrefix = "BMAP"

	DefaultAWBWEndpoint = "https://awbw.amarriner.com/api/map/map_info.php"
)

var (
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("chat.listen_for_maps", true)
	v.SetDefault("chat.buffer_channel", "")
	v.SetDefault("chat.allowed_channels", []string{})

	v.SetDefault("awbw.endpoint", DefaultAWBWEndpoint)
	v.SetDefault("awbw.timeout", 10)
	v.SetDefault("awbw.rate_per_second", 1.0)
	v.SetDefault("awbw.burst", 2)
	v.SetDefault("awbw.cache_path", "")
	v.SetDefault("awbw.cache_ttl", 24)

	v.SetDefault("session.ttl", 300)

	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "console")
	v.SetDefault("server.grpc.host", "0.0.0.0")
	v.SetDefault("server.grpc.port", 50051)
	v.SetDefault("server.grpc.enable_reflection", true)
	v.SetDefault("server.grpc.graceful_shutdown_delay", 2)
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)

	v.SetDefault("viewer.window_title", "BattleMaps Minimap")
	v.SetDefault("viewer.scale", 2)
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return nil
}

// Init initializes the configuration. An empty configPath searches the
// default locations; a named file that does not exist falls back to defaults.
func Init(configPath string) error {
	nv := viper.New()
	setViperDefaults(nv)

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(".")
		nv.AddConfigPath("./config")
		nv.AddConfigPath("/etc/battlemaps")
	}

	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case configPath != "" && errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	v, cfg = nv, c
	return nil
}

// Get returns the global config instance, initializing it from defaults on
// first use.
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}
	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Set allows runtime config updates. The change is rejected if the result
// fails validation.
func Set(key string, value interface{}) error {
	mu.Lock()
	defer mu.Unlock()
	prev := v.Get(key)
	v.Set(key, value)
	if err := reload(); err != nil {
		v.Set(key, prev)
		return err
	}
	return nil
}

func GetString(key string) string { return GetViper().GetString(key) }
func GetInt(key string) int       { return GetViper().GetInt(key) }
func GetBool(key string) bool     { return GetViper().GetBool(key) }

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange runs after
// a successful reload with the new config.
func WatchConfig(onChange func(*Config)) {
	wv := GetViper()
	wv.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		err := reload()
		c := cfg
		mu.Unlock()
		if err != nil {
			fmt.Fprintf(os.Stderr, "config reload of %s rejected: %v\n", e.Name, err)
			return
		}
		if onChange != nil {
			onChange(c)
		}
	})
	wv.WatchConfig()
}

// reload re-reads v into a fresh Config. Callers hold mu.
func reload() error {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return err
	}
	cfg = c
	return nil
}

// Validate checks if the configuration values are valid
func Validate(c *Config) error {
	if c.AWBW.Endpoint == "" {
		return fmt.Errorf("awbw.endpoint must be set")
	}
	if c.AWBW.Timeout <= 0 {
		return fmt.Errorf("awbw.timeout must be positive")
	}
	if c.AWBW.RatePerSecond <= 0 {
		return fmt.Errorf("awbw.rate_per_second must be positive")
	}
	if c.AWBW.Burst < 1 {
		return fmt.Errorf("awbw.burst must be at least 1")
	}
	if c.AWBW.CacheTTL <= 0 {
		return fmt.Errorf("awbw.cache_ttl must be positive")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}

	if c.Server.GRPC.Port <= 0 || c.Server.GRPC.Port > 65535 {
		return fmt.Errorf("server.grpc.port must be between 1 and 65535")
	}
	if c.Server.HTTP.Port <= 0 || c.Server.HTTP.Port > 65535 {
		return fmt.Errorf("server.http.port must be between 1 and 65535")
	}
	if c.Server.GRPC.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc.graceful_shutdown_delay must be non-negative")
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level must be one of debug, info, warn, error")
	}
	switch c.Server.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("server.log_format must be console or json")
	}

	if c.Viewer.Scale < 1 || c.Viewer.Scale > 8 {
		return fmt.Errorf("viewer.scale must be between 1 and 8")
	}
	return nil
}
