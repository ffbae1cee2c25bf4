package codesync

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config controls how the SDK connects.
type Config struct {
	URL              string        `mapstructure:"url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`

	// AutoReconnect makes Connect retry failed dials with backoff.
	AutoReconnect     bool          `mapstructure:"auto_reconnect"`
	ReconnectInterval time.Duration `mapstructure:"reconnect_interval"`
	MaxReconnectDelay time.Duration `mapstructure:"max_reconnect_delay"`
	MaxReconnectTries int           `mapstructure:"max_reconnect_tries"` // 0 = unlimited

	// QueueSize bounds outgoing events buffered while connecting.
	QueueSize int `mapstructure:"queue_size"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout:  10 * time.Second,
		ReadTimeout:       0,
		WriteTimeout:      10 * time.Second,
		AutoReconnect:     true,
		ReconnectInterval: time.Second,
		MaxReconnectDelay: 30 * time.Second,
		MaxReconnectTries: 5,
		QueueSize:         16,
	}
}

// Validate reports configuration that cannot be used to dial.
func (c Config) Validate() error {
	if c.URL == "" {
		return NewError(ErrorInvalidConfig, "empty URL")
	}
	if !strings.HasPrefix(c.URL, "ws://") && !strings.HasPrefix(c.URL, "wss://") {
		return NewError(ErrorInvalidConfig, "URL must use ws:// or wss://")
	}
	if c.MaxReconnectTries < 0 {
		return NewError(ErrorInvalidConfig, "max_reconnect_tries must not be negative")
	}
	return nil
}

// LoadConfig reads configuration from an optional YAML file and CODESYNC_*
// environment variables on top of DefaultConfig. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("codesync")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("url", def.URL)
	v.SetDefault("handshake_timeout", def.HandshakeTimeout)
	v.SetDefault("read_timeout", def.ReadTimeout)
	v.SetDefault("write_timeout", def.WriteTimeout)
	v.SetDefault("auto_reconnect", def.AutoReconnect)
	v.SetDefault("reconnect_interval", def.ReconnectInterval)
	v.SetDefault("max_reconnect_delay", def.MaxReconnectDelay)
	v.SetDefault("max_reconnect_tries", def.MaxReconnectTries)
	v.SetDefault("queue_size", def.QueueSize)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, WrapError(ErrorInvalidConfig, "failed to parse config", err)
	}
	return &cfg, nil
}
