package config

import (
	"bytes"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	DefaultNTPServer      = "pool.ntp.org"
	DefaultNTPVersion     = 4
	DefaultNTPTimeout     = 5000
	DefaultSyncInterval   = 60
	DefaultTickPeriod     = 1
	DefaultConnectTimeout = 30000
	DefaultMetricsAddr    = "127.0.0.1:8080"
)

// Config is the service configuration. Durations are given in the unit
// named by the key.
type Config struct {
	NTPServer        string `toml:"ntp_server,omitempty"`
	NTPVersion       int    `toml:"ntp_version,omitempty"`
	NTPTimeoutMS     int    `toml:"ntp_timeout_ms,omitempty"`
	SyncInterval     int    `toml:"sync_interval,omitempty"`
	TickPeriodMS     int    `toml:"tick_period_ms,omitempty"`
	Interface        string `toml:"interface,omitempty"`
	ConnectTimeoutMS int    `toml:"connect_timeout_ms,omitempty"`
	MetricsAddr      string `toml:"metrics_address"`
	LogFile          string `toml:"log_file,omitempty"`
}

func Default() Config {
	return Config{
		NTPServer:        DefaultNTPServer,
		NTPVersion:       DefaultNTPVersion,
		NTPTimeoutMS:     DefaultNTPTimeout,
		SyncInterval:     DefaultSyncInterval,
		TickPeriodMS:     DefaultTickPeriod,
		ConnectTimeoutMS: DefaultConnectTimeout,
		MetricsAddr:      DefaultMetricsAddr,
	}
}

func Decode(raw []byte) (Config, error) {
	cfg := Default()
	err := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode configuration")
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(configFile string) (Config, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to load configuration")
	}
	return Decode(raw)
}

func (c *Config) Validate() error {
	var err error
	if c.NTPServer == "" {
		err = multierr.Append(err, errors.New("ntp_server must not be empty"))
	}
	if c.NTPVersion < 1 || c.NTPVersion > 4 {
		err = multierr.Append(err, errors.Errorf("ntp_version %d not in [1, 4]", c.NTPVersion))
	}
	if c.NTPTimeoutMS <= 0 {
		err = multierr.Append(err, errors.Errorf("ntp_timeout_ms %d must be positive", c.NTPTimeoutMS))
	}
	if c.SyncInterval <= 0 {
		err = multierr.Append(err, errors.Errorf("sync_interval %d must be positive", c.SyncInterval))
	}
	if c.TickPeriodMS <= 0 || c.TickPeriodMS > 1000 {
		err = multierr.Append(err, errors.Errorf("tick_period_ms %d not in [1, 1000]", c.TickPeriodMS))
	}
	if c.ConnectTimeoutMS <= 0 {
		err = multierr.Append(err, errors.Errorf("connect_timeout_ms %d must be positive", c.ConnectTimeoutMS))
	}
	return err
}

func (c *Config) NTPTimeout() time.Duration {
	return time.Duration(c.NTPTimeoutMS) * time.Millisecond
}

func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.TickPeriodMS) * time.Millisecond
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMS) * time.Millisecond
}
