package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/trafficrouter/pkg"
	"github.com/spf13/viper"
)

type Network struct {
	Path string `mapstructure:"path" validate:"required"`
	Mode string `mapstructure:"mode" validate:"required"`
}

type Simulation struct {
	Config          string        `mapstructure:"config" validate:"required"`
	Gui             bool          `mapstructure:"gui"`
	Port            int           `mapstructure:"port" validate:"min=0,max=65535"`
	ConnectRetries  int           `mapstructure:"connect_retries" validate:"gt=0"`
	ConnectInterval time.Duration `mapstructure:"connect_interval" validate:"gt=0"`
}

// Estimator holds the rolling cost window parameters.
type Estimator struct {
	WindowSize int     `mapstructure:"window_size" validate:"gt=0"`
	Cadence    int     `mapstructure:"cadence" validate:"gt=0"`
	SpeedFloor float64 `mapstructure:"speed_floor" validate:"gt=0"`
}

type Routing struct {
	MaxAttempts int    `mapstructure:"max_attempts" validate:"min=0"` // 0 retries until a path is found
	Seed        uint64 `mapstructure:"seed"`
}

type Output struct {
	Path                string `mapstructure:"path" validate:"required"`
	LegacyTrailingComma bool   `mapstructure:"legacy_trailing_comma"`
}

type HTTP struct {
	Enabled   bool    `mapstructure:"enabled"`
	Port      int     `mapstructure:"port" validate:"min=1,max=65535"`
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`
}

type Config struct {
	Network    Network    `mapstructure:"network"`
	Simulation Simulation `mapstructure:"simulation"`
	Estimator  Estimator  `mapstructure:"estimator"`
	Routing    Routing    `mapstructure:"routing"`
	Output     Output     `mapstructure:"output"`
	HTTP       HTTP       `mapstructure:"http"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network.path", "patched.net.xml")
	v.SetDefault("network.mode", pkg.PASSENGER_CLASS)

	v.SetDefault("simulation.config", "osm.sumocfg")
	v.SetDefault("simulation.gui", true)
	v.SetDefault("simulation.port", 0)
	v.SetDefault("simulation.connect_retries", 60)
	v.SetDefault("simulation.connect_interval", "1s")

	v.SetDefault("estimator.window_size", pkg.DEFAULT_WINDOW_SIZE)
	v.SetDefault("estimator.cadence", pkg.DEFAULT_REFRESH_CADENCE)
	v.SetDefault("estimator.speed_floor", pkg.DEFAULT_SPEED_FLOOR)

	v.SetDefault("routing.max_attempts", pkg.DEFAULT_MAX_ROUTE_ATTEMPTS)
	v.SetDefault("routing.seed", 0)

	v.SetDefault("output.path", "outputData.json")
	v.SetDefault("output.legacy_trailing_comma", false)

	v.SetDefault("http.enabled", false)
	v.SetDefault("http.port", 6060)
	v.SetDefault("http.rate_limit", 0)
}

// Load builds a validated Config from v (viper.GetViper() for the process-wide instance).
func Load(v *viper.Viper) (Config, error) {
	setDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Default returns the configuration used when no file or environment override is present.
func Default() Config {
	c, err := Load(viper.New())
	if err != nil {
		panic(err)
	}
	return c
}
