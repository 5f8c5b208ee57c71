package config

import (
	"errors"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quakemap/internal/classify"
	"quakemap/internal/feed"
)

// Config holds the full application configuration.
type Config struct {
	Feed  FeedConfig  `yaml:"feed" mapstructure:"feed"`
	Scale ScaleConfig `yaml:"scale" mapstructure:"scale"`
	Map   MapConfig   `yaml:"map" mapstructure:"map"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// FeedConfig names the two payload sources and how to fetch them.
type FeedConfig struct {
	Quakes      string  `yaml:"quakes" mapstructure:"quakes"`
	Plates      string  `yaml:"plates" mapstructure:"plates"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ScaleConfig configures the depth color scale.
type ScaleConfig struct {
	Steps       int     `yaml:"steps" mapstructure:"steps"`
	StartColor  string  `yaml:"start_color" mapstructure:"start_color"`
	EndColor    string  `yaml:"end_color" mapstructure:"end_color"`
	MaxDepthCap float64 `yaml:"max_depth_cap" mapstructure:"max_depth_cap"`
}

// MapConfig sets the initial viewport.
type MapConfig struct {
	CenterLon float64 `yaml:"center_lon" mapstructure:"center_lon"`
	CenterLat float64 `yaml:"center_lat" mapstructure:"center_lat"`
	Zoom      float64 `yaml:"zoom" mapstructure:"zoom"`
}

// LogConfig configures zap. An empty File keeps the default output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// Load reads configuration from file and environment. An empty path
// searches for quakemap.yaml in the working directory.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-supplied viper instance, so command flags
// bound to v take part in resolution.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quakemap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("QUAKEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("feed.quakes", feed.DefaultQuakesURL)
	v.SetDefault("feed.plates", feed.DefaultPlatesURL)
	v.SetDefault("feed.user_agent", "quakemap/1.0")
	v.SetDefault("feed.timeout_secs", 30)
	v.SetDefault("feed.max_retries", 3)
	v.SetDefault("feed.rate_per_sec", 2.0)
	v.SetDefault("scale.steps", classify.DefaultSteps)
	v.SetDefault("scale.start_color", classify.DefaultStartColor)
	v.SetDefault("scale.end_color", classify.DefaultEndColor)
	v.SetDefault("scale.max_depth_cap", 0.0)
	v.SetDefault("map.center_lon", 0.0)
	v.SetDefault("map.center_lat", 0.0)
	v.SetDefault("map.zoom", 1.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate checks values Load cannot type-check.
func (c *Config) Validate() error {
	if c.Feed.Quakes == "" {
		return eris.New("config: feed.quakes is required")
	}
	if c.Feed.TimeoutSecs < 0 {
		return eris.Errorf("config: feed.timeout_secs must not be negative, got %d", c.Feed.TimeoutSecs)
	}
	if c.Feed.MaxRetries < 0 {
		return eris.Errorf("config: feed.max_retries must not be negative, got %d", c.Feed.MaxRetries)
	}
	if c.Feed.RatePerSec < 0 {
		return eris.Errorf("config: feed.rate_per_sec must not be negative, got %g", c.Feed.RatePerSec)
	}
	if c.Scale.Steps < 1 {
		return eris.Errorf("config: scale.steps must be at least 1, got %d", c.Scale.Steps)
	}
	for key, hex := range map[string]string{"scale.start_color": c.Scale.StartColor, "scale.end_color": c.Scale.EndColor} {
		if _, err := colorful.Hex(hex); err != nil {
			return eris.Wrapf(err, "config: %s", key)
		}
	}
	if c.Scale.MaxDepthCap < 0 {
		return eris.New("config: scale.max_depth_cap must not be negative")
	}
	if c.Map.Zoom <= 0 {
		return eris.Errorf("config: map.zoom must be positive, got %g", c.Map.Zoom)
	}
	if c.Map.CenterLon < -180 || c.Map.CenterLon > 180 || c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		return eris.Errorf("config: map center %g,%g out of range", c.Map.CenterLon, c.Map.CenterLat)
	}
	return nil
}

// ScaleOptions maps the scale section onto classify.Options.
func (c *Config) ScaleOptions() classify.Options {
	return classify.Options{
		Steps:       c.Scale.Steps,
		Start:       c.Scale.StartColor,
		End:         c.Scale.EndColor,
		MaxDepthCap: c.Scale.MaxDepthCap,
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
