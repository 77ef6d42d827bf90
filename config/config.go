// Package config loads runtime settings from rts.yaml, RTS_* environment
// variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultTPS      = 60
	DefaultFoodMax  = 5
	DefaultWood     = 800
	DefaultGold     = 1200
	DefaultLogLevel = "info"
)

// DefaultLayout is a small forest map used when none is configured.
var DefaultLayout = []string{
	"........................",
	"........................",
	"..................TTTT..",
	"..................TTTT..",
	"..................TTT...",
	"........................",
	"........................",
	"........................",
	".....###................",
	"........................",
	"........................",
	"........................",
	"........................",
	"........................",
	"........................",
	"........................",
}

type Settings struct {
	TPS       int      `mapstructure:"tps"`
	Layout    []string `mapstructure:"layout"`
	TileSize  int      `mapstructure:"tile_size"`
	Wood      int      `mapstructure:"wood"`
	Gold      int      `mapstructure:"gold"`
	FoodMax   int      `mapstructure:"food_max"`
	SoundDir  string   `mapstructure:"sound_dir"`
	PrefabDir string   `mapstructure:"prefab_dir"`
	LogLevel  string   `mapstructure:"log_level"`
	LogFormat string   `mapstructure:"log_format"`
}

// SetDefaults registers every key so env variables resolve without a
// config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tps", DefaultTPS)
	v.SetDefault("layout", DefaultLayout)
	v.SetDefault("tile_size", 32)
	v.SetDefault("wood", DefaultWood)
	v.SetDefault("gold", DefaultGold)
	v.SetDefault("food_max", DefaultFoodMax)
	v.SetDefault("sound_dir", "sounds")
	v.SetDefault("prefab_dir", "prefabs")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", "text")
}

// New returns a viper instance reading file, or rts.yaml from the working
// directory when file is empty.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("RTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("rts")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	return v
}

// Load reads the config file if there is one and decodes the settings.
func Load(v *viper.Viper) (Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("config: read: %w", err)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	return s, s.Validate()
}

func (s Settings) Validate() error {
	switch {
	case s.TPS < 1:
		return fmt.Errorf("config: tps must be positive, got %d", s.TPS)
	case s.Wood < 0 || s.Gold < 0:
		return fmt.Errorf("config: negative starting resources")
	case s.FoodMax < 0:
		return fmt.Errorf("config: negative food_max")
	case len(s.Layout) == 0:
		return fmt.Errorf("config: empty layout")
	case s.TileSize < 1:
		return fmt.Errorf("config: tile_size must be positive")
	}
	return nil
}
