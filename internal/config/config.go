// Package config loads application configuration from an optional
// YAML file with environment-variable overrides. Projection constants
// and the acceptance bounding box are configuration on purpose: wrong
// constants pass every structural check while producing wrong
// coordinates, so they must be swappable per deployment region.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jengzang/peopleflow-backend-go/internal/source"
)

// Config 应用配置
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Dataset    DatasetConfig    `mapstructure:"dataset"`
	Projection ProjectionConfig `mapstructure:"projection"`
	Bounds     BoundsConfig     `mapstructure:"bounds"`
	Auth       AuthConfig       `mapstructure:"auth"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type DatasetConfig struct {
	Path             string         `mapstructure:"path"`
	Format           string         `mapstructure:"format"` // auto, csv, sqlite
	Table            string         `mapstructure:"table"`  // sqlite only
	Columns          source.Columns `mapstructure:"columns"`
	Watch            bool           `mapstructure:"watch"` // reload on file change
	PercentTolerance float64        `mapstructure:"percent_tolerance"`
	DwellSlack       float64        `mapstructure:"dwell_slack"`
}

// ProjectionConfig carries the Transverse Mercator parameter set for
// the regional grid the dataset uses. Defaults are the TWD97 TM2
// (zone 121) constants.
type ProjectionConfig struct {
	SemiMajorAxis     float64 `mapstructure:"semi_major_axis"`
	InverseFlattening float64 `mapstructure:"inverse_flattening"`
	CentralMeridian   float64 `mapstructure:"central_meridian"`
	LatitudeOrigin    float64 `mapstructure:"latitude_origin"`
	ScaleFactor       float64 `mapstructure:"scale_factor"`
	FalseEasting      float64 `mapstructure:"false_easting"`
	FalseNorthing     float64 `mapstructure:"false_northing"`
}

// BoundsConfig is the geographic acceptance box for projected records.
type BoundsConfig struct {
	MinLat float64 `mapstructure:"min_lat"`
	MinLng float64 `mapstructure:"min_lng"`
	MaxLat float64 `mapstructure:"max_lat"`
	MaxLng float64 `mapstructure:"max_lng"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// Load reads configuration from path (optional) and the environment.
// Environment keys are upper-cased with dots replaced by underscores,
// e.g. SERVER_PORT, PROJECTION_CENTRAL_MERIDIAN.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("dataset.path", "./data/peopleflow.csv")
	v.SetDefault("dataset.format", "auto")
	v.SetDefault("dataset.table", "flow_records")
	v.SetDefault("dataset.watch", false)
	v.SetDefault("dataset.percent_tolerance", 0.5)
	v.SetDefault("dataset.dwell_slack", 0.5)

	cols := source.DefaultColumns()
	v.SetDefault("dataset.columns.period", cols.Period)
	v.SetDefault("dataset.columns.gx", cols.GX)
	v.SetDefault("dataset.columns.gy", cols.GY)
	v.SetDefault("dataset.columns.hour", cols.Hour)
	v.SetDefault("dataset.columns.day_category", cols.DayCategory)
	v.SetDefault("dataset.columns.total", cols.Total)
	v.SetDefault("dataset.columns.stay_short", cols.StayShort)
	v.SetDefault("dataset.columns.stay_medium", cols.StayMedium)
	v.SetDefault("dataset.columns.stay_long", cols.StayLong)
	v.SetDefault("dataset.columns.male", cols.Male)
	v.SetDefault("dataset.columns.female", cols.Female)
	v.SetDefault("dataset.columns.age_prefix", cols.AgePrefix)
	v.SetDefault("dataset.columns.age_other", cols.AgeOther)

	// TWD97 / TM2 zone 121 (GRS80)
	v.SetDefault("projection.semi_major_axis", 6378137.0)
	v.SetDefault("projection.inverse_flattening", 298.257222101)
	v.SetDefault("projection.central_meridian", 121.0)
	v.SetDefault("projection.latitude_origin", 0.0)
	v.SetDefault("projection.scale_factor", 0.9999)
	v.SetDefault("projection.false_easting", 250000.0)
	v.SetDefault("projection.false_northing", 0.0)

	// Taiwan main island plus margins
	v.SetDefault("bounds.min_lat", 21.5)
	v.SetDefault("bounds.min_lng", 119.5)
	v.SetDefault("bounds.max_lat", 25.5)
	v.SetDefault("bounds.max_lng", 122.5)

	v.SetDefault("auth.jwt_secret", "change-me-in-production")

	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window_seconds", 60)
}
