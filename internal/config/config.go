// Package config loads dashboard settings from a YAML file and HOTELDATA_* environment variables.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/rajanjha2004/HotelData/internal/forecast"
	"github.com/rajanjha2004/HotelData/internal/models"
	"github.com/rajanjha2004/HotelData/internal/notify"
	"github.com/rajanjha2004/HotelData/internal/session"
	"github.com/rajanjha2004/HotelData/internal/staffing"
)

// EnvPrefix is the prefix of environment overrides, e.g. HOTELDATA_SERVER_PORT.
const EnvPrefix = "HOTELDATA"

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Data        DataConfig        `mapstructure:"data"`
	Forecast    ForecastConfig    `mapstructure:"forecast"`
	Staffing    StaffingConfig    `mapstructure:"staffing"`
	Ingredients IngredientsConfig `mapstructure:"ingredients"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	S3          S3Config          `mapstructure:"s3"`

	location *time.Location
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
}

type DataConfig struct {
	// Source is loaded into a session at startup when set.
	Source   string `mapstructure:"source"`
	Timezone string `mapstructure:"timezone"`
	SQLTable string `mapstructure:"sql_table"`
	DemoSeed int64  `mapstructure:"demo_seed"`
}

type ForecastConfig struct {
	Granularity string  `mapstructure:"granularity"`
	Horizon     int     `mapstructure:"horizon"`
	Confidence  float64 `mapstructure:"confidence"`
}

type StaffingConfig struct {
	Ratio       float64            `mapstructure:"ratio"`
	Policy      staffing.Policy    `mapstructure:"policy"`
	HourlyRates map[string]float64 `mapstructure:"hourly_rates"`
	ShiftHours  float64            `mapstructure:"shift_hours"`
}

type IngredientsConfig struct {
	RecipesFile string             `mapstructure:"recipes_file"`
	Inventory   map[string]float64 `mapstructure:"inventory"`
	Thresholds  map[string]float64 `mapstructure:"thresholds"`
}

type NotifyConfig struct {
	Slack     notify.SlackConfig `mapstructure:"slack"`
	PeakCount int                `mapstructure:"peak_count"`
	Threshold float64            `mapstructure:"threshold"`
}

type S3Config struct {
	Region string `mapstructure:"region"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_mb", 64)

	v.SetDefault("data.source", "")
	v.SetDefault("data.timezone", "UTC")
	v.SetDefault("data.sql_table", "orders")
	v.SetDefault("data.demo_seed", 42)

	v.SetDefault("forecast.granularity", string(models.KeyDaily))
	v.SetDefault("forecast.horizon", forecast.DefaultHorizon)
	v.SetDefault("forecast.confidence", forecast.DefaultConfidence)

	policy := staffing.DefaultPolicy()
	roles := make([]string, len(policy.Roles))
	for i, r := range policy.Roles {
		roles[i] = string(r)
	}
	v.SetDefault("staffing.ratio", staffing.DefaultRatio)
	v.SetDefault("staffing.policy.orders_per_staff", policy.OrdersPerStaff)
	v.SetDefault("staffing.policy.min_staff", policy.MinStaff)
	v.SetDefault("staffing.policy.prep_time_factor", policy.PrepTimeFactor)
	v.SetDefault("staffing.policy.hours_per_bucket", 0)
	v.SetDefault("staffing.policy.roles", roles)
	v.SetDefault("staffing.hourly_rates", map[string]float64{
		string(staffing.RoleChef):        25,
		string(staffing.RoleWaiter):      15,
		string(staffing.RoleKitchenHelp): 14,
		string(staffing.RoleBartender):   16,
	})
	v.SetDefault("staffing.shift_hours", 8)

	v.SetDefault("ingredients.recipes_file", "")

	v.SetDefault("notify.slack.webhook_url", "")
	v.SetDefault("notify.slack.token", "")
	v.SetDefault("notify.slack.channel", "")
	v.SetDefault("notify.peak_count", 3)
	v.SetDefault("notify.threshold", 0)

	v.SetDefault("s3.region", "us-east-1")
}

// LoadConfig reads path (optional) and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			roleListHook(),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// roleListHook decodes "Chefs,Waiters" style strings, as set from the environment.
func roleListHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]staffing.Role{}) {
			return data, nil
		}
		return staffing.ParseRoles(data.(string))
	}
}

// Validate checks value ranges and resolves the time zone.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &models.ConfigError{Field: "server.port", Reason: fmt.Sprintf("%d is not a valid port", c.Server.Port)}
	}
	if c.Server.MaxUploadMB <= 0 {
		return &models.ConfigError{Field: "server.max_upload_mb", Reason: "must be positive"}
	}

	loc, err := time.LoadLocation(c.Data.Timezone)
	if err != nil {
		return &models.ConfigError{Field: "data.timezone", Reason: err.Error()}
	}
	c.location = loc

	if !models.GroupKey(c.Forecast.Granularity).IsTimeline() {
		return &models.ConfigError{Field: "forecast.granularity", Reason: "must be hourly, daily or weekly"}
	}
	if c.Forecast.Horizon <= 0 || c.Forecast.Horizon > forecast.MaxHorizon {
		return &models.ConfigError{Field: "forecast.horizon", Reason: fmt.Sprintf("must be between 1 and %d", forecast.MaxHorizon)}
	}
	if c.Forecast.Confidence <= 0 || c.Forecast.Confidence >= 100 {
		return &models.ConfigError{Field: "forecast.confidence", Reason: "must be between 0 and 100"}
	}
	if c.Staffing.Ratio <= 0 {
		return &models.ConfigError{Field: "staffing.ratio", Reason: "must be positive"}
	}
	if c.Staffing.ShiftHours <= 0 {
		return &models.ConfigError{Field: "staffing.shift_hours", Reason: "must be positive"}
	}
	for name := range c.Staffing.HourlyRates {
		if _, err := staffing.ParseRoles(name); err != nil {
			return &models.ConfigError{Field: "staffing.hourly_rates", Reason: fmt.Sprintf("unknown role %q", name)}
		}
	}
	if _, err := staffing.Plan(nil, c.Staffing.Policy); err != nil {
		return err
	}
	return nil
}

// Location is the time zone naive timestamps are read in
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Addr is the listen address of the dashboard
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// HourlyRates returns the configured wage rates keyed by role
func (c *Config) HourlyRates() map[staffing.Role]float64 {
	rates := make(map[staffing.Role]float64, len(c.Staffing.HourlyRates))
	for name, rate := range c.Staffing.HourlyRates {
		if roles, err := staffing.ParseRoles(name); err == nil && len(roles) == 1 {
			rates[roles[0]] = rate
		}
	}
	return rates
}

// SessionParams returns the starting parameters for new sessions
func (c *Config) SessionParams() session.Params {
	p := session.DefaultParams()
	p.Granularity = models.GroupKey(c.Forecast.Granularity)
	p.Forecast = forecast.Params{Horizon: c.Forecast.Horizon, Confidence: c.Forecast.Confidence}
	p.Ratio = c.Staffing.Ratio
	p.Staffing = c.Staffing.Policy
	p.Inventory = c.Ingredients.Inventory
	return p
}
