package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aliskhannn/study-review-bot/internal/srs"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`       // current application environment (local, dev, production)
	LogLevel         string    `mapstructure:"log_level"` // overrides the environment's default zap level
	TelegramAPIToken string    `mapstructure:"-"`         // Telegram API token loaded from environment
	DB               DB        `mapstructure:"database"`
	Review           Review    `mapstructure:"review"`
	Session          Session   `mapstructure:"session"`
	Reminders        Reminders `mapstructure:"reminders"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Review holds the scheduler thresholds.
type Review struct {
	SpikeCumulativeMin   float64 `mapstructure:"spike_cumulative_min"`
	SpikeSessionMax      float64 `mapstructure:"spike_session_max"`
	SpikeMinReviews      int     `mapstructure:"spike_min_reviews"`
	RecoveredMin         float64 `mapstructure:"recovered_min"`
	WorseningBelow       float64 `mapstructure:"worsening_below"`
	ResetCumulativeBelow float64 `mapstructure:"reset_cumulative_below"`
	GrowthFactor         float64 `mapstructure:"growth_factor"`
	MinIntervalDays      int     `mapstructure:"min_interval_days"`
	MaxIntervalDays      int     `mapstructure:"max_interval_days"`
	RecoveryIntervals    []int   `mapstructure:"recovery_intervals"`
	RecoveryFallbackDays int     `mapstructure:"recovery_fallback_days"`
}

// Thresholds converts the section into scheduler thresholds.
func (r Review) Thresholds() srs.Thresholds {
	return srs.Thresholds{
		SpikeCumulativeMin:   r.SpikeCumulativeMin,
		SpikeSessionMax:      r.SpikeSessionMax,
		SpikeMinReviews:      r.SpikeMinReviews,
		RecoveredMin:         r.RecoveredMin,
		WorseningBelow:       r.WorseningBelow,
		ResetCumulativeBelow: r.ResetCumulativeBelow,
		GrowthFactor:         r.GrowthFactor,
		MinIntervalDays:      r.MinIntervalDays,
		MaxIntervalDays:      r.MaxIntervalDays,
		RecoveryIntervals:    r.RecoveryIntervals,
		RecoveryFallbackDays: r.RecoveryFallbackDays,
	}
}

// Session configures study session logging.
type Session struct {
	MinDuration time.Duration `mapstructure:"min_duration"` // shortest session that is logged
}

// Reminders configures the due-topic digest job.
type Reminders struct {
	Cron       string `mapstructure:"cron"`        // job schedule, evaluated in UTC
	DigestHour int    `mapstructure:"digest_hour"` // earliest local hour for the digest
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // review.growth_factor -> REVIEW_GROWTH_FACTOR
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	if err := cfg.Review.Thresholds().Validate(); err != nil {
		return nil, fmt.Errorf("review config: %w", err)
	}
	if cfg.Reminders.DigestHour < 0 || cfg.Reminders.DigestHour > 23 {
		return nil, fmt.Errorf("reminders.digest_hour %d out of range [0, 23]", cfg.Reminders.DigestHour)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	d := srs.DefaultThresholds()
	v.SetDefault("review.spike_cumulative_min", d.SpikeCumulativeMin)
	v.SetDefault("review.spike_session_max", d.SpikeSessionMax)
	v.SetDefault("review.spike_min_reviews", d.SpikeMinReviews)
	v.SetDefault("review.recovered_min", d.RecoveredMin)
	v.SetDefault("review.worsening_below", d.WorseningBelow)
	v.SetDefault("review.reset_cumulative_below", d.ResetCumulativeBelow)
	v.SetDefault("review.growth_factor", d.GrowthFactor)
	v.SetDefault("review.min_interval_days", d.MinIntervalDays)
	v.SetDefault("review.max_interval_days", d.MaxIntervalDays)
	v.SetDefault("review.recovery_intervals", d.RecoveryIntervals)
	v.SetDefault("review.recovery_fallback_days", d.RecoveryFallbackDays)

	v.SetDefault("session.min_duration", "60s")
	v.SetDefault("reminders.cron", "0 * * * *")
	v.SetDefault("reminders.digest_hour", 9)
}
