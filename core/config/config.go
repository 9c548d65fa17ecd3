package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	GoogleAPI  GoogleAPIConfig
	Scheduling SchedulingConfig
	Storage    StorageConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     int
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a redis address is configured. Without redis the
// service falls back to in-process locks and synchronous notification delivery.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	CalendarID   string
}

// SchedulingConfig holds the availability policy constants.
type SchedulingConfig struct {
	Timezone          string
	DayStartHour      int
	DayEndHour        int
	SlotStepMinutes   int
	SampleHours       []int
	DefaultSearchDays int
	// MaxSearchDays bounds the range a single availability query may scan.
	MaxSearchDays int
}

type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver string
}

var (
	mu       sync.RWMutex
	instance *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "hangout-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", 7070)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hangouts")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", "24h")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("GOOGLE_CALENDAR_ID", "primary")

	v.SetDefault("SCHEDULING_TIMEZONE", "Local")
	v.SetDefault("SCHEDULING_DAY_START_HOUR", 9)
	v.SetDefault("SCHEDULING_DAY_END_HOUR", 21)
	v.SetDefault("SCHEDULING_SLOT_STEP_MINUTES", 30)
	v.SetDefault("SCHEDULING_SAMPLE_HOURS", "10,14,18")
	v.SetDefault("SCHEDULING_DEFAULT_SEARCH_DAYS", 14)
	v.SetDefault("SCHEDULING_MAX_SEARCH_DAYS", 62)

	v.SetDefault("STORAGE_DRIVER", "postgres")
}

// Load reads the environment (and an optional .env file) into the process-wide
// configuration.
func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	sampleHours, err := parseHours(v.GetString("SCHEDULING_SAMPLE_HOURS"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULING_SAMPLE_HOURS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetInt("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
			CalendarID:   v.GetString("GOOGLE_CALENDAR_ID"),
		},
		Scheduling: SchedulingConfig{
			Timezone:          v.GetString("SCHEDULING_TIMEZONE"),
			DayStartHour:      v.GetInt("SCHEDULING_DAY_START_HOUR"),
			DayEndHour:        v.GetInt("SCHEDULING_DAY_END_HOUR"),
			SlotStepMinutes:   v.GetInt("SCHEDULING_SLOT_STEP_MINUTES"),
			SampleHours:       sampleHours,
			DefaultSearchDays: v.GetInt("SCHEDULING_DEFAULT_SEARCH_DAYS"),
			MaxSearchDays:     v.GetInt("SCHEDULING_MAX_SEARCH_DAYS"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the scheduling engine relies on.
func (c *Config) Validate() error {
	s := c.Scheduling
	if s.DayStartHour < 0 || s.DayEndHour > 24 || s.DayStartHour >= s.DayEndHour {
		return fmt.Errorf("invalid business window %d-%d", s.DayStartHour, s.DayEndHour)
	}
	if s.SlotStepMinutes <= 0 {
		return fmt.Errorf("slot step must be positive, got %d", s.SlotStepMinutes)
	}
	if s.MaxSearchDays < s.DefaultSearchDays {
		return fmt.Errorf("max search days %d is below the default range of %d days", s.MaxSearchDays, s.DefaultSearchDays)
	}
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

func parseHours(raw string) ([]int, error) {
	var hours []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if h < 0 || h > 23 {
			return nil, fmt.Errorf("hour %d out of range", h)
		}
		hours = append(hours, h)
	}
	return hours, nil
}

// Get returns the loaded configuration. It panics when Load has not run.
func Get() *Config {
	cfg, err := GetSafe()
	if err != nil {
		panic(err)
	}
	return cfg
}

func GetSafe() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	return instance, nil
}

// Location resolves the scheduling timezone.
func (s SchedulingConfig) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}
