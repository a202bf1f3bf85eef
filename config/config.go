package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Shuttle schedule configuration. List values are comma separated.
	Locations           string `mapstructure:"SHUTTLE_LOCATIONS"`
	DefaultSlotCapacity int    `mapstructure:"DEFAULT_SLOT_CAPACITY"`
	MorningTimes        string `mapstructure:"MORNING_TIMES"`
	AfternoonTimes      string `mapstructure:"AFTERNOON_TIMES"`
	NonOperatingDays    string `mapstructure:"NON_OPERATING_DAYS"`
	DailyGenerateAt     string `mapstructure:"DAILY_GENERATE_AT"` // "HH:MM"
	CancelCutoffMinutes int    `mapstructure:"CANCEL_CUTOFF_MINUTES"`
	Timezone            string `mapstructure:"SHUTTLE_TIMEZONE"`

	// Stripe secret key for the plan purchase flow.
	StripeKey string `mapstructure:"STRIPE_KEY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "campusshuttle")
	viper.SetDefault("SHUTTLE_LOCATIONS", "Delhi")
	viper.SetDefault("DEFAULT_SLOT_CAPACITY", 11)
	viper.SetDefault("MORNING_TIMES", "07:00,07:30,08:00,08:30,09:00,09:30")
	viper.SetDefault("AFTERNOON_TIMES", "15:00,15:30,16:00,16:30,17:00,17:30")
	viper.SetDefault("NON_OPERATING_DAYS", "Saturday,Sunday")
	viper.SetDefault("DAILY_GENERATE_AT", "18:00")
	viper.SetDefault("CANCEL_CUTOFF_MINUTES", 60)
	viper.SetDefault("SHUTTLE_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("STRIPE_KEY", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LocationList returns the configured operating locations.
func LocationList() []string {
	return splitCSV(AppConfig.Locations)
}

// MorningTimeList returns the outbound (to college) departure times.
func MorningTimeList() []string {
	return splitCSV(AppConfig.MorningTimes)
}

// AfternoonTimeList returns the return (from college) departure times.
func AfternoonTimeList() []string {
	return splitCSV(AppConfig.AfternoonTimes)
}

// NonOperatingWeekdays returns the weekdays on which no shuttle runs.
func NonOperatingWeekdays() map[time.Weekday]bool {
	days := map[string]time.Weekday{
		"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
		"Wednesday": time.Wednesday, "Thursday": time.Thursday,
		"Friday": time.Friday, "Saturday": time.Saturday,
	}
	out := make(map[time.Weekday]bool)
	for _, name := range splitCSV(AppConfig.NonOperatingDays) {
		if wd, ok := days[name]; ok {
			out[wd] = true
		} else {
			log.Printf("Ignoring unknown non-operating day %q", name)
		}
	}
	return out
}

// ShuttleTimezone resolves the configured venue timezone, falling back to
// the server's local zone when the name cannot be loaded.
func ShuttleTimezone() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, falling back to local", AppConfig.Timezone)
		return time.Local
	}
	return loc
}
