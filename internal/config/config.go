/*
Package config builds the single configuration value handed to every
component at startup: defaults, then an optional YAML file, then an optional
.env file and the process environment.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "VYAPAR_"

// Config holds all application configuration
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Sources  SourcesConfig  `yaml:"sources"`
	Trend    TrendConfig    `yaml:"trend"`
	Forecast ForecastConfig `yaml:"forecast"`
	Spike    SpikeConfig    `yaml:"spike"`
	Decision DecisionConfig `yaml:"decision"`
	Festival FestivalConfig `yaml:"festival"`
	AI       AIConfig       `yaml:"ai"`
	Redis    RedisConfig    `yaml:"redis"`
	NATS     NATSConfig     `yaml:"nats"`
	Email    EmailConfig    `yaml:"email"`
	Log      LogConfig      `yaml:"log"`
	Timezone string         `yaml:"timezone"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

// SourcesConfig describes the three trend feeds and the search probe.
type SourcesConfig struct {
	UserAgent           string        `yaml:"user_agent"`
	Timeout             time.Duration `yaml:"timeout"`
	TrendFeedURL        string        `yaml:"trend_feed_url"`
	TrendFeedLimit      int           `yaml:"trend_feed_limit"`
	MarketplaceURL      string        `yaml:"marketplace_url"`
	MarketplaceSelector string        `yaml:"marketplace_selector"`
	MarketplaceLimit    int           `yaml:"marketplace_limit"`
	ForumBaseURL        string        `yaml:"forum_base_url"`
	ForumChannels       []string      `yaml:"forum_channels"`
	ForumLimit          int           `yaml:"forum_limit"`
	SearchURL           string        `yaml:"search_url"`
}

type TrendConfig struct {
	Threshold  int      `yaml:"threshold"`
	Keywords   []string `yaml:"keywords"`
	TopSellers int      `yaml:"top_sellers"`
}

type ForecastConfig struct {
	LookbackDays int `yaml:"lookback_days"`
}

type SpikeConfig struct {
	StockThreshold int     `yaml:"stock_threshold"`
	Confidence     float64 `yaml:"confidence"`
}

type DecisionConfig struct {
	Agent string `yaml:"agent"`
}

type FestivalConfig struct {
	Enabled       bool     `yaml:"enabled"`
	LookaheadDays int      `yaml:"lookahead_days"`
	CalendarIDs   []string `yaml:"calendar_ids"`
	// PersonalCalendarID must name a publicly shared calendar (usually the
	// owner's address). The "primary" alias needs OAuth and cannot be read
	// with an API key.
	PersonalCalendarID string        `yaml:"personal_calendar_id"`
	APIKey             string        `yaml:"api_key"`
	Pace               time.Duration `yaml:"pace"`
}

// Calendars returns the personal calendar, when configured, followed by CalendarIDs.
func (f FestivalConfig) Calendars() []string {
	if f.PersonalCalendarID == "" {
		return f.CalendarIDs
	}
	return append([]string{f.PersonalCalendarID}, f.CalendarIDs...)
}

type AIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// RedisConfig enables the commercial verdict cache when Addr is set.
type RedisConfig struct {
	Addr       string        `yaml:"addr"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	VerdictTTL time.Duration `yaml:"verdict_ttl"`
}

// NATSConfig enables decision event publishing when URL is set.
type NATSConfig struct {
	URL            string        `yaml:"url"`
	SubjectPrefix  string        `yaml:"subject_prefix"`
	MaxReconnects  int           `yaml:"max_reconnects"`
	ReconnectWait  time.Duration `yaml:"reconnect_wait"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.SMTPUser != "" && e.SMTPPass != "" && e.ToEmail != ""
}

// Sender returns the From address, defaulting to the SMTP user.
func (e EmailConfig) Sender() string {
	if e.FromEmail != "" {
		return e.FromEmail
	}
	return e.SMTPUser
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// IndianHolidaysCalendarID is Google's public national holidays calendar for India.
const IndianHolidaysCalendarID = "en.indian#holiday@group.v.calendar.google.com"

// DefaultKeywords is the retail vocabulary used by the relevance filter.
var DefaultKeywords = []string{
	"toy", "drink", "chocolate", "snack", "ramen", "figure",
	"collectible", "chips", "biscuits", "juice", "cola",
	"noodles", "candy", "energy drink", "soda", "oil", "sugar", "salt", "dal",
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Store: StoreConfig{Path: "vyapar.db"},
		Sources: SourcesConfig{
			UserAgent:           "Mozilla/5.0",
			Timeout:             5 * time.Second,
			TrendFeedURL:        "https://trends.google.com/trending/rss?geo=IN",
			TrendFeedLimit:      10,
			MarketplaceURL:      "https://www.amazon.in/gp/bestsellers/grocery",
			MarketplaceSelector: "._cDEzb_p13n-sc-css-line-clamp-3_g3dy1",
			MarketplaceLimit:    20,
			ForumBaseURL:        "https://www.reddit.com",
			ForumChannels:       []string{"india", "indiaspeaks", "food", "snacks", "gaming", "technology"},
			ForumLimit:          15,
			SearchURL:           "https://www.google.com/search",
		},
		Trend: TrendConfig{
			Threshold:  40,
			Keywords:   append([]string(nil), DefaultKeywords...),
			TopSellers: 10,
		},
		Forecast: ForecastConfig{LookbackDays: 7},
		Spike:    SpikeConfig{StockThreshold: 5, Confidence: 0.8},
		Decision: DecisionConfig{Agent: "Demand Intelligence"},
		Festival: FestivalConfig{
			Enabled:       true,
			LookaheadDays: 15,
			CalendarIDs:   []string{IndianHolidaysCalendarID},
			Pace:          500 * time.Millisecond,
		},
		AI: AIConfig{
			Model:   "gemini-2.0-flash",
			Timeout: 30 * time.Second,
		},
		Redis: RedisConfig{VerdictTTL: 24 * time.Hour},
		NATS: NATSConfig{
			SubjectPrefix:  "vyapar.decisions",
			MaxReconnects:  10,
			ReconnectWait:  time.Second,
			ConnectTimeout: 2 * time.Second,
		},
		Email:    EmailConfig{SMTPServer: "smtp.gmail.com", SMTPPort: 587},
		Log:      LogConfig{Level: "info", Format: "text"},
		Timezone: "Asia/Kolkata",
	}
}

// Load reads configuration from an optional YAML file, an optional .env file
// and environment variables, in that order of precedence (last wins).
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Store.Path = getEnv(envPrefix+"DB_PATH", cfg.Store.Path)
	cfg.Timezone = getEnv(envPrefix+"TIMEZONE", cfg.Timezone)
	cfg.Log.Level = getEnv(envPrefix+"LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv(envPrefix+"LOG_FORMAT", cfg.Log.Format)

	cfg.Sources.UserAgent = getEnv(envPrefix+"USER_AGENT", cfg.Sources.UserAgent)
	cfg.Sources.TrendFeedURL = getEnv(envPrefix+"TREND_FEED_URL", cfg.Sources.TrendFeedURL)
	cfg.Sources.MarketplaceURL = getEnv(envPrefix+"MARKETPLACE_URL", cfg.Sources.MarketplaceURL)
	cfg.Sources.ForumChannels = getEnvAsSlice(envPrefix+"FORUM_CHANNELS", cfg.Sources.ForumChannels)

	var err error
	if cfg.Sources.Timeout, err = getEnvAsDuration(envPrefix+"FETCH_TIMEOUT", cfg.Sources.Timeout); err != nil {
		return err
	}
	if cfg.Trend.Threshold, err = getEnvAsInt(envPrefix+"TREND_THRESHOLD", cfg.Trend.Threshold); err != nil {
		return err
	}
	cfg.Trend.Keywords = getEnvAsSlice(envPrefix+"TREND_KEYWORDS", cfg.Trend.Keywords)
	if cfg.Forecast.LookbackDays, err = getEnvAsInt(envPrefix+"LOOKBACK_DAYS", cfg.Forecast.LookbackDays); err != nil {
		return err
	}
	if cfg.Festival.LookaheadDays, err = getEnvAsInt(envPrefix+"LOOKAHEAD_DAYS", cfg.Festival.LookaheadDays); err != nil {
		return err
	}
	if cfg.Festival.Enabled, err = getEnvAsBool(envPrefix+"FESTIVALS", cfg.Festival.Enabled); err != nil {
		return err
	}

	cfg.Festival.APIKey = getEnv("GOOGLE_CALENDAR_API_KEY", cfg.Festival.APIKey)
	cfg.Festival.PersonalCalendarID = getEnv(envPrefix+"PERSONAL_CALENDAR_ID", cfg.Festival.PersonalCalendarID)
	cfg.AI.APIKey = getEnv("GEMINI_API_KEY", cfg.AI.APIKey)
	cfg.AI.Model = getEnv("GEMINI_MODEL", cfg.AI.Model)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.NATS.URL = getEnv("NATS_URL", cfg.NATS.URL)

	cfg.Email.SMTPServer = getEnv("SMTP_SERVER", cfg.Email.SMTPServer)
	if cfg.Email.SMTPPort, err = getEnvAsInt("SMTP_PORT", cfg.Email.SMTPPort); err != nil {
		return err
	}
	cfg.Email.SMTPUser = getEnv("SMTP_USER", cfg.Email.SMTPUser)
	cfg.Email.SMTPPass = getEnv("SMTP_PASS", cfg.Email.SMTPPass)
	cfg.Email.FromEmail = getEnv("SMTP_FROM", cfg.Email.FromEmail)
	cfg.Email.ToEmail = getEnv("SMTP_TO", cfg.Email.ToEmail)

	return nil
}

// Validate checks if config is valid
func (c Config) Validate() error {
	switch {
	case c.Trend.Threshold <= 0:
		return fmt.Errorf("trend threshold must be positive, got %d", c.Trend.Threshold)
	case len(c.Trend.Keywords) == 0:
		return errors.New("trend keywords must not be empty")
	case c.Sources.Timeout <= 0:
		return fmt.Errorf("fetch timeout must be positive, got %s", c.Sources.Timeout)
	case c.Forecast.LookbackDays <= 0:
		return fmt.Errorf("forecast lookback must be positive, got %d", c.Forecast.LookbackDays)
	case c.Festival.LookaheadDays <= 0:
		return fmt.Errorf("festival lookahead must be positive, got %d", c.Festival.LookaheadDays)
	case c.Spike.Confidence < 0 || c.Spike.Confidence > 1:
		return fmt.Errorf("spike confidence must be within [0,1], got %v", c.Spike.Confidence)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid time zone name '%s': %w", c.Timezone, err)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
