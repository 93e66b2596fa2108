package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultPort           = 10000
	DefaultScratchDir     = "downloads"
	DefaultRetentionDelay = 72 * time.Hour
	DefaultFetchTimeout   = 10 * time.Minute
)

// Config is populated from the environment. A .env file in the working
// directory is loaded first when present.
type Config struct {
	// BotToken authenticates against the Telegram Bot API. Startup fails
	// without it.
	BotToken string `envconfig:"BOT_TOKEN" validate:"required"`
	// WebhookURL, when set, is registered with the Telegram control API on
	// startup (best effort).
	WebhookURL string `envconfig:"WEBHOOK_URL" validate:"omitempty,url"`
	// CookiesFile is an optional site-credential file handed to the
	// extraction backend.
	CookiesFile string `envconfig:"YT_COOKIES_FILE"`

	Port       int    `envconfig:"PORT" default:"10000" validate:"gt=0,lte=65535"`
	ScratchDir string `envconfig:"SCRATCH_DIR" default:"downloads"`

	RetentionDelay       time.Duration `envconfig:"RETENTION_DELAY" default:"72h" validate:"gt=0"`
	FetchTimeout         time.Duration `envconfig:"FETCH_TIMEOUT" default:"10m" validate:"gt=0"`
	MaxConcurrentFetches int           `envconfig:"MAX_CONCURRENT_FETCHES" default:"4" validate:"gt=0"`

	YtDlpPath string `envconfig:"YTDLP_PATH" default:"yt-dlp"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// OwnerContact is shown by /about.
	OwnerContact string `envconfig:"OWNER_CONTACT" default:"@hey_arnab02"`
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load reads configuration from the environment. A missing .env file is not
// an error; a missing bot token is.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
