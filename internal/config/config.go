package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is loaded once at process
// start and passed explicitly into every component that needs it.
type Config struct {
	ServerPort   int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./madatlas.db"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	SecretKey                string `env:"SECRET_KEY,required"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailSender  string `env:"EMAIL_SENDER"`
	// ContactEmail is the operator address notified about new contact messages.
	ContactEmail string `env:"CONTACT_EMAIL"`

	// NotifySchedule controls how often un-notified contact messages are swept.
	NotifySchedule string `env:"NOTIFY_SCHEDULE" envDefault:"@every 1m"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// AccessTokenTTL returns the configured token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// MailEnabled reports whether outbound mail is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.ContactEmail != ""
}
