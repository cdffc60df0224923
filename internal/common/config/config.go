// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	HTTP          HTTPConfig         `mapstructure:"http"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Auth          AuthConfig         `mapstructure:"auth"`
	Security      SecurityConfig     `mapstructure:"security"`
	Integrations  IntegrationConfig  `mapstructure:"integrations"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	// BaseURL is the public origin embedded in response-link emails.
	BaseURL string `mapstructure:"base_url"`
}

type HTTPConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
	// Submission rate limit, fixed window per client IP.
	RateLimit       int `mapstructure:"rate_limit"`
	RateLimitWindow int `mapstructure:"rate_limit_window"` // seconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds settings for the external identity provider backing the
// admin surface. Admin role itself lives in the admin_users table.
type AuthConfig struct {
	Provider struct {
		BaseURL      string `mapstructure:"base_url"`
		UserinfoPath string `mapstructure:"userinfo_path"`
	} `mapstructure:"provider"`
}

// SecurityConfig holds the automated-abuse check settings.
type SecurityConfig struct {
	BotCheck BotCheckConfig `mapstructure:"bot_check"`
}

type BotCheckConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	SecretKey string `mapstructure:"secret_key"`
	VerifyURL string `mapstructure:"verify_url"`
}

// IntegrationConfig holds settings for AWS-backed collaborators.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
			StaffPhone         string `mapstructure:"staff_phone"`
		} `mapstructure:"sns"`
		S3 struct {
			Bucket        string `mapstructure:"bucket"`
			Endpoint      string `mapstructure:"endpoint"`
			PublicBaseURL string `mapstructure:"public_base_url"`
		} `mapstructure:"s3"`
	} `mapstructure:"aws"`
}

// NotificationConfig holds the outbound email routing for submissions.
type NotificationConfig struct {
	// ApplicationsEmail receives the internal new-application notification.
	ApplicationsEmail string `mapstructure:"applications_email"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
