package initializers

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	RedisAddr      string
	RedisPassword  string
	SecretKey      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	MaxUploadBytes int64
	GinMode        string
	SecureCookie   bool
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	MailFrom       string
}

var ErrMissingSecret = errors.New("SECRET_KEY must be set")

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "featureme")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("TOKEN_TTL", "720h")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_UPLOAD_MB", 50)
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "FeatureMe <no-reply@featureme.app>")
}

// LoadConfig loads .env files and reads the configuration from the
// environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	LoadEnvVariables(envFiles...)

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		MongoURI:       v.GetString("MONGO_URI"),
		DBName:         v.GetString("DB_NAME"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		SecretKey:      v.GetString("SECRET_KEY"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_MB") << 20,
		GinMode:        v.GetString("GIN_MODE"),
		SecureCookie:   v.GetBool("COOKIE_SECURE"),
		SMTPHost:       v.GetString("SMTP_HOST"),
		SMTPPort:       v.GetInt("SMTP_PORT"),
		SMTPUser:       v.GetString("SMTP_USER"),
		SMTPPassword:   v.GetString("SMTP_PASSWORD"),
		MailFrom:       v.GetString("MAIL_FROM"),
	}
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
