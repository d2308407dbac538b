package initializers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DBDriver    string
	DBDSN       string
	DBDebug     bool
	JWTSecret   string
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RateLimit     int
	RateWindow    time.Duration

	KafkaBrokers []string
	S3Bucket     string

	FromEmail         string
	FromEmailPassword string
	FromEmailSMTP     string
	SMTPAddress       string

	LogLevel  string
	LogFormat string
	LogFile   string
}

var Cfg Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "root:root@tcp(127.0.0.1:3306)/netshop?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("CORS_ORIGINS", "http://localhost:4200")
	v.SetDefault("RATE_LIMIT", 30)
	v.SetDefault("RATE_WINDOW", "1m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadEnv reads .env (when present) and the process environment into Cfg.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	Cfg = Config{
		Port:        v.GetString("PORT"),
		DBDriver:    v.GetString("DB_DRIVER"),
		DBDSN:       v.GetString("DB_DSN"),
		DBDebug:     v.GetBool("DB_DEBUG"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RateLimit:     v.GetInt("RATE_LIMIT"),
		RateWindow:    v.GetDuration("RATE_WINDOW"),

		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		S3Bucket:     v.GetString("S3_BUCKET"),

		FromEmail:         v.GetString("FROM_EMAIL"),
		FromEmailPassword: v.GetString("FROM_EMAIL_PASSWORD"),
		FromEmailSMTP:     v.GetString("FROM_EMAIL_SMTP"),
		SMTPAddress:       v.GetString("SMTP_ADDRESS"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		LogFile:   v.GetString("LOG_FILE"),
	}
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
