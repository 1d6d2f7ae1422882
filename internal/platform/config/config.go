package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del servicio.
// Se parsea desde env vars; un .env local es opcional (dev).
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"animal-rescue-ops"`
	Port    string `env:"PORT" envDefault:"8080"`

	// Si DBDSN viene vacío, el router usa repos in-memory (modo dev).
	DBDSN string `env:"DB_DSN"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Servicio de identidad. Sin BaseURL => modo dev con headers X-Debug-*.
	AuthBaseURL string        `env:"AUTH_BASE_URL"`
	AuthAPIKey  string        `env:"AUTH_API_KEY"`
	AuthTimeout time.Duration `env:"AUTH_TIMEOUT" envDefault:"5s"`

	// Webhook de notificaciones (placement created/completed). Vacío => noop.
	NotifyWebhookURL string        `env:"NOTIFY_WEBHOOK_URL"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`

	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
}

// Load carga .env si existe y después parsea env vars.
// El .env nunca pisa variables ya presentes en el entorno.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
