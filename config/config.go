package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config armazena todas as configurações do serviço de filialen.
type Config struct {
	// Geral
	Port            string        `envconfig:"PORT" default:"8080"`
	Environment     string        `envconfig:"ENV" default:"development"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	PublicBaseURL   string        `envconfig:"PUBLIC_BASE_URL"` // vazio: deriva dos headers da requisição
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	// Banco de Dados (PostgreSQL)
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true"`
	DBTimeout   time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`

	// Cache (Redis). Sem endereço, cache e rate limit ficam desligados.
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	// Rate Limiting
	RateLimitMaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"100"`
	RateLimitPeriod      time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"1m"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL deve ser definida")
	}
	if cfg.DBTimeout <= 0 {
		return nil, errors.New("DB_TIMEOUT deve ser positivo")
	}
	if cfg.RateLimitMaxRequests <= 0 {
		return nil, errors.New("RATE_LIMIT_MAX_REQUESTS deve ser positivo")
	}
	return &cfg, nil
}

// CacheEnabled indica se um Redis foi configurado.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
