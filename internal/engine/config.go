package engine

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config хранит параметры запуска движка. Заполняется из окружения.
type Config struct {
	// Port — порт HTTP/WebSocket сервера.
	Port string `env:"SC_PORT" envDefault:"8080"`

	// SaveDir — каталог для бинарных снапшотов энкаунтеров (.cdgs).
	SaveDir string `env:"SC_SAVE_DIR" envDefault:"saves"`

	// MaxEncounters — предел одновременных энкаунтеров на процесс.
	MaxEncounters int `env:"SC_MAX_ENCOUNTERS" envDefault:"64"`
}

// LoadConfig читает конфигурацию из переменных окружения.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if cfg.MaxEncounters <= 0 {
		return Config{}, fmt.Errorf("SC_MAX_ENCOUNTERS must be positive, got %d", cfg.MaxEncounters)
	}
	return cfg, nil
}
