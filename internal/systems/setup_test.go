package systems

import (
	"os"
	"testing"

	"spatial-server/pkg/logger"
)

func TestMain(m *testing.M) {
	// Глобальный логгер нужен sight/fov системам даже в тестах
	logger.Init()

	os.Exit(m.Run())
}
