package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"spatial-server/internal/engine"
	"spatial-server/internal/server"
	"spatial-server/internal/version"
	"spatial-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var loadPath string
	flag.StringVar(&loadPath, "load", "", "Path to .cdgs snapshot to restore on start")
	flag.Parse()

	logger.Log.Info("Starting Spatial Combat Server...")
	logger.Log.Info(version.String())

	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Log.Fatal("Config error:", err)
	}

	// 2. Инициализация ядра
	combatService := engine.NewService(cfg)

	// Восстановление энкаунтера из снапшота (опционально)
	if loadPath != "" {
		enc, err := combatService.LoadEncounter(loadPath)
		if err != nil {
			logger.Log.Fatal("Failed to load snapshot:", err)
		}
		logger.Log.Infof("💾 Restored encounter %d from %s", enc.ID, loadPath)
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(combatService, cfg.Port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	// Сохраняем все активные энкаунтеры
	for _, id := range combatService.EncounterIDs() {
		if path, err := combatService.SaveEncounter(id); err != nil {
			logger.Log.WithError(err).Warnf("Failed to save encounter %d", id)
		} else {
			logger.Log.Infof("Encounter %d saved to %s", id, path)
		}
	}

	logger.Log.Info("Done.")
}
