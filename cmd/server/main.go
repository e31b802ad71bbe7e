package main

import (
	"github.com/alain-michael/Isonga-Platform-sub001/internal/config"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/database"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/event"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/logger"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/router"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/scheduler"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	level := logger.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		fileLogger, err := logger.NewWithFileRotation(level, cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(fileLogger)
	}
	defer logger.Sync()

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	dispatcher := event.NewDispatcher(db)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Setup(db, dispatcher, cfg)

	manager := scheduler.Start(db, dispatcher, cfg)
	defer manager.Stop()

	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
