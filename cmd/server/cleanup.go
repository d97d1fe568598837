// File: cmd/server/cleanup.go
package main

import (
	"log"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace_admin_backend/internal/platform/database"
)

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
