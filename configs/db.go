package configs

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionDB opens the durable store named by cfg. The handle is owned by
// the caller and passed down to repositories.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.DBDriver {
	case "sqlite", "":
		db, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.DBSource)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DBSource, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one writer; keeps sqlite from reporting "database is locked"
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DBSource), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}
