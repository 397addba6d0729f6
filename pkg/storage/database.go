// Package storage opens the relational database that holds a persisted catalog.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLiteFile is used when no DSN is given for sqlite.
const DefaultSQLiteFile = "grocerease.db"

// Supported lists the accepted db-type values.
var Supported = []string{"sqlite", "postgres", "mysql"}

// Dialector picks the gorm dialector for a db-type flag value.
func Dialector(dbType, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "sqlite", "sqlite3":
		if dsn == "" {
			dsn = filepath.Join(".", DefaultSQLiteFile)
		}
		return sqlite.Open(dsn), nil
	case "postgres", "postgresql", "pgx":
		if dsn == "" {
			return nil, fmt.Errorf("postgres requires a DSN")
		}
		return postgres.Open(dsn), nil
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("mysql requires a DSN")
		}
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q (want one of %s)", dbType, strings.Join(Supported, ", "))
	}
}

// Open connects with gorm's own logging silenced; callers log outcomes themselves.
func Open(dbType, dsn string) (*gorm.DB, error) {
	dialector, err := Dialector(dbType, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dbType, err)
	}
	return db, nil
}

// Close releases the pool behind a gorm handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
