package migration

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"

	"atr/internal/config"
)

var validDatabaseName = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)

// DatabaseManager manages the result store database
type DatabaseManager struct {
	config *config.Config
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg *config.Config) *DatabaseManager {
	return &DatabaseManager{config: cfg}
}

// Open connects to the result store. Without withDatabase the connection targets the server
// only.
func (dm *DatabaseManager) Open(ctx context.Context, withDatabase bool) (*sql.DB, error) {
	db, err := sql.Open("mysql", dm.config.DSN(withDatabase))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	return db, nil
}

// CheckAndCreateDatabase creates the result store database if it does not exist and reports
// whether it was created.
func (dm *DatabaseManager) CheckAndCreateDatabase(ctx context.Context) (bool, error) {
	dbName := dm.config.GetDatabaseName()
	if !isValidDatabaseName(dbName) {
		return false, fmt.Errorf("invalid database name: %s", dbName)
	}

	db, err := dm.Open(ctx, false)
	if err != nil {
		return false, err
	}
	defer db.Close()

	exists, err := databaseExists(ctx, db, dbName)
	if err != nil {
		return false, fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if exists {
		return false, nil
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName)); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", dbName, err)
	}
	return true, nil
}

func databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

func tableExists(ctx context.Context, db *sql.DB, dbName, table string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName, table).Scan(&exists)
	return exists, err
}

// isValidDatabaseName accepts unquoted mysql identifiers only, so the name can be
// interpolated into CREATE DATABASE.
func isValidDatabaseName(name string) bool {
	return validDatabaseName.MatchString(name)
}
