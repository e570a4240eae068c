package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/yegors/preflight/pkg/logger"
	_ "modernc.org/sqlite"
)

// DB is the shared SQLite connection
type DB struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open opens (creating if needed) the SQLite database and its schema
func Open(dbPath string, log *logger.Logger) (*DB, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite storage",
		logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool limits
	db.SetMaxOpenConns(1) // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)

	// Set pragmas for better performance and concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := initDatabase(db, storageLogger); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db, logger: storageLogger}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// initDatabase initializes the database schema
func initDatabase(db *sql.DB, log *logger.Logger) error {
	log.Info("Initializing database schema")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS aircraft_profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			registration TEXT NOT NULL,
			empty_weight REAL NOT NULL,
			empty_arm REAL NOT NULL,
			position INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create aircraft_profiles table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_profiles_position ON aircraft_profiles(position)`)
	if err != nil {
		return fmt.Errorf("failed to create position index: %w", err)
	}

	return nil
}
