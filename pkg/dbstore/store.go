package dbstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoDBObject error is returned by [New] when nil `db` argument is passed
var ErrNoDBObject = errors.New("nil DB connection passed")

// DBStore is a connection to the DB the server requires to start.
type DBStore struct {
	db *gorm.DB
}

// New wraps an open GORM connection.
func New(db *gorm.DB) (*DBStore, error) {
	if db == nil {
		return nil, ErrNoDBObject
	}

	return &DBStore{db: db}, nil
}

// Open connects to the DB selected by config.
func Open(config Config) (*DBStore, error) {
	dialector, err := config.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	return New(db)
}

// Ping implements [bark.Pinger] interface for the DBStore, using SQL DB PingContext,
// which send empty "SELECT" to the DB to check if it is able to process requests.
func (s *DBStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access DB interface: %w", err)
	}

	return sqlDB.PingContext(ctx)
}

// Close releases the underlying DB connection pool.
func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access DB interface: %w", err)
	}

	return sqlDB.Close()
}
