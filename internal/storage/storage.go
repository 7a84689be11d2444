package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	sqliteMaxOpenConns = 1
)

// ErrNotFound is returned when a looked up record does not exist.
var ErrNotFound = errors.New("record not found")

type Storage struct {
	db *gorm.DB
}

// Open connects to the database and migrates every table.
func Open(driver, dsn string, logger gormlogger.Interface) (*Storage, error) {
	db, err := getDB(driver, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(sqliteMaxOpenConns)
	}

	return New(db)
}

// New wraps an already opened connection.
func New(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(
		&Guild{},
		&DisabledCommand{},
		&CommandHistory{},
		&Quote{},
		&Sladder{},
		&Ticket{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Storage{db: db}, nil
}

func getDB(driver, dsn string, logger gormlogger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "tbl_",
			SingularTable: true,
		},
	}

	switch driver {
	case DriverSQLite:
		if !strings.Contains(dsn, ":memory:") {
			if parent := filepath.Dir(dsn); parent != "" {
				if err := os.MkdirAll(parent, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
					return nil, err
				}
			}
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	case DriverPostgres:
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q (must be %q or %q)", driver, DriverSQLite, DriverPostgres)
	}
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Stats holds row counts reported by the ping command and the web endpoint.
type Stats struct {
	Guilds      int64 `json:"guilds"`
	Quotes      int64 `json:"quotes"`
	Sladders    int64 `json:"sladders"`
	Tickets     int64 `json:"tickets"`
	OpenTickets int64 `json:"open_tickets"`
	Commands    int64 `json:"commands"`
}

func (s *Storage) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)

	counts := []struct {
		model any
		dest  *int64
		where string
	}{
		{model: &Guild{}, dest: &st.Guilds},
		{model: &Quote{}, dest: &st.Quotes},
		{model: &Sladder{}, dest: &st.Sladders},
		{model: &Ticket{}, dest: &st.Tickets},
		{model: &Ticket{}, dest: &st.OpenTickets, where: "closed_at IS NULL"},
		{model: &CommandHistory{}, dest: &st.Commands},
	}

	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return Stats{}, err
		}
	}
	return st, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
