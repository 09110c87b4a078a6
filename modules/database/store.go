package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Driver identifies the store backend selected by the connection URI.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMongo    Driver = "mongodb"
)

const connectTimeout = 10 * time.Second

// ErrNotConnected is returned when the store is used before Open or after Close.
var ErrNotConnected = errors.New("store not connected")

// Options configures how a Store is opened.
type Options struct {
	// DatabaseName is used for MongoDB when the URI carries no database path.
	DatabaseName string
	// Debug enables GORM query logging.
	Debug bool
}

// Store is an open connection to one of the supported backends. Exactly one
// of Gorm or Mongo is non-nil.
type Store struct {
	driver Driver
	target string
	gormDB *gorm.DB
	client *mongo.Client
	mongo  *mongo.Database
}

// Open connects to the store addressed by uri.
func Open(ctx context.Context, uri string, opts Options) (*Store, error) {
	driver, target := ParseURI(uri)

	switch driver {
	case DriverMongo:
		return openMongo(ctx, uri, opts)
	case DriverPostgres:
		db, err := gorm.Open(postgres.Open(target), gormConfig(opts))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &Store{driver: driver, target: redact(uri), gormDB: db}, nil
	default:
		db, err := gorm.Open(sqlite.Open(target), gormConfig(opts))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		if isMemorySQLite(target) {
			// Every connection to :memory: is a separate database.
			sqlDB, err := db.DB()
			if err != nil {
				return nil, fmt.Errorf("failed to get database connection: %w", err)
			}
			sqlDB.SetMaxOpenConns(1)
		}
		return &Store{driver: DriverSQLite, target: target, gormDB: db}, nil
	}
}

// ParseURI returns the backend for uri and the DSN handed to its driver.
func ParseURI(uri string) (Driver, string) {
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return DriverMongo, uri
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return DriverPostgres, uri
	case strings.HasPrefix(uri, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(uri, "sqlite://")
	default:
		return DriverSQLite, uri
	}
}

func openMongo(ctx context.Context, uri string, opts Options) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	name := mongoDatabaseName(uri, opts.DatabaseName)
	return &Store{
		driver: DriverMongo,
		target: redact(uri),
		client: client,
		mongo:  client.Database(name),
	}, nil
}

func mongoDatabaseName(uri, fallback string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return fallback
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return fallback
}

func gormConfig(opts Options) *gorm.Config {
	level := logger.Silent
	if opts.Debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

func isMemorySQLite(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// redact strips credentials from a connection URI for logging.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	u.User = url.User(u.User.Username())
	return u.String()
}

// Driver returns the backend in use.
func (s *Store) Driver() Driver {
	return s.driver
}

// Target returns a printable description of the connection.
func (s *Store) Target() string {
	return s.target
}

// Gorm returns the relational connection, or nil for document stores.
func (s *Store) Gorm() *gorm.DB {
	return s.gormDB
}

// Mongo returns the document database, or nil for relational stores.
func (s *Store) Mongo() *mongo.Database {
	return s.mongo
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.client != nil:
		return s.client.Ping(ctx, readpref.Primary())
	case s.gormDB != nil:
		sqlDB, err := s.gormDB.DB()
		if err != nil {
			return fmt.Errorf("failed to get database connection: %w", err)
		}
		return sqlDB.PingContext(ctx)
	default:
		return ErrNotConnected
	}
}

// Close releases the connection.
func (s *Store) Close(ctx context.Context) error {
	switch {
	case s.client != nil:
		err := s.client.Disconnect(ctx)
		s.client, s.mongo = nil, nil
		return err
	case s.gormDB != nil:
		sqlDB, err := s.gormDB.DB()
		s.gormDB = nil
		if err != nil {
			return fmt.Errorf("failed to get database connection: %w", err)
		}
		return sqlDB.Close()
	default:
		return nil
	}
}
