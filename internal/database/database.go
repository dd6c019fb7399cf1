package database

import (
	"context"
	"fmt"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	*gorm.DB
	config config.DatabaseConfig
}

// Connect opens the PostgreSQL catalog store, migrates the schema and seeds
// the reference genres.
func Connect(cfg config.DatabaseConfig, genres []string) (*Database, error) {
	return Open(postgres.Open(cfg.DSN()), cfg, genres)
}

// Open is Connect for an arbitrary gorm dialector.
func Open(dialector gorm.Dialector, cfg config.DatabaseConfig, genres []string) (*Database, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true, // Enable prepared statement cache
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Failed to get underlying sql.DB")
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		logrus.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	logrus.Info("Database connection established successfully")

	database := &Database{
		DB:     db,
		config: cfg,
	}

	if err := autoMigrate(db); err != nil {
		logrus.WithError(err).Error("Failed to run auto migration")
		return nil, fmt.Errorf("failed to run auto migration: %w", err)
	}

	if err := seedGenres(db, genres); err != nil {
		logrus.WithError(err).Error("Failed to seed genres")
		return nil, fmt.Errorf("failed to seed genres: %w", err)
	}

	return database, nil
}

func (d *Database) WithContext(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}

func (d *Database) GetQueryTimeout() time.Duration {
	return d.config.QueryTimeout
}

// AtomicWrites reports whether multi-row writes share one transaction.
func (d *Database) AtomicWrites() bool {
	return d.config.AtomicWrites
}

// Session runs fn against a handle scoped to one logical call. With atomic
// writes fn runs inside a transaction that is rolled back when fn fails;
// otherwise every statement fn issues commits on its own.
func (d *Database) Session(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if d.config.AtomicWrites {
		return d.DB.WithContext(ctx).Transaction(fn)
	}
	return fn(d.DB.WithContext(ctx))
}

func (d *Database) HealthCheck() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func autoMigrate(db *gorm.DB) error {
	logrus.Info("Running auto migration...")

	err := db.AutoMigrate(
		&models.Movie{},
		&models.Genre{},
		&models.MovieGenre{},
	)

	if err != nil {
		return err
	}

	logrus.Info("Auto migration completed successfully")
	return nil
}

// seedGenres inserts any missing reference genre. Existing rows are kept.
func seedGenres(db *gorm.DB, names []string) error {
	for _, name := range names {
		var genre models.Genre
		if err := db.Where("name = ?", name).FirstOrCreate(&genre, models.Genre{Name: name}).Error; err != nil {
			return err
		}
	}

	logrus.WithField("genres", len(names)).Info("Genre table seeded")
	return nil
}
