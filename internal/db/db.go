package db

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/garagedesk/garagedesk/internal/models"
)

var passwordRegex = regexp.MustCompile(`(password=)([^\s]+)`)

// Connect opens the database behind the durable storage boundary and brings
// the schema up to date. sqlite paths and postgres DSNs are both accepted.
// Postgres connections are retried since the server may still be starting.
func Connect(rawDSN string, log zerolog.Logger) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("empty database DSN")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	if IsPostgres(dsn) {
		for i := 0; i < 10; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			log.Warn().Err(err).Msg("retrying db connection")
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			return nil, fmt.Errorf("connect database after retries: %w", err)
		}
	} else {
		if conn, err = gorm.Open(sqlite.Open(dsn), cfg); err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	}

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Info().Str("dsn", maskDSN(dsn)).Msg("database connected")

	// MIGRATIONS=1 runs SQL migrations via golang-migrate (postgres only);
	// otherwise AutoMigrate keeps the dev loop simple.
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); (v == "1" || v == "true" || v == "yes") && IsPostgres(dsn) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(conn); err != nil {
			return nil, err
		}
	}
	return conn, nil
}

// AutoMigrate creates or updates the tables for every collection the state
// store mirrors.
func AutoMigrate(conn *gorm.DB) error {
	toMigrate := []interface{}{
		&models.User{}, &models.GarageProfile{}, &models.Category{},
		&models.Stock{}, &models.Service{}, &models.Customer{}, &models.Invoice{},
	}
	for _, m := range toMigrate {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func maskDSN(dsn string) string {
	masked := passwordRegex.ReplaceAllString(dsn, `${1}***`)
	if u := strings.Index(masked, "://"); u >= 0 {
		if at := strings.Index(masked, "@"); at > u {
			masked = masked[:u+3] + "***" + masked[at:]
		}
	}
	return masked
}

// runSQLMigrations executes migrations in ./migrations using the file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
