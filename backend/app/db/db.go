package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	// Path is the sqlite file (or a file: URI for in-memory databases).
	Path string
}

// sqlite waits this long for a competing writer instead of failing with
// "database is locked".
const sqliteBusyTimeout = 5 * time.Second

func Connect(cfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn), TranslateError: true})
}

func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		return mysql.Open(MySQLDSN(cfg)), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC", cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(SQLiteDSN(cfg.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

// MySQLDSN uses a binary collation so usernames compare case-sensitively.
func MySQLDSN(cfg Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_bin&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
}

// SQLiteDSN makes every transaction take the write lock at BEGIN and wait
// for it, so read-then-write transactions never fail on lock upgrade.
// File databases also switch to WAL so readers do not block the writer.
func SQLiteDSN(path string) string {
	params := []string{
		"_txlock=immediate",
		fmt.Sprintf("_busy_timeout=%d", sqliteBusyTimeout.Milliseconds()),
	}
	if path != ":memory:" && !strings.Contains(path, "mode=memory") {
		params = append(params, "_journal_mode=WAL")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// Migrate creates or updates the tables for models. MySQL tables get a
// binary default collation to match the connection.
func Migrate(gdb *gorm.DB, models ...any) error {
	if gdb.Dialector.Name() == "mysql" {
		gdb = gdb.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin")
	}
	return gdb.AutoMigrate(models...)
}
