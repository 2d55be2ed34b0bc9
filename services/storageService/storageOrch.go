package storageService

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Gavin-Payne/Adrenyline-sub001/models"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database named by rawURL. URLs are parsed with dburl
// (mysql://, postgres://, sqlserver://, sqlite:); a bare go-sql-driver DSN
// such as user:pass@tcp(host:3306)/db is accepted as MySQL.
func Open(rawURL string) (*gorm.DB, error) {
	dialector, err := dialectorFor(rawURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func dialectorFor(rawURL string) (gorm.Dialector, error) {
	if rawURL == "" {
		return nil, errors.New("database url is empty")
	}
	if strings.Contains(rawURL, "@tcp(") {
		return mysql.Open(withParseTime(rawURL)), nil
	}

	u, err := dburl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	switch u.Driver {
	case "mysql":
		return mysql.Open(withParseTime(u.DSN)), nil
	case "postgres", "pgx":
		return postgres.Open(u.DSN), nil
	case "sqlserver":
		connector, err := mssql.NewConnector(u.DSN)
		if err != nil {
			return nil, fmt.Errorf("sqlserver connector: %w", err)
		}
		return sqlserver.New(sqlserver.Config{Conn: sql.OpenDB(connector)}), nil
	case "sqlite3", "sqlite":
		return sqlite.Open(u.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", u.Driver)
	}
}

// time columns are scanned into time.Time only with parseTime enabled.
func withParseTime(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=True"
	}
	return dsn + "?parseTime=True"
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
