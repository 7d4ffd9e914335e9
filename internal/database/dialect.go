package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect identifies one of the supported relational stores.
type Dialect struct {
	name       string
	driverName string
}

var (
	SQLite   = Dialect{name: "sqlite", driverName: "sqlite"}
	MySQL    = Dialect{name: "mysql", driverName: "mysql"}
	Postgres = Dialect{name: "postgres", driverName: "postgres"}
)

func (d Dialect) String() string { return d.name }

func dialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
}

// dsn adds the options each driver needs to the configured data source.
func (d Dialect) dsn(dataSourceName string) string {
	switch d {
	case SQLite:
		if strings.Contains(dataSourceName, "_pragma=foreign_keys") {
			return dataSourceName
		}
		sep := "?"
		if strings.Contains(dataSourceName, "?") {
			sep = "&"
		}
		return dataSourceName + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	case MySQL:
		if strings.Contains(dataSourceName, "parseTime=") {
			return dataSourceName
		}
		sep := "?"
		if strings.Contains(dataSourceName, "?") {
			sep = "&"
		}
		return dataSourceName + sep + "parseTime=true"
	}
	return dataSourceName
}

func (d Dialect) schema() []string {
	switch d {
	case MySQL:
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				username VARCHAR(255) NOT NULL UNIQUE,
				password VARCHAR(255) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS workouts (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				user_id BIGINT NOT NULL,
				date VARCHAR(10) NOT NULL,
				exercise VARCHAR(255) NOT NULL,
				weight DOUBLE NOT NULL,
				reps INT NOT NULL,
				sets INT NOT NULL,
				INDEX idx_workouts_user_date (user_id, date),
				FOREIGN KEY (user_id) REFERENCES users(id)
			)`,
			`CREATE TABLE IF NOT EXISTS attendance (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				user_id BIGINT NOT NULL,
				date VARCHAR(10) NOT NULL,
				UNIQUE (user_id, date),
				FOREIGN KEY (user_id) REFERENCES users(id)
			)`,
		}
	case Postgres:
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				username VARCHAR(255) UNIQUE NOT NULL,
				password VARCHAR(255) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS workouts (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id),
				date VARCHAR(10) NOT NULL,
				exercise TEXT NOT NULL,
				weight DOUBLE PRECISION NOT NULL,
				reps INTEGER NOT NULL,
				sets INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, date)`,
			`CREATE TABLE IF NOT EXISTS attendance (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id),
				date VARCHAR(10) NOT NULL,
				UNIQUE (user_id, date)
			)`,
		}
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			exercise TEXT NOT NULL,
			weight REAL NOT NULL,
			reps INTEGER NOT NULL,
			sets INTEGER NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, date)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			UNIQUE(user_id, date),
			FOREIGN KEY(user_id) REFERENCES users(id)
		)`,
	}
}

// IsUniqueViolation reports whether err is a unique or primary key
// constraint failure raised by any of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// Primary code only, when extended result codes are off.
			return strings.Contains(sqliteErr.Error(), "UNIQUE")
		}
		return false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
