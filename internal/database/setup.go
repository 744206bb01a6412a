package database

import (
	"database/sql"
	"fmt"

	"concord-backend/internal/models"
)

func setPragmaValues(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	// these next 2 extremely speed up performance of sqlite
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA synchronous = normal"); err != nil {
		return err
	}

	return nil
}

func Setup(cfg *models.ConfigFile) (*sql.DB, error) {
	var db *sql.DB
	var err error

	if cfg.SelfContained {
		db, err = sql.Open("sqlite", "./database.db")
		if err != nil {
			return nil, err
		}

		// there can be sqlite busy errors if this is not set to 1
		db.SetMaxOpenConns(1)

		if err := setPragmaValues(db); err != nil {
			return nil, err
		}
	} else {
		db, err = sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&timeout=10s",
			cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase))
		if err != nil {
			return nil, err
		}

		db.SetMaxOpenConns(10)
	}

	if err := CreateTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

// CreateTables bootstraps the schema. Statements are portable between
// mariadb/mysql and sqlite.
func CreateTables(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id BIGINT PRIMARY KEY,
			email VARCHAR(64) NOT NULL UNIQUE,
			username VARCHAR(32) NOT NULL UNIQUE,
			display_name VARCHAR(64) NOT NULL,
			picture TEXT,
			password BINARY(60) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS servers (
			id BIGINT PRIMARY KEY,
			owner_id BIGINT NOT NULL,
			name VARCHAR(64) NOT NULL,
			picture TEXT,
			banner TEXT,
			FOREIGN KEY (owner_id) REFERENCES profiles(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS members (
			id BIGINT PRIMARY KEY,
			server_id BIGINT NOT NULL,
			profile_id BIGINT NOT NULL,
			role VARCHAR(9) NOT NULL DEFAULT 'GUEST',
			since TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (server_id, profile_id),
			FOREIGN KEY (server_id) REFERENCES servers(id) ON DELETE CASCADE,
			FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS channels (
			id BIGINT PRIMARY KEY,
			server_id BIGINT NOT NULL,
			name VARCHAR(32) NOT NULL,
			type VARCHAR(5) NOT NULL DEFAULT 'TEXT',
			FOREIGN KEY (server_id) REFERENCES servers(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGINT PRIMARY KEY,
			channel_id BIGINT NOT NULL,
			member_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			file_url TEXT,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			edited BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (channel_id) REFERENCES channels(id) ON DELETE CASCADE,
			FOREIGN KEY (member_id) REFERENCES members(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGINT PRIMARY KEY,
			member_one_id BIGINT NOT NULL,
			member_two_id BIGINT NOT NULL,
			UNIQUE (member_one_id, member_two_id),
			FOREIGN KEY (member_one_id) REFERENCES members(id) ON DELETE CASCADE,
			FOREIGN KEY (member_two_id) REFERENCES members(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS direct_messages (
			id BIGINT PRIMARY KEY,
			conversation_id BIGINT NOT NULL,
			member_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			file_url TEXT,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			edited BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE,
			FOREIGN KEY (member_id) REFERENCES members(id) ON DELETE CASCADE
		);`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return err
		}
	}

	return nil
}
