package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS locations (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    capacity   INTEGER NOT NULL CHECK (capacity >= 0),
    status     TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
    notes      TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS animals (
    id                  INTEGER PRIMARY KEY,
    tag                 TEXT NOT NULL,
    name                TEXT,
    species             TEXT NOT NULL,
    status              TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
    current_location_id INTEGER REFERENCES locations(id),
    photo               BLOB,
    photo_mime          TEXT,
    notes               TEXT,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at          DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_animals_tag_active
    ON animals(tag) WHERE deleted_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_animals_location
    ON animals(current_location_id) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS transfers (
    id          INTEGER PRIMARY KEY,
    animal_id   INTEGER NOT NULL REFERENCES animals(id),
    location_id INTEGER NOT NULL REFERENCES locations(id),
    start_date  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    notes       TEXT,
    created_by  INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS samples (
    id           INTEGER PRIMARY KEY,
    animal_id    INTEGER NOT NULL REFERENCES animals(id),
    test_type    TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed')),
    result       TEXT,
    taken_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    completed_at DATETIME,
    notes        TEXT,
    created_by   INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS sales (
    id         INTEGER PRIMARY KEY,
    animal_id  INTEGER NOT NULL REFERENCES animals(id),
    buyer      TEXT NOT NULL,
    price      TEXT NOT NULL,
    sold_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    notes      TEXT,
    created_by INTEGER REFERENCES users(id)
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
