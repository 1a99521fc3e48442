// +build ignore

// 一次性建表脚本: go run scripts/create_tables.go
package main

import (
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"cryolab-data/internal/config"
	"cryolab-data/internal/database"
)

const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id        UUID PRIMARY KEY,
	user_name         TEXT NOT NULL,
	session_date      DATE NOT NULL,
	grid_box_name     TEXT NOT NULL,
	storage_location  TEXT,
	notes             TEXT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_sessions_user_name ON sessions (user_name);
CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions (session_date);

CREATE TABLE IF NOT EXISTS vitrobot_settings (
	session_id                 UUID PRIMARY KEY REFERENCES sessions (session_id) ON DELETE CASCADE,
	humidity_percent           DOUBLE PRECISION,
	temperature_c              DOUBLE PRECISION,
	blot_force                 INTEGER,
	blot_time_sec              DOUBLE PRECISION,
	wait_time_sec              DOUBLE PRECISION,
	drain_time_sec             DOUBLE PRECISION,
	glow_discharge_applied     BOOLEAN,
	glow_discharge_current_ma  DOUBLE PRECISION,
	glow_discharge_time_sec    INTEGER
);

CREATE TABLE IF NOT EXISTS grid_info (
	session_id        UUID PRIMARY KEY REFERENCES sessions (session_id) ON DELETE CASCADE,
	grid_type         TEXT,
	grid_batch        TEXT,
	storage_location  TEXT,
	hole_type         TEXT
);

CREATE TABLE IF NOT EXISTS samples (
	sample_id             UUID PRIMARY KEY,
	session_id            UUID NOT NULL REFERENCES sessions (session_id) ON DELETE CASCADE,
	slot_number           INTEGER,
	sample_name           TEXT NOT NULL,
	sample_concentration  TEXT,
	additives             TEXT,
	default_volume_ul     DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS idx_samples_session ON samples (session_id);

CREATE TABLE IF NOT EXISTS grid_preparations (
	slot_id                 UUID PRIMARY KEY,
	session_id              UUID NOT NULL REFERENCES sessions (session_id) ON DELETE CASCADE,
	slot_number             INTEGER NOT NULL,
	include_in_session      BOOLEAN NOT NULL DEFAULT FALSE,
	trashed                 BOOLEAN NOT NULL DEFAULT FALSE,
	volume_override_ul      DOUBLE PRECISION,
	blot_force_override     INTEGER,
	blot_time_override_sec  DOUBLE PRECISION,
	grid_batch_override     TEXT,
	additives_override      TEXT,
	grid_type_override      TEXT,
	volume_ul               DOUBLE PRECISION,
	blot_force              INTEGER,
	blot_time_sec           DOUBLE PRECISION,
	grid_batch              TEXT,
	additives               TEXT,
	grid_type               TEXT,
	sample_name             TEXT,
	sample_concentration    TEXT,
	default_volume_ul       DOUBLE PRECISION,
	comments                TEXT,
	UNIQUE (session_id, slot_number)
);

CREATE TABLE IF NOT EXISTS grid_types (
	grid_type_id  UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	manufacturer  TEXT,
	material      TEXT,
	mesh_size     INTEGER,
	hole_size_um  DOUBLE PRECISION,
	film_type     TEXT
);

CREATE TABLE IF NOT EXISTS grid_batches (
	batch_id            UUID PRIMARY KEY,
	grid_type_id        UUID NOT NULL REFERENCES grid_types (grid_type_id) ON DELETE CASCADE,
	batch_code          TEXT NOT NULL,
	received_date       DATE,
	quantity_remaining  INTEGER,
	notes               TEXT
);
CREATE INDEX IF NOT EXISTS idx_grid_batches_type ON grid_batches (grid_type_id);

CREATE TABLE IF NOT EXISTS microscope_sessions (
	microscope_session_id  UUID PRIMARY KEY,
	session_id             UUID NOT NULL REFERENCES sessions (session_id) ON DELETE CASCADE,
	slot_number            INTEGER NOT NULL,
	microscope             TEXT NOT NULL,
	operator               TEXT NOT NULL,
	session_date           DATE NOT NULL,
	magnification          INTEGER,
	images_collected       INTEGER,
	dose_rate              DOUBLE PRECISION,
	notes                  TEXT,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_microscope_sessions_session ON microscope_sessions (session_id);

CREATE TABLE IF NOT EXISTS posts (
	post_id     UUID PRIMARY KEY,
	title       TEXT NOT NULL,
	body        TEXT NOT NULL,
	author      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func main() {
	cfg := &config.DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Database: getEnv("DB_NAME", "cryolab"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := db.Exec(ddl); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute DDL: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("All tables created")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
