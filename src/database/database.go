package database

import (
	"database/sql"
	stdlog "log"

	_ "modernc.org/sqlite"

	"github.com/username/portfolion/backend/src/logger"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database schema for:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS canonical_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		ticker TEXT NOT NULL,
		isin TEXT,
		product_name TEXT,
		quantity REAL NOT NULL DEFAULT 0,
		unit_price REAL NOT NULL DEFAULT 0,
		amount REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL,
		amount_base REAL NOT NULL DEFAULT 0,
		exchange_rate REAL NOT NULL DEFAULT 1,
		rate_source TEXT,
		fee_base REAL NOT NULL DEFAULT 0,
		platform TEXT NOT NULL,
		asset_class TEXT,
		kind TEXT NOT NULL,
		country_code TEXT,
		notes TEXT,
		hash_id TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_canonical_transactions_date
		ON canonical_transactions(date);
	CREATE INDEX IF NOT EXISTS idx_canonical_transactions_platform
		ON canonical_transactions(platform);
	`
	if _, err := DB.Exec(createTableStatement); err != nil {
		stdlog.Fatalf("failed to create database schema: %v", err)
	}
}
