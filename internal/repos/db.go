package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("dsn", dsn).Msg("sqlite store ready")
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS properties(
  id TEXT PRIMARY KEY,
  image TEXT,
  description TEXT,
  address TEXT,
  price REAL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties(created_at);
`
	_, err := db.Exec(schema)
	return err
}
