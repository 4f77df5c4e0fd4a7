package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Keys of the durable collections. One record per key; every write
// replaces the whole collection, so last-write-wins at collection
// granularity.
const (
	KeyShops      = "shops"
	KeyDepots     = "depots"
	KeyDrivers    = "drivers"
	KeyPallets    = "pallets"
	KeyHistory    = "history"
	KeyStockMoves = "stockMoves"
	KeyLastScan   = "lastScan"
)

// Store is the process-wide key/value durable store. All persistence
// goes through it; nothing else touches the database.
type Store struct {
	db *sqlx.DB
}

// Open connects to the sqlite database at path and prepares the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store open %s: %w", path, err)
	}
	s := New(db)
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already-open connection. The caller owns the schema via Init.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Init creates the kv table if it does not exist yet.
func (s *Store) Init() error {
	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Beginx starts a transaction for multi-key writes that must commit as
// one unit.
func (s *Store) Beginx() (*sqlx.Tx, error) {
	return s.db.Beginx()
}

// GetRaw returns the payload stored under key, or nil when the key has
// never been written.
func (s *Store) GetRaw(key string) ([]byte, error) {
	return getRaw(s.db, key)
}

// GetRawTx is GetRaw inside an open transaction.
func (s *Store) GetRawTx(tx *sqlx.Tx, key string) ([]byte, error) {
	return getRaw(tx, key)
}

func getRaw(q sqlx.Queryer, key string) ([]byte, error) {
	var value string
	err := sqlx.Get(q, &value, "SELECT value FROM kv WHERE key = ?", key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store get %q: %w", key, err)
	}
	return []byte(value), nil
}

// PutRaw replaces the payload stored under key.
func (s *Store) PutRaw(key string, value []byte) error {
	return putRaw(s.db, key, value)
}

// PutRawTx is PutRaw inside an open transaction.
func (s *Store) PutRawTx(tx *sqlx.Tx, key string, value []byte) error {
	return putRaw(tx, key, value)
}

func putRaw(e sqlx.Execer, key string, value []byte) error {
	const q = `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := e.Exec(q, key, string(value)); err != nil {
		return fmt.Errorf("store put %q: %w", key, err)
	}
	return nil
}

// ReadJSON unmarshals the collection under key into dest. A missing key
// or a corrupt payload leaves dest zero-valued: the store prefers an
// empty collection to a hard failure on load.
func (s *Store) ReadJSON(key string, dest any) error {
	return readJSON(s.db, key, dest)
}

// ReadJSONTx is ReadJSON inside an open transaction.
func (s *Store) ReadJSONTx(tx *sqlx.Tx, key string, dest any) error {
	return readJSON(tx, key, dest)
}

func readJSON(q sqlx.Queryer, key string, dest any) error {
	raw, err := getRaw(q, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("corrupt payload, falling back to empty collection")
		return nil
	}
	return nil
}

// WriteJSON marshals v and stores it under key.
func (s *Store) WriteJSON(key string, v any) error {
	return writeJSON(s.db, key, v)
}

// WriteJSONTx is WriteJSON inside an open transaction.
func (s *Store) WriteJSONTx(tx *sqlx.Tx, key string, v any) error {
	return writeJSON(tx, key, v)
}

func writeJSON(e sqlx.Execer, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store marshal %q: %w", key, err)
	}
	return putRaw(e, key, raw)
}
