package storage

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion последняя версия схемы
const CurrentSchemaVersion = 1

// nowMillis текущее время хранилища в миллисекундах Unix
const nowMillis = `CAST((julianday('now') - 2440587.5) * 86400000 AS INTEGER)`

// Open открывает (и при необходимости создаёт) базу baseDir/leafdoctor.db
func Open(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "leafdoctor.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0o600)
	return db, nil
}

// migrate применяет миграции по user_version
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS history (
		  id            TEXT PRIMARY KEY,
		  owner_id      TEXT NOT NULL,
		  disease_label TEXT NOT NULL,
		  summary       TEXT NOT NULL,
		  treatment     TEXT NOT NULL,
		  language      TEXT NOT NULL,
		  severity      TEXT,
		  created_at    INTEGER NOT NULL DEFAULT (` + nowMillis + `)
		);

		CREATE INDEX IF NOT EXISTS idx_history_owner
		ON history(owner_id);

		CREATE TABLE IF NOT EXISTS articles (
		  id         TEXT PRIMARY KEY,
		  title      TEXT NOT NULL,
		  summary    TEXT NOT NULL,
		  category   TEXT,
		  created_at INTEGER
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

// GetUserVersion возвращает версию схемы (pragma user_version)
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion записывает версию схемы
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newID выдаёт идентификатор документа
func newID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func fromMillis(ms sql.NullInt64) time.Time {
	if !ms.Valid {
		return time.Time{}
	}
	return time.UnixMilli(ms.Int64).UTC()
}

func toMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
