// Package sqlite is the decision journal: every emitted evaluation is
// appended to a local SQLite table so decisions can be audited and
// replayed offline.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"crypto-sentinelv1/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one journaled decision.
type Entry struct {
	ID        int64
	TS        time.Time
	Symbol    string
	Action    model.Action
	Strength  model.Strength
	Price     float64
	Trend     string
	Score     int
	Message   string
	Vector    map[string]string
	MessageID string // detail id in the state cache, empty when not notified
	Notified  bool
}

// Journal appends decisions to a WAL-mode SQLite database.
type Journal struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (j *Journal) DB() *sql.DB { return j.db }

// Open opens (creating if needed) the journal database.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened decision journal at %s", path)
	return &Journal{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			ts         INTEGER NOT NULL,
			symbol     TEXT    NOT NULL,
			action     TEXT    NOT NULL,
			strength   TEXT    NOT NULL,
			price      REAL    NOT NULL,
			trend      TEXT    NOT NULL,
			score      INTEGER NOT NULL,
			message    TEXT    NOT NULL,
			vector     TEXT    NOT NULL,
			message_id TEXT,
			notified   INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_decisions_symbol_ts ON decisions (symbol, ts);
	`)
	return err
}

// Append journals one decision.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	vector, err := json.Marshal(e.Vector)
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}
	notified := 0
	if e.Notified {
		notified = 1
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO decisions (ts, symbol, action, strength, price, trend, score, message, vector, message_id, notified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TS.UnixMilli(), e.Symbol, string(e.Action), string(e.Strength), e.Price,
		e.Trend, e.Score, e.Message, string(vector), e.MessageID, notified,
	)
	if err != nil {
		return fmt.Errorf("append decision for %s: %w", e.Symbol, err)
	}
	return nil
}

// Recent returns up to limit most-recent entries for a symbol, newest
// first.
func (j *Journal) Recent(ctx context.Context, symbol string, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, ts, symbol, action, strength, price, trend, score, message, vector, message_id, notified
		FROM decisions WHERE symbol = ? ORDER BY ts DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions for %s: %w", symbol, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			ts        int64
			action    string
			strength  string
			vector    string
			messageID sql.NullString
			notified  int
		)
		if err := rows.Scan(&e.ID, &ts, &e.Symbol, &action, &strength, &e.Price,
			&e.Trend, &e.Score, &e.Message, &vector, &messageID, &notified); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.TS = time.UnixMilli(ts)
		e.Action = model.Action(action)
		e.Strength = model.Strength(strength)
		e.MessageID = messageID.String
		e.Notified = notified != 0
		if err := json.Unmarshal([]byte(vector), &e.Vector); err != nil {
			return nil, fmt.Errorf("unmarshal vector: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
