package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore keeps every collection in a single `documents` table with a
// (collection, id) primary key and the record serialized into a JSON
// column.  Filtering happens in process after scanning the collection;
// collections here are small and the contract promises no query planner.
type MySQLStore struct {
	db *sql.DB
}

// OpenMySQL connects to MySQL, verifies the connection and ensures the
// documents table exists.
func OpenMySQL(user, pass, host, port, name string) (*MySQLStore, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	s := &MySQLStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) ensureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS documents (
        collection VARCHAR(64)  NOT NULL,
        id         VARCHAR(64)  NOT NULL,
        doc        JSON         NOT NULL,
        updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        PRIMARY KEY (collection, id)
    )`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// DB exposes the underlying pool for health checks.
func (s *MySQLStore) DB() *sql.DB { return s.db }

func (s *MySQLStore) Get(ctx context.Context, collection, id string, out any) error {
	const q = `SELECT doc FROM documents WHERE collection = ? AND id = ?`
	var raw []byte
	err := s.db.QueryRowContext(ctx, q, collection, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrNoDocument
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *MySQLStore) Put(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	const q = `INSERT INTO documents (collection, id, doc) VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE doc = VALUES(doc)`
	_, err = s.db.ExecContext(ctx, q, collection, id, raw)
	return err
}

func (s *MySQLStore) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM documents WHERE collection = ? AND id = ?`
	res, err := s.db.ExecContext(ctx, q, collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoDocument
	}
	return nil
}

func (s *MySQLStore) Find(ctx context.Context, collection string, filter Filter) ([]json.RawMessage, error) {
	const q = `SELECT doc FROM documents WHERE collection = ?`
	rows, err := s.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		if matches(raw, filter) {
			out = append(out, json.RawMessage(raw))
		}
	}
	return out, rows.Err()
}

func (s *MySQLStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	docs, err := s.Find(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}
