package utils

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"planner-api/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the document in a SQLite database, one row per record.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Init creates the records table if it is missing. A fresh table is an
// empty document.
func (s *SQLiteStore) Init() error {
	query := `
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		position INTEGER NOT NULL,
		id INTEGER NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (collection, position)
	);
	CREATE INDEX IF NOT EXISTS idx_records_id ON records(collection, id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

// Load reads every row back into a document, in stored order.
func (s *SQLiteStore) Load() (*models.Document, error) {
	query := `
	SELECT collection, body
	FROM records
	ORDER BY collection ASC, position ASC
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	doc := models.NewDocument()
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		c, ok := models.LookupCollection(name)
		if !ok {
			return nil, fmt.Errorf("unknown collection %q in database", name)
		}
		var record models.Record
		if err := json.Unmarshal([]byte(body), &record); err != nil {
			return nil, fmt.Errorf("parse %s record: %w", name, err)
		}
		doc.SetRecords(c, append(doc.Records(c), record))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return doc, nil
}

// Save rewrites the whole table inside one transaction.
func (s *SQLiteStore) Save(doc *models.Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO records (collection, position, id, body)
	VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range models.Collections {
		for i, record := range doc.Records(c) {
			body, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("marshal %s record %d: %w", c.Name, record.ID, err)
			}
			if _, err := stmt.Exec(c.Name, i, record.ID, string(body)); err != nil {
				return fmt.Errorf("insert %s record %d: %w", c.Name, record.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
