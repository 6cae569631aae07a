// Package engine wraps the relational engine behind a per-session handle.
//
// A Handle is opened per (session, database) pair and owned exclusively by
// that session; switching databases or disconnecting closes it. FastDB never
// interprets the statements it forwards: planning, storage and SQL
// semantics belong to the engine (DuckDB), reached through database/sql.
package engine

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Handle is a session-exclusive connection to one database's backing store.
// Writes run inside a lazily started transaction so a failing statement can
// be rolled back; reads auto-commit.
type Handle struct {
	name string
	db   *sql.DB
	tx   *sql.Tx
}

// Open dials the backing store at path for the named database.
func Open(name, path string) (*Handle, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}
	return &Handle{name: name, db: db}, nil
}

// Name returns the database name the handle is bound to.
func (h *Handle) Name() string {
	return h.name
}

// Query executes a read and fetches every result row as strings.
func (h *Handle) Query(statement string) (RowSet, error) {
	rows, err := h.db.Query(statement)
	if err != nil {
		return RowSet{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return RowSet{}, err
	}

	rs := RowSet{Columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return RowSet{}, err
		}
		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, rows.Err()
}

// Exec executes a write inside the handle's transaction, starting one if
// none is open. The caller decides between Commit and Rollback.
func (h *Handle) Exec(statement string) (ExecResult, error) {
	if h.tx == nil {
		tx, err := h.db.Begin()
		if err != nil {
			return ExecResult{}, err
		}
		h.tx = tx
	}

	res, err := h.tx.Exec(statement)
	if err != nil {
		return ExecResult{}, err
	}
	affected, _ := res.RowsAffected()
	return ExecResult{Affected: affected}, nil
}

// Commit finishes the open write transaction, if any.
func (h *Handle) Commit() error {
	if h.tx == nil {
		return nil
	}
	err := h.tx.Commit()
	h.tx = nil
	return err
}

// Rollback abandons the open write transaction, if any.
func (h *Handle) Rollback() error {
	if h.tx == nil {
		return nil
	}
	err := h.tx.Rollback()
	h.tx = nil
	return err
}

// Close rolls back any open transaction and releases the connection.
func (h *Handle) Close() error {
	if h.tx != nil {
		h.tx.Rollback()
		h.tx = nil
	}
	return h.db.Close()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}
