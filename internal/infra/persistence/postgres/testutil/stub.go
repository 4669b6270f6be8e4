// Package testutil provides a database/sql driver that understands the few
// statements the postgres fetch ledger issues, so the ledger can be tested
// without a server.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

var stubSeq atomic.Int64

// StubConn keeps tables as rows of column -> value. Inserts upsert on their
// first column; deletes match the single column in their WHERE clause.
type StubConn struct {
	Execs      []string
	Tables     map[string][]map[string]any
	FailExec   bool            // fail Ping and every Exec
	FailTables map[string]bool // fail statements touching these tables
	RowsErr    error           // returned once rows are exhausted
}

// NewStubDB returns a sql.DB whose every connection is the returned StubConn.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Tables: make(map[string][]map[string]any)}
	name := fmt.Sprintf("ledgerstub%d", stubSeq.Add(1))
	sql.Register(name, stubDriver{conn: conn})
	db, err := sql.Open(name, "")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct{ conn *StubConn }

func (d stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

var errUnsupported = errors.New("stub: unsupported")

func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, errUnsupported }
func (c *StubConn) Begin() (driver.Tx, error)           { return nil, errUnsupported }
func (c *StubConn) Close() error                        { return nil }

func (c *StubConn) Ping(context.Context) error {
	if c.FailExec {
		return errors.New("stub: ping failed")
	}
	return nil
}

func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, errors.New("stub: exec failed")
	}
	words := strings.Fields(strings.ToLower(query))
	if len(words) < 3 {
		return nil, fmt.Errorf("stub: cannot parse %q", query)
	}
	switch words[0] {
	case "create":
		return driver.RowsAffected(0), nil
	case "insert":
		return c.upsert(query, args)
	case "delete":
		return c.delete(query, args)
	}
	return nil, fmt.Errorf("stub: cannot parse %q", query)
}

func (c *StubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	lower := strings.ToLower(query)
	from := strings.Index(lower, " from ")
	if !strings.HasPrefix(lower, "select ") || from < 0 {
		return nil, fmt.Errorf("stub: cannot parse %q", query)
	}
	table := strings.Fields(lower[from+len(" from "):])[0]
	if err := c.check(table); err != nil {
		return nil, err
	}
	cols := columns(query[len("select "):from])
	rows := &stubRows{cols: cols, err: c.RowsErr}
	for _, row := range c.Tables[table] {
		vals := make([]driver.Value, len(cols))
		for i, col := range cols {
			vals[i] = row[col]
		}
		rows.rows = append(rows.rows, vals)
	}
	return rows, nil
}

func (c *StubConn) check(table string) error {
	if c.FailTables[table] {
		return fmt.Errorf("stub: %s unavailable", table)
	}
	return nil
}

// upsert handles INSERT INTO t(c1,...) VALUES(...) [ON CONFLICT ...].
func (c *StubConn) upsert(query string, args []driver.NamedValue) (driver.Result, error) {
	lower := strings.ToLower(query)
	into := strings.Index(lower, "into ")
	open := strings.Index(lower, "(")
	end := strings.Index(lower, ")")
	if into < 0 || open < into || end < open {
		return nil, fmt.Errorf("stub: cannot parse %q", query)
	}
	table := strings.TrimSpace(lower[into+len("into ") : open])
	if err := c.check(table); err != nil {
		return nil, err
	}
	cols := columns(query[open+1 : end])
	if len(cols) != len(args) {
		return nil, fmt.Errorf("stub: %d columns, %d args", len(cols), len(args))
	}
	row := make(map[string]any, len(cols))
	for i, col := range cols {
		row[col] = args[i].Value
	}
	c.Tables[table] = append(without(c.Tables[table], cols[0], row[cols[0]]), row)
	return driver.RowsAffected(1), nil
}

// delete handles DELETE FROM t WHERE col=$1.
func (c *StubConn) delete(query string, args []driver.NamedValue) (driver.Result, error) {
	words := strings.Fields(strings.ToLower(query))
	if len(words) < 5 || words[1] != "from" || words[3] != "where" || len(args) == 0 {
		return nil, fmt.Errorf("stub: cannot parse %q", query)
	}
	table := words[2]
	if err := c.check(table); err != nil {
		return nil, err
	}
	col := strings.TrimSpace(strings.SplitN(words[4], "=", 2)[0])
	before := len(c.Tables[table])
	c.Tables[table] = without(c.Tables[table], col, args[0].Value)
	return driver.RowsAffected(before - len(c.Tables[table])), nil
}

func without(rows []map[string]any, col string, value any) []map[string]any {
	var out []map[string]any
	for _, r := range rows {
		if r[col] != value {
			out = append(out, r)
		}
	}
	return out
}

func columns(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	err  error
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if len(r.rows) == 0 {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[0])
	r.rows = r.rows[1:]
	return nil
}
