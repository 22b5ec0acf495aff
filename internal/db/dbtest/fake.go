// Package dbtest provides an in-memory db.Querier for store tests. It records
// every statement and answers lookups from queues of canned rows.
package dbtest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call is one recorded statement.
type Call struct {
	SQL  string
	Args []any
}

// Fake implements db.Querier. Rows queued with PushRow answer QueryRow in
// order; once the queue is empty QueryRow reports pgx.ErrNoRows. Result sets
// queued with PushRows answer Query the same way.
type Fake struct {
	mu       sync.Mutex
	Calls    []Call
	rows     [][]any
	sets     [][][]any
	ExecErr  error
	QueryErr error
	RowErr   error
	Affected int64
}

// PushRows queues the result set of the next Query call.
func (f *Fake) PushRows(rows ...[]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = append(f.sets, rows)
}

// PushRow queues the column values of the next QueryRow answer.
func (f *Fake) PushRow(values ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, values)
}

func (f *Fake) record(sql string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{SQL: sql, Args: args})
}

// Last returns the most recent call.
func (f *Fake) Last() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return Call{}
	}
	return f.Calls[len(f.Calls)-1]
}

func (f *Fake) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	if f.ExecErr != nil {
		return pgconn.CommandTag{}, f.ExecErr
	}
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", f.Affected)), nil
}

func (f *Fake) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sets) == 0 {
		return nil, fmt.Errorf("dbtest: no result set queued for Query")
	}
	set := f.sets[0]
	f.sets = f.sets[1:]
	return &rows{set: set, pos: -1}, nil
}

// Begin always fails; transactional code paths need a real database.
func (f *Fake) Begin(context.Context) (pgx.Tx, error) {
	f.record("BEGIN", nil)
	return nil, fmt.Errorf("dbtest: transactions not supported")
}

func (f *Fake) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	if f.RowErr != nil {
		return row{err: f.RowErr}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rows) == 0 {
		return row{err: pgx.ErrNoRows}
	}
	values := f.rows[0]
	f.rows = f.rows[1:]
	return row{values: values}
}

type row struct {
	values []any
	err    error
}

// Scan assigns queued values to dest by reflection. A nil value leaves the
// destination at its zero value.
func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("dbtest: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, d := range dest {
		if r.values[i] == nil {
			continue
		}
		dv := reflect.ValueOf(d).Elem()
		vv := reflect.ValueOf(r.values[i])
		if !vv.Type().AssignableTo(dv.Type()) {
			return fmt.Errorf("dbtest: column %d: cannot assign %s to %s", i, vv.Type(), dv.Type())
		}
		dv.Set(vv)
	}
	return nil
}

// rows walks a queued result set. Only Next, Scan, Err and Close carry
// behaviour; the rest satisfy pgx.Rows.
type rows struct {
	set    [][]any
	pos    int
	err    error
	closed bool
}

func (r *rows) Close()                                       { r.closed = true }
func (r *rows) Err() error                                   { return r.err }
func (r *rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rows) RawValues() [][]byte                          { return nil }
func (r *rows) Conn() *pgx.Conn                              { return nil }

func (r *rows) Next() bool {
	if r.closed || r.err != nil || r.pos+1 >= len(r.set) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.set) {
		return fmt.Errorf("dbtest: Scan called without Next")
	}
	if err := (row{values: r.set[r.pos]}).Scan(dest...); err != nil {
		r.err = err
		return err
	}
	return nil
}

func (r *rows) Values() ([]any, error) {
	if r.pos < 0 || r.pos >= len(r.set) {
		return nil, fmt.Errorf("dbtest: Values called without Next")
	}
	return r.set[r.pos], nil
}
