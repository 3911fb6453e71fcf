package store

import (
	"context"
	"errors"
	"reflect"
)

// fakeQuerier is a RowQuerier over canned columns and rows
type fakeQuerier struct {
	cols     []string
	data     [][]any
	queryErr error
	rowsErr  error
	lastSQL  string
	lastArgs []any
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{cols: f.cols, data: f.data, idx: -1, err: f.rowsErr}, nil
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	rs, err := f.Query(ctx, sql, args...)
	return &fakeRow{rows: rs, err: err}
}

type fakeRow struct {
	rows Rows
	err  error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	defer r.rows.Close()
	if !r.rows.Next() {
		return errors.New("no rows in result set")
	}
	return r.rows.Scan(dest...)
}

type fakeRows struct {
	cols   []string
	data   [][]any
	idx    int
	err    error
	closed bool
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            { r.closed = true }
func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(row) != len(dest) {
		return errors.New("dest len mismatch")
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i]).Elem()
		if row[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		val := reflect.ValueOf(row[i])
		switch {
		case val.Type().AssignableTo(dv.Type()):
			dv.Set(val)
		case val.Type().ConvertibleTo(dv.Type()):
			dv.Set(val.Convert(dv.Type()))
		default:
			return errors.New("type mismatch")
		}
	}
	return nil
}
