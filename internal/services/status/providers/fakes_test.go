package providers

import (
	"context"
	"errors"

	"bgg/internal/platform/store"
)

// fakeDB answers by statement; statements it does not know fail
type fakeDB struct {
	results map[string]fakeResult
	calls   []string
	args    [][]any
}

type fakeResult struct {
	cols []string
	data [][]any
	err  error
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.calls = append(f.calls, sql)
	f.args = append(f.args, args)
	r, ok := f.results[sql]
	if !ok {
		return nil, errors.New("unexpected statement")
	}
	if r.err != nil {
		return nil, r.err
	}
	return &fakeRows{cols: r.cols, data: r.data, idx: -1}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	rs, err := f.Query(ctx, sql, args...)
	return fakeRow{rows: rs, err: err}
}

type fakeRow struct {
	rows store.Rows
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	defer r.rows.Close()
	if !r.rows.Next() {
		return store.ErrNoRows
	}
	return r.rows.Scan(dest...)
}

type fakeRows struct {
	cols []string
	data [][]any
	idx  int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(row) != len(dest) {
		return errors.New("dest len mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *any:
			*p = row[i]
		case *uint32:
			*p = row[i].(uint32)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

// fakeCH is a store.Clickhouse with canned answers
type fakeCH struct {
	pingErr    error
	version    string
	versionErr error
	uptime     uint32
	queryErr   error
}

func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) ServerVersion(context.Context) (string, error) {
	return f.version, f.versionErr
}
func (f *fakeCH) Close() error { return nil }
func (f *fakeCH) Query(_ context.Context, _ string, _ ...any) (store.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{cols: []string{"uptime()"}, data: [][]any{{f.uptime}}, idx: -1}, nil
}

// fakeProbe is a RedisProbe with canned sections
type fakeProbe struct {
	pingErr  error
	sections map[string]map[string]any
	infoErr  map[string]error
	panicOn  string
	asked    []string
}

func (f *fakeProbe) Ping(context.Context) error { return f.pingErr }

func (f *fakeProbe) Info(_ context.Context, section string) (map[string]any, error) {
	f.asked = append(f.asked, section)
	if section == f.panicOn {
		panic("boom")
	}
	if err := f.infoErr[section]; err != nil {
		return nil, err
	}
	return f.sections[section], nil
}
