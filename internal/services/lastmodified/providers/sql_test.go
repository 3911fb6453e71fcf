package providers

import (
	"context"
	"errors"
	"testing"

	perr "bgg/internal/platform/errors"
	"bgg/internal/platform/store"
	"bgg/internal/services/lastmodified/domain"
)

// scalarDB answers every QueryRow with one value or an error
type scalarDB struct {
	val  *int64
	err  error
	sql  string
	args []any
}

func (d *scalarDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not used")
}

func (d *scalarDB) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	d.sql, d.args = sql, args
	return scalarRow{d}
}

type scalarRow struct{ d *scalarDB }

func (r scalarRow) Scan(dest ...any) error {
	if r.d.err != nil {
		return r.d.err
	}
	p, ok := dest[0].(**int64)
	if !ok {
		return errors.New("unexpected dest")
	}
	*p = r.d.val
	return nil
}

func TestSQL_LastModified(t *testing.T) {
	t.Parallel()

	ts := int64(1_700_000_000)
	cases := []struct {
		name string
		db   *scalarDB
		want int64
	}{
		{"value", &scalarDB{val: &ts}, ts},
		{"null", &scalarDB{}, domain.NoSignal},
		{"error", &scalarDB{err: errors.New("relation \"pages\" does not exist")}, domain.NoSignal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewSQL(tc.db, "SELECT max(updated) FROM pages WHERE site = $1", "main")
			if err != nil {
				t.Fatalf("NewSQL: %v", err)
			}
			if got := p.LastModified(context.Background()); got != tc.want {
				t.Fatalf("LastModified = %d, want %d", got, tc.want)
			}
			if len(tc.db.args) != 1 || tc.db.args[0] != "main" {
				t.Fatalf("args = %v", tc.db.args)
			}
		})
	}
}

func TestNewSQL_Validates(t *testing.T) {
	t.Parallel()

	if _, err := NewSQL(nil, "SELECT 1"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("nil db err = %v", err)
	}
	if _, err := NewSQL(&scalarDB{}, ""); !perr.IsCode(err, perr.ErrorCodeInvalidConfiguration) {
		t.Fatalf("empty query err = %v", err)
	}
}
