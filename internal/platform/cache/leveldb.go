package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
)

// diskEntry is the gob envelope stored per key
type diskEntry struct {
	Bytes   []byte
	Str     string
	Int     int64
	Kind    uint8
	Expires int64 // unix nanos, 0 means never
}

const (
	kindBytes uint8 = iota + 1
	kindString
	kindInt
)

// LevelDB is a persistent Backend over goleveldb
// supported values are []byte, string and the signed integer kinds
type LevelDB struct {
	db  *leveldb.DB
	now func() time.Time
}

// NewLevelDB wraps an open database; the caller owns Close
func NewLevelDB(db *leveldb.DB) *LevelDB {
	return &LevelDB{db: db, now: time.Now}
}

// OpenLevelDB opens (or creates) a database at path
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return NewLevelDB(db), nil
}

// Close closes the underlying database
func (l *LevelDB) Close() error { return l.db.Close() }

func (l *LevelDB) read(key string) (diskEntry, bool, error) {
	b, err := l.db.Get([]byte("e:"+key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return diskEntry{}, false, nil
	}
	if err != nil {
		return diskEntry{}, false, err
	}
	var ent diskEntry
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&ent); err != nil {
		// a corrupt envelope is a miss
		return diskEntry{}, false, nil
	}
	if ent.Expires > 0 && l.now().UnixNano() >= ent.Expires {
		_ = l.db.Delete([]byte("e:"+key), nil)
		return diskEntry{}, false, nil
	}
	return ent, true, nil
}

// Has implements Backend
func (l *LevelDB) Has(_ context.Context, key string) (bool, error) {
	_, ok, err := l.read(key)
	return ok, err
}

// Get implements Backend
func (l *LevelDB) Get(_ context.Context, key string) (any, error) {
	ent, ok, err := l.read(key)
	if err != nil || !ok {
		return nil, err
	}
	switch ent.Kind {
	case kindBytes:
		return ent.Bytes, nil
	case kindString:
		return ent.Str, nil
	case kindInt:
		return ent.Int, nil
	default:
		return nil, nil
	}
}

// Set implements Backend
func (l *LevelDB) Set(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	ent := diskEntry{}
	switch v := value.(type) {
	case []byte:
		ent.Kind, ent.Bytes = kindBytes, v
	case string:
		ent.Kind, ent.Str = kindString, v
	case int:
		ent.Kind, ent.Int = kindInt, int64(v)
	case int32:
		ent.Kind, ent.Int = kindInt, int64(v)
	case int64:
		ent.Kind, ent.Int = kindInt, v
	default:
		return false, fmt.Errorf("leveldb cache: unsupported value type %T", value)
	}
	if ttl > 0 {
		ent.Expires = l.now().Add(ttl).UnixNano()
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ent); err != nil {
		return false, err
	}
	if err := l.db.Put([]byte("e:"+key), buf.Bytes(), nil); err != nil {
		return false, err
	}
	return true, nil
}
