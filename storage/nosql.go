// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"code.vegaprotocol.io/exchange/logging"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	lvlstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

var (
	// ErrNotFound is returned when no object is stored under a key.
	ErrNotFound = errors.New("object not found")
	// ErrKeyExists is returned when writing without overwrite over an
	// existing key.
	ErrKeyExists = errors.New("key already exists")
)

// NoSqlStorage is a key value store of JSON encoded objects of type T,
// backed by LevelDB.
type NoSqlStorage[T any] struct {
	Config

	log  *logging.Logger
	name string
	db   *leveldb.DB
	mu   sync.Mutex
}

// New opens, or creates, the database called name.
func New[T any](log *logging.Logger, c Config, name string) (*NoSqlStorage[T], error) {
	log = log.Named(namedLogger)
	log.SetLevel(c.Level.Get())
	log = log.With(logging.String("db", name))

	db, err := open(c, name)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open database %s", name)
	}
	log.Info("database opened",
		logging.Bool("in-memory", bool(c.InMemory)),
		logging.String("path", c.Path))

	return &NoSqlStorage[T]{
		Config: c,
		log:    log,
		name:   name,
		db:     db,
	}, nil
}

func open(c Config, name string) (*leveldb.DB, error) {
	o := &opt.Options{
		BlockCacher:     opt.NoCacher,
		OpenFilesCacher: opt.NoCacher,
	}
	if c.BloomFilterBits > 0 {
		o.Filter = filter.NewBloomFilter(c.BloomFilterBits)
	}

	if c.InMemory {
		return leveldb.Open(lvlstorage.NewMemStorage(), o)
	}

	path := filepath.Join(c.Path, name)
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}
	return leveldb.OpenFile(path, o)
}

// Load calls f with every stored object in key order. The iteration reads
// a consistent snapshot of the database and stops at the first error.
func (s *NoSqlStorage[T]) Load(f func(T) error) error {
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return errors.Wrap(err, "could not get a database snapshot")
	}
	defer snap.Release()

	iter := snap.NewIterator(nil, nil)
	defer iter.Release()

	var count int
	for iter.Next() {
		var obj T
		if err := json.Unmarshal(iter.Value(), &obj); err != nil {
			return errors.Wrapf(err, "could not decode object %s", iter.Key())
		}
		if err := f(obj); err != nil {
			return err
		}
		count++
	}
	if err := iter.Error(); err != nil {
		return errors.Wrap(err, "database iteration failed")
	}

	s.log.Debug("objects loaded", logging.Int("count", count))
	return nil
}

// Get returns the object stored under key.
func (s *NoSqlStorage[T]) Get(key string) (T, error) {
	var obj T
	buf, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return obj, ErrNotFound
		}
		return obj, errors.Wrapf(err, "could not read key %s", key)
	}
	if err := json.Unmarshal(buf, &obj); err != nil {
		return obj, errors.Wrapf(err, "could not decode object %s", key)
	}
	return obj, nil
}

// Write stores obj under the key computed by keyOf. Without overwrite an
// existing key is left untouched and ErrKeyExists returned. With sync the
// write is flushed to disk before returning, the configured Sync forces it
// for every write.
func (s *NoSqlStorage[T]) Write(obj T, keyOf func(T) string, sync, overwrite bool) error {
	key := []byte(keyOf(obj))
	buf, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrapf(err, "could not encode object %s", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !overwrite {
		ok, err := s.db.Has(key, nil)
		if err != nil {
			return errors.Wrapf(err, "could not read key %s", key)
		}
		if ok {
			return errors.Wrapf(ErrKeyExists, "%s", key)
		}
	}

	wo := &opt.WriteOptions{Sync: sync || bool(s.Sync)}
	if err := s.db.Put(key, buf, wo); err != nil {
		return errors.Wrapf(err, "could not write key %s", key)
	}
	return nil
}

// Close releases the database, pending writes are flushed.
func (s *NoSqlStorage[T]) Close() error {
	s.log.Info("closing database")
	return s.db.Close()
}
