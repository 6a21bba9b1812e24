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

package storage_test

import (
	"testing"

	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/storage"
	"code.vegaprotocol.io/exchange/types"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Key   string `json:"key"`
	Value uint64 `json:"value"`
}

func recordKey(r record) string { return r.Key }

func memoryConfig() storage.Config {
	cfg := storage.NewDefaultConfig("")
	cfg.InMemory = true
	return cfg
}

func TestNoSqlStorage(t *testing.T) {
	t.Run("write then get", testWriteGet)
	t.Run("write without overwrite", testWriteNoOverwrite)
	t.Run("load in key order", testLoadKeyOrder)
	t.Run("load stops on error", testLoadStopsOnError)
	t.Run("persisted on disk", testPersistedOnDisk)
}

func testWriteGet(t *testing.T) {
	log := logging.NewTestLogger()
	s, err := storage.New[record](log, memoryConfig(), "records")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(record{Key: "a", Value: 1}, recordKey, false, false))
	r, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, record{Key: "a", Value: 1}, r)

	_, err = s.Get("b")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testWriteNoOverwrite(t *testing.T) {
	log := logging.NewTestLogger()
	s, err := storage.New[record](log, memoryConfig(), "records")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(record{Key: "a", Value: 1}, recordKey, false, false))
	err = s.Write(record{Key: "a", Value: 2}, recordKey, false, false)
	assert.ErrorIs(t, err, storage.ErrKeyExists)

	r, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.Value)

	require.NoError(t, s.Write(record{Key: "a", Value: 3}, recordKey, true, true))
	r, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), r.Value)
}

func testLoadKeyOrder(t *testing.T) {
	log := logging.NewTestLogger()
	s, err := storage.New[record](log, memoryConfig(), "records")
	require.NoError(t, err)
	defer s.Close()

	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, s.Write(record{Key: k}, recordKey, false, false))
	}
	keys := []string{}
	require.NoError(t, s.Load(func(r record) error {
		keys = append(keys, r.Key)
		return nil
	}))
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func testLoadStopsOnError(t *testing.T) {
	log := logging.NewTestLogger()
	s, err := storage.New[record](log, memoryConfig(), "records")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Write(record{Key: "a"}, recordKey, false, false))
	require.NoError(t, s.Write(record{Key: "b"}, recordKey, false, false))

	stop := errors.New("stop")
	var calls int
	err = s.Load(func(record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func testPersistedOnDisk(t *testing.T) {
	log := logging.NewTestLogger()
	cfg := storage.NewDefaultConfig(t.TempDir())

	s, err := storage.New[record](log, cfg, "records")
	require.NoError(t, err)
	require.NoError(t, s.Write(record{Key: "a", Value: 42}, recordKey, true, false))
	require.NoError(t, s.Close())

	s, err = storage.New[record](log, cfg, "records")
	require.NoError(t, err)
	defer s.Close()
	r, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), r.Value)
}

func TestProductStore(t *testing.T) {
	log := logging.NewTestLogger()
	store, err := storage.NewProductStore(log, memoryConfig())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Add(types.Product{ID: 12, Name: "ETHUSD"}))
	require.NoError(t, store.Add(types.Product{ID: 3, Name: "BTCUSD"}))

	err = store.Add(types.Product{ID: 3, Name: "BTCEUR"})
	assert.ErrorIs(t, err, types.ErrDuplicateProduct)
	assert.Error(t, store.Add(types.Product{ID: 4}))

	p, err := store.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSD", p.Name)

	_, err = store.Get(5)
	assert.ErrorIs(t, err, types.ErrUnknownProduct)

	products, err := store.Products()
	require.NoError(t, err)
	assert.Equal(t, []types.Product{
		{ID: 3, Name: "BTCUSD"},
		{ID: 12, Name: "ETHUSD"},
	}, products)
}
