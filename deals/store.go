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

package deals

import (
	"sync"

	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/storage"
	"code.vegaprotocol.io/exchange/types"
)

const dealsDB = "deals"

// Store persists every published deal. Storage failures are logged, they
// never reach the matching.
type Store struct {
	Config

	log   *logging.Logger
	mu    sync.Mutex
	seq   sequencer
	store *storage.NoSqlStorage[Record]
}

// NewStore opens the deals database and resumes the sequence of every
// product from what it already holds.
func NewStore(log *logging.Logger, c Config, sc storage.Config) (*Store, error) {
	log = log.Named(namedLogger)
	log.SetLevel(c.Level.Get())

	db, err := storage.New[Record](log, sc, dealsDB)
	if err != nil {
		return nil, err
	}
	s := &Store{
		Config: c,
		log:    log,
		seq:    newSequencer(),
		store:  db,
	}
	if err := db.Load(func(r Record) error {
		s.seq.observe(r)
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// ReloadConf updates the internal configuration of the store.
func (s *Store) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}

	s.mu.Lock()
	s.Config = cfg
	s.mu.Unlock()
}

func (s *Store) Publish(productID uint32, deal types.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Persist {
		return
	}

	r := Record{
		ProductID: productID,
		Sequence:  s.seq.next(productID),
		Deal:      deal,
	}
	if err := s.store.Write(r, Record.Key, false, false); err != nil {
		s.log.Error("could not store deal",
			logging.ProductID(productID),
			logging.Deal(deal),
			logging.Error(err))
	}
}

// Load calls f with every stored record, products in identifier order and
// the deals of a product in sequence order.
func (s *Store) Load(f func(Record) error) error {
	return s.store.Load(f)
}

func (s *Store) Close() error {
	return s.store.Close()
}
