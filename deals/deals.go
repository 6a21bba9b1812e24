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
	"fmt"
	"sync"

	"code.vegaprotocol.io/exchange/types"
)

// Publisher receives the deals of every product.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/publisher_mock.go -package mocks code.vegaprotocol.io/exchange/deals Publisher
type Publisher interface {
	Publish(productID uint32, deal types.Deal)
}

// Record is a deal of a product with its position in the deal history of
// that product.
type Record struct {
	ProductID uint32     `json:"product_id"`
	Sequence  uint64     `json:"sequence"`
	Deal      types.Deal `json:"deal"`
}

// Key is the storage key of the record, records of a product sort by
// sequence.
func (r Record) Key() string {
	return fmt.Sprintf("%010d/%020d", r.ProductID, r.Sequence)
}

// sequencer numbers the deals of every product from 1.
type sequencer struct {
	last map[uint32]uint64
}

func newSequencer() sequencer {
	return sequencer{last: map[uint32]uint64{}}
}

func (s *sequencer) next(productID uint32) uint64 {
	s.last[productID]++
	return s.last[productID]
}

func (s *sequencer) observe(r Record) {
	if r.Sequence > s.last[r.ProductID] {
		s.last[r.ProductID] = r.Sequence
	}
}

// Recorder keeps every published deal in memory.
type Recorder struct {
	mu      sync.RWMutex
	seq     sequencer
	records []Record
}

func NewRecorder() *Recorder {
	return &Recorder{seq: newSequencer()}
}

func (r *Recorder) Publish(productID uint32, deal types.Deal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{
		ProductID: productID,
		Sequence:  r.seq.next(productID),
		Deal:      deal,
	})
}

// Deals returns a copy of the records published so far, in publication order.
func (r *Recorder) Deals() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// ProductDeals returns the deals of one product in publication order.
func (r *Recorder) ProductDeals(productID uint32) []types.Deal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []types.Deal{}
	for _, rec := range r.records {
		if rec.ProductID == productID {
			out = append(out, rec.Deal)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.seq = newSequencer()
}

// Fanout forwards every deal to all its publishers, in order.
type Fanout struct {
	publishers []Publisher
}

func NewFanout(publishers ...Publisher) *Fanout {
	return &Fanout{publishers: publishers}
}

// Add registers more publishers.
func (f *Fanout) Add(publishers ...Publisher) {
	f.publishers = append(f.publishers, publishers...)
}

func (f *Fanout) Publish(productID uint32, deal types.Deal) {
	for _, p := range f.publishers {
		p.Publish(productID, deal)
	}
}
