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

package matching

import (
	"encoding/binary"

	"code.vegaprotocol.io/exchange/libs/crypto"
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/types"

	"github.com/google/btree"
	"github.com/pkg/errors"
)

const levelsDegree = 16

// ErrEmptySide signals that a side of the book holds no order.
var ErrEmptySide = errors.New("no orders on the book side")

// OrderBookSide represent a side of the book, either Sell or Buy.
// Levels are kept in priority order: the best price is the minimum of the
// tree for both sides.
type OrderBookSide struct {
	side   types.Side
	log    *logging.Logger
	levels *btree.BTreeG[*PriceLevel]
}

func newOrderBookSide(log *logging.Logger, side types.Side) *OrderBookSide {
	less := func(a, b *PriceLevel) bool { return a.price < b.price }
	if side == types.SideBuy {
		less = func(a, b *PriceLevel) bool { return a.price > b.price }
	}
	return &OrderBookSide{
		side:   side,
		log:    log,
		levels: btree.NewG(levelsDegree, less),
	}
}

func (s *OrderBookSide) Hash() []byte {
	output := make([]byte, s.levels.Len()*24)
	var i int
	s.levels.Ascend(func(l *PriceLevel) bool {
		binary.BigEndian.PutUint64(output[i:], l.price)
		i += 8
		binary.BigEndian.PutUint64(output[i:], l.volume)
		i += 8
		binary.BigEndian.PutUint64(output[i:], uint64(len(l.orders)))
		i += 8
		return true
	})
	return crypto.Hash(output)
}

func (s *OrderBookSide) cleanup() {
	s.levels.Clear(false)
}

func (s *OrderBookSide) getPriceLevel(price uint64) *PriceLevel {
	lvl, ok := s.levels.Get(&PriceLevel{price: price})
	if !ok {
		return nil
	}
	return lvl
}

func (s *OrderBookSide) getOrCreatePriceLevel(price uint64) *PriceLevel {
	if lvl := s.getPriceLevel(price); lvl != nil {
		return lvl
	}
	lvl := NewPriceLevel(s.log, price)
	s.levels.ReplaceOrInsert(lvl)
	return lvl
}

func (s *OrderBookSide) addOrder(o *types.Order) {
	if o.Quantity == 0 {
		s.log.Panic("trying to rest an order without quantity", logging.Order(*o))
	}
	s.getOrCreatePriceLevel(o.Price).addOrder(o)
}

// removeOrder takes the order out of its level, the level goes away with
// its last order.
func (s *OrderBookSide) removeOrder(o *types.Order) {
	lvl := s.getPriceLevel(o.Price)
	if lvl == nil {
		s.log.Panic("price level of a resting order not found", logging.Order(*o))
	}
	i, ok := lvl.indexOf(o)
	if !ok {
		s.log.Panic("resting order not found in its price level", logging.Order(*o))
	}
	lvl.removeOrder(i)
	if lvl.empty() {
		s.levels.Delete(lvl)
	}
}

// reduceOrder lowers the quantity of a resting order without changing its
// position in the level.
func (s *OrderBookSide) reduceOrder(o *types.Order, qty uint64) {
	if qty > o.Quantity {
		s.log.Panic("reduction larger than the order quantity",
			logging.Order(*o), logging.Uint64("reduction", qty))
	}
	lvl := s.getPriceLevel(o.Price)
	if lvl == nil {
		s.log.Panic("price level of a resting order not found", logging.Order(*o))
	}
	lvl.reduceVolume(qty)
	o.Quantity -= qty
}

func (s *OrderBookSide) bestLevel() (*PriceLevel, bool) {
	return s.levels.Min()
}

// fillBest trades qty out of the order with the highest priority of the
// side and returns it when it got fully filled and removed from the book.
func (s *OrderBookSide) fillBest(qty uint64) *types.Order {
	lvl, ok := s.levels.Min()
	if !ok {
		s.log.Panic("trying to fill an empty side", logging.Side(s.side))
	}
	filled := lvl.fillHead(qty)
	if lvl.empty() {
		s.levels.DeleteMin()
	}
	return filled
}

// BestPriceAndVolume returns the top of book price and volume
// returns an error if the book is empty.
func (s *OrderBookSide) BestPriceAndVolume() (uint64, uint64, error) {
	lvl, ok := s.levels.Min()
	if !ok {
		return 0, 0, ErrEmptySide
	}
	return lvl.price, lvl.volume, nil
}

func (s *OrderBookSide) getLevels() []*PriceLevel {
	out := make([]*PriceLevel, 0, s.levels.Len())
	s.levels.Ascend(func(l *PriceLevel) bool {
		out = append(out, l)
		return true
	})
	return out
}

func (s *OrderBookSide) aggregated() []types.PriceLevel {
	out := make([]types.PriceLevel, 0, s.levels.Len())
	s.levels.Ascend(func(l *PriceLevel) bool {
		out = append(out, l.aggregate())
		return true
	})
	return out
}

// getOrders returns all the orders of the side, in priority order.
func (s *OrderBookSide) getOrders() []*types.Order {
	out := []*types.Order{}
	s.levels.Ascend(func(l *PriceLevel) bool {
		out = append(out, l.orders...)
		return true
	})
	return out
}

func (s *OrderBookSide) getOrderCount() int {
	var n int
	s.levels.Ascend(func(l *PriceLevel) bool {
		n += len(l.orders)
		return true
	})
	return n
}

func (s *OrderBookSide) getTotalVolume() uint64 {
	var v uint64
	s.levels.Ascend(func(l *PriceLevel) bool {
		v += l.volume
		return true
	})
	return v
}
