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
	"code.vegaprotocol.io/exchange/libs/crypto"
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/types"

	"github.com/pkg/errors"
)

// ErrBookNotEmpty is returned when restoring orders into a book already
// holding orders.
var ErrBookNotEmpty = errors.New("order book is not empty")

// Hash returns a digest of the aggregated levels of both sides. Two books
// fed with the same operations produce the same hash.
func (b *OrderContainer) Hash() []byte {
	return crypto.Hash(append(b.buy.Hash(), b.sell.Hash()...))
}

// Orders returns a copy of every resting order, bids then asks, each side
// in priority order.
func (b *OrderContainer) Orders() []types.Order {
	out := make([]types.Order, 0, len(b.ordersByID))
	for _, o := range b.buy.getOrders() {
		out = append(out, *o)
	}
	for _, o := range b.sell.getOrders() {
		out = append(out, *o)
	}
	return out
}

// Restore loads orders taken from Orders into an empty book, sequences are
// preserved so is the priority of every order.
func (b *OrderContainer) Restore(orders []types.Order) error {
	if len(b.ordersByID) > 0 {
		return ErrBookNotEmpty
	}

	seen := make(map[types.OrderKey]struct{}, len(orders))
	sequences := make(map[uint64]struct{}, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "order %s", o.Key())
		}
		if _, ok := seen[o.Key()]; ok {
			return errors.Wrapf(types.ErrDuplicateOrder, "order %s", o.Key())
		}
		if _, ok := sequences[o.Sequence]; ok || o.Sequence == 0 {
			return errors.Errorf("invalid sequence %d for order %s", o.Sequence, o.Key())
		}
		seen[o.Key()] = struct{}{}
		sequences[o.Sequence] = struct{}{}
	}

	b.cache.Invalidate()
	for _, o := range orders {
		o := o
		b.rest(&o)
		if o.Sequence > b.seq {
			b.seq = o.Sequence
		}
	}
	b.log.Info("order book restored",
		logging.Int("orders", len(orders)),
		logging.Uint64("sequence", b.seq))
	return nil
}
