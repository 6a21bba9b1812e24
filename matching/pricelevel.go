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
	"sort"

	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/types"
)

// PriceLevel holds all the orders resting at one price, in arrival order.
type PriceLevel struct {
	log    *logging.Logger
	price  uint64
	volume uint64
	orders []*types.Order
}

// NewPriceLevel instantiate a new PriceLevel, invariant breaks are
// reported through log.
func NewPriceLevel(log *logging.Logger, price uint64) *PriceLevel {
	return &PriceLevel{
		log:    log,
		price:  price,
		orders: []*types.Order{},
	}
}

// addOrder keeps the orders sorted by sequence. New orders always carry the
// highest sequence so this is an append, restored or re-queued orders may
// land anywhere.
func (l *PriceLevel) addOrder(o *types.Order) {
	n := len(l.orders)
	if n == 0 || l.orders[n-1].Sequence < o.Sequence {
		l.orders = append(l.orders, o)
		l.volume += o.Quantity
		return
	}

	i := sort.Search(n, func(i int) bool {
		return l.orders[i].Sequence >= o.Sequence
	})
	if l.orders[i].Sequence == o.Sequence {
		l.log.Panic("two orders with the same sequence on a price level",
			logging.Order(*l.orders[i]), logging.Order(*o))
	}
	l.orders = append(l.orders, nil)
	copy(l.orders[i+1:], l.orders[i:])
	l.orders[i] = o
	l.volume += o.Quantity
}

// indexOf looks up an order by its sequence.
func (l *PriceLevel) indexOf(o *types.Order) (int, bool) {
	i := sort.Search(len(l.orders), func(i int) bool {
		return l.orders[i].Sequence >= o.Sequence
	})
	if i < len(l.orders) && l.orders[i] == o {
		return i, true
	}
	return 0, false
}

func (l *PriceLevel) removeOrder(index int) {
	l.reduceVolume(l.orders[index].Quantity)
	copy(l.orders[index:], l.orders[index+1:])
	l.orders[len(l.orders)-1] = nil
	l.orders = l.orders[:len(l.orders)-1]
}

func (l *PriceLevel) reduceVolume(qty uint64) {
	if qty > l.volume {
		l.log.Panic("price level volume would go negative",
			logging.Uint64("price", l.price),
			logging.Uint64("volume", l.volume),
			logging.Uint64("reduction", qty))
	}
	l.volume -= qty
}

// fillHead trades qty out of the oldest order of the level, the order is
// returned when it is fully filled and has been removed.
func (l *PriceLevel) fillHead(qty uint64) *types.Order {
	head := l.orders[0]
	if qty > head.Quantity {
		l.log.Panic("fill larger than the remaining quantity of the order",
			logging.Order(*head), logging.Uint64("fill", qty))
	}
	head.Quantity -= qty
	l.volume -= qty
	if head.Quantity > 0 {
		return nil
	}
	l.orders[0] = nil
	l.orders = l.orders[1:]
	return head
}

func (l *PriceLevel) head() *types.Order {
	return l.orders[0]
}

func (l *PriceLevel) empty() bool {
	return len(l.orders) == 0
}

func (l *PriceLevel) aggregate() types.PriceLevel {
	return types.PriceLevel{
		OrderCount: uint64(len(l.orders)),
		Volume:     l.volume,
		Price:      l.price,
	}
}
