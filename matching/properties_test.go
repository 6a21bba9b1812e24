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
	"testing"

	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/types"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type propertyBook struct {
	*OrderContainer
	deals []types.Deal
}

func newPropertyBook() *propertyBook {
	pb := &propertyBook{}
	pb.OrderContainer = NewOrderContainer(
		logging.NewTestLogger(), NewDefaultConfig(), "property",
		DealHandlerFunc(func(d types.Deal) { pb.deals = append(pb.deals, d) }),
	)
	return pb
}

func drawOrders(t *rapid.T) []types.Order {
	n := rapid.IntRange(0, 40).Draw(t, "orders")
	orders := make([]types.Order, 0, n)
	for i := 0; i < n; i++ {
		side := rapid.SampledFrom([]types.Side{types.SideBuy, types.SideSell}).Draw(t, "side")
		orders = append(orders, types.NewOrder(
			side,
			rapid.Uint64Range(1, 50).Draw(t, "quantity"),
			rapid.Uint64Range(95, 105).Draw(t, "price"),
			uint32(i+1),
			rapid.Uint32Range(1, 3).Draw(t, "client"),
		))
	}
	return orders
}

func sideQuantity(orders []types.Order, side types.Side) uint64 {
	var q uint64
	for _, o := range orders {
		if o.Side == side {
			q += o.Quantity
		}
	}
	return q
}

func tradedQuantity(deals []types.Deal) uint64 {
	var q uint64
	for _, d := range deals {
		q += d.Quantity
	}
	return q
}


// checkPriority verifies orders are sorted by price priority then sequence
// and that each level volume is the sum of its orders.
func checkPriority(t require.TestingT, b *OrderContainer) {
	for _, side := range []*OrderBookSide{b.buy, b.sell} {
		var prev *PriceLevel
		for _, lvl := range side.getLevels() {
			require.NotEmpty(t, lvl.orders)
			if prev != nil {
				if side.side == types.SideBuy {
					require.Greater(t, prev.price, lvl.price)
				} else {
					require.Less(t, prev.price, lvl.price)
				}
			}
			var volume uint64
			for i, o := range lvl.orders {
				require.NotZero(t, o.Quantity)
				require.Equal(t, lvl.price, o.Price)
				if i > 0 {
					require.Less(t, lvl.orders[i-1].Sequence, o.Sequence)
				}
				volume += o.Quantity
			}
			require.Equal(t, lvl.volume, volume)
			prev = lvl
		}
	}
	require.Equal(t, len(b.ordersByID), b.buy.getOrderCount()+b.sell.getOrderCount())
}

func TestProperties_ContinuousConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := newPropertyBook()
		orders := drawOrders(t)
		for _, o := range orders {
			require.NoError(t, book.Insert(o, true))
		}

		// every deal consumes its quantity on each side
		traded := tradedQuantity(book.deals)
		require.Equal(t, traded, sideQuantity(orders, types.SideBuy)-book.buy.getTotalVolume())
		require.Equal(t, traded, sideQuantity(orders, types.SideSell)-book.sell.getTotalVolume())
		checkPriority(t, book.OrderContainer)

		// continuous matching never leaves the book crossed
		bestBid, errBid := book.BestBidPrice()
		bestAsk, errAsk := book.BestAskPrice()
		if errBid == nil && errAsk == nil {
			require.Less(t, bestBid, bestAsk)
		}
	})
}

func TestProperties_AuctionOptimality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := newPropertyBook()
		orders := drawOrders(t)
		for _, o := range orders {
			require.NoError(t, book.Insert(o, false))
		}

		price, volume := book.GetTheoreticalOpenInformation()

		// no price trades more than the theoretical volume
		for p := uint64(95); p <= 105; p++ {
			var cumBid, cumAsk uint64
			for _, o := range orders {
				if o.Side == types.SideBuy && o.Price >= p {
					cumBid += o.Quantity
				}
				if o.Side == types.SideSell && o.Price <= p {
					cumAsk += o.Quantity
				}
			}
			executable := min(cumBid, cumAsk)
			require.LessOrEqual(t, executable, volume, "price %d", p)
			if p == price {
				require.Equal(t, volume, executable)
			}
		}
		if volume == 0 {
			require.Zero(t, price)
		}

		bidBefore, askBefore := book.buy.getTotalVolume(), book.sell.getTotalVolume()
		matchedPrice, matchedVolume := book.MatchOrders()
		require.Equal(t, price, matchedPrice)
		require.Equal(t, volume, matchedVolume)
		require.Equal(t, volume, tradedQuantity(book.deals))
		require.Equal(t, volume, bidBefore-book.buy.getTotalVolume())
		require.Equal(t, volume, askBefore-book.sell.getTotalVolume())
		for _, d := range book.deals {
			require.Equal(t, price, d.Price)
		}
		checkPriority(t, book.OrderContainer)
	})
}

func TestProperties_ModifyAndDelete(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := newPropertyBook()
		orders := drawOrders(t)
		for _, o := range orders {
			require.NoError(t, book.Insert(o, false))
		}

		steps := rapid.IntRange(0, 20).Draw(t, "steps")
		for i := 0; i < steps && len(orders) > 0; i++ {
			o := orders[rapid.IntRange(0, len(orders)-1).Draw(t, "target")]
			if rapid.Bool().Draw(t, "delete") {
				err := book.Delete(o.OrderID, o.ClientID, o.Side)
				if err != nil {
					require.ErrorIs(t, err, types.ErrOrderNotFound)
				}
				continue
			}
			r := types.NewOrderReplace(
				o.Side,
				rapid.Uint64Range(1, 50).Draw(t, "quantity"),
				rapid.Uint64Range(95, 105).Draw(t, "price"),
				o.OrderID, o.OrderID, o.ClientID,
			)
			err := book.Modify(r, false)
			if err != nil {
				require.ErrorIs(t, err, types.ErrOrderNotFound)
			}
		}
		checkPriority(t, book.OrderContainer)
		require.Empty(t, book.deals)
	})
}
