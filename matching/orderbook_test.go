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

	"code.vegaprotocol.io/exchange/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderContainer_Insert(t *testing.T) {
	t.Run("orders aggregate by price in priority order", testInsertAggregatedView)
	t.Run("duplicate order is rejected", testInsertDuplicate)
	t.Run("same identifiers on both sides", testInsertSameIDsBothSides)
	t.Run("invalid order is rejected", testInsertInvalid)
	t.Run("orders queue in arrival order", testInsertArrivalOrder)
	t.Run("crossing orders rest without matching", testInsertCrossedNoMatch)
}

func testInsertAggregatedView(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()

	bid, ask := book.AggregatedView()
	assert.Equal(t, []types.PriceLevel{
		level(2, 11000, 2185),
		level(1, 4000, 1325),
		level(1, 3000, 1321),
		level(2, 3000, 1234),
	}, bid)
	assert.Equal(t, []types.PriceLevel{
		level(2, 15000, 4321),
		level(1, 6000, 4526),
		level(1, 5000, 4580),
		level(2, 7000, 8526),
	}, ask)
	assert.Equal(t, 12, book.GetTotalNumberOfOrders())
	assert.Empty(t, book.deals)

	best, err := book.BestBidPrice()
	require.NoError(t, err)
	assert.Equal(t, uint64(2185), best)
	best, err = book.BestAskPrice()
	require.NoError(t, err)
	assert.Equal(t, uint64(4321), best)
}

func testInsertDuplicate(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()
	before := book.Hash()

	err := book.Insert(buy(1, 1000, 1, 5), false)
	assert.ErrorIs(t, err, types.ErrDuplicateOrder)
	err = book.Insert(sell(1, 9000, 2, 1), true)
	assert.ErrorIs(t, err, types.ErrDuplicateOrder)

	assert.Equal(t, before, book.Hash())
	assert.Equal(t, 12, book.GetTotalNumberOfOrders())
}

func testInsertSameIDsBothSides(t *testing.T) {
	book := getTestOrderContainer(t, "ids")
	defer book.Finish()

	require.NoError(t, book.Insert(buy(10, 100, 1, 1), false))
	require.NoError(t, book.Insert(sell(10, 110, 1, 1), false))
	assert.Equal(t, 2, book.GetTotalNumberOfOrders())

	require.NoError(t, book.Delete(1, 1, types.SideBuy))
	_, err := book.GetOrder(types.OrderKey{Side: types.SideSell, ClientID: 1, OrderID: 1})
	assert.NoError(t, err)
}

func testInsertInvalid(t *testing.T) {
	book := getTestOrderContainer(t, "invalid")
	defer book.Finish()

	assert.ErrorIs(t, book.Insert(buy(0, 100, 1, 1), false), types.ErrInvalidQuantity)
	assert.ErrorIs(t, book.Insert(sell(10, 0, 1, 1), false), types.ErrInvalidPrice)
	assert.ErrorIs(t, book.Insert(types.NewOrder(types.SideUnspecified, 10, 100, 1, 1), false), types.ErrInvalidSide)
	assert.Equal(t, 0, book.GetTotalNumberOfOrders())
}

func testInsertArrivalOrder(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()

	orders := book.Orders()
	require.Len(t, orders, 12)
	// bids first, best price first, then by arrival
	assert.Equal(t, uint32(9), orders[0].ClientID)
	assert.Equal(t, uint32(10), orders[1].ClientID)
	assert.Equal(t, uint32(8), orders[2].ClientID)
	assert.Equal(t, uint32(5), orders[4].ClientID)
	assert.Equal(t, uint32(6), orders[5].ClientID)
	assert.Equal(t, types.SideSell, orders[6].Side)
	assert.Equal(t, uint32(1), orders[6].ClientID)
	assert.Less(t, orders[0].Sequence, orders[1].Sequence)
	assert.Less(t, orders[6].Sequence, orders[7].Sequence)
}

func testInsertCrossedNoMatch(t *testing.T) {
	book := getTestOrderContainer(t, "crossed")
	defer book.Finish()

	book.insertAll(t, false,
		buy(10, 105, 1, 1),
		sell(10, 100, 2, 2),
	)
	assert.Empty(t, book.deals)
	bid, ask := book.AggregatedView()
	assert.Equal(t, []types.PriceLevel{level(1, 10, 105)}, bid)
	assert.Equal(t, []types.PriceLevel{level(1, 10, 100)}, ask)
}

func TestOrderContainer_Delete(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()

	require.NoError(t, book.Delete(1, 5, types.SideBuy))
	assert.ErrorIs(t, book.Delete(1, 5, types.SideBuy), types.ErrOrderNotFound)
	require.NoError(t, book.Delete(1, 10, types.SideBuy))
	require.NoError(t, book.Delete(2, 3, types.SideSell))
	assert.ErrorIs(t, book.Delete(2, 3, types.SideSell), types.ErrOrderNotFound)
	require.NoError(t, book.Delete(2, 4, types.SideSell))

	// wrong side
	assert.ErrorIs(t, book.Delete(1, 7, types.SideSell), types.ErrOrderNotFound)

	bid, ask := book.AggregatedView()
	assert.Equal(t, []types.PriceLevel{
		level(1, 5000, 2185),
		level(1, 4000, 1325),
		level(1, 3000, 1321),
		level(1, 2000, 1234),
	}, bid)
	assert.Equal(t, []types.PriceLevel{
		level(2, 15000, 4321),
		level(2, 7000, 8526),
	}, ask)
	assert.Equal(t, 8, book.GetTotalNumberOfOrders())
}

func TestOrderContainer_DeleteLastOrderOfLevel(t *testing.T) {
	book := getTestOrderContainer(t, "delete")
	defer book.Finish()

	book.insertAll(t, false, buy(10, 100, 1, 1), buy(10, 99, 2, 1))
	require.NoError(t, book.Delete(1, 1, types.SideBuy))

	bid, _ := book.AggregatedView()
	assert.Equal(t, []types.PriceLevel{level(1, 10, 99)}, bid)
	assert.Nil(t, book.buy.getPriceLevel(100))
}

func TestOrderContainer_Modify(t *testing.T) {
	t.Run("price change moves the order to the tail", testModifyPriceChange)
	t.Run("quantity decrease keeps priority", testModifyDecreaseKeepsPriority)
	t.Run("quantity increase loses priority", testModifyIncreaseLosesPriority)
	t.Run("unknown order", testModifyUnknown)
	t.Run("new identity already in use", testModifyIdentityInUse)
	t.Run("same identity", testModifySameIdentity)
}

func testModifyPriceChange(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()

	require.NoError(t, book.Modify(types.NewOrderReplace(types.SideBuy, 1337, 2185, 1, 2, 8), false))
	require.NoError(t, book.Modify(types.NewOrderReplace(types.SideSell, 3000, 4526, 2, 12, 4), false))

	bid, ask := book.AggregatedView()
	assert.Equal(t, []types.PriceLevel{
		level(3, 12337, 2185),
		level(1, 3000, 1321),
		level(2, 3000, 1234),
	}, bid)
	assert.Equal(t, []types.PriceLevel{
		level(2, 15000, 4321),
		level(2, 9000, 4526),
		level(2, 7000, 8526),
	}, ask)

	orders := book.Orders()
	assert.Equal(t, uint32(8), orders[2].ClientID)
	assert.Equal(t, uint32(2), orders[2].OrderID)
	assert.Equal(t, uint64(1337), orders[2].Quantity)
	assert.Greater(t, orders[2].Sequence, orders[1].Sequence)

	_, err := book.GetOrder(types.OrderKey{Side: types.SideBuy, ClientID: 8, OrderID: 1})
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
}

func testModifyDecreaseKeepsPriority(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()

	before, err := book.GetOrder(types.OrderKey{Side: types.SideBuy, ClientID: 9, OrderID: 1})
	require.NoError(t, err)

	require.NoError(t, book.Modify(types.NewOrderReplace(types.SideBuy, 4000, 2185, 1, 3, 9), false))

	after, err := book.GetOrder(types.OrderKey{Side: types.SideBuy, ClientID: 9, OrderID: 3})
	require.NoError(t, err)
	assert.Equal(t, before.Sequence, after.Sequence)
	assert.Equal(t, uint64(4000), after.Quantity)

	orders := book.Orders()
	assert.Equal(t, uint32(9), orders[0].ClientID)
	assert.Equal(t, uint32(3), orders[0].OrderID)

	bid, _ := book.AggregatedView()
	assert.Equal(t, level(2, 10000, 2185), bid[0])
}

func testModifyIncreaseLosesPriority(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()

	require.NoError(t, book.Modify(types.NewOrderReplace(types.SideBuy, 5001, 2185, 1, 1, 9), false))

	orders := book.Orders()
	assert.Equal(t, uint32(10), orders[0].ClientID)
	assert.Equal(t, uint32(9), orders[1].ClientID)
	bid, _ := book.AggregatedView()
	assert.Equal(t, level(2, 11001, 2185), bid[0])
}

func testModifyUnknown(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()
	before := book.Hash()

	err := book.Modify(types.NewOrderReplace(types.SideBuy, 10, 2185, 7, 8, 9), false)
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
	// the order rests on the other side
	err = book.Modify(types.NewOrderReplace(types.SideSell, 10, 2185, 1, 8, 9), false)
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
	assert.Equal(t, before, book.Hash())
}

func testModifyIdentityInUse(t *testing.T) {
	book := getTestOrderContainer(t, "identity")
	defer book.Finish()

	book.insertAll(t, false, buy(10, 100, 1, 1), buy(10, 99, 2, 1))
	before := book.Hash()

	err := book.Modify(types.NewOrderReplace(types.SideBuy, 5, 100, 1, 2, 1), false)
	assert.ErrorIs(t, err, types.ErrInvalidReplace)
	assert.Equal(t, before, book.Hash())
	assert.Equal(t, 2, book.GetTotalNumberOfOrders())

	err = book.Modify(types.NewOrderReplace(types.SideBuy, 0, 100, 1, 3, 1), false)
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)
}

func testModifySameIdentity(t *testing.T) {
	book := getTestOrderContainer(t, "identity")
	defer book.Finish()

	book.insertAll(t, false, buy(10, 100, 1, 1), buy(10, 100, 2, 1))
	require.NoError(t, book.Modify(types.NewOrderReplace(types.SideBuy, 5, 100, 1, 1, 1), false))

	orders := book.Orders()
	assert.Equal(t, uint32(1), orders[0].OrderID)
	assert.Equal(t, uint64(5), orders[0].Quantity)
}

func TestOrderContainer_Reset(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()

	book.Reset()
	bid, ask := book.AggregatedView()
	assert.Empty(t, bid)
	assert.Empty(t, ask)
	assert.Equal(t, 0, book.GetTotalNumberOfOrders())
	price, volume := book.GetTheoreticalOpenInformation()
	assert.Zero(t, price)
	assert.Zero(t, volume)

	// idempotent
	book.Reset()
	assert.Equal(t, 0, book.GetTotalNumberOfOrders())

	_, err := book.BestBidPrice()
	assert.ErrorIs(t, err, ErrEmptySide)

	// identities are free again and sequences restart
	require.NoError(t, book.Insert(buy(1000, 1234, 1, 5), false))
	o, err := book.GetOrder(types.OrderKey{Side: types.SideBuy, ClientID: 5, OrderID: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), o.Sequence)
}

func TestOrderContainer_ReloadConf(t *testing.T) {
	book := getTestOrderContainer(t, "conf")
	defer book.Finish()

	cfg := NewDefaultConfig()
	cfg.ViewMode = ViewModeByOrder
	book.ReloadConf(cfg)
	assert.Equal(t, ViewModeByOrder, book.ViewMode)
	assert.False(t, book.LogPriceLevelsDebug)
	assert.False(t, book.OrderContainer.log.IsDebug())
}
