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
	"code.vegaprotocol.io/exchange/matching/mocks"
	"code.vegaprotocol.io/exchange/types"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuction_TheoreticalOpen(t *testing.T) {
	t.Run("empty book", testTheoreticalOpenEmpty)
	t.Run("one sided book", testTheoreticalOpenOneSided)
	t.Run("book not crossed", testTheoreticalOpenNotCrossed)
	t.Run("maximum volume", testTheoreticalOpenMaxVolume)
	t.Run("ties broken by imbalance", testTheoreticalOpenImbalanceTie)
	t.Run("ties broken by lowest price", testTheoreticalOpenLowestPriceTie)
	t.Run("cache is invalidated by mutations", testTheoreticalOpenCacheInvalidation)
}

func testTheoreticalOpenEmpty(t *testing.T) {
	book := getTestOrderContainer(t, "empty")
	defer book.Finish()

	price, volume := book.GetTheoreticalOpenInformation()
	assert.Zero(t, price)
	assert.Zero(t, volume)

	price, volume = book.MatchOrders()
	assert.Zero(t, price)
	assert.Zero(t, volume)
	assert.Empty(t, book.deals)
}

func testTheoreticalOpenOneSided(t *testing.T) {
	book := getTestOrderContainer(t, "bids")
	defer book.Finish()

	book.insertAll(t, false, buy(10, 100, 1, 1), buy(10, 101, 2, 1))
	price, volume := book.GetTheoreticalOpenInformation()
	assert.Zero(t, price)
	assert.Zero(t, volume)
}

func testTheoreticalOpenNotCrossed(t *testing.T) {
	book := auctionBook(t)
	defer book.Finish()
	before := book.Hash()

	price, volume := book.GetTheoreticalOpenInformation()
	assert.Zero(t, price)
	assert.Zero(t, volume)

	price, volume = book.MatchOrders()
	assert.Zero(t, price)
	assert.Zero(t, volume)
	assert.Empty(t, book.deals)
	assert.Equal(t, before, book.Hash())
}

func testTheoreticalOpenMaxVolume(t *testing.T) {
	book := getTestOrderContainer(t, "fixing")
	defer book.Finish()

	book.insertAll(t, false,
		buy(1200, 90, 1, 5),
		buy(350, 89, 1, 6),
		buy(150, 88, 1, 7),
		buy(230, 87, 1, 8),
		sell(900, 90, 2, 1),
		sell(650, 91, 2, 2),
		sell(500, 92, 2, 3),
		sell(350, 93, 2, 4),
		sell(400, 94, 2, 5),
	)
	price, volume := book.GetTheoreticalOpenInformation()
	assert.Equal(t, uint64(90), price)
	assert.Equal(t, uint64(900), volume)
	assert.Empty(t, book.deals)
}

func testTheoreticalOpenImbalanceTie(t *testing.T) {
	book := getTestOrderContainer(t, "imbalance")
	defer book.Finish()

	// 10 lots trade at 100 and at 102, 102 leaves no imbalance
	book.insertAll(t, false,
		buy(10, 102, 1, 1),
		buy(5, 100, 2, 1),
		sell(10, 100, 1, 2),
	)
	price, volume := book.GetTheoreticalOpenInformation()
	assert.Equal(t, uint64(102), price)
	assert.Equal(t, uint64(10), volume)
}

func testTheoreticalOpenLowestPriceTie(t *testing.T) {
	book := getTestOrderContainer(t, "lowest")
	defer book.Finish()

	book.insertAll(t, false,
		buy(10, 101, 1, 1),
		sell(10, 100, 1, 2),
	)
	price, volume := book.GetTheoreticalOpenInformation()
	assert.Equal(t, uint64(100), price)
	assert.Equal(t, uint64(10), volume)
}

func testTheoreticalOpenCacheInvalidation(t *testing.T) {
	book := getTestOrderContainer(t, "cache")
	defer book.Finish()

	book.insertAll(t, false, buy(10, 101, 1, 1), sell(10, 100, 1, 2))
	_, volume := book.GetTheoreticalOpenInformation()
	assert.Equal(t, uint64(10), volume)

	_, _, ok := book.cache.GetTheoreticalOpen()
	assert.True(t, ok)

	require.NoError(t, book.Insert(sell(5, 99, 2, 2), false))
	_, _, ok = book.cache.GetTheoreticalOpen()
	assert.False(t, ok)

	price, volume := book.GetTheoreticalOpenInformation()
	assert.Equal(t, uint64(10), volume)
	assert.Equal(t, uint64(100), price)

	require.NoError(t, book.Delete(1, 1, types.SideBuy))
	price, volume = book.GetTheoreticalOpenInformation()
	assert.Zero(t, price)
	assert.Zero(t, volume)
}

func TestAuction_MatchOrders(t *testing.T) {
	book := getTestOrderContainer(t, "uncross")
	defer book.Finish()

	book.insertAll(t, false,
		buy(200, 41, 1, 5),
		buy(300, 40, 1, 6),
		buy(150, 39, 1, 7),
		buy(50, 38, 1, 8),
		buy(10, 37, 1, 9),
		sell(100, 35, 2, 1),
		sell(200, 36, 2, 2),
		sell(50, 37, 2, 3),
		sell(200, 39, 2, 4),
		sell(20, 40, 2, 5),
	)
	straddling, err := book.GetOrder(types.OrderKey{Side: types.SideBuy, ClientID: 7, OrderID: 1})
	require.NoError(t, err)

	price, volume := book.GetTheoreticalOpenInformation()
	assert.Equal(t, uint64(39), price)
	assert.Equal(t, uint64(550), volume)

	price, volume = book.MatchOrders()
	assert.Equal(t, uint64(39), price)
	assert.Equal(t, uint64(550), volume)
	assert.Equal(t, []types.Deal{
		deal(39, 100, 1, 2, 5, 1),
		deal(39, 100, 2, 2, 5, 1),
		deal(39, 100, 2, 2, 6, 1),
		deal(39, 50, 3, 2, 6, 1),
		deal(39, 150, 4, 2, 6, 1),
		deal(39, 50, 4, 2, 7, 1),
	}, book.deals)

	bid, ask := book.AggregatedView()
	assert.Equal(t, []types.PriceLevel{
		level(1, 100, 39),
		level(1, 50, 38),
		level(1, 10, 37),
	}, bid)
	assert.Equal(t, []types.PriceLevel{level(1, 20, 40)}, ask)

	// the partially filled order keeps its price and priority
	after, err := book.GetOrder(straddling.Key())
	require.NoError(t, err)
	assert.Equal(t, straddling.Sequence, after.Sequence)
	assert.Equal(t, straddling.Price, after.Price)
	assert.Equal(t, uint64(100), after.Quantity)

	// nothing left to uncross
	price, volume = book.MatchOrders()
	assert.Zero(t, price)
	assert.Zero(t, volume)
	assert.Len(t, book.deals, 6)
}

func TestAuction_MatchOrdersDealHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	handler := mocks.NewMockDealHandler(ctrl)

	log := logging.NewTestLogger()
	defer log.Sync()
	book := NewOrderContainer(log, NewDefaultConfig(), "mocked", handler)

	for _, o := range []types.Order{
		buy(1200, 90, 1, 5),
		buy(350, 89, 1, 6),
		buy(150, 88, 1, 7),
		buy(230, 87, 1, 8),
		sell(900, 90, 2, 1),
		sell(650, 91, 2, 2),
		sell(500, 92, 2, 3),
		sell(350, 93, 2, 4),
		sell(400, 94, 2, 5),
	} {
		require.NoError(t, book.Insert(o, false))
	}

	handler.EXPECT().OnDeal(deal(90, 900, 1, 2, 5, 1)).Times(1)
	price, volume := book.MatchOrders()
	assert.Equal(t, uint64(90), price)
	assert.Equal(t, uint64(900), volume)

	bid, ask := book.AggregatedView()
	assert.Equal(t, []types.PriceLevel{
		level(1, 300, 90),
		level(1, 350, 89),
		level(1, 150, 88),
		level(1, 230, 87),
	}, bid)
	assert.Equal(t, level(1, 650, 91), ask[0])
	assert.Len(t, ask, 4)
}

func TestAuction_MatchOrdersNilHandler(t *testing.T) {
	log := logging.NewTestLogger()
	defer log.Sync()
	book := NewOrderContainer(log, NewDefaultConfig(), "silent", nil)

	require.NoError(t, book.Insert(buy(10, 101, 1, 1), false))
	require.NoError(t, book.Insert(sell(10, 100, 1, 2), false))
	price, volume := book.MatchOrders()
	assert.Equal(t, uint64(100), price)
	assert.Equal(t, uint64(10), volume)
	assert.Equal(t, 0, book.GetTotalNumberOfOrders())
}
