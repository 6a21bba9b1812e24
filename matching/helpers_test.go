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
)

type tstOB struct {
	*OrderContainer
	log   *logging.Logger
	deals []types.Deal
}

func (t *tstOB) Finish() {
	t.log.Sync()
}

func getTestOrderContainer(_ *testing.T, instrument string) *tstOB {
	tob := tstOB{
		log: logging.NewTestLogger(),
	}
	cfg := NewDefaultConfig()
	cfg.Level.Level = logging.DebugLevel
	tob.OrderContainer = NewOrderContainer(tob.log, cfg, instrument, DealHandlerFunc(func(d types.Deal) {
		tob.deals = append(tob.deals, d)
	}))

	// Turn on all the debug levels so we can cover more lines of code
	tob.LogPriceLevelsDebug = true
	tob.LogRemovedOrdersDebug = true
	return &tob
}

func (t *tstOB) insertAll(tt *testing.T, match bool, orders ...types.Order) {
	tt.Helper()
	for _, o := range orders {
		require.NoError(tt, t.Insert(o, match), o.String())
	}
}

func (t *tstOB) clearDeals() {
	t.deals = nil
}

func buy(qty, price uint64, orderID, clientID uint32) types.Order {
	return types.NewOrder(types.SideBuy, qty, price, orderID, clientID)
}

func sell(qty, price uint64, orderID, clientID uint32) types.Order {
	return types.NewOrder(types.SideSell, qty, price, orderID, clientID)
}

func level(count, volume, price uint64) types.PriceLevel {
	return types.PriceLevel{OrderCount: count, Volume: volume, Price: price}
}

func deal(price, qty uint64, sellClient, sellOrder, buyClient, buyOrder uint32) types.Deal {
	return types.Deal{
		Price:        price,
		Quantity:     qty,
		SellOrderID:  sellOrder,
		SellClientID: sellClient,
		BuyOrderID:   buyOrder,
		BuyClientID:  buyClient,
	}
}

// auctionBook is a book with a gap between the two sides.
func auctionBook(t *testing.T) *tstOB {
	t.Helper()
	book := getTestOrderContainer(t, "auction")
	book.insertAll(t, false,
		buy(1000, 1234, 1, 5),
		buy(2000, 1234, 1, 6),
		buy(3000, 1321, 1, 7),
		buy(4000, 1325, 1, 8),
		buy(5000, 2185, 1, 9),
		buy(6000, 2185, 1, 10),
		sell(8000, 4321, 2, 1),
		sell(7000, 4321, 2, 2),
		sell(6000, 4526, 2, 3),
		sell(5000, 4580, 2, 4),
		sell(4000, 8526, 2, 5),
		sell(3000, 8526, 2, 6),
	)
	return book
}

// continuousBook has a one tick spread between 89 and 90.
func continuousBook(t *testing.T) *tstOB {
	t.Helper()
	book := getTestOrderContainer(t, "continuous")
	book.insertAll(t, false,
		buy(350, 89, 1, 6),
		buy(150, 88, 1, 7),
		buy(230, 87, 1, 8),
		sell(900, 90, 2, 1),
		sell(650, 91, 2, 2),
		sell(500, 92, 2, 3),
		sell(350, 93, 2, 4),
	)
	return book
}
