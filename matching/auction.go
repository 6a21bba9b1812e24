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

// GetTheoreticalOpenInformation returns the price at which the book would
// uncross now and the volume that would trade at that price. Both are 0
// when no bid crosses any ask.
//
// The price maximises the executable volume. Ties go to the price leaving
// the smallest imbalance between the cumulated bid and ask volumes, then
// to the lowest price.
func (b *OrderContainer) GetTheoreticalOpenInformation() (price, volume uint64) {
	if price, volume, ok := b.cache.GetTheoreticalOpen(); ok {
		return price, volume
	}
	price, volume = b.computeTheoreticalOpen()
	b.cache.SetTheoreticalOpen(price, volume)
	return price, volume
}

func (b *OrderContainer) computeTheoreticalOpen() (uint64, uint64) {
	bids := b.buy.getLevels()  // highest price first
	asks := b.sell.getLevels() // lowest price first
	if len(bids) == 0 || len(asks) == 0 || bids[0].price < asks[0].price {
		return 0, 0
	}

	prices := candidatePrices(bids, asks)
	cumAsk := make([]uint64, len(prices))
	var (
		cum uint64
		j   int
	)
	for i, p := range prices {
		for ; j < len(asks) && asks[j].price <= p; j++ {
			cum += asks[j].volume
		}
		cumAsk[i] = cum
	}

	cumBid := make([]uint64, len(prices))
	cum, j = 0, 0
	for i := len(prices) - 1; i >= 0; i-- {
		for ; j < len(bids) && bids[j].price >= prices[i]; j++ {
			cum += bids[j].volume
		}
		cumBid[i] = cum
	}

	var (
		bestPrice, bestVolume, bestImbalance uint64
	)
	// prices are ascending so strict comparisons keep the lowest price on
	// a complete tie
	for i, p := range prices {
		vol := min(cumBid[i], cumAsk[i])
		if vol == 0 {
			continue
		}
		imbalance := absDiff(cumBid[i], cumAsk[i])
		if vol > bestVolume || (vol == bestVolume && imbalance < bestImbalance) {
			bestPrice, bestVolume, bestImbalance = p, vol, imbalance
		}
	}
	return bestPrice, bestVolume
}

// candidatePrices returns the distinct prices of both sides, ascending.
func candidatePrices(bids, asks []*PriceLevel) []uint64 {
	prices := make([]uint64, 0, len(bids)+len(asks))
	for _, l := range bids {
		prices = append(prices, l.price)
	}
	for _, l := range asks {
		prices = append(prices, l.price)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })

	out := prices[:0]
	for i, p := range prices {
		if i == 0 || p != prices[i-1] {
			out = append(out, p)
		}
	}
	return out
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// MatchOrders uncrosses the book at its theoretical opening price. Bids
// priced at or above it are paired with asks priced at or below it, each
// side taken in priority order, until the theoretical volume has traded.
// Every deal is executed at the opening price. Returns the price and the
// volume traded, both 0 when nothing could trade.
func (b *OrderContainer) MatchOrders() (price, volume uint64) {
	price, volume = b.GetTheoreticalOpenInformation()
	if volume == 0 {
		return 0, 0
	}

	b.cache.Invalidate()
	if b.log.IsDebug() {
		b.log.Debug("uncrossing the book",
			logging.Uint64("price", price), logging.Uint64("volume", volume))
	}

	remaining := volume
	for remaining > 0 {
		bidLvl, okBid := b.buy.bestLevel()
		askLvl, okAsk := b.sell.bestLevel()
		if !okBid || !okAsk || bidLvl.price < price || askLvl.price > price {
			b.log.Panic("uncrossing volume not available in the book",
				logging.Uint64("price", price),
				logging.Uint64("volume", volume),
				logging.Uint64("remaining", remaining))
		}

		bid, ask := bidLvl.head(), askLvl.head()
		qty := min(bid.Quantity, ask.Quantity, remaining)
		b.emit(types.NewDeal(price, qty, bid, ask))
		remaining -= qty

		if filled := b.buy.fillBest(qty); filled != nil {
			delete(b.ordersByID, filled.Key())
			b.logRemovedOrder(filled, "filled")
		}
		if filled := b.sell.fillBest(qty); filled != nil {
			delete(b.ordersByID, filled.Key())
			b.logRemovedOrder(filled, "filled")
		}
	}
	b.logPriceLevels()
	return price, volume
}
