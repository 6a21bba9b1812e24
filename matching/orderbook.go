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
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/types"
)

// OrderContainer is the book of resting orders of one instrument. It is not
// safe for concurrent use, callers serialise operations per instrument.
type OrderContainer struct {
	Config

	log        *logging.Logger
	instrument string
	buy        *OrderBookSide
	sell       *OrderBookSide
	ordersByID map[types.OrderKey]*types.Order
	seq        uint64
	deals      DealHandler
	cache      BookCache
}

// NewOrderContainer creates an empty book for the instrument. Deals are
// handed to the given handler, which may be nil.
func NewOrderContainer(log *logging.Logger, config Config, instrument string, deals DealHandler) *OrderContainer {
	// setup logger
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	log = log.With(logging.String("instrument", instrument))

	return &OrderContainer{
		Config:     config,
		log:        log,
		instrument: instrument,
		buy:        newOrderBookSide(log, types.SideBuy),
		sell:       newOrderBookSide(log, types.SideSell),
		ordersByID: map[types.OrderKey]*types.Order{},
		deals:      deals,
		cache:      NewBookCache(),
	}
}

// ReloadConf is used in order to reload the internal configuration of
// the container.
func (b *OrderContainer) ReloadConf(cfg Config) {
	b.log.Info("reloading configuration")
	if b.log.GetLevel() != cfg.Level.Get() {
		b.log.Info("updating log level",
			logging.String("old", b.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		b.log.SetLevel(cfg.Level.Get())
	}

	b.Config = cfg
}

// Insert adds a new order to the book. With matchImmediately the order
// first trades against the opposite side as long as prices cross, only
// the remainder rests.
func (b *OrderContainer) Insert(order types.Order, matchImmediately bool) error {
	if err := order.Validate(); err != nil {
		return err
	}
	if _, ok := b.ordersByID[order.Key()]; ok {
		if b.log.IsDebug() {
			b.log.Debug("order already in the book", logging.Order(order))
		}
		return types.ErrDuplicateOrder
	}

	b.cache.Invalidate()
	b.seq++
	o := order
	o.Sequence = b.seq

	if b.log.IsDebug() {
		b.log.Debug("inserting order",
			logging.Order(o), logging.Bool("match", matchImmediately))
	}

	if matchImmediately {
		b.matchAggressor(&o)
	}
	if o.Quantity > 0 {
		b.rest(&o)
	}
	b.logPriceLevels()
	return nil
}

// Delete removes a resting order.
func (b *OrderContainer) Delete(orderID, clientID uint32, side types.Side) error {
	key := types.OrderKey{Side: side, ClientID: clientID, OrderID: orderID}
	o, ok := b.ordersByID[key]
	if !ok {
		return types.ErrOrderNotFound
	}

	b.cache.Invalidate()
	b.getSide(side).removeOrder(o)
	delete(b.ordersByID, key)
	b.logRemovedOrder(o, "deleted")
	b.logPriceLevels()
	return nil
}

// Modify replaces a resting order with the attributes and identity of the
// replace request. The order loses its time priority when its price
// changes or its quantity increases, otherwise it is updated in place.
func (b *OrderContainer) Modify(replace types.OrderReplace, matchImmediately bool) error {
	if err := replace.Validate(); err != nil {
		return err
	}
	existing, ok := b.ordersByID[replace.ExistingKey()]
	if !ok {
		return types.ErrOrderNotFound
	}
	newKey := replace.NewKey()
	if newKey != existing.Key() {
		if _, ok := b.ordersByID[newKey]; ok {
			return types.ErrInvalidReplace
		}
	}

	if b.log.IsDebug() {
		b.log.Debug("modifying order",
			logging.Order(*existing),
			logging.OrderReplace(replace),
			logging.Bool("match", matchImmediately))
	}

	b.cache.Invalidate()
	side := b.getSide(replace.Side)
	delete(b.ordersByID, existing.Key())

	if replace.Price != existing.Price || replace.Quantity > existing.Quantity {
		side.removeOrder(existing)
		b.seq++
		o := &types.Order{
			OrderID:  replace.ReplacedOrderID,
			ClientID: replace.ClientID,
			Side:     replace.Side,
			Price:    replace.Price,
			Quantity: replace.Quantity,
			Sequence: b.seq,
		}
		if matchImmediately {
			b.matchAggressor(o)
		}
		if o.Quantity > 0 {
			b.rest(o)
		}
		b.logPriceLevels()
		return nil
	}

	side.reduceOrder(existing, existing.Quantity-replace.Quantity)
	existing.OrderID = replace.ReplacedOrderID

	if matchImmediately && b.crossesOpposite(existing) {
		// the order keeps its sequence, whatever is left goes back to its
		// position in the level
		side.removeOrder(existing)
		b.matchAggressor(existing)
		if existing.Quantity == 0 {
			b.logPriceLevels()
			return nil
		}
		side.addOrder(existing)
	}
	b.ordersByID[newKey] = existing
	b.logPriceLevels()
	return nil
}

// AggregatedView returns both sides of the book aggregated by price, best
// price first.
func (b *OrderContainer) AggregatedView() (bid, ask []types.PriceLevel) {
	return b.buy.aggregated(), b.sell.aggregated()
}

// Reset empties the book.
func (b *OrderContainer) Reset() {
	b.buy.cleanup()
	b.sell.cleanup()
	b.ordersByID = map[types.OrderKey]*types.Order{}
	b.seq = 0
	b.cache.Invalidate()
	if b.log.IsDebug() {
		b.log.Debug("order book reset")
	}
}

// BestBidPrice returns the highest bid price, or an error if there is no bid.
func (b *OrderContainer) BestBidPrice() (uint64, error) {
	price, _, err := b.buy.BestPriceAndVolume()
	return price, err
}

// BestAskPrice returns the lowest ask price, or an error if there is no ask.
func (b *OrderContainer) BestAskPrice() (uint64, error) {
	price, _, err := b.sell.BestPriceAndVolume()
	return price, err
}

// GetTotalNumberOfOrders returns the number of resting orders on both sides.
func (b *OrderContainer) GetTotalNumberOfOrders() int {
	return len(b.ordersByID)
}

// GetOrder returns a copy of the resting order with the given identity.
func (b *OrderContainer) GetOrder(key types.OrderKey) (types.Order, error) {
	o, ok := b.ordersByID[key]
	if !ok {
		return types.Order{}, types.ErrOrderNotFound
	}
	return *o, nil
}

func (b *OrderContainer) getSide(side types.Side) *OrderBookSide {
	if side == types.SideBuy {
		return b.buy
	}
	return b.sell
}

func (b *OrderContainer) rest(o *types.Order) {
	b.getSide(o.Side).addOrder(o)
	b.ordersByID[o.Key()] = o
}

func (b *OrderContainer) crossesOpposite(o *types.Order) bool {
	price, _, err := b.getSide(o.Side.Opposite()).BestPriceAndVolume()
	return err == nil && o.Crosses(price)
}

// matchAggressor trades the order against the opposite side, best price
// first and oldest first within a price, at the price of the resting
// order. The aggressor is not in the book while it matches.
func (b *OrderContainer) matchAggressor(agg *types.Order) {
	opposite := b.getSide(agg.Side.Opposite())
	for agg.Quantity > 0 {
		lvl, ok := opposite.bestLevel()
		if !ok || !agg.Crosses(lvl.price) {
			return
		}
		resting := lvl.head()
		qty := min(agg.Quantity, resting.Quantity)
		b.emit(types.NewDeal(lvl.price, qty, agg, resting))
		agg.Quantity -= qty
		if filled := opposite.fillBest(qty); filled != nil {
			delete(b.ordersByID, filled.Key())
			b.logRemovedOrder(filled, "filled")
		}
	}
}

func (b *OrderContainer) emit(deal types.Deal) {
	if b.log.IsDebug() {
		b.log.Debug("new deal", logging.Deal(deal))
	}
	if b.deals != nil {
		b.deals.OnDeal(deal)
	}
}

func (b *OrderContainer) logRemovedOrder(o *types.Order, reason string) {
	if b.LogRemovedOrdersDebug && b.log.IsDebug() {
		b.log.Debug("order removed from the book",
			logging.Order(*o), logging.String("reason", reason))
	}
}

func (b *OrderContainer) logPriceLevels() {
	if !b.LogPriceLevelsDebug || !b.log.IsDebug() {
		return
	}
	bid, ask := b.AggregatedView()
	for _, l := range bid {
		b.log.Debug("bid level", logging.String("level", l.String()))
	}
	for _, l := range ask {
		b.log.Debug("ask level", logging.String("level", l.String()))
	}
}
