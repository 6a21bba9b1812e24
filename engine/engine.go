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

package engine

import (
	"sort"
	"strconv"
	"sync"

	liberrors "code.vegaprotocol.io/exchange/libs/errors"
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/matching"
	"code.vegaprotocol.io/exchange/metrics"
	"code.vegaprotocol.io/exchange/types"

	"github.com/pkg/errors"
)

// ProductSource provides the reference data of the products to trade.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/product_source_mock.go -package mocks code.vegaprotocol.io/exchange/engine ProductSource
type ProductSource interface {
	Products() ([]types.Product, error)
}

// DealPublisher receives every deal, tagged with its product.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/deal_publisher_mock.go -package mocks code.vegaprotocol.io/exchange/engine DealPublisher
type DealPublisher interface {
	Publish(productID uint32, deal types.Deal)
}

type product struct {
	types.Product
	label string
	phase types.TradingPhase
	book  *matching.OrderContainer
}

// Engine routes the order flow of every product to its book and applies
// the matching behaviour of the trading phases. Phase changes are requested
// by the caller. Writers are serialised, Listen provides a single writer
// fed from a channel.
type Engine struct {
	Config

	log       *logging.Logger
	mu        sync.RWMutex
	products  map[uint32]*product
	phase     types.TradingPhase
	publisher DealPublisher
}

// NewEngine creates an engine without any product, in the Close phase.
func NewEngine(log *logging.Logger, cfg Config, publisher DealPublisher) *Engine {
	// setup logger
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		Config:    cfg,
		log:       log,
		products:  map[uint32]*product{},
		phase:     types.TradingPhaseClose,
		publisher: publisher,
	}
}

// ReloadConf updates the configuration of the engine and of every book.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.Config = cfg
	for _, p := range e.products {
		p.book.ReloadConf(cfg.Matching)
	}
}

// Configure loads the products of the source and creates their books.
// Every product is attempted, the errors are returned together.
func (e *Engine) Configure(src ProductSource) error {
	products, err := src.Products()
	if err != nil {
		return errors.Wrap(err, "could not load products")
	}

	errs := liberrors.NewCumulatedErrors()
	for _, p := range products {
		errs.Add(e.AddProduct(p))
	}
	e.log.Info("products configured",
		logging.Int("products", len(products)),
		logging.Int("errors", len(errs.Errors)))
	return errs.ErrorOrNil()
}

// AddProduct creates the book of a new product, in the current global phase.
func (e *Engine) AddProduct(p types.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.products[p.ID]; ok {
		return errors.Wrapf(types.ErrDuplicateProduct, "product %d", p.ID)
	}

	prod := &product{
		Product: p,
		label:   strconv.FormatUint(uint64(p.ID), 10),
		phase:   e.phase,
	}
	prod.book = matching.NewOrderContainer(e.log, e.Matching, p.Name, e.dealHandler(prod))
	e.products[p.ID] = prod
	metrics.TradingPhaseSet(int(prod.phase), prod.label)

	e.log.Info("product added",
		logging.ProductID(p.ID),
		logging.String("name", p.Name),
		logging.TradingPhase(prod.phase))
	return nil
}

func (e *Engine) dealHandler(p *product) matching.DealHandler {
	return matching.DealHandlerFunc(func(d types.Deal) {
		metrics.DealAdd(d.Quantity, d.Notional(), p.label)
		if e.publisher != nil {
			e.publisher.Publish(p.ID, d)
		}
	})
}

// Insert adds a new order to the book of the product. The order matches
// immediately in continuous trading and accumulates in auctions.
func (e *Engine) Insert(order types.Order, productID uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.tradable(productID)
	if err != nil {
		return err
	}
	defer metrics.EngineTimeCounterAdd(p.label, "insert")()

	err = p.book.Insert(order, p.phase == types.TradingPhaseContinuousTrading)
	e.accountFor(p, "insert", err)
	return err
}

// Modify replaces a resting order of the product.
func (e *Engine) Modify(replace types.OrderReplace, productID uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.tradable(productID)
	if err != nil {
		return err
	}
	defer metrics.EngineTimeCounterAdd(p.label, "modify")()

	err = p.book.Modify(replace, p.phase == types.TradingPhaseContinuousTrading)
	e.accountFor(p, "modify", err)
	return err
}

// Delete removes a resting order of the product.
func (e *Engine) Delete(orderID, clientID uint32, side types.Side, productID uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.tradable(productID)
	if err != nil {
		return err
	}
	defer metrics.EngineTimeCounterAdd(p.label, "delete")()

	err = p.book.Delete(orderID, clientID, side)
	e.accountFor(p, "delete", err)
	return err
}

func (e *Engine) tradable(productID uint32) (*product, error) {
	p, ok := e.products[productID]
	if !ok {
		return nil, errors.Wrapf(types.ErrUnknownProduct, "product %d", productID)
	}
	if p.phase == types.TradingPhaseClose {
		return nil, types.ErrMarketClosed
	}
	return p, nil
}

func (e *Engine) accountFor(p *product, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
		if e.log.IsDebug() {
			e.log.Debug("order operation rejected",
				logging.ProductID(p.ID),
				logging.String("operation", operation),
				logging.Error(err))
		}
	}
	metrics.OrderCounterInc(p.label, operation, outcome)
	metrics.RestingOrdersSet(p.book.GetTotalNumberOfOrders(), p.label)
}

func (e *Engine) get(productID uint32) (*product, error) {
	p, ok := e.products[productID]
	if !ok {
		return nil, errors.Wrapf(types.ErrUnknownProduct, "product %d", productID)
	}
	return p, nil
}

// GlobalPhase returns the phase requested for the whole market.
func (e *Engine) GlobalPhase() types.TradingPhase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// Phase returns the phase of one product, it differs from the global phase
// while the product is in an intraday auction.
func (e *Engine) Phase(productID uint32) (types.TradingPhase, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, err := e.get(productID)
	if err != nil {
		return types.TradingPhaseClose, err
	}
	return p.phase, nil
}

func (e *Engine) AggregatedView(productID uint32) (bid, ask []types.PriceLevel, err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, err := e.get(productID)
	if err != nil {
		return nil, nil, err
	}
	bid, ask = p.book.AggregatedView()
	return bid, ask, nil
}

// TheoreticalOpen returns the price and volume the book of the product
// would uncross at now.
func (e *Engine) TheoreticalOpen(productID uint32) (price, volume uint64, err error) {
	// the book caches the result, this is a write
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.get(productID)
	if err != nil {
		return 0, 0, err
	}
	price, volume = p.book.GetTheoreticalOpenInformation()
	return price, volume, nil
}

// Display renders the book of the product.
func (e *Engine) Display(productID uint32) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, err := e.get(productID)
	if err != nil {
		return "", err
	}
	return p.book.String(), nil
}

// Products returns the products of the engine, ordered by identifier.
func (e *Engine) Products() []types.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.productsLocked()
}

func (e *Engine) productsLocked() []types.Product {
	out := make([]types.Product, 0, len(e.products))
	for _, p := range e.products {
		out = append(out, p.Product)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
