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
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/metrics"
	"code.vegaprotocol.io/exchange/types"

	"github.com/pkg/errors"
)

// globalTransitions lists the phase the whole market can move to from each
// phase.
var globalTransitions = map[types.TradingPhase]types.TradingPhase{
	types.TradingPhaseClose:             types.TradingPhaseOpeningAuction,
	types.TradingPhaseOpeningAuction:    types.TradingPhaseContinuousTrading,
	types.TradingPhaseContinuousTrading: types.TradingPhaseClosingAuction,
	types.TradingPhaseClosingAuction:    types.TradingPhaseClose,
}

// SetGlobalPhase moves every product to the next phase of the trading day.
// Products leaving an auction are uncrossed, products entering Close are
// emptied. A product in an intraday auction stays in it until Close.
func (e *Engine) SetGlobalPhase(phase types.TradingPhase) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if next, ok := globalTransitions[e.phase]; !ok || next != phase {
		return errors.Wrapf(types.ErrInvalidPhaseTransition, "%s to %s", e.phase, phase)
	}

	e.log.Info("changing global trading phase",
		logging.String("from", e.phase.String()),
		logging.String("to", phase.String()))
	e.phase = phase

	for _, prod := range e.productsLocked() {
		p := e.products[prod.ID]
		if p.phase == types.TradingPhaseIntradayAuction && phase != types.TradingPhaseClose {
			continue
		}
		e.changePhase(p, phase)
	}
	return nil
}

// SetProductPhase moves one product in or out of an intraday auction while
// the market trades continuously.
func (e *Engine) SetProductPhase(productID uint32, phase types.TradingPhase) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.get(productID)
	if err != nil {
		return err
	}

	switch {
	case p.phase == types.TradingPhaseContinuousTrading && phase == types.TradingPhaseIntradayAuction:
	case p.phase == types.TradingPhaseIntradayAuction && phase == types.TradingPhaseContinuousTrading &&
		e.phase == types.TradingPhaseContinuousTrading:
	default:
		return errors.Wrapf(types.ErrInvalidPhaseTransition, "product %d %s to %s", productID, p.phase, phase)
	}

	e.changePhase(p, phase)
	return nil
}

func (e *Engine) changePhase(p *product, phase types.TradingPhase) {
	from := p.phase
	if from == phase {
		return
	}
	p.phase = phase

	if from.IsAuction() {
		price, volume := p.book.MatchOrders()
		if volume > 0 {
			metrics.UncrossingInc(p.label)
		}
		e.log.Info("auction uncrossed",
			logging.ProductID(p.ID),
			logging.String("auction", from.String()),
			logging.Uint64("price", price),
			logging.Uint64("volume", volume))
	}
	if phase == types.TradingPhaseClose {
		p.book.Reset()
	}

	metrics.TradingPhaseSet(int(phase), p.label)
	metrics.RestingOrdersSet(p.book.GetTotalNumberOfOrders(), p.label)
	if e.log.IsDebug() {
		e.log.Debug("product phase changed",
			logging.ProductID(p.ID),
			logging.String("from", from.String()),
			logging.String("to", phase.String()))
	}
}
