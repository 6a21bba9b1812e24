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

package types

import (
	"strings"

	"github.com/pkg/errors"
)

type TradingPhase uint8

const (
	TradingPhaseClose TradingPhase = iota
	TradingPhaseOpeningAuction
	TradingPhaseContinuousTrading
	TradingPhaseClosingAuction
	TradingPhaseIntradayAuction
)

var tradingPhaseNames = map[TradingPhase]string{
	TradingPhaseClose:             "CLOSE",
	TradingPhaseOpeningAuction:    "OPENING_AUCTION",
	TradingPhaseContinuousTrading: "CONTINUOUS_TRADING",
	TradingPhaseClosingAuction:    "CLOSING_AUCTION",
	TradingPhaseIntradayAuction:   "INTRADAY_AUCTION",
}

func (p TradingPhase) String() string {
	if s, ok := tradingPhaseNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsAuction is true for the phases where orders accumulate without matching.
func (p TradingPhase) IsAuction() bool {
	switch p {
	case TradingPhaseOpeningAuction, TradingPhaseClosingAuction, TradingPhaseIntradayAuction:
		return true
	default:
		return false
	}
}

func ParseTradingPhase(s string) (TradingPhase, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for p, name := range tradingPhaseNames {
		if name == s {
			return p, nil
		}
	}
	return TradingPhaseClose, errors.Wrapf(ErrInvalidTradingPhase, "%q", s)
}

func (p TradingPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *TradingPhase) UnmarshalText(text []byte) error {
	phase, err := ParseTradingPhase(string(text))
	if err != nil {
		return err
	}
	*p = phase
	return nil
}
