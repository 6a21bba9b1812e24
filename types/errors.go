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

import "github.com/pkg/errors"

var (
	// ErrDuplicateOrder signals an order with the same identity rests already.
	ErrDuplicateOrder = errors.New("order already exists")
	// ErrOrderNotFound signals no resting order matches the given identity.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidReplace signals a replace request that cannot be applied.
	ErrInvalidReplace = errors.New("invalid order replace")
	ErrInvalidSide    = errors.New("invalid order side")
	ErrInvalidPrice   = errors.New("invalid order price")
	// ErrInvalidQuantity signals a zero quantity.
	ErrInvalidQuantity = errors.New("invalid order quantity")

	ErrUnknownProduct         = errors.New("unknown product")
	ErrDuplicateProduct       = errors.New("product already exists")
	ErrMarketClosed           = errors.New("market is closed")
	ErrInvalidPhaseTransition = errors.New("invalid trading phase transition")
	ErrInvalidTradingPhase    = errors.New("invalid trading phase")
)
