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

import "code.vegaprotocol.io/exchange/types"

//go:generate go run github.com/golang/mock/mockgen -destination mocks/deal_handler_mock.go -package mocks code.vegaprotocol.io/exchange/matching DealHandler

// DealHandler receives the deals produced by an order container, in the
// order they are produced. It is called synchronously from the matching
// loop and must not call back into the container.
type DealHandler interface {
	OnDeal(deal types.Deal)
}

// DealHandlerFunc adapts a function to the DealHandler interface.
type DealHandlerFunc func(types.Deal)

func (f DealHandlerFunc) OnDeal(deal types.Deal) {
	f(deal)
}
