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

import "fmt"

// OrderKey is the identity of a resting order. The same client and order
// identifiers may be used on both sides at the same time.
type OrderKey struct {
	Side     Side
	ClientID uint32
	OrderID  uint32
}

func (k OrderKey) String() string {
	return fmt.Sprintf("%s/%d/%d", k.Side, k.ClientID, k.OrderID)
}

// Order is a limit order. Quantity is the remaining quantity, Sequence is
// the arrival sequence assigned by the book holding the order.
type Order struct {
	OrderID  uint32 `json:"order_id"`
	ClientID uint32 `json:"client_id"`
	Side     Side   `json:"side"`
	Price    uint64 `json:"price"`
	Quantity uint64 `json:"quantity"`
	Sequence uint64 `json:"sequence"`
}

func NewOrder(side Side, qty, price uint64, orderID, clientID uint32) Order {
	return Order{
		OrderID:  orderID,
		ClientID: clientID,
		Side:     side,
		Price:    price,
		Quantity: qty,
	}
}

func (o Order) Key() OrderKey {
	return OrderKey{Side: o.Side, ClientID: o.ClientID, OrderID: o.OrderID}
}

// Validate checks the order could rest in a book.
func (o Order) Validate() error {
	if !o.Side.IsValid() {
		return ErrInvalidSide
	}
	if o.Price == 0 {
		return ErrInvalidPrice
	}
	if o.Quantity == 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// Crosses reports whether o is marketable against a resting order priced at
// price on the opposite side.
func (o Order) Crosses(price uint64) bool {
	if o.Side == SideBuy {
		return o.Price >= price
	}
	return o.Price <= price
}

func (o Order) String() string {
	return fmt.Sprintf(
		"side(%s) qty(%d) price(%d) order(%d) client(%d) seq(%d)",
		o.Side, o.Quantity, o.Price, o.OrderID, o.ClientID, o.Sequence,
	)
}

// OrderReplace replaces the resting order ExistingOrderID of ClientID on
// Side with a new quantity, price and identity.
type OrderReplace struct {
	Side            Side
	Quantity        uint64
	Price           uint64
	ExistingOrderID uint32
	ReplacedOrderID uint32
	ClientID        uint32
}

func NewOrderReplace(side Side, qty, price uint64, existingOrderID, replacedOrderID, clientID uint32) OrderReplace {
	return OrderReplace{
		Side:            side,
		Quantity:        qty,
		Price:           price,
		ExistingOrderID: existingOrderID,
		ReplacedOrderID: replacedOrderID,
		ClientID:        clientID,
	}
}

func (r OrderReplace) ExistingKey() OrderKey {
	return OrderKey{Side: r.Side, ClientID: r.ClientID, OrderID: r.ExistingOrderID}
}

func (r OrderReplace) NewKey() OrderKey {
	return OrderKey{Side: r.Side, ClientID: r.ClientID, OrderID: r.ReplacedOrderID}
}

func (r OrderReplace) Validate() error {
	if !r.Side.IsValid() {
		return ErrInvalidSide
	}
	if r.Price == 0 {
		return ErrInvalidPrice
	}
	if r.Quantity == 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func (r OrderReplace) String() string {
	return fmt.Sprintf(
		"side(%s) qty(%d) price(%d) existing(%d) replaced(%d) client(%d)",
		r.Side, r.Quantity, r.Price, r.ExistingOrderID, r.ReplacedOrderID, r.ClientID,
	)
}

// PriceLevel is one aggregated entry of a book side.
type PriceLevel struct {
	OrderCount uint64
	Volume     uint64
	Price      uint64
}

func (p PriceLevel) String() string {
	return fmt.Sprintf("%d@%d(%d)", p.Volume, p.Price, p.OrderCount)
}
