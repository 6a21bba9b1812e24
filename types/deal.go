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

// Deal records one execution between a seller and a buyer.
type Deal struct {
	Price        uint64 `json:"price"`
	Quantity     uint64 `json:"quantity"`
	SellOrderID  uint32 `json:"sell_order_id"`
	SellClientID uint32 `json:"sell_client_id"`
	BuyOrderID   uint32 `json:"buy_order_id"`
	BuyClientID  uint32 `json:"buy_client_id"`
}

// NewDeal builds a deal between two orders of opposite sides, given in any
// order.
func NewDeal(price, qty uint64, a, b *Order) Deal {
	sell, buy := a, b
	if a.Side == SideBuy {
		sell, buy = b, a
	}
	return Deal{
		Price:        price,
		Quantity:     qty,
		SellOrderID:  sell.OrderID,
		SellClientID: sell.ClientID,
		BuyOrderID:   buy.OrderID,
		BuyClientID:  buy.ClientID,
	}
}

// Notional is the traded value of the deal.
func (d Deal) Notional() uint64 {
	return d.Price * d.Quantity
}

func (d Deal) String() string {
	return fmt.Sprintf(
		"%d@%d sell(client %d, order %d) buy(client %d, order %d)",
		d.Quantity, d.Price, d.SellClientID, d.SellOrderID, d.BuyClientID, d.BuyOrderID,
	)
}
