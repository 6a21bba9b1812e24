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

package main

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"code.vegaprotocol.io/exchange/libs/json"
	"code.vegaprotocol.io/exchange/types"

	"github.com/fatih/color"
)

type dealLine struct {
	Product string `json:"product"`
	types.Deal
}

// dealPrinter writes every published deal to w.
type dealPrinter struct {
	w      io.Writer
	json   bool
	mu     sync.Mutex
	labels map[uint32]string

	price *color.Color
	buy   *color.Color
	sell  *color.Color
}

func newDealPrinter(w io.Writer, asJSON bool) *dealPrinter {
	return &dealPrinter{
		w:      w,
		json:   asJSON,
		labels: map[uint32]string{},
		price:  color.New(color.Bold),
		buy:    color.New(color.FgGreen),
		sell:   color.New(color.FgRed),
	}
}

func (p *dealPrinter) SetProducts(products []types.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, prod := range products {
		p.labels[prod.ID] = prod.Name
	}
}

func (p *dealPrinter) label(productID uint32) string {
	if l, ok := p.labels[productID]; ok {
		return l
	}
	return strconv.FormatUint(uint64(productID), 10)
}

func (p *dealPrinter) Publish(productID uint32, d types.Deal) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		_ = json.Print(p.w, dealLine{Product: p.label(productID), Deal: d})
		return
	}
	fmt.Fprintf(p.w, "%s deal %d @ %s  %s  %s\n",
		p.label(productID),
		d.Quantity,
		p.price.Sprint(d.Price),
		p.buy.Sprintf("buy %d/%d", d.BuyClientID, d.BuyOrderID),
		p.sell.Sprintf("sell %d/%d", d.SellClientID, d.SellOrderID),
	)
}
