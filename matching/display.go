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
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// ViewMode selects how the book is rendered by String.
type ViewMode uint8

const (
	// ViewModeByPrice renders one row per price level.
	ViewModeByPrice ViewMode = iota
	// ViewModeByOrder renders every resting order in priority order.
	ViewModeByOrder
)

var ErrInvalidViewMode = errors.New("invalid view mode")

func (m ViewMode) String() string {
	switch m {
	case ViewModeByOrder:
		return "order"
	case ViewModeByPrice:
		return "price"
	default:
		return "unknown"
	}
}

func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(s) {
	case "order":
		return ViewModeByOrder, nil
	case "price":
		return ViewModeByPrice, nil
	default:
		return ViewModeByPrice, errors.Wrapf(ErrInvalidViewMode, "%q", s)
	}
}

func (m ViewMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ViewMode) UnmarshalText(text []byte) error {
	mode, err := ParseViewMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m *ViewMode) UnmarshalFlag(s string) error {
	return m.UnmarshalText([]byte(s))
}

// SetViewMode changes the rendering of String, matching is not affected.
func (b *OrderContainer) SetViewMode(mode ViewMode) {
	b.ViewMode = mode
}

func (b *OrderContainer) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", b.instrument)

	table := tablewriter.NewWriter(&sb)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	if b.ViewMode == ViewModeByOrder {
		b.renderByOrder(table)
	} else {
		b.renderByPrice(table)
	}
	table.Render()
	return sb.String()
}

func (b *OrderContainer) renderByPrice(table *tablewriter.Table) {
	table.SetHeader([]string{"bid orders", "bid volume", "bid price", "ask price", "ask volume", "ask orders"})

	bid, ask := b.AggregatedView()
	for i := 0; i < len(bid) || i < len(ask); i++ {
		row := make([]string, 6)
		if i < len(bid) {
			row[0] = strconv.FormatUint(bid[i].OrderCount, 10)
			row[1] = strconv.FormatUint(bid[i].Volume, 10)
			row[2] = strconv.FormatUint(bid[i].Price, 10)
		}
		if i < len(ask) {
			row[3] = strconv.FormatUint(ask[i].Price, 10)
			row[4] = strconv.FormatUint(ask[i].Volume, 10)
			row[5] = strconv.FormatUint(ask[i].OrderCount, 10)
		}
		table.Append(row)
	}
}

func (b *OrderContainer) renderByOrder(table *tablewriter.Table) {
	table.SetHeader([]string{"side", "client", "order", "quantity", "price", "sequence"})

	for _, side := range []*OrderBookSide{b.buy, b.sell} {
		for _, o := range side.getOrders() {
			table.Append([]string{
				o.Side.String(),
				strconv.FormatUint(uint64(o.ClientID), 10),
				strconv.FormatUint(uint64(o.OrderID), 10),
				strconv.FormatUint(o.Quantity, 10),
				strconv.FormatUint(o.Price, 10),
				strconv.FormatUint(o.Sequence, 10),
			})
		}
	}
}
