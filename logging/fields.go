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

package logging

import (
	"time"

	"code.vegaprotocol.io/exchange/types"

	"go.uber.org/zap"
)

// Binary constructs a field that carries an opaque binary blob.
func Binary(key string, val []byte) zap.Field {
	return zap.Binary(key, val)
}

// Bool constructs a field that carries a bool.
func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

// Int constructs a field with the given key and value.
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value.
func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

// Uint32 constructs a field with the given key and value.
func Uint32(key string, val uint32) zap.Field {
	return zap.Uint32(key, val)
}

// Uint64 constructs a field with the given key and value.
func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// String constructs a field with the given key and value.
func String(key string, val string) zap.Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and value.
func Strings(key string, val []string) zap.Field {
	return zap.Strings(key, val)
}

// Duration constructs a field with the given key and value.
func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

// Error constructs a field with the given key and value.
func Error(val error) zap.Field {
	return zap.Error(val)
}

// ProductID constructs a field with the given product identifier.
func ProductID(id uint32) zap.Field {
	return zap.Uint32("product-id", id)
}

// Side constructs a field with the given book side.
func Side(side types.Side) zap.Field {
	return zap.String("side", side.String())
}

// OrderKey constructs a field with the identity of an order.
func OrderKey(key types.OrderKey) zap.Field {
	return zap.String("order", key.String())
}

// Order constructs a field with the given order.
func Order(order types.Order) zap.Field {
	return zap.String("order", order.String())
}

// OrderReplace constructs a field with the given replace request.
func OrderReplace(replace types.OrderReplace) zap.Field {
	return zap.String("replace", replace.String())
}

// Deal constructs a field with the given deal.
func Deal(deal types.Deal) zap.Field {
	return zap.String("deal", deal.String())
}

// TradingPhase constructs a field with the given trading phase.
func TradingPhase(phase types.TradingPhase) zap.Field {
	return zap.String("phase", phase.String())
}
