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
	"context"

	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/types"

	"github.com/pkg/errors"
)

// CommandType selects the engine operation a Command runs.
type CommandType uint8

const (
	CommandInsert CommandType = iota
	CommandModify
	CommandDelete
	CommandGlobalPhase
	CommandProductPhase
)

var ErrUnknownCommand = errors.New("unknown command")

func (c CommandType) String() string {
	switch c {
	case CommandInsert:
		return "insert"
	case CommandModify:
		return "modify"
	case CommandDelete:
		return "delete"
	case CommandGlobalPhase:
		return "global-phase"
	case CommandProductPhase:
		return "product-phase"
	default:
		return "unknown"
	}
}

// Command is one request to the engine. The outcome is sent on Reply when
// it is set, the channel needs room for it or a reader.
type Command struct {
	Type      CommandType
	ProductID uint32
	Order     types.Order
	Replace   types.OrderReplace
	OrderID   uint32
	ClientID  uint32
	Side      types.Side
	Phase     types.TradingPhase
	Reply     chan<- error
}

// Listen applies the commands in the order they are received until the
// channel is closed or the context cancelled.
func (e *Engine) Listen(ctx context.Context, commands <-chan Command) error {
	e.log.Info("engine listening for commands")
	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped listening", logging.Error(ctx.Err()))
			return ctx.Err()
		case cmd, ok := <-commands:
			if !ok {
				e.log.Info("command channel closed")
				return nil
			}
			err := e.Apply(cmd)
			if cmd.Reply != nil {
				cmd.Reply <- err
			}
		}
	}
}

// Apply runs a single command.
func (e *Engine) Apply(cmd Command) error {
	switch cmd.Type {
	case CommandInsert:
		return e.Insert(cmd.Order, cmd.ProductID)
	case CommandModify:
		return e.Modify(cmd.Replace, cmd.ProductID)
	case CommandDelete:
		return e.Delete(cmd.OrderID, cmd.ClientID, cmd.Side, cmd.ProductID)
	case CommandGlobalPhase:
		return e.SetGlobalPhase(cmd.Phase)
	case CommandProductPhase:
		return e.SetProductPhase(cmd.ProductID, cmd.Phase)
	default:
		return errors.Wrapf(ErrUnknownCommand, "%d", cmd.Type)
	}
}
