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
	"code.vegaprotocol.io/exchange/engine"
	"code.vegaprotocol.io/exchange/types"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Actions a scenario step can take.
const (
	ActionInsert       = "insert"
	ActionModify       = "modify"
	ActionDelete       = "delete"
	ActionPhase        = "phase"
	ActionProductPhase = "product-phase"
	ActionShow         = "show"
)

var ErrUnknownAction = errors.New("unknown action")

// Scenario is a list of products and the steps replayed against them.
type Scenario struct {
	Products []types.Product `toml:"products"`
	Steps    []Step          `toml:"steps"`
}

type Step struct {
	Action   string             `toml:"action"`
	Product  uint32             `toml:"product"`
	Side     types.Side         `toml:"side"`
	Order    uint32             `toml:"order"`
	Replaced uint32             `toml:"replaced"`
	Client   uint32             `toml:"client"`
	Quantity uint64             `toml:"quantity"`
	Price    uint64             `toml:"price"`
	Phase    types.TradingPhase `toml:"phase"`
	// Reject marks steps expected to fail.
	Reject bool `toml:"reject"`
}

// LoadScenario reads a scenario from a TOML file.
func LoadScenario(path string) (*Scenario, error) {
	sc := &Scenario{}
	md, err := toml.DecodeFile(path, sc)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read scenario %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown key %s in scenario %s", undecoded[0], path)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *Scenario) Validate() error {
	for _, p := range s.Products {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for i, step := range s.Steps {
		if step.Action == ActionShow {
			continue
		}
		if _, err := step.Command(); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
	}
	return nil
}

// Command converts the step into an engine command.
func (s Step) Command() (engine.Command, error) {
	switch s.Action {
	case ActionInsert:
		return engine.Command{
			Type:      engine.CommandInsert,
			ProductID: s.Product,
			Order:     types.NewOrder(s.Side, s.Quantity, s.Price, s.Order, s.Client),
		}, nil
	case ActionModify:
		return engine.Command{
			Type:      engine.CommandModify,
			ProductID: s.Product,
			Replace:   types.NewOrderReplace(s.Side, s.Quantity, s.Price, s.Order, s.Replaced, s.Client),
		}, nil
	case ActionDelete:
		return engine.Command{
			Type:      engine.CommandDelete,
			ProductID: s.Product,
			OrderID:   s.Order,
			ClientID:  s.Client,
			Side:      s.Side,
		}, nil
	case ActionPhase:
		return engine.Command{Type: engine.CommandGlobalPhase, Phase: s.Phase}, nil
	case ActionProductPhase:
		return engine.Command{Type: engine.CommandProductPhase, ProductID: s.Product, Phase: s.Phase}, nil
	default:
		return engine.Command{}, errors.Wrapf(ErrUnknownAction, "%q", s.Action)
	}
}
