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
	"fmt"

	"github.com/pkg/errors"
)

// Product is the reference data of a tradable instrument.
type Product struct {
	ID   uint32 `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

func (p Product) Validate() error {
	if p.ID == 0 {
		return errors.Wrap(ErrUnknownProduct, "product id must be set")
	}
	if p.Name == "" {
		return errors.Errorf("product %d has no name", p.ID)
	}
	return nil
}

// StorageKey is the key a product is persisted under, zero padded so keys
// sort like identifiers.
func (p Product) StorageKey() string {
	return fmt.Sprintf("%010d", p.ID)
}
