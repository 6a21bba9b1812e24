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

package storage

import (
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/types"

	"github.com/pkg/errors"
)

const productsDB = "products"

// ProductStore persists the reference data of the tradable products.
type ProductStore struct {
	store *NoSqlStorage[types.Product]
}

func NewProductStore(log *logging.Logger, c Config) (*ProductStore, error) {
	store, err := New[types.Product](log, c, productsDB)
	if err != nil {
		return nil, err
	}
	return &ProductStore{store: store}, nil
}

// Add stores a new product, an existing identifier is rejected.
func (p *ProductStore) Add(product types.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	err := p.store.Write(product, types.Product.StorageKey, true, false)
	if errors.Is(err, ErrKeyExists) {
		return errors.Wrapf(types.ErrDuplicateProduct, "product %d", product.ID)
	}
	return err
}

func (p *ProductStore) Get(id uint32) (types.Product, error) {
	product, err := p.store.Get(types.Product{ID: id}.StorageKey())
	if errors.Is(err, ErrNotFound) {
		return product, errors.Wrapf(types.ErrUnknownProduct, "product %d", id)
	}
	return product, err
}

// Products returns all the stored products ordered by identifier.
func (p *ProductStore) Products() ([]types.Product, error) {
	out := []types.Product{}
	err := p.store.Load(func(product types.Product) error {
		out = append(out, product)
		return nil
	})
	return out, err
}

func (p *ProductStore) Close() error {
	return p.store.Close()
}
