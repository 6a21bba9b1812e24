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

// BookCache keeps the theoretical opening information of a book between
// two mutations.
type BookCache struct {
	theoreticalPrice  cachedUint
	theoreticalVolume cachedUint
}

func NewBookCache() BookCache {
	return BookCache{}
}

type cachedUint struct {
	valid bool
	value uint64
}

func (c *cachedUint) Set(u uint64) {
	c.value = u
	c.valid = true
}

func (c *cachedUint) Invalidate() {
	c.valid = false
}

func (c *cachedUint) Get() (uint64, bool) {
	return c.value, c.valid
}

func (c *BookCache) Invalidate() {
	c.theoreticalPrice.Invalidate()
	c.theoreticalVolume.Invalidate()
}

func (c *BookCache) SetTheoreticalOpen(price, volume uint64) {
	c.theoreticalPrice.Set(price)
	c.theoreticalVolume.Set(volume)
}

// GetTheoreticalOpen returns the cached price and volume, the last value is
// false when either needs to be recomputed.
func (c *BookCache) GetTheoreticalOpen() (uint64, uint64, bool) {
	price, okPrice := c.theoreticalPrice.Get()
	volume, okVolume := c.theoreticalVolume.Get()
	return price, volume, okPrice && okVolume
}
