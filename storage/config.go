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
	"code.vegaprotocol.io/exchange/config/encoding"
	"code.vegaprotocol.io/exchange/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
const namedLogger = "storage"

// Config provides package level settings, configuration and logging.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	Path            string        `long:"path" description:"Directory holding the databases"`
	InMemory        encoding.Bool `long:"in-memory" choice:"true" choice:"false" description:"Keep the databases in memory only"`
	BloomFilterBits int           `long:"bloom-filter-bits" description:"Bits per key of the bloom filter, 0 disables it"`
	Sync            encoding.Bool `long:"sync" choice:"true" choice:"false" description:"Flush every write to disk before returning"`
}

// NewDefaultConfig constructs a new Config instance with default parameter values.
func NewDefaultConfig(defaultStoreDirPath string) Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		Path:            defaultStoreDirPath,
		InMemory:        false,
		BloomFilterBits: 10,
		Sync:            false,
	}
}
