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

//lint:file-ignore SA5008 duplicated struct tags are ok for config

package config

import (
	"bytes"
	"os"
	"path/filepath"

	"code.vegaprotocol.io/exchange/deals"
	"code.vegaprotocol.io/exchange/engine"
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/metrics"
	"code.vegaprotocol.io/exchange/storage"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	configFileName = "config.toml"
	storeDirName   = "store"
)

// ErrConfigExists is returned by Write when a configuration file is
// already present and overwriting was not requested.
var ErrConfigExists = errors.New("configuration file already exists")

// Config ties together all other application configuration types.
type Config struct {
	Logging logging.Config `group:"Logging" namespace:"logging"`
	Engine  engine.Config  `group:"Engine" namespace:"engine"`
	Storage storage.Config `group:"Storage" namespace:"storage"`
	Deals   deals.Config   `group:"Deals" namespace:"deals"`
	Metrics metrics.Config `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns the default configuration of every package,
// databases being kept under rootPath.
func NewDefaultConfig(rootPath string) Config {
	return Config{
		Logging: logging.NewDefaultConfig(),
		Engine:  engine.NewDefaultConfig(),
		Storage: storage.NewDefaultConfig(filepath.Join(rootPath, storeDirName)),
		Deals:   deals.NewDefaultConfig(),
		Metrics: metrics.NewDefaultConfig(),
	}
}

// Path returns the location of the configuration file under rootPath.
func Path(rootPath string) string {
	return filepath.Join(rootPath, configFileName)
}

// Read loads the configuration file from rootPath on top of the defaults.
func Read(rootPath string) (*Config, error) {
	cfg := NewDefaultConfig(rootPath)
	if err := decodeFile(Path(rootPath), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write saves cfg as the configuration file of rootPath.
func Write(rootPath string, cfg Config, overwrite bool) error {
	path := Path(rootPath)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.Wrap(ErrConfigExists, path)
	}
	if err := os.MkdirAll(rootPath, 0o700); err != nil {
		return errors.Wrapf(err, "could not create %s", rootPath)
	}

	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "could not encode configuration")
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrapf(err, "could not read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("unknown configuration key %s in %s", undecoded[0], path)
	}
	return nil
}
