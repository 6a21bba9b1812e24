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
	"context"
	"fmt"

	"code.vegaprotocol.io/exchange/config"
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/storage"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	RootFlag

	Force bool `short:"f" long:"force" description:"Erase existing configuration at the specified path"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer logger.AtExit()

	cfg := config.NewDefaultConfig(opts.RootPath)
	if err := config.Write(opts.RootPath, cfg, opts.Force); err != nil {
		return fmt.Errorf("couldn't save configuration file: %w", err)
	}

	// creates the products database
	products, err := storage.NewProductStore(logger, cfg.Storage)
	if err != nil {
		return fmt.Errorf("couldn't initialise storage: %w", err)
	}
	if err := products.Close(); err != nil {
		return err
	}

	logger.Info("configuration generated successfully",
		logging.String("path", config.Path(opts.RootPath)))
	return nil
}

func Init(_ context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{RootFlag: RootFlag{RootPath: defaultRootPath()}}

	short := "Initializes the exchange"
	long := "Generate the default configuration and the databases of the exchange"

	_, err := parser.AddCommand("init", short, long, &initCmd)
	return err
}
