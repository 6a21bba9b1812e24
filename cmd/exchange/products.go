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
	"io"
	"os"
	"strconv"

	"code.vegaprotocol.io/exchange/config"
	"code.vegaprotocol.io/exchange/libs/json"
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/storage"
	"code.vegaprotocol.io/exchange/types"

	"github.com/jessevdk/go-flags"
	"github.com/olekukonko/tablewriter"
)

type ProductsListCmd struct {
	RootFlag

	JSON bool `long:"json" description:"Output as JSON"`
}

type ProductsAddCmd struct {
	RootFlag

	ID   uint32 `long:"id" required:"true" description:"Identifier of the product"`
	Name string `long:"name" required:"true" description:"Name of the product"`
}

var (
	productsListCmd ProductsListCmd
	productsAddCmd  ProductsAddCmd
)

func openProducts(rootPath string) (*storage.ProductStore, *logging.Logger, error) {
	cfg, err := config.Read(rootPath)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't read configuration: %w", err)
	}
	logger := logging.NewLoggerFromConfig(cfg.Logging)
	store, err := storage.NewProductStore(logger, cfg.Storage)
	if err != nil {
		logger.AtExit()
		return nil, nil, err
	}
	return store, logger, nil
}

func (opts *ProductsListCmd) Execute(_ []string) error {
	store, logger, err := openProducts(opts.RootPath)
	if err != nil {
		return err
	}
	defer logger.AtExit()
	defer store.Close()

	products, err := store.Products()
	if err != nil {
		return err
	}
	if opts.JSON {
		return json.PrettyPrint(os.Stdout, products)
	}
	printProducts(os.Stdout, products)
	return nil
}

func printProducts(w io.Writer, products []types.Product) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"id", "name"})
	for _, p := range products {
		table.Append([]string{strconv.FormatUint(uint64(p.ID), 10), p.Name})
	}
	table.Render()
}

func (opts *ProductsAddCmd) Execute(_ []string) error {
	store, logger, err := openProducts(opts.RootPath)
	if err != nil {
		return err
	}
	defer logger.AtExit()
	defer store.Close()

	p := types.Product{ID: opts.ID, Name: opts.Name}
	if err := store.Add(p); err != nil {
		return err
	}
	logger.Info("product added", logging.ProductID(p.ID), logging.String("name", p.Name))
	return nil
}

func Products(_ context.Context, parser *flags.Parser) error {
	root := RootFlag{RootPath: defaultRootPath()}
	productsListCmd = ProductsListCmd{RootFlag: root}
	productsAddCmd = ProductsAddCmd{RootFlag: root}

	cmd, err := parser.AddCommand("products", "Manage the traded products", "List or add the products the exchange trades", &struct{}{})
	if err != nil {
		return err
	}
	if _, err := cmd.AddCommand("list", "List the products", "List the products stored by the exchange", &productsListCmd); err != nil {
		return err
	}
	_, err = cmd.AddCommand("add", "Add a product", "Add a product to the exchange, its book opens on the next start", &productsAddCmd)
	return err
}
