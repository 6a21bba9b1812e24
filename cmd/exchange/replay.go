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
	"os/signal"
	"syscall"

	"code.vegaprotocol.io/exchange/config"
	"code.vegaprotocol.io/exchange/deals"
	"code.vegaprotocol.io/exchange/engine"
	"code.vegaprotocol.io/exchange/logging"
	"code.vegaprotocol.io/exchange/metrics"
	"code.vegaprotocol.io/exchange/storage"
	"code.vegaprotocol.io/exchange/types"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

type ReplayCmd struct {
	RootFlag

	JSON     bool `long:"json" description:"Print deals as JSON"`
	Strict   bool `long:"strict" description:"Stop at the first step with an unexpected outcome"`
	InMemory bool `long:"in-memory" description:"Do not persist products and deals"`
	Quiet    bool `short:"q" long:"quiet" description:"Do not print deals"`

	Args struct {
		Scenario string `positional-arg-name:"scenario" description:"TOML file describing the products and steps"`
	} `positional-args:"yes" required:"yes"`
}

var replayCmd ReplayCmd

func (opts *ReplayCmd) Execute(_ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sc, err := LoadScenario(opts.Args.Scenario)
	if err != nil {
		return err
	}

	bootLog := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer bootLog.AtExit()
	watcher, err := config.NewFromFile(ctx, bootLog, opts.RootPath)
	if err != nil {
		return fmt.Errorf("couldn't load configuration: %w", err)
	}
	cfg := watcher.Get()
	if opts.InMemory {
		cfg.Storage.InMemory = true
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	if err := metrics.Start(ctx, log, cfg.Metrics); err != nil {
		return err
	}

	products, err := storage.NewProductStore(log, cfg.Storage)
	if err != nil {
		return err
	}
	defer products.Close()
	for _, p := range sc.Products {
		if err := products.Add(p); err != nil && !errors.Is(err, types.ErrDuplicateProduct) {
			return err
		}
	}

	dealStore, err := deals.NewStore(log, cfg.Deals, cfg.Storage)
	if err != nil {
		return err
	}
	defer dealStore.Close()

	printer := newDealPrinter(os.Stdout, opts.JSON)
	eng := engine.NewEngine(log, cfg.Engine, dealSinks(opts.Quiet, printer, dealStore))
	if err := eng.Configure(products); err != nil {
		return err
	}
	printer.SetProducts(eng.Products())

	watcher.OnConfigUpdate(func(c config.Config) {
		eng.ReloadConf(c.Engine)
		dealStore.ReloadConf(c.Deals)
	})

	return replay(ctx, eng, sc, os.Stdout, opts.Strict)
}

// dealSinks publishes to every sink, and to the printer unless quiet.
func dealSinks(quiet bool, printer deals.Publisher, sinks ...deals.Publisher) *deals.Fanout {
	fanout := deals.NewFanout(sinks...)
	if !quiet {
		fanout.Add(printer)
	}
	return fanout
}

// replay feeds the scenario steps to the engine one at a time and reports
// the outcome of each of them on out.
func replay(ctx context.Context, eng *engine.Engine, sc *Scenario, out io.Writer, strict bool) error {
	commands := make(chan engine.Command)
	done := make(chan error, 1)
	go func() {
		done <- eng.Listen(ctx, commands)
	}()

	err := runSteps(ctx, eng, sc, commands, out, strict)
	close(commands)
	if lerr := <-done; err == nil {
		err = lerr
	}
	return err
}

func runSteps(ctx context.Context, eng *engine.Engine, sc *Scenario, commands chan<- engine.Command, out io.Writer, strict bool) error {
	var unexpected int
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if step.Action == ActionShow {
			if err := show(eng, step.Product, out); err != nil {
				return err
			}
			continue
		}

		cmd, err := step.Command()
		if err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
		reply := make(chan error, 1)
		cmd.Reply = reply
		select {
		case commands <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}
		err = <-reply

		switch {
		case err != nil && !step.Reject:
			unexpected++
			color.New(color.FgRed).Fprintf(out, "step %d %s rejected: %v\n", i+1, step.Action, err)
			if strict {
				return errors.Wrapf(err, "step %d", i+1)
			}
		case err == nil && step.Reject:
			unexpected++
			color.New(color.FgRed).Fprintf(out, "step %d %s accepted, rejection expected\n", i+1, step.Action)
			if strict {
				return errors.Errorf("step %d: rejection expected", i+1)
			}
		case err != nil:
			color.New(color.FgYellow).Fprintf(out, "step %d %s rejected as expected: %v\n", i+1, step.Action, err)
		}
	}

	fmt.Fprintf(out, "%d steps replayed, %d unexpected outcomes\n", len(sc.Steps), unexpected)
	return nil
}

func show(eng *engine.Engine, productID uint32, out io.Writer) error {
	book, err := eng.Display(productID)
	if err != nil {
		return err
	}
	phase, err := eng.Phase(productID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s[%s]\n", book, phase)
	if phase.IsAuction() {
		price, volume, err := eng.TheoreticalOpen(productID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "theoretical open %d x %d\n", price, volume)
	}
	return nil
}

func Replay(_ context.Context, parser *flags.Parser) error {
	replayCmd = ReplayCmd{RootFlag: RootFlag{RootPath: defaultRootPath()}}

	short := "Replays a scenario"
	long := "Replay the orders and phase changes of a scenario file through the matching engine"

	_, err := parser.AddCommand("replay", short, long, &replayCmd)
	return err
}
