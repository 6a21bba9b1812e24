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

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"code.vegaprotocol.io/exchange/logging"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

const namespace = "exchange"

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected.
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	setupOnce sync.Once
	setupErr  error
	registry  = prometheus.NewRegistry()

	engineTime     *prometheus.HistogramVec
	orderCounter   *prometheus.CounterVec
	restingOrders  *prometheus.GaugeVec
	dealCounter    *prometheus.CounterVec
	tradedVolume   *prometheus.CounterVec
	tradedValue    *prometheus.CounterVec
	uncrossCounter *prometheus.CounterVec
	phaseGauge     *prometheus.GaugeVec
)

// abstract prometheus types.
type instrument int

type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
}

// InstrumentOption - vararg for instrument options setting.
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument.
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace.
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets - specific to histogram type.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument configure and register new metrics instrument.
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	// apply options
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := prometheus.GaugeOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := prometheus.CounterOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		o := opt.histogram()
		if len(opt.vectors) == 0 {
			ret.histogram = prometheus.NewHistogram(o)
			col = ret.histogram
		} else {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			col = ret.histogramV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := registry.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (i instrumentOpts) histogram() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:        i.opts.Name,
		Namespace:   i.opts.Namespace,
		Subsystem:   i.opts.Subsystem,
		ConstLabels: i.opts.ConstLabels,
		Help:        i.opts.Help,
		Buckets:     i.buckets,
	}
}

// GaugeVec returns a prometheus GaugeVec instrument.
func (m mi) GaugeVec() (*prometheus.GaugeVec, error) {
	if m.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gaugeV, nil
}

// CounterVec returns a prometheus CounterVec instrument.
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

// Setup registers all the instruments, it is safe to call it more than once.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics()
	})
	return setupErr
}

// Start sets up the instruments and serves them until ctx is cancelled.
func Start(ctx context.Context, log *logging.Logger, conf Config) error {
	if !conf.Enabled {
		return nil
	}
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	if err := Setup(); err != nil {
		return errors.Wrap(err, "could not set up metrics")
	}

	mux := http.NewServeMux()
	mux.Handle(conf.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: conf.Timeout.Get(),
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), conf.Timeout.Get())
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error("could not stop the metrics exporter", logging.Error(err))
		}
	}()
	go func() {
		log.Info("starting metrics exporter",
			logging.Int("port", conf.Port), logging.String("path", conf.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics exporter stopped", logging.Error(err))
		}
	}()
	return nil
}

func setupMetrics() error {
	h, err := AddInstrument(
		Histogram,
		"engine_seconds",
		Namespace(namespace),
		Vectors("product", "fn"),
		Buckets([]float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}),
		Help("Time spent in the engine operations"),
	)
	if err != nil {
		return err
	}
	if engineTime, err = h.HistogramVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"orders_total",
		Namespace(namespace),
		Vectors("product", "operation", "outcome"),
		Help("Number of order operations processed"),
	)
	if err != nil {
		return err
	}
	if orderCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"orders",
		Namespace(namespace),
		Vectors("product"),
		Help("Number of orders resting in the book"),
	)
	if err != nil {
		return err
	}
	if restingOrders, err = h.GaugeVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"deals_total",
		Namespace(namespace),
		Vectors("product"),
		Help("Number of deals"),
	)
	if err != nil {
		return err
	}
	if dealCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"traded_volume_total",
		Namespace(namespace),
		Vectors("product"),
		Help("Quantity traded"),
	)
	if err != nil {
		return err
	}
	if tradedVolume, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"traded_notional_total",
		Namespace(namespace),
		Vectors("product"),
		Help("Notional traded, price times quantity"),
	)
	if err != nil {
		return err
	}
	if tradedValue, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"uncrossings_total",
		Namespace(namespace),
		Vectors("product"),
		Help("Number of auctions uncrossed with a non zero volume"),
	)
	if err != nil {
		return err
	}
	if uncrossCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"trading_phase",
		Namespace(namespace),
		Vectors("product"),
		Help("Current trading phase of the product"),
	)
	if err != nil {
		return err
	}
	phaseGauge, err = h.GaugeVec()
	return err
}

// EngineTimeCounterAdd is used to time a function. Call it, using defer, at the start of the
// function to be timed.
//
// e.g.
//
//	defer metrics.EngineTimeCounterAdd("x", "y")()
//
// Note the extra "()" at the end of the above line - the returned function must be called.
func EngineTimeCounterAdd(labelValues ...string) func() {
	start := time.Now()
	return func() {
		// Testing does not use metrics.
		if engineTime == nil {
			return
		}
		engineTime.WithLabelValues(labelValues...).Observe(time.Since(start).Seconds())
	}
}

// OrderCounterInc increments the order counter.
func OrderCounterInc(labelValues ...string) {
	if orderCounter == nil {
		return
	}
	orderCounter.WithLabelValues(labelValues...).Inc()
}

// RestingOrdersSet sets the number of orders resting in a book.
func RestingOrdersSet(n int, product string) {
	if restingOrders == nil {
		return
	}
	restingOrders.WithLabelValues(product).Set(float64(n))
}

// DealAdd accounts for one deal of the given quantity and notional.
func DealAdd(quantity, notional uint64, product string) {
	if dealCounter == nil || tradedVolume == nil || tradedValue == nil {
		return
	}
	dealCounter.WithLabelValues(product).Inc()
	tradedVolume.WithLabelValues(product).Add(float64(quantity))
	tradedValue.WithLabelValues(product).Add(float64(notional))
}

// UncrossingInc increments the uncrossing counter.
func UncrossingInc(product string) {
	if uncrossCounter == nil {
		return
	}
	uncrossCounter.WithLabelValues(product).Inc()
}

// TradingPhaseSet records the phase of a product, as its numeric value.
func TradingPhaseSet(phase int, product string) {
	if phaseGauge == nil {
		return
	}
	phaseGauge.WithLabelValues(product).Set(float64(phase))
}
