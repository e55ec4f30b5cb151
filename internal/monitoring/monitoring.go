// Package monitoring exposes the kitchen's operational counters and
// gauges as Prometheus collectors on a private registry.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"shortorder/internal/inventory"
	"shortorder/internal/kitchen"
)

// Collector registers and records the kitchen metrics
type Collector struct {
	registry *prometheus.Registry

	placements      *prometheus.CounterVec
	completions     *prometheus.CounterVec
	failures        *prometheus.CounterVec
	ordersSubmitted prometheus.Counter
	ordersAssembled prometheus.Counter
	expiredEntries  prometheus.Counter
	ticks           prometheus.Counter

	busySlots     prometheus.Gauge
	readyPoolSize prometheus.Gauge
	pendingOrders prometheus.Gauge
	orderUpSize   prometheus.Gauge
	inventorySize prometheus.Gauge
}

// NewCollector creates a collector with all metrics registered
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_placements_total",
				Help: "Items placed into a production zone",
			},
			[]string{"zone"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_completions_total",
				Help: "Items finished by a zone and moved to the ready pool",
			},
			[]string{"item"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_operation_failures_total",
				Help: "Core operations that returned a failure",
			},
			[]string{"operation"},
		),
		ordersSubmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kitchen_orders_submitted_total",
				Help: "Orders placed into the pending queue",
			},
		),
		ordersAssembled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kitchen_orders_assembled_total",
				Help: "Orders assembled and moved to order-up",
			},
		),
		expiredEntries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "inventory_expired_entries_total",
				Help: "Inventory entries dropped by the expiry sweep",
			},
		),
		ticks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kitchen_ticks_total",
				Help: "Tick steps applied to the zones",
			},
		),
		busySlots: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "kitchen_busy_slots",
				Help: "Slots currently working or waiting for a flip",
			},
		),
		readyPoolSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "kitchen_ready_pool_size",
				Help: "Completed items waiting to be collected",
			},
		),
		pendingOrders: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "kitchen_pending_orders",
				Help: "Orders waiting to be assembled",
			},
		),
		orderUpSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "kitchen_order_up_size",
				Help: "Assembled orders awaiting pickup",
			},
		),
		inventorySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "inventory_entries",
				Help: "Physical units currently in inventory",
			},
		),
	}

	collectors := []prometheus.Collector{
		c.placements, c.completions, c.failures,
		c.ordersSubmitted, c.ordersAssembled, c.expiredEntries, c.ticks,
		c.busySlots, c.readyPoolSize, c.pendingOrders, c.orderUpSize,
		c.inventorySize,
	}
	for _, collector := range collectors {
		c.registry.MustRegister(collector)
	}
	return c
}

// Registry returns the private registry for serving via promhttp
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordPlacement counts a successful placement into a zone
func (c *Collector) RecordPlacement(zone string) {
	c.placements.WithLabelValues(zone).Inc()
}

// RecordCompletions counts items a tick moved to the ready pool
func (c *Collector) RecordCompletions(items []string) {
	for _, item := range items {
		c.completions.WithLabelValues(item).Inc()
	}
}

// RecordFailure counts a failed core operation by name
func (c *Collector) RecordFailure(operation string) {
	c.failures.WithLabelValues(operation).Inc()
}

// RecordOrderSubmitted counts an order entering the pending queue
func (c *Collector) RecordOrderSubmitted() {
	c.ordersSubmitted.Inc()
}

// RecordOrderAssembled counts an order moving to order-up
func (c *Collector) RecordOrderAssembled() {
	c.ordersAssembled.Inc()
}

// RecordExpired counts entries dropped by an expiry sweep
func (c *Collector) RecordExpired(n int) {
	c.expiredEntries.Add(float64(n))
}

// RecordTick counts one applied tick step
func (c *Collector) RecordTick() {
	c.ticks.Inc()
}

// ObserveState refreshes the gauges from the current state values
func (c *Collector) ObserveState(s kitchen.State, inv inventory.Inventory) {
	c.busySlots.Set(float64(s.Zones.BusySlots()))
	c.readyPoolSize.Set(float64(len(s.Zones.Ready)))
	c.pendingOrders.Set(float64(len(s.Pending)))
	c.orderUpSize.Set(float64(len(s.OrderUp)))
	c.inventorySize.Set(float64(inv.Len()))
}
