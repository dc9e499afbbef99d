package domain

import (
	"sort"
	"time"
)

// Ledger is a point-in-time snapshot of one product's stock and the
// allocations competing for it.
type Ledger struct {
	Product     Product
	Allocations []Allocation
}

// Availability is the outcome of an availability query.
type Availability struct {
	ProductID string    `json:"product_id"`
	Range     DateRange `json:"range"`
	Total     int       `json:"total_quantity"`
	Reserved  int       `json:"reserved_quantity"`
	Available int       `json:"available_quantity"`
	// ConsistencyWarning is set when reserved units exceed total stock. Available
	// is clamped to zero in that case; the over-allocation happened elsewhere.
	ConsistencyWarning bool `json:"consistency_warning"`
}

// Raw returns total minus reserved without clamping.
func (a Availability) Raw() int {
	return a.Total - a.Reserved
}

// ReservedIn sums blocking allocations that overlap r.
func (l Ledger) ReservedIn(r DateRange) int {
	sum := 0
	for _, a := range l.Allocations {
		if a.Status.Blocks() && a.Range.Overlaps(r) {
			sum += a.Quantity
		}
	}
	return sum
}

// AvailableIn computes free units for r. Safe for concurrent use.
func (l Ledger) AvailableIn(r DateRange) Availability {
	return NewAvailability(l.Product, r, l.ReservedIn(r))
}

// NewAvailability derives the availability of product over r given the units
// already reserved there.
func NewAvailability(product Product, r DateRange, reserved int) Availability {
	av := Availability{
		ProductID: product.ID,
		Range:     r,
		Total:     product.TotalQuantity,
		Reserved:  reserved,
		Available: product.TotalQuantity - reserved,
	}
	if av.Available < 0 {
		av.Available = 0
		av.ConsistencyWarning = true
	}
	return av
}

// PeakDemand returns the highest number of units held by blocking
// allocations on any single day, and the first day it occurs. Demand only
// rises at an allocation's start day, so those are the only days checked.
func (l Ledger) PeakDemand() (int, time.Time) {
	var starts []time.Time
	for _, a := range l.Allocations {
		if a.Status.Blocks() {
			starts = append(starts, a.Range.Start)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	peak := 0
	var peakDay time.Time
	for _, day := range starts {
		demand := 0
		for _, a := range l.Allocations {
			if a.Status.Blocks() && a.Range.Contains(day) {
				demand += a.Quantity
			}
		}
		if demand > peak {
			peak = demand
			peakDay = day
		}
	}
	return peak, peakDay
}

// Overallocated reports whether some day holds more units than exist.
func (l Ledger) Overallocated() bool {
	peak, _ := l.PeakDemand()
	return peak > l.Product.TotalQuantity
}
