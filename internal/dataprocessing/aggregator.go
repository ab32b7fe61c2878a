package dataprocessing

import "regexp"

// DefaultHour is the bucket for periods that carry no hour.
const DefaultHour = "00:00"

var hourPattern = regexp.MustCompile(`T(\d{2}):`)

// HourKey returns the "HH:00" bucket for an ISO-like period such as
// "2025-11-30T14:22:00".
func HourKey(period string) string {
	m := hourPattern.FindStringSubmatch(period)
	if m == nil {
		return DefaultHour
	}
	return m[1] + ":00"
}

// Bucket accumulates weighted counts per dimension key.
type Bucket map[string]int64

// Add increments key by n.
func (b Bucket) Add(key string, n int64) {
	b[key] += n
}

// Total returns the sum of all values.
func (b Bucket) Total() int64 {
	var sum int64
	for _, v := range b {
		sum += v
	}
	return sum
}

// CompositeKey identifies one cell of the IT system by operation matrix.
type CompositeKey struct {
	ITSystem  string
	Operation string
}

// CompositeBucket accumulates weighted counts per matrix cell.
type CompositeBucket map[CompositeKey]int64

// Add increments key by n.
func (b CompositeBucket) Add(key CompositeKey, n int64) {
	b[key] += n
}

// Aggregator owns every accumulator for a single source. Create one per
// source and discard it once the result is built.
type Aggregator struct {
	Hourly         Bucket
	ITSystems      Bucket
	Services       Bucket
	Operations     Bucket
	SupportSystems Bucket
	Versions       Bucket
	Matrix         CompositeBucket

	TotalCalls int64
	Admitted   int
	Filtered   int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		Hourly:         make(Bucket),
		ITSystems:      make(Bucket),
		Services:       make(Bucket),
		Operations:     make(Bucket),
		SupportSystems: make(Bucket),
		Versions:       make(Bucket),
		Matrix:         make(CompositeBucket),
	}
}

// Add folds one admitted event into every dimension, weighted by its calls.
func (a *Aggregator) Add(ev CallEvent) {
	a.Admitted++
	a.TotalCalls += ev.Calls

	a.Hourly.Add(HourKey(ev.Period), ev.Calls)
	a.ITSystems.Add(ev.ITSystem, ev.Calls)
	a.Services.Add(ev.ServiceName, ev.Calls)
	a.Operations.Add(ev.Operation, ev.Calls)
	a.SupportSystems.Add(ev.SupportSystem, ev.Calls)
	a.Versions.Add(ev.ServiceVersion, ev.Calls)
	a.Matrix.Add(CompositeKey{ITSystem: ev.ITSystem, Operation: ev.Operation}, ev.Calls)
}

// Reject records a row that failed admission.
func (a *Aggregator) Reject() {
	a.Filtered++
}
