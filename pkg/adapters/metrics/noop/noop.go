package noop

import "time"

// Collector discards every metric. Used in tests, where the
// Prometheus collector's default-registry registration would collide
// across test packages.
type Collector struct{}

// NewCollector creates a discarding collector
func NewCollector() *Collector { return &Collector{} }

func (*Collector) RecordScenarioExecution(string, time.Duration)      {}
func (*Collector) RecordEventDispatched(string, string, time.Duration) {}
func (*Collector) RecordValidation(bool)                               {}
func (*Collector) RecordScenarioSaved()                                {}
func (*Collector) IncActiveExecutions()                                {}
func (*Collector) DecActiveExecutions()                                {}
