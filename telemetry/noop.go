package telemetry

import "io"

// noOpCollector discards all telemetry. It is the collector returned by
// FromContext when none was installed, so instrumented code never has to
// nil-check.
type noOpCollector struct{}

func (noOpCollector) Start(name string) Timer { return noOpTimer{} }

func (noOpCollector) Report(w io.Writer, styles interface{}) {}

type noOpTimer struct{}

func (noOpTimer) End() {}

func (noOpTimer) Child(name string) Timer { return noOpTimer{} }
