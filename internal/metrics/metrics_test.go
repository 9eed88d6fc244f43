package metrics

import (
	"errors"
	"testing"
	"time"
)

type capture struct {
	counters   map[string]float64
	labels     map[string]Labels
	histograms map[string][]float64
	flushed    int
}

func newCapture() *capture {
	return &capture{
		counters:   map[string]float64{},
		labels:     map[string]Labels{},
		histograms: map[string][]float64{},
	}
}

func (c *capture) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *capture) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms[name] = append(c.histograms[name], value)
}

func (c *capture) Flush() error { c.flushed++; return nil }

/*
TestRecordStep verifies the step convenience maps success and failure onto
the status label and records both the counter and the duration observation.
*/
func TestRecordStep(t *testing.T) {
	c := newCapture()
	SetBackend(c)
	defer SetBackend(nopBackend{})

	RecordStep("brca", "clean", nil, 250*time.Millisecond)
	if c.counters["eda_step_total"] != 1 {
		t.Fatalf("counter=%v; want 1", c.counters["eda_step_total"])
	}
	if got := c.labels["eda_step_total"]; got["step"] != "clean" || got["status"] != "success" || got["job"] != "brca" {
		t.Fatalf("labels=%v", got)
	}
	if got := c.histograms["eda_step_duration_seconds"]; len(got) != 1 || got[0] != 0.25 {
		t.Fatalf("durations=%v; want [0.25]", got)
	}

	RecordStep("brca", "clean", errors.New("boom"), time.Second)
	if got := c.labels["eda_step_total"]; got["status"] != "failure" {
		t.Fatalf("failure labels=%v", got)
	}
}

func TestRecordRows(t *testing.T) {
	c := newCapture()
	SetBackend(c)
	defer SetBackend(nopBackend{})

	RecordRows("brca", "loaded", 334)
	RecordRows("brca", "dropped", 0)  // no-op
	RecordRows("brca", "loaded", -10) // no-op
	if c.counters["eda_rows_total"] != 334 {
		t.Fatalf("rows=%v; want 334", c.counters["eda_rows_total"])
	}
	if got := c.labels["eda_rows_total"]; got["kind"] != "loaded" {
		t.Fatalf("labels=%v", got)
	}
}

func TestSetBackend_NilKeepsCurrent(t *testing.T) {
	c := newCapture()
	SetBackend(c)
	defer SetBackend(nopBackend{})

	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if c.flushed != 1 {
		t.Fatalf("flushed=%d; want 1 (nil SetBackend must not replace)", c.flushed)
	}
}
