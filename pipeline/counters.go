package pipeline

import (
	"fmt"
	"io"

	"github.com/teranos/picadata/pica"
)

// Counter names in reporting order
const (
	CounterRecords  = "records"
	CounterInvalid  = "invalid"
	CounterHoldings = "holdings"
	CounterItems    = "items"
	CounterFields   = "fields"
)

// Counters accumulates the totals of a run. A nil *Counters means counting
// is off; Add and Snapshot are safe to call on nil.
type Counters struct {
	Records  int
	Invalid  int
	Holdings int
	Items    int
	Fields   int

	withInvalid bool
}

// Count is one entry of a snapshot
type Count struct {
	Name  string
	Value int
}

// NewCounters allocates counters; withInvalid requests the invalid total,
// which only makes sense when a schema is configured.
func NewCounters(withInvalid bool) *Counters {
	return &Counters{withInvalid: withInvalid}
}

// Add accounts for one processed record
func (c *Counters) Add(rec *pica.Record, invalid bool) {
	if c == nil {
		return
	}
	c.Records++
	if invalid {
		c.Invalid++
	}
	c.Holdings += len(rec.Holdings())
	c.Items += len(rec.Items())
	c.Fields += len(rec.Fields)
}

// Snapshot returns the requested totals in reporting order
func (c *Counters) Snapshot() []Count {
	if c == nil {
		return nil
	}
	out := []Count{{CounterRecords, c.Records}}
	if c.withInvalid {
		out = append(out, Count{CounterInvalid, c.Invalid})
	}
	return append(out,
		Count{CounterHoldings, c.Holdings},
		Count{CounterItems, c.Items},
		Count{CounterFields, c.Fields},
	)
}

// WriteSummary writes one "<value> <name>" line per requested total
func (c *Counters) WriteSummary(w io.Writer) error {
	for _, n := range c.Snapshot() {
		if _, err := fmt.Fprintf(w, "%d %s\n", n.Value, n.Name); err != nil {
			return err
		}
	}
	return nil
}
