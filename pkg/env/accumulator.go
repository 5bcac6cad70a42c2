// pkg/env/accumulator.go
package env

import "sync"

// Contribution is what one package added to the accumulated configuration.
type Contribution struct {
	Package string
	Record  Record
}

// Accumulator owns the configuration shared across a resolution run.
// Readers get snapshots; Commit is the only way to change it.
type Accumulator struct {
	mu            sync.Mutex
	record        Record
	contributions []Contribution
}

// NewAccumulator creates an accumulator seeded with base.
func NewAccumulator(base Record) *Accumulator {
	return &Accumulator{record: base.Clone()}
}

// Snapshot returns a private copy of the current configuration.
func (a *Accumulator) Snapshot() Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record.Clone()
}

// Commit folds rec into the configuration on behalf of pkg and returns the
// entries that were actually new.
func (a *Accumulator) Commit(pkg string, rec Record) Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	delta := rec.Diff(a.record)
	a.record.Merge(delta)
	a.contributions = append(a.contributions, Contribution{Package: pkg, Record: delta.Clone()})
	return delta
}

// Contributions returns per-package deltas in commit order.
func (a *Accumulator) Contributions() []Contribution {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Contribution, len(a.contributions))
	for i, c := range a.contributions {
		out[i] = Contribution{Package: c.Package, Record: c.Record.Clone()}
	}
	return out
}
