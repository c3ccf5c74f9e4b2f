package evaluator

import "sort"

// Seed positions mark values that were present before any invocation ran.
const (
	// SeedPosition is the order position recorded for raw and default
	// values.
	SeedPosition = -1

	// ProducerRaw and ProducerDefault name the two non-invocation sources
	// a value can have.
	ProducerRaw     = "raw"
	ProducerDefault = "default"
)

// Provenance records who last wrote one variable's value.
type Provenance struct {
	Variable string
	// Producer is the invocation name that wrote the value, or
	// ProducerRaw / ProducerDefault for seeded values.
	Producer string
	// Position is the producer's place in the evaluation order;
	// SeedPosition for seeded values.
	Position int
}

// Trace is the provenance record of one evaluation: for every variable
// written, which invocation wrote it last and at what order position.
type Trace struct {
	entries map[string]Provenance
}

func newTrace() *Trace {
	return &Trace{entries: make(map[string]Provenance)}
}

func (t *Trace) set(variable, producer string, position int) {
	t.entries[variable] = Provenance{Variable: variable, Producer: producer, Position: position}
}

// Lookup returns the provenance for one variable.
func (t *Trace) Lookup(variable string) (Provenance, bool) {
	p, ok := t.entries[variable]
	return p, ok
}

// Entries returns all provenance records sorted by order position, then
// variable name, so identical evaluations render identically.
func (t *Trace) Entries() []Provenance {
	entries := make([]Provenance, 0, len(t.entries))
	for _, p := range t.entries {
		entries = append(entries, p)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Position != entries[j].Position {
			return entries[i].Position < entries[j].Position
		}
		return entries[i].Variable < entries[j].Variable
	})
	return entries
}

// Len reports the number of traced variables.
func (t *Trace) Len() int { return len(t.entries) }
