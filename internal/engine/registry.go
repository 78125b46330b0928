package engine

import (
	"provisioner/internal/status"
)

// Registry is the ordered collection of setup entries for one run. It is
// loaded once from the declarative registry file and executed once per
// process invocation; no entry is added or removed mid-execution.
type Registry struct {
	entries []*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends an entry. Entries execute in the order they were added.
func (r *Registry) Add(entry *Entry) {
	r.entries = append(r.entries, entry)
}

// Entries returns the registered entries in execution order.
func (r *Registry) Entries() []*Entry {
	return r.entries
}

// Execute runs every entry's full lifecycle sequentially, in registration
// order. A failed entry never aborts the ones after it. The returned status
// aggregates all entry outcomes; any entry failure makes the whole run a
// Failure.
func (r *Registry) Execute(rt *Runtime) status.Status {
	statuses := make([]status.Status, 0, len(r.entries))
	for _, entry := range r.entries {
		status.Running.PrintMessage(entry.Description())
		statuses = append(statuses, entry.Run(rt))
	}
	return status.Aggregate(statuses)
}
