package el

// TraceEntry records one variable lookup performed while evaluating an
// expression tree.
type TraceEntry struct {
	Variable string
	Value    Value
	Location Location
}

// Trace accumulates the variable lookups an Evaluate call performs,
// grounded on TrenchBroom's EL::EvaluationTrace: a diagnostic aid for
// reporting which entity properties a definition actually consulted,
// not part of evaluation semantics itself. A nil *Trace is valid and
// records nothing.
type Trace struct {
	Entries []TraceEntry
}

// NewTrace returns an empty trace ready to be passed to Evaluate.
func NewTrace() *Trace {
	return &Trace{}
}

func (t *Trace) record(name string, v Value, loc Location) {
	if t == nil {
		return
	}
	t.Entries = append(t.Entries, TraceEntry{Variable: name, Value: v, Location: loc})
}

// Variables returns the distinct variable names looked up, in first-
// access order.
func (t *Trace) Variables() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool, len(t.Entries))
	names := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if seen[e.Variable] {
			continue
		}
		seen[e.Variable] = true
		names = append(names, e.Variable)
	}
	return names
}
