package finding

import "slices"

// Aggregate maps keys to the example sources that reported them. Keys and
// sources keep first-insertion order; a source is listed once per key.
//
// An Aggregate is not safe for concurrent use. Merge per-example aggregates
// after the examples finish.
type Aggregate struct {
	kind    Kind
	keys    []string
	sources map[string][]string
	details map[string]string
}

// NewAggregate returns an empty aggregate for findings of kind.
func NewAggregate(kind Kind) *Aggregate {
	return &Aggregate{
		kind:    kind,
		sources: make(map[string][]string),
		details: make(map[string]string),
	}
}

// Kind returns the kind of finding the aggregate holds.
func (a *Aggregate) Kind() Kind { return a.kind }

// Add records that source reported key.
func (a *Aggregate) Add(key, source string) {
	srcs, ok := a.sources[key]
	if !ok {
		a.keys = append(a.keys, key)
	}
	if slices.Contains(srcs, source) {
		return
	}
	a.sources[key] = append(srcs, source)
}

// AddDetail records key with an explanatory detail. The first detail seen
// for a key is kept.
func (a *Aggregate) AddDetail(key, detail, source string) {
	a.Add(key, source)
	if _, ok := a.details[key]; !ok && detail != "" {
		a.details[key] = detail
	}
}

// Merge adds every key and source of other, preserving order.
func (a *Aggregate) Merge(other *Aggregate) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		for _, src := range other.sources[key] {
			a.AddDetail(key, other.details[key], src)
		}
	}
}

// Keys returns the recorded keys in first-insertion order.
func (a *Aggregate) Keys() []string {
	return slices.Clone(a.keys)
}

// Sources returns the sources that reported key, in first-insertion order.
func (a *Aggregate) Sources(key string) []string {
	return slices.Clone(a.sources[key])
}

// Has reports whether key was recorded.
func (a *Aggregate) Has(key string) bool {
	_, ok := a.sources[key]
	return ok
}

// Len returns the number of distinct keys.
func (a *Aggregate) Len() int { return len(a.keys) }

// Findings expands the aggregate into one finding per key and source.
func (a *Aggregate) Findings() []Finding {
	var out []Finding
	for _, key := range a.keys {
		for _, src := range a.sources[key] {
			out = append(out, Finding{Kind: a.kind, Key: key, Detail: a.details[key], Source: src})
		}
	}
	return out
}

// AsMap returns the aggregate as a plain key to sources map.
func (a *Aggregate) AsMap() map[string][]string {
	out := make(map[string][]string, len(a.keys))
	for _, key := range a.keys {
		out[key] = slices.Clone(a.sources[key])
	}
	return out
}
