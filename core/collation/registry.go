package collation

import (
	"sort"

	"vmr2tei/core/siglum"
)

// Witness is one attested source in the collation. Witnesses are owned
// by the Registry and referenced from readings by siglum only.
type Witness struct {
	// ID is the canonical siglum, unique within the collation.
	ID string
	// Type is the witness classification inferred at registration time.
	Type siglum.Type
}

// Registry accumulates the deduplicated, typed witness set for a whole
// collation. It follows a strict two-phase protocol: an append-only
// registration pass, then Finalize, after which the registry is frozen
// and serves lookups only. References issued before Finalize stay valid
// because resolution is by siglum, not by index.
type Registry struct {
	witnesses    []*Witness
	indexByID    map[string]int
	versionOrder []string
	frozen       bool
}

// NewRegistry returns an empty registry. versionOrder is the configured
// version-language ordering used by the final sort.
func NewRegistry(versionOrder []string) *Registry {
	return &Registry{
		indexByID:    make(map[string]int),
		versionOrder: versionOrder,
	}
}

// Has reports whether a siglum is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.indexByID[id]
	return ok
}

// Lookup resolves a siglum to its witness.
func (r *Registry) Lookup(id string) (*Witness, bool) {
	i, ok := r.indexByID[id]
	if !ok {
		return nil, false
	}
	return r.witnesses[i], true
}

// Index returns the current position of a siglum in the witness list.
// Positions change once at Finalize and never after.
func (r *Registry) Index(id string) (int, bool) {
	i, ok := r.indexByID[id]
	return i, ok
}

// Register adds a witness if its siglum is new and returns the stored
// witness either way. Registering a known siglum never alters its stored
// type. On a frozen registry only known sigla resolve; new ones return
// nil.
func (r *Registry) Register(id string, witnessType siglum.Type) *Witness {
	if i, ok := r.indexByID[id]; ok {
		return r.witnesses[i]
	}
	if r.frozen {
		return nil
	}
	w := &Witness{ID: id, Type: witnessType}
	r.witnesses = append(r.witnesses, w)
	r.indexByID[id] = len(r.witnesses) - 1
	return w
}

// Finalize sorts the witnesses by their composite sort key, reassigns
// indices to the sorted positions, and freezes the registry. The sort is
// stable and keyed purely on the siglum, so repeating it cannot change
// the order.
func (r *Registry) Finalize() []*Witness {
	sort.SliceStable(r.witnesses, func(i, j int) bool {
		ki := siglum.Key(r.witnesses[i].ID, r.versionOrder)
		kj := siglum.Key(r.witnesses[j].ID, r.versionOrder)
		return ki.Less(kj)
	})
	for i, w := range r.witnesses {
		r.indexByID[w.ID] = i
	}
	r.frozen = true
	return r.witnesses
}

// Witnesses returns the witness list in its current order.
func (r *Registry) Witnesses() []*Witness {
	return r.witnesses
}

// Len returns the number of registered witnesses.
func (r *Registry) Len() int {
	return len(r.witnesses)
}
