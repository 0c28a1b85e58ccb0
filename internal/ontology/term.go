package ontology

import "fmt"

// Namespace is a Gene Ontology aspect.
type Namespace uint8

const (
	BiologicalProcess Namespace = iota
	MolecularFunction
	CellularComponent
)

func (n Namespace) String() string {
	switch n {
	case BiologicalProcess:
		return "biological_process"
	case MolecularFunction:
		return "molecular_function"
	case CellularComponent:
		return "cellular_component"
	default:
		return fmt.Sprintf("Namespace(%d)", uint8(n))
	}
}

// ParseNamespace maps the OBO namespace tag to a Namespace value.
func ParseNamespace(s string) (Namespace, bool) {
	switch s {
	case "biological_process":
		return BiologicalProcess, true
	case "molecular_function":
		return MolecularFunction, true
	case "cellular_component":
		return CellularComponent, true
	default:
		return 0, false
	}
}

// RelationKind is an edge type from a term to one of its parents.
type RelationKind uint8

const (
	IsA RelationKind = iota
	PartOf
	Regulates
	PositivelyRegulates
	NegativelyRegulates
	OccursIn
	numRelationKinds
)

func (r RelationKind) String() string {
	switch r {
	case IsA:
		return "is_a"
	case PartOf:
		return "part_of"
	case Regulates:
		return "regulates"
	case PositivelyRegulates:
		return "positively_regulates"
	case NegativelyRegulates:
		return "negatively_regulates"
	case OccursIn:
		return "occurs_in"
	default:
		return fmt.Sprintf("RelationKind(%d)", uint8(r))
	}
}

// Propagates reports whether counts flow along edges of this kind during
// propagation (spec.md §4.A "Relation semantics for propagation").
func (r RelationKind) Propagates() bool {
	return r == IsA || r == PartOf
}

// AllRelationKinds returns every relation kind the DAG can represent,
// used by callers that need to preserve edge typing, such as
// internal/subdag's induced-edge reconstruction.
func AllRelationKinds() []RelationKind {
	kinds := make([]RelationKind, numRelationKinds)
	for i := range kinds {
		kinds[i] = RelationKind(i)
	}
	return kinds
}

// ID is a dense, zero-based index assigned to a non-obsolete term when a
// GODag is built. IDs are stable for the lifetime of a GODag but are not
// meaningful across different GODag values.
type ID int32

// TermSpec is the result of parsing one ontology stanza, before term IDs
// are interned into a GODag. Relations map a relation kind to the string
// identifiers of its parent terms.
type TermSpec struct {
	StringID  string
	Name      string
	Namespace Namespace
	Obsolete  bool
	Relations map[RelationKind][]string
}

// GOTerm is a single non-obsolete Gene Ontology term within a GODag.
type GOTerm struct {
	ID        ID
	StringID  string
	Name      string
	Namespace Namespace

	// Parents maps relation kind to the parent term IDs reached by edges
	// of that kind, out of this term.
	Parents map[RelationKind][]ID

	// Depth is the longest is_a/part_of path from this term's namespace
	// root.
	Depth int
}
