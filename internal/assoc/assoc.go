// Package assoc holds per-protein GO annotations and the study/
// background protein universes they are tested against, per spec.md §3.
package assoc

import (
	"sort"

	"github.com/go-taxago/taxago/internal/bitset"
	"github.com/go-taxago/taxago/internal/ontology"
)

// EvidenceCategory classifies a GO evidence code per spec.md §3.
type EvidenceCategory uint8

const (
	Experimental EvidenceCategory = iota
	Phylogenetic
	Computational
	Author
	Curator
	Electronic
)

// evidenceCategories maps the standard GO evidence codes to a category.
// Codes not listed here are treated as Computational, the broadest
// catch-all category; no warning is emitted for them.
var evidenceCategories = map[string]EvidenceCategory{
	"EXP": Experimental, "IDA": Experimental, "IPI": Experimental,
	"IMP": Experimental, "IGI": Experimental, "IEP": Experimental,
	"HTP": Experimental, "HDA": Experimental, "HMP": Experimental,
	"HGI": Experimental, "HEP": Experimental,

	"IBA": Phylogenetic, "IBD": Phylogenetic, "IKR": Phylogenetic,
	"IRD": Phylogenetic,

	"ISS": Computational, "ISO": Computational, "ISA": Computational,
	"ISM": Computational, "IGC": Computational, "RCA": Computational,

	"TAS": Author, "NAS": Author,

	"IC": Curator, "ND": Curator,

	"IEA": Electronic,
}

// ClassifyEvidence returns the category of a GO evidence code.
func ClassifyEvidence(code string) (EvidenceCategory, bool) {
	c, ok := evidenceCategories[code]
	return c, ok
}

// EvidenceFilter selects a subset of evidence categories. A nil filter
// accepts every evidence category ("all" in spec.md §6).
type EvidenceFilter map[EvidenceCategory]bool

// NewEvidenceFilter builds a filter for the named §6 enum value.
func NewEvidenceFilter(name string) (EvidenceFilter, bool) {
	switch name {
	case "all":
		return nil, true
	case "experimental":
		return EvidenceFilter{Experimental: true}, true
	case "phylogenetic":
		return EvidenceFilter{Phylogenetic: true}, true
	case "computational":
		return EvidenceFilter{Computational: true}, true
	case "author":
		return EvidenceFilter{Author: true}, true
	case "curator":
		return EvidenceFilter{Curator: true}, true
	case "automatic":
		return EvidenceFilter{Electronic: true}, true
	default:
		return nil, false
	}
}

// Accepts reports whether category passes the filter.
func (f EvidenceFilter) Accepts(category EvidenceCategory) bool {
	if f == nil {
		return true
	}
	return f[category]
}

// ProteinID is a dense, zero-based protein index within one taxon's
// association universe.
type ProteinID int32

// Universe interns protein identifiers into dense indices for one taxon
// and holds, for each GO term, the bitset of directly (non-propagated)
// annotated proteins restricted to the background universe.
type Universe struct {
	proteinIndex map[string]ProteinID
	proteinIDs   []string

	// direct[term] is the bitset of proteins with a direct annotation to
	// term, after evidence filtering and restriction to the background.
	direct map[ontology.ID]bitset.Set
}

// Record is one raw (protein, term, evidence) triple read from a
// background file, before evidence filtering.
type Record struct {
	Protein  string
	Term     string
	Evidence string
}

// BuildUniverse interns proteins and terms from records into a Universe.
// Records referring to unknown or obsolete terms are dropped, per
// spec.md §3 ("Associations with unknown or obsolete terms are
// dropped"). Records failing the evidence filter are also dropped.
func BuildUniverse(dag *ontology.GODag, records []Record, filter EvidenceFilter) *Universe {
	u := &Universe{
		proteinIndex: make(map[string]ProteinID),
		direct:       make(map[ontology.ID]bitset.Set),
	}
	for _, r := range records {
		cat, ok := ClassifyEvidence(r.Evidence)
		if !ok {
			cat = Computational
		}
		if !filter.Accepts(cat) {
			continue
		}
		termID, ok := dag.Lookup(r.Term)
		if !ok {
			continue
		}
		pid := u.intern(r.Protein)
		u.direct[termID] = u.direct[termID].Add(int(pid))
	}
	return u
}

func (u *Universe) intern(protein string) ProteinID {
	if id, ok := u.proteinIndex[protein]; ok {
		return id
	}
	id := ProteinID(len(u.proteinIDs))
	u.proteinIndex[protein] = id
	u.proteinIDs = append(u.proteinIDs, protein)
	return id
}

// Protein returns the external protein identifier for a dense ID.
func (u *Universe) Protein(id ProteinID) string { return u.proteinIDs[id] }

// ProteinID returns the dense ID of a protein, if known to this
// universe.
func (u *Universe) ProteinID(protein string) (ProteinID, bool) {
	id, ok := u.proteinIndex[protein]
	return id, ok
}

// Direct returns the bitset of proteins directly annotated to term.
func (u *Universe) Direct(term ontology.ID) bitset.Set { return u.direct[term] }

// Background is the set of all distinct proteins observed in the
// universe: the BackgroundSet of spec.md §3.
func (u *Universe) Background() bitset.Set {
	var all bitset.Set
	for _, s := range u.direct {
		all = all.Union(s)
	}
	return all
}

// NumProteins returns the number of distinct interned proteins.
func (u *Universe) NumProteins() int { return len(u.proteinIDs) }

// StudySet is the set of protein identifiers of interest for one taxon,
// interned against a Universe.
type StudySet struct {
	members bitset.Set
	names   []string
}

// NewStudySet interns the given protein identifiers against u. Study
// proteins absent from the background universe are recorded in
// Unresolved but excluded from Members.
func NewStudySet(u *Universe, proteins []string) *StudySet {
	s := &StudySet{}
	seen := make(map[string]bool, len(proteins))
	for _, p := range proteins {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		id, ok := u.ProteinID(p)
		if !ok {
			s.names = append(s.names, p)
			continue
		}
		s.members = s.members.Add(int(id))
	}
	sort.Strings(s.names)
	return s
}

// Members returns the interned study protein set.
func (s *StudySet) Members() bitset.Set { return s.members }

// Unresolved returns the study proteins, sorted, that were not present
// in the background universe.
func (s *StudySet) Unresolved() []string { return s.names }
