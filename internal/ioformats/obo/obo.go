// Package obo decodes the standard OBO text format into
// ontology.TermSpec values, stanza by stanza, per spec.md §6 "OBO
// input". It is the line-oriented analogue of internal/owl's streaming
// XML/OWL decoder: NewDecoder wraps a reader, and repeated calls to
// Decode return one [Term] stanza at a time until io.EOF.
package obo

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-taxago/taxago/internal/ontology"
)

// Decoder reads [Term] stanzas from an OBO file, skipping [Typedef] and
// any other stanza kind. Unrecognized relation types within a [Term]
// stanza are dropped and reported through Warnf, per spec.md §6
// ("Unrecognized stanzas and relation types are ignored with a
// warning").
type Decoder struct {
	sc         *bufio.Scanner
	lookahead  string
	haveLookahead bool
	line       int

	// Warnf, if set, is called once per ignored relation type or
	// malformed tag line. The default is a no-op.
	Warnf func(format string, args ...any)
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Decoder{sc: sc, Warnf: func(string, ...any) {}}
}

func (dec *Decoder) readLine() (string, bool) {
	if dec.haveLookahead {
		dec.haveLookahead = false
		return dec.lookahead, true
	}
	if dec.sc.Scan() {
		dec.line++
		return dec.sc.Text(), true
	}
	return "", false
}

func (dec *Decoder) pushback(line string) {
	dec.lookahead = line
	dec.haveLookahead = true
}

var relationTags = map[string]ontology.RelationKind{
	"part_of":              ontology.PartOf,
	"regulates":            ontology.Regulates,
	"positively_regulates": ontology.PositivelyRegulates,
	"negatively_regulates": ontology.NegativelyRegulates,
	"occurs_in":            ontology.OccursIn,
}

// Decode returns the next [Term] stanza's fields as a TermSpec. It
// returns io.EOF, wrapped by nothing, once the stream is exhausted, and
// a *pkg/errors-wrapped error on an unknown namespace value or a
// malformed is_obsolete value.
func (dec *Decoder) Decode() (*ontology.TermSpec, error) {
	for {
		line, ok := dec.readLine()
		if !ok {
			return nil, io.EOF
		}
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "[") {
			continue
		}
		isTerm := line == "[Term]"

		spec := ontology.TermSpec{Relations: make(map[ontology.RelationKind][]string)}
		for {
			raw, ok := dec.readLine()
			if !ok {
				if isTerm {
					return &spec, nil
				}
				return nil, io.EOF
			}
			trimmed := strings.TrimSpace(raw)
			if strings.HasPrefix(trimmed, "[") {
				dec.pushback(raw)
				break
			}
			if trimmed == "" || !isTerm {
				continue
			}
			if err := dec.parseTag(&spec, trimmed); err != nil {
				return nil, err
			}
		}
		if !isTerm {
			continue
		}
		return &spec, nil
	}
}

func (dec *Decoder) parseTag(spec *ontology.TermSpec, line string) error {
	tag, value, ok := strings.Cut(line, ":")
	if !ok {
		dec.Warnf("obo: malformed tag line %q at line %d", line, dec.line)
		return nil
	}
	tag = strings.TrimSpace(tag)
	value = stripComment(strings.TrimSpace(value))

	switch tag {
	case "id":
		spec.StringID = value
	case "name":
		spec.Name = value
	case "namespace":
		ns, ok := ontology.ParseNamespace(value)
		if !ok {
			return errors.Errorf("go.obo:%d: unknown namespace %q for term %s", dec.line, value, spec.StringID)
		}
		spec.Namespace = ns
	case "is_obsolete":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(err, "go.obo:%d: malformed is_obsolete value %q", dec.line, value)
		}
		spec.Obsolete = b
	case "is_a":
		parent, _, _ := strings.Cut(value, " ")
		spec.Relations[ontology.IsA] = append(spec.Relations[ontology.IsA], strings.TrimSpace(parent))
	case "relationship":
		kindWord, rest, ok := strings.Cut(value, " ")
		if !ok {
			dec.Warnf("obo: malformed relationship line %q at line %d", line, dec.line)
			return nil
		}
		kind, ok := relationTags[kindWord]
		if !ok {
			dec.Warnf("obo: ignoring unrecognized relation type %q on term %s", kindWord, spec.StringID)
			return nil
		}
		parent, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
		spec.Relations[kind] = append(spec.Relations[kind], parent)
	}
	return nil
}

// stripComment removes a trailing " ! comment" from an OBO tag value.
func stripComment(value string) string {
	if i := strings.Index(value, " ! "); i >= 0 {
		return strings.TrimSpace(value[:i])
	}
	return value
}

// ParseAll reads every [Term] stanza from r into a single slice,
// suitable for ontology.Build.
func ParseAll(r io.Reader) ([]ontology.TermSpec, error) {
	dec := NewDecoder(r)
	var specs []ontology.TermSpec
	for {
		spec, err := dec.Decode()
		if err == io.EOF {
			return specs, nil
		}
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}
}
