package rdf

import (
	"github.com/piprate/json-gold/ld"
)

// Isomorphic reports whether a and b contain the same statements up to a
// renaming of blank nodes. Both sides are brought to URDNA2015 canonical
// N-Quads and compared as text.
func Isomorphic(a, b *Dataset) bool {
	if a.Len() != b.Len() {
		return false
	}
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	if err != nil {
		return false
	}
	return ca == cb
}

// Canonical returns the URDNA2015 canonical N-Quads of ds.
func Canonical(ds *Dataset) (string, error) {
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	out, err := ld.NewNormalisationAlgorithm("URDNA2015").Main(toLD(ds), opts)
	if err != nil {
		return "", err
	}
	s, _ := out.(string)
	return s, nil
}

func toLD(ds *Dataset) *ld.RDFDataset {
	out := ld.NewRDFDataset()
	for _, q := range ds.quads {
		name := "@default"
		switch q.Graph.Kind {
		case KindIRI:
			name = q.Graph.Value
		case KindBlank:
			name = "_:" + q.Graph.Value
		}
		out.Graphs[name] = append(out.Graphs[name],
			ld.NewQuad(toLDNode(q.Subject), toLDNode(q.Predicate), toLDNode(q.Object), name))
	}
	return out
}

func toLDNode(t Term) ld.Node {
	switch t.Kind {
	case KindBlank:
		return ld.NewBlankNode("_:" + t.Value)
	case KindLiteral:
		return ld.NewLiteral(t.Value, t.Datatype, t.Language)
	}
	return ld.NewIRI(t.Value)
}
