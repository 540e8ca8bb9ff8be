package rdf

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultPrefixes are the vocabularies tables in specification documents
// may abbreviate without declaring them.
var DefaultPrefixes = map[string]string{
	"dc":      "http://purl.org/dc/terms/",
	"dct":     "http://purl.org/dc/terms/",
	"dcterms": "http://purl.org/dc/terms/",
	"dc11":    "http://purl.org/dc/elements/1.1/",
	"dce":     "http://purl.org/dc/elements/1.1/",
	"cred":    "https://w3id.org/credentials#",
	"ex":      "http://example.org/",
	"foaf":    "http://xmlns.com/foaf/0.1/",
	"prov":    "http://www.w3.org/ns/prov#",
	"rdf":     RDFNamespace,
	"schema":  "http://schema.org/",
	"xsd":     XSDNamespace,
}

// compactPreference picks one prefix where several share a namespace.
var compactPreference = map[string]string{
	"http://purl.org/dc/terms/":        "dcterms",
	"http://purl.org/dc/elements/1.1/": "dc11",
}

var pnamePattern = regexp.MustCompile(`^([A-Za-z][\w.-]*)?:(.*)$`)

// Prefixes maps prefix names to namespace IRIs.
type Prefixes struct {
	ns map[string]string
}

// NewPrefixes returns the default table extended with extra. Entries in
// extra replace defaults of the same name.
func NewPrefixes(extra map[string]string) *Prefixes {
	p := &Prefixes{ns: make(map[string]string, len(DefaultPrefixes)+len(extra))}
	for k, v := range DefaultPrefixes {
		p.ns[k] = v
	}
	for k, v := range extra {
		p.ns[k] = v
	}
	return p
}

// Namespace returns the IRI bound to prefix.
func (p *Prefixes) Namespace(prefix string) (string, bool) {
	ns, ok := p.ns[prefix]
	return ns, ok
}

// Expand resolves a prefixed name, an absolute IRI or an IRI in angle
// brackets to an IRI string. A name whose prefix is not known is taken as
// an absolute IRI in its own scheme, as in mailto: or did:.
func (p *Prefixes) Expand(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return s[1 : len(s)-1], nil
	}
	if strings.Contains(s, "://") {
		return s, nil
	}
	m := pnamePattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("not a prefixed name: %q", s)
	}
	if ns, ok := p.ns[m[1]]; ok {
		return ns + m[2], nil
	}
	if m[1] == "" {
		return "", fmt.Errorf("no default prefix for %q", s)
	}
	return s, nil
}

// Compact abbreviates iri with the longest matching namespace, or returns
// it unchanged.
func (p *Prefixes) Compact(iri string) string {
	best, bestNS := "", ""
	for _, prefix := range p.sortedPrefixes() {
		ns := p.ns[prefix]
		if !strings.HasPrefix(iri, ns) {
			continue
		}
		switch {
		case len(ns) > len(bestNS):
			best, bestNS = prefix, ns
		case len(ns) == len(bestNS) && compactPreference[ns] == prefix:
			best = prefix
		}
	}
	if bestNS == "" {
		return iri
	}
	local := iri[len(bestNS):]
	if strings.ContainsAny(local, "/#?") {
		return iri
	}
	return best + ":" + local
}

func (p *Prefixes) sortedPrefixes() []string {
	out := make([]string, 0, len(p.ns))
	for k := range p.ns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
