package document

import "strings"

// Predicate selects elements.
type Predicate func(*Element) bool

// HasAnyClass matches elements carrying at least one of classes.
func HasAnyClass(classes ...string) Predicate {
	return func(e *Element) bool {
		for _, c := range classes {
			if e.HasClass(c) {
				return true
			}
		}
		return false
	}
}

// Named matches elements by tag name.
func Named(names ...string) Predicate {
	return func(e *Element) bool {
		for _, n := range names {
			if e.Name == n {
				return true
			}
		}
		return false
	}
}

// AttrEquals matches elements whose attribute name equals value,
// compared case-insensitively.
func AttrEquals(name, value string) Predicate {
	return func(e *Element) bool {
		v, ok := e.Attr(name)
		return ok && strings.EqualFold(strings.TrimSpace(v), value)
	}
}

// All combines predicates with logical and.
func All(preds ...Predicate) Predicate {
	return func(e *Element) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

// Find returns the descendants of e matching pred in document order.
func (e *Element) Find(pred Predicate) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		for _, c := range n.Children {
			if pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// First returns the first descendant matching pred, or nil.
func (e *Element) First(pred Predicate) *Element {
	for _, c := range e.Children {
		if pred(c) {
			return c
		}
		if found := c.First(pred); found != nil {
			return found
		}
	}
	return nil
}

// Select returns every element in the document matching pred.
func (d *Document) Select(pred Predicate) []*Element {
	return d.Root.Find(pred)
}

// BaseHref returns the href of the first <base> element, if any.
func (d *Document) BaseHref() (string, bool) {
	base := d.Root.First(Named("base"))
	if base == nil {
		return "", false
	}
	return base.Attr("href")
}

// JSONLDScript finds the first script element of type application/ld+json.
// When id is non-empty only a script with that id matches. A leading '#'
// on id is ignored.
func (d *Document) JSONLDScript(id string) *Element {
	preds := []Predicate{Named("script"), AttrEquals("type", "application/ld+json")}
	if id = strings.TrimPrefix(id, "#"); id != "" {
		preds = append(preds, func(e *Element) bool { return e.AttrOr("id", "") == id })
	}
	return d.Root.First(All(preds...))
}
