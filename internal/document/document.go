// Package document wraps a parsed HTML page behind selector-based lookups.
// Lookups never fail: a document that could not be parsed, or a selector
// that does not compile, simply yields no matches.
package document

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document provides read-only queries over an HTML document
type Document struct {
	doc *goquery.Document

	mu        sync.RWMutex
	selectors map[string]cascadia.Selector
}

// Element is a single matched HTML element
type Element struct {
	sel *goquery.Selection
}

// Parse builds a Document from raw HTML. The HTML5 parser recovers from
// malformed markup; if parsing fails outright the Document is empty.
func Parse(raw string) *Document {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return FromNode(nil)
	}
	return FromNode(root)
}

// FromNode wraps an already parsed node tree
func FromNode(root *html.Node) *Document {
	if root == nil {
		return &Document{selectors: make(map[string]cascadia.Selector)}
	}
	return &Document{doc: goquery.NewDocumentFromNode(root), selectors: make(map[string]cascadia.Selector)}
}

// Empty reports whether the document has no parsed content
func (d *Document) Empty() bool {
	return d == nil || d.doc == nil
}

// compile caches compiled selectors; extractors run concurrently so the cache is guarded
func (d *Document) compile(selector string) (cascadia.Selector, bool) {
	d.mu.RLock()
	m, ok := d.selectors[selector]
	d.mu.RUnlock()
	if ok {
		return m, m != nil
	}

	m, err := cascadia.Compile(selector)
	if err != nil {
		m = nil
	}

	d.mu.Lock()
	d.selectors[selector] = m
	d.mu.Unlock()
	return m, m != nil
}

func (d *Document) find(selector string) *goquery.Selection {
	if d.Empty() {
		return nil
	}
	m, ok := d.compile(selector)
	if !ok {
		return nil
	}
	return d.doc.FindMatcher(m)
}

// First returns the first element matching selector in document order
func (d *Document) First(selector string) (Element, bool) {
	sel := d.find(selector)
	if sel == nil || sel.Length() == 0 {
		return Element{}, false
	}
	return Element{sel: sel.First()}, true
}

// All returns every element matching selector in document order
func (d *Document) All(selector string) []Element {
	sel := d.find(selector)
	if sel == nil || sel.Length() == 0 {
		return []Element{}
	}
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, Element{sel: s})
	})
	return elements
}

// Exists reports whether at least one element matches selector
func (d *Document) Exists(selector string) bool {
	sel := d.find(selector)
	return sel != nil && sel.Length() > 0
}

// Attr returns the named attribute of the first element matching selector
func (d *Document) Attr(selector, name string) (string, bool) {
	el, ok := d.First(selector)
	if !ok {
		return "", false
	}
	return el.Attr(name)
}

// Text returns the text content of the first element matching selector
func (d *Document) Text(selector string) string {
	el, ok := d.First(selector)
	if !ok {
		return ""
	}
	return el.Text()
}

// Attr returns the value of the named attribute and whether it is present
func (e Element) Attr(name string) (string, bool) {
	if e.sel == nil {
		return "", false
	}
	return e.sel.Attr(name)
}

// Text returns the combined text of the element and its descendants
func (e Element) Text() string {
	if e.sel == nil {
		return ""
	}
	return e.sel.Text()
}

// Tag returns the lower-case tag name
func (e Element) Tag() string {
	if e.sel == nil {
		return ""
	}
	return goquery.NodeName(e.sel)
}
