package rechtspraak

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/tombee/rechtsbron/pkg/errors"
)

// Kind discriminates the three shapes a decoded node can take.
type Kind int

const (
	// KindScalar is a text leaf.
	KindScalar Kind = iota
	// KindList is an ordered sequence of nodes, produced when a tag
	// occurs more than once under the same parent.
	KindList
	// KindMap is an element with named children and/or attributes.
	KindMap
)

// Node is a generic decoded markup node. The provider's payloads have no
// stable schema: a field may be absent, a single element, or repeated.
// Accessors normalize those shapes so call sites never type-switch.
//
// Attributes are stored as "@name" fields; the character data of a mixed
// element is stored under "#text".
type Node struct {
	kind   Kind
	text   string
	items  []*Node
	fields map[string]*Node
	order  []string
}

// Kind returns the node's shape.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindScalar
	}
	return n.kind
}

// IsNil reports whether the node is absent. Accessors on absent nodes
// return zero values, so lookups can be chained without nil checks.
func (n *Node) IsNil() bool {
	return n == nil
}

// Get walks named fields. Intermediate lists are normalized to their
// first element. Returns nil when any path segment is absent.
func (n *Node) Get(path ...string) *Node {
	cur := n
	for _, name := range path {
		cur = cur.First()
		if cur == nil || cur.kind != KindMap {
			return nil
		}
		cur = cur.fields[name]
	}
	return cur
}

// First normalizes the scalar-or-list ambiguity: a list yields its first
// element, anything else yields itself. Empty lists yield nil.
func (n *Node) First() *Node {
	if n == nil {
		return nil
	}
	if n.kind == KindList {
		if len(n.items) == 0 {
			return nil
		}
		return n.items[0]
	}
	return n
}

// List normalizes to a slice: a list yields its elements, an absent node
// yields nil, anything else yields a one-element slice.
func (n *Node) List() []*Node {
	if n == nil {
		return nil
	}
	if n.kind == KindList {
		return n.items
	}
	return []*Node{n}
}

// Text returns the node's character data. Lists yield their first
// element's text; map nodes yield their "#text" field if present.
func (n *Node) Text() string {
	node := n.First()
	if node == nil {
		return ""
	}
	switch node.kind {
	case KindScalar:
		return node.text
	case KindMap:
		if t := node.fields["#text"]; t != nil {
			return t.Text()
		}
	}
	return ""
}

// Strings collects the text of every element, normalizing scalar-or-list.
// Empty texts are dropped; order is preserved.
func (n *Node) Strings() []string {
	var out []string
	for _, item := range n.List() {
		if s := item.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Fields returns the names of a map node's children in document order.
func (n *Node) Fields() []string {
	node := n.First()
	if node == nil || node.kind != KindMap {
		return nil
	}
	return node.order
}

// Decode parses a markup payload into a generic node tree. The returned
// document node is a map with a single field named after the root element,
// so lookups start with the root tag: doc.Get("feed", "entry").
//
// Decode checks well-formedness only; it never validates against a schema.
// Malformed input yields a ParseError, never an empty tree.
func Decode(raw []byte) (*Node, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, &errors.ParseError{Message: "empty payload"}
	}

	dec := xml.NewDecoder(strings.NewReader(string(raw)))
	doc := newMapNode()
	var rootSeen bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errors.ParseError{Message: "invalid markup", Cause: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if rootSeen {
			return nil, &errors.ParseError{Message: "multiple root elements"}
		}
		rootSeen = true

		child, err := decodeElement(dec, start)
		if err != nil {
			return nil, err
		}
		doc.addField(start.Name.Local, child)
	}

	if !rootSeen {
		return nil, &errors.ParseError{Message: "no root element"}
	}
	return doc, nil
}

// decodeElement consumes one element and its subtree. Elements holding
// only character data collapse to scalars; namespace prefixes are
// discarded, matching the provider's habit of moving fields between
// namespaces across schema revisions.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	node := newMapNode()
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		node.addField("@"+attr.Name.Local, &Node{kind: KindScalar, text: attr.Value})
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &errors.ParseError{Message: "invalid markup", Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			node.addField(t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			content := strings.TrimSpace(text.String())
			if len(node.fields) == 0 {
				return &Node{kind: KindScalar, text: content}, nil
			}
			if content != "" {
				node.addField("#text", &Node{kind: KindScalar, text: content})
			}
			return node, nil
		}
	}
}

func newMapNode() *Node {
	return &Node{kind: KindMap, fields: make(map[string]*Node)}
}

// addField inserts a child, promoting repeated tags to a list node.
func (n *Node) addField(name string, child *Node) {
	existing, ok := n.fields[name]
	if !ok {
		n.fields[name] = child
		n.order = append(n.order, name)
		return
	}
	if existing.kind == KindList {
		existing.items = append(existing.items, child)
		return
	}
	n.fields[name] = &Node{kind: KindList, items: []*Node{existing, child}}
}
